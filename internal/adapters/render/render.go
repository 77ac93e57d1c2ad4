// Package render writes reports and query results as text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/okian/ptt/internal/domain/types"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Renderer writes results to w.
type Renderer interface {
	Report(w io.Writer, r *types.Report) error
	Rating(w io.Writer, r types.RatingResult) error
	Target(w io.Writer, r types.TargetResult) error
	Required(w io.Writer, r *types.Requirements) error
}

// Option configures the text renderer.
type Option func(*textRenderer)

// WithColor enables or disables styling.
func WithColor(enabled bool) Option {
	return func(t *textRenderer) { t.color = enabled }
}

// WithTheme replaces the default colors.
func WithTheme(theme Theme) Option {
	return func(t *textRenderer) { t.theme = theme }
}

// New returns the renderer for format. Options only affect text output.
func New(format string, opts ...Option) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatText, "":
		t := &textRenderer{color: true, theme: DefaultTheme}
		for _, opt := range opts {
			opt(t)
		}
		return t, nil
	case FormatJSON:
		return encoder{encode: encodeJSON}, nil
	case FormatYAML, "yml":
		return encoder{encode: encodeYAML}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// encoder writes any value with a structured encoding.
type encoder struct {
	encode func(w io.Writer, v any) error
}

func (e encoder) Report(w io.Writer, r *types.Report) error         { return e.encode(w, r) }
func (e encoder) Rating(w io.Writer, r types.RatingResult) error    { return e.encode(w, r) }
func (e encoder) Target(w io.Writer, r types.TargetResult) error    { return e.encode(w, r) }
func (e encoder) Required(w io.Writer, r *types.Requirements) error { return e.encode(w, r) }

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
