package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Difficulty is a chart's difficulty tier.
type Difficulty int

// Difficulty tiers in in-game order.
const (
	Past Difficulty = iota
	Present
	Future
	Beyond
	Eternal
)

var difficultyNames = [...]string{"PST", "PRS", "FTR", "BYD", "ETR"}

var difficultyAliases = map[string]Difficulty{
	"past": Past, "pst": Past,
	"present": Present, "prs": Present,
	"future": Future, "ftr": Future,
	"beyond": Beyond, "byd": Beyond,
	"eternal": Eternal, "etr": Eternal,
}

// ParseDifficulty accepts a tier name (FTR, future) or an index (0-4).
func ParseDifficulty(s string) (Difficulty, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := difficultyAliases[key]; ok {
		return d, nil
	}
	if i, err := strconv.Atoi(key); err == nil && Difficulty(i).Valid() {
		return Difficulty(i), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Valid reports whether d is a known tier.
func (d Difficulty) Valid() bool {
	return d >= Past && d <= Eternal
}

func (d Difficulty) String() string {
	if !d.Valid() {
		return "UNKNOWN"
	}
	return difficultyNames[d]
}

// MarshalText writes the short tier name.
func (d Difficulty) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDifficulty, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalJSON accepts "FTR" as well as 2.
func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var i int
		if err := json.Unmarshal(b, &i); err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownDifficulty, string(b))
		}
		s = strconv.Itoa(i)
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Difficulty) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", ErrUnknownDifficulty, value.Line)
	}
	parsed, err := ParseDifficulty(value.Value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
