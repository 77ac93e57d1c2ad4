package profile

import "errors"

// Sentinel kinds for profile loading errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported profile format")
	ErrDecode            = errors.New("decode profile failed")
	ErrEmptyProfile      = errors.New("profile has no charts")
)
