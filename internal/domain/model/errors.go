package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)
