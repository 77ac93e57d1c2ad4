package config

import "errors"

var (
	// ErrInvalidConfig is returned by Validate for out-of-range or unknown values.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig wraps failures reading the config file or environment.
	ErrLoadConfig = errors.New("load config")
)
