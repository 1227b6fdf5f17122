package config

import "errors"

// ErrInvalidConfig is the sentinel wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")
