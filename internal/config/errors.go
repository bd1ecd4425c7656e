package config

import "errors"

// Errors returned by flat key access, so callers can tell a bad key from
// a bad value.
var (
	// ErrUnknownKey indicates the dotted key names no setting.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrTypeMismatch indicates the value type does not fit the setting.
	ErrTypeMismatch = errors.New("config value type mismatch")
)
