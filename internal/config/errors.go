package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidDeploymentConfigs indicates invalid deployment settings
	// (for example, an empty or non-HTTP base URL).
	ErrInvalidDeploymentConfigs = errors.New("invalid deployment configuration")
	// ErrInvalidCacheConfigs indicates invalid credential cache settings
	// (for example, a cache path without a passphrase).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
)
