// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for
// applications built on the SDK (the demo binary in particular). It is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Deployment holds the Convex deployment endpoint settings.
	Deployment Deployment `envPrefix:"CONVEX_"`

	// Cache holds the on-device credential cache settings.
	Cache Cache `envPrefix:"CONVEX_CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Deployment holds the endpoint settings of one Convex deployment.
type Deployment struct {
	// URL is the deployment base URL,
	// e.g. "https://happy-otter-123.convex.cloud".
	// Env: CONVEX_URL
	URL string `env:"URL"`

	// RequestTimeout is the maximum duration of a single one-shot
	// function call (e.g. "15s", "1m").
	// Env: CONVEX_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Cache holds settings for the local credential cache used by
// LoginFromCache.
type Cache struct {
	// Path is the SQLite file the encrypted credential cache lives in.
	// Env: CONVEX_CACHE_PATH
	Path string `env:"PATH"`

	// Passphrase protects cached credentials at rest. Must be kept
	// confidential.
	// Env: CONVEX_CACHE_PASSPHRASE
	Passphrase string `env:"PASSPHRASE"`
}

// GetConfig loads, merges, and validates the configuration from all
// available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
