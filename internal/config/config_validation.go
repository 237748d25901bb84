// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is handed to the SDK.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Deployment.URL == "" {
		return ErrInvalidDeploymentConfigs
	}
	if !strings.HasPrefix(cfg.Deployment.URL, "http://") && !strings.HasPrefix(cfg.Deployment.URL, "https://") {
		return ErrInvalidDeploymentConfigs
	}

	if cfg.Cache.Path != "" && cfg.Cache.Passphrase == "" {
		return ErrInvalidCacheConfigs
	}

	return nil
}
