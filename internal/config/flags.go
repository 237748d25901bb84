package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-url deployment base URL
//	-request-timeout one-shot call timeout (e.g., "15s", "1m")
//	-cache-path credential cache SQLite file path
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var deploymentURL string
	var requestTimeout time.Duration
	var cachePath string
	var jsonConfigPath string

	flag.StringVar(&deploymentURL, "url", "", "Convex deployment base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 15s, 1m)")
	flag.StringVar(&cachePath, "cache-path", "", "Credential cache file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Deployment: Deployment{
			URL:            deploymentURL,
			RequestTimeout: requestTimeout,
		},
		Cache: Cache{
			Path: cachePath,
		},
		JSONFilePath: jsonConfigPath,
	}
}
