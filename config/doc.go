// Package config loads the iocapture configuration.
//
// Values come from config.yml and then the environment, with variables from
// a .env file added to the environment first. Files are searched in
// cmd/iocapture, config/iocapture, config and the working directory, from
// the working directory and up to two levels above it, unless passed
// explicitly.
//
// # Usage
//
//	cfg, err := config.Load(func(c *config.Config) {
//		c.Capture.Pattern = "Calculator.add"
//	}, config.WithConfigFile("capture.yml"))
//
// Environment variables override file values using underscore-separated
// paths (e.g. CAPTURE_PATTERN, STORAGE_BASE_PATH). The IOCAPTURE_ prefixed
// form wins when both are set and is the only form for top level keys.
package config
