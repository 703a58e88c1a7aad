// Package config loads textforge configuration.
//
// Values come from three layers, later ones winning:
//
//  1. config.yml, given explicitly or found in ./cmd/textforge, ./config
//     or the working directory
//  2. a .env file found in the same places
//  3. TEXTFORGE_* environment variables, with underscores standing for
//     nesting (TEXTFORGE_EXECUTOR_WORKERS=8)
//
// # Usage
//
//	cfg, err := config.Load(config.WithConfigFile("config.yml"))
package config
