// Package config provides configuration management for
// nexus-downloader.
//
// This package handles:
//   - Default configuration values
//   - Loading overrides from an optional nexus-dl.env file or the
//     environment (via viper)
//   - Loading the Nexus Mods API key from its key file
//
// # Loading
//
//	settings, err := config.Load()
//	// downloads to ./downloads, 60s HTTP timeout, 3 retries
//
//	apiKey, err := config.LoadAPIKey(settings.KeyPath)
//
// Settings travel as an explicit object; components receive them at
// construction instead of reading globals.
package config
