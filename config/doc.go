// Package config handles application configuration loading and validation
// for the gtfs-tripify CLI.
//
// Configuration is loaded from config.yml and validated using struct tags.
package config
