// Package config handles application configuration loading and validation.
//
// Configuration is loaded from a YAML file and validated using struct
// tags. The package supports multiple schedule feeds, graph construction
// parameters, search tuning and an optional geographic barrier.
package config
