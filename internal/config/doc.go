// Package config loads ingester configuration from YAML files with
// ${VAR} environment expansion, default filling, and validation.
package config
