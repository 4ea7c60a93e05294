// Package config loads game settings from defaults, an optional YAML file
// and GOMATCH_* environment variables, in increasing order of precedence,
// and validates the result before anything else starts.
package config
