package config

import "time"

// Config holds all application configuration.
type Config struct {
	Difficulty    string        `mapstructure:"difficulty" validate:"required,oneof=easy medium hard"`
	MatchDelay    time.Duration `mapstructure:"match_delay" validate:"gt=0"`
	MismatchDelay time.Duration `mapstructure:"mismatch_delay" validate:"gt=0"`
	LogLevel      string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFile receives JSON logs. Empty discards them, since the terminal
	// belongs to the UI.
	LogFile string `mapstructure:"log_file"`
	// Faces is an optional file or directory of card faces.
	Faces string `mapstructure:"faces"`
}
