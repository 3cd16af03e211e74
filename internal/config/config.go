// Package config loads process-level dispatcher settings from flags,
// environment variables, a .env file, and a YAML config file, in that
// order of precedence: a CLI flag wins over an environment variable,
// which wins over a config file entry, which wins over a built-in
// default, generalized across the full settings surface via viper.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Settings holds the dispatcher-facing configuration a cmd/lampdemo-style
// program loads once at startup.
type Settings struct {
	LogLevel          string
	LogFile           string
	MaxFailedAttempts int
	CommandPrefix     string
	HistoryFile       string
}

// defaults mirrors what Load returns when nothing overrides it.
func defaults() Settings {
	return Settings{
		LogLevel:          "info",
		LogFile:           "",
		MaxFailedAttempts: 256,
		CommandPrefix:     "",
		HistoryFile:       ".lamp_history",
	}
}

// Load builds Settings from, in increasing precedence: built-in
// defaults, a lamp.yaml config file (searched in configDir and the
// working directory), a .env file (loaded into the process environment
// before env vars are read), LAMP_* environment variables, and finally
// flags already parsed into fs.
func Load(fs *pflag.FlagSet, configDir string) (Settings, error) {
	_ = godotenv.Load() // a missing .env file is not an error

	v := viper.New()
	d := defaults()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("max_failed_attempts", d.MaxFailedAttempts)
	v.SetDefault("command_prefix", d.CommandPrefix)
	v.SetDefault("history_file", d.HistoryFile)

	v.SetEnvPrefix("LAMP")
	v.AutomaticEnv()
	keys := []string{"log_level", "log_file", "max_failed_attempts", "command_prefix", "history_file"}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	v.SetConfigName("lamp")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, err
		}
	}

	if fs != nil {
		// Flags are spelled with dashes ("log-level") while settings keys
		// use underscores, so each flag is bound to its key explicitly.
		for _, key := range keys {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	return Settings{
		LogLevel:          v.GetString("log_level"),
		LogFile:           v.GetString("log_file"),
		MaxFailedAttempts: v.GetInt("max_failed_attempts"),
		CommandPrefix:     v.GetString("command_prefix"),
		HistoryFile:       v.GetString("history_file"),
	}, nil
}

// Flags registers the CLI flags Load reads via fs, matching the
// top-level Settings fields.
func Flags(fs *pflag.FlagSet) {
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("log-file", "", "log output file (default stderr)")
	fs.Int("max-failed-attempts", 0, "bound on dispatch branch exploration")
	fs.String("command-prefix", "", "prefix stripped from every dispatched line")
	fs.String("history-file", "", "console history file path")
}
