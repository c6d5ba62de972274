package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. WARDROBE_COMPACT=true
const EnvPrefix = "WARDROBE"

// Config is the resolved configuration of a command run
type Config struct {
	Compact     bool
	SkipInvalid bool
	Exclude     []string
	Catalog     string
	LogLevel    string
	LogJSON     bool
	NoColor     bool
}

// loadConfig resolves flags, WARDROBE_* environment variables and an
// optional config file, in that order of precedence.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("log-level", "info")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	return Config{
		Compact:     v.GetBool("compact"),
		SkipInvalid: v.GetBool("skip-invalid"),
		Exclude:     v.GetStringSlice("exclude"),
		Catalog:     v.GetString("catalog"),
		LogLevel:    v.GetString("log-level"),
		LogJSON:     v.GetBool("log-json"),
		NoColor:     v.GetBool("no-color"),
	}, nil
}
