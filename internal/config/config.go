// Package config loads and validates the dlverify command settings from
// flags, DLVERIFY_* environment variables, an optional .env file and an
// optional config file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, with dashes mapped to
// underscores: block-size is read from DLVERIFY_BLOCK_SIZE.
const EnvPrefix = "DLVERIFY"

// Config holds the resolved command settings.
type Config struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	Dir             string        `mapstructure:"dir"`
	Output          string        `mapstructure:"output"`
	BlockSize       int           `mapstructure:"block-size" validate:"gt=0"`
	VerifyBlockSize int           `mapstructure:"verify-block-size" validate:"gte=0"`
	Timeout         time.Duration `mapstructure:"timeout" validate:"gte=0"`
	UserAgent       string        `mapstructure:"user-agent"`
	Headers         []string      `mapstructure:"header" validate:"dive,contains=:"`
	RPS             int           `mapstructure:"rps" validate:"gte=0"`
	Burst           int           `mapstructure:"burst" validate:"gte=1"`
	RateLimit       int           `mapstructure:"rate-limit" validate:"gte=0"`
	Attempts        int           `mapstructure:"attempts" validate:"gte=1,lte=10"`
	Yes             bool          `mapstructure:"yes"`
	TokenSource     string        `mapstructure:"token-source" validate:"oneof=reprobe probe"`
	Progress        bool          `mapstructure:"progress"`
	ShowBar         bool          `mapstructure:"showbar"`
	Verbose         bool          `mapstructure:"verbose"`
	Strict          bool          `mapstructure:"strict"`
	MetricsTextfile string        `mapstructure:"metrics-textfile"`
}

// Defaults mirrors the flag defaults so a bare viper instance resolves
// to a runnable configuration.
func Defaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("block-size", 1024)
	v.SetDefault("verify-block-size", 0)
	v.SetDefault("timeout", 0)
	v.SetDefault("user-agent", "dlverify/1.0")
	v.SetDefault("burst", 1)
	v.SetDefault("attempts", 2)
	v.SetDefault("token-source", "reprobe")
}

// Bind configures v to read DLVERIFY_* environment variables and, when
// file is set, the named config file.
func Bind(v *viper.Viper, file string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file == "" {
		return nil
	}

	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
