package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds pipeline configuration.
type Config struct {
	CSV    CSVConfig    `mapstructure:"csv"`
	Report ReportConfig `mapstructure:"report"`
}

// CSVConfig holds extract-reading settings.
type CSVConfig struct {
	Delimiter       string   `mapstructure:"delimiter"`
	DateFormats     []string `mapstructure:"date_formats"`
	CurrencySymbols []string `mapstructure:"currency_symbols"`
}

// ReportConfig holds view settings.
type ReportConfig struct {
	TopN int `mapstructure:"top_n"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// VENDABOARD_. Defaults make the zero-config path work.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_formats", []string{"02/01/2006", "2/1/2006", "2006-01-02"})
	v.SetDefault("csv.currency_symbols", []string{"R$", "$"})
	v.SetDefault("report.top_n", 10)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("VENDABOARD_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "vendaboard"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("VENDABOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Report.TopN <= 0 {
		return Config{}, fmt.Errorf("report.top_n must be positive, got %d", c.Report.TopN)
	}
	return c, nil
}

// DelimiterRune returns the configured field delimiter as a rune, falling
// back to ',' when the setting is empty or multi-rune.
func (c CSVConfig) DelimiterRune() rune {
	runes := []rune(c.Delimiter)
	if len(runes) != 1 {
		return ','
	}
	return runes[0]
}
