// Package config loads the options of every command from flags, environment
// variables and an optional YAML file.
//
// Precedence, highest first: flags set on the command line, DUC_* environment
// variables, the command's section of the config file, top-level keys of the
// config file, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// HTML holds the options of the HTML report, shared by the cgi and serve commands.
type HTML struct {
	Apparent bool    `mapstructure:"apparent"`
	Bytes    bool    `mapstructure:"bytes"`
	Count    bool    `mapstructure:"count"`
	CSSURL   string  `mapstructure:"css-url"`
	Database string  `mapstructure:"database"`
	DBDir    string  `mapstructure:"dbdir"`
	Footer   string  `mapstructure:"footer"`
	Fuzz     float64 `mapstructure:"fuzz" validate:"gte=0,lte=1"`
	Gradient bool    `mapstructure:"gradient"`
	Header   string  `mapstructure:"header"`
	Levels   int     `mapstructure:"levels" validate:"gte=1,lte=16"`
	List     bool    `mapstructure:"list"`
	Palette  string  `mapstructure:"palette"`
	RingGap  int     `mapstructure:"ring-gap" validate:"gte=0"`
	Size     int     `mapstructure:"size" validate:"gte=64,lte=8192"`
	Tooltip  bool    `mapstructure:"tooltip"`
}

type Serve struct {
	HTML   `mapstructure:",squash"`
	Listen string `mapstructure:"listen" validate:"required"`
}

type JSON struct {
	Apparent        bool    `mapstructure:"apparent"`
	Database        string  `mapstructure:"database"`
	ExcludeFiles    bool    `mapstructure:"exclude-files"`
	MinSize         float64 `mapstructure:"min_size" validate:"gte=0"`
	MinSizeRelative float64 `mapstructure:"min_size_relative" validate:"gte=0,lte=1"`
	MaxNumItems     int     `mapstructure:"max_num_items" validate:"gte=-1"`
}

type Index struct {
	Database string `mapstructure:"database"`
	Workers  int    `mapstructure:"workers" validate:"gte=0"`
	Progress bool   `mapstructure:"progress"`
}

type Info struct {
	Apparent bool   `mapstructure:"apparent"`
	Bytes    bool   `mapstructure:"bytes"`
	Database string `mapstructure:"database"`
}

// Load reads the options of the command called section into a T.
// flags may be nil.
func Load[T any](section, configPath string, flags *pflag.FlagSet) (*T, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}
	if sub := v.Sub(section); sub != nil {
		if err := v.MergeConfigMap(sub.AllSettings()); err != nil {
			return nil, fmt.Errorf("failed to merge %s section: %w", section, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg T
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	// DUC_RING_GAP=8, DUC_MIN_SIZE_RELATIVE=0.01
	v.SetEnvPrefix("DUC")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "duc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "duc")
}

// DefaultConfigPath returns where Load looks when no config file is given.
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
