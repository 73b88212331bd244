// Copyright © 2024 The Lithium authors

// Package config loads lithium settings through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/imports"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
)

// Name is the base name of the config file searched in the home directory.
const Name = ".lithium"

// EnvPrefix prefixes environment overrides, e.g. LITHIUM_LITHIUM_COMMAND.
const EnvPrefix = "LITHIUM"

// Config holds every setting the commands consume.
type Config struct {
	Lithium  Lithium  `mapstructure:"lithium"`
	Log      Log      `mapstructure:"log"`
	Location Location `mapstructure:"location"`
	Imports  Imports  `mapstructure:"imports"`
	Complete Complete `mapstructure:"complete"`
	Problems Problems `mapstructure:"problems"`
	Syntaxes []string `mapstructure:"syntaxes"`
}

// Lithium configures the external tool.
type Lithium struct {
	Command string            `mapstructure:"command"`
	Opts    map[string]string `mapstructure:"opts"`
}

// Log holds the three log switches.
type Log struct {
	Debug   bool `mapstructure:"debug"`
	Info    bool `mapstructure:"info"`
	Warning bool `mapstructure:"warning"`
}

// Verbosity maps the switches to a commonlog verbosity.
func (l Log) Verbosity() int {
	switch {
	case l.Debug:
		return 2
	case l.Info:
		return 1
	case l.Warning:
		return 0
	}
	return -1
}

type Location struct {
	Patterns []string `mapstructure:"patterns"`
}

type Imports struct {
	StandardPrefixes []string `mapstructure:"standard_prefixes"`
}

type Complete struct {
	MaxVariants int `mapstructure:"max_variants"`
}

type Problems struct {
	File string `mapstructure:"file"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("lithium.command", "lithium")
	v.SetDefault("lithium.opts", map[string]string{})
	v.SetDefault("log.debug", false)
	v.SetDefault("log.info", true)
	v.SetDefault("log.warning", true)
	v.SetDefault("location.patterns", classinfo.DefaultLocationPatterns)
	v.SetDefault("imports.standard_prefixes", imports.DefaultStandardPrefixes)
	v.SetDefault("complete.max_variants", 20)
	v.SetDefault("syntaxes", []string{"java", "kotlin", "scala", "groovy"})
	v.SetDefault("problems.file", ".lithium/problems.json")
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	c, err := Decode(v)
	if err != nil {
		// defaults always decode
		panic(err)
	}
	return c
}

// Prepare sets defaults, environment binding and the config file location
// on v. An empty file searches the user's home directory for ".lithium".
func Prepare(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	v.AddConfigPath(home)
	v.SetConfigName(Name)
	return nil
}

// Load prepares v and reads the config file. A missing file in the home
// directory is not an error; a missing explicit file is.
func Load(v *viper.Viper, file string) (*Config, error) {
	if err := Prepare(v, file); err != nil {
		return nil, err
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else {
		commonlog.GetLogger("lithium.config").Debugf("using config file %s", v.ConfigFileUsed())
	}
	return Decode(v)
}

// Decode unmarshals the settings held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if c.Lithium.Opts == nil {
		c.Lithium.Opts = map[string]string{}
	}
	return &c, nil
}

// SyntaxEnabled reports whether syntax is one of the enabled syntaxes.
func (c *Config) SyntaxEnabled(syntax string) bool {
	for _, s := range c.Syntaxes {
		if s == syntax {
			return true
		}
	}
	return false
}
