// Package configd provides loading and parsing of the pigeistd configuration
// file using Viper. It defines the full configuration schema and exposes
// functions to access it at runtime.
package configd

import (
	"errors"
	"fmt"

	"github.com/mfulz/pigeist/internal/acl"
	"github.com/mfulz/pigeist/internal/configloader"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/spf13/viper"
)

// DefaultSocket is the control socket used when no instance is configured.
const DefaultSocket = "/tmp/pigeist.sock"

// Config represents the full structure of the pigeistd configuration file.
type Config struct {
	Robot   robot.Config       `mapstructure:"robot"`
	Keymap  robot.KeymapConfig `mapstructure:"keymap"`
	Control ControlMultiConfig `mapstructure:"control"`
	ACL     acl.Config         `mapstructure:"acl"`
	Logger  logging.Config     `mapstructure:"log"`
}

// AuthSettings allows optional authentication for remote control.
type AuthSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

// ControlInstance describes a single control interface (e.g. unix socket or TCP listener).
type ControlInstance struct {
	Name    string       `mapstructure:"name"`    // instance identifier
	Enabled bool         `mapstructure:"enabled"` // whether this instance is active
	Mode    string       `mapstructure:"mode"`    // "unix" or "tcp"
	Listen  string       `mapstructure:"listen"`  // address or socket path
	Auth    AuthSettings `mapstructure:"auth"`    // authentication settings
}

// ControlMultiConfig supports multiple control instances with distinct settings.
type ControlMultiConfig struct {
	Instances []ControlInstance `mapstructure:"instances"` // enabled control endpoints
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("robot.backend", robot.DefaultBackend)
	v.SetDefault("robot.speeds.straight", 10000)
	v.SetDefault("robot.speeds.turn", 300)
	v.SetDefault("control.instances", []map[string]any{{
		"name":    "local",
		"enabled": true,
		"mode":    "unix",
		"listen":  DefaultSocket,
	}})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.to_stdout", true)
}

// LoadConfig loads the pigeistd configuration from disk using Viper.
// An empty path resolves pigeistd.yaml through configloader.ResolveConfigPath;
// when no file exists the built-in defaults are used. The loaded config and
// its logging section are registered with configloader and the logger is
// re-initialized.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		resolved, err := configloader.ResolveConfigPath("pigeistd", "pigeistd.yaml")
		if err != nil && !errors.Is(err, configloader.ErrNoConfig) {
			return nil, err
		}
		path = resolved
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configloader.SetConfig(&cfg.Logger)
	if err := logging.Init(); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}
	if path == "" {
		logging.Log.Infof("[configd] No config file found, using defaults")
	} else {
		logging.Log.Infof("[configd] Loaded %s", path)
	}

	configloader.SetConfig(&cfg)
	return &cfg, nil
}

// Validate checks the control instances for usable settings.
func (c *Config) Validate() error {
	names := make(map[string]bool)
	for i, inst := range c.Control.Instances {
		if inst.Name == "" {
			return fmt.Errorf("control instance %d has no name", i)
		}
		if names[inst.Name] {
			return fmt.Errorf("duplicate control instance '%s'", inst.Name)
		}
		names[inst.Name] = true
		if !inst.Enabled {
			continue
		}
		if inst.Mode != "unix" && inst.Mode != "tcp" {
			return fmt.Errorf("control instance '%s': unsupported mode '%s'", inst.Name, inst.Mode)
		}
		if inst.Listen == "" {
			return fmt.Errorf("control instance '%s': listen address missing", inst.Name)
		}
		if inst.Auth.Enabled && (!c.ACL.Enabled || len(c.ACL.Users) == 0) {
			return fmt.Errorf("control instance '%s': auth enabled but acl has no users", inst.Name)
		}
	}
	return nil
}
