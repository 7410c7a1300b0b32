// Package configcli handles loading and managing local pigeistctl configuration.
// This includes user tokens, known daemon connection targets and the robot
// settings used by local (daemon-less) mode.
package configcli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mfulz/pigeist/internal/configloader"
	"github.com/mfulz/pigeist/internal/logging"
	"github.com/mfulz/pigeist/internal/robot"
	"github.com/spf13/viper"
)

// DefaultDaemon is the daemon entry used when none is configured.
const DefaultDaemon = "local"

// UserConfig represents authentication info for a specific logical user.
type UserConfig struct {
	Token string `mapstructure:"token"`
}

// DaemonConfig represents one connection target (unix socket or TCP).
type DaemonConfig struct {
	Socket string `mapstructure:"socket,omitempty"`
	TCP    string `mapstructure:"tcp,omitempty"`
}

// Config holds the entire client-side pigeistctl configuration.
type Config struct {
	User    string                  `mapstructure:"user"` // default user when -u is not given
	Users   map[string]UserConfig   `mapstructure:"users"`
	Daemons map[string]DaemonConfig `mapstructure:"daemons"`
	Robot   robot.Config            `mapstructure:"robot"`
	Keymap  robot.KeymapConfig      `mapstructure:"keymap"`
	Logger  logging.Config          `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("daemons."+DefaultDaemon+".socket", "/tmp/pigeist.sock")
	v.SetDefault("robot.backend", robot.DefaultBackend)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.to_stderr", true)
}

// LoadConfig loads the pigeistctl configuration using Viper.
// An empty path resolves pigeistctl.yaml through configloader.ResolveConfigPath;
// when no file exists the built-in defaults are used.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		resolved, err := configloader.ResolveConfigPath("pigeistctl", "pigeistctl.yaml")
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

	configloader.SetConfig(&cfg)
	configloader.SetConfig(&cfg.Logger)
	return &cfg, nil
}

// DaemonNames returns the configured daemon names, sorted.
func (c *Config) DaemonNames() []string {
	names := make([]string, 0, len(c.Daemons))
	for name := range c.Daemons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultDaemonName returns "local" when configured, otherwise the first
// daemon name, or "" if none is configured.
func (c *Config) DefaultDaemonName() string {
	if _, ok := c.Daemons[DefaultDaemon]; ok {
		return DefaultDaemon
	}
	if names := c.DaemonNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}
