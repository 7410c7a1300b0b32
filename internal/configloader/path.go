package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoConfig is returned when no config file exists in any search location.
var ErrNoConfig = errors.New("no config file found")

// EnvConfig names the environment variable that overrides config path resolution.
const EnvConfig = "PIGEIST_CONFIG"

// ResolveConfigPath returns the best config path for a given subsystem and filename.
// It checks, in order:
// 1. $PIGEIST_CONFIG if set (absolute path)
// 2. ~/.pigeist/<subsystem>/<file>
// 3. /etc/pigeist/<file>
func ResolveConfigPath(subsystem, file string) (string, error) {
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".pigeist", subsystem, file)
		if _, err := os.Stat(userPath); err == nil {
			return userPath, nil
		}
	}
	systemPath := filepath.Join("/etc/pigeist", file)
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath, nil
	}
	return "", fmt.Errorf("%w for %s/%s", ErrNoConfig, subsystem, file)
}
