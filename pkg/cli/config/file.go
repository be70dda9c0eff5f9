package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// File holds per-user defaults loaded from the optional configuration file
// at ~/.config/releasetools/config.toml. Command line flags override every
// value here.
type File struct {
	Remote          string `toml:"remote"`
	WebDir          string `toml:"webdir"`
	GAP             string `toml:"gap"`
	AnnounceWebhook string `toml:"announce_webhook"`
	Push            bool   `toml:"push"`
}

// DefaultFilePath returns the configuration file location, or "" when no
// home directory is known.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "releasetools", "config.toml")
}

// LoadFile reads the defaults file. A missing file is not an error; a
// malformed one is.
func LoadFile(path string) (*File, error) {
	var cfg File
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, goerr.Wrap(err, "failed to read configuration file", goerr.V("path", path))
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "malformed configuration file", goerr.V("path", path))
	}
	return &cfg, nil
}
