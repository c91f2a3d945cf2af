// ABOUTME: Persistent client storage for the session token and user
// ABOUTME: Defines the key-value contract shared by file and memory backends

package storage

import (
	"os"
	"path/filepath"
)

// Keys written and cleared together by the session store
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage is the persistent client storage.
// SetAll and Remove apply all keys in a single write.
type Storage interface {
	Get(key string) (string, bool, error)
	SetAll(values map[string]string) error
	Remove(keys ...string) error
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hrms")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hrms")
}
