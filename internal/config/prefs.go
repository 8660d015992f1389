package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// RatesEnvVar overrides the rate table file named in the preferences.
const RatesEnvVar = "ABLECALC_RATES"

// Prefs holds per-user ablecalc preferences.
type Prefs struct {
	Output  OutputPrefs  `toml:"output"`
	Rates   RatesPrefs   `toml:"rates"`
	History HistoryPrefs `toml:"history"`
	Server  ServerPrefs  `toml:"server"`
}

// OutputPrefs holds report defaults.
type OutputPrefs struct {
	Format string `toml:"format"`
	Debug  bool   `toml:"debug"`
}

// RatesPrefs points at a rate table file used instead of the embedded one.
type RatesPrefs struct {
	File string `toml:"file,omitempty"`
}

// HistoryPrefs controls the run history database.
type HistoryPrefs struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path,omitempty"`
}

// ServerPrefs holds HTTP server settings.
type ServerPrefs struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{
		Output: OutputPrefs{
			Format: "console",
		},
		History: HistoryPrefs{
			Enabled: true,
		},
		Server: ServerPrefs{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ablecalc")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ablecalc")
}

// ConfigPath returns the full path to the preferences file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the preferences file, returning defaults if it doesn't exist.
func Load() (Prefs, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads preferences from path. Keys missing from the file keep
// their default values.
func LoadFrom(path string) (Prefs, error) {
	prefs := DefaultPrefs()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("reading config: %w", err)
	}

	if _, err := toml.Decode(string(data), &prefs); err != nil {
		return prefs, fmt.Errorf("parsing config: %w", err)
	}

	return prefs, nil
}

// Save writes the preferences to the default location.
func Save(prefs Prefs) error {
	return SaveTo(ConfigPath(), prefs)
}

// SaveTo writes the preferences to path, creating its directory.
func SaveTo(path string, prefs Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(prefs)
}

// RatesFile returns the rate table override from the environment or the
// preferences, in that order. Empty means the embedded tables.
func RatesFile(prefs Prefs) string {
	if path := os.Getenv(RatesEnvVar); path != "" {
		return path
	}
	return prefs.Rates.File
}

// HistoryDBPath returns the history database location.
func HistoryDBPath(prefs Prefs) string {
	if prefs.History.DBPath != "" {
		return prefs.History.DBPath
	}
	return filepath.Join(ConfigDir(), "history.db")
}
