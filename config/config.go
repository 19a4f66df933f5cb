// Package config loads the user's preferences. Values come from a .env file
// next to the executable (or SHOTBAR_ENV as an alternate path) with process
// environment overrides. Load is cheap and is called at the point of use:
// the capture flow re-reads preferences for every save rather than caching
// them across captures.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvPathVar = "SHOTBAR_ENV"

	DefaultHotkeyRegion = "Ctrl+Shift+4"
	DefaultHotkeyWindow = "Ctrl+Shift+5"
	DefaultHotkeyScreen = "Ctrl+Shift+3"
)

type Config struct {
	Destination       string // "clipboard" or "file"
	Format            string // "png" or "jpeg"
	SaveDir           string
	JPEGQuality       int
	ShutterSound      bool
	EnableFileLogging bool
	HotkeyRegion      string
	HotkeyWindow      string
	HotkeyScreen      string
}

func Load() (*Config, error) {
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	quality := 90
	if v := os.Getenv("JPEG_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			quality = n
		}
	}

	cfg := &Config{
		Destination:       resolveDestination(os.Getenv("DESTINATION")),
		Format:            resolveFormat(os.Getenv("FORMAT")),
		SaveDir:           resolveSaveDir(os.Getenv("SAVE_DIR")),
		JPEGQuality:       quality,
		ShutterSound:      strings.ToLower(os.Getenv("SHUTTER_SOUND")) == "true",
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
		HotkeyRegion:      getEnvWithDefault("HOTKEY_REGION", DefaultHotkeyRegion),
		HotkeyWindow:      getEnvWithDefault("HOTKEY_WINDOW", DefaultHotkeyWindow),
		HotkeyScreen:      getEnvWithDefault("HOTKEY_SCREEN", DefaultHotkeyScreen),
	}
	return cfg, nil
}

// resolveEnvPath prefers .env beside the executable, then SHOTBAR_ENV.
func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}
	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}
	return ""
}

func resolveDestination(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "file":
		return "file"
	default:
		return "clipboard"
	}
}

func resolveFormat(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "jpg", "jpeg":
		return "jpeg"
	default:
		return "png"
	}
}

func resolveSaveDir(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "Pictures")
	}
	return "."
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
