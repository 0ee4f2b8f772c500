// Package config loads and validates the terminal configuration file.
package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/plhk/pterm/internal/logging"
)

// PaletteSize is the number of ANSI palette slots a configuration carries.
const PaletteSize = 16

// defaultTOML is the config file written on first run. It must stay in
// sync with Defaults; config_test asserts that.
//
//go:embed default.toml
var defaultTOML []byte

// Colors holds the raw color strings from the config file. Parsing and
// per-slot fallback happen in the theme package.
type Colors struct {
	Foreground string
	Background string
	Palette    []string
}

// Config is the effective terminal configuration.
type Config struct {
	FontFamily string
	FontSize   int
	Colors     Colors
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		FontFamily: "monospace",
		FontSize:   11,
		Colors: Colors{
			Foreground: "#ababb2bf",
			Background: "#28272c34",
			Palette: []string{
				"#282c34", "#e06c75", "#98c379", "#e5c07b",
				"#61afef", "#c678dd", "#56b6c2", "#abb2bf",
				"#5c6370", "#e06c75", "#98c379", "#d19a66",
				"#61afef", "#c678dd", "#56b6c2", "#ffffff",
			},
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "pterm", "config.toml")
}

// Store reads the configuration file. A zero-value path means the
// per-user default location.
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a store for the given config file path.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath()
	}
	return &Store{
		path:   path,
		logger: logging.Component("config"),
	}
}

// Path returns the config file path the store reads from.
func (s *Store) Path() string {
	return s.path
}

// Load reads the config file and returns the effective configuration.
// Missing files, absent keys, and invalid values each fall back to the
// built-in default for that field; Load never fails.
func (s *Store) Load() Config {
	defaults := Defaults()

	v := viper.New()
	v.SetConfigType("toml")
	v.SetDefault("font_family", defaults.FontFamily)
	v.SetDefault("font_size", defaults.FontSize)
	v.SetDefault("colors.foreground", defaults.Colors.Foreground)
	v.SetDefault("colors.background", defaults.Colors.Background)
	v.SetDefault("colors.palette", defaults.Colors.Palette)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.writeThrough()
		} else {
			s.logger.Warn().Err(err).Str("path", s.path).Msg("cannot read config, using defaults")
		}
		return defaults
	}

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("cannot parse config, using defaults")
		return defaults
	}

	// Decode key by key so a mistyped value only defaults that key,
	// never its valid siblings.
	cfg := Config{
		FontFamily: s.stringKey(v, "font_family", defaults.FontFamily),
		FontSize:   s.intKey(v, "font_size", defaults.FontSize),
		Colors: Colors{
			Foreground: s.stringKey(v, "colors.foreground", defaults.Colors.Foreground),
			Background: s.stringKey(v, "colors.background", defaults.Colors.Background),
			Palette:    s.stringSliceKey(v, "colors.palette", defaults.Colors.Palette),
		},
	}

	return s.validate(cfg, defaults)
}

func (s *Store) stringKey(v *viper.Viper, key, def string) string {
	val, err := cast.ToStringE(v.Get(key))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("invalid value, using default")
		return def
	}
	return val
}

func (s *Store) intKey(v *viper.Viper, key string, def int) int {
	val, err := cast.ToIntE(v.Get(key))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("invalid value, using default")
		return def
	}
	return val
}

func (s *Store) stringSliceKey(v *viper.Viper, key string, def []string) []string {
	val, err := cast.ToStringSliceE(v.Get(key))
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("invalid value, using default")
		return def
	}
	return val
}

// validate corrects invalid fields one at a time, keeping the rest.
func (s *Store) validate(cfg, defaults Config) Config {
	if cfg.FontFamily == "" {
		cfg.FontFamily = defaults.FontFamily
	}
	if cfg.FontSize <= 0 {
		s.logger.Warn().Int("font_size", cfg.FontSize).Msg("font_size must be positive, using default")
		cfg.FontSize = defaults.FontSize
	}
	if cfg.Colors.Foreground == "" {
		cfg.Colors.Foreground = defaults.Colors.Foreground
	}
	if cfg.Colors.Background == "" {
		cfg.Colors.Background = defaults.Colors.Background
	}
	if len(cfg.Colors.Palette) != PaletteSize {
		s.logger.Warn().Int("entries", len(cfg.Colors.Palette)).Msg("palette must have 16 entries, padding from defaults")
		cfg.Colors.Palette = padPalette(cfg.Colors.Palette, defaults.Colors.Palette)
	}
	return cfg
}

// padPalette fixes the palette length positionally: extra entries are
// dropped, missing slots take the default for that slot.
func padPalette(entries, defaults []string) []string {
	fixed := make([]string, PaletteSize)
	for i := range fixed {
		if i < len(entries) {
			fixed[i] = entries[i]
		} else {
			fixed[i] = defaults[i]
		}
	}
	return fixed
}

// writeThrough creates the config file with the built-in defaults so the
// user has something to edit. Failures are logged, never fatal.
func (s *Store) writeThrough() {
	if s.path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Warn().Err(err).Msg("cannot create config directory")
		return
	}
	if err := os.WriteFile(s.path, defaultTOML, 0o644); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("cannot write default config")
		return
	}
	s.logger.Info().Str("path", s.path).Msg("wrote default config")
}
