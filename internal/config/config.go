// Package config loads picker settings from a TOML file, environment
// variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/s-show/tripick/internal/host"
	"github.com/s-show/tripick/internal/mru"
	"github.com/s-show/tripick/internal/source"
)

const (
	// AppName is used for the config directory and the env prefix.
	AppName = "tripick"
	// ConfigFileName is the file searched in the user config directory.
	ConfigFileName = "config.toml"
	// ProjectFileName is the file searched in the working directory.
	ProjectFileName = ".tripick.toml"
)

// Config is the full picker configuration.
type Config struct {
	Sources SourcesConfig `mapstructure:"sources"`
	Buffers BuffersConfig `mapstructure:"buffers"`
	MRU     MRUConfig     `mapstructure:"mru"`
	Walk    WalkConfig    `mapstructure:"walk"`
	Display DisplayConfig `mapstructure:"display"`
	Dedup   DedupConfig   `mapstructure:"dedup"`
	Log     LogConfig     `mapstructure:"log"`
}

// SourcesConfig toggles the three inputs. Disabled sources are skipped
// entirely, they produce neither items nor diagnostics.
type SourcesConfig struct {
	Buffers bool `mapstructure:"buffers"`
	MRU     bool `mapstructure:"mru"`
	Walk    bool `mapstructure:"walk"`
}

// BuffersConfig controls the open-document source.
type BuffersConfig struct {
	// Snapshot is the JSON file the editor writes before spawning the
	// picker. Empty falls back to the TRIPICK_BUFFERS variable.
	Snapshot string `mapstructure:"snapshot"`
	// Sort orders buffers by last use: "asc" or "desc".
	Sort string `mapstructure:"sort"`
}

// MRUConfig controls the most-recently-used source.
type MRUConfig struct {
	// Command is the helper argv; the register name is appended.
	Command []string `mapstructure:"command"`
	// Variant picks the register: mru, mrw, mrr or mrd.
	Variant string `mapstructure:"variant"`
	// Timeout bounds one registry query. Zero disables the bound.
	Timeout time.Duration `mapstructure:"timeout"`
}

// WalkConfig controls the filesystem enumeration.
type WalkConfig struct {
	// Root is the directory to enumerate. Defaults to the working
	// directory; a positional command-line argument overrides it.
	Root string `mapstructure:"root"`
	// ChunkSize is the base delivery batch size.
	ChunkSize int `mapstructure:"chunk_size"`
	// SkipDirs lists directory names that are never entered.
	SkipDirs []string `mapstructure:"skip_dirs"`
	// SkipPatterns lists doublestar globs dropped from the walk.
	SkipPatterns []string `mapstructure:"skip_patterns"`
	// SkipHidden drops hidden files and directories.
	SkipHidden bool `mapstructure:"skip_hidden"`
	// FollowSymlinks resolves links during the walk.
	FollowSymlinks bool `mapstructure:"follow_symlinks"`
}

// DisplayConfig controls item presentation.
type DisplayConfig struct {
	// Tags prepends the provenance label (buf, mru, rec) to each item.
	Tags bool `mapstructure:"tags"`
}

// DedupConfig controls cross-source deduplication.
type DedupConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	// Level is a charmbracelet/log level name.
	Level string `mapstructure:"level"`
	// File receives log lines; empty discards them while the UI owns
	// the terminal.
	File string `mapstructure:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sources: SourcesConfig{Buffers: true, MRU: true, Walk: true},
		Buffers: BuffersConfig{Sort: source.SortDescending},
		MRU:     MRUConfig{Variant: string(mru.VariantUsed), Timeout: time.Second},
		Walk: WalkConfig{
			Root:      ".",
			ChunkSize: 1000,
			SkipDirs:  []string{".git"},
		},
		Display: DisplayConfig{Tags: true},
		Dedup:   DedupConfig{Enabled: true},
		Log:     LogConfig{Level: "warn"},
	}
}

// Load reads configuration. An explicit path must exist; otherwise the
// working directory's ProjectFileName is tried, then ConfigFileName in the
// user config directory, then defaults alone. TRIPICK_* variables override
// file values.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	default:
		if candidate := findConfigFile(); candidate != "" {
			v.SetConfigFile(candidate)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", candidate, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Buffers.Snapshot == "" {
		cfg.Buffers.Snapshot = os.Getenv(host.SnapshotEnv)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("sources.buffers", d.Sources.Buffers)
	v.SetDefault("sources.mru", d.Sources.MRU)
	v.SetDefault("sources.walk", d.Sources.Walk)
	v.SetDefault("buffers.snapshot", d.Buffers.Snapshot)
	v.SetDefault("buffers.sort", d.Buffers.Sort)
	v.SetDefault("mru.command", d.MRU.Command)
	v.SetDefault("mru.variant", d.MRU.Variant)
	v.SetDefault("mru.timeout", d.MRU.Timeout)
	v.SetDefault("walk.root", d.Walk.Root)
	v.SetDefault("walk.chunk_size", d.Walk.ChunkSize)
	v.SetDefault("walk.skip_dirs", d.Walk.SkipDirs)
	v.SetDefault("walk.skip_patterns", d.Walk.SkipPatterns)
	v.SetDefault("walk.skip_hidden", d.Walk.SkipHidden)
	v.SetDefault("walk.follow_symlinks", d.Walk.FollowSymlinks)
	v.SetDefault("display.tags", d.Display.Tags)
	v.SetDefault("dedup.enabled", d.Dedup.Enabled)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if fileExists(ProjectFileName) {
		return ProjectFileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(dir, AppName, ConfigFileName)
	if fileExists(candidate) {
		return candidate
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate rejects values the rest of the program cannot honor.
func (c Config) Validate() error {
	if c.Buffers.Sort != source.SortAscending && c.Buffers.Sort != source.SortDescending {
		return fmt.Errorf("buffers.sort %q: want %q or %q", c.Buffers.Sort, source.SortAscending, source.SortDescending)
	}
	if _, err := mru.ParseVariant(c.MRU.Variant); err != nil {
		return fmt.Errorf("mru.variant: %w", err)
	}
	if c.MRU.Timeout < 0 {
		return fmt.Errorf("mru.timeout %v: must not be negative", c.MRU.Timeout)
	}
	if c.Walk.ChunkSize <= 0 {
		return fmt.Errorf("walk.chunk_size %d: must be positive", c.Walk.ChunkSize)
	}
	for _, pattern := range c.Walk.SkipPatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("walk.skip_patterns: invalid pattern %q", pattern)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return nil
}

// Variant returns the parsed MRU register. Call Validate first.
func (c Config) Variant() mru.Variant {
	v, err := mru.ParseVariant(c.MRU.Variant)
	if err != nil {
		return mru.VariantUsed
	}
	return v
}

// LogLevel returns the parsed log level. Call Validate first.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}
