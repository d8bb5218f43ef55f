// Package config resolves the build-time constants and the optional startup
// configuration of the shell.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Set at link time with -ldflags "-X github.com/xsr1/xsr1-gtk/internal/config.Version=...".
var (
	// Version is the package version; empty when the build did not set one.
	Version string

	// PkgDataDir is the installation data directory holding index.html;
	// empty when the build was not configured with one.
	PkgDataDir string
)

// UnknownVersion is printed when no version is known.
const UnknownVersion = "Unknown version"

const (
	EnvConfig   = "XSR1_CONFIG"
	EnvDataDir  = "XSR1_DATADIR"
	EnvLogLevel = "XSR1_LOG_LEVEL"
)

type Window struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Maximized bool `yaml:"maximized"`
}

type Webkit struct {
	DeveloperExtras bool `yaml:"developer_extras"`
	WebGL           bool `yaml:"webgl"`
	WebAudio        bool `yaml:"webaudio"`
}

// Config holds the startup options. The zero value is not useful, start from
// Default.
type Config struct {
	DataDir            string `yaml:"data_dir"`
	Window             Window `yaml:"window"`
	Webkit             Webkit `yaml:"webkit"`
	ReloadOnChange     bool   `yaml:"reload_on_change"`
	InhibitScreensaver bool   `yaml:"inhibit_screensaver"`
	LogLevel           string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		DataDir: PkgDataDir,
		Window: Window{
			Width:     800,
			Height:    600,
			Maximized: true,
		},
		Webkit: Webkit{
			WebGL:    true,
			WebAudio: true,
		},
		InhibitScreensaver: true,
		LogLevel:           "warn",
	}
}

// VersionString returns the link-time version, then the module version
// recorded in the binary, then UnknownVersion.
func VersionString() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return UnknownVersion
}

// Path returns the config file location: $XSR1_CONFIG, else
// <user config dir>/xsr1/config.yaml. Empty when neither can be determined.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xsr1", "config.yaml")
}

// Load reads the config file at path on top of Default and applies the
// environment overrides. A missing file is not an error. On a malformed
// file the defaults (with overrides) are returned along with the error.
func Load(path string) (Config, error) {
	cfg := Default()

	var fileErr error
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			fileErr = fmt.Errorf("read config %s: %w", path, err)
		default:
			parsed := Default()
			if err := yaml.Unmarshal(data, &parsed); err != nil {
				fileErr = fmt.Errorf("parse config %s: %w", path, err)
			} else {
				cfg = parsed
			}
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		fileErr = errors.Join(fileErr, err)
		def := Default()
		def.applyEnv()
		if def.validate() != nil {
			def.LogLevel = "warn"
		}
		cfg = def
	}
	return cfg, fileErr
}

func (c *Config) applyEnv() {
	if dir, ok := os.LookupEnv(EnvDataDir); ok {
		c.DataDir = dir
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		c.LogLevel = lvl
	}
}

func (c *Config) validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
