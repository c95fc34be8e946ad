package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/hdmon/internal/nrsc5"
)

// Config holds the resolved hdmon settings. Paths are absolute.
type Config struct {
	AASDir        string
	MapDir        string
	ConfigDir     string
	ReferenceMap  string
	Protocol      nrsc5.Protocol
	IncludeCovers bool
	LogLevel      slog.Level
	// LogFile, when set, receives every raw nrsc5 line.
	LogFile       string
	PruneInterval time.Duration
	Station       string
	// Slot is the 0-based audio stream selected at startup.
	Slot int
}

const (
	defaultConfigPath    = "~/.config/hdmon/config.toml"
	defaultConfigDir     = "~/.config/hdmon"
	defaultDataDir       = "~/.local/share/hdmon"
	defaultPruneInterval = time.Minute

	mapStateFile = "mapdata.toml"
	logosFile    = "station_logos.toml"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the hdmon config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		AASDir        string `toml:"aas_dir"`
		MapDir        string `toml:"map_dir"`
		ConfigDir     string `toml:"config_dir"`
		ReferenceMap  string `toml:"reference_map"`
		Protocol      string `toml:"protocol"`
		IncludeCovers *bool  `toml:"include_covers"`
		LogLevel      string `toml:"log_level"`
		LogFile       string `toml:"log_file"`
		PruneInterval int    `toml:"prune_interval_seconds"`
		Station       string `toml:"station"`
		Stream        int    `toml:"stream"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := defaults()
	if v := strings.TrimSpace(raw.AASDir); v != "" {
		cfg.AASDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.MapDir); v != "" {
		cfg.MapDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ConfigDir); v != "" {
		cfg.ConfigDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ReferenceMap); v != "" {
		cfg.ReferenceMap = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	cfg.Protocol, err = nrsc5.ParseProtocol(raw.Protocol)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if raw.IncludeCovers != nil {
		cfg.IncludeCovers = *raw.IncludeCovers
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("parse config: log_level: %w", err)
		}
	}
	if raw.PruneInterval > 0 {
		cfg.PruneInterval = time.Duration(raw.PruneInterval) * time.Second
	}
	cfg.Station = strings.TrimSpace(raw.Station)
	if raw.Stream != 0 {
		if raw.Stream < 1 || raw.Stream > 8 {
			return Config{}, fmt.Errorf("parse config: stream %d out of range 1-8", raw.Stream)
		}
		cfg.Slot = raw.Stream - 1
	}

	return cfg, nil
}

func defaults() Config {
	data := mustExpand(defaultDataDir)
	return Config{
		AASDir:        filepath.Join(data, "aas"),
		MapDir:        filepath.Join(data, "map"),
		ConfigDir:     mustExpand(defaultConfigDir),
		ReferenceMap:  filepath.Join(data, "res", "map.png"),
		Protocol:      nrsc5.ProtocolCurrent,
		IncludeCovers: true,
		LogLevel:      slog.LevelInfo,
		PruneInterval: defaultPruneInterval,
	}
}

// MapStatePath returns where the map state is persisted.
func (c Config) MapStatePath() string {
	return filepath.Join(c.ConfigDir, mapStateFile)
}

// LogosPath returns where the station logo registry is persisted.
func (c Config) LogosPath() string {
	return filepath.Join(c.ConfigDir, logosFile)
}

// EnsureDirs creates the AAS, map and config directories.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.AASDir, c.MapDir, c.ConfigDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
