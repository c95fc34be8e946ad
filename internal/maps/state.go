package maps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/hdmon/internal/geo"
)

// Kind identifies which composite changed.
type Kind int

const (
	KindTraffic Kind = iota
	KindWeather
)

func (k Kind) String() string {
	if k == KindWeather {
		return "weather"
	}
	return "traffic"
}

// State is the persistent map subsystem state. Timestamps are unix seconds
// (UTC); zero marks an empty cell or an unknown time.
type State struct {
	Tiles       [3][3]int64     `toml:"tiles"`
	Complete    bool            `toml:"complete"`
	WeatherID   string          `toml:"weather_id"`
	WeatherBox  geo.BoundingBox `toml:"weather_box"`
	WeatherTime int64           `toml:"weather_time"`
	WeatherNow  string          `toml:"weather_now"`
}

// tilesComplete reports whether every cell holds ts.
func (s *State) tilesComplete(ts int64) bool {
	if ts == 0 {
		return false
	}
	for _, row := range s.Tiles {
		for _, cell := range row {
			if cell != ts {
				return false
			}
		}
	}
	return true
}

// WeatherMap is one composited weather map on disk.
type WeatherMap struct {
	ID   string
	Time int64
	Path string
}

// LoadState reads a persisted State. A missing file yields the zero State.
func LoadState(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read map state: %w", err)
	}
	var s State
	if err := toml.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("parse map state: %w", err)
	}
	return s, nil
}

// SaveState writes s to path, creating parent directories as needed.
func SaveState(path string, s State) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal map state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write map state: %w", err)
	}
	return nil
}
