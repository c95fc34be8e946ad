// Package logos persists the station logo file seen on each audio stream so
// it can be shown again when the stream is selected before the logo is
// rebroadcast.
package logos

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Registry maps a station key and stream slot to a logo file name.
type Registry struct {
	path string

	mu       sync.RWMutex
	stations map[string][]string
	dirty    bool
}

type document struct {
	Stations map[string][]string `toml:"stations"`
}

// New returns an empty registry persisted at path.
func New(path string) *Registry {
	return &Registry{path: path, stations: make(map[string][]string)}
}

// Load reads the registry from disk, replacing its contents. A missing file
// leaves the registry empty.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read logos: %w", err)
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse logos: %w", err)
	}
	if doc.Stations == nil {
		doc.Stations = make(map[string][]string)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stations = doc.Stations
	r.dirty = false
	return nil
}

// Save writes the registry when it changed since the last Load or Save.
func (r *Registry) Save() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create logos dir: %w", err)
	}
	data, err := toml.Marshal(document{Stations: r.stations})
	if err != nil {
		return fmt.Errorf("marshal logos: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write logos: %w", err)
	}
	r.dirty = false
	return nil
}

// SetLogo records file as the logo of station's stream at slot.
func (r *Registry) SetLogo(station string, slot int, file string) {
	if station == "" || slot < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	slots := r.stations[station]
	for len(slots) <= slot {
		slots = append(slots, "")
	}
	if slots[slot] == file {
		return
	}
	slots[slot] = file
	r.stations[station] = slots
	r.dirty = true
}

// Logo returns the recorded logo for station's stream at slot, or "".
func (r *Registry) Logo(station string, slot int) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slots := r.stations[station]
	if slot < 0 || slot >= len(slots) {
		return ""
	}
	return slots[slot]
}
