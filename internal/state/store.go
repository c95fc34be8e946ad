package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/hdmon/internal/maps"
	"github.com/five82/hdmon/internal/station"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Station     station.State
	HasStation  bool
	Maps        maps.State
	Recent      []maps.WeatherMap
	Version     uint64
	LastUpdated time.Time
	LastError   error

	TrafficUpdates int
	WeatherUpdates int
}

// IsSynced reports whether the receiver currently holds a decoded signal.
func (s Snapshot) IsSynced() bool {
	return s.HasStation && s.Station.Sync == station.Synced
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Publish replaces the stored station and map state with copies of the
// given values.
func (s *Store) Publish(st *station.State, ms maps.State, recent []maps.WeatherMap) {
	dup := st.Clone()
	recent = slices.Clone(recent)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Station = dup
	s.snapshot.HasStation = st != nil
	s.snapshot.Maps = ms
	s.snapshot.Recent = recent
	s.bump()
}

// MapUpdated records that a composite of the given kind was rewritten.
func (s *Store) MapUpdated(kind maps.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case maps.KindTraffic:
		s.snapshot.TrafficUpdates++
	case maps.KindWeather:
		s.snapshot.WeatherUpdates++
	}
	s.bump()
}

// Fail records an error that stopped the producer. Earlier data is kept.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.bump()
}

func (s *Store) bump() {
	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Station = s.snapshot.Station.Clone()
	snap.Recent = slices.Clone(s.snapshot.Recent)
	return snap
}
