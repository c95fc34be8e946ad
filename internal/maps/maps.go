package maps

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bluele/gcache"
)

// WeatherRetention is how long weather composites are kept on disk.
const WeatherRetention = 12 * time.Hour

const baseMapCacheSize = 4

// Options configures a Maps instance.
type Options struct {
	// Dir holds tiles, overlays and composites.
	Dir string
	// ReferenceMap is the large map base maps are cropped from. When it
	// cannot be read a blank white base map is used instead.
	ReferenceMap string
	// State seeds the persisted state.
	State  State
	Logger *slog.Logger
	// Notify is called after a composite is written.
	Notify func(Kind)
	// Now and Location override the clock and the label time zone.
	Now      func() time.Time
	Location *time.Location
}

// Maps owns the traffic and weather composites.
type Maps struct {
	dir      string
	refMap   string
	log      *slog.Logger
	notify   func(Kind)
	now      func() time.Time
	loc      *time.Location
	baseMaps gcache.Cache

	refreshing sync.Mutex

	mu     sync.Mutex
	state  State
	recent []WeatherMap
}

// New returns a Maps writing into opts.Dir.
func New(opts Options) *Maps {
	m := &Maps{
		dir:      opts.Dir,
		refMap:   opts.ReferenceMap,
		log:      opts.Logger,
		notify:   opts.Notify,
		now:      opts.Now,
		loc:      opts.Location,
		state:    opts.State,
		baseMaps: gcache.New(baseMapCacheSize).LRU().Build(),
	}
	if m.log == nil {
		m.log = slog.Default()
	}
	if m.notify == nil {
		m.notify = func(Kind) {}
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.loc == nil {
		m.loc = time.Local
	}
	m.log = m.log.With("component", "maps")
	return m
}

// State returns a copy of the current state.
func (m *Maps) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Recent returns the current area's composites, oldest first.
func (m *Maps) Recent() []WeatherMap {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WeatherMap, len(m.recent))
	copy(out, m.recent)
	return out
}

func (m *Maps) ensureDir() error {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheDir, err)
	}
	return nil
}

func (m *Maps) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.log.Warn("remove file failed", "path", path, "error", err)
	}
}

func (m *Maps) label(ts int64) time.Time {
	return time.Unix(ts, 0).In(m.loc)
}
