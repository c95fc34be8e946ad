package maps

import (
	"bufio"
	"fmt"
	"image/draw"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/five82/hdmon/internal/geo"
)

var (
	overlayPattern      = regexp.MustCompile(`^\d+_DWRO_(.*)_.*_(\d{4})(\d{2})(\d{2})_(\d{2})(\d{2})_([0-9A-Fa-f]+)\..*$`)
	weatherImagePattern = regexp.MustCompile(`^WeatherImage_\d+_\d+_([0-9A-Za-z]+)\.png$`)
	weatherMapPattern   = regexp.MustCompile(`^WeatherMap_([a-zA-Z0-9]+)_([0-9]+)\.png$`)

	areaIDPattern      = regexp.MustCompile(`^DWR_Area_ID="(.+)"$`)
	coordinatesPattern = regexp.MustCompile(`^Coordinates=.*\((-?\d+\.\d+),(-?\d+\.\d+)\).*\((-?\d+\.\d+),(-?\d+\.\d+)\).*$`)
)

// WeatherOverlay is a parsed DWRO overlay name.
type WeatherOverlay struct {
	ID   string
	Time time.Time
}

// ParseWeatherOverlay parses a "<lot>_DWRO_<id>_..._<YYYYMMDD>_<HHMM>_<hex>.<ext>"
// file name. The timestamp is UTC.
func ParseWeatherOverlay(name string) (WeatherOverlay, bool) {
	m := overlayPattern.FindStringSubmatch(name)
	if m == nil {
		return WeatherOverlay{}, false
	}
	var n [5]int
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+2])
	}
	if n[3] > 23 || n[4] > 59 {
		return WeatherOverlay{}, false
	}
	t := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], 0, 0, time.UTC)
	return WeatherOverlay{ID: m[1], Time: t}, true
}

// ParseWeatherImage returns the area id of an announced
// "WeatherImage_<n>_<n>_<id>.png" overlay.
func ParseWeatherImage(name string) (string, bool) {
	m := weatherImagePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseWeatherInfo reads a DWRI metadata file for its area id and bounding
// box. Both must be present.
func ParseWeatherInfo(path string) (string, geo.BoundingBox, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", geo.BoundingBox{}, err
	}
	defer func() { _ = f.Close() }()

	var (
		id     string
		box    geo.BoundingBox
		hasBox bool
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := areaIDPattern.FindStringSubmatch(line); m != nil {
			id = m[1]
			continue
		}
		if m := coordinatesPattern.FindStringSubmatch(line); m != nil {
			var v [4]float64
			for i := range v {
				v[i], _ = strconv.ParseFloat(m[i+1], 64)
			}
			box = geo.BoundingBox{Lat1: v[0], Lon1: v[1], Lat2: v[2], Lon2: v[3]}
			hasBox = true
		}
	}
	if err := scanner.Err(); err != nil {
		return "", geo.BoundingBox{}, fmt.Errorf("read weather info: %w", err)
	}
	if id == "" || !hasBox {
		return "", geo.BoundingBox{}, fmt.Errorf("weather info %s: missing area id or coordinates", filepath.Base(path))
	}
	return id, box, nil
}

// AddWeatherInfo applies the metadata file at path and removes it.
func (m *Maps) AddWeatherInfo(path string) error {
	id, box, err := ParseWeatherInfo(path)
	m.remove(path)
	if err != nil {
		m.log.Warn("weather info ignored", "error", err)
		return nil
	}
	return m.SetWeatherArea(id, box)
}

// SetWeatherArea makes id the current radar area. A change of id or box
// rebuilds the base map and restarts the recent list.
func (m *Maps) SetWeatherArea(id string, box geo.BoundingBox) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == m.state.WeatherID && box == m.state.WeatherBox {
		return nil
	}
	if err := m.ensureDir(); err != nil {
		return err
	}
	m.log.Info("weather area", "id", id, "lat1", box.Lat1, "lon1", box.Lon1, "lat2", box.Lat2, "lon2", box.Lon2)
	// A stored base map is reused unless the same area moved.
	moved := id == m.state.WeatherID
	m.state.WeatherID = id
	m.state.WeatherBox = box
	m.state.WeatherTime = 0
	m.state.WeatherNow = ""
	m.recent = nil

	if _, err := m.baseMap(id, box, moved); err != nil {
		m.log.Error("base map failed", "id", id, "error", err)
	}
	m.refreshLocked()
	return nil
}

// AddWeatherOverlay takes ownership of the overlay at src for area id at
// time t and composites it over the area's base map. label draws the
// timestamp box. Only ErrCacheDir is returned.
func (m *Maps) AddWeatherOverlay(src, id string, t time.Time, label bool) error {
	ts := t.Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.state.WeatherID == "":
		m.log.Info("weather overlay before area metadata, discarding", "id", id)
		m.remove(src)
		return nil
	case id != m.state.WeatherID:
		m.log.Info("weather overlay for another area, discarding", "id", id, "current", m.state.WeatherID)
		m.remove(src)
		return nil
	case ts == m.state.WeatherTime:
		m.log.Debug("duplicate weather overlay", "id", id, "time", ts)
		m.remove(src)
		return nil
	}
	if err := m.ensureDir(); err != nil {
		return err
	}

	m.state.WeatherTime = ts
	overlayPath := filepath.Join(m.dir, fmt.Sprintf("WeatherOverlay_%s_%d.png", id, ts))
	if err := moveFile(src, overlayPath); err != nil {
		m.log.Error("move weather overlay failed", "path", src, "error", err)
		m.state.WeatherTime = 0
		return nil
	}
	defer m.remove(overlayPath)

	mapPath := m.weatherMapPath(id, ts)
	if err := m.composeWeather(overlayPath, mapPath, ts, label); err != nil {
		m.log.Error("weather map composition failed", "id", id, "error", err)
		m.state.WeatherTime = 0
		return nil
	}
	m.state.WeatherNow = mapPath
	m.log.Info("weather map updated", "id", id, "time", m.label(ts).Format(labelFormat))
	m.refreshLocked()
	m.notify(KindWeather)
	return nil
}

func (m *Maps) weatherMapPath(id string, ts int64) string {
	return filepath.Join(m.dir, fmt.Sprintf("WeatherMap_%s_%d.png", id, ts))
}

func (m *Maps) composeWeather(overlayPath, mapPath string, ts int64, label bool) error {
	base, err := m.baseMap(m.state.WeatherID, m.state.WeatherBox, false)
	if err != nil {
		return err
	}
	overlay, err := decodeFile(overlayPath)
	if err != nil {
		return err
	}
	out := toRGBA(base)
	xdraw.CatmullRom.Scale(out, out.Bounds(), overlay, overlay.Bounds(), draw.Over, nil)
	if label {
		drawLabel(out, m.label(ts))
	}
	return writePNG(mapPath, out)
}

// Refresh rescans the map directory, deletes composites older than
// WeatherRetention and rebuilds the recent list. It returns at once when
// another refresh is running.
func (m *Maps) Refresh() {
	if !m.refreshing.TryLock() {
		return
	}
	defer m.refreshing.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshLocked()
}

func (m *Maps) refreshLocked() {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			m.log.Warn("scan map dir failed", "dir", m.dir, "error", err)
		}
		return
	}
	now := m.now().Unix()
	cutoff := int64(WeatherRetention / time.Second)

	var recent []WeatherMap
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := weatherMapPattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		ts, err := strconv.ParseInt(match[2], 10, 64)
		if err != nil {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		if now-ts > cutoff {
			m.log.Debug("expired weather map", "path", path)
			m.remove(path)
			if path == m.state.WeatherNow {
				m.state.WeatherNow = ""
			}
			continue
		}
		if match[1] == m.state.WeatherID {
			recent = append(recent, WeatherMap{ID: match[1], Time: ts, Path: path})
		}
	}
	sort.Slice(recent, func(i, j int) bool { return recent[i].Time < recent[j].Time })
	m.recent = recent
}
