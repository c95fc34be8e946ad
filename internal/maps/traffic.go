package maps

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	xdraw "golang.org/x/image/draw"
)

const (
	tileSize      = 200
	trafficSize   = 3 * tileSize
	trafficLabel  = 981
	trafficMapOut = "TrafficMap.png"
)

var (
	tmtPattern = regexp.MustCompile(`^\d+_TMT_.*_([1-3])_([1-3])_(\d{4})(\d{2})(\d{2})_([0-9A-Fa-f]{2})([0-9A-Fa-f]{2})_([0-9A-Fa-f]{4})\..*$`)
	// trafficMap_<row>_<col>_<id>.png, 1-based.
	trafficImagePattern = regexp.MustCompile(`^trafficMap_([1-3])_([1-3])_[0-9A-Za-z]+\.png$`)
)

// TrafficTile is a parsed TMT tile name. Row and Col are zero-based.
type TrafficTile struct {
	Row, Col int
	Time     time.Time
}

// ParseTrafficTile parses a "<lot>_TMT_..._<row>_<col>_<YYYYMMDD>_<HHMM>_<id>.<ext>"
// file name. The timestamp is UTC.
func ParseTrafficTile(name string) (TrafficTile, bool) {
	m := tmtPattern.FindStringSubmatch(name)
	if m == nil {
		return TrafficTile{}, false
	}
	var n [7]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return TrafficTile{}, false
		}
		n[i] = v
	}
	if n[5] > 23 || n[6] > 59 {
		return TrafficTile{}, false
	}
	t := time.Date(n[2], time.Month(n[3]), n[4], n[5], n[6], 0, 0, time.UTC)
	return TrafficTile{Row: n[0] - 1, Col: n[1] - 1, Time: t}, true
}

// ParseTrafficImage parses an announced "trafficMap_<row>_<col>_<id>.png"
// tile name.
func ParseTrafficImage(name string) (row, col int, ok bool) {
	m := trafficImagePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, false
	}
	r, _ := strconv.Atoi(m[1])
	c, _ := strconv.Atoi(m[2])
	return r - 1, c - 1, true
}

func (m *Maps) tilePath(row, col int) string {
	return filepath.Join(m.dir, fmt.Sprintf("TrafficMap_%d_%d.png", row, col))
}

// TrafficPath is where the assembled traffic map is written.
func (m *Maps) TrafficPath() string {
	return filepath.Join(m.dir, trafficMapOut)
}

// AddTrafficTile takes ownership of the tile at src for grid cell
// (row, col) with timestamp t. When the ninth matching tile arrives the
// full map is composed. Only ErrCacheDir is returned.
func (m *Maps) AddTrafficTile(src string, row, col int, t time.Time) error {
	if row < 0 || row > 2 || col < 0 || col > 2 {
		m.log.Warn("traffic tile outside grid", "row", row, "col", col, "path", src)
		m.remove(src)
		return nil
	}
	ts := t.Unix()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.Tiles[row][col] == ts {
		m.log.Debug("duplicate traffic tile", "row", row, "col", col, "time", ts)
		m.remove(src)
		return nil
	}
	if err := m.ensureDir(); err != nil {
		return err
	}

	m.log.Debug("traffic tile", "row", row, "col", col, "time", ts)
	m.state.Complete = false
	m.state.Tiles[row][col] = ts
	if err := moveFile(src, m.tilePath(row, col)); err != nil {
		m.log.Error("move traffic tile failed", "path", src, "error", err)
		m.state.Tiles[row][col] = 0
		return nil
	}

	if !m.state.tilesComplete(ts) {
		return nil
	}
	m.state.Complete = true

	canvas, err := m.stitchTiles()
	if err != nil {
		m.log.Error("traffic map assembly failed", "error", err)
		m.state.Complete = false
		return nil
	}
	label := newLabel(image.Pt(trafficLabel, trafficLabel), m.label(ts))
	xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), label, label.Bounds(), draw.Over, nil)

	if err := writePNG(m.TrafficPath(), canvas); err != nil {
		m.log.Error("write traffic map failed", "error", err)
		m.state.Complete = false
		m.state.Tiles = [3][3]int64{}
		return nil
	}
	m.log.Info("traffic map updated", "time", m.label(ts).Format(labelFormat))
	m.notify(KindTraffic)
	return nil
}

// stitchTiles pastes the nine cell files onto a white canvas and removes
// them. A cell that cannot be read is cleared so it is collected again.
func (m *Maps) stitchTiles() (*image.RGBA, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, trafficSize, trafficSize))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var failed error
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			path := m.tilePath(row, col)
			tile, err := decodeFile(path)
			if err != nil {
				m.state.Tiles[row][col] = 0
				if failed == nil {
					failed = fmt.Errorf("tile %d,%d: %w", row, col, err)
				}
				continue
			}
			at := image.Rect(col*tileSize, row*tileSize, (col+1)*tileSize, (row+1)*tileSize)
			draw.Draw(canvas, at, tile, tile.Bounds().Min, draw.Over)
		}
	}
	if failed != nil {
		return nil, failed
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.remove(m.tilePath(row, col))
		}
	}
	return canvas, nil
}
