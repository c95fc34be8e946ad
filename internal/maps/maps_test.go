package maps

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/five82/hdmon/internal/geo"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

var testBox = geo.BoundingBox{Lat1: 52.4, Lon1: -130.7, Lat2: 52.0, Lon2: -130.0}

type notifications struct {
	traffic, weather int
}

func (n *notifications) record(k Kind) {
	if k == KindTraffic {
		n.traffic++
	} else {
		n.weather++
	}
}

func newTestMaps(t *testing.T, refMap string) (*Maps, *notifications) {
	t.Helper()
	n := &notifications{}
	m := New(Options{
		Dir:          filepath.Join(t.TempDir(), "map"),
		ReferenceMap: refMap,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Notify:       n.record,
		Now:          func() time.Time { return testNow },
		Location:     time.UTC,
	})
	return m, n
}

func writeFixture(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
}

func imageSize(t *testing.T, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return image.Pt(cfg.Width, cfg.Height)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func addTile(t *testing.T, m *Maps, src string, row, col int, ts time.Time) {
	t.Helper()
	path := filepath.Join(src, fmt.Sprintf("tile_%d_%d_%d.png", row, col, ts.Unix()))
	writeFixture(t, path, tileSize, tileSize, color.RGBA{R: uint8(row * 80), G: uint8(col * 80), B: 200, A: 255})
	if err := m.AddTrafficTile(path, row, col, ts); err != nil {
		t.Fatalf("AddTrafficTile(%d,%d): %v", row, col, err)
	}
	if exists(path) {
		t.Fatalf("source tile %s was not consumed", path)
	}
}

func TestAddTrafficTile_NineTilesCompose(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	ts := testNow.Add(-time.Hour)

	// Tiles arrive out of grid order.
	for _, cell := range []int{4, 8, 0, 6, 2, 7, 1, 5, 3} {
		addTile(t, m, src, cell/3, cell%3, ts)
	}

	if n.traffic != 1 {
		t.Fatalf("traffic notifications = %d, want 1", n.traffic)
	}
	if got := imageSize(t, m.TrafficPath()); got != image.Pt(600, 600) {
		t.Fatalf("traffic map size = %v, want 600x600", got)
	}
	left, _ := filepath.Glob(filepath.Join(m.dir, "TrafficMap_*_*.png"))
	if len(left) != 0 {
		t.Fatalf("leftover tiles: %v", left)
	}
	st := m.State()
	if !st.Complete {
		t.Fatal("expected Complete after nine matching tiles")
	}
	for _, row := range st.Tiles {
		for _, cell := range row {
			if cell != ts.Unix() {
				t.Fatalf("tile cell = %d, want %d", cell, ts.Unix())
			}
		}
	}
}

func TestAddTrafficTile_RefeedAfterCompose(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	ts := testNow.Add(-time.Hour)

	for _, cell := range []int{7, 3, 5, 0, 8, 1, 6, 4, 2} {
		addTile(t, m, src, cell/3, cell%3, ts)
	}
	addTile(t, m, src, 2, 1, ts)

	if n.traffic != 1 {
		t.Fatalf("traffic notifications = %d after re-feed, want 1", n.traffic)
	}
	if !m.State().Complete {
		t.Fatal("re-fed tile cleared Complete")
	}
}

func TestAddTrafficTile_CorruptTileResetsCell(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	ts := testNow.Add(-time.Hour)

	for i := 0; i < 8; i++ {
		addTile(t, m, src, i/3, i%3, ts)
	}
	bad := filepath.Join(src, "tile_2_2.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.AddTrafficTile(bad, 2, 2, ts); err != nil {
		t.Fatalf("AddTrafficTile(corrupt): %v", err)
	}

	st := m.State()
	if st.Complete {
		t.Fatal("Complete with a corrupt tile")
	}
	if n.traffic != 0 {
		t.Fatalf("traffic notifications = %d, want 0", n.traffic)
	}
	if exists(m.TrafficPath()) {
		t.Fatal("traffic map written from a corrupt tile")
	}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			want := ts.Unix()
			if row == 2 && col == 2 {
				want = 0
			}
			if got := st.Tiles[row][col]; got != want {
				t.Fatalf("tile %d,%d = %d, want %d", row, col, got, want)
			}
		}
	}

	// A good copy of the cell completes the grid.
	addTile(t, m, src, 2, 2, ts)
	if !m.State().Complete || n.traffic != 1 {
		t.Fatalf("complete=%v notifications=%d after replacing corrupt tile", m.State().Complete, n.traffic)
	}
}

func TestAddTrafficTile_EightTilesIncomplete(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	ts := testNow.Add(-time.Hour)

	for i := 0; i < 8; i++ {
		addTile(t, m, src, i/3, i%3, ts)
	}

	if m.State().Complete {
		t.Fatal("Complete with eight tiles")
	}
	if n.traffic != 0 {
		t.Fatalf("traffic notifications = %d, want 0", n.traffic)
	}
	if exists(m.TrafficPath()) {
		t.Fatal("traffic map written before grid was complete")
	}
}

func TestAddTrafficTile_MixedTimestamps(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	older := testNow.Add(-2 * time.Hour)
	newer := testNow.Add(-time.Hour)

	addTile(t, m, src, 0, 0, older)
	for i := 1; i < 9; i++ {
		addTile(t, m, src, i/3, i%3, newer)
	}
	if m.State().Complete || n.traffic != 0 {
		t.Fatalf("complete=%v notifications=%d with a stale cell", m.State().Complete, n.traffic)
	}

	addTile(t, m, src, 0, 0, newer)
	if !m.State().Complete || n.traffic != 1 {
		t.Fatalf("complete=%v notifications=%d after refreshing stale cell", m.State().Complete, n.traffic)
	}
}

func TestAddTrafficTile_Duplicate(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := t.TempDir()
	ts := testNow.Add(-time.Hour)

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			addTile(t, m, src, row, col, ts)
		}
	}
	before := m.State()

	addTile(t, m, src, 1, 1, ts)

	if n.traffic != 1 {
		t.Fatalf("traffic notifications = %d, want 1", n.traffic)
	}
	if m.State() != before {
		t.Fatal("duplicate tile changed state")
	}
	if exists(m.tilePath(1, 1)) {
		t.Fatal("duplicate tile was kept in the map dir")
	}
}

func TestAddTrafficTile_OutsideGrid(t *testing.T) {
	m, _ := newTestMaps(t, "")
	path := filepath.Join(t.TempDir(), "tile.png")
	writeFixture(t, path, 10, 10, color.White)

	if err := m.AddTrafficTile(path, 3, 0, testNow); err != nil {
		t.Fatalf("AddTrafficTile: %v", err)
	}
	if exists(path) {
		t.Fatal("out-of-grid tile was not discarded")
	}
	if m.State().Tiles != [3][3]int64{} {
		t.Fatal("out-of-grid tile changed state")
	}
}

func TestAddTrafficTile_CacheDirFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	m := New(Options{Dir: filepath.Join(blocker, "map"), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	path := filepath.Join(parent, "tile.png")
	writeFixture(t, path, tileSize, tileSize, color.White)

	err := m.AddTrafficTile(path, 0, 0, testNow)
	if err == nil || !errors.Is(err, ErrCacheDir) {
		t.Fatalf("AddTrafficTile err = %v, want ErrCacheDir", err)
	}
}

func writeOverlay(t *testing.T, dir string, n int) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("overlay_%d.png", n))
	writeFixture(t, path, 100, 100, color.RGBA{G: 200, A: 128})
	return path
}

func TestAddWeatherOverlay_BeforeMetadata(t *testing.T) {
	m, n := newTestMaps(t, "")
	src := writeOverlay(t, t.TempDir(), 1)

	if err := m.AddWeatherOverlay(src, "abc", testNow.Add(-time.Hour), true); err != nil {
		t.Fatalf("AddWeatherOverlay: %v", err)
	}
	if exists(src) {
		t.Fatal("overlay without metadata was not discarded")
	}
	if n.weather != 0 || m.State().WeatherTime != 0 {
		t.Fatalf("notifications=%d weatherTime=%d, want 0 and 0", n.weather, m.State().WeatherTime)
	}
}

func TestAddWeatherOverlay_OtherArea(t *testing.T) {
	m, n := newTestMaps(t, "")
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	src := writeOverlay(t, t.TempDir(), 1)

	if err := m.AddWeatherOverlay(src, "xyz", testNow.Add(-time.Hour), true); err != nil {
		t.Fatalf("AddWeatherOverlay: %v", err)
	}
	if exists(src) {
		t.Fatal("overlay for another area was not discarded")
	}
	if n.weather != 0 {
		t.Fatalf("weather notifications = %d, want 0", n.weather)
	}
	if got := m.State().WeatherTime; got != 0 {
		t.Fatalf("WeatherTime = %d, want 0", got)
	}
}

func TestAddWeatherOverlay_ComposeAndDuplicate(t *testing.T) {
	m, n := newTestMaps(t, "")
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	srcDir := t.TempDir()
	ts := testNow.Add(-time.Hour)

	first := writeOverlay(t, srcDir, 1)
	if err := m.AddWeatherOverlay(first, "abc", ts, true); err != nil {
		t.Fatalf("AddWeatherOverlay: %v", err)
	}
	second := writeOverlay(t, srcDir, 2)
	if err := m.AddWeatherOverlay(second, "abc", ts, true); err != nil {
		t.Fatalf("AddWeatherOverlay duplicate: %v", err)
	}

	if n.weather != 1 {
		t.Fatalf("weather notifications = %d, want 1", n.weather)
	}
	if exists(first) || exists(second) {
		t.Fatal("raw overlay left behind")
	}
	composites, _ := filepath.Glob(filepath.Join(m.dir, "WeatherMap_*.png"))
	if len(composites) != 1 {
		t.Fatalf("composites = %v, want one", composites)
	}
	overlays, _ := filepath.Glob(filepath.Join(m.dir, "WeatherOverlay_*.png"))
	if len(overlays) != 0 {
		t.Fatalf("intermediate overlays left: %v", overlays)
	}

	st := m.State()
	want := m.weatherMapPath("abc", ts.Unix())
	if st.WeatherNow != want || st.WeatherTime != ts.Unix() {
		t.Fatalf("state = %+v, want WeatherNow %q time %d", st, want, ts.Unix())
	}
	area := geo.MapArea(testBox).Size()
	if got := imageSize(t, want); got != area {
		t.Fatalf("composite size = %v, want base map size %v", got, area)
	}
	if recent := m.Recent(); len(recent) != 1 || recent[0].Path != want {
		t.Fatalf("Recent = %+v", recent)
	}
}

func TestAddWeatherOverlay_CorruptOverlay(t *testing.T) {
	m, n := newTestMaps(t, "")
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	src := filepath.Join(t.TempDir(), "overlay.png")
	if err := os.WriteFile(src, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.AddWeatherOverlay(src, "abc", testNow.Add(-time.Hour), true); err != nil {
		t.Fatalf("AddWeatherOverlay: %v", err)
	}
	if got := m.State().WeatherTime; got != 0 {
		t.Fatalf("WeatherTime = %d, want 0", got)
	}
	if n.weather != 0 {
		t.Fatalf("weather notifications = %d, want 0", n.weather)
	}
	composites, _ := filepath.Glob(filepath.Join(m.dir, "WeatherMap_*.png"))
	if len(composites) != 0 {
		t.Fatalf("composites = %v, want none", composites)
	}
	overlays, _ := filepath.Glob(filepath.Join(m.dir, "WeatherOverlay_*.png"))
	if len(overlays) != 0 {
		t.Fatalf("corrupt overlay left: %v", overlays)
	}
}

func TestSetWeatherArea_BaseMap(t *testing.T) {
	area := geo.MapArea(testBox)
	ref := filepath.Join(t.TempDir(), "map.png")
	writeFixture(t, ref, area.Max.X+20, area.Max.Y+20, color.RGBA{B: 255, A: 255})

	m, _ := newTestMaps(t, ref)
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	path := m.baseMapPath("abc")
	if got := imageSize(t, path); got != area.Size() {
		t.Fatalf("base map size = %v, want %v", got, area.Size())
	}

	img, err := decodeFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0 || g != 0 || b != 0xffff {
		t.Fatalf("base map pixel = %d,%d,%d, want reference blue", r, g, b)
	}
}

func TestSetWeatherArea_BlankWithoutReference(t *testing.T) {
	m, _ := newTestMaps(t, filepath.Join(t.TempDir(), "missing.png"))
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	img, err := decodeFile(m.baseMapPath("abc"))
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b, a := img.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Fatalf("blank base map pixel = %d,%d,%d,%d, want white", r, g, b, a)
	}
}

func TestRefresh_EvictsAndSorts(t *testing.T) {
	m, _ := newTestMaps(t, "")
	if err := m.SetWeatherArea("abc", testBox); err != nil {
		t.Fatalf("SetWeatherArea: %v", err)
	}
	at := func(d time.Duration) int64 { return testNow.Add(-d).Unix() }
	files := map[string]bool{
		fmt.Sprintf("WeatherMap_abc_%d.png", at(13*time.Hour)):   false,
		fmt.Sprintf("WeatherMap_other_%d.png", at(13*time.Hour)): false,
		fmt.Sprintf("WeatherMap_abc_%d.png", at(time.Hour)):      true,
		fmt.Sprintf("WeatherMap_abc_%d.png", at(2*time.Hour)):    true,
		fmt.Sprintf("WeatherMap_other_%d.png", at(time.Hour)):    true,
		"notes.txt": true,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(m.dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m.Refresh()

	for name, keep := range files {
		if got := exists(filepath.Join(m.dir, name)); got != keep {
			t.Fatalf("%s exists = %v, want %v", name, got, keep)
		}
	}
	recent := m.Recent()
	if len(recent) != 2 {
		t.Fatalf("Recent = %+v, want two entries", recent)
	}
	if recent[0].Time != at(2*time.Hour) || recent[1].Time != at(time.Hour) {
		t.Fatalf("Recent not sorted by time: %+v", recent)
	}
	for _, r := range recent {
		if r.ID != "abc" {
			t.Fatalf("Recent contains other area: %+v", r)
		}
	}
}

func TestRefresh_SkipsWhenRunning(t *testing.T) {
	m, _ := newTestMaps(t, "")
	m.refreshing.Lock()
	m.Refresh()
	m.refreshing.Unlock()
}

func TestParseTrafficTile(t *testing.T) {
	tile, ok := ParseTrafficTile("5042_TMT_ABCD_2_3_20261018_1405_0a1b.png")
	if !ok {
		t.Fatal("ParseTrafficTile: no match")
	}
	want := TrafficTile{Row: 1, Col: 2, Time: time.Date(2026, 10, 18, 14, 5, 0, 0, time.UTC)}
	if tile.Row != want.Row || tile.Col != want.Col || !tile.Time.Equal(want.Time) {
		t.Fatalf("ParseTrafficTile = %+v, want %+v", tile, want)
	}

	for _, name := range []string{
		"5042_TMT_ABCD_4_3_20261018_1405_0a1b.png",
		"5042_TMT_ABCD_2_3_20261018_1A05_0a1b.png",
		"TMT_ABCD_2_3_20261018_1405_0a1b.png",
		"5042_DWRO_ABCD_2_3_20261018_1405_0a1b.png",
	} {
		if _, ok := ParseTrafficTile(name); ok {
			t.Errorf("ParseTrafficTile(%q) matched", name)
		}
	}
}

func TestParseTrafficImage(t *testing.T) {
	row, col, ok := ParseTrafficImage("trafficMap_3_1_4f2a.png")
	if !ok || row != 2 || col != 0 {
		t.Fatalf("ParseTrafficImage = %d,%d,%v, want 2,0,true", row, col, ok)
	}
	if _, _, ok := ParseTrafficImage("trafficMap_0_1_4f2a.png"); ok {
		t.Fatal("row 0 accepted")
	}
}

func TestParseWeatherOverlay(t *testing.T) {
	o, ok := ParseWeatherOverlay("5043_DWRO_abc123_radar_20261018_0930_FF.png")
	if !ok {
		t.Fatal("ParseWeatherOverlay: no match")
	}
	if o.ID != "abc123" || !o.Time.Equal(time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("ParseWeatherOverlay = %+v", o)
	}

	id, ok := ParseWeatherImage("WeatherImage_1_2_abc123.png")
	if !ok || id != "abc123" {
		t.Fatalf("ParseWeatherImage = %q,%v", id, ok)
	}
}

func TestParseWeatherInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "5044_DWRI_info.txt")
	content := "Version=1\nDWR_Area_ID=\"abc123\"\nCoordinates=(38.5,-122.25)(36.75,-119.5)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	id, box, err := ParseWeatherInfo(path)
	if err != nil {
		t.Fatalf("ParseWeatherInfo: %v", err)
	}
	want := geo.BoundingBox{Lat1: 38.5, Lon1: -122.25, Lat2: 36.75, Lon2: -119.5}
	if id != "abc123" || box != want {
		t.Fatalf("ParseWeatherInfo = %q %+v, want abc123 %+v", id, box, want)
	}

	if err := os.WriteFile(path, []byte("DWR_Area_ID=\"abc123\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ParseWeatherInfo(path); err == nil {
		t.Fatal("expected error without coordinates")
	}
}

func TestAddWeatherInfo_ConsumesFile(t *testing.T) {
	m, _ := newTestMaps(t, "")
	path := filepath.Join(t.TempDir(), "info.txt")
	content := "DWR_Area_ID=\"abc\"\nCoordinates=(52.4,-130.7)(52.0,-130.0)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.AddWeatherInfo(path); err != nil {
		t.Fatalf("AddWeatherInfo: %v", err)
	}
	if exists(path) {
		t.Fatal("weather info file not removed")
	}
	st := m.State()
	if st.WeatherID != "abc" || st.WeatherBox != testBox {
		t.Fatalf("state = %+v", st)
	}
	if !exists(m.baseMapPath("abc")) {
		t.Fatal("base map not created")
	}
}

func TestStatePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "mapdata.toml")

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState missing: %v", err)
	}
	if got != (State{}) {
		t.Fatalf("LoadState missing = %+v, want zero", got)
	}

	want := State{Complete: true, WeatherID: "abc", WeatherBox: testBox, WeatherTime: 1700000000, WeatherNow: "/tmp/w.png"}
	for i := range want.Tiles {
		for j := range want.Tiles[i] {
			want.Tiles[i][j] = 1700000000
		}
	}
	if err := SaveState(path, want); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	got, err = LoadState(path)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if got != want {
		t.Fatalf("LoadState = %+v, want %+v", got, want)
	}
}
