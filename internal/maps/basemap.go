package maps

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"

	"github.com/five82/hdmon/internal/geo"
)

const blankSize = 600

func (m *Maps) baseMapPath(id string) string {
	return filepath.Join(m.dir, fmt.Sprintf("BaseMap_%s.png", id))
}

// baseMap returns the base map for id, building it from the reference map
// when no file exists yet. force discards any cached or stored copy. The
// returned image is shared and must not be modified.
func (m *Maps) baseMap(id string, box geo.BoundingBox, force bool) (*image.RGBA, error) {
	path := m.baseMapPath(id)
	if force {
		m.baseMaps.Remove(id)
		m.remove(path)
	}
	if v, err := m.baseMaps.Get(id); err == nil {
		return v.(*image.RGBA), nil
	}

	if _, err := os.Stat(path); err == nil {
		img, err := decodeFile(path)
		if err == nil {
			rgba := toRGBA(img)
			_ = m.baseMaps.Set(id, rgba)
			return rgba, nil
		}
		m.log.Warn("stored base map unreadable, rebuilding", "path", path, "error", err)
	}

	rgba := m.cropReference(box)
	if err := writePNG(path, rgba); err != nil {
		return nil, fmt.Errorf("write base map: %w", err)
	}
	_ = m.baseMaps.Set(id, rgba)
	m.log.Info("base map created", "id", id, "width", rgba.Bounds().Dx(), "height", rgba.Bounds().Dy())
	return rgba, nil
}

// cropReference cuts box's projected area out of the reference map. A
// missing reference map, or an area outside it, gives a white image.
func (m *Maps) cropReference(box geo.BoundingBox) *image.RGBA {
	area := geo.MapArea(box)
	size := area.Size()
	if size.X <= 0 || size.Y <= 0 {
		size = image.Pt(blankSize, blankSize)
	}
	out := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	if m.refMap == "" {
		return out
	}
	ref, err := decodeFile(m.refMap)
	if err != nil {
		m.log.Warn("reference map unavailable, using blank base map", "path", m.refMap, "error", err)
		return out
	}
	if !area.Overlaps(ref.Bounds()) {
		m.log.Warn("weather area outside reference map", "area", area.String())
		return out
	}
	draw.Draw(out, out.Bounds(), ref, area.Min, draw.Src)
	return out
}
