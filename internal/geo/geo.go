// Package geo projects geographic bounding boxes onto the fixed reference
// map that weather base maps are cropped from.
package geo

import (
	"image"
	"math"
)

// Reference map calibration. The map is a Mercator projection whose north
// edge sits at northEdge; southRef is the latitude found southRefPx pixels
// below it, and lonSpan degrees of longitude cover lonSpanPx pixels.
const (
	northEdge  = 52.482780
	westEdge   = -130.781250
	southRef   = 38.898
	southRefPx = 3565
	lonSpan    = 39.34135
	lonSpanPx  = 7162
)

// BoundingBox is a lat/lon rectangle as announced by weather metadata.
// (Lat1, Lon1) is the north-west corner and (Lat2, Lon2) the south-east one.
type BoundingBox struct {
	Lat1 float64 `toml:"lat1"`
	Lon1 float64 `toml:"lon1"`
	Lat2 float64 `toml:"lat2"`
	Lon2 float64 `toml:"lon2"`
}

// IsZero reports whether the box has never been set.
func (b BoundingBox) IsZero() bool {
	return b == BoundingBox{}
}

// MapArea returns the pixel rectangle on the reference map covered by box.
func MapArea(box BoundingBox) image.Rectangle {
	x1, y1 := Project(box.Lat1, box.Lon1)
	x2, y2 := Project(box.Lat2, box.Lon2)
	return image.Rect(x1, y1, x2, y2)
}

// Project converts a single coordinate to reference map pixels.
func Project(lat, lon float64) (x, y int) {
	top := mercator(northEdge)
	scale := southRefPx / (top - mercator(southRef))
	px := (lon - westEdge) * lonSpanPx / lonSpan
	py := (top - mercator(lat)) * scale
	return int(math.Round(px)), int(math.Round(py))
}

func mercator(lat float64) float64 {
	return math.Asinh(math.Tan(lat * math.Pi / 180))
}
