package maps

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Label geometry in pixels, measured on the canvas the label is drawn on.
const (
	labelWidth  = 231
	labelHeight = 25
	labelInsetX = 235
	labelInsetY = 29
	labelSize   = 24
	labelFormat = "2006-01-02 15:04"
)

var (
	labelFill    = color.NRGBA{R: 128, G: 128, B: 128, A: 96}
	labelOutline = color.Black

	faceOnce sync.Once
	faceMono font.Face
)

func labelFace() font.Face {
	faceOnce.Do(func() {
		f, err := opentype.Parse(gomono.TTF)
		if err != nil {
			return
		}
		faceMono, err = opentype.NewFace(f, &opentype.FaceOptions{
			Size:    labelSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			faceMono = nil
		}
	})
	return faceMono
}

// newLabel returns a transparent canvas of the given size with the
// timestamp box drawn in its bottom-right corner.
func newLabel(size image.Point, t time.Time) *image.RGBA {
	img := image.NewRGBA(image.Rectangle{Max: size})
	drawLabel(img, t)
	return img
}

// drawLabel draws t, formatted as local "YYYY-MM-DD HH:MM", in a translucent
// box anchored to the bottom-right corner of dst.
func drawLabel(dst draw.Image, t time.Time) {
	b := dst.Bounds()
	x := b.Max.X - labelInsetX
	y := b.Max.Y - labelInsetY
	box := image.Rect(x, y, x+labelWidth+1, y+labelHeight+1)

	draw.Draw(dst, box, image.NewUniform(labelFill), image.Point{}, draw.Over)
	outline(dst, box, labelOutline)

	face := labelFace()
	if face == nil {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(x+3, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(t.Format(labelFormat))
}

func outline(dst draw.Image, r image.Rectangle, c color.Color) {
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}
