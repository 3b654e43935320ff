// Package sprite renders tinted SVG icons and places them on a surface.
package sprite

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// Render rasterizes svgContent into a size×size image. Every "currentColor"
// in the SVG is replaced with tint.
func Render(svgContent string, size int, tint color.Color) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("sprite: invalid size %d", size)
	}

	r, g, b, _ := tint.RGBA()
	hexColor := fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
	svgContent = strings.ReplaceAll(svgContent, "currentColor", hexColor)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svgContent))
	if err != nil {
		return nil, fmt.Errorf("sprite: parse svg: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Transparent}, image.Point{}, draw.Src)

	icon.SetTarget(0, 0, float64(size), float64(size))

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// Circle returns an SVG of a circle filling a 100×100 view box. A zero
// strokeWidth yields a filled disc, otherwise an outlined ring.
func Circle(strokeWidth float64) string {
	if strokeWidth <= 0 {
		return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="50" fill="currentColor"/></svg>`
	}
	r := 50 - strokeWidth/2
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100"><circle cx="50" cy="50" r="%.3f" fill="none" stroke="currentColor" stroke-width="%.3f"/></svg>`, r, strokeWidth)
}

// DrawCentered composites src over dst with its centre at c.
func DrawCentered(dst draw.Image, src image.Image, c image.Point) {
	b := src.Bounds()
	min := c.Sub(image.Pt(b.Dx()/2, b.Dy()/2))
	draw.Draw(dst, image.Rectangle{Min: min, Max: min.Add(b.Size())}, src, b.Min, draw.Over)
}
