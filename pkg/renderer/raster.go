package renderer

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Raster is a row-major grid of linear radiance values
type Raster struct {
	Width  int
	Height int
	Pixels []core.Color
}

// NewRaster creates a black raster
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pixels: make([]core.Color, width*height),
	}
}

// At returns the pixel at (x, y)
func (r *Raster) At(x, y int) core.Color {
	return r.Pixels[y*r.Width+x]
}

// Set overwrites the pixel at (x, y)
func (r *Raster) Set(x, y int, c core.Color) {
	r.Pixels[y*r.Width+x] = c
}

// Add accumulates c into (x, y). Coordinates outside the raster are ignored,
// since light tracing splats can land anywhere.
func (r *Raster) Add(x, y int, c core.Color) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	i := y*r.Width + x
	r.Pixels[i] = r.Pixels[i].Plus(c)
}

// AddScaled accumulates src scaled by f
func (r *Raster) AddScaled(src *Raster, f float64) {
	for i, c := range src.Pixels {
		r.Pixels[i] = r.Pixels[i].Plus(c.Scale(f))
	}
}

// Blend moves every pixel towards src by alpha
func (r *Raster) Blend(src *Raster, alpha float64) {
	for i, c := range src.Pixels {
		r.Pixels[i] = r.Pixels[i].Lerp(c, alpha)
	}
}

// Scale multiplies every pixel by f
func (r *Raster) Scale(f float64) {
	for i := range r.Pixels {
		r.Pixels[i] = r.Pixels[i].Scale(f)
	}
}

// Clear resets the raster to black
func (r *Raster) Clear() {
	clear(r.Pixels)
}

// Clone returns a deep copy
func (r *Raster) Clone() *Raster {
	c := &Raster{Width: r.Width, Height: r.Height, Pixels: make([]core.Color, len(r.Pixels))}
	copy(c.Pixels, r.Pixels)
	return c
}

// SameSize reports whether o has r's dimensions
func (r *Raster) SameSize(o *Raster) bool {
	return o != nil && r.Width == o.Width && r.Height == o.Height && len(o.Pixels) == len(r.Pixels)
}

// AverageLuminance returns the mean luminance over all pixels
func (r *Raster) AverageLuminance() float64 {
	if len(r.Pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range r.Pixels {
		total += c.Luminance()
	}
	return total / float64(len(r.Pixels))
}
