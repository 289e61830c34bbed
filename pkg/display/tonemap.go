// Package display turns job rasters into images, run reports and stored files.
package display

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/renderer"
)

// Gamma is the display gamma applied to linear radiance
const Gamma = 2.0

// encode maps a linear channel to [0, 1] after exposure and gamma correction.
// NaN and negative values map to 0.
func encode(v, exposure float64) float64 {
	v *= exposure
	if !(v > 0) {
		return 0
	}
	return core.Clamp(math.Pow(v, 1/Gamma), 0, 1)
}

// ToRGBA tone maps r to an 8-bit image. Exposure scales radiance first;
// zero means 1.
func ToRGBA(r *renderer.Raster, exposure float64) *image.RGBA {
	if exposure <= 0 {
		exposure = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.At(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(255*encode(c.R, exposure) + 0.5),
				G: uint8(255*encode(c.G, exposure) + 0.5),
				B: uint8(255*encode(c.B, exposure) + 0.5),
				A: 255,
			})
		}
	}
	return img
}

// ToRGBA64 tone maps r to a 16-bit image
func ToRGBA64(r *renderer.Raster, exposure float64) *image.RGBA64 {
	if exposure <= 0 {
		exposure = 1
	}
	img := image.NewRGBA64(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := r.At(x, y)
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(65535*encode(c.R, exposure) + 0.5),
				G: uint16(65535*encode(c.G, exposure) + 0.5),
				B: uint16(65535*encode(c.B, exposure) + 0.5),
				A: 65535,
			})
		}
	}
	return img
}
