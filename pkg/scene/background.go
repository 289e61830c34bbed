package scene

import (
	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Gradient is a sky that blends from Bottom at the nadir to Top at the zenith
type Gradient struct {
	Top    core.Color
	Bottom core.Color
}

// NewGradient creates a gradient background
func NewGradient(top, bottom core.Color) *Gradient {
	return &Gradient{Top: top, Bottom: bottom}
}

// Radiance interpolates on the y component of the ray direction
func (g *Gradient) Radiance(dir core.Vec3) core.Color {
	t := 0.5 * (dir.Normalize().Y + 1.0)
	return g.Bottom.Lerp(g.Top, t)
}
