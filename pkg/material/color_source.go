package material

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// ColorSource provides spatially-varying colors for materials
type ColorSource interface {
	Evaluate(point core.Vec3) core.Color
}

// SolidColor provides a uniform color
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of position
func (s *SolidColor) Evaluate(core.Vec3) core.Color {
	return s.Color
}

// Checker alternates two colors on a 3D grid of cubes with side Size
type Checker struct {
	Even, Odd core.Color
	Size      float64
}

// NewChecker creates a checker pattern
func NewChecker(even, odd core.Color, size float64) *Checker {
	return &Checker{Even: even, Odd: odd, Size: size}
}

// Evaluate picks the color of the cube containing point
func (c *Checker) Evaluate(point core.Vec3) core.Color {
	cell := func(x float64) int { return int(math.Floor(x / c.Size)) }
	if (cell(point.X)+cell(point.Y)+cell(point.Z))%2 == 0 {
		return c.Even
	}
	return c.Odd
}
