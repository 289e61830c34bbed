package lights

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// Composite chooses among several lights with fixed probabilities
type Composite struct {
	lights  []path.Light
	weights []float64 // normalized to sum to 1
}

// NewWeightedLight creates a composite light with the given selection weights.
// Weights are normalized; all-zero weights fall back to uniform selection.
func NewWeightedLight(lights []path.Light, weights []float64) (*Composite, error) {
	if len(lights) == 0 {
		return nil, errors.Wrap(ErrInvalidLight, "composite light needs at least one light")
	}
	if len(lights) != len(weights) {
		return nil, errors.Wrapf(ErrInvalidLight, "lights length (%d) must match weights length (%d)", len(lights), len(weights))
	}

	totalWeight := 0.0
	for _, weight := range weights {
		if weight < 0 {
			return nil, errors.Wrapf(ErrInvalidLight, "negative weight %v", weight)
		}
		totalWeight += weight
	}

	normalized := make([]float64, len(weights))
	for i, weight := range weights {
		if totalWeight == 0 {
			normalized[i] = 1 / float64(len(weights))
		} else {
			normalized[i] = weight / totalWeight
		}
	}
	return &Composite{lights: lights, weights: normalized}, nil
}

// NewUniformLight selects every light with equal probability
func NewUniformLight(lights ...path.Light) (*Composite, error) {
	return NewWeightedLight(lights, make([]float64, len(lights)))
}

// NewPowerLight selects lights in proportion to their emitted power
func NewPowerLight(lights ...PoweredLight) (*Composite, error) {
	all := make([]path.Light, len(lights))
	weights := make([]float64, len(lights))
	for i, l := range lights {
		all[i] = l
		weights[i] = l.Power()
	}
	return NewWeightedLight(all, weights)
}

// Len returns the number of lights
func (c *Composite) Len() int {
	return len(c.lights)
}

// Probability returns the selection probability of light i
func (c *Composite) Probability(i int) float64 {
	return c.weights[i]
}

// Sample picks a light, then lets it pick the emitter. The emitter's
// position density includes the selection probability.
func (c *Composite) Sample(info *path.Info, s core.Sampler) (path.Emitter, bool) {
	i := c.choose(s.Get1D())
	if c.weights[i] <= 0 {
		return nil, false
	}
	em, ok := c.lights[i].Sample(info, s)
	if !ok {
		return nil, false
	}
	return selected{Emitter: em, probability: c.weights[i]}, true
}

// SamplePDF sums the densities of every light that could have produced x
func (c *Composite) SamplePDF(x core.SurfacePoint) float64 {
	total := 0.0
	for i, l := range c.lights {
		total += c.weights[i] * l.SamplePDF(x)
	}
	return total
}

// choose uses cumulative probability to select a light
func (c *Composite) choose(u float64) int {
	cumulative := 0.0
	for i, weight := range c.weights {
		cumulative += weight
		if u < cumulative {
			return i
		}
	}
	// Fallback for floating point precision
	return len(c.weights) - 1
}

// selected scales an emitter's position density by its light's selection probability
type selected struct {
	path.Emitter
	probability float64
}

func (s selected) PositionPDF() float64 {
	return s.probability * s.Emitter.PositionPDF()
}
