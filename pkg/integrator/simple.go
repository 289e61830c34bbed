package integrator

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// PathTracing only accepts forward path tracing: no scattering vertex on the
// light side and exactly one non-specular vertex on the eye side. Eye paths
// that escape to the background are always kept.
type PathTracing struct {
	depthLimits
}

// NewPathTracing traces eye paths to maxEyeDepth and light paths to the emitter only
func NewPathTracing(maxEyeDepth int) (*PathTracing, error) {
	d, err := newDepthLimits(0, maxEyeDepth)
	if err != nil {
		return nil, err
	}
	return &PathTracing{d}, nil
}

// Weight is 1 for a pure path tracing connection, 0 otherwise
func (pt *PathTracing) Weight(lightNode, eyeNode *path.Node) float64 {
	if eyeNode == nil || eyeNode.Kind() == path.EyeTerminal {
		return 0
	}
	if eyeNode.Kind() == path.Background {
		return escapedWeight(lightNode)
	}
	if lightNode != nil && lightNode.Depth() > 0 {
		return 0
	}
	if path.NonSpecularCount(eyeNode) != 1 {
		return 0
	}
	return 1
}

// LightTracing only accepts connections from light vertices to the eye terminal
type LightTracing struct {
	depthLimits
}

// NewLightTracing traces light paths to maxLightDepth and eye paths to the lens only
func NewLightTracing(maxLightDepth int) (*LightTracing, error) {
	if maxLightDepth < 0 {
		return nil, errors.Wrapf(ErrInvalidStrategy, "light tracing needs a light path, got max light depth %d", maxLightDepth)
	}
	d, err := newDepthLimits(maxLightDepth, -1)
	if err != nil {
		return nil, err
	}
	return &LightTracing{d}, nil
}

// Weight is 1 for a light vertex splatted through the eye terminal
func (lt *LightTracing) Weight(lightNode, eyeNode *path.Node) float64 {
	if lightNode == nil || eyeNode == nil || eyeNode.Kind() != path.EyeTerminal {
		return 0
	}
	return 1
}

// UniformWeighted spreads a path evenly over every technique that could have
// produced it, counting techniques rather than comparing their densities.
type UniformWeighted struct {
	depthLimits
}

// NewUniformWeighted traces both sub-paths to the given depths
func NewUniformWeighted(maxLightDepth, maxEyeDepth int) (*UniformWeighted, error) {
	d, err := newDepthLimits(maxLightDepth, maxEyeDepth)
	if err != nil {
		return nil, err
	}
	return &UniformWeighted{d}, nil
}

// Weight is 1/k where k counts the non-specular vertices plus one
func (u *UniformWeighted) Weight(lightNode, eyeNode *path.Node) float64 {
	if eyeNode == nil {
		return 0
	}
	if eyeNode.Kind() == path.Background {
		return escapedWeight(lightNode)
	}
	return 1 / float64(techniqueCount(lightNode, eyeNode))
}

// SingleContribution keeps a single (s, t) technique, where s counts light
// vertices and t counts eye vertices including the eye terminal. Useful for
// looking at one technique's variance in isolation.
type SingleContribution struct {
	depthLimits
	s, t int
}

// NewSingleContribution traces just deep enough to produce technique (s, t)
func NewSingleContribution(s, t int) (*SingleContribution, error) {
	if s < 0 || t < 1 {
		return nil, errors.Wrapf(ErrInvalidStrategy, "technique (s=%d, t=%d) needs s >= 0 and t >= 1", s, t)
	}
	if s+t < 2 {
		return nil, errors.Wrapf(ErrInvalidStrategy, "technique (s=%d, t=%d) has no scene vertex", s, t)
	}
	d, err := newDepthLimits(s-1, t-2)
	if err != nil {
		return nil, err
	}
	return &SingleContribution{depthLimits: d, s: s, t: t}, nil
}

// Weight is 1/k for the chosen technique and 0 for every other one
func (sc *SingleContribution) Weight(lightNode, eyeNode *path.Node) float64 {
	if eyeNode == nil {
		return 0
	}
	if path.Length(lightNode) != sc.s || path.Length(eyeNode) != sc.t {
		return 0
	}
	if eyeNode.Kind() == path.Background {
		return escapedWeight(lightNode)
	}
	return 1 / float64(techniqueCount(lightNode, eyeNode))
}
