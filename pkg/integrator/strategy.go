package integrator

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// ErrInvalidStrategy is returned for malformed strategy parameters
var ErrInvalidStrategy = errors.New("invalid strategy")

// Strategy decides how far each sub-path is traced and how every
// (light vertex, eye vertex) connection is weighted.
//
// A nil light node means the eye path reached an emitter on its own. The
// weights a strategy assigns to the techniques that can produce a path should
// sum to one for the estimate to stay unbiased.
type Strategy interface {
	TraceEyePath(lens path.Lens, p core.Vec2, info *path.Info, s core.Sampler, arena *path.Arena) *path.Node
	TraceLightPath(light path.Light, info *path.Info, s core.Sampler, arena *path.Arena) *path.Node
	Weight(lightNode, eyeNode *path.Node) float64
}

// depthLimits holds the deepest vertex each sub-path may reach. The eye
// terminal sits at depth -1 and the light terminal at depth 0, so -1 on the
// eye side traces the lens only and 0 on the light side traces the emitter
// only. A light limit of -1 disables light paths.
type depthLimits struct {
	maxLight int
	maxEye   int
}

func newDepthLimits(maxLight, maxEye int) (depthLimits, error) {
	if maxLight < -1 || maxLight > path.MaxDepth {
		return depthLimits{}, errors.Wrapf(ErrInvalidStrategy, "max light depth %d outside [-1, %d]", maxLight, path.MaxDepth)
	}
	if maxEye < -1 || maxEye > path.MaxDepth {
		return depthLimits{}, errors.Wrapf(ErrInvalidStrategy, "max eye depth %d outside [-1, %d]", maxEye, path.MaxDepth)
	}
	return depthLimits{maxLight: maxLight, maxEye: maxEye}, nil
}

// TraceEyePath builds the eye terminal for image point p and extends it
func (d depthLimits) TraceEyePath(lens path.Lens, p core.Vec2, info *path.Info, s core.Sampler, arena *path.Arena) *path.Node {
	ap, ok := lens.Sample(p, info, s)
	if !ok {
		return nil
	}
	return path.Trace(path.NewEyeTerminal(arena, info, ap), d.maxEye, s)
}

// TraceLightPath picks an emitter and extends it
func (d depthLimits) TraceLightPath(light path.Light, info *path.Info, s core.Sampler, arena *path.Arena) *path.Node {
	if d.maxLight < 0 {
		return nil
	}
	em, ok := light.Sample(info, s)
	if !ok {
		return nil
	}
	head, ok := path.NewLightTerminal(arena, info, em)
	if !ok {
		return nil
	}
	return path.Trace(head, d.maxLight, s)
}

// MaxLightDepth is the deepest light vertex traced
func (d depthLimits) MaxLightDepth() int { return d.maxLight }

// MaxEyeDepth is the deepest eye vertex traced
func (d depthLimits) MaxEyeDepth() int { return d.maxEye }

// escapedWeight scores an eye path that ended at the background. Only the eye
// walk can produce that vertex, so the path is weighted 1 when scored on its
// own and 0 as a connection.
func escapedWeight(lightNode *path.Node) float64 {
	if lightNode == nil {
		return 1
	}
	return 0
}

// techniqueCount is the number of connection techniques that could have built
// the path through lightNode and eyeNode: one per non-specular vertex plus one.
func techniqueCount(lightNode, eyeNode *path.Node) int {
	return 1 + path.NonSpecularCount(lightNode) + path.NonSpecularCount(eyeNode)
}
