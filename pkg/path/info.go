package path

import (
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// MaxDepth caps every sub-path. There is no Russian roulette.
const MaxDepth = 10

// ShadowEpsilon is the distance visibility rays skip at both ends
const ShadowEpsilon = 1e-3

// ErrNumericalAnomaly marks a NaN, infinite or negative value produced by a collaborator
var ErrNumericalAnomaly = errors.New("numerical anomaly")

// Info is the per-sample context. It is created once per traced sample and
// shared read-only by every vertex on both sub-paths of that sample.
type Info struct {
	Caster     core.RayCaster
	Light      Light
	Background core.Background
	Color      core.ColorSample

	// Faults collects anomalies found while tracing and joining; may be nil
	Faults *Faults
}

func (info *Info) fault(err error) {
	if info != nil {
		info.Faults.Record(err)
	}
}

// Faults counts numerical anomalies. Each one costs a single connection or
// vertex, never the render.
type Faults struct {
	Count int
	Last  error
}

// Record counts err
func (f *Faults) Record(err error) {
	if f == nil {
		return
	}
	f.Count++
	f.Last = err
}

// Reset clears the counter
func (f *Faults) Reset() {
	*f = Faults{}
}
