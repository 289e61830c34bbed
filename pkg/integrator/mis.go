package integrator

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// Heuristic maps a technique's relative density to its MIS contribution
type Heuristic func(r float64) float64

// BalanceHeuristic weights techniques in proportion to their densities
func BalanceHeuristic(r float64) float64 { return r }

// PowerHeuristic squares the densities (beta = 2)
func PowerHeuristic(r float64) float64 { return r * r }

// PowerHeuristicN raises the densities to beta
func PowerHeuristicN(beta float64) Heuristic {
	return func(r float64) float64 { return math.Pow(r, beta) }
}

// maxVertices bounds a full path: two terminals plus the deepest walks
const maxVertices = 2*path.MaxDepth + 3

// MIS weights each connection against every other technique that could have
// sampled the same path, using the vertices' area densities.
type MIS struct {
	depthLimits
	heuristic Heuristic
}

// NewMIS traces both sub-paths to the given depths and weights connections with h
func NewMIS(maxLightDepth, maxEyeDepth int, h Heuristic) (*MIS, error) {
	if h == nil {
		return nil, errors.Wrap(ErrInvalidStrategy, "nil heuristic")
	}
	d, err := newDepthLimits(maxLightDepth, maxEyeDepth)
	if err != nil {
		return nil, err
	}
	return &MIS{depthLimits: d, heuristic: h}, nil
}

// Weight returns h(p_s) / sum over valid techniques s' of h(p_s'). Vertices
// are numbered from the light end: x[0..s-1] come from the light path and
// x[s..n-1] from the eye path, x[n-1] being the eye terminal.
func (m *MIS) Weight(lightNode, eyeNode *path.Node) float64 {
	if eyeNode == nil {
		return 0
	}

	var buf [maxVertices]*path.Node
	x, s := assemble(buf[:0], lightNode, eyeNode)
	n := len(x)
	if n < 2 || !m.valid(x, s) {
		return 0
	}

	var pL, pE [maxVertices]float64
	densities(x, s, pL[:n], pE[:n])

	sum := 1.0
	r := 1.0
	for i := s; i < n-1; i++ {
		r *= remap0(pL[i]) / remap0(pE[i])
		if m.valid(x, i+1) {
			sum += m.heuristic(r)
		}
	}
	r = 1.0
	for i := s - 1; i >= 0; i-- {
		r *= remap0(pE[i]) / remap0(pL[i])
		if m.valid(x, i) {
			sum += m.heuristic(r)
		}
	}

	w := 1 / sum
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return 0
	}
	return w
}

// assemble lays the full path out from the light end. It returns the vertices
// and the number that came from the light path.
func assemble(buf []*path.Node, lightNode, eyeNode *path.Node) ([]*path.Node, int) {
	for n := lightNode; n != nil; n = n.Parent() {
		buf = append(buf, n)
	}
	s := len(buf)
	for i, j := 0, s-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	for n := eyeNode; n != nil; n = n.Parent() {
		buf = append(buf, n)
	}
	return buf, s
}

// valid reports whether technique s' could have produced the path x
func (m *MIS) valid(x []*path.Node, sp int) bool {
	n := len(x)
	if sp >= n {
		// the aperture is not part of the scene
		return false
	}
	if sp > 0 && sp-1 > m.maxLight {
		return false
	}
	if n-sp-2 > m.maxEye {
		return false
	}

	if x[0].Kind() == path.Background {
		// no light path starts at the background
		return sp == 0
	}
	if sp == 0 {
		// the eye walk has to hit the emitter by itself
		return !x[0].DeltaSource()
	}
	return connectable(x[sp-1]) && connectable(x[sp])
}

func connectable(n *path.Node) bool {
	switch n.Kind() {
	case path.EyeTerminal:
		return true
	case path.Background:
		return false
	}
	return !n.Specular()
}

// densities fills pL[i] and pE[i], the area densities with which the light and
// eye sides would generate x[i] given the rest of the path
func densities(x []*path.Node, s int, pL, pE []float64) {
	n := len(x)

	// light side
	if s > 0 {
		pL[0] = x[0].SourcePDF()
	}
	for i := 1; i < s; i++ {
		pL[i] = toArea(x[i].PDF(), x[i-1], x[i])
	}
	if s >= 1 {
		y, z := x[s-1], x[s]
		if v, ok := path.Direction(z, y); ok {
			pE[s-1] = toArea(z.PDFTowards(v), z, y)
		}
		if s >= 2 {
			if v, ok := path.Direction(y, z); ok {
				pE[s-2] = toArea(y.ReversePDFTowards(v), y, x[s-2])
			}
		}
	}
	for i := s - 3; i >= 0; i-- {
		pE[i] = toArea(x[i+2].ReversePDF(), x[i+1], x[i])
	}

	// eye side
	pE[n-1] = 1
	for i := s; i < n-1; i++ {
		pE[i] = toArea(x[i].PDF(), x[i+1], x[i])
	}
	if s >= 1 {
		y, z := x[s-1], x[s]
		if v, ok := path.Direction(y, z); ok {
			pL[s] = toArea(y.PDFTowards(v), y, z)
		}
		if s+1 < n-1 {
			if v, ok := path.Direction(z, y); ok {
				pL[s+1] = toArea(z.ReversePDFTowards(v), z, x[s+1])
			}
		}
	} else {
		x0 := x[0]
		pL[0] = x0.SourcePDF()
		if n > 2 {
			if v, ok := path.Direction(x0, x[1]); ok {
				pL[1] = toArea(x0.SourcePDFTowards(v), x0, x[1])
			}
		}
	}
	for i := s + 2; i < n-1; i++ {
		pL[i] = toArea(x[i-2].ReversePDF(), x[i-1], x[i])
	}
}

// toArea converts a direction density at from into an area density at to
func toArea(pdf float64, from, to *path.Node) float64 {
	pf, pt := from.Position(), to.Position()
	if pt.AtInfinity() {
		return pdf
	}
	if pf.AtInfinity() {
		return 0
	}
	d := pf.Point().Subtract(pt.Point())
	if from.Kind() == path.EyeTerminal {
		// the aperture density is per projected solid angle
		pdf *= math.Max(from.Cosine(d.Negate()), 0)
	}
	return core.SafeDivide(pdf*math.Abs(to.Cosine(d)), d.LengthSquared())
}

func remap0(f float64) float64 {
	if f == 0 || math.IsNaN(f) {
		return 1
	}
	return f
}

var _ Strategy = (*MIS)(nil)
var _ Strategy = (*PathTracing)(nil)
var _ Strategy = (*LightTracing)(nil)
var _ Strategy = (*UniformWeighted)(nil)
var _ Strategy = (*SingleContribution)(nil)
