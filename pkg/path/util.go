package path

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// GeometricFactor is the coupling term between two vertices. It is zero when
// both lie at infinity, the clamped cosine at the finite vertex when exactly
// one does, and cos·cos/d² otherwise. Symmetric in a and b.
func GeometricFactor(a, b *Node) float64 {
	pa, pb := a.Position(), b.Position()
	switch {
	case pa.AtInfinity() && pb.AtInfinity():
		return 0
	case pa.AtInfinity():
		return coupling(b.Cosine(pa.Direction()))
	case pb.AtInfinity():
		return coupling(a.Cosine(pb.Direction()))
	}

	d := pb.Point().Subtract(pa.Point())
	dist2 := d.LengthSquared()
	if dist2 == 0 {
		return 0
	}
	dir := d.Multiply(1 / math.Sqrt(dist2))
	return coupling(a.Cosine(dir)) * coupling(b.Cosine(dir.Negate())) / dist2
}

// coupling clamps a cosine, treating grazing angles as no coupling at all
func coupling(cos float64) float64 {
	if cos < 0 || core.NearZero(cos) {
		return 0
	}
	return cos
}

// Visibility reports whether the segment between a and b, or the ray from the
// finite one towards the one at infinity, is unoccluded
func Visibility(a, b *Node) bool {
	pa, pb := a.Position(), b.Position()
	caster := a.Info().Caster
	switch {
	case pa.AtInfinity() && pb.AtInfinity():
		return false
	case pa.AtInfinity():
		return caster.Visible(core.NewRay(pb.Point(), pa.Direction()), ShadowEpsilon, math.Inf(1))
	case pb.AtInfinity():
		return caster.Visible(core.NewRay(pa.Point(), pb.Direction()), ShadowEpsilon, math.Inf(1))
	}

	d := pb.Point().Subtract(pa.Point())
	length := d.Length()
	if length <= 2*ShadowEpsilon {
		return false
	}
	eps := ShadowEpsilon / length
	return caster.Visible(core.NewRay(pa.Point(), d), eps, 1-eps)
}

// Direction returns the unit direction from one vertex to another. A vertex
// at infinity contributes its direction, negated when it is the origin.
// Undefined when both are at infinity or the points coincide.
func Direction(from, to *Node) (core.Vec3, bool) {
	pf, pt := from.Position(), to.Position()
	switch {
	case pf.AtInfinity() && pt.AtInfinity():
		return core.Vec3{}, false
	case pt.AtInfinity():
		return pt.Direction(), true
	case pf.AtInfinity():
		return pf.Direction().Negate(), true
	}
	d := pt.Point().Subtract(pf.Point())
	if d.IsZero() {
		return core.Vec3{}, false
	}
	return d.Normalize(), true
}

// Join connects two vertices of opposite sub-paths. The radiometric product
// and the geometric factor are checked before the visibility ray is cast: a
// connection that carries no energy never pays for an occlusion test.
func Join(a, b *Node) (core.Color, bool) {
	dir, ok := Direction(a, b)
	if !ok {
		return core.Black, false
	}

	c := a.ScatterTowards(dir).Times(b.ScatterTowards(dir.Negate()))
	if !c.Valid() {
		a.Info().fault(errors.Wrapf(ErrNumericalAnomaly, "join %s/%s scatter product %v", a.Kind(), b.Kind(), c))
		return core.Black, false
	}
	if c.IsBlack() {
		return core.Black, false
	}

	g := GeometricFactor(a, b)
	if g <= 0 {
		return core.Black, false
	}
	if !Visibility(a, b) {
		return core.Black, false
	}

	c = c.Scale(g).Times(a.CumulativeWeight()).Times(b.CumulativeWeight())
	if !c.Valid() {
		a.Info().fault(errors.Wrapf(ErrNumericalAnomaly, "join %s/%s contribution %v", a.Kind(), b.Kind(), c))
		return core.Black, false
	}
	if c.IsBlack() {
		return core.Black, false
	}
	return c, true
}

// Emitted scores an eye vertex that found an emitter without a light sub-path
func Emitted(eye *Node) (core.Color, bool) {
	le := eye.Emitted()
	if le.IsBlack() {
		return core.Black, false
	}
	c := le.Times(eye.CumulativeWeight())
	if !c.Valid() {
		eye.Info().fault(errors.Wrapf(ErrNumericalAnomaly, "emitted radiance %v at depth %d", c, eye.Depth()))
		return core.Black, false
	}
	return c, true
}

// Trace expands head until the walk reaches maxDepth, is absorbed or escapes,
// and returns the last vertex. maxDepth is clamped to MaxDepth.
func Trace(head *Node, maxDepth int, s core.Sampler) *Node {
	limit := min(maxDepth, MaxDepth)
	tail := head
	for tail.Depth() < limit {
		next, ok := tail.Expand(s.Get3D())
		if !ok {
			break
		}
		tail = next
	}
	return tail
}

// Length counts the vertices from n back to its terminal
func Length(n *Node) int {
	count := 0
	for ; n != nil; n = n.Parent() {
		count++
	}
	return count
}

// NonSpecularCount counts the vertices from n back to its terminal at which
// another technique could have made a connection. Background vertices scatter
// nothing, so they never count.
func NonSpecularCount(n *Node) int {
	count := 0
	for ; n != nil; n = n.Parent() {
		if !n.Specular() && n.Kind() != Background {
			count++
		}
	}
	return count
}
