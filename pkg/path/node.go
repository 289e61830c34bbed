package path

import (
	"math"

	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Kind tags the variant of a path vertex
type Kind int

const (
	EyeTerminal Kind = iota
	LightTerminal
	Surface
	Background
)

func (k Kind) String() string {
	switch k {
	case EyeTerminal:
		return "eye"
	case LightTerminal:
		return "light"
	case Surface:
		return "surface"
	case Background:
		return "background"
	}
	return "unknown"
}

// Node is one vertex of an eye or light random walk.
//
// Sub-paths are singly linked from the tail back to the terminal through
// Parent. Depth is -1 at the eye terminal and 0 at the light terminal and the
// first eye hit; it grows by one per scattering event. A node's cumulative
// weight is the product of every Weight/PDF ratio from its terminal up to and
// including the step that created it.
type Node struct {
	kind     Kind
	depth    int
	parent   *Node
	info     *Info
	position core.Position
	weight   core.Color
	pdf      float64
	specular bool
	onLight  bool

	hit      core.SurfacePoint
	incoming core.Vec3 // unit direction of travel into the vertex
	aperture Aperture
	emitter  Emitter

	gf   lazy[float64]
	rpdf lazy[float64]

	arena *Arena
	gen   uint32
}

// NewEyeTerminal anchors an eye sub-path at the lens
func NewEyeTerminal(a *Arena, info *Info, ap Aperture) *Node {
	n := a.alloc()
	n.kind = EyeTerminal
	n.depth = -1
	n.info = info
	n.position = ap.Position()
	n.weight = core.White
	n.pdf = 1
	n.specular = true
	n.aperture = ap
	return n
}

// NewLightTerminal anchors a light sub-path at an emitter. It fails when the
// emitter was chosen with zero density.
func NewLightTerminal(a *Arena, info *Info, em Emitter) (*Node, bool) {
	pdf := em.PositionPDF()
	if pdf <= 0 {
		return nil, false
	}
	weight := core.White.Divide(pdf)
	if !weight.Valid() {
		info.fault(errors.Wrapf(ErrNumericalAnomaly, "light terminal weight %v", weight))
		return nil, false
	}
	n := a.alloc()
	n.kind = LightTerminal
	n.info = info
	n.position = em.Position()
	n.weight = weight
	n.pdf = pdf
	n.onLight = true
	n.emitter = em
	return n, true
}

func (n *Node) Kind() Kind                   { return n.kind }
func (n *Node) Depth() int                   { return n.depth }
func (n *Node) Parent() *Node                { return n.parent }
func (n *Node) Info() *Info                  { return n.info }
func (n *Node) Position() core.Position      { return n.position }
func (n *Node) CumulativeWeight() core.Color { return n.weight }
func (n *Node) OnLightPath() bool            { return n.onLight }

// PDF is the density of the step that created this node: solid angle for
// scattering vertices, the position density for light terminals and 1 for
// the eye terminal.
func (n *Node) PDF() float64 { return n.pdf }

// Specular reports a vertex where no connection can be made: a Dirac-delta
// scatterer or the pinhole aperture.
func (n *Node) Specular() bool { return n.specular }

// Live reports whether the node's arena has not been reset since it was handed out
func (n *Node) Live() bool {
	return n.arena == nil || n.gen == n.arena.gen
}

// Expand samples the next vertex of the walk with three canonical randoms.
// It returns false on absorption, escape from a background vertex, a density
// at or below core.Epsilon, or when the depth cap is reached.
func (n *Node) Expand(u core.Vec3) (*Node, bool) {
	if n.depth+1 > MaxDepth {
		return nil, false
	}

	var sr core.ScatteredRay
	var ok bool
	switch n.kind {
	case EyeTerminal:
		sr, ok = n.aperture.Ray()
	case LightTerminal:
		sr, ok = n.emitter.SampleDirection(u)
	case Surface:
		sr, ok = n.hit.Material.Scatter(n.hit, n.incoming, u)
	}
	if !ok || sr.PDF < 0 || core.NearZero(sr.PDF) {
		return nil, false
	}

	weight := n.weight.Times(sr.Ratio())
	if !weight.Valid() {
		n.info.fault(errors.Wrapf(ErrNumericalAnomaly, "cumulative weight %v at depth %d", weight, n.depth+1))
		return nil, false
	}
	if weight.IsBlack() {
		return nil, false
	}

	dir := sr.Ray.Direction.Normalize()
	child := n.arena.alloc()
	child.depth = n.depth + 1
	child.parent = n
	child.info = n.info
	child.weight = weight
	child.pdf = sr.PDF
	child.onLight = n.onLight
	child.incoming = dir

	if hit, found := n.info.Caster.CastRay(core.NewRay(sr.Ray.Origin, dir)); found {
		child.kind = Surface
		child.hit = hit
		child.position = core.PointAt(hit.Position)
		child.specular = hit.Material.Specular()
	} else {
		child.kind = Background
		child.position = core.DirectionAt(dir)
	}
	return child, true
}

// ScatterTowards evaluates the vertex's scattering function for a connection
// leaving along v: importance at the eye terminal, emitted radiance at the
// light terminal, the BSDF at a surface and black at the background.
func (n *Node) ScatterTowards(v core.Vec3) core.Color {
	switch n.kind {
	case EyeTerminal:
		return n.aperture.Importance(v)
	case LightTerminal:
		return n.emitter.Radiance(v)
	case Surface:
		m := n.hit.Material
		if n.onLight {
			return m.BSDF(n.hit, n.incoming, v)
		}
		return m.BSDF(n.hit, v.Negate(), n.incoming.Negate())
	}
	return core.Black
}

// Cosine is the projection factor of direction v at this vertex
func (n *Node) Cosine(v core.Vec3) float64 {
	switch n.kind {
	case EyeTerminal:
		return n.aperture.Cosine(v)
	case LightTerminal:
		return n.emitter.Cosine(v)
	case Surface:
		return math.Abs(n.hit.Normal.Dot(v.Normalize()))
	}
	return 1
}

// PDFTowards is the solid angle density with which this vertex would scatter along v
func (n *Node) PDFTowards(v core.Vec3) float64 {
	switch n.kind {
	case EyeTerminal:
		return n.aperture.PDF(v)
	case LightTerminal:
		return n.emitter.DirectionPDF(v)
	case Surface:
		return n.hit.Material.PDF(n.hit, n.incoming, v)
	}
	return 0
}

// ReversePDFTowards is the density with which this vertex would scatter back
// towards its parent had the walk arrived from direction v
func (n *Node) ReversePDFTowards(v core.Vec3) float64 {
	if n.kind != Surface {
		return 0
	}
	return n.hit.Material.PDF(n.hit, v.Negate(), n.incoming.Negate())
}

// ReversePDF is the density with which the parent would scatter towards the
// grandparent given a walk arriving from this node. Delta scatterers report 1.
func (n *Node) ReversePDF() float64 {
	return n.rpdf.get(func() float64 {
		p := n.parent
		if p == nil {
			return 0
		}
		if p.kind == Surface && p.specular {
			return 1
		}
		v, ok := Direction(p, n)
		if !ok {
			return 0
		}
		return p.ReversePDFTowards(v)
	})
}

// GeometricFactor couples the node to its parent
func (n *Node) GeometricFactor() float64 {
	return n.gf.get(func() float64 {
		if n.parent == nil {
			return 0
		}
		return GeometricFactor(n.parent, n)
	})
}

// SourcePDF is the area density with which the scene's light would have
// produced this vertex as a light terminal
func (n *Node) SourcePDF() float64 {
	switch n.kind {
	case LightTerminal:
		return n.emitter.PositionPDF()
	case Surface:
		if n.info.Light == nil {
			return 0
		}
		return n.info.Light.SamplePDF(n.hit)
	}
	return 0
}

// SourcePDFTowards is the density with which an emitter at this vertex would emit along v
func (n *Node) SourcePDFTowards(v core.Vec3) float64 {
	switch n.kind {
	case LightTerminal:
		return n.emitter.DirectionPDF(v)
	case Surface:
		return n.hit.Material.EmissionPDF(n.hit, v)
	}
	return 0
}

// DeltaSource reports a light terminal at a single point, which no eye path can hit
func (n *Node) DeltaSource() bool {
	return n.kind == LightTerminal && n.emitter.DeltaPosition()
}

// Emitted is the radiance leaving an eye scattering vertex back along the eye path
func (n *Node) Emitted() core.Color {
	switch n.kind {
	case Surface:
		return n.hit.Material.Emission(n.hit, n.incoming.Negate())
	case Background:
		if n.info.Background == nil {
			return core.Black
		}
		return n.info.Background.Radiance(n.incoming)
	}
	return core.Black
}

// Project maps x onto the image plane. Only eye terminals project.
func (n *Node) Project(x core.Position) (core.Vec2, bool) {
	if n.kind != EyeTerminal {
		return core.Vec2{}, false
	}
	return n.aperture.Project(x)
}
