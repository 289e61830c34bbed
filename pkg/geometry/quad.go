package geometry

import (
	"math"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

// Quad represents a parallelogram defined by a corner and two edge vectors.
// Its normal is U × V, normalized.
type Quad struct {
	Corner   core.Vec3     // One corner of the quad
	U        core.Vec3     // First edge vector
	V        core.Vec3     // Second edge vector
	Normal   core.Vec3     // Normal vector (computed from U × V)
	Material core.Material // Material of the quad
	D        float64       // Plane equation constant: normal · x = D
	W        core.Vec3     // Cached cross product for barycentric coordinates
	area     float64
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		D:        normal.Dot(corner),
		W:        cross.Multiply(1.0 / cross.Dot(cross)), // w = n / (n · (u × v)), unnormalized n
		area:     cross.Length(),
	}
}

// Area returns |U × V|
func (q *Quad) Area() float64 {
	return q.area
}

// PointAt maps (a, b) in the unit square onto the quad
func (q *Quad) PointAt(a, b float64) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(a)).Add(q.V.Multiply(b))
}

// coordinates returns the barycentric coordinates of a point on the quad's plane
func (q *Quad) coordinates(p core.Vec3) (alpha, beta float64) {
	hitVector := p.Subtract(q.Corner)
	return q.W.Dot(hitVector.Cross(q.V)), q.W.Dot(q.U.Cross(hitVector))
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (core.SurfacePoint, bool) {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray is parallel to the quad
	if math.Abs(denominator) < 1e-12 {
		return core.SurfacePoint{}, false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return core.SurfacePoint{}, false
	}

	hitPoint := ray.At(t)
	alpha, beta := q.coordinates(hitPoint)
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return core.SurfacePoint{}, false
	}

	return core.SurfacePoint{
		Position:  hitPoint,
		Normal:    q.Normal,
		Material:  q.Material,
		Primitive: q,
		T:         t,
	}, true
}
