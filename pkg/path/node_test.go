package path

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

func TestExpand_DepthAndWeight(t *testing.T) {
	tests := []struct {
		name     string
		material diffuseMaterial
		ratio    float64
	}{
		{"lambertian", diffuseMaterial{albedo: 0.8}, 0.8},
		{"mirror", diffuseMaterial{albedo: 0.9, specular: true}, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &Info{Caster: &boxCaster{material: tt.material, visible: true}}
			sampler := core.NewRandomSampler(5)
			arena := NewArena(4)

			head := NewEyeTerminal(arena, info, testAperture{})
			require.Equal(t, -1, head.Depth())

			node := head
			for {
				next, ok := node.Expand(sampler.Get3D())
				if !ok {
					break
				}
				require.Same(t, node, next.Parent())
				require.Equal(t, node.Depth()+1, next.Depth(), "depth must grow by one per step")

				want := node.CumulativeWeight()
				if node.Kind() != EyeTerminal {
					want = want.Scale(tt.ratio)
				}
				if diff := cmp.Diff(want, next.CumulativeWeight(), cmpopts.EquateApprox(1e-9, 0)); diff != "" {
					t.Fatalf("telescoping weight mismatch at depth %d (-want +got):\n%s", next.Depth(), diff)
				}
				assert.Equal(t, tt.material.specular, next.Specular())
				node = next
			}

			// the material never absorbs, so only the cap can stop the walk
			assert.Equal(t, MaxDepth, node.Depth())
			assert.Equal(t, MaxDepth+2, arena.Len())
		})
	}
}

// grazingMaterial scatters with a density too small to count as a real sample
type grazingMaterial struct {
	diffuseMaterial
	pdf float64
}

func (m grazingMaterial) Scatter(x core.SurfacePoint, in core.Vec3, u core.Vec3) (core.ScatteredRay, bool) {
	dir := core.NewVec3(1, m.pdf*math.Pi, 0)
	return core.ScatteredRay{Ray: core.NewRay(x.Position, dir), Weight: core.Gray(m.pdf), PDF: m.pdf}, true
}

func TestExpand_NegligibleDensity(t *testing.T) {
	tests := []struct {
		name string
		pdf  float64
		ok   bool
	}{
		{"zero", 0, false},
		{"below epsilon", core.Epsilon / 10, false},
		{"at epsilon", core.Epsilon, false},
		{"small but real", 1e-6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := &Info{Caster: &boxCaster{material: grazingMaterial{pdf: tt.pdf}, visible: true}}
			head := NewEyeTerminal(nil, info, testAperture{})
			hit, ok := head.Expand(core.NewVec3(0.5, 0.5, 0.5))
			require.True(t, ok)

			_, ok = hit.Expand(core.NewVec3(0.5, 0.5, 0.5))
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTrace_RespectsLimit(t *testing.T) {
	info := &Info{Caster: &boxCaster{material: diffuseMaterial{albedo: 1}, visible: true}}
	sampler := core.NewRandomSampler(9)

	for _, limit := range []int{-1, 0, 3, MaxDepth, 50} {
		head := NewEyeTerminal(nil, info, testAperture{})
		tail := Trace(head, limit, sampler)
		want := min(limit, MaxDepth)
		assert.Equal(t, want, tail.Depth(), "limit %d", limit)
		assert.Equal(t, want+2, Length(tail))
	}
}

func TestExpand_EscapeToBackground(t *testing.T) {
	info := &Info{Caster: emptyCaster{}, Background: gradientBackground{}}
	head := NewEyeTerminal(nil, info, testAperture{})

	miss, ok := head.Expand(core.NewVec3(0.1, 0.2, 0.3))
	require.True(t, ok)
	assert.Equal(t, Background, miss.Kind())
	assert.Equal(t, 0, miss.Depth())
	assert.True(t, miss.Position().AtInfinity())
	assert.Equal(t, core.NewVec3(0, 0, -1), miss.Position().Direction())

	_, ok = miss.Expand(core.NewVec3(0.5, 0.5, 0.5))
	assert.False(t, ok, "background vertices absorb")
}

func TestLightTerminal(t *testing.T) {
	info := &Info{Caster: &boxCaster{material: diffuseMaterial{albedo: 0.5}, visible: true}}
	em := pointEmitter{at: core.NewVec3(0, 3, 0), intensity: 2}

	light, ok := NewLightTerminal(nil, info, em)
	require.True(t, ok)
	assert.Equal(t, 0, light.Depth())
	assert.True(t, light.OnLightPath())
	assert.False(t, light.Specular())
	assert.True(t, light.DeltaSource())

	child, ok := light.Expand(core.NewVec3(0.3, 0.6, 0.1))
	require.True(t, ok)
	assert.Equal(t, 1, child.Depth())
	assert.True(t, child.OnLightPath())
	// emitted power ratio of an isotropic source is 4πI
	assert.InDelta(t, 4*math.Pi*2, child.CumulativeWeight().R, 1e-9)
}

func TestReversePDF_Cached(t *testing.T) {
	info := &Info{Caster: &boxCaster{material: diffuseMaterial{albedo: 1}, visible: true}}
	sampler := core.NewRandomSampler(21)
	head := NewEyeTerminal(nil, info, testAperture{})
	tail := Trace(head, 2, sampler)
	require.Equal(t, 2, tail.Depth())

	parent := tail.Parent()
	v, ok := Direction(parent, tail)
	require.True(t, ok)
	want := parent.ReversePDFTowards(v)
	assert.InDelta(t, want, tail.ReversePDF(), 1e-12)
	assert.Greater(t, tail.ReversePDF(), 0.0)

	g := tail.GeometricFactor()
	assert.InDelta(t, GeometricFactor(parent, tail), g, 1e-12)
	assert.Equal(t, g, tail.GeometricFactor())

	// the eye terminal has no predecessor to scatter back to
	first := parent.Parent()
	require.Equal(t, 0, first.Depth())
	assert.Equal(t, 0.0, first.ReversePDF())
}

func TestArena_Reset(t *testing.T) {
	info := &Info{Caster: &boxCaster{material: diffuseMaterial{albedo: 1}, visible: true}}
	arena := NewArena(2)
	head := NewEyeTerminal(arena, info, testAperture{})
	tail := Trace(head, 4, core.NewRandomSampler(1))
	require.Equal(t, 6, arena.Len())
	assert.True(t, tail.Live())

	gen := arena.Generation()
	arena.Reset()
	assert.Equal(t, gen+1, arena.Generation())
	assert.Zero(t, arena.Len())
	assert.False(t, tail.Live(), "nodes from a reset arena are stale")

	again := NewEyeTerminal(arena, info, testAperture{})
	assert.True(t, again.Live())
	assert.Same(t, head, again, "arena recycles node storage")
}

func TestNonSpecularCount(t *testing.T) {
	info := &Info{Caster: &boxCaster{material: diffuseMaterial{albedo: 1}, visible: true}}
	head := NewEyeTerminal(nil, info, testAperture{})
	tail := Trace(head, 2, core.NewRandomSampler(4))

	// eye terminal is specular; three diffuse hits follow
	assert.Equal(t, 3, NonSpecularCount(tail))
	assert.Equal(t, 0, NonSpecularCount(head))
	assert.Equal(t, 0, NonSpecularCount(nil))

	sky := &Info{Caster: emptyCaster{}, Background: gradientBackground{}}
	miss, ok := NewEyeTerminal(nil, sky, testAperture{}).Expand(core.NewVec3(0.5, 0.5, 0.5))
	require.True(t, ok)
	require.Equal(t, Background, miss.Kind())
	assert.Equal(t, 0, NonSpecularCount(miss), "the background cannot be connected to")
}
