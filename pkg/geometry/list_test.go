package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

func TestList_CastRay_Nearest(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -3), 1, nil)
	far := NewSphere(core.NewVec3(0, 0, -10), 1, nil)
	list := NewList(far, near)

	hit, ok := list.CastRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected hit")
	}
	if hit.Primitive != near {
		t.Errorf("Expected the nearer sphere")
	}
	if math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected t=2, got %f", hit.T)
	}

	if _, ok := list.CastRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))); ok {
		t.Errorf("Expected miss")
	}
}

func TestList_CastRay_SkipsOrigin(t *testing.T) {
	floor := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), nil)
	list := NewList(floor)

	// leaving the surface must not hit it again
	if _, ok := list.CastRay(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))); ok {
		t.Errorf("Expected ray leaving the plane to miss")
	}
}

func TestList_Visible(t *testing.T) {
	blocker := NewSphere(core.NewVec3(0, 0, -5), 1, nil)
	list := NewList(blocker)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -10))

	tests := []struct {
		name       string
		tMin, tMax float64
		visible    bool
	}{
		{"segment through blocker", 0.001, 0.999, false},
		{"segment before blocker", 0.001, 0.35, true},
		{"segment past blocker", 0.65, 0.999, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := list.Visible(ray, tt.tMin, tt.tMax); got != tt.visible {
				t.Errorf("Expected visible=%v, got %v", tt.visible, got)
			}
		})
	}
}
