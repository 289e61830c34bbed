package material

import (
	"math"
	"testing"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

func TestEmissive_Scatter(t *testing.T) {
	tests := []struct {
		name     string
		radiance core.Color
	}{
		{name: "Red emission", radiance: core.NewColor(1.0, 0.0, 0.0)},
		{name: "White emission", radiance: core.White},
		{name: "Zero emission", radiance: core.Black},
		{name: "High intensity emission", radiance: core.NewColor(10.0, 5.0, 2.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emissive := NewEmissive(tt.radiance)
			x := floorPoint(emissive)

			// Emissive materials absorb everything
			if _, scattered := emissive.Scatter(x, core.NewVec3(0, 0, -1), core.NewVec3(0.5, 0.5, 0.5)); scattered {
				t.Error("Emissive material should not scatter")
			}
			if !emissive.BSDF(x, core.NewVec3(0, 0, -1), core.NewVec3(0, 0, 1)).IsBlack() {
				t.Error("Emissive BSDF should be black")
			}

			if got := emissive.Emission(x, core.NewVec3(0, 0, 1)); got != tt.radiance {
				t.Errorf("front emission = %v, expected %v", got, tt.radiance)
			}
		})
	}
}

func TestEmissive_FrontFaceOnly(t *testing.T) {
	emissive := NewEmissive(core.Gray(5))
	x := floorPoint(emissive)

	tests := []struct {
		name     string
		out      core.Vec3
		radiance float64
		pdf      float64
	}{
		{"straight up", core.NewVec3(0, 0, 1), 5, 1 / math.Pi},
		{"grazing 60°", core.NewVec3(math.Sqrt(3), 0, 1), 5, 0.5 / math.Pi},
		{"tangent", core.NewVec3(1, 0, 0), 0, 0},
		{"back face", core.NewVec3(0, 0, -1), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emissive.Emission(x, tt.out); got.G != tt.radiance {
				t.Errorf("Emission = %v, expected %v", got, tt.radiance)
			}
			if got := emissive.EmissionPDF(x, tt.out); math.Abs(got-tt.pdf) > 1e-12 {
				t.Errorf("EmissionPDF = %f, expected %f", got, tt.pdf)
			}
		})
	}
}
