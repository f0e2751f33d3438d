package sim

import (
	"errors"
	"testing"

	"github.com/Faultbox/windmesh/pkg/vecmath"
)

func testStats(t *testing.T) Stats {
	t.Helper()
	stats, err := NewStats(
		[3]float32{0.5, -1.25, 3},
		[3]float32{2, 0.5, 4},
		[3]float32{0, 0.01, -0.02},
		[3]float32{0.05, 0.1, 0.2},
	)
	if err != nil {
		t.Fatalf("NewStats() error: %v", err)
	}
	return stats
}

func TestNewStatsZeroStd(t *testing.T) {
	_, err := NewStats(
		[3]float32{0, 0, 0},
		[3]float32{1, 0, 1},
		[3]float32{0, 0, 0},
		[3]float32{1, 1, 1},
	)
	if !errors.Is(err, ErrZeroStd) {
		t.Errorf("expected ErrZeroStd for zero pos_std component, got %v", err)
	}

	_, err = NewStats(
		[3]float32{0, 0, 0},
		[3]float32{1, 1, 1},
		[3]float32{0, 0, 0},
		[3]float32{1, 1, 0},
	)
	if !errors.Is(err, ErrZeroStd) {
		t.Errorf("expected ErrZeroStd for zero disp_std component, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	mean := vecmath.Vec3{X: 1, Y: 2, Z: 3}
	std := vecmath.Vec3{X: 2, Y: 4, Z: 0.5}

	got := Normalize(vecmath.Vec3{X: 5, Y: 2, Z: 2}, mean, std)
	want := vecmath.Vec3{X: 2, Y: 0, Z: -2}
	if got != want {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestDenormalize(t *testing.T) {
	mean := vecmath.Vec3{X: 1, Y: 2, Z: 3}
	std := vecmath.Vec3{X: 2, Y: 4, Z: 0.5}

	got := Denormalize(vecmath.Vec3{X: 2, Y: 0, Z: -2}, mean, std)
	want := vecmath.Vec3{X: 5, Y: 2, Z: 2}
	if got != want {
		t.Errorf("Denormalize() = %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	stats := testStats(t)

	vertices := []vecmath.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1.5, Y: -2.25, Z: 100},
		{X: -0.001, Y: 0.002, Z: -0.003},
		{X: 1e6, Y: -1e6, Z: 42},
	}

	const tol = 1e-3
	for _, v := range vertices {
		got := Denormalize(Normalize(v, stats.PosMean, stats.PosStd), stats.PosMean, stats.PosStd)
		if got.Distance(v) > tol*maxAbs(v) && got.Distance(v) > tol {
			t.Errorf("round trip of %v = %v", v, got)
		}
	}
}

func maxAbs(v vecmath.Vec3) float32 {
	m := float32(1)
	for _, c := range []float32{v.X, v.Y, v.Z} {
		if c < 0 {
			c = -c
		}
		if c > m {
			m = c
		}
	}
	return m
}

func TestCodecDisabledIsIdentity(t *testing.T) {
	codec := Codec{Stats: testStats(t), Enabled: false}

	v := vecmath.Vec3{X: 3.5, Y: -7, Z: 0.25}
	if got := codec.NormalizePosition(v); got != v {
		t.Errorf("disabled NormalizePosition(%v) = %v, want identity", v, got)
	}
	if got := codec.DenormalizeDisplacement(v); got != v {
		t.Errorf("disabled DenormalizeDisplacement(%v) = %v, want identity", v, got)
	}
}

func TestCodecEnabled(t *testing.T) {
	stats := testStats(t)
	codec := Codec{Stats: stats, Enabled: true}

	v := vecmath.Vec3{X: 2.5, Y: -0.75, Z: 7}
	if got, want := codec.NormalizePosition(v), Normalize(v, stats.PosMean, stats.PosStd); got != want {
		t.Errorf("NormalizePosition(%v) = %v, want %v", v, got, want)
	}
	if got, want := codec.DenormalizeDisplacement(v), Denormalize(v, stats.DispMean, stats.DispStd); got != want {
		t.Errorf("DenormalizeDisplacement(%v) = %v, want %v", v, got, want)
	}
}
