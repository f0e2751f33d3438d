// Package sim implements the neural deformation simulation core: the
// normalization codec, the owned vertex state, and the pipelined inference
// driver that advances the simulation one tick at a time.
package sim

import (
	"errors"
	"fmt"

	"github.com/Faultbox/windmesh/pkg/vecmath"
)

// ErrZeroStd reports a normalization standard deviation with a zero
// component. Division by zero is prevented here, at construction, and never
// checked again at runtime.
var ErrZeroStd = errors.New("normalization std has a zero component")

// Stats holds the per-channel normalization constants of a trained model:
// mean and standard deviation for absolute vertex positions and for
// predicted displacements. The values originate from the training corpus
// and are fixed for the lifetime of the simulation.
type Stats struct {
	PosMean  vecmath.Vec3
	PosStd   vecmath.Vec3
	DispMean vecmath.Vec3
	DispStd  vecmath.Vec3
}

// NewStats validates and builds the normalization constants. All std
// components must be nonzero.
func NewStats(posMean, posStd, dispMean, dispStd [3]float32) (Stats, error) {
	for name, std := range map[string][3]float32{"pos_std": posStd, "disp_std": dispStd} {
		if std[0] == 0 || std[1] == 0 || std[2] == 0 {
			return Stats{}, fmt.Errorf("%w: %s = %v", ErrZeroStd, name, std)
		}
	}
	return Stats{
		PosMean:  vec(posMean),
		PosStd:   vec(posStd),
		DispMean: vec(dispMean),
		DispStd:  vec(dispStd),
	}, nil
}

func vec(a [3]float32) vecmath.Vec3 {
	return vecmath.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

// Normalize maps a raw vertex into model input space: (v - mean) / std per
// channel.
func Normalize(v, mean, std vecmath.Vec3) vecmath.Vec3 {
	return v.Sub(mean).Div(std)
}

// Denormalize maps a model output back into world space: v*std + mean per
// channel. It is the inverse of Normalize under the same stats.
func Denormalize(v, mean, std vecmath.Vec3) vecmath.Vec3 {
	return v.Mul(std).Add(mean)
}

// Codec applies the model's normalization on the way in and undoes it on
// the way out. With Enabled false both directions are the identity.
type Codec struct {
	Stats   Stats
	Enabled bool
}

// NormalizePosition maps a working vertex position into model input space.
func (c Codec) NormalizePosition(v vecmath.Vec3) vecmath.Vec3 {
	if !c.Enabled {
		return v
	}
	return Normalize(v, c.Stats.PosMean, c.Stats.PosStd)
}

// DenormalizeDisplacement maps a predicted displacement triple back into
// world space.
func (c Codec) DenormalizeDisplacement(v vecmath.Vec3) vecmath.Vec3 {
	if !c.Enabled {
		return v
	}
	return Denormalize(v, c.Stats.DispMean, c.Stats.DispStd)
}
