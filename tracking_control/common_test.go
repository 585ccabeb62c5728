package control_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	control "traj-tracking-core/tracking_control"
)

func TestClampFloatIdempotent(t *testing.T) {
	for _, v := range []float64{-1e9, -1.23, 0, 0.4, 1.22, 7, 1e9} {
		once := control.ClampFloat(v, -1.22, 1.22)
		assert.Equal(t, once, control.ClampFloat(once, -1.22, 1.22), "input %f", v)
		assert.GreaterOrEqual(t, once, -1.22)
		assert.LessOrEqual(t, once, 1.22)
	}
}

func TestNormalizeAngleRange(t *testing.T) {
	for _, a := range []float64{0, math.Pi, -math.Pi, 3 * math.Pi, -7.5, 100} {
		n := control.NormalizeAngle(a)
		assert.Greater(t, n, -math.Pi, "input %f", a)
		assert.LessOrEqual(t, n, math.Pi, "input %f", a)
	}
	// Wrapping preserves the direction modulo a full turn.
	assert.InDelta(t, 0.5, control.NormalizeAngle(0.5+2*math.Pi), 1e-9)
	assert.InDelta(t, math.Pi, control.NormalizeAngle(-math.Pi), 1e-9)
}

func TestVehicleStateFinite(t *testing.T) {
	assert.True(t, control.VehicleState{X: 1, Y: 2, Yaw: 0.3, Speed: 4, T: 5}.Finite())
	assert.False(t, control.VehicleState{Yaw: math.NaN()}.Finite())
	assert.False(t, control.VehicleState{Speed: math.Inf(1)}.Finite())
}
