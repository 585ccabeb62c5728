package control_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	control "traj-tracking-core/tracking_control"
)

func basicLoopConfig() control.LoopConfig {
	return control.LoopConfig{
		FrontAxleOffsetM: 1.5,
		MinDtS:           1e-4,
		MaxSteerRad:      1.22,
	}
}

func newLoop(t *testing.T) *control.ControlLoop {
	t.Helper()
	lc, err := control.NewLongitudinalController(basicLongitudinalConfig())
	require.NoError(t, err)
	sc, err := control.NewStanleyController(basicStanleyConfig())
	require.NoError(t, err)
	loop, err := control.NewControlLoop(basicLoopConfig(), lc, sc)
	require.NoError(t, err)
	return loop
}

func TestLoopRejectsBadConfig(t *testing.T) {
	lc, err := control.NewLongitudinalController(basicLongitudinalConfig())
	require.NoError(t, err)
	sc, err := control.NewStanleyController(basicStanleyConfig())
	require.NoError(t, err)

	cfg := basicLoopConfig()
	cfg.MinDtS = 0
	_, err = control.NewControlLoop(cfg, lc, sc)
	assert.Error(t, err)
}

func TestLoopAlignedAtTargetSpeed(t *testing.T) {
	loop := newLoop(t)

	// Heading aligned, path directly ahead, speed matching the target:
	// every output stays (near) zero.
	state := control.VehicleState{X: 0, Y: 0, Yaw: 0, Speed: 5, T: 0}
	window := []control.Waypoint{{X: 10, Y: 0, V: 5}}

	cmd := loop.Update(state, window)
	assert.InDelta(t, 0, cmd.Steer, 1e-9)
	assert.Zero(t, cmd.Throttle)
	assert.Zero(t, cmd.Brake)
}

func TestLoopSteersBackFromOffset(t *testing.T) {
	loop := newLoop(t)

	// Vehicle displaced left of a straight +x path: expect a bounded
	// right-turn (negative) steering correction.
	state := control.VehicleState{X: 0, Y: 2, Yaw: 0, Speed: 5, T: 0}
	window := []control.Waypoint{{X: 0, Y: 0, V: 5}, {X: 10, Y: 0, V: 5}}

	cmd := loop.Update(state, window)
	assert.Negative(t, cmd.Steer)
	assert.GreaterOrEqual(t, cmd.Steer, -1.22)
}

func TestLoopInitialSafeDefault(t *testing.T) {
	loop := newLoop(t)

	// A fatal precondition on the very first cycle degrades to the
	// brake-hold default, not a crash.
	cmd := loop.Update(control.VehicleState{}, nil)
	assert.Equal(t, control.ActuatorCommand{Brake: 1}, cmd)
}

func TestLoopEmptyWindowHoldsLastCommand(t *testing.T) {
	loop := newLoop(t)

	state := control.VehicleState{X: 0, Y: 1, Yaw: 0.2, Speed: 3, T: 0}
	window := []control.Waypoint{{X: 0, Y: 0, V: 5}, {X: 10, Y: 0, V: 5}}
	good := loop.Update(state, window)

	held := loop.Update(control.VehicleState{X: 1, Y: 1, Yaw: 0.2, Speed: 3, T: 0.033}, nil)
	assert.Equal(t, good, held)
	assert.Equal(t, good, loop.LastCommand())
}

func TestLoopNonFiniteStateHoldsLastCommand(t *testing.T) {
	loop := newLoop(t)

	window := []control.Waypoint{{X: 0, Y: 0, V: 5}, {X: 10, Y: 0, V: 5}}
	good := loop.Update(control.VehicleState{Speed: 4, T: 0}, window)

	bad := control.VehicleState{X: math.NaN(), Speed: 4, T: 0.033}
	assert.Equal(t, good, loop.Update(bad, window))
}

// bigSteer is a lateral stub producing outputs far outside the actuator
// range, to exercise the loop's final clamp.
type bigSteer struct{}

func (bigSteer) Steer(control.PathTarget, control.VehicleState, []control.Waypoint) float64 {
	return 10
}

func TestLoopClampsSteering(t *testing.T) {
	lc, err := control.NewLongitudinalController(basicLongitudinalConfig())
	require.NoError(t, err)
	loop, err := control.NewControlLoop(basicLoopConfig(), lc, bigSteer{})
	require.NoError(t, err)

	window := []control.Waypoint{{X: 10, Y: 0, V: 5}}
	cmd := loop.Update(control.VehicleState{Speed: 5}, window)
	assert.Equal(t, 1.22, cmd.Steer)

	// Clamp idempotence: an already clamped command does not move.
	again := loop.Update(control.VehicleState{Speed: 5, T: 0.033}, window)
	assert.Equal(t, cmd.Steer, again.Steer)
}

func TestLoopThrottleRampWithoutWindup(t *testing.T) {
	loop := newLoop(t)
	window := []control.Waypoint{{X: 0, Y: 0, V: 10}, {X: 200, Y: 0, V: 10}}

	// Standing start against a 10 m/s reference: throttle saturates
	// without the integral running away.
	var cmd control.ActuatorCommand
	for i := 0; i < 300; i++ {
		state := control.VehicleState{X: 0, Y: 0, Yaw: 0, Speed: 0, T: float64(i) * 0.033}
		cmd = loop.Update(state, window)
		assert.LessOrEqual(t, cmd.Throttle, 1.0)
		assert.Zero(t, cmd.Brake)
	}
	assert.Equal(t, 1.0, cmd.Throttle)
	assert.LessOrEqual(t, math.Abs(loop.Diagnostics().Integral), 10.0)

	// Reaching the reference speed releases the saturated throttle.
	release := loop.Update(control.VehicleState{Speed: 10, T: 300 * 0.033}, window)
	assert.Less(t, release.Throttle, 1.0)
}

func TestLoopStalledTimestampSkipsDerivative(t *testing.T) {
	loop := newLoop(t)
	window := []control.Waypoint{{X: 0, Y: 0, V: 5}, {X: 10, Y: 0, V: 5}}

	loop.Update(control.VehicleState{Speed: 4, T: 1.0}, window)
	// Same timestamp again: the cycle must still produce a bounded,
	// finite command.
	cmd := loop.Update(control.VehicleState{Speed: 4.5, T: 1.0}, window)
	assert.False(t, math.IsNaN(cmd.Throttle))
	assert.False(t, math.IsNaN(cmd.Steer))
	assert.False(t, math.IsNaN(cmd.Brake))
}
