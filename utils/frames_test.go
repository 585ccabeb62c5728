package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traj-tracking-core/utils"
)

func TestActuatorCmdFrameRoundTrip(t *testing.T) {
	frame, err := utils.ActuatorCmdFrame.Encode(map[string]float64{
		"system_enable":  1,
		"throttle_pct":   42.5,
		"brake_pct":      0,
		"steer_cmd_norm": -0.3571,
	})
	require.NoError(t, err)
	assert.Equal(t, utils.ActuatorCmdFrame.ID, frame.ID)

	values, err := utils.ActuatorCmdFrame.Decode(frame)
	require.NoError(t, err)
	assert.Equal(t, 1.0, values["system_enable"])
	assert.InDelta(t, 42.5, values["throttle_pct"], 0.05)
	assert.InDelta(t, -0.3571, values["steer_cmd_norm"], 0.0001)
}

func TestEncodeClampsToSignalBounds(t *testing.T) {
	frame, err := utils.ActuatorCmdFrame.Encode(map[string]float64{
		"throttle_pct":   250,
		"steer_cmd_norm": -5,
	})
	require.NoError(t, err)

	values, err := utils.ActuatorCmdFrame.Decode(frame)
	require.NoError(t, err)
	assert.InDelta(t, 100, values["throttle_pct"], 0.05)
	assert.InDelta(t, -1, values["steer_cmd_norm"], 0.0001)
}

func TestDecodeRejectsWrongFrame(t *testing.T) {
	frame, err := utils.VehiclePoseFrame.Encode(map[string]float64{"pos_x_m": 12.34})
	require.NoError(t, err)

	_, err = utils.ActuatorCmdFrame.Decode(frame)
	assert.Error(t, err)
}

func TestVehiclePoseNegativeCoordinates(t *testing.T) {
	frame, err := utils.VehiclePoseFrame.Encode(map[string]float64{
		"pos_x_m": -1234.56,
		"pos_y_m": 42.01,
		"yaw_rad": -3.1,
	})
	require.NoError(t, err)

	values, err := utils.VehiclePoseFrame.Decode(frame)
	require.NoError(t, err)
	assert.InDelta(t, -1234.56, values["pos_x_m"], 0.005)
	assert.InDelta(t, 42.01, values["pos_y_m"], 0.005)
	assert.InDelta(t, -3.1, values["yaw_rad"], 0.0001)
}
