package control

import (
	"math"

	"github.com/sirupsen/logrus"
)

// log is the control module logger.
var log = logrus.WithField("module", "control")

// Waypoint is one reference point of the tracking window: a position plus
// the speed to hold when passing it.
type Waypoint struct {
	X float64 `json:"x_m"`
	Y float64 `json:"y_m"`
	V float64 `json:"speed_mps"` // target speed, never negative
}

// VehicleState is the simulator feedback for one control cycle. Positions
// are in the vehicle-center frame, yaw in radians, speed in m/s forward.
type VehicleState struct {
	X     float64
	Y     float64
	Yaw   float64
	Speed float64
	T     float64 // simulation time in seconds
}

// Finite reports whether every field of the state is a usable number.
func (s VehicleState) Finite() bool {
	for _, v := range []float64{s.X, s.Y, s.Yaw, s.Speed, s.T} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ActuatorCommand is the output of one control cycle. Steer is in radians;
// the driver converts it to the normalized actuator range on the way out.
type ActuatorCommand struct {
	Throttle float64 // 0..1
	Steer    float64 // rad, clamped to the configured steering limit
	Brake    float64 // 0..1
}

// ClampFloat clamps value between min and max
func ClampFloat(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeAngle wraps an angle to (-pi, pi].
func NormalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
