package control

import "math"

// StanleyController implements the Stanley lateral law: heading error plus
// a speed-scaled cross-track correction referenced at the front axle. At
// standstill the correction saturates toward +-pi/2 and the final clamp
// bounds it; that sharp correction is deliberate.
type StanleyController struct {
	cfg StanleyConfig
}

// NewStanleyController creates a Stanley steering controller.
func NewStanleyController(cfg StanleyConfig) (*StanleyController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &StanleyController{cfg: cfg}, nil
}

// Steer computes the steering angle in radians for one cycle.
//
// A positive steering angle turns the vehicle left (counterclockwise).
// Cross-track error is right-positive, so the correction shares its sign:
// a vehicle right of the path steers left, back toward it.
func (sc *StanleyController) Steer(target PathTarget, state VehicleState, _ []Waypoint) float64 {
	headingErr := NormalizeAngle(target.TargetHeading - state.Yaw)
	correction := math.Atan2(
		sc.cfg.GainCrossTrack*target.CrossTrackError,
		math.Max(state.Speed, 0)+sc.cfg.SpeedEpsilon,
	)
	return ClampFloat(headingErr+correction, -sc.cfg.MaxSteerRad, sc.cfg.MaxSteerRad)
}
