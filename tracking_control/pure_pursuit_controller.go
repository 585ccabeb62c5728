package control

import "math"

// PurePursuitController is the geometric alternative to the Stanley law:
// it chases a lookahead point on the window using bicycle-model steering.
type PurePursuitController struct {
	cfg PurePursuitConfig
}

// NewPurePursuitController creates a pure pursuit steering controller.
func NewPurePursuitController(cfg PurePursuitConfig) (*PurePursuitController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PurePursuitController{cfg: cfg}, nil
}

// Steer computes the steering angle in radians for one cycle.
func (pp *PurePursuitController) Steer(target PathTarget, state VehicleState, window []Waypoint) float64 {
	if len(window) == 0 {
		return 0
	}

	ld := ClampFloat(pp.cfg.LookaheadGain*state.Speed, pp.cfg.MinLookaheadM, pp.cfg.MaxLookaheadM)

	// First waypoint at least the lookahead distance out, scanning forward
	// from the closest point; the window end is the fallback.
	goal := window[len(window)-1]
	for i := target.ClosestIndex; i < len(window); i++ {
		if math.Hypot(window[i].X-state.X, window[i].Y-state.Y) >= ld {
			goal = window[i]
			break
		}
	}

	alpha := NormalizeAngle(math.Atan2(goal.Y-state.Y, goal.X-state.X) - state.Yaw)
	steer := math.Atan2(2*pp.cfg.WheelbaseM*math.Sin(alpha), ld)
	return ClampFloat(steer, -pp.cfg.MaxSteerRad, pp.cfg.MaxSteerRad)
}
