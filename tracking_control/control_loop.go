package control

// LateralController is one steering law. Stanley and pure pursuit both
// satisfy it; the window parameter lets geometric laws pick their own
// lookahead point and is ignored by laws that only need the path target.
type LateralController interface {
	Steer(target PathTarget, state VehicleState, window []Waypoint) float64
}

// ControlLoop runs one control cycle per simulator tick and owns all state
// that persists between cycles. A loop instance is single-writer by
// contract: the driver invokes Update strictly sequentially, so none of
// the persistent fields are synchronized.
type ControlLoop struct {
	cfg LoopConfig
	lon *LongitudinalController
	lat LateralController

	// State
	prevTime float64
	lastCmd  ActuatorCommand
	started  bool
}

// NewControlLoop assembles a control loop from validated sub-controllers.
func NewControlLoop(cfg LoopConfig, lon *LongitudinalController, lat LateralController) (*ControlLoop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ControlLoop{
		cfg: cfg,
		lon: lon,
		lat: lat,
		// Safe default until the first good cycle: hold the vehicle.
		lastCmd: ActuatorCommand{Brake: 1},
	}, nil
}

// Update runs one control cycle. It never fails: a malformed cycle (empty
// window, non-finite state) degrades to the previous command so the driver
// keeps its fixed rate. The first good cycle initializes the persistent
// state and runs without integral/derivative terms.
func (cl *ControlLoop) Update(state VehicleState, window []Waypoint) ActuatorCommand {
	if !state.Finite() {
		log.Warnf("non-finite vehicle state at t=%.3f, holding last command", state.T)
		return cl.lastCmd
	}

	target, err := LocatePath(state, window, cl.cfg.FrontAxleOffsetM)
	if err != nil {
		log.Warnf("path lookup failed at t=%.3f: %v, holding last command", state.T, err)
		return cl.lastCmd
	}

	// dt stays zero on the first cycle and on timestamps that do not
	// advance, which drops the I/D terms for that cycle.
	dt := 0.0
	if cl.started && state.T-cl.prevTime >= cl.cfg.MinDtS {
		dt = state.T - cl.prevTime
	}

	throttle, brake := cl.lon.Update(target.DesiredSpeed, state.Speed, dt)
	steer := cl.lat.Steer(target, state, window)

	cmd := ActuatorCommand{
		Throttle: ClampFloat(throttle, 0, 1),
		Steer:    ClampFloat(steer, -cl.cfg.MaxSteerRad, cl.cfg.MaxSteerRad),
		Brake:    ClampFloat(brake, 0, 1),
	}

	cl.prevTime = state.T
	cl.started = true
	cl.lastCmd = cmd
	return cmd
}

// LastCommand returns the most recent command (or the brake-hold default
// before the first good cycle).
func (cl *ControlLoop) LastCommand() ActuatorCommand {
	return cl.lastCmd
}

// Reset returns the loop and its sub-controllers to the uninitialized
// state, e.g. between batch simulation runs.
func (cl *ControlLoop) Reset() {
	cl.lon.Reset()
	cl.prevTime = 0
	cl.started = false
	cl.lastCmd = ActuatorCommand{Brake: 1}
}

// Diagnostics exposes the longitudinal controller internals for logging.
func (cl *ControlLoop) Diagnostics() LongitudinalDiagnostics {
	return cl.lon.Diagnostics()
}
