package control

// LongitudinalController implements a discrete PID for speed tracking with
// automatic throttle/brake splitting: a positive command drives the
// throttle, a negative one the brake, never both.
type LongitudinalController struct {
	cfg LongitudinalConfig

	// State
	integral     float64
	prevError    float64
	prevThrottle float64
	initialized  bool
}

// NewLongitudinalController creates a speed controller with the given
// configuration. Invalid gains are rejected at construction.
func NewLongitudinalController(cfg LongitudinalConfig) (*LongitudinalController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LongitudinalController{cfg: cfg}, nil
}

// Reset clears the controller state.
func (lc *LongitudinalController) Reset() {
	lc.integral = 0.0
	lc.prevError = 0.0
	lc.prevThrottle = 0.0
	lc.initialized = false
}

// Update computes the throttle/brake pair for one cycle. dt is the elapsed
// time since the previous cycle; any dt <= 0 (first cycle, stalled
// timestamp) runs without the integral and derivative terms.
func (lc *LongitudinalController) Update(desiredSpeed, speed, dt float64) (throttle, brake float64) {
	verr := desiredSpeed - speed

	// Initialize on first call
	if !lc.initialized {
		lc.initialized = true
		lc.prevError = verr
		return lc.mapOutput(lc.cfg.Kp*verr + lc.feedforward(desiredSpeed))
	}

	p := lc.cfg.Kp * verr
	ff := lc.feedforward(desiredSpeed)

	// Derivative on the error, guarded against non-advancing time.
	var d float64
	if dt > 0 {
		d = lc.cfg.Kd * (verr - lc.prevError) / dt
	}

	u := p + lc.cfg.Ki*lc.integral + d + ff

	// Conditional integration anti-windup: freeze the accumulator while
	// the command is saturated in the error's direction.
	saturated := (u >= 1 && verr > 0) || (u <= -1 && verr < 0)
	if dt > 0 && !saturated {
		lc.integral = ClampFloat(lc.integral+verr*dt, -lc.cfg.IntegralLimit, lc.cfg.IntegralLimit)
		u = p + lc.cfg.Ki*lc.integral + d + ff
	}

	lc.prevError = verr
	return lc.mapOutput(u)
}

// mapOutput splits the control command into the actuator pair. Throttle and
// brake are mutually exclusive by construction.
func (lc *LongitudinalController) mapOutput(u float64) (throttle, brake float64) {
	if u < 0 {
		lc.prevThrottle = 0.0
		return 0, ClampFloat(-u, 0, 1)
	}
	throttle = ClampFloat(u, 0, 1)
	if lc.cfg.ThrottleSlewLimit > 0 && throttle > lc.prevThrottle+lc.cfg.ThrottleSlewLimit {
		throttle = lc.prevThrottle + lc.cfg.ThrottleSlewLimit
	}
	lc.prevThrottle = throttle
	return throttle, 0
}

// feedforward estimates the steady-state throttle for a desired speed with
// a piecewise-linear fit of the vehicle's throttle curve.
func (lc *LongitudinalController) feedforward(desiredSpeed float64) float64 {
	if !lc.cfg.EnableFeedforward {
		return 0
	}
	switch {
	case desiredSpeed <= 6:
		return 0.15 + desiredSpeed/6*(0.6-0.15)
	case desiredSpeed <= 11.5:
		return 0.6 + (desiredSpeed-6)/(11.5-6)*(0.8-0.6)
	default:
		return 0.8 + (desiredSpeed-11.5)/85
	}
}

// LongitudinalDiagnostics contains controller internals for monitoring.
type LongitudinalDiagnostics struct {
	Error    float64
	Integral float64
	P        float64
	I        float64
}

// Diagnostics returns the current controller state for logging/debugging.
func (lc *LongitudinalController) Diagnostics() LongitudinalDiagnostics {
	return LongitudinalDiagnostics{
		Error:    lc.prevError,
		Integral: lc.integral,
		P:        lc.cfg.Kp * lc.prevError,
		I:        lc.cfg.Ki * lc.integral,
	}
}
