package control

import "fmt"

// LongitudinalConfig holds the speed-tracking PID parameters.
type LongitudinalConfig struct {
	Kp float64 `json:"kp"`
	Ki float64 `json:"ki"`
	Kd float64 `json:"kd"`

	// IntegralLimit bounds the error accumulator (in m/s * s).
	IntegralLimit float64 `json:"integral_limit"`

	// EnableFeedforward adds the open-loop throttle estimate for the
	// desired speed on top of the PID feedback.
	EnableFeedforward bool `json:"enable_feedforward,omitempty"`

	// ThrottleSlewLimit caps the throttle increase per cycle. Zero
	// disables rate limiting. Brake release is never limited.
	ThrottleSlewLimit float64 `json:"throttle_slew_limit,omitempty"`
}

func (c LongitudinalConfig) Validate() error {
	if c.Kp <= 0 {
		return fmt.Errorf("longitudinal kp must be positive, got %f", c.Kp)
	}
	if c.Ki < 0 || c.Kd < 0 {
		return fmt.Errorf("longitudinal ki/kd must be non-negative, got ki=%f kd=%f", c.Ki, c.Kd)
	}
	if c.IntegralLimit <= 0 {
		return fmt.Errorf("invalid integral_limit: %f", c.IntegralLimit)
	}
	if c.ThrottleSlewLimit < 0 {
		return fmt.Errorf("invalid throttle_slew_limit: %f", c.ThrottleSlewLimit)
	}
	return nil
}

// StanleyConfig holds the Stanley lateral law parameters.
type StanleyConfig struct {
	// GainCrossTrack scales the cross-track correction term.
	GainCrossTrack float64 `json:"gain_cross_track"`

	// SpeedEpsilon keeps the correction term bounded at standstill.
	SpeedEpsilon float64 `json:"speed_epsilon"`

	MaxSteerRad float64 `json:"max_steer_rad"`
}

func (c StanleyConfig) Validate() error {
	if c.GainCrossTrack <= 0 {
		return fmt.Errorf("invalid gain_cross_track: %f", c.GainCrossTrack)
	}
	if c.SpeedEpsilon <= 0 {
		return fmt.Errorf("invalid speed_epsilon: %f", c.SpeedEpsilon)
	}
	if c.MaxSteerRad <= 0 {
		return fmt.Errorf("invalid max_steer_rad: %f", c.MaxSteerRad)
	}
	return nil
}

// PurePursuitConfig holds the pure pursuit lateral law parameters.
type PurePursuitConfig struct {
	// LookaheadGain scales the lookahead distance with speed.
	LookaheadGain float64 `json:"lookahead_gain"`

	MinLookaheadM float64 `json:"min_lookahead_m"`
	MaxLookaheadM float64 `json:"max_lookahead_m"`

	WheelbaseM  float64 `json:"wheelbase_m"`
	MaxSteerRad float64 `json:"max_steer_rad"`
}

func (c PurePursuitConfig) Validate() error {
	if c.LookaheadGain <= 0 {
		return fmt.Errorf("invalid lookahead_gain: %f", c.LookaheadGain)
	}
	if c.MinLookaheadM <= 0 || c.MaxLookaheadM < c.MinLookaheadM {
		return fmt.Errorf("invalid lookahead bounds: min=%f max=%f", c.MinLookaheadM, c.MaxLookaheadM)
	}
	if c.WheelbaseM <= 0 {
		return fmt.Errorf("invalid wheelbase_m: %f", c.WheelbaseM)
	}
	if c.MaxSteerRad <= 0 {
		return fmt.Errorf("invalid max_steer_rad: %f", c.MaxSteerRad)
	}
	return nil
}

// LoopConfig holds the cycle-level parameters of the control loop.
type LoopConfig struct {
	// FrontAxleOffsetM projects the steering reference point ahead of the
	// vehicle center along the current yaw.
	FrontAxleOffsetM float64 `json:"front_axle_offset_m"`

	// MinDtS is the smallest timestamp advance treated as a real cycle.
	// Below it the integral and derivative terms are skipped.
	MinDtS float64 `json:"min_dt_s"`

	MaxSteerRad float64 `json:"max_steer_rad"`
}

func (c LoopConfig) Validate() error {
	if c.FrontAxleOffsetM < 0 {
		return fmt.Errorf("invalid front_axle_offset_m: %f", c.FrontAxleOffsetM)
	}
	if c.MinDtS <= 0 {
		return fmt.Errorf("invalid min_dt_s: %f", c.MinDtS)
	}
	if c.MaxSteerRad <= 0 {
		return fmt.Errorf("invalid max_steer_rad: %f", c.MaxSteerRad)
	}
	return nil
}
