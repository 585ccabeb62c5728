package main

import (
	"encoding/json"
	"fmt"
	"os"

	control "traj-tracking-core/tracking_control"
)

// Course defines a complete tracking run: the reference path, the window
// shape, and the controller parameterization.
type Course struct {
	Meta   CourseMeta   `json:"meta"`
	Timing CourseTiming `json:"timing"`
	Window WindowConfig `json:"window"`

	Loop         control.LoopConfig         `json:"loop"`
	Longitudinal control.LongitudinalConfig `json:"longitudinal"`

	Stanley     *control.StanleyConfig     `json:"stanley,omitempty"`      // Optional, lateral_mode "stanley"
	PurePursuit *control.PurePursuitConfig `json:"pure_pursuit,omitempty"` // Optional, lateral_mode "pure_pursuit"
}

// CourseMeta contains course metadata.
type CourseMeta struct {
	Name        string `json:"name"`
	Version     int    `json:"version"`
	Description string `json:"description"`
	LateralMode string `json:"lateral_mode,omitempty"` // "stanley" or "pure_pursuit"
}

// CourseTiming defines timing parameters.
type CourseTiming struct {
	CycleMS   int     `json:"cycle_ms"`
	DurationS float64 `json:"duration_s"`
}

// WindowConfig defines how the per-cycle waypoint window is built from the
// reference course.
type WindowConfig struct {
	WaypointsPath string  `json:"waypoints_path"`
	ResolutionM   float64 `json:"resolution_m"`
	LookbackM     float64 `json:"lookback_m"`
	LookaheadM    float64 `json:"lookahead_m"`
}

// LoadCourse loads and validates a course JSON file. An invalid controller
// parameterization is fatal here: the loop must never start with one.
func LoadCourse(path string) (Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Course{}, fmt.Errorf("read file: %w", err)
	}

	var c Course
	if err := json.Unmarshal(data, &c); err != nil {
		return Course{}, fmt.Errorf("unmarshal: %w", err)
	}

	if c.Timing.CycleMS <= 0 {
		return Course{}, fmt.Errorf("invalid cycle_ms: %d", c.Timing.CycleMS)
	}
	if c.Timing.DurationS <= 0 {
		return Course{}, fmt.Errorf("invalid duration_s: %f", c.Timing.DurationS)
	}
	if c.Window.WaypointsPath == "" {
		return Course{}, fmt.Errorf("course requires waypoints_path")
	}
	if c.Window.ResolutionM <= 0 {
		return Course{}, fmt.Errorf("invalid resolution_m: %f", c.Window.ResolutionM)
	}
	if c.Window.LookaheadM <= 0 || c.Window.LookbackM < 0 {
		return Course{}, fmt.Errorf("invalid window horizon: lookahead=%f lookback=%f",
			c.Window.LookaheadM, c.Window.LookbackM)
	}

	if c.Meta.LateralMode == "" {
		c.Meta.LateralMode = "stanley"
	}

	if err := c.Loop.Validate(); err != nil {
		return Course{}, err
	}
	if err := c.Longitudinal.Validate(); err != nil {
		return Course{}, err
	}

	switch c.Meta.LateralMode {
	case "stanley":
		if c.Stanley == nil {
			return Course{}, fmt.Errorf("lateral_mode stanley requires stanley config")
		}
		if err := c.Stanley.Validate(); err != nil {
			return Course{}, err
		}
	case "pure_pursuit":
		if c.PurePursuit == nil {
			return Course{}, fmt.Errorf("lateral_mode pure_pursuit requires pure_pursuit config")
		}
		if err := c.PurePursuit.Validate(); err != nil {
			return Course{}, err
		}
	default:
		return Course{}, fmt.Errorf("unknown lateral_mode %q", c.Meta.LateralMode)
	}

	return c, nil
}

// newLateralController builds the steering law selected by the course.
func (c Course) newLateralController() (control.LateralController, error) {
	switch c.Meta.LateralMode {
	case "pure_pursuit":
		return control.NewPurePursuitController(*c.PurePursuit)
	default:
		return control.NewStanleyController(*c.Stanley)
	}
}
