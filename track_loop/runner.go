package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	control "traj-tracking-core/tracking_control"
	"traj-tracking-core/utils"
)

var log = logrus.WithField("module", "track_loop")

// steerRadToNorm converts the control-law steering angle to the normalized
// actuator range: 70 degrees of wheel angle map to full deflection. The
// conversion lives in the driver; the control core works in radians.
const steerRadToNorm = 180.0 / 70.0 / math.Pi

type RunnerConfig struct {
	Interface      string
	CoursePath     string
	TrajectoryPath string
}

type Runner struct {
	cfg    RunnerConfig
	course Course
	ref    []control.Waypoint // interpolated reference course
	loop   *control.ControlLoop
	link   *utils.SimLink
	traj   *TrajectoryLog
}

func NewRunner(ctx context.Context, cfg RunnerConfig) (*Runner, error) {
	course, err := LoadCourse(cfg.CoursePath)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}

	wps, err := utils.LoadWaypoints(course.Window.WaypointsPath)
	if err != nil {
		return nil, fmt.Errorf("load waypoints: %w", err)
	}
	ref := utils.InterpolateWaypoints(wps, course.Window.ResolutionM)

	lon, err := control.NewLongitudinalController(course.Longitudinal)
	if err != nil {
		return nil, fmt.Errorf("longitudinal controller: %w", err)
	}
	lat, err := course.newLateralController()
	if err != nil {
		return nil, fmt.Errorf("lateral controller: %w", err)
	}
	loop, err := control.NewControlLoop(course.Loop, lon, lat)
	if err != nil {
		return nil, fmt.Errorf("control loop: %w", err)
	}

	link, err := utils.DialSimLink(ctx, cfg.Interface)
	if err != nil {
		return nil, err
	}
	traj, err := NewTrajectoryLog(cfg.TrajectoryPath)
	if err != nil {
		_ = link.Close()
		return nil, err
	}

	log.Infof("controller ready: course=%s reference_points=%d lateral=%s kp=%.2f ki=%.2f kd=%.2f",
		course.Meta.Name, len(ref), course.Meta.LateralMode,
		course.Longitudinal.Kp, course.Longitudinal.Ki, course.Longitudinal.Kd)

	return &Runner{
		cfg:    cfg,
		course: course,
		ref:    ref,
		loop:   loop,
		link:   link,
		traj:   traj,
	}, nil
}

func (r *Runner) Close() {
	if r.traj != nil {
		_ = r.traj.Close()
	}
	if r.link != nil {
		_ = r.link.Close()
	}
}

// vehicleFeedback is one decoded RX update. Pose and state frames arrive
// independently and merge into the current VehicleState.
type vehicleFeedback struct {
	frameID uint32
	values  map[string]float64
}

func (r *Runner) Run(ctx context.Context) error {
	log.Infof("starting loop: iface=%s cycle_ms=%d duration=%.2fs course=%s",
		r.cfg.Interface, r.course.Timing.CycleMS, r.course.Timing.DurationS, r.course.Meta.Name)

	start := time.Now()
	ticker := time.NewTicker(time.Duration(r.course.Timing.CycleMS) * time.Millisecond)
	defer ticker.Stop()

	endAfter := time.Duration(r.course.Timing.DurationS * float64(time.Second))

	rxChan := make(chan vehicleFeedback, 100)
	go r.receiveLoop(ctx, rxChan)

	var (
		st        control.VehicleState
		havePose  bool
		haveState bool
		lastRx    time.Time
		cycles    uint64
	)

	for {
		select {
		case <-ctx.Done():
			log.Warnf("context canceled; stopping loop after %d cycles", cycles)
			return ctx.Err()

		case fb := <-rxChan:
			switch fb.frameID {
			case utils.VehiclePoseFrame.ID:
				st.X = fb.values["pos_x_m"]
				st.Y = fb.values["pos_y_m"]
				st.Yaw = fb.values["yaw_rad"]
				havePose = true
			case utils.VehicleStateFrame.ID:
				st.Speed = fb.values["speed_mps"]
				st.T = fb.values["sim_time_s"]
				haveState = true
			}
			lastRx = time.Now()

		case now := <-ticker.C:
			if now.Sub(start) > endAfter {
				log.Infof("course complete after %d cycles", cycles)
				return nil
			}

			cycles++
			if !havePose || !haveState {
				if cycles%100 == 1 {
					log.Warnf("waiting for simulator feedback (pose=%v state=%v)", havePose, haveState)
				}
				continue
			}
			if age := now.Sub(lastRx); age > 500*time.Millisecond {
				log.Warnf("no simulator feedback for %.0f ms - tracking may be stale", age.Seconds()*1000)
			}

			window := utils.ExtractWindow(r.ref, st.X, st.Y,
				r.course.Window.LookbackM, r.course.Window.LookaheadM)
			cmd := r.loop.Update(st, window)

			steerNorm := lo.Clamp(cmd.Steer*steerRadToNorm, -1, 1)
			frame, err := utils.ActuatorCmdFrame.Encode(map[string]float64{
				"system_enable":  utils.BoolToFloat(true),
				"throttle_pct":   cmd.Throttle * 100,
				"brake_pct":      cmd.Brake * 100,
				"steer_cmd_norm": steerNorm,
			})
			if err != nil {
				log.Errorf("encode failed at t=%.3f: %v", st.T, err)
				return err
			}
			if err := r.link.Send(ctx, frame); err != nil {
				log.Errorf("transmit failed at t=%.3f: %v", st.T, err)
				return err
			}
			if err := r.traj.Append(st, cmd); err != nil && cycles%100 == 1 {
				log.Warnf("trajectory log: %v", err)
			}

			if cycles%100 == 0 {
				diag := r.loop.Diagnostics()
				log.Debugf("t=%.2f v=%.2f verr=%.3f throttle=%.2f brake=%.2f steer=%.3f I=%.2f",
					st.T, st.Speed, diag.Error, cmd.Throttle, cmd.Brake, cmd.Steer, diag.Integral)
			}
		}
	}
}

// receiveLoop continuously reads and decodes simulator feedback frames.
func (r *Runner) receiveLoop(ctx context.Context, out chan<- vehicleFeedback) {
	log.Debugf("rx loop started")
	defer log.Debugf("rx loop stopped")

	for {
		frame, err := r.link.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("rx error: %v", err)
			continue
		}

		var fd utils.FrameDef
		switch frame.ID {
		case utils.VehiclePoseFrame.ID:
			fd = utils.VehiclePoseFrame
		case utils.VehicleStateFrame.ID:
			fd = utils.VehicleStateFrame
		default:
			continue
		}

		values, err := fd.Decode(frame)
		if err != nil {
			log.Warnf("decode %s: %v", fd.Name, err)
			continue
		}

		select {
		case out <- vehicleFeedback{frameID: frame.ID, values: values}:
		default:
			// Channel full, skip
		}
	}
}
