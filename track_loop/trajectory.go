package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	control "traj-tracking-core/tracking_control"
)

// TrajectoryLog records one row per control cycle for offline scoring of
// waypoint proximity and speed error along the driven path.
type TrajectoryLog struct {
	f *os.File
	w *csv.Writer
}

func NewTrajectoryLog(path string) (*TrajectoryLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trajectory log: %w", err)
	}
	w := csv.NewWriter(f)
	header := []string{"t_s", "x_m", "y_m", "yaw_rad", "speed_mps", "throttle", "steer_rad", "brake"}
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write trajectory header: %w", err)
	}
	return &TrajectoryLog{f: f, w: w}, nil
}

// Append writes the cycle's state and command as one row.
func (tl *TrajectoryLog) Append(st control.VehicleState, cmd control.ActuatorCommand) error {
	row := make([]string, 0, 8)
	for _, v := range []float64{st.T, st.X, st.Y, st.Yaw, st.Speed, cmd.Throttle, cmd.Steer, cmd.Brake} {
		row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
	}
	return tl.w.Write(row)
}

func (tl *TrajectoryLog) Close() error {
	tl.w.Flush()
	if err := tl.w.Error(); err != nil {
		_ = tl.f.Close()
		return err
	}
	return tl.f.Close()
}
