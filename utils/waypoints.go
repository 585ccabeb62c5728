package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	control "traj-tracking-core/tracking_control"
)

// LoadWaypoints reads a reference course CSV with an x_m,y_m,speed_mps
// header. Target speeds must be non-negative.
func LoadWaypoints(csvPath string) ([]control.Waypoint, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, k := range []string{"x_m", "y_m", "speed_mps"} {
		if _, ok := idx[k]; !ok {
			return nil, fmt.Errorf("waypoint csv missing required column: %q", k)
		}
	}

	var wps []control.Waypoint
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		wp := control.Waypoint{}
		if wp.X, err = parseFloat(rec[idx["x_m"]]); err != nil {
			return nil, fmt.Errorf("line %d: invalid x_m: %w", line, err)
		}
		if wp.Y, err = parseFloat(rec[idx["y_m"]]); err != nil {
			return nil, fmt.Errorf("line %d: invalid y_m: %w", line, err)
		}
		if wp.V, err = parseFloat(rec[idx["speed_mps"]]); err != nil {
			return nil, fmt.Errorf("line %d: invalid speed_mps: %w", line, err)
		}
		if wp.V < 0 {
			return nil, fmt.Errorf("line %d: negative target speed %f", line, wp.V)
		}
		wps = append(wps, wp)
	}

	if len(wps) == 0 {
		return nil, fmt.Errorf("waypoint csv %s contains no waypoints", csvPath)
	}
	return wps, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// InterpolateWaypoints densifies a course by linear interpolation so that
// consecutive points are at most resolutionM apart. Position and target
// speed are interpolated together.
func InterpolateWaypoints(wps []control.Waypoint, resolutionM float64) []control.Waypoint {
	if len(wps) < 2 || resolutionM <= 0 {
		return wps
	}

	out := make([]control.Waypoint, 0, len(wps))
	for i := 0; i < len(wps)-1; i++ {
		a, b := wps[i], wps[i+1]
		segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
		steps := int(math.Ceil(segLen / resolutionM))
		if steps < 1 {
			steps = 1
		}
		for k := 0; k < steps; k++ {
			t := float64(k) / float64(steps)
			out = append(out, control.Waypoint{
				X: a.X + t*(b.X-a.X),
				Y: a.Y + t*(b.Y-a.Y),
				V: a.V + t*(b.V-a.V),
			})
		}
	}
	return append(out, wps[len(wps)-1])
}

// ExtractWindow builds the per-cycle waypoint window: the contiguous run of
// course points within lookbackM behind and lookaheadM ahead of the point
// closest to the vehicle position, measured along the course. The returned
// slice is a fresh copy each call; callers must not assume index stability
// between cycles.
func ExtractWindow(course []control.Waypoint, x, y, lookbackM, lookaheadM float64) []control.Waypoint {
	if len(course) == 0 {
		return nil
	}

	closest := 0
	minDist := math.Inf(1)
	for i, wp := range course {
		if d := math.Hypot(wp.X-x, wp.Y-y); d < minDist {
			minDist = d
			closest = i
		}
	}

	start := closest
	for dist := 0.0; start > 0 && dist < lookbackM; start-- {
		dist += pointDist(course[start-1], course[start])
	}
	end := closest
	for dist := 0.0; end < len(course)-1 && dist < lookaheadM; end++ {
		dist += pointDist(course[end], course[end+1])
	}

	window := make([]control.Waypoint, end-start+1)
	copy(window, course[start:end+1])
	return window
}

func pointDist(a, b control.Waypoint) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
