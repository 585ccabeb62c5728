package control

import (
	"errors"
	"math"
)

// ErrEmptyWindow reports a cycle that arrived without reference waypoints.
var ErrEmptyWindow = errors.New("empty waypoint window")

// PathTarget is the reference geometry resolved for one control cycle.
type PathTarget struct {
	// ClosestIndex is only valid within the window it was resolved from.
	// Windows are replaced wholesale each cycle, so the index must never
	// be carried across cycles.
	ClosestIndex int

	// CrossTrackError is the signed perpendicular distance from the front
	// axle to the active path segment, positive when the vehicle is to
	// the right of the direction of travel.
	CrossTrackError float64

	// TargetHeading is the bearing of the active segment, in (-pi, pi].
	TargetHeading float64

	// DesiredSpeed is the target speed of the closest waypoint.
	DesiredSpeed float64
}

// LocatePath resolves the closest reference point and the derived tracking
// errors for the current cycle. Steering geometry is referenced at the
// front axle, projected frontAxleOffsetM ahead of the vehicle center along
// the current yaw. The lookup is stateless.
func LocatePath(state VehicleState, window []Waypoint, frontAxleOffsetM float64) (PathTarget, error) {
	if len(window) == 0 {
		return PathTarget{}, ErrEmptyWindow
	}

	fx := state.X + frontAxleOffsetM*math.Cos(state.Yaw)
	fy := state.Y + frontAxleOffsetM*math.Sin(state.Yaw)

	minIdx := 0
	minDist := math.Inf(1)
	for i, wp := range window {
		if d := math.Hypot(wp.X-fx, wp.Y-fy); d < minDist {
			minDist = d
			minIdx = i
		}
	}

	target := PathTarget{
		ClosestIndex: minIdx,
		DesiredSpeed: window[minIdx].V,
	}

	if len(window) == 1 {
		// No segment geometry: steer toward the single point.
		target.TargetHeading = math.Atan2(window[0].Y-fy, window[0].X-fx)
		return target, nil
	}

	// Active segment: closest waypoint to its successor, or from its
	// predecessor when the closest is the last point of the window.
	a, b := window[minIdx], window[minIdx]
	if minIdx == len(window)-1 {
		a = window[minIdx-1]
	} else {
		b = window[minIdx+1]
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	segLen := math.Hypot(dx, dy)
	if segLen < 1e-9 {
		// Duplicate points in the window; fall back to point pursuit.
		target.TargetHeading = math.Atan2(b.Y-fy, b.X-fx)
		return target, nil
	}

	target.TargetHeading = NormalizeAngle(math.Atan2(dy, dx))

	// The 2D cross product of the path direction with the axle offset is
	// positive on the left of the path, so negate for right-positive.
	cross := (dx*(fy-a.Y) - dy*(fx-a.X)) / segLen
	target.CrossTrackError = -cross

	return target, nil
}
