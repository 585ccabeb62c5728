package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCourseJSON = `{
  "meta": {"name": "test", "version": 1, "lateral_mode": "stanley"},
  "timing": {"cycle_ms": 33, "duration_s": 60},
  "window": {"waypoints_path": "wps.csv", "resolution_m": 1, "lookback_m": 5, "lookahead_m": 20},
  "loop": {"front_axle_offset_m": 1.5, "min_dt_s": 0.0001, "max_steer_rad": 1.22},
  "longitudinal": {"kp": 0.8, "ki": 0.3, "kd": 0.05, "integral_limit": 10},
  "stanley": {"gain_cross_track": 0.8, "speed_epsilon": 0.1, "max_steer_rad": 1.22}
}`

func writeCourseFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "course.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadCourse(t *testing.T) {
	c, err := LoadCourse(writeCourseFile(t, validCourseJSON))
	require.NoError(t, err)
	assert.Equal(t, "stanley", c.Meta.LateralMode)
	assert.Equal(t, 33, c.Timing.CycleMS)

	lat, err := c.newLateralController()
	require.NoError(t, err)
	assert.NotNil(t, lat)
}

func TestLoadCourseDefaultsToStanley(t *testing.T) {
	body := strings.Replace(validCourseJSON, `"lateral_mode": "stanley"`, `"lateral_mode": ""`, 1)
	c, err := LoadCourse(writeCourseFile(t, body))
	require.NoError(t, err)
	assert.Equal(t, "stanley", c.Meta.LateralMode)
}

func TestLoadCourseRejectsBadGains(t *testing.T) {
	body := strings.Replace(validCourseJSON, `"kp": 0.8`, `"kp": -1`, 1)
	_, err := LoadCourse(writeCourseFile(t, body))
	assert.Error(t, err)
}

func TestLoadCourseRejectsMissingLateralConfig(t *testing.T) {
	body := strings.Replace(validCourseJSON, `"lateral_mode": "stanley"`, `"lateral_mode": "pure_pursuit"`, 1)
	_, err := LoadCourse(writeCourseFile(t, body))
	assert.Error(t, err)
}

func TestLoadCourseRejectsUnknownLateralMode(t *testing.T) {
	body := strings.Replace(validCourseJSON, `"lateral_mode": "stanley"`, `"lateral_mode": "mpc"`, 1)
	_, err := LoadCourse(writeCourseFile(t, body))
	assert.Error(t, err)
}
