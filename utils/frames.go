package utils

import (
	"fmt"
	"math"

	"go.einride.tech/can"
)

// SignalDef describes one little-endian signal inside a simulator frame.
type SignalDef struct {
	Name      string
	StartBit  int
	BitLength int
	Signed    bool
	Factor    float64
	Offset    float64
	Min       float64
	Max       float64
}

// FrameDef is one frame of the simulator bridge schema.
type FrameDef struct {
	ID      uint32
	Name    string
	DLC     int
	CycleMS int
	Signals []SignalDef
}

// Simulator bridge schema. The bridge speaks a fixed three-frame protocol,
// so the definitions are compiled in rather than loaded from a map file.
var (
	// VehiclePoseFrame carries the vehicle-center position and yaw.
	VehiclePoseFrame = FrameDef{
		ID: 0x200, Name: "VEHICLE_POSE_1", DLC: 8, CycleMS: 33,
		Signals: []SignalDef{
			{Name: "pos_x_m", StartBit: 0, BitLength: 24, Signed: true, Factor: 0.01, Min: -80000, Max: 80000},
			{Name: "pos_y_m", StartBit: 24, BitLength: 24, Signed: true, Factor: 0.01, Min: -80000, Max: 80000},
			{Name: "yaw_rad", StartBit: 48, BitLength: 16, Signed: true, Factor: 0.0001, Min: -3.2768, Max: 3.2767},
		},
	}

	// VehicleStateFrame carries forward speed and the simulation clock.
	VehicleStateFrame = FrameDef{
		ID: 0x300, Name: "VEHICLE_STATE_1", DLC: 8, CycleMS: 33,
		Signals: []SignalDef{
			{Name: "speed_mps", StartBit: 0, BitLength: 16, Signed: true, Factor: 0.01, Min: -327.68, Max: 327.67},
			{Name: "sim_time_s", StartBit: 16, BitLength: 32, Factor: 0.001, Min: 0, Max: 4294967.295},
		},
	}

	// ActuatorCmdFrame carries the per-cycle actuator command. Steering is
	// already converted to the normalized [-1, 1] actuator range.
	ActuatorCmdFrame = FrameDef{
		ID: 0x101, Name: "ACTUATOR_CMD_1", DLC: 8, CycleMS: 33,
		Signals: []SignalDef{
			{Name: "system_enable", StartBit: 0, BitLength: 1, Factor: 1, Min: 0, Max: 1},
			{Name: "throttle_pct", StartBit: 8, BitLength: 10, Factor: 0.1, Min: 0, Max: 100},
			{Name: "brake_pct", StartBit: 18, BitLength: 10, Factor: 0.1, Min: 0, Max: 100},
			{Name: "steer_cmd_norm", StartBit: 32, BitLength: 16, Signed: true, Factor: 0.0001, Min: -1, Max: 1},
		},
	}
)

// Encode packs physical signal values into a CAN frame. Missing signals
// encode as zero; out-of-range values clamp to the signal bounds.
func (fd FrameDef) Encode(values map[string]float64) (can.Frame, error) {
	if fd.DLC <= 0 || fd.DLC > 8 {
		return can.Frame{}, fmt.Errorf("frame %s has invalid DLC %d", fd.Name, fd.DLC)
	}

	var payload uint64
	for _, s := range fd.Signals {
		v := clampFloat(values[s.Name], s.Min, s.Max)
		raw := clampRaw(int64(math.Round((v-s.Offset)/s.Factor)), s.BitLength, s.Signed)
		payload = setBits(payload, s.StartBit, s.BitLength, rawToUnsigned(raw, s.BitLength))
	}

	var f can.Frame
	f.ID = fd.ID
	f.Length = uint8(fd.DLC)
	for i := 0; i < fd.DLC; i++ {
		f.Data[i] = byte(payload >> (8 * i))
	}
	return f, nil
}

// Decode unpacks a received frame into physical signal values.
func (fd FrameDef) Decode(frame can.Frame) (map[string]float64, error) {
	if frame.ID != fd.ID {
		return nil, fmt.Errorf("frame 0x%X does not match %s (0x%X)", frame.ID, fd.Name, fd.ID)
	}
	if int(frame.Length) < fd.DLC {
		return nil, fmt.Errorf("frame %s expects DLC %d, got %d", fd.Name, fd.DLC, frame.Length)
	}

	var payload uint64
	for i := 0; i < fd.DLC; i++ {
		payload |= uint64(frame.Data[i]) << (8 * i)
	}

	out := make(map[string]float64, len(fd.Signals))
	for _, s := range fd.Signals {
		raw := unsignedToRaw(getBits(payload, s.StartBit, s.BitLength), s.BitLength, s.Signed)
		out[s.Name] = float64(raw)*s.Factor + s.Offset
	}
	return out, nil
}

// BoolToFloat converts a bool to a CAN signal value.
func BoolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func getBits(payload uint64, startBit, bitLen int) uint64 {
	mask := uint64(1)<<bitLen - 1
	return (payload >> startBit) & mask
}

func setBits(payload uint64, startBit, bitLen int, value uint64) uint64 {
	mask := uint64(1)<<bitLen - 1
	payload &^= mask << startBit
	payload |= (value & mask) << startBit
	return payload
}

func unsignedToRaw(u uint64, bitLen int, signed bool) int64 {
	if !signed || u&(uint64(1)<<(bitLen-1)) == 0 {
		return int64(u)
	}
	mask := uint64(1)<<bitLen - 1
	return -int64((^u + 1) & mask)
}

func rawToUnsigned(raw int64, bitLen int) uint64 {
	if raw >= 0 {
		return uint64(raw)
	}
	mask := uint64(1)<<bitLen - 1
	return (^uint64(-raw) + 1) & mask
}

func clampRaw(raw int64, bitLen int, signed bool) int64 {
	if !signed {
		max := int64(1)<<bitLen - 1
		if raw < 0 {
			return 0
		}
		if raw > max {
			return max
		}
		return raw
	}
	min := -int64(1) << (bitLen - 1)
	max := int64(1)<<(bitLen-1) - 1
	if raw < min {
		return min
	}
	if raw > max {
		return max
	}
	return raw
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
