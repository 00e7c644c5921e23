package rbxbin

import (
	"math"
)

// Negative zero. Required to match rotation matrices produced by Roblox
// exactly.
var _0 = float32(math.Copysign(0, -1))

// cframeSpecialMatrix maps a rotation ID to an axis-aligned rotation matrix.
var cframeSpecialMatrix = map[uint8][9]float32{
	0x02: {+1, +0, +0, +0, +1, +0, +0, +0, +1},
	0x03: {+1, 0, 0, 0, 0, -1, 0, +1, 0},
	0x05: {+1, 0, 0, 0, -1, 0, 0, 0, -1},
	0x06: {+1, 0, _0, 0, 0, +1, 0, -1, 0},
	0x07: {0, +1, 0, +1, 0, 0, 0, 0, -1},
	0x09: {0, 0, +1, +1, 0, 0, 0, +1, 0},
	0x0A: {0, -1, 0, +1, 0, _0, 0, 0, +1},
	0x0C: {0, 0, -1, +1, 0, 0, 0, -1, 0},
	0x0D: {0, +1, 0, 0, 0, +1, +1, 0, 0},
	0x0E: {0, 0, -1, 0, +1, 0, +1, 0, 0},
	0x10: {0, -1, 0, 0, 0, -1, +1, 0, 0},
	0x11: {0, 0, +1, 0, -1, 0, +1, 0, _0},
	0x14: {-1, 0, 0, 0, +1, 0, 0, 0, -1},
	0x15: {-1, 0, 0, 0, 0, +1, 0, +1, _0},
	0x17: {-1, 0, 0, 0, -1, 0, 0, 0, +1},
	0x18: {-1, 0, _0, 0, 0, -1, 0, -1, _0},
	0x19: {0, +1, _0, -1, 0, 0, 0, 0, +1},
	0x1B: {0, 0, -1, -1, 0, 0, 0, +1, 0},
	0x1C: {0, -1, _0, -1, 0, _0, 0, 0, -1},
	0x1E: {0, 0, +1, -1, 0, 0, 0, -1, 0},
	0x1F: {0, +1, 0, 0, 0, -1, -1, 0, 0},
	0x20: {0, 0, +1, 0, +1, _0, -1, 0, 0},
	0x22: {0, -1, 0, 0, 0, +1, -1, 0, 0},
	0x23: {0, 0, -1, 0, -1, _0, -1, 0, _0},
}

// cframeSpecialNumber is the inverse of cframeSpecialMatrix.
var cframeSpecialNumber = map[[9]float32]uint8{
	{+1, +0, +0, +0, +1, +0, +0, +0, +1}: 0x02,
	{+1, 0, 0, 0, 0, -1, 0, +1, 0}:       0x03,
	{+1, 0, 0, 0, -1, 0, 0, 0, -1}:       0x05,
	{+1, 0, _0, 0, 0, +1, 0, -1, 0}:      0x06,
	{0, +1, 0, +1, 0, 0, 0, 0, -1}:       0x07,
	{0, 0, +1, +1, 0, 0, 0, +1, 0}:       0x09,
	{0, -1, 0, +1, 0, _0, 0, 0, +1}:      0x0A,
	{0, 0, -1, +1, 0, 0, 0, -1, 0}:       0x0C,
	{0, +1, 0, 0, 0, +1, +1, 0, 0}:       0x0D,
	{0, 0, -1, 0, +1, 0, +1, 0, 0}:       0x0E,
	{0, -1, 0, 0, 0, -1, +1, 0, 0}:       0x10,
	{0, 0, +1, 0, -1, 0, +1, 0, _0}:      0x11,
	{-1, 0, 0, 0, +1, 0, 0, 0, -1}:       0x14,
	{-1, 0, 0, 0, 0, +1, 0, +1, _0}:      0x15,
	{-1, 0, 0, 0, -1, 0, 0, 0, +1}:       0x17,
	{-1, 0, _0, 0, 0, -1, 0, -1, _0}:     0x18,
	{0, +1, _0, -1, 0, 0, 0, 0, +1}:      0x19,
	{0, 0, -1, -1, 0, 0, 0, +1, 0}:       0x1B,
	{0, -1, _0, -1, 0, _0, 0, 0, -1}:     0x1C,
	{0, 0, +1, -1, 0, 0, 0, -1, 0}:       0x1E,
	{0, +1, 0, 0, 0, -1, -1, 0, 0}:       0x1F,
	{0, 0, +1, 0, +1, _0, -1, 0, 0}:      0x20,
	{0, -1, 0, 0, 0, +1, -1, 0, 0}:       0x22,
	{0, 0, -1, 0, -1, _0, -1, 0, _0}:     0x23,
}

// matrixFromID generates the rotation matrix corresponding to an ID. Returns
// the zero matrix if the ID does not correspond to a rotation.
func matrixFromID(i uint8) (m [9]float32) {
	i--
	if i >= 35 || i/6%3 == i%3 {
		return
	}
	m[i/6%3*3] = 1 - float32(i/18*2)
	m[i%6%3*3+1] = 1 - float32(i%6/3*2)
	m[2] = m[3]*m[7] - m[4]*m[6]
	m[5] = m[6]*m[1] - m[7]*m[0]
	m[8] = m[0]*m[4] - m[1]*m[3]
	return m
}
