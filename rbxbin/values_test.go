package rbxbin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZigzag32(t *testing.T) {
	cases := map[int32]uint32{
		0:             0,
		-1:            1,
		1:             2,
		-2:            3,
		2:             4,
		math.MaxInt32: 0xFFFFFFFE,
		math.MinInt32: 0xFFFFFFFF,
	}
	for n, z := range cases {
		assert.Equal(t, z, encodeZigzag32(n))
		assert.Equal(t, n, decodeZigzag32(z))
	}
}

func TestZigzag64(t *testing.T) {
	cases := map[int64]uint64{
		0:             0,
		-1:            1,
		1:             2,
		1 << 40:       1 << 41,
		math.MaxInt64: 0xFFFFFFFFFFFFFFFE,
		math.MinInt64: 0xFFFFFFFFFFFFFFFF,
	}
	for n, z := range cases {
		assert.Equal(t, z, encodeZigzag64(n))
		assert.Equal(t, n, decodeZigzag64(z))
	}
}

func TestRobloxFloat(t *testing.T) {
	// The sign bit rotates to the low end.
	assert.Equal(t, uint32(0x7F000000), encodeRobloxFloat(1))
	assert.Equal(t, uint32(0x7F000001), encodeRobloxFloat(-1))
	assert.Equal(t, uint32(0), encodeRobloxFloat(0))

	for _, f := range []float32{0, 1, -1, 0.5, math.Pi, 1e-38, float32(math.Inf(1)), float32(math.Inf(-1))} {
		assert.Equal(t, f, decodeRobloxFloat(encodeRobloxFloat(f)))
	}
	neg := float32(math.Copysign(0, -1))
	assert.Equal(t, math.Float32bits(neg), math.Float32bits(decodeRobloxFloat(encodeRobloxFloat(neg))))
}

func TestValueRoundTrip(t *testing.T) {
	values := []value{
		&valueString{'h', 'e', 'l', 'l', 'o'},
		&valueString{},
		vptr(valueBool(true)),
		vptr(valueInt(-42)),
		vptr(valueFloat(1.5)),
		vptr(valueDouble(-math.Pi)),
		&valueUDim{Scale: 0.5, Offset: -16},
		&valueUDim2{ScaleX: 1, ScaleY: 2, OffsetX: -3, OffsetY: 4},
		&valueRay{OriginX: 1, OriginY: 2, OriginZ: 3, DirectionX: 0, DirectionY: -1, DirectionZ: 0},
		&valueFaces{Right: true, Front: true},
		&valueAxes{X: true, Z: true},
		vptr(valueBrickColor(194)),
		&valueColor3{R: 0.25, G: 0.5, B: 0.75},
		&valueVector2{X: 3, Y: -4},
		&valueVector3{X: 1, Y: 2, Z: 3},
		&valueVector2int16{X: -2, Y: 2},
		&valueCFrame{Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, Position: valueVector3{X: 1, Y: 2, Z: 3}},
		&valueCFrame{Special: 0x02, Position: valueVector3{Y: 10}},
		vptr(valueToken(7)),
		vptr(valueReference(-1)),
		&valueVector3int16{X: -1, Y: 0, Z: 1},
		&valueNumberSequence{{Time: 0, Value: 0, Envelope: 0}, {Time: 1, Value: 1, Envelope: 0.5}},
		&valueNumberSequence{},
		&valueColorSequence{{Time: 0, R: 1}, {Time: 1, B: 1, Envelope: 0.5}},
		&valueNumberRange{Min: -1, Max: 1},
		&valueRect{Min: valueVector2{X: 0, Y: 1}, Max: valueVector2{X: 2, Y: 3}},
		&valuePhysicalProperties{},
		&valuePhysicalProperties{
			CustomPhysics:    1,
			Density:          0.7,
			Friction:         0.3,
			Elasticity:       0.5,
			FrictionWeight:   1,
			ElasticityWeight: 1,
			CrossFriction:    0.2,
			CrossElasticity:  0.4,
		},
		&valueColor3uint8{R: 255, G: 128, B: 0},
		vptr(valueInt64(-1 << 40)),
		vptr(valueSharedString(3)),
	}
	for _, v := range values {
		b := v.Bytes(nil)
		d := newValue(v.Type())
		require.NotNil(t, d, v.Type().String())
		n, err := d.FromBytes(b)
		require.NoError(t, err, v.Type().String())
		assert.Equal(t, len(b), n, v.Type().String())
		assert.Equal(t, v, d, v.Type().String())
	}
}

func vptr[T any](v T) *T { return &v }

func TestValueStringWire(t *testing.T) {
	v := valueString("abc")
	assert.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c'}, v.Bytes(nil))

	// Decoding consumes only the prefixed length, leaving trailing bytes.
	var d valueString
	n, err := d.FromBytes([]byte{1, 0, 0, 0, 'x', 'y', 'z'})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, valueString("x"), d)
}

func TestValueIntWire(t *testing.T) {
	// Zigzag, big-endian.
	assert.Equal(t, []byte{0, 0, 0, 1}, valueInt(-1).Bytes(nil))
	assert.Equal(t, []byte{0, 0, 0, 2}, valueInt(1).Bytes(nil))
}

func TestValueFloatWire(t *testing.T) {
	// Rotated bits, big-endian.
	assert.Equal(t, []byte{0x7F, 0, 0, 0}, valueFloat(1).Bytes(nil))
	assert.Equal(t, []byte{0x7F, 0, 0, 1}, valueFloat(-1).Bytes(nil))
}

func TestValueFacesWire(t *testing.T) {
	v := valueFaces{Right: true, Front: true}
	assert.Equal(t, []byte{1<<0 | 1<<5}, v.Bytes(nil))
	v = valueFaces{Top: true, Back: true, Left: true, Bottom: true}
	assert.Equal(t, []byte{1<<1 | 1<<2 | 1<<3 | 1<<4}, v.Bytes(nil))
}

func TestValueCFrameSpecial(t *testing.T) {
	// A special ID replaces the rotation matrix entirely.
	v := valueCFrame{Special: 0x02, Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
	b := v.Bytes(nil)
	assert.Len(t, b, zCFrameSp+zVector3)

	var d valueCFrame
	n, err := d.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, uint8(0x02), d.Special)
	assert.Equal(t, [9]float32{}, d.Rotation)

	v.Special = 0
	assert.Len(t, v.Bytes(nil), zCFrameSp+zCFrameRo+zVector3)
}

func TestValuePhysicalPropertiesReset(t *testing.T) {
	assert.Equal(t, []byte{0}, valuePhysicalProperties{}.Bytes(nil))
	assert.Len(t, valuePhysicalProperties{CustomPhysics: 1}.Bytes(nil), zb+7*zf32)

	// Decoding a default value resets any previous fields.
	d := valuePhysicalProperties{CustomPhysics: 1, Density: 0.7}
	n, err := d.FromBytes([]byte{0})
	require.NoError(t, err)
	assert.Equal(t, zb, n)
	assert.Equal(t, valuePhysicalProperties{}, d)
}

func TestValueSize(t *testing.T) {
	for t0 := typeID(0); t0 < 0x20; t0++ {
		v := newValue(t0)
		if !t0.Valid() {
			assert.Nil(t, v, t0.String())
			continue
		}
		require.NotNil(t, v, t0.String())
		assert.Equal(t, t0, v.Type(), t0.String())
		if size := t0.Size(); size != zVar {
			assert.Len(t, v.Bytes(nil), size, t0.String())
		}
	}
}

func TestValueBuflen(t *testing.T) {
	short := []byte{0}
	for _, v := range []value{
		new(valueInt),
		new(valueDouble),
		new(valueUDim2),
		new(valueRect),
		new(valueCFrame),
	} {
		_, err := v.FromBytes(short)
		var blerr buflenError
		require.ErrorAs(t, err, &blerr, v.Type().String())
		assert.Equal(t, v.Type(), blerr.typ)
	}

	_, err := new(valueBool).FromBytes(nil)
	assert.EqualError(t, err, "Bool: expected 1 bytes, got 0")
}

func TestCheckvarlen(t *testing.T) {
	// A prefix claiming more elements than the buffer holds is rejected
	// without allocating.
	var v valueString
	_, err := v.FromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF, 'a'})
	var blerr buflenError
	require.ErrorAs(t, err, &blerr)
	assert.Equal(t, uint64(zArrayLen)+0xFFFFFFFF, blerr.exp)

	var ns valueNumberSequence
	_, err = ns.FromBytes([]byte{2, 0, 0, 0, 1, 2, 3})
	assert.Error(t, err)
}
