package rbxbin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleave(t *testing.T) {
	b := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, interleave(b, 3))
	assert.Equal(t, []byte{1, 4, 2, 5, 3, 6}, b)

	require.NoError(t, deinterleave(b, 3))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, b)

	assert.Error(t, interleave(b, 0))
	assert.Error(t, interleave(b, 4))
	assert.Error(t, deinterleave(b, -1))
	assert.Error(t, deinterleave(b, 4))

	assert.NoError(t, interleave(nil, 1))
}

func TestNewArray(t *testing.T) {
	a := newArray(typeVector3, 3)
	require.NotNil(t, a)
	assert.Equal(t, typeVector3, a.Type())
	assert.Equal(t, 3, a.Len())

	assert.Nil(t, newArray(typeInvalid, 1))
	assert.Nil(t, newArray(typeID(0x11), 1))
}

func TestArrayRoundTrip(t *testing.T) {
	arrays := []array{
		arrayString{valueString("a"), valueString("longer string"), valueString("")},
		arrayBool{true, false, true},
		arrayInt{-1, 0, 1, 1 << 20},
		arrayFloat{0, 1.5, -2.25},
		arrayDouble{0, -1e100},
		arrayUDim{{Scale: 1, Offset: -2}, {Scale: 0.5, Offset: 8}},
		arrayUDim2{{ScaleX: 1, ScaleY: 2, OffsetX: 3, OffsetY: 4}},
		arrayRay{{OriginY: 5, DirectionZ: -1}},
		arrayFaces{{Right: true}, {Front: true, Top: true}},
		arrayAxes{{X: true}, {Y: true, Z: true}},
		arrayBrickColor{194, 1004},
		arrayColor3{{R: 1, G: 0.5, B: 0.25}},
		arrayVector2{{X: 1, Y: -2}, {X: 3, Y: 4}},
		arrayVector3{{X: 1, Y: 2, Z: 3}, {X: -4, Y: -5, Z: -6}},
		arrayVector2int16{{X: -1, Y: 1}},
		arrayToken{0, 7, 1 << 16},
		arrayVector3int16{{X: 1, Y: 2, Z: 3}},
		arrayNumberSequence{{{Time: 0, Value: 1}}, {{Time: 0}, {Time: 1, Envelope: 0.5}}},
		arrayColorSequence{{{Time: 0, R: 1}, {Time: 1, G: 1}}},
		arrayNumberRange{{Min: 0, Max: 1}, {Min: -5, Max: 5}},
		arrayRect{{Min: valueVector2{X: 1}, Max: valueVector2{Y: 2}}},
		arrayPhysicalProperties{{}, {CustomPhysics: 1, Density: 0.7, Friction: 0.3}},
		arrayColor3uint8{{R: 255}, {G: 128, B: 64}},
		arrayInt64{-1 << 40, 0, 1 << 40},
		arraySharedString{0, 1, 2},
	}
	for _, a := range arrays {
		b, err := arrayToBytes(nil, a)
		require.NoError(t, err, a.Type().String())
		d := newArray(a.Type(), a.Len())
		n, err := arrayFromBytes(b, d)
		require.NoError(t, err, a.Type().String())
		assert.Equal(t, len(b), n, a.Type().String())
		assert.Equal(t, a, d, a.Type().String())
	}
}

func TestArrayInterleaving(t *testing.T) {
	// Interleaved arrays group bytes by offset within the element. An array
	// of ints encodes the high bytes of every element first.
	a := arrayInt{0, 1, 2}
	b, err := arrayToBytes(nil, a)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0, 0, 0, // byte 0 of each zigzag value
		0, 0, 0,
		0, 0, 0,
		0, 2, 4, // byte 3 of each zigzag value
	}, b)
}

func TestArrayReferenceDeltas(t *testing.T) {
	refs := arrayReference{1619, 1620, 1624, 1626, 1629, 1634}

	// Without interleaving, each referent after the first is encoded as the
	// difference from its predecessor.
	b := refs.Bytes(nil)
	var expected []byte
	for _, d := range []int32{1619, 1, 4, 2, 3, 5} {
		expected = valueReference(d).Bytes(expected)
	}
	assert.Equal(t, expected, b)

	d := make(arrayReference, len(refs))
	n, err := d.FromBytes(b)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, refs, d)
}

func TestRefArray(t *testing.T) {
	refs := []int32{1619, 1620, 1624, 1626, 1629, 1634, nilInstance}
	b, err := encodeRefArray(nil, refs)
	require.NoError(t, err)
	assert.Len(t, b, len(refs)*zu32)

	decoded, n, err := decodeRefArray(b, len(refs))
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, refs, decoded)

	_, _, err = decodeRefArray(b[:3], len(refs))
	assert.Error(t, err)
}

func TestArrayCFrame(t *testing.T) {
	a := arrayCFrame{
		{Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}, Position: valueVector3{X: 1, Y: 2, Z: 3}},
		{Special: 0x02, Position: valueVector3{Y: 10}},
		{Rotation: [9]float32{0, 0, 1, 1, 0, 0, 0, 1, 0}, Position: valueVector3{Z: -1}},
	}
	b, err := arrayToBytes(nil, a)
	require.NoError(t, err)

	// Two full rotations, one special ID, and the interleaved position block.
	assert.Len(t, b, 2*(zCFrameSp+zCFrameRo)+zCFrameSp+len(a)*zVector3)

	d := make(arrayCFrame, len(a))
	n, err := arrayFromBytes(b, d)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, a, d)
}

func TestArrayOptionalCFrame(t *testing.T) {
	a := arrayOptionalCFrame{
		{CFrame: valueCFrame{Special: 0x02, Position: valueVector3{X: 1}}, Present: true},
		{},
	}
	b, err := arrayToBytes(nil, a)
	require.NoError(t, err)

	// Leading tag names the inner type. Presence bytes trail the values.
	assert.Equal(t, byte(typeCFrame), b[0])
	assert.Equal(t, []byte{1, 0}, b[len(b)-2:])

	d := make(arrayOptionalCFrame, len(a))
	n, err := arrayFromBytes(b, d)
	require.NoError(t, err)
	assert.Equal(t, len(b), n)
	assert.Equal(t, a, d)

	// An unexpected tag is rejected.
	bad := append([]byte{byte(typeVector3)}, b[1:]...)
	_, err = d.FromBytes(bad)
	assert.Error(t, err)
}
