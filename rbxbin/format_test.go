package rbxbin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/anaminus/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawChunkUncompressed(t *testing.T) {
	var buf bytes.Buffer
	c := rawChunk{
		signature: [4]byte{'M', 'E', 'T', 'A'},
		payload:   []byte("payload"),
	}
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, c.WriteTo(fw))
	_, err := fw.End()
	require.NoError(t, err)

	b := buf.Bytes()
	assert.Equal(t, []byte("META"), b[0:4])
	// Zero compressed length marks an uncompressed payload.
	assert.Equal(t, []byte{0, 0, 0, 0}, b[4:8])
	assert.Equal(t, []byte{7, 0, 0, 0}, b[8:12])
	assert.Equal(t, []byte{0, 0, 0, 0}, b[12:16])
	assert.Equal(t, []byte("payload"), b[16:])

	var d rawChunk
	fr := parse.NewBinaryReader(bytes.NewReader(b))
	require.False(t, d.ReadFrom(fr, 0))
	assert.Equal(t, c.signature, d.signature)
	assert.False(t, d.compressed)
	assert.Equal(t, c.payload, d.payload)
}

func TestRawChunkCompressed(t *testing.T) {
	var buf bytes.Buffer
	c := rawChunk{
		signature:  [4]byte{'I', 'N', 'S', 'T'},
		compressed: true,
		payload:    bytes.Repeat([]byte("abcdefgh"), 64),
	}
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, c.WriteTo(fw))
	_, err := fw.End()
	require.NoError(t, err)

	b := buf.Bytes()
	compressedLength := le.Uint32(b[4:8])
	assert.NotZero(t, compressedLength)
	assert.Equal(t, uint32(len(c.payload)), le.Uint32(b[8:12]))
	assert.Less(t, int(compressedLength), len(c.payload))

	var d rawChunk
	fr := parse.NewBinaryReader(bytes.NewReader(b))
	require.False(t, d.ReadFrom(fr, 0))
	assert.True(t, d.compressed)
	assert.Equal(t, c.payload, d.payload)
}

func TestRawChunkLimit(t *testing.T) {
	var buf bytes.Buffer
	c := rawChunk{
		signature: [4]byte{'P', 'R', 'O', 'P'},
		payload:   make([]byte, 100),
	}
	fw := parse.NewBinaryWriter(&buf)
	require.False(t, c.WriteTo(fw))
	_, err := fw.End()
	require.NoError(t, err)

	var d rawChunk
	fr := parse.NewBinaryReader(bytes.NewReader(buf.Bytes()))
	assert.True(t, d.ReadFrom(fr, 10))
	require.Error(t, fr.Err())
	assert.Contains(t, fr.Err().Error(), "exceeds limit")
}

func TestDecodeHeaderErrors(t *testing.T) {
	d := Decoder{}

	_, _, err := d.Decode(nil)
	assert.Error(t, err)

	_, _, err = d.Decode(strings.NewReader("<roblox \x89\xff\r\n\x1a\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid signature")

	_, _, err = d.Decode(strings.NewReader(robloxSig + binaryMarker + "XXXXXX"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted")

	_, _, err = d.Decode(strings.NewReader(robloxSig + binaryMarker + binaryHeader + "\x01\x00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized format version 1")
}

func TestWriteModelEmpty(t *testing.T) {
	model := &formatModel{
		Chunks: []chunk{
			&chunkEnd{Content: []byte(endChunkContent)},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, writeModel(&buf, model))

	b := buf.Bytes()
	assert.True(t, bytes.HasPrefix(b, []byte(robloxSig+binaryMarker+binaryHeader)))
	// Version, class count, instance count, and reserved space are zero.
	assert.Equal(t, make([]byte, 2+4+4+8), b[14:32])

	decoded, warn, err := Decoder{}.decode(&buf)
	require.NoError(t, err)
	assert.NoError(t, warn)
	require.Len(t, decoded.Chunks, 1)
	end, ok := decoded.Chunks[0].(*chunkEnd)
	require.True(t, ok)
	assert.Equal(t, []byte(endChunkContent), end.Content)
}

func TestDecodeReservedWarning(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeModel(&buf, &formatModel{
		Chunks: []chunk{&chunkEnd{Content: []byte(endChunkContent)}},
	}))
	b := buf.Bytes()
	b[24] = 0xAB

	_, warn, err := Decoder{}.decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Error(t, warn)
	assert.Contains(t, warn.Error(), "reserved space")
}

func TestDecodeUnknownChunk(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeModel(&buf, &formatModel{
		Chunks: []chunk{
			&chunkUnknown{Sig: [4]byte{'W', 'H', 'A', 'T'}, Bytes: []byte("mystery")},
			&chunkEnd{Content: []byte(endChunkContent)},
		},
	}))

	decoded, warn, err := Decoder{}.decode(&buf)
	require.NoError(t, err)
	assert.NoError(t, warn)
	require.Len(t, decoded.Chunks, 2)
	unk, ok := decoded.Chunks[0].(*chunkUnknown)
	require.True(t, ok)
	assert.Equal(t, []byte("mystery"), unk.Bytes)
}

func roundTripChunk(t *testing.T, src, dst chunk) {
	t.Helper()
	var buf bytes.Buffer
	_, err := src.WriteTo(&buf)
	require.NoError(t, err)
	_, err = dst.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, src, dst)
}

func TestChunkMeta(t *testing.T) {
	roundTripChunk(t, &chunkMeta{
		Values: [][2]string{
			{"ExplicitAutoJoints", "true"},
			{"", ""},
		},
	}, new(chunkMeta))
}

func TestChunkSharedStrings(t *testing.T) {
	roundTripChunk(t, &chunkSharedStrings{
		Version: 0,
		Values: []sharedStringEntry{
			{Hash: [16]byte{1, 2, 3}, Value: []byte("blob")},
			{Value: []byte("other blob")},
		},
	}, new(chunkSharedStrings))
}

func TestChunkInstance(t *testing.T) {
	roundTripChunk(t, &chunkInstance{
		ClassID:     3,
		ClassName:   "Part",
		InstanceIDs: []int32{0, 1, 5},
	}, new(chunkInstance))

	roundTripChunk(t, &chunkInstance{
		ClassID:     0,
		ClassName:   "Workspace",
		InstanceIDs: []int32{2},
		IsService:   true,
		GetService:  []byte{1},
	}, new(chunkInstance))
}

func TestChunkProperty(t *testing.T) {
	roundTripChunk(t, &chunkProperty{
		ClassID:      3,
		PropertyName: "Anchored",
		DataType:     typeBool,
		Raw:          []byte{1, 0, 1},
	}, new(chunkProperty))

	// A chunk without a value block reads back as invalid without erroring.
	var buf bytes.Buffer
	_, err := (&chunkProperty{ClassID: 1, PropertyName: "Name"}).WriteTo(&buf)
	require.NoError(t, err)
	var d chunkProperty
	_, err = d.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, typeInvalid, d.DataType)

	// An unrecognized data type errors.
	buf.Reset()
	_, err = (&chunkProperty{DataType: typeID(0xFF), Raw: []byte{}}).WriteTo(&buf)
	require.NoError(t, err)
	_, err = d.ReadFrom(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown data type 0xFF")
}

func TestChunkParent(t *testing.T) {
	roundTripChunk(t, &chunkParent{
		Version:  0,
		Children: []int32{0, 1, 2, 3},
		Parents:  []int32{nilInstance, 0, 0, 1},
	}, new(chunkParent))

	var buf bytes.Buffer
	_, err := (&chunkParent{Children: []int32{0}, Parents: []int32{}}).WriteTo(&buf)
	require.Error(t, err)
}

func TestChunkEnd(t *testing.T) {
	roundTripChunk(t, &chunkEnd{Content: []byte(endChunkContent)}, new(chunkEnd))
}
