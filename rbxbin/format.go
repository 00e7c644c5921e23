// Package rbxbin implements a decoder and encoder for Roblox's binary file
// format.
//
// A file is decoded into an rbxm.Root with Decoder.Decode, and encoded from
// one with Encoder.Encode. Lower-level access to the content of a file is
// provided by Decoder.Dump and Decoder.Decompress.
package rbxbin

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/anaminus/parse"
	"github.com/bkaradzic/go-lz4"
)

////////////////////////////////////////////////////////////////

// robloxSig is the signature of a Roblox file.
const robloxSig = "<roblox"

// binaryMarker indicates the start of a binary file, rather than an XML file.
const binaryMarker = "!"

// binaryHeader is the header magic of a binary file.
const binaryHeader = "\x89\xff\r\n\x1a\n"

// endChunkContent is the expected content of the end chunk.
const endChunkContent = "</roblox>"

////////////////////////////////////////////////////////////////

// Mode indicates how the codec formats data.
type Mode uint8

const (
	Place Mode = iota // Data is handled as a Roblox place (RBXL) file.
	Model             // Data is handled as a Roblox model (RBXM) file.
)

////////////////////////////////////////////////////////////////

func readString(f *parse.BinaryReader, data *string) (failed bool) {
	if f.Err() != nil {
		return true
	}

	var length uint32
	if f.Number(&length) {
		return true
	}

	s := make([]byte, length)
	if f.Bytes(s) {
		return true
	}

	*data = string(s)

	return false
}

func writeString(f *parse.BinaryWriter, data string) (failed bool) {
	if f.Err() != nil {
		return true
	}

	if f.Number(uint32(len(data))) {
		return true
	}

	return f.Bytes([]byte(data))
}

////////////////////////////////////////////////////////////////

// formatModel models the binary file format. Directly, it can be used to
// control exactly how a file is encoded.
type formatModel struct {
	// Version indicates the version of the format model.
	Version uint16

	// ClassCount is the number of unique classes in the model.
	ClassCount uint32

	// InstanceCount is the number of unique instances in the model.
	InstanceCount uint32

	// Chunks is a list of Chunks present in the model.
	Chunks []chunk
}

////////////////////////////////////////////////////////////////

// chunk is a portion of the model that contains distinct data.
type chunk interface {
	// Signature returns a signature used to identify the chunk's type.
	Signature() [4]byte

	// Compressed returns whether the chunk was compressed when decoding, or
	// whether the chunk should be compressed when encoding.
	Compressed() bool

	// SetCompressed sets whether the chunk should be compressed when
	// encoding.
	SetCompressed(bool)

	// ReadFrom processes the payload of a decompressed chunk.
	ReadFrom(r io.Reader) (n int64, err error)

	// WriteTo writes the data from a chunk to an uncompressed payload. The
	// payload will be compressed afterward depending on the chunk's
	// compression settings.
	WriteTo(w io.Writer) (n int64, err error)
}

// Represents a raw chunk, which contains compression data and payload.
type rawChunk struct {
	signature  [4]byte
	compressed bool
	payload    []byte
}

// Reads out a raw chunk from a stream, decompressing the chunk if necessary.
// If limit is greater than 0, chunks that decompress to more than limit bytes
// are rejected.
func (c *rawChunk) ReadFrom(fr *parse.BinaryReader, limit uint32) bool {
	if fr.Bytes(c.signature[:]) {
		return true
	}

	var compressedLength uint32
	if fr.Number(&compressedLength) {
		return true
	}

	var decompressedLength uint32
	if fr.Number(&decompressedLength) {
		return true
	}

	var reserved uint32
	if fr.Number(&reserved) {
		return true
	}

	if limit > 0 && decompressedLength > limit {
		fr.Add(0, errChunkSize{Size: decompressedLength, Limit: limit})
		return true
	}

	c.payload = make([]byte, decompressedLength)
	// If compressed length is 0, then the data is not compressed.
	if compressedLength == 0 {
		c.compressed = false
		if fr.Bytes(c.payload) {
			return true
		}
	} else {
		c.compressed = true

		// Prepare compressed data for reading by lz4, which requires the
		// uncompressed length before the compressed data.
		compressedData := make([]byte, compressedLength+4)
		binary.LittleEndian.PutUint32(compressedData, decompressedLength)

		if fr.Bytes(compressedData[4:]) {
			return true
		}

		if _, err := lz4.Decode(c.payload, compressedData); err != nil {
			fr.Add(0, fmt.Errorf("lz4: %s", err.Error()))
			return true
		}
	}

	return false
}

// Writes a raw chunk payload to a stream, compressing if necessary.
func (c *rawChunk) WriteTo(fw *parse.BinaryWriter) bool {
	if fw.Bytes(c.signature[:]) {
		return true
	}

	if c.compressed {
		var compressedData []byte
		compressedData, err := lz4.Encode(compressedData, c.payload)
		if fw.Add(0, err) {
			return true
		}

		// lz4 sanity check
		if binary.LittleEndian.Uint32(compressedData[:4]) != uint32(len(c.payload)) {
			panic("lz4 uncompressed length does not match payload length")
		}

		// Compressed length; lz4 prepends the length of the uncompressed
		// payload, so it must be excluded.
		compressedPayload := compressedData[4:]

		if fw.Number(uint32(len(compressedPayload))) {
			return true
		}

		// Decompressed length
		if fw.Number(uint32(len(c.payload))) {
			return true
		}

		// Reserved
		if fw.Number(uint32(0)) {
			return true
		}

		if fw.Bytes(compressedPayload) {
			return true
		}
	} else {
		// If the data is not compressed, then the compressed length is 0
		if fw.Number(uint32(0)) {
			return true
		}

		// Decompressed length
		if fw.Number(uint32(len(c.payload))) {
			return true
		}

		// Reserved
		if fw.Number(uint32(0)) {
			return true
		}

		if fw.Bytes(c.payload) {
			return true
		}
	}

	return false
}

////////////////////////////////////////////////////////////////

// chunkUnknown is a chunk that is not known by the format.
type chunkUnknown struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// The signature of the chunk.
	Sig [4]byte

	// The raw content of the chunk.
	Bytes []byte
}

func (c *chunkUnknown) Signature() [4]byte {
	return c.Sig
}

func (c *chunkUnknown) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkUnknown) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkUnknown) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	c.Bytes, _ = fr.All()

	return fr.End()
}

func (c *chunkUnknown) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	fw.Bytes(c.Bytes)

	return fw.End()
}

////////////////////////////////////////////////////////////////

// chunkErrored is a chunk that has errored.
type chunkErrored struct {
	// The state of the chunk as the error occurred.
	chunk

	// Offset is the number of bytes parsed before the error occurred.
	Offset int64

	// The error that occurred.
	Cause error

	// The raw bytes of the chunk.
	Bytes []byte
}

func (c *chunkErrored) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	c.Bytes, _ = fr.All()

	return fr.End()
}

func (c *chunkErrored) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	fw.Bytes(c.Bytes)

	return fw.End()
}
