package rbxbin

import (
	"fmt"

	"github.com/robloxapi/rbxm/errors"
)

var (
	errInvalidSig         = errors.New("invalid signature")
	errCorruptHeader      = errors.New("the file header is corrupted")
	errUnknownChunkSig    = errors.New("unknown chunk signature")
	errEndChunkCompressed = errors.New("end chunk is compressed")
	errEndChunkContent    = errors.New("end chunk content is not `</roblox>`")
)

// errReserve is a warning that indicates unexpected data in the reserved
// space of the file header.
type errReserve struct {
	// Offset marks the location of the reserved space.
	Offset int64

	// Bytes is the unexpected content of the reserved space.
	Bytes []byte
}

func (err errReserve) Error() string {
	return fmt.Sprintf("unexpected content in reserved space at %d: % 02X", err.Offset, err.Bytes)
}

// errChunkSize indicates a chunk whose decompressed size exceeds a configured
// limit.
type errChunkSize struct {
	Size  uint32
	Limit uint32
}

func (err errChunkSize) Error() string {
	return fmt.Sprintf("chunk size of %d bytes exceeds limit of %d bytes", err.Size, err.Limit)
}

// errUnrecognizedVersion indicates a format version that the codec does not
// support.
type errUnrecognizedVersion uint16

func (err errUnrecognizedVersion) Error() string {
	return fmt.Sprintf("unrecognized format version %d", uint16(err))
}

// errUnknownType indicates a property data type that the codec does not
// recognize.
type errUnknownType typeID

func (err errUnknownType) Error() string {
	return fmt.Sprintf("unknown data type 0x%X", byte(err))
}

// errParentArray indicates a parent chunk whose arrays have mismatched
// lengths.
type errParentArray struct {
	Children int
	Parents  int
}

func (err errParentArray) Error() string {
	return fmt.Sprintf("length of parent array (%d) does not match length of children array (%d)", err.Parents, err.Children)
}

// ValueError is an error that is produced by a value of a certain type.
type ValueError struct {
	Type  byte
	Cause error
}

func (err ValueError) Error() string {
	return fmt.Sprintf("type 0x%X: %s", err.Type, err.Cause)
}

func (err ValueError) Unwrap() error {
	return err.Cause
}

// DataError indicates an error that occurred within the data of a file, the
// location of which is indicated by an offset.
type DataError struct {
	// Offset is the location of the error, in bytes.
	Offset int64

	// Cause is an underlying error.
	Cause error
}

func (err DataError) Error() string {
	if err.Cause == nil {
		return fmt.Sprintf("data error at %d", err.Offset)
	}
	return fmt.Sprintf("data error at %d: %s", err.Offset, err.Cause.Error())
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// ChunkError indicates an error that occurred while parsing a chunk, the
// location of which is indicated by an index.
type ChunkError struct {
	// Index is the position of the chunk within the file.
	Index int

	// Sig is the signature of the chunk.
	Sig [4]byte

	// Cause is an underlying error.
	Cause error
}

func (err ChunkError) Error() string {
	sig := dumpableSig(err.Sig)
	return fmt.Sprintf("#%d %q chunk: %s", err.Index, sig, err.Cause.Error())
}

func (err ChunkError) Unwrap() error {
	return err.Cause
}

// CodecError wraps an error that occurred while encoding or decoding a binary
// data structure.
type CodecError struct {
	Cause error
}

func (err CodecError) Error() string {
	if err.Cause == nil {
		return "codec error"
	}
	return fmt.Sprintf("codec error: %s", err.Cause.Error())
}

func (err CodecError) Unwrap() error {
	return err.Cause
}
