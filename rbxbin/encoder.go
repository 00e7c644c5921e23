package rbxbin

import (
	"bytes"
	"io"

	"github.com/anaminus/parse"
	"github.com/robloxapi/rbxm"
	"github.com/robloxapi/rbxm/errors"
	"github.com/robloxapi/rbxm/rbxdb"
)

// encodeError wraps the state of a writer into a DataError. Returns nil if
// the writer has no error.
func encodeError(fw *parse.BinaryWriter) error {
	if err := fw.Err(); err != nil {
		return DataError{Offset: fw.N(), Cause: err}
	}
	return nil
}

// Encoder encodes a rbxm.Root into a stream of bytes.
type Encoder struct {
	// Mode indicates which type of format is encoded.
	Mode Mode

	// Uncompressed sets whether chunks are compressed.
	Uncompressed bool

	// DB describes the canonical form of properties. When an instance lacks a
	// property that other instances of its class carry, the missing value is
	// taken from the database's default for that property. May be nil.
	DB rbxdb.Database
}

// Encode formats root, writing the result to w.
//
// Problems that do not prevent the tree from being encoded are accumulated
// and returned as warn.
func (e Encoder) Encode(w io.Writer, root *rbxm.Root) (warn, err error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}
	codec := robloxCodec{Mode: e.Mode, DB: e.DB}
	model, warn, err := codec.Encode(root)
	if err != nil {
		return warn, CodecError{Cause: err}
	}
	if e.Uncompressed {
		for _, ch := range model.Chunks {
			ch.SetCompressed(false)
		}
	}
	return warn, writeModel(w, model)
}

// writeModel serializes a formatModel to w.
func writeModel(w io.Writer, model *formatModel) error {
	fw := parse.NewBinaryWriter(w)

	if fw.Bytes([]byte(robloxSig + binaryMarker + binaryHeader)) {
		return encodeError(fw)
	}

	if fw.Number(model.Version) {
		return encodeError(fw)
	}
	if fw.Number(model.ClassCount) {
		return encodeError(fw)
	}
	if fw.Number(model.InstanceCount) {
		return encodeError(fw)
	}

	var reserved [8]byte
	if fw.Bytes(reserved[:]) {
		return encodeError(fw)
	}

	for _, ch := range model.Chunks {
		raw := rawChunk{
			signature:  ch.Signature(),
			compressed: ch.Compressed(),
		}

		var payload bytes.Buffer
		if _, err := ch.WriteTo(&payload); err != nil {
			fw.Add(0, err)
			return encodeError(fw)
		}
		raw.payload = payload.Bytes()

		if raw.WriteTo(fw) {
			return encodeError(fw)
		}
	}

	return encodeError(fw)
}
