package rbxbin

import (
	"bytes"
	"io"

	"github.com/anaminus/parse"
	"github.com/robloxapi/rbxm"
	"github.com/robloxapi/rbxm/errors"
	"github.com/robloxapi/rbxm/rbxdb"
)

// decodeError wraps the state of a reader into a DataError. Returns nil if
// the reader has no error.
func decodeError(fr *parse.BinaryReader) error {
	if err := fr.Err(); err != nil {
		return DataError{Offset: fr.N(), Cause: err}
	}
	return nil
}

// Decoder decodes a stream of bytes into a rbxm.Root.
type Decoder struct {
	// Mode indicates which type of format is decoded.
	Mode Mode

	// Strict causes chunks that would otherwise be skipped with a warning
	// (chunks that cannot be read, chunks with an unknown signature, and
	// property chunks naming an unknown class) to produce an error instead.
	// Other problems are still returned as warnings.
	Strict bool

	// MaxChunkSize is the maximum decompressed size, in bytes, that a single
	// chunk is allowed to have. Chunks that exceed the limit produce an
	// error. A size of 0 means no limit.
	MaxChunkSize uint32

	// DB describes the canonical form of properties. Decoded properties are
	// renamed and converted to their canonical form, and missing properties
	// with defaults are filled in. May be nil.
	DB rbxdb.Database
}

// Decode reads data from r, and decodes it into a rbxm.Root.
//
// Problems that do not prevent the file from being decoded are accumulated
// and returned as warn.
func (d Decoder) Decode(r io.Reader) (root *rbxm.Root, warn, err error) {
	model, warn, err := d.decode(r)
	if err != nil {
		return nil, warn, err
	}
	codec := robloxCodec{Mode: d.Mode, Strict: d.Strict, DB: d.DB}
	root, cwarn, err := codec.Decode(model)
	warn = errors.Union(warn, cwarn)
	if err != nil {
		return nil, warn, CodecError{Cause: err}
	}
	return root, warn, nil
}

// Dump reads data from r, and writes a readable representation of the binary
// format to w.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}
	model, warn, err := d.decode(r)
	if err != nil {
		return warn, err
	}
	return warn, dumpFormatModel(w, model)
}

// Decompress reencodes the binary data from r to w, with all chunks
// uncompressed. The rest of the file is unchanged.
func (d Decoder) Decompress(w io.Writer, r io.Reader) (warn, err error) {
	if w == nil {
		return nil, errors.New("writer is nil")
	}
	model, warn, err := d.decode(r)
	if err != nil {
		return warn, err
	}
	for _, ch := range model.Chunks {
		ch.SetCompressed(false)
	}
	return warn, writeModel(w, model)
}

// decode parses the stream into a formatModel.
func (d Decoder) decode(r io.Reader) (model *formatModel, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("reader is nil")
	}
	var warns errors.Errors

	model = new(formatModel)
	fr := parse.NewBinaryReader(r)

	sig := make([]byte, len(robloxSig)+len(binaryMarker))
	if fr.Bytes(sig) {
		return nil, warns.Return(), decodeError(fr)
	}
	if !bytes.Equal(sig[:len(robloxSig)], []byte(robloxSig)) ||
		!bytes.Equal(sig[len(robloxSig):], []byte(binaryMarker)) {
		fr.Add(0, errInvalidSig)
		return nil, warns.Return(), decodeError(fr)
	}

	header := make([]byte, len(binaryHeader))
	if fr.Bytes(header) {
		return nil, warns.Return(), decodeError(fr)
	}
	if !bytes.Equal(header, []byte(binaryHeader)) {
		fr.Add(0, errCorruptHeader)
		return nil, warns.Return(), decodeError(fr)
	}

	if fr.Number(&model.Version) {
		return nil, warns.Return(), decodeError(fr)
	}
	if model.Version != 0 {
		fr.Add(0, errUnrecognizedVersion(model.Version))
		return nil, warns.Return(), decodeError(fr)
	}

	if fr.Number(&model.ClassCount) {
		return nil, warns.Return(), decodeError(fr)
	}
	if fr.Number(&model.InstanceCount) {
		return nil, warns.Return(), decodeError(fr)
	}

	var reserved [8]byte
	offset := fr.N()
	if fr.Bytes(reserved[:]) {
		return nil, warns.Return(), decodeError(fr)
	}
	if reserved != ([8]byte{}) {
		content := make([]byte, len(reserved))
		copy(content, reserved[:])
		warns = warns.Append(errReserve{Offset: offset, Bytes: content})
	}

	for i := 0; ; i++ {
		raw := new(rawChunk)
		if raw.ReadFrom(fr, d.MaxChunkSize) {
			return nil, warns.Return(), decodeError(fr)
		}

		var ch chunk
		switch string(raw.signature[:]) {
		case sigMETA:
			ch = new(chunkMeta)
		case sigSSTR:
			ch = new(chunkSharedStrings)
		case sigINST:
			ch = new(chunkInstance)
		case sigPROP:
			ch = new(chunkProperty)
		case sigPRNT:
			ch = new(chunkParent)
		case sigEND:
			ch = new(chunkEnd)
		default:
			ch = &chunkUnknown{Sig: raw.signature}
		}
		ch.SetCompressed(raw.compressed)

		n, cerr := ch.ReadFrom(bytes.NewReader(raw.payload))
		if cerr != nil {
			werr := ChunkError{Index: i, Sig: raw.signature, Cause: cerr}
			if d.Strict {
				return nil, warns.Return(), werr
			}
			warns = warns.Append(werr)
			payload := make([]byte, len(raw.payload))
			copy(payload, raw.payload)
			model.Chunks = append(model.Chunks, &chunkErrored{
				chunk:  ch,
				Offset: n,
				Cause:  cerr,
				Bytes:  payload,
			})
			if _, ok := ch.(*chunkEnd); ok {
				break
			}
			continue
		}

		model.Chunks = append(model.Chunks, ch)
		if _, ok := ch.(*chunkEnd); ok {
			break
		}
	}

	return model, warns.Return(), nil
}
