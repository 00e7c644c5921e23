package rbxbin

import (
	"io"

	"github.com/anaminus/parse"
)

// Signatures of each chunk defined by the format.
const (
	sigMETA = "META"
	sigSSTR = "SSTR"
	sigINST = "INST"
	sigPROP = "PROP"
	sigPRNT = "PRNT"
	sigEND  = "END\x00"
)

////////////////////////////////////////////////////////////////

// chunkMeta is a chunk that contains file metadata.
type chunkMeta struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// Values is a list of key-value pairs, in file order.
	Values [][2]string
}

func (chunkMeta) Signature() [4]byte {
	return [4]byte{0x4D, 0x45, 0x54, 0x41} // META
}

func (c *chunkMeta) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkMeta) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkMeta) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	var size uint32
	if fr.Number(&size) {
		return fr.End()
	}
	c.Values = make([][2]string, int(size))

	for i := range c.Values {
		if readString(fr, &c.Values[i][0]) {
			return fr.End()
		}
		if readString(fr, &c.Values[i][1]) {
			return fr.End()
		}
	}

	return fr.End()
}

func (c *chunkMeta) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Number(uint32(len(c.Values))) {
		return fw.End()
	}

	for _, pair := range c.Values {
		if writeString(fw, pair[0]) {
			return fw.End()
		}
		if writeString(fw, pair[1]) {
			return fw.End()
		}
	}

	return fw.End()
}

////////////////////////////////////////////////////////////////

// sharedStringEntry is a single entry of a shared string chunk.
type sharedStringEntry struct {
	// Hash is the MD5 hash of the value as recorded in the file. Roblox no
	// longer writes it, so it is usually zero.
	Hash [16]byte

	// Value is the content of the string.
	Value []byte
}

// chunkSharedStrings is a chunk that contains shared strings.
type chunkSharedStrings struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// Version of the chunk layout.
	Version uint32

	// Values is the string table, indexed by SharedString values in
	// property chunks.
	Values []sharedStringEntry
}

func (chunkSharedStrings) Signature() [4]byte {
	return [4]byte{0x53, 0x53, 0x54, 0x52} // SSTR
}

func (c *chunkSharedStrings) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkSharedStrings) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkSharedStrings) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	if fr.Number(&c.Version) {
		return fr.End()
	}

	var length uint32
	if fr.Number(&length) {
		return fr.End()
	}
	c.Values = make([]sharedStringEntry, int(length))

	for i := range c.Values {
		if fr.Bytes(c.Values[i].Hash[:]) {
			return fr.End()
		}
		var value string
		if readString(fr, &value) {
			return fr.End()
		}
		c.Values[i].Value = []byte(value)
	}

	return fr.End()
}

func (c *chunkSharedStrings) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Number(c.Version) {
		return fw.End()
	}

	if fw.Number(uint32(len(c.Values))) {
		return fw.End()
	}

	for _, entry := range c.Values {
		if fw.Bytes(entry.Hash[:]) {
			return fw.End()
		}
		if writeString(fw, string(entry.Value)) {
			return fw.End()
		}
	}

	return fw.End()
}

////////////////////////////////////////////////////////////////

// chunkInstance is a chunk that contains the instances of a single class.
type chunkInstance struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// ClassID is a number identifying the instance group.
	ClassID int32

	// ClassName indicates the class of each instance in the group.
	ClassName string

	// InstanceIDs is a list of numbers that identify each instance in the
	// group, which can be referred to in other chunks.
	InstanceIDs []int32

	// IsService indicates whether the instances are services.
	IsService bool

	// GetService is a list of flags indicating how each instance was
	// created. Only present when IsService is true.
	GetService []byte
}

func (chunkInstance) Signature() [4]byte {
	return [4]byte{0x49, 0x4E, 0x53, 0x54} // INST
}

func (c *chunkInstance) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkInstance) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkInstance) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	if fr.Number(&c.ClassID) {
		return fr.End()
	}

	if readString(fr, &c.ClassName) {
		return fr.End()
	}

	var isService uint8
	if fr.Number(&isService) {
		return fr.End()
	}
	c.IsService = isService != 0

	var groupLength uint32
	if fr.Number(&groupLength) {
		return fr.End()
	}

	raw := make([]byte, int(groupLength)*zu32)
	if fr.Bytes(raw) {
		return fr.End()
	}
	refs, _, err := decodeRefArray(raw, int(groupLength))
	if fr.Add(0, err) {
		return fr.End()
	}
	c.InstanceIDs = refs

	if c.IsService {
		c.GetService = make([]byte, int(groupLength))
		if fr.Bytes(c.GetService) {
			return fr.End()
		}
	}

	return fr.End()
}

func (c *chunkInstance) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Number(c.ClassID) {
		return fw.End()
	}

	if writeString(fw, c.ClassName) {
		return fw.End()
	}

	var isService uint8
	if c.IsService {
		isService = 1
	}
	if fw.Number(isService) {
		return fw.End()
	}

	if fw.Number(uint32(len(c.InstanceIDs))) {
		return fw.End()
	}

	raw, err := encodeRefArray(make([]byte, 0, len(c.InstanceIDs)*zu32), c.InstanceIDs)
	if fw.Add(0, err) {
		return fw.End()
	}
	if fw.Bytes(raw) {
		return fw.End()
	}

	if c.IsService {
		if fw.Bytes(c.GetService) {
			return fw.End()
		}
	}

	return fw.End()
}

////////////////////////////////////////////////////////////////

// chunkProperty is a chunk that contains the values of a single property of
// each instance of a single class.
//
// The number of values in the chunk is determined by the instance chunk
// sharing the same ClassID, so the value block is carried as raw bytes until
// it can be paired with that chunk.
type chunkProperty struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// ClassID is the instance group the property applies to.
	ClassID int32

	// PropertyName is the name of the property.
	PropertyName string

	// DataType indicates the type of each value. Invalid when the chunk has
	// no value block.
	DataType typeID

	// Raw is the undecoded value block.
	Raw []byte
}

func (chunkProperty) Signature() [4]byte {
	return [4]byte{0x50, 0x52, 0x4F, 0x50} // PROP
}

func (c *chunkProperty) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkProperty) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkProperty) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	if fr.Number(&c.ClassID) {
		return fr.End()
	}

	if readString(fr, &c.PropertyName) {
		return fr.End()
	}

	rest, failed := fr.All()
	if failed {
		return fr.End()
	}
	if len(rest) == 0 {
		// A chunk with no value block is skipped without erroring.
		c.DataType = typeInvalid
		return fr.End()
	}

	c.DataType = typeID(rest[0])
	c.Raw = rest[1:]
	if !c.DataType.Valid() {
		fr.Add(0, errUnknownType(c.DataType))
		return fr.End()
	}

	return fr.End()
}

func (c *chunkProperty) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Number(c.ClassID) {
		return fw.End()
	}

	if writeString(fw, c.PropertyName) {
		return fw.End()
	}

	if c.DataType == typeInvalid {
		return fw.End()
	}

	if fw.Number(byte(c.DataType)) {
		return fw.End()
	}

	if fw.Bytes(c.Raw) {
		return fw.End()
	}

	return fw.End()
}

////////////////////////////////////////////////////////////////

// chunkParent is a chunk that contains information about the parent-child
// relationships between instances in the model.
type chunkParent struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// Version is the version of the chunk. Reserved so that the format of
	// the parent chunk can be changed without changing the version of the
	// entire file format.
	Version uint8

	// Children is a list of instances referred to by instance ID.
	Children []int32

	// Parents is a list of instances, referred to by instance ID, that are
	// the parents of the instances in the Children array.
	Parents []int32
}

func (chunkParent) Signature() [4]byte {
	return [4]byte{0x50, 0x52, 0x4E, 0x54} // PRNT
}

func (c *chunkParent) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkParent) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkParent) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	if fr.Number(&c.Version) {
		return fr.End()
	}

	var length uint32
	if fr.Number(&length) {
		return fr.End()
	}

	raw := make([]byte, int(length)*zu32)

	if fr.Bytes(raw) {
		return fr.End()
	}
	children, _, err := decodeRefArray(raw, int(length))
	if fr.Add(0, err) {
		return fr.End()
	}
	c.Children = children

	if fr.Bytes(raw) {
		return fr.End()
	}
	parents, _, err := decodeRefArray(raw, int(length))
	if fr.Add(0, err) {
		return fr.End()
	}
	c.Parents = parents

	return fr.End()
}

func (c *chunkParent) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	if fw.Number(c.Version) {
		return fw.End()
	}

	if len(c.Parents) != len(c.Children) {
		fw.Add(0, errParentArray{Children: len(c.Children), Parents: len(c.Parents)})
		return fw.End()
	}

	if fw.Number(uint32(len(c.Children))) {
		return fw.End()
	}

	raw, err := encodeRefArray(make([]byte, 0, len(c.Children)*zu32), c.Children)
	if fw.Add(0, err) {
		return fw.End()
	}
	if fw.Bytes(raw) {
		return fw.End()
	}

	raw, err = encodeRefArray(raw[:0], c.Parents)
	if fw.Add(0, err) {
		return fw.End()
	}
	if fw.Bytes(raw) {
		return fw.End()
	}

	return fw.End()
}

////////////////////////////////////////////////////////////////

// chunkEnd is a chunk that signals the end of the file.
type chunkEnd struct {
	// Whether the chunk is compressed.
	IsCompressed bool

	// The raw content of the chunk.
	Content []byte
}

func (chunkEnd) Signature() [4]byte {
	return [4]byte{0x45, 0x4E, 0x44, 0x00} // END\0
}

func (c *chunkEnd) Compressed() bool {
	return c.IsCompressed
}

func (c *chunkEnd) SetCompressed(b bool) {
	c.IsCompressed = b
}

func (c *chunkEnd) ReadFrom(r io.Reader) (n int64, err error) {
	fr := parse.NewBinaryReader(r)

	c.Content, _ = fr.All()

	return fr.End()
}

func (c *chunkEnd) WriteTo(w io.Writer) (n int64, err error) {
	fw := parse.NewBinaryWriter(w)

	fw.Bytes(c.Content)

	return fw.End()
}
