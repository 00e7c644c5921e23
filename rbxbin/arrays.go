package rbxbin

import (
	"github.com/robloxapi/rbxm/errors"
)

////////////////////////////////////////////////////////////////

// interleave transposes the bytes of a buffer, viewed as a matrix with rows
// of the given length. Bytes at the same offset within each row are grouped
// together, which improves the compressibility of arrays of small values.
func interleave(bytes []byte, length int) error {
	if length <= 0 {
		return errors.New("length must be greater than zero")
	}
	if len(bytes)%length != 0 {
		return errors.New("length must be a divisor of the buffer length")
	}

	cols := length
	rows := len(bytes) / length
	tmp := make([]byte, len(bytes))
	copy(tmp, bytes)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			bytes[c*rows+r] = tmp[r*cols+c]
		}
	}
	return nil
}

// deinterleave inverts interleave for records of the given size.
func deinterleave(bytes []byte, size int) error {
	if size <= 0 {
		return errors.New("size must be greater than zero")
	}
	if len(bytes)%size != 0 {
		return errors.New("size must be a divisor of the buffer length")
	}
	return interleave(bytes, len(bytes)/size)
}

////////////////////////////////////////////////////////////////

// array is a list of values serialized as a unit within a property chunk.
// The length of an array is determined by the instance chunk it pairs with,
// so an array must be allocated with its final length before decoding.
type array interface {
	// Type returns an identifier indicating the type of each element.
	Type() typeID

	// Len returns the number of elements.
	Len() int

	// Bytes appends the encoding of the array to b, excluding any
	// interleaving.
	Bytes(b []byte) []byte

	// FromBytes decodes the array from the front of b, returning the number
	// of bytes read. b is expected to be deinterleaved already.
	FromBytes(b []byte) (n int, err error)
}

// interleaver is implemented by arrays whose encoded bytes are interleaved
// by the element size.
type interleaver interface {
	array
	Interleaved()
}

// newArray returns an array of the given type with n elements. Returns nil
// if the type is invalid.
func newArray(t typeID, n int) array {
	switch t {
	case typeString:
		return make(arrayString, n)
	case typeBool:
		return make(arrayBool, n)
	case typeInt:
		return make(arrayInt, n)
	case typeFloat:
		return make(arrayFloat, n)
	case typeDouble:
		return make(arrayDouble, n)
	case typeUDim:
		return make(arrayUDim, n)
	case typeUDim2:
		return make(arrayUDim2, n)
	case typeRay:
		return make(arrayRay, n)
	case typeFaces:
		return make(arrayFaces, n)
	case typeAxes:
		return make(arrayAxes, n)
	case typeBrickColor:
		return make(arrayBrickColor, n)
	case typeColor3:
		return make(arrayColor3, n)
	case typeVector2:
		return make(arrayVector2, n)
	case typeVector3:
		return make(arrayVector3, n)
	case typeVector2int16:
		return make(arrayVector2int16, n)
	case typeCFrame:
		return make(arrayCFrame, n)
	case typeToken:
		return make(arrayToken, n)
	case typeReference:
		return make(arrayReference, n)
	case typeVector3int16:
		return make(arrayVector3int16, n)
	case typeNumberSequence:
		return make(arrayNumberSequence, n)
	case typeColorSequence:
		return make(arrayColorSequence, n)
	case typeNumberRange:
		return make(arrayNumberRange, n)
	case typeRect:
		return make(arrayRect, n)
	case typePhysicalProperties:
		return make(arrayPhysicalProperties, n)
	case typeColor3uint8:
		return make(arrayColor3uint8, n)
	case typeInt64:
		return make(arrayInt64, n)
	case typeSharedString:
		return make(arraySharedString, n)
	case typeOptionalCFrame:
		return make(arrayOptionalCFrame, n)
	}
	return nil
}

// arrayToBytes appends the encoding of an array to b, interleaving the
// encoded bytes if the array calls for it.
func arrayToBytes(b []byte, a array) ([]byte, error) {
	if _, ok := a.(interleaver); ok {
		start := len(b)
		b = a.Bytes(b)
		if err := interleave(b[start:], a.Type().Size()); err != nil {
			return b, err
		}
		return b, nil
	}
	return a.Bytes(b), nil
}

// arrayFromBytes decodes an array from the front of b, deinterleaving the
// bytes first if the array calls for it. Returns the number of bytes read.
func arrayFromBytes(b []byte, a array) (n int, err error) {
	if _, ok := a.(interleaver); ok {
		size := a.Type().Size()
		length := a.Len() * size
		if len(b) < length {
			return 0, buflenError{typ: a.Type(), exp: uint64(length), got: len(b)}
		}
		c := make([]byte, length)
		copy(c, b)
		if err := deinterleave(c, size); err != nil {
			return 0, err
		}
		return a.FromBytes(c)
	}
	return a.FromBytes(b)
}

////////////////////////////////////////////////////////////////

// encodeRefArray appends the encoding of a referent array to b. Referents
// are delta-encoded and interleaved.
func encodeRefArray(b []byte, refs []int32) ([]byte, error) {
	a := make(arrayReference, len(refs))
	for i, r := range refs {
		a[i] = valueReference(r)
	}
	return arrayToBytes(b, a)
}

// decodeRefArray decodes n referents from the front of b, returning the
// number of bytes read.
func decodeRefArray(b []byte, n int) ([]int32, int, error) {
	a := make(arrayReference, n)
	nn, err := arrayFromBytes(b, a)
	if err != nil {
		return nil, nn, err
	}
	refs := make([]int32, n)
	for i, v := range a {
		refs[i] = int32(v)
	}
	return refs, nn, nil
}

////////////////////////////////////////////////////////////////

type arrayString []valueString

func (arrayString) Type() typeID {
	return typeString
}

func (a arrayString) Len() int {
	return len(a)
}

func (a arrayString) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayString) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayBool []valueBool

func (arrayBool) Type() typeID {
	return typeBool
}

func (a arrayBool) Len() int {
	return len(a)
}

func (a arrayBool) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayBool) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayInt []valueInt

func (arrayInt) Type() typeID {
	return typeInt
}

func (a arrayInt) Len() int {
	return len(a)
}

func (arrayInt) Interleaved() {}

func (a arrayInt) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayInt) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayFloat []valueFloat

func (arrayFloat) Type() typeID {
	return typeFloat
}

func (a arrayFloat) Len() int {
	return len(a)
}

func (arrayFloat) Interleaved() {}

func (a arrayFloat) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayFloat) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayDouble []valueDouble

func (arrayDouble) Type() typeID {
	return typeDouble
}

func (a arrayDouble) Len() int {
	return len(a)
}

func (a arrayDouble) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayDouble) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayUDim []valueUDim

func (arrayUDim) Type() typeID {
	return typeUDim
}

func (a arrayUDim) Len() int {
	return len(a)
}

func (arrayUDim) Interleaved() {}

func (a arrayUDim) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayUDim) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayUDim2 []valueUDim2

func (arrayUDim2) Type() typeID {
	return typeUDim2
}

func (a arrayUDim2) Len() int {
	return len(a)
}

func (arrayUDim2) Interleaved() {}

func (a arrayUDim2) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayUDim2) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayRay []valueRay

func (arrayRay) Type() typeID {
	return typeRay
}

func (a arrayRay) Len() int {
	return len(a)
}

func (a arrayRay) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayRay) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayFaces []valueFaces

func (arrayFaces) Type() typeID {
	return typeFaces
}

func (a arrayFaces) Len() int {
	return len(a)
}

func (a arrayFaces) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayFaces) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayAxes []valueAxes

func (arrayAxes) Type() typeID {
	return typeAxes
}

func (a arrayAxes) Len() int {
	return len(a)
}

func (a arrayAxes) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayAxes) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayBrickColor []valueBrickColor

func (arrayBrickColor) Type() typeID {
	return typeBrickColor
}

func (a arrayBrickColor) Len() int {
	return len(a)
}

func (arrayBrickColor) Interleaved() {}

func (a arrayBrickColor) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayBrickColor) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayColor3 []valueColor3

func (arrayColor3) Type() typeID {
	return typeColor3
}

func (a arrayColor3) Len() int {
	return len(a)
}

func (arrayColor3) Interleaved() {}

func (a arrayColor3) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayColor3) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayVector2 []valueVector2

func (arrayVector2) Type() typeID {
	return typeVector2
}

func (a arrayVector2) Len() int {
	return len(a)
}

func (arrayVector2) Interleaved() {}

func (a arrayVector2) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayVector2) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayVector3 []valueVector3

func (arrayVector3) Type() typeID {
	return typeVector3
}

func (a arrayVector3) Len() int {
	return len(a)
}

func (arrayVector3) Interleaved() {}

func (a arrayVector3) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayVector3) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayVector2int16 []valueVector2int16

func (arrayVector2int16) Type() typeID {
	return typeVector2int16
}

func (a arrayVector2int16) Len() int {
	return len(a)
}

func (a arrayVector2int16) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayVector2int16) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayCFrame []valueCFrame

func (arrayCFrame) Type() typeID {
	return typeCFrame
}

func (a arrayCFrame) Len() int {
	return len(a)
}

// Bytes encodes each rotation in sequence, followed by every position as a
// single interleaved block.
func (a arrayCFrame) Bytes(b []byte) []byte {
	p := make([]byte, 0, len(a)*zVector3)
	for _, v := range a {
		b = v.rotationBytes(b)
		p = v.Position.Bytes(p)
	}
	interleave(p, zVector3)
	return append(b, p...)
}

func (a arrayCFrame) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].rotationFromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	length := len(a) * zVector3
	if len(b[n:]) < length {
		return n, buflenError{typ: typeCFrame, exp: uint64(n + length), got: len(b)}
	}
	p := make([]byte, length)
	copy(p, b[n:])
	if err := deinterleave(p, zVector3); err != nil {
		return n, err
	}
	for i := range a {
		a[i].Position.FromBytes(p[i*zVector3:])
	}
	return n + length, nil
}

////////////////////////////////////////////////////////////////

type arrayToken []valueToken

func (arrayToken) Type() typeID {
	return typeToken
}

func (a arrayToken) Len() int {
	return len(a)
}

func (arrayToken) Interleaved() {}

func (a arrayToken) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayToken) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

// nilInstance is the referent of an absent instance.
const nilInstance = -1

type arrayReference []valueReference

func (arrayReference) Type() typeID {
	return typeReference
}

func (a arrayReference) Len() int {
	return len(a)
}

func (arrayReference) Interleaved() {}

// Bytes encodes each referent as the difference from the previous referent.
func (a arrayReference) Bytes(b []byte) []byte {
	if len(a) == 0 {
		return b
	}
	prev := a[0]
	b = prev.Bytes(b)
	for i := 1; i < len(a); i++ {
		b = (a[i] - prev).Bytes(b)
		prev = a[i]
	}
	return b
}

func (a arrayReference) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		if i > 0 {
			a[i] += a[i-1]
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayVector3int16 []valueVector3int16

func (arrayVector3int16) Type() typeID {
	return typeVector3int16
}

func (a arrayVector3int16) Len() int {
	return len(a)
}

func (a arrayVector3int16) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayVector3int16) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayNumberSequence []valueNumberSequence

func (arrayNumberSequence) Type() typeID {
	return typeNumberSequence
}

func (a arrayNumberSequence) Len() int {
	return len(a)
}

func (a arrayNumberSequence) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayNumberSequence) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayColorSequence []valueColorSequence

func (arrayColorSequence) Type() typeID {
	return typeColorSequence
}

func (a arrayColorSequence) Len() int {
	return len(a)
}

func (a arrayColorSequence) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayColorSequence) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayNumberRange []valueNumberRange

func (arrayNumberRange) Type() typeID {
	return typeNumberRange
}

func (a arrayNumberRange) Len() int {
	return len(a)
}

func (a arrayNumberRange) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayNumberRange) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayRect []valueRect

func (arrayRect) Type() typeID {
	return typeRect
}

func (a arrayRect) Len() int {
	return len(a)
}

func (arrayRect) Interleaved() {}

func (a arrayRect) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayRect) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayPhysicalProperties []valuePhysicalProperties

func (arrayPhysicalProperties) Type() typeID {
	return typePhysicalProperties
}

func (a arrayPhysicalProperties) Len() int {
	return len(a)
}

func (a arrayPhysicalProperties) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayPhysicalProperties) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayColor3uint8 []valueColor3uint8

func (arrayColor3uint8) Type() typeID {
	return typeColor3uint8
}

func (a arrayColor3uint8) Len() int {
	return len(a)
}

func (arrayColor3uint8) Interleaved() {}

func (a arrayColor3uint8) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayColor3uint8) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayInt64 []valueInt64

func (arrayInt64) Type() typeID {
	return typeInt64
}

func (a arrayInt64) Len() int {
	return len(a)
}

func (arrayInt64) Interleaved() {}

func (a arrayInt64) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arrayInt64) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arraySharedString []valueSharedString

func (arraySharedString) Type() typeID {
	return typeSharedString
}

func (a arraySharedString) Len() int {
	return len(a)
}

func (arraySharedString) Interleaved() {}

func (a arraySharedString) Bytes(b []byte) []byte {
	for _, v := range a {
		b = v.Bytes(b)
	}
	return b
}

func (a arraySharedString) FromBytes(b []byte) (n int, err error) {
	for i := range a {
		nn, err := a[i].FromBytes(b[n:])
		if err != nil {
			return n, err
		}
		n += nn
	}
	return n, nil
}

////////////////////////////////////////////////////////////////

type arrayOptionalCFrame []valueOptionalCFrame

func (arrayOptionalCFrame) Type() typeID {
	return typeOptionalCFrame
}

func (a arrayOptionalCFrame) Len() int {
	return len(a)
}

// Bytes encodes a tag indicating the inner type, the CFrame encoding of each
// value, then one presence byte per value.
func (a arrayOptionalCFrame) Bytes(b []byte) []byte {
	b = append(b, byte(typeCFrame))
	cfs := make(arrayCFrame, len(a))
	for i, v := range a {
		cfs[i] = v.CFrame
	}
	b = cfs.Bytes(b)
	for _, v := range a {
		if v.Present {
			b = append(b, 1)
		} else {
			b = append(b, 0)
		}
	}
	return b
}

func (a arrayOptionalCFrame) FromBytes(b []byte) (n int, err error) {
	if len(b) < zb {
		return 0, buflenError{typ: typeOptionalCFrame, exp: zb, got: len(b)}
	}
	if typeID(b[0]) != typeCFrame {
		return 0, ValueError{Type: b[0], Cause: errors.New("expected CFrame type tag")}
	}
	n = zb
	cfs := make(arrayCFrame, len(a))
	nn, err := cfs.FromBytes(b[n:])
	if err != nil {
		return n, err
	}
	n += nn
	if len(b[n:]) < len(a) {
		return n, buflenError{typ: typeOptionalCFrame, exp: uint64(n + len(a)), got: len(b)}
	}
	for i := range a {
		a[i].CFrame = cfs[i]
		a[i].Present = b[n+i] != 0
	}
	return n + len(a), nil
}
