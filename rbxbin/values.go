package rbxbin

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/robloxapi/rbxm"
)

var le = binary.LittleEndian
var be = binary.BigEndian

func appendUint16(b []byte, order binary.ByteOrder, v uint16) []byte {
	var a [2]byte
	order.PutUint16(a[:], v)
	return append(b, a[:]...)
}

func appendUint32(b []byte, order binary.ByteOrder, v uint32) []byte {
	var a [4]byte
	order.PutUint32(a[:], v)
	return append(b, a[:]...)
}

func appendUint64(b []byte, order binary.ByteOrder, v uint64) []byte {
	var a [8]byte
	order.PutUint64(a[:], v)
	return append(b, a[:]...)
}

////////////////////////////////////////////////////////////////

// Zigzag encoding maps signed integers onto unsigned integers such that
// values with a small magnitude have a small encoding.

func encodeZigzag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

func decodeZigzag32(n uint32) int32 {
	return int32((n >> 1) ^ uint32((int32(n&1)<<31)>>31))
}

func encodeZigzag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

func decodeZigzag64(n uint64) int64 {
	return int64((n >> 1) ^ uint64((int64(n&1)<<63)>>63))
}

// Roblox floats rotate the sign bit to the low end so that the exponent
// leads, which improves interleaved compression.

func encodeRobloxFloat(f float32) uint32 {
	n := math.Float32bits(f)
	return (n << 1) | (n >> 31)
}

func decodeRobloxFloat(n uint32) float32 {
	f := (n >> 1) | (n << 31)
	return math.Float32frombits(f)
}

////////////////////////////////////////////////////////////////

// Byte sizes of value components.
const (
	zb   = 1
	zi16 = 2
	zu32 = 4
	zf32 = 4
	zf64 = 8
	zu64 = 8

	zArrayLen = 4

	// Indicates a value with a size that varies per value.
	zVar = -1

	// Indicates an invalid value.
	zInvalid = 0

	zCFrameSp = zb
	zCFrameRo = 9 * zf32
	zVector3  = 3 * zf32
)

////////////////////////////////////////////////////////////////

// typeID is a value type as it appears in the format.
type typeID byte

const (
	typeInvalid            typeID = 0x00
	typeString             typeID = 0x01
	typeBool               typeID = 0x02
	typeInt                typeID = 0x03
	typeFloat              typeID = 0x04
	typeDouble             typeID = 0x05
	typeUDim               typeID = 0x06
	typeUDim2              typeID = 0x07
	typeRay                typeID = 0x08
	typeFaces              typeID = 0x09
	typeAxes               typeID = 0x0A
	typeBrickColor         typeID = 0x0B
	typeColor3             typeID = 0x0C
	typeVector2            typeID = 0x0D
	typeVector3            typeID = 0x0E
	typeVector2int16       typeID = 0x0F
	typeCFrame             typeID = 0x10
	typeToken              typeID = 0x12
	typeReference          typeID = 0x13
	typeVector3int16       typeID = 0x14
	typeNumberSequence     typeID = 0x15
	typeColorSequence      typeID = 0x16
	typeNumberRange        typeID = 0x17
	typeRect               typeID = 0x18
	typePhysicalProperties typeID = 0x19
	typeColor3uint8        typeID = 0x1A
	typeInt64              typeID = 0x1B
	typeSharedString       typeID = 0x1C
	typeOptionalCFrame     typeID = 0x1E
)

// Valid returns whether the type has a format definition. Types are not
// contiguous, so the ID must be matched explicitly.
func (t typeID) Valid() bool {
	switch t {
	case typeString,
		typeBool,
		typeInt,
		typeFloat,
		typeDouble,
		typeUDim,
		typeUDim2,
		typeRay,
		typeFaces,
		typeAxes,
		typeBrickColor,
		typeColor3,
		typeVector2,
		typeVector3,
		typeVector2int16,
		typeCFrame,
		typeToken,
		typeReference,
		typeVector3int16,
		typeNumberSequence,
		typeColorSequence,
		typeNumberRange,
		typeRect,
		typePhysicalProperties,
		typeColor3uint8,
		typeInt64,
		typeSharedString,
		typeOptionalCFrame:
		return true
	}
	return false
}

// Size returns the number of bytes used to encode one value of the type, or
// zVar if the size varies per value.
func (t typeID) Size() int {
	switch t {
	case typeBool:
		return zb
	case typeInt:
		return zu32
	case typeFloat:
		return zf32
	case typeDouble:
		return zf64
	case typeUDim:
		return zf32 + zu32
	case typeUDim2:
		return 2*zf32 + 2*zu32
	case typeRay:
		return 6 * zf32
	case typeFaces:
		return zb
	case typeAxes:
		return zb
	case typeBrickColor:
		return zu32
	case typeColor3:
		return 3 * zf32
	case typeVector2:
		return 2 * zf32
	case typeVector3:
		return 3 * zf32
	case typeVector2int16:
		return 2 * zi16
	case typeToken:
		return zu32
	case typeReference:
		return zu32
	case typeVector3int16:
		return 3 * zi16
	case typeNumberRange:
		return 2 * zf32
	case typeRect:
		return 4 * zf32
	case typeColor3uint8:
		return 3 * zb
	case typeInt64:
		return zu64
	case typeSharedString:
		return zu32
	case typeString,
		typeCFrame,
		typeNumberSequence,
		typeColorSequence,
		typePhysicalProperties,
		typeOptionalCFrame:
		return zVar
	}
	return zInvalid
}

func (t typeID) String() string {
	switch t {
	case typeString:
		return "String"
	case typeBool:
		return "Bool"
	case typeInt:
		return "Int"
	case typeFloat:
		return "Float"
	case typeDouble:
		return "Double"
	case typeUDim:
		return "UDim"
	case typeUDim2:
		return "UDim2"
	case typeRay:
		return "Ray"
	case typeFaces:
		return "Faces"
	case typeAxes:
		return "Axes"
	case typeBrickColor:
		return "BrickColor"
	case typeColor3:
		return "Color3"
	case typeVector2:
		return "Vector2"
	case typeVector3:
		return "Vector3"
	case typeVector2int16:
		return "Vector2int16"
	case typeCFrame:
		return "CFrame"
	case typeToken:
		return "Token"
	case typeReference:
		return "Reference"
	case typeVector3int16:
		return "Vector3int16"
	case typeNumberSequence:
		return "NumberSequence"
	case typeColorSequence:
		return "ColorSequence"
	case typeNumberRange:
		return "NumberRange"
	case typeRect:
		return "Rect"
	case typePhysicalProperties:
		return "PhysicalProperties"
	case typeColor3uint8:
		return "Color3uint8"
	case typeInt64:
		return "Int64"
	case typeSharedString:
		return "SharedString"
	case typeOptionalCFrame:
		return "OptionalCFrame"
	}
	return fmt.Sprintf("0x%02X", byte(t))
}

// ValueType returns the rbxm.Type that corresponds to the type.
func (t typeID) ValueType() rbxm.Type {
	switch t {
	case typeString:
		return rbxm.TypeString
	case typeBool:
		return rbxm.TypeBool
	case typeInt:
		return rbxm.TypeInt
	case typeFloat:
		return rbxm.TypeFloat
	case typeDouble:
		return rbxm.TypeDouble
	case typeUDim:
		return rbxm.TypeUDim
	case typeUDim2:
		return rbxm.TypeUDim2
	case typeRay:
		return rbxm.TypeRay
	case typeFaces:
		return rbxm.TypeFaces
	case typeAxes:
		return rbxm.TypeAxes
	case typeBrickColor:
		return rbxm.TypeBrickColor
	case typeColor3:
		return rbxm.TypeColor3
	case typeVector2:
		return rbxm.TypeVector2
	case typeVector3:
		return rbxm.TypeVector3
	case typeVector2int16:
		return rbxm.TypeVector2int16
	case typeCFrame:
		return rbxm.TypeCFrame
	case typeToken:
		return rbxm.TypeToken
	case typeReference:
		return rbxm.TypeReference
	case typeVector3int16:
		return rbxm.TypeVector3int16
	case typeNumberSequence:
		return rbxm.TypeNumberSequence
	case typeColorSequence:
		return rbxm.TypeColorSequence
	case typeNumberRange:
		return rbxm.TypeNumberRange
	case typeRect:
		return rbxm.TypeRect
	case typePhysicalProperties:
		return rbxm.TypePhysicalProperties
	case typeColor3uint8:
		return rbxm.TypeColor3uint8
	case typeInt64:
		return rbxm.TypeInt64
	case typeSharedString:
		return rbxm.TypeSharedString
	case typeOptionalCFrame:
		return rbxm.TypeOptional
	}
	return rbxm.TypeInvalid
}

// fromValueType returns the typeID that corresponds to a rbxm.Type. String
// variants all map onto the String type.
func fromValueType(t rbxm.Type) typeID {
	switch t {
	case rbxm.TypeString,
		rbxm.TypeBinaryString,
		rbxm.TypeProtectedString,
		rbxm.TypeContent:
		return typeString
	case rbxm.TypeBool:
		return typeBool
	case rbxm.TypeInt:
		return typeInt
	case rbxm.TypeFloat:
		return typeFloat
	case rbxm.TypeDouble:
		return typeDouble
	case rbxm.TypeUDim:
		return typeUDim
	case rbxm.TypeUDim2:
		return typeUDim2
	case rbxm.TypeRay:
		return typeRay
	case rbxm.TypeFaces:
		return typeFaces
	case rbxm.TypeAxes:
		return typeAxes
	case rbxm.TypeBrickColor:
		return typeBrickColor
	case rbxm.TypeColor3:
		return typeColor3
	case rbxm.TypeVector2:
		return typeVector2
	case rbxm.TypeVector3:
		return typeVector3
	case rbxm.TypeVector2int16:
		return typeVector2int16
	case rbxm.TypeCFrame:
		return typeCFrame
	case rbxm.TypeToken:
		return typeToken
	case rbxm.TypeReference:
		return typeReference
	case rbxm.TypeVector3int16:
		return typeVector3int16
	case rbxm.TypeNumberSequence:
		return typeNumberSequence
	case rbxm.TypeColorSequence:
		return typeColorSequence
	case rbxm.TypeNumberRange:
		return typeNumberRange
	case rbxm.TypeRect:
		return typeRect
	case rbxm.TypePhysicalProperties:
		return typePhysicalProperties
	case rbxm.TypeColor3uint8:
		return typeColor3uint8
	case rbxm.TypeInt64:
		return typeInt64
	case rbxm.TypeSharedString:
		return typeSharedString
	case rbxm.TypeOptional:
		return typeOptionalCFrame
	}
	return typeInvalid
}

////////////////////////////////////////////////////////////////

// value is a value that can be serialized as a component of a property
// array.
type value interface {
	// Type returns an identifier indicating the type.
	Type() typeID

	// Bytes appends the encoding of the value to b.
	Bytes(b []byte) []byte

	// FromBytes decodes the value from the front of b, returning the number
	// of bytes read.
	FromBytes(b []byte) (n int, err error)
}

// newValue returns a value of the given type. Returns nil if the type is
// invalid.
func newValue(t typeID) value {
	switch t {
	case typeString:
		return new(valueString)
	case typeBool:
		return new(valueBool)
	case typeInt:
		return new(valueInt)
	case typeFloat:
		return new(valueFloat)
	case typeDouble:
		return new(valueDouble)
	case typeUDim:
		return new(valueUDim)
	case typeUDim2:
		return new(valueUDim2)
	case typeRay:
		return new(valueRay)
	case typeFaces:
		return new(valueFaces)
	case typeAxes:
		return new(valueAxes)
	case typeBrickColor:
		return new(valueBrickColor)
	case typeColor3:
		return new(valueColor3)
	case typeVector2:
		return new(valueVector2)
	case typeVector3:
		return new(valueVector3)
	case typeVector2int16:
		return new(valueVector2int16)
	case typeCFrame:
		return new(valueCFrame)
	case typeToken:
		return new(valueToken)
	case typeReference:
		return new(valueReference)
	case typeVector3int16:
		return new(valueVector3int16)
	case typeNumberSequence:
		return new(valueNumberSequence)
	case typeColorSequence:
		return new(valueColorSequence)
	case typeNumberRange:
		return new(valueNumberRange)
	case typeRect:
		return new(valueRect)
	case typePhysicalProperties:
		return new(valuePhysicalProperties)
	case typeColor3uint8:
		return new(valueColor3uint8)
	case typeInt64:
		return new(valueInt64)
	case typeSharedString:
		return new(valueSharedString)
	case typeOptionalCFrame:
		return new(valueOptionalCFrame)
	}
	return nil
}

////////////////////////////////////////////////////////////////

type buflenError struct {
	typ typeID
	exp uint64
	got int
}

func (err buflenError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", err.typ, err.exp, err.got)
}

// checklen does a basic check of the buffer's length against the expected
// size of a fixed-size value.
func checklen(v value, b []byte) error {
	if len(b) < v.Type().Size() {
		return buflenError{
			typ: v.Type(),
			exp: uint64(v.Type().Size()),
			got: len(b),
		}
	}
	return nil
}

// checkvarlen reads a length prefix from the front of the buffer, then checks
// that the buffer can hold size bytes per element. Returns the buffer
// following the prefix, and the number of elements.
func checkvarlen(v value, b []byte, size int) ([]byte, int, error) {
	if len(b) < zArrayLen {
		return b, 0, buflenError{typ: v.Type(), exp: zArrayLen, got: len(b)}
	}
	length := le.Uint32(b)
	if n := uint64(zArrayLen) + uint64(length)*uint64(size); uint64(len(b)) < n {
		return b, 0, buflenError{typ: v.Type(), exp: n, got: len(b)}
	}
	return b[zArrayLen:], int(length), nil
}

////////////////////////////////////////////////////////////////

type valueString []byte

func (valueString) Type() typeID {
	return typeString
}

func (v valueString) Bytes(b []byte) []byte {
	b = appendUint32(b, le, uint32(len(v)))
	return append(b, v...)
}

func (v *valueString) FromBytes(b []byte) (n int, err error) {
	b, length, err := checkvarlen(v, b, zb)
	if err != nil {
		return 0, err
	}
	*v = make(valueString, length)
	copy(*v, b)
	return zArrayLen + length, nil
}

////////////////////////////////////////////////////////////////

type valueBool bool

func (valueBool) Type() typeID {
	return typeBool
}

func (v valueBool) Bytes(b []byte) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func (v *valueBool) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = b[0] != 0
	return zb, nil
}

////////////////////////////////////////////////////////////////

type valueInt int32

func (valueInt) Type() typeID {
	return typeInt
}

func (v valueInt) Bytes(b []byte) []byte {
	return appendUint32(b, be, encodeZigzag32(int32(v)))
}

func (v *valueInt) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueInt(decodeZigzag32(be.Uint32(b)))
	return zu32, nil
}

////////////////////////////////////////////////////////////////

type valueFloat float32

func (valueFloat) Type() typeID {
	return typeFloat
}

func (v valueFloat) Bytes(b []byte) []byte {
	return appendUint32(b, be, encodeRobloxFloat(float32(v)))
}

func (v *valueFloat) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueFloat(decodeRobloxFloat(be.Uint32(b)))
	return zf32, nil
}

////////////////////////////////////////////////////////////////

type valueDouble float64

func (valueDouble) Type() typeID {
	return typeDouble
}

func (v valueDouble) Bytes(b []byte) []byte {
	return appendUint64(b, le, math.Float64bits(float64(v)))
}

func (v *valueDouble) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueDouble(math.Float64frombits(le.Uint64(b)))
	return zf64, nil
}

////////////////////////////////////////////////////////////////

type valueUDim struct {
	Scale  valueFloat
	Offset valueInt
}

func (valueUDim) Type() typeID {
	return typeUDim
}

func (v valueUDim) Bytes(b []byte) []byte {
	b = v.Scale.Bytes(b)
	b = v.Offset.Bytes(b)
	return b
}

func (v *valueUDim) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.Scale.FromBytes(b[0:4])
	v.Offset.FromBytes(b[4:8])
	return zf32 + zu32, nil
}

////////////////////////////////////////////////////////////////

type valueUDim2 struct {
	ScaleX  valueFloat
	ScaleY  valueFloat
	OffsetX valueInt
	OffsetY valueInt
}

func (valueUDim2) Type() typeID {
	return typeUDim2
}

func (v valueUDim2) Bytes(b []byte) []byte {
	b = v.ScaleX.Bytes(b)
	b = v.ScaleY.Bytes(b)
	b = v.OffsetX.Bytes(b)
	b = v.OffsetY.Bytes(b)
	return b
}

func (v *valueUDim2) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.ScaleX.FromBytes(b[0:4])
	v.ScaleY.FromBytes(b[4:8])
	v.OffsetX.FromBytes(b[8:12])
	v.OffsetY.FromBytes(b[12:16])
	return 2*zf32 + 2*zu32, nil
}

////////////////////////////////////////////////////////////////

type valueRay struct {
	OriginX    float32
	OriginY    float32
	OriginZ    float32
	DirectionX float32
	DirectionY float32
	DirectionZ float32
}

func (valueRay) Type() typeID {
	return typeRay
}

func (v valueRay) Bytes(b []byte) []byte {
	b = appendUint32(b, le, math.Float32bits(v.OriginX))
	b = appendUint32(b, le, math.Float32bits(v.OriginY))
	b = appendUint32(b, le, math.Float32bits(v.OriginZ))
	b = appendUint32(b, le, math.Float32bits(v.DirectionX))
	b = appendUint32(b, le, math.Float32bits(v.DirectionY))
	b = appendUint32(b, le, math.Float32bits(v.DirectionZ))
	return b
}

func (v *valueRay) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.OriginX = math.Float32frombits(le.Uint32(b[0:4]))
	v.OriginY = math.Float32frombits(le.Uint32(b[4:8]))
	v.OriginZ = math.Float32frombits(le.Uint32(b[8:12]))
	v.DirectionX = math.Float32frombits(le.Uint32(b[12:16]))
	v.DirectionY = math.Float32frombits(le.Uint32(b[16:20]))
	v.DirectionZ = math.Float32frombits(le.Uint32(b[20:24]))
	return 6 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valueFaces struct {
	Right, Top, Back, Left, Bottom, Front bool
}

func (valueFaces) Type() typeID {
	return typeFaces
}

func (v valueFaces) Bytes(b []byte) []byte {
	var f byte
	if v.Right {
		f |= 1 << 0
	}
	if v.Top {
		f |= 1 << 1
	}
	if v.Back {
		f |= 1 << 2
	}
	if v.Left {
		f |= 1 << 3
	}
	if v.Bottom {
		f |= 1 << 4
	}
	if v.Front {
		f |= 1 << 5
	}
	return append(b, f)
}

func (v *valueFaces) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.Right = b[0]&(1<<0) != 0
	v.Top = b[0]&(1<<1) != 0
	v.Back = b[0]&(1<<2) != 0
	v.Left = b[0]&(1<<3) != 0
	v.Bottom = b[0]&(1<<4) != 0
	v.Front = b[0]&(1<<5) != 0
	return zb, nil
}

////////////////////////////////////////////////////////////////

type valueAxes struct {
	X, Y, Z bool
}

func (valueAxes) Type() typeID {
	return typeAxes
}

func (v valueAxes) Bytes(b []byte) []byte {
	var a byte
	if v.X {
		a |= 1 << 0
	}
	if v.Y {
		a |= 1 << 1
	}
	if v.Z {
		a |= 1 << 2
	}
	return append(b, a)
}

func (v *valueAxes) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.X = b[0]&(1<<0) != 0
	v.Y = b[0]&(1<<1) != 0
	v.Z = b[0]&(1<<2) != 0
	return zb, nil
}

////////////////////////////////////////////////////////////////

type valueBrickColor int32

func (valueBrickColor) Type() typeID {
	return typeBrickColor
}

func (v valueBrickColor) Bytes(b []byte) []byte {
	return appendUint32(b, be, encodeZigzag32(int32(v)))
}

func (v *valueBrickColor) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueBrickColor(decodeZigzag32(be.Uint32(b)))
	return zu32, nil
}

////////////////////////////////////////////////////////////////

type valueColor3 struct {
	R, G, B valueFloat
}

func (valueColor3) Type() typeID {
	return typeColor3
}

func (v valueColor3) Bytes(b []byte) []byte {
	b = v.R.Bytes(b)
	b = v.G.Bytes(b)
	b = v.B.Bytes(b)
	return b
}

func (v *valueColor3) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.R.FromBytes(b[0:4])
	v.G.FromBytes(b[4:8])
	v.B.FromBytes(b[8:12])
	return 3 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valueVector2 struct {
	X, Y valueFloat
}

func (valueVector2) Type() typeID {
	return typeVector2
}

func (v valueVector2) Bytes(b []byte) []byte {
	b = v.X.Bytes(b)
	b = v.Y.Bytes(b)
	return b
}

func (v *valueVector2) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.X.FromBytes(b[0:4])
	v.Y.FromBytes(b[4:8])
	return 2 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valueVector3 struct {
	X, Y, Z valueFloat
}

func (valueVector3) Type() typeID {
	return typeVector3
}

func (v valueVector3) Bytes(b []byte) []byte {
	b = v.X.Bytes(b)
	b = v.Y.Bytes(b)
	b = v.Z.Bytes(b)
	return b
}

func (v *valueVector3) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.X.FromBytes(b[0:4])
	v.Y.FromBytes(b[4:8])
	v.Z.FromBytes(b[8:12])
	return 3 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valueVector2int16 struct {
	X, Y int16
}

func (valueVector2int16) Type() typeID {
	return typeVector2int16
}

func (v valueVector2int16) Bytes(b []byte) []byte {
	b = appendUint16(b, le, uint16(v.X))
	b = appendUint16(b, le, uint16(v.Y))
	return b
}

func (v *valueVector2int16) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.X = int16(le.Uint16(b[0:2]))
	v.Y = int16(le.Uint16(b[2:4]))
	return 2 * zi16, nil
}

////////////////////////////////////////////////////////////////

type valueCFrame struct {
	Special  uint8
	Rotation [9]float32
	Position valueVector3
}

func (valueCFrame) Type() typeID {
	return typeCFrame
}

// Bytes encodes the rotation and position of the value. If Special is
// nonzero, it is written instead of the rotation.
func (v valueCFrame) Bytes(b []byte) []byte {
	b = append(b, v.Special)
	if v.Special == 0 {
		for _, f := range v.Rotation {
			b = appendUint32(b, le, math.Float32bits(f))
		}
	}
	b = v.Position.Bytes(b)
	return b
}

// rotationBytes encodes only the rotation of the value. Used when positions
// are encoded interleaved, at the end of the array.
func (v valueCFrame) rotationBytes(b []byte) []byte {
	b = append(b, v.Special)
	if v.Special == 0 {
		for _, f := range v.Rotation {
			b = appendUint32(b, le, math.Float32bits(f))
		}
	}
	return b
}

func (v *valueCFrame) FromBytes(b []byte) (n int, err error) {
	n, err = v.rotationFromBytes(b)
	if err != nil {
		return n, err
	}
	if len(b[n:]) < zVector3 {
		return n, buflenError{typ: v.Type(), exp: uint64(n + zVector3), got: len(b)}
	}
	v.Position.FromBytes(b[n:])
	return n + zVector3, nil
}

// rotationFromBytes decodes only the rotation component of the value.
func (v *valueCFrame) rotationFromBytes(b []byte) (n int, err error) {
	if len(b) < zCFrameSp {
		return 0, buflenError{typ: v.Type(), exp: zCFrameSp, got: len(b)}
	}
	v.Special = b[0]
	if v.Special == 0 {
		if len(b) < zCFrameSp+zCFrameRo {
			return zCFrameSp, buflenError{typ: v.Type(), exp: zCFrameSp + zCFrameRo, got: len(b)}
		}
		for i := range v.Rotation {
			v.Rotation[i] = math.Float32frombits(le.Uint32(b[zCFrameSp+i*zf32:]))
		}
		return zCFrameSp + zCFrameRo, nil
	}
	// Rotation is zeroed rather than resolved to the matrix indicated by
	// Special.
	v.Rotation = [9]float32{}
	return zCFrameSp, nil
}

////////////////////////////////////////////////////////////////

type valueToken uint32

func (valueToken) Type() typeID {
	return typeToken
}

func (v valueToken) Bytes(b []byte) []byte {
	return appendUint32(b, be, encodeZigzag32(int32(v)))
}

func (v *valueToken) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueToken(decodeZigzag32(be.Uint32(b)))
	return zu32, nil
}

////////////////////////////////////////////////////////////////

type valueReference int32

func (valueReference) Type() typeID {
	return typeReference
}

func (v valueReference) Bytes(b []byte) []byte {
	return appendUint32(b, be, encodeZigzag32(int32(v)))
}

func (v *valueReference) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueReference(decodeZigzag32(be.Uint32(b)))
	return zu32, nil
}

////////////////////////////////////////////////////////////////

type valueVector3int16 struct {
	X, Y, Z int16
}

func (valueVector3int16) Type() typeID {
	return typeVector3int16
}

func (v valueVector3int16) Bytes(b []byte) []byte {
	b = appendUint16(b, le, uint16(v.X))
	b = appendUint16(b, le, uint16(v.Y))
	b = appendUint16(b, le, uint16(v.Z))
	return b
}

func (v *valueVector3int16) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.X = int16(le.Uint16(b[0:2]))
	v.Y = int16(le.Uint16(b[2:4]))
	v.Z = int16(le.Uint16(b[4:6]))
	return 3 * zi16, nil
}

////////////////////////////////////////////////////////////////

type valueNumberSequenceKeypoint struct {
	Time     float32
	Value    float32
	Envelope float32
}

type valueNumberSequence []valueNumberSequenceKeypoint

func (valueNumberSequence) Type() typeID {
	return typeNumberSequence
}

func (v valueNumberSequence) Bytes(b []byte) []byte {
	b = appendUint32(b, le, uint32(len(v)))
	for _, nsk := range v {
		b = appendUint32(b, le, math.Float32bits(nsk.Time))
		b = appendUint32(b, le, math.Float32bits(nsk.Value))
		b = appendUint32(b, le, math.Float32bits(nsk.Envelope))
	}
	return b
}

func (v *valueNumberSequence) FromBytes(b []byte) (n int, err error) {
	const size = 3 * zf32
	b, length, err := checkvarlen(v, b, size)
	if err != nil {
		return 0, err
	}
	a := make(valueNumberSequence, length)
	for i := 0; i < length; i++ {
		kb := b[i*size:]
		a[i] = valueNumberSequenceKeypoint{
			Time:     math.Float32frombits(le.Uint32(kb[0:4])),
			Value:    math.Float32frombits(le.Uint32(kb[4:8])),
			Envelope: math.Float32frombits(le.Uint32(kb[8:12])),
		}
	}
	*v = a
	return zArrayLen + length*size, nil
}

////////////////////////////////////////////////////////////////

type valueColorSequenceKeypoint struct {
	Time     float32
	R, G, B  float32
	Envelope float32
}

type valueColorSequence []valueColorSequenceKeypoint

func (valueColorSequence) Type() typeID {
	return typeColorSequence
}

func (v valueColorSequence) Bytes(b []byte) []byte {
	b = appendUint32(b, le, uint32(len(v)))
	for _, csk := range v {
		b = appendUint32(b, le, math.Float32bits(csk.Time))
		b = appendUint32(b, le, math.Float32bits(csk.R))
		b = appendUint32(b, le, math.Float32bits(csk.G))
		b = appendUint32(b, le, math.Float32bits(csk.B))
		b = appendUint32(b, le, math.Float32bits(csk.Envelope))
	}
	return b
}

func (v *valueColorSequence) FromBytes(b []byte) (n int, err error) {
	const size = 5 * zf32
	b, length, err := checkvarlen(v, b, size)
	if err != nil {
		return 0, err
	}
	a := make(valueColorSequence, length)
	for i := 0; i < length; i++ {
		kb := b[i*size:]
		a[i] = valueColorSequenceKeypoint{
			Time:     math.Float32frombits(le.Uint32(kb[0:4])),
			R:        math.Float32frombits(le.Uint32(kb[4:8])),
			G:        math.Float32frombits(le.Uint32(kb[8:12])),
			B:        math.Float32frombits(le.Uint32(kb[12:16])),
			Envelope: math.Float32frombits(le.Uint32(kb[16:20])),
		}
	}
	*v = a
	return zArrayLen + length*size, nil
}

////////////////////////////////////////////////////////////////

type valueNumberRange struct {
	Min, Max float32
}

func (valueNumberRange) Type() typeID {
	return typeNumberRange
}

func (v valueNumberRange) Bytes(b []byte) []byte {
	b = appendUint32(b, le, math.Float32bits(v.Min))
	b = appendUint32(b, le, math.Float32bits(v.Max))
	return b
}

func (v *valueNumberRange) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.Min = math.Float32frombits(le.Uint32(b[0:4]))
	v.Max = math.Float32frombits(le.Uint32(b[4:8]))
	return 2 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valueRect struct {
	Min, Max valueVector2
}

func (valueRect) Type() typeID {
	return typeRect
}

func (v valueRect) Bytes(b []byte) []byte {
	b = v.Min.Bytes(b)
	b = v.Max.Bytes(b)
	return b
}

func (v *valueRect) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.Min.FromBytes(b[0:8])
	v.Max.FromBytes(b[8:16])
	return 4 * zf32, nil
}

////////////////////////////////////////////////////////////////

type valuePhysicalProperties struct {
	CustomPhysics    byte
	Density          float32
	Friction         float32
	Elasticity       float32
	FrictionWeight   float32
	ElasticityWeight float32
	CrossFriction    float32
	CrossElasticity  float32
}

func (valuePhysicalProperties) Type() typeID {
	return typePhysicalProperties
}

// Bytes writes the flag byte, followed by the fields only when custom
// physics is enabled.
func (v valuePhysicalProperties) Bytes(b []byte) []byte {
	if v.CustomPhysics == 0 {
		return append(b, 0)
	}
	b = append(b, 1)
	b = appendUint32(b, le, math.Float32bits(v.Density))
	b = appendUint32(b, le, math.Float32bits(v.Friction))
	b = appendUint32(b, le, math.Float32bits(v.Elasticity))
	b = appendUint32(b, le, math.Float32bits(v.FrictionWeight))
	b = appendUint32(b, le, math.Float32bits(v.ElasticityWeight))
	b = appendUint32(b, le, math.Float32bits(v.CrossFriction))
	b = appendUint32(b, le, math.Float32bits(v.CrossElasticity))
	return b
}

func (v *valuePhysicalProperties) FromBytes(b []byte) (n int, err error) {
	const fields = 7 * zf32
	if len(b) < zb {
		return 0, buflenError{typ: v.Type(), exp: zb, got: len(b)}
	}
	v.CustomPhysics = b[0]
	if v.CustomPhysics == 0 {
		*v = valuePhysicalProperties{}
		return zb, nil
	}
	if len(b) < zb+fields {
		return zb, buflenError{typ: v.Type(), exp: zb + fields, got: len(b)}
	}
	v.Density = math.Float32frombits(le.Uint32(b[1:5]))
	v.Friction = math.Float32frombits(le.Uint32(b[5:9]))
	v.Elasticity = math.Float32frombits(le.Uint32(b[9:13]))
	v.FrictionWeight = math.Float32frombits(le.Uint32(b[13:17]))
	v.ElasticityWeight = math.Float32frombits(le.Uint32(b[17:21]))
	v.CrossFriction = math.Float32frombits(le.Uint32(b[21:25]))
	v.CrossElasticity = math.Float32frombits(le.Uint32(b[25:29]))
	return zb + fields, nil
}

////////////////////////////////////////////////////////////////

type valueColor3uint8 struct {
	R, G, B byte
}

func (valueColor3uint8) Type() typeID {
	return typeColor3uint8
}

func (v valueColor3uint8) Bytes(b []byte) []byte {
	return append(b, v.R, v.G, v.B)
}

func (v *valueColor3uint8) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	v.R = b[0]
	v.G = b[1]
	v.B = b[2]
	return 3 * zb, nil
}

////////////////////////////////////////////////////////////////

type valueInt64 int64

func (valueInt64) Type() typeID {
	return typeInt64
}

func (v valueInt64) Bytes(b []byte) []byte {
	return appendUint64(b, be, encodeZigzag64(int64(v)))
}

func (v *valueInt64) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueInt64(decodeZigzag64(be.Uint64(b)))
	return zu64, nil
}

////////////////////////////////////////////////////////////////

// valueSharedString is an index into the string table of a shared string
// chunk.
type valueSharedString uint32

func (valueSharedString) Type() typeID {
	return typeSharedString
}

func (v valueSharedString) Bytes(b []byte) []byte {
	return appendUint32(b, be, uint32(v))
}

func (v *valueSharedString) FromBytes(b []byte) (n int, err error) {
	if err = checklen(v, b); err != nil {
		return 0, err
	}
	*v = valueSharedString(be.Uint32(b))
	return zu32, nil
}

////////////////////////////////////////////////////////////////

// valueOptionalCFrame is a CFrame that may be absent. Serialized only within
// an OptionalCFrame array, which carries the presence bytes separately.
type valueOptionalCFrame struct {
	CFrame  valueCFrame
	Present bool
}

func (valueOptionalCFrame) Type() typeID {
	return typeOptionalCFrame
}

func (v valueOptionalCFrame) Bytes(b []byte) []byte {
	return v.CFrame.Bytes(b)
}

func (v *valueOptionalCFrame) FromBytes(b []byte) (n int, err error) {
	return v.CFrame.FromBytes(b)
}
