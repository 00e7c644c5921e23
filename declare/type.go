package declare

import (
	"strings"

	"github.com/robloxapi/rbxm"
)

// Type corresponds to a rbxm.Type.
type Type byte

// String returns a string representation of the type. If the type is not
// valid, then the returned value will be "Invalid".
func (t Type) String() string {
	s, ok := typeStrings[t]
	if !ok {
		return "Invalid"
	}
	return s
}

const (
	_ Type = iota
	String
	BinaryString
	ProtectedString
	Content
	Bool
	Int
	Float
	Double
	UDim
	UDim2
	Ray
	Faces
	Axes
	BrickColor
	Color3
	Vector2
	Vector3
	CFrame
	Token
	Reference
	Vector3int16
	Vector2int16
	NumberSequence
	ColorSequence
	NumberRange
	Rect
	PhysicalProperties
	Color3uint8
	Int64
	SharedString
	Optional
)

// TypeFromString returns a Type from its string representation. Type(0) is
// returned if the string does not represent an existing Type.
func TypeFromString(s string) Type {
	s = strings.ToLower(s)
	for typ, str := range typeStrings {
		if s == strings.ToLower(str) {
			return typ
		}
	}
	return 0
}

var typeStrings = map[Type]string{
	String:             "String",
	BinaryString:       "BinaryString",
	ProtectedString:    "ProtectedString",
	Content:            "Content",
	Bool:               "Bool",
	Int:                "Int",
	Float:              "Float",
	Double:             "Double",
	UDim:               "UDim",
	UDim2:              "UDim2",
	Ray:                "Ray",
	Faces:              "Faces",
	Axes:               "Axes",
	BrickColor:         "BrickColor",
	Color3:             "Color3",
	Vector2:            "Vector2",
	Vector3:            "Vector3",
	CFrame:             "CFrame",
	Token:              "Token",
	Reference:          "Reference",
	Vector3int16:       "Vector3int16",
	Vector2int16:       "Vector2int16",
	NumberSequence:     "NumberSequence",
	ColorSequence:      "ColorSequence",
	NumberRange:        "NumberRange",
	Rect:               "Rect",
	PhysicalProperties: "PhysicalProperties",
	Color3uint8:        "Color3uint8",
	Int64:              "Int64",
	SharedString:       "SharedString",
	Optional:           "Optional",
}

func normUint8(v interface{}) uint8 {
	switch v := v.(type) {
	case int:
		return uint8(v)
	case uint:
		return uint8(v)
	case uint8:
		return uint8(v)
	case uint16:
		return uint8(v)
	case uint32:
		return uint8(v)
	case uint64:
		return uint8(v)
	case int8:
		return uint8(v)
	case int16:
		return uint8(v)
	case int32:
		return uint8(v)
	case int64:
		return uint8(v)
	case float32:
		return uint8(v)
	case float64:
		return uint8(v)
	}

	return 0
}

func normInt16(v interface{}) int16 {
	switch v := v.(type) {
	case int:
		return int16(v)
	case uint:
		return int16(v)
	case uint8:
		return int16(v)
	case uint16:
		return int16(v)
	case uint32:
		return int16(v)
	case uint64:
		return int16(v)
	case int8:
		return int16(v)
	case int16:
		return int16(v)
	case int32:
		return int16(v)
	case int64:
		return int16(v)
	case float32:
		return int16(v)
	case float64:
		return int16(v)
	}

	return 0
}

func normInt32(v interface{}) int32 {
	switch v := v.(type) {
	case int:
		return int32(v)
	case uint:
		return int32(v)
	case uint8:
		return int32(v)
	case uint16:
		return int32(v)
	case uint32:
		return int32(v)
	case uint64:
		return int32(v)
	case int8:
		return int32(v)
	case int16:
		return int32(v)
	case int32:
		return int32(v)
	case int64:
		return int32(v)
	case float32:
		return int32(v)
	case float64:
		return int32(v)
	}

	return 0
}

func normInt64(v interface{}) int64 {
	switch v := v.(type) {
	case int:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return int64(v)
	case float32:
		return int64(v)
	case float64:
		return int64(v)
	}

	return 0
}

func normUint32(v interface{}) uint32 {
	switch v := v.(type) {
	case int:
		return uint32(v)
	case uint:
		return uint32(v)
	case uint8:
		return uint32(v)
	case uint16:
		return uint32(v)
	case uint32:
		return uint32(v)
	case uint64:
		return uint32(v)
	case int8:
		return uint32(v)
	case int16:
		return uint32(v)
	case int32:
		return uint32(v)
	case int64:
		return uint32(v)
	case float32:
		return uint32(v)
	case float64:
		return uint32(v)
	}

	return 0
}

func normFloat32(v interface{}) float32 {
	switch v := v.(type) {
	case int:
		return float32(v)
	case uint:
		return float32(v)
	case uint8:
		return float32(v)
	case uint16:
		return float32(v)
	case uint32:
		return float32(v)
	case uint64:
		return float32(v)
	case int8:
		return float32(v)
	case int16:
		return float32(v)
	case int32:
		return float32(v)
	case int64:
		return float32(v)
	case float32:
		return float32(v)
	case float64:
		return float32(v)
	}

	return 0
}

func normFloat64(v interface{}) float64 {
	switch v := v.(type) {
	case int:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float32:
		return float64(v)
	case float64:
		return float64(v)
	}

	return 0
}

func normBool(v interface{}) bool {
	vv, _ := v.(bool)
	return vv
}

func assertValue(t Type, v interface{}) (value rbxm.Value, ok bool) {
	switch t {
	case String:
		value, ok = v.(rbxm.ValueString)
	case BinaryString:
		value, ok = v.(rbxm.ValueBinaryString)
	case ProtectedString:
		value, ok = v.(rbxm.ValueProtectedString)
	case Content:
		value, ok = v.(rbxm.ValueContent)
	case Bool:
		value, ok = v.(rbxm.ValueBool)
	case Int:
		value, ok = v.(rbxm.ValueInt)
	case Float:
		value, ok = v.(rbxm.ValueFloat)
	case Double:
		value, ok = v.(rbxm.ValueDouble)
	case UDim:
		value, ok = v.(rbxm.ValueUDim)
	case UDim2:
		value, ok = v.(rbxm.ValueUDim2)
	case Ray:
		value, ok = v.(rbxm.ValueRay)
	case Faces:
		value, ok = v.(rbxm.ValueFaces)
	case Axes:
		value, ok = v.(rbxm.ValueAxes)
	case BrickColor:
		value, ok = v.(rbxm.ValueBrickColor)
	case Color3:
		value, ok = v.(rbxm.ValueColor3)
	case Vector2:
		value, ok = v.(rbxm.ValueVector2)
	case Vector3:
		value, ok = v.(rbxm.ValueVector3)
	case CFrame:
		value, ok = v.(rbxm.ValueCFrame)
	case Token:
		value, ok = v.(rbxm.ValueToken)
	case Reference:
		value, ok = v.(rbxm.ValueReference)
	case Vector3int16:
		value, ok = v.(rbxm.ValueVector3int16)
	case Vector2int16:
		value, ok = v.(rbxm.ValueVector2int16)
	case NumberSequence:
		value, ok = v.(rbxm.ValueNumberSequence)
	case ColorSequence:
		value, ok = v.(rbxm.ValueColorSequence)
	case NumberRange:
		value, ok = v.(rbxm.ValueNumberRange)
	case Rect:
		value, ok = v.(rbxm.ValueRect)
	case PhysicalProperties:
		value, ok = v.(rbxm.ValuePhysicalProperties)
	case Color3uint8:
		value, ok = v.(rbxm.ValueColor3uint8)
	case Int64:
		value, ok = v.(rbxm.ValueInt64)
	case SharedString:
		value, ok = v.(rbxm.ValueSharedString)
	case Optional:
		value, ok = v.(rbxm.ValueOptional)
	}
	return
}

func (t Type) value(refs rbxm.References, v []interface{}) rbxm.Value {
	if len(v) == 0 {
		goto zero
	}

	if v, ok := assertValue(t, v[0]); ok {
		return v
	}

	switch t {
	case String:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueString(v)
		case []byte:
			return rbxm.ValueString(v)
		}
	case BinaryString:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueBinaryString(v)
		case []byte:
			return rbxm.ValueBinaryString(v)
		}
	case ProtectedString:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueProtectedString(v)
		case []byte:
			return rbxm.ValueProtectedString(v)
		}
	case Content:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueContent(v)
		case []byte:
			return rbxm.ValueContent(v)
		}
	case Bool:
		switch v := v[0].(type) {
		case bool:
			return rbxm.ValueBool(v)
		}
	case Int:
		return rbxm.ValueInt(normInt32(v[0]))
	case Float:
		return rbxm.ValueFloat(normFloat32(v[0]))
	case Double:
		return rbxm.ValueDouble(normFloat64(v[0]))
	case UDim:
		if len(v) == 2 {
			return rbxm.ValueUDim{
				Scale:  normFloat32(v[0]),
				Offset: normInt32(v[1]),
			}
		}
	case UDim2:
		switch len(v) {
		case 2:
			x, _ := v[0].(rbxm.ValueUDim)
			y, _ := v[1].(rbxm.ValueUDim)
			return rbxm.ValueUDim2{
				X: x,
				Y: y,
			}
		case 4:
			return rbxm.ValueUDim2{
				X: rbxm.ValueUDim{
					Scale:  normFloat32(v[0]),
					Offset: normInt32(v[1]),
				},
				Y: rbxm.ValueUDim{
					Scale:  normFloat32(v[2]),
					Offset: normInt32(v[3]),
				},
			}
		}
	case Ray:
		switch len(v) {
		case 2:
			origin, _ := v[0].(rbxm.ValueVector3)
			direction, _ := v[1].(rbxm.ValueVector3)
			return rbxm.ValueRay{
				Origin:    origin,
				Direction: direction,
			}
		case 6:
			return rbxm.ValueRay{
				Origin: rbxm.ValueVector3{
					X: normFloat32(v[0]),
					Y: normFloat32(v[1]),
					Z: normFloat32(v[2]),
				},
				Direction: rbxm.ValueVector3{
					X: normFloat32(v[3]),
					Y: normFloat32(v[4]),
					Z: normFloat32(v[5]),
				},
			}
		}
	case Faces:
		if len(v) == 6 {
			return rbxm.ValueFaces{
				Right:  normBool(v[0]),
				Top:    normBool(v[1]),
				Back:   normBool(v[2]),
				Left:   normBool(v[3]),
				Bottom: normBool(v[4]),
				Front:  normBool(v[5]),
			}
		}
	case Axes:
		if len(v) == 3 {
			return rbxm.ValueAxes{
				X: normBool(v[0]),
				Y: normBool(v[1]),
				Z: normBool(v[2]),
			}
		}
	case BrickColor:
		return rbxm.ValueBrickColor(normUint32(v[0]))
	case Color3:
		if len(v) == 3 {
			return rbxm.ValueColor3{
				R: normFloat32(v[0]),
				G: normFloat32(v[1]),
				B: normFloat32(v[2]),
			}
		}
	case Vector2:
		if len(v) == 2 {
			return rbxm.ValueVector2{
				X: normFloat32(v[0]),
				Y: normFloat32(v[1]),
			}
		}
	case Vector3:
		if len(v) == 3 {
			return rbxm.ValueVector3{
				X: normFloat32(v[0]),
				Y: normFloat32(v[1]),
				Z: normFloat32(v[2]),
			}
		}
	case CFrame:
		switch len(v) {
		case 10:
			p, _ := v[0].(rbxm.ValueVector3)
			return rbxm.ValueCFrame{
				Position: p,
				Rotation: [9]float32{
					normFloat32(v[1]),
					normFloat32(v[2]),
					normFloat32(v[3]),
					normFloat32(v[4]),
					normFloat32(v[5]),
					normFloat32(v[6]),
					normFloat32(v[7]),
					normFloat32(v[8]),
					normFloat32(v[9]),
				},
			}
		case 12:
			return rbxm.ValueCFrame{
				Position: rbxm.ValueVector3{
					X: normFloat32(v[0]),
					Y: normFloat32(v[1]),
					Z: normFloat32(v[2]),
				},
				Rotation: [9]float32{
					normFloat32(v[3]),
					normFloat32(v[4]),
					normFloat32(v[5]),
					normFloat32(v[6]),
					normFloat32(v[7]),
					normFloat32(v[8]),
					normFloat32(v[9]),
					normFloat32(v[10]),
					normFloat32(v[11]),
				},
			}
		}
	case Token:
		return rbxm.ValueToken(normUint32(v[0]))
	case Reference:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueReference{
				Instance: refs[v],
			}
		case []byte:
			return rbxm.ValueReference{
				Instance: refs[string(v)],
			}
		case *rbxm.Instance:
			return rbxm.ValueReference{
				Instance: v,
			}
		}
	case Vector3int16:
		if len(v) == 3 {
			return rbxm.ValueVector3int16{
				X: normInt16(v[0]),
				Y: normInt16(v[1]),
				Z: normInt16(v[2]),
			}
		}
	case Vector2int16:
		if len(v) == 2 {
			return rbxm.ValueVector2int16{
				X: normInt16(v[0]),
				Y: normInt16(v[1]),
			}
		}
	case NumberSequence:
		if len(v) > 0 {
			if _, ok := v[0].(rbxm.ValueNumberSequenceKeypoint); ok && len(v) >= 2 {
				ns := make(rbxm.ValueNumberSequence, len(v))
				for i, k := range v {
					k, _ := k.(rbxm.ValueNumberSequenceKeypoint)
					ns[i] = k
				}
				return ns
			} else if len(v)%3 == 0 && len(v) >= 6 {
				ns := make(rbxm.ValueNumberSequence, len(v)/3)
				for i := 0; i < len(v); i += 3 {
					ns[i/3] = rbxm.ValueNumberSequenceKeypoint{
						Time:     normFloat32(v[i+0]),
						Value:    normFloat32(v[i+1]),
						Envelope: normFloat32(v[i+2]),
					}
				}
				return ns
			}
		}
	case ColorSequence:
		if len(v) > 0 {
			if _, ok := v[0].(rbxm.ValueColorSequenceKeypoint); ok && len(v) >= 2 {
				cs := make(rbxm.ValueColorSequence, len(v))
				for i, k := range v {
					k, _ := k.(rbxm.ValueColorSequenceKeypoint)
					cs[i] = k
				}
				return cs
			} else if len(v)%3 == 0 && len(v) >= 6 {
				if _, ok := v[1].(rbxm.ValueColor3); ok {
					cs := make(rbxm.ValueColorSequence, len(v)/3)
					for i := 0; i < len(v); i += 3 {
						kval, _ := v[i+1].(rbxm.ValueColor3)
						cs[i/3] = rbxm.ValueColorSequenceKeypoint{
							Time:     normFloat32(v[i+0]),
							Value:    kval,
							Envelope: normFloat32(v[i+2]),
						}
					}
					return cs
				}
			}
			if len(v)%5 == 0 && len(v) >= 10 {
				cs := make(rbxm.ValueColorSequence, len(v)/5)
				for i := 0; i < len(v); i += 5 {
					cs[i/5] = rbxm.ValueColorSequenceKeypoint{
						Time: normFloat32(v[i+0]),
						Value: rbxm.ValueColor3{
							R: normFloat32(v[i+1]),
							G: normFloat32(v[i+2]),
							B: normFloat32(v[i+3]),
						},
						Envelope: normFloat32(v[i+4]),
					}
				}
				return cs
			}
		}
	case NumberRange:
		if len(v) == 2 {
			return rbxm.ValueNumberRange{
				Min: normFloat32(v[0]),
				Max: normFloat32(v[1]),
			}
		}
	case Rect:
		switch len(v) {
		case 2:
			min, _ := v[0].(rbxm.ValueVector2)
			max, _ := v[1].(rbxm.ValueVector2)
			return rbxm.ValueRect{
				Min: min,
				Max: max,
			}
		case 4:
			return rbxm.ValueRect{
				Min: rbxm.ValueVector2{
					X: normFloat32(v[0]),
					Y: normFloat32(v[1]),
				},
				Max: rbxm.ValueVector2{
					X: normFloat32(v[2]),
					Y: normFloat32(v[3]),
				},
			}
		}
	case PhysicalProperties:
		switch len(v) {
		case 3:
			return rbxm.ValuePhysicalProperties{
				CustomPhysics: true,
				Density:       normFloat32(v[0]),
				Friction:      normFloat32(v[1]),
				Elasticity:    normFloat32(v[2]),
			}
		case 5:
			return rbxm.ValuePhysicalProperties{
				CustomPhysics:    true,
				Density:          normFloat32(v[0]),
				Friction:         normFloat32(v[1]),
				Elasticity:       normFloat32(v[2]),
				FrictionWeight:   normFloat32(v[3]),
				ElasticityWeight: normFloat32(v[4]),
			}
		case 7:
			return rbxm.ValuePhysicalProperties{
				CustomPhysics:    true,
				Density:          normFloat32(v[0]),
				Friction:         normFloat32(v[1]),
				Elasticity:       normFloat32(v[2]),
				FrictionWeight:   normFloat32(v[3]),
				ElasticityWeight: normFloat32(v[4]),
				CrossFriction:    normFloat32(v[5]),
				CrossElasticity:  normFloat32(v[6]),
			}
		}
	case Color3uint8:
		if len(v) == 3 {
			return rbxm.ValueColor3uint8{
				R: normUint8(v[0]),
				G: normUint8(v[1]),
				B: normUint8(v[2]),
			}
		}
	case Int64:
		return rbxm.ValueInt64(normInt64(v[0]))
	case SharedString:
		switch v := v[0].(type) {
		case string:
			return rbxm.ValueSharedString(v)
		case []byte:
			return rbxm.ValueSharedString(v)
		}
	case Optional:
		if inner, ok := v[0].(rbxm.Value); ok {
			return rbxm.Some(inner)
		}
	}

zero:
	if t == Optional {
		return rbxm.None(rbxm.TypeCFrame)
	}
	return rbxm.NewValue(rbxm.Type(t))
}
