package rbxm_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/robloxapi/rbxm"
)

func TestType_String(t *testing.T) {
	if rbxm.TypeString.String() != "string" {
		t.Error("unexpected result from String")
	}

	if rbxm.Type(0).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
}

func TestTypeFromString(t *testing.T) {
	if rbxm.TypeFromString("string") != rbxm.TypeString {
		t.Error("unexpected result from TypeFromString")
	}

	if rbxm.TypeFromString("UnknownType") != rbxm.TypeInvalid {
		t.Error("unexpected result from TypeFromString")
	}
}

func TestNewValue(t *testing.T) {
	if _, ok := rbxm.NewValue(rbxm.TypeString).(rbxm.ValueString); !ok {
		t.Error("expected ValueString from NewValue")
	}

	if rbxm.NewValue(rbxm.TypeInvalid) != nil {
		t.Error("expected nil value from NewValue")
	}
}

var types = []rbxm.Type{
	rbxm.TypeString,
	rbxm.TypeBinaryString,
	rbxm.TypeProtectedString,
	rbxm.TypeContent,
	rbxm.TypeBool,
	rbxm.TypeInt,
	rbxm.TypeFloat,
	rbxm.TypeDouble,
	rbxm.TypeUDim,
	rbxm.TypeUDim2,
	rbxm.TypeRay,
	rbxm.TypeFaces,
	rbxm.TypeAxes,
	rbxm.TypeBrickColor,
	rbxm.TypeColor3,
	rbxm.TypeVector2,
	rbxm.TypeVector3,
	rbxm.TypeCFrame,
	rbxm.TypeToken,
	rbxm.TypeReference,
	rbxm.TypeVector3int16,
	rbxm.TypeVector2int16,
	rbxm.TypeNumberSequence,
	rbxm.TypeColorSequence,
	rbxm.TypeNumberRange,
	rbxm.TypeRect,
	rbxm.TypePhysicalProperties,
	rbxm.TypeColor3uint8,
	rbxm.TypeInt64,
	rbxm.TypeSharedString,
	rbxm.TypeOptional,
}

func TestValueType(t *testing.T) {
	for _, typ := range types {
		v := rbxm.NewValue(typ)
		if v == nil || v.Type() != typ {
			t.Error("unexpected value from NewValue")
		}
	}
}

func TestValueCopy(t *testing.T) {
	values := []rbxm.Value{
		rbxm.ValueString("hello"),
		rbxm.ValueBinaryString{0x00, 0x01, 0x02},
		rbxm.ValueProtectedString("print()"),
		rbxm.ValueContent("rbxasset://1"),
		rbxm.ValueBool(true),
		rbxm.ValueInt(-42),
		rbxm.ValueFloat(1.5),
		rbxm.ValueDouble(2.5),
		rbxm.ValueUDim{Scale: 0.5, Offset: 8},
		rbxm.ValueUDim2{X: rbxm.ValueUDim{Scale: 1}, Y: rbxm.ValueUDim{Offset: 2}},
		rbxm.ValueRay{Origin: rbxm.ValueVector3{X: 1}, Direction: rbxm.ValueVector3{Z: 1}},
		rbxm.ValueFaces{Right: true, Front: true},
		rbxm.ValueAxes{Y: true},
		rbxm.ValueBrickColor(194),
		rbxm.ValueColor3{R: 0.25, G: 0.5, B: 0.75},
		rbxm.ValueVector2{X: 3, Y: 4},
		rbxm.ValueVector3{X: 1, Y: 2, Z: 3},
		rbxm.ValueCFrame{Position: rbxm.ValueVector3{X: 1}, Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}},
		rbxm.ValueToken(7),
		rbxm.ValueReference{},
		rbxm.ValueVector3int16{X: -1, Y: 0, Z: 1},
		rbxm.ValueVector2int16{X: -2, Y: 2},
		rbxm.ValueNumberSequence{{Time: 0, Value: 0}, {Time: 1, Value: 1}},
		rbxm.ValueColorSequence{{Time: 0, Value: rbxm.ValueColor3{R: 1}}, {Time: 1}},
		rbxm.ValueNumberRange{Min: 0, Max: 10},
		rbxm.ValueRect{Min: rbxm.ValueVector2{X: 1}, Max: rbxm.ValueVector2{Y: 1}},
		rbxm.ValuePhysicalProperties{CustomPhysics: true, Density: 0.7},
		rbxm.ValueColor3uint8{R: 255, G: 128, B: 0},
		rbxm.ValueInt64(1 << 40),
		rbxm.ValueSharedString("shared"),
		rbxm.Some(rbxm.ValueCFrame{Position: rbxm.ValueVector3{Y: 1}}),
	}
	for _, v := range values {
		if !reflect.DeepEqual(v, v.Copy()) {
			t.Errorf("copy of value %q is not equal to original", v.Type().String())
		}
	}
}

func TestValueCopyIsolated(t *testing.T) {
	s := rbxm.ValueString("hello")
	c := s.Copy().(rbxm.ValueString)
	c[0] = 'j'
	if string(s) != "hello" {
		t.Error("modifying copy modified original")
	}

	ns := rbxm.ValueNumberSequence{{Time: 0}, {Time: 1}}
	nc := ns.Copy().(rbxm.ValueNumberSequence)
	nc[0].Time = 0.5
	if ns[0].Time != 0 {
		t.Error("modifying copy modified original")
	}
}

type vtest struct {
	v rbxm.Value
	s string
}

func compareStrings(t *testing.T, vts ...vtest) {
	for _, vt := range vts {
		if vt.v.String() != vt.s {
			t.Errorf("unexpected result from String method of value %q (%q expected, got %q)", vt.v.Type().String(), vt.s, vt.v.String())
		}
	}
}

func TestValueString(t *testing.T) {
	compareStrings(t,
		vtest{rbxm.ValueString("test\000string"), "test\000string"},
		vtest{rbxm.ValueBinaryString("test\000string"), "test\000string"},
		vtest{rbxm.ValueProtectedString("test\000string"), "test\000string"},
		vtest{rbxm.ValueContent("test\000string"), "test\000string"},

		vtest{rbxm.ValueBool(true), "true"},
		vtest{rbxm.ValueBool(false), "false"},

		vtest{rbxm.ValueInt(42), "42"},
		vtest{rbxm.ValueInt(-42), "-42"},

		vtest{rbxm.ValueFloat(math.Pi), "3.1415927"},
		vtest{rbxm.ValueFloat(math.Inf(1)), "+Inf"},
		vtest{rbxm.ValueFloat(math.NaN()), "NaN"},

		vtest{rbxm.ValueDouble(math.Pi), "3.141592653589793"},
		vtest{rbxm.ValueDouble(math.Inf(-1)), "-Inf"},

		vtest{rbxm.ValueUDim{Scale: 0.5, Offset: 16}, "0.5, 16"},
		vtest{rbxm.ValueUDim2{
			X: rbxm.ValueUDim{Scale: 1, Offset: 2},
			Y: rbxm.ValueUDim{Scale: 3, Offset: 4},
		}, "{1, 2}, {3, 4}"},

		vtest{rbxm.ValueFaces{Right: true, Front: true}, "Front, Right"},
		vtest{rbxm.ValueAxes{X: true, Z: true}, "X, Z"},

		vtest{rbxm.ValueBrickColor(194), "194"},
		vtest{rbxm.ValueColor3{R: 0.5, G: 0.25, B: 0}, "0.5, 0.25, 0"},
		vtest{rbxm.ValueVector2{X: 1, Y: 2}, "1, 2"},
		vtest{rbxm.ValueVector3{X: 1, Y: 2, Z: 3}, "1, 2, 3"},

		vtest{rbxm.ValueToken(9), "9"},
		vtest{rbxm.ValueReference{}, "<nil>"},

		vtest{rbxm.ValueVector3int16{X: -1, Y: 0, Z: 1}, "-1, 0, 1"},
		vtest{rbxm.ValueVector2int16{X: -2, Y: 2}, "-2, 2"},

		vtest{rbxm.ValueNumberRange{Min: 0, Max: 1}, "0 1"},
		vtest{rbxm.ValueRect{
			Min: rbxm.ValueVector2{X: 0, Y: 1},
			Max: rbxm.ValueVector2{X: 2, Y: 3},
		}, "0, 1; 2, 3"},

		vtest{rbxm.ValuePhysicalProperties{}, "nil"},

		vtest{rbxm.ValueColor3uint8{R: 255, G: 128, B: 0}, "255, 128, 0"},
		vtest{rbxm.ValueInt64(-1 << 40), "-1099511627776"},
		vtest{rbxm.ValueSharedString("shared"), "shared"},
		vtest{rbxm.None(rbxm.TypeCFrame), "nil"},
	)
}

func TestValueWidening(t *testing.T) {
	if rbxm.ValueInt(-7).Int64() != rbxm.ValueInt64(-7) {
		t.Error("unexpected result from Int64")
	}
	if rbxm.ValueFloat(1.5).Double() != rbxm.ValueDouble(1.5) {
		t.Error("unexpected result from Double")
	}
	c := rbxm.ValueColor3uint8{R: 255, G: 0, B: 51}.Color3()
	if c.R != 1 || c.G != 0 || c.B != float32(51)/255 {
		t.Error("unexpected result from Color3")
	}
}

func TestValueOptional(t *testing.T) {
	some := rbxm.Some(rbxm.ValueCFrame{})
	if some.ValueType != rbxm.TypeCFrame || some.Value == nil {
		t.Error("unexpected result from Some")
	}

	none := rbxm.None(rbxm.TypeCFrame)
	if none.ValueType != rbxm.TypeCFrame || none.Value != nil {
		t.Error("unexpected result from None")
	}

	if rbxm.Some(nil).ValueType != rbxm.TypeInvalid {
		t.Error("expected invalid type from Some with nil value")
	}
}
