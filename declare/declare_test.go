package declare_test

import (
	"fmt"
	"testing"

	"github.com/robloxapi/rbxm"
	. "github.com/robloxapi/rbxm/declare"
)

func Example() {
	root := Root{
		Instance("Part", Ref("RBX12345678"),
			Property("Name", String, "BasePlate"),
			Property("CanCollide", Bool, true),
			Property("Position", Vector3, 0, 10, 0),
			Property("Size", Vector3, 2, 1.2, 4),
			Instance("CFrameValue",
				Property("Name", String, "Value"),
				Property("Value", CFrame, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1),
			),
			Instance("ObjectValue",
				Property("Name", String, "Value"),
				Property("Value", Reference, "RBX12345678"),
			),
		),
	}.Declare()
	fmt.Println(root)
}

func TestDeclareRoot(t *testing.T) {
	root := Root{
		Metadata("ExplicitAutoJoints", "true"),
		Instance("Workspace", Service,
			Instance("Part", Ref("PART"),
				Property("Name", String, "Baseplate"),
				Property("Anchored", Bool, true),
				Property("Size", Vector3, 512, 20, 512),
			),
			Instance("ObjectValue",
				Property("Value", Reference, "PART"),
			),
		),
	}.Declare()

	if root.Metadata["ExplicitAutoJoints"] != "true" {
		t.Error("expected metadata to be declared")
	}
	if len(root.Instances) != 1 {
		t.Fatal("expected one root instance")
	}

	workspace := root.Instances[0]
	if workspace.ClassName != "Workspace" || !workspace.IsService {
		t.Error("expected Workspace service")
	}
	if len(workspace.Children()) != 2 {
		t.Fatal("expected two children")
	}

	part := workspace.Children()[0]
	if part.Reference != "PART" {
		t.Error("expected Ref to set the instance reference")
	}
	if v, ok := part.Get("Anchored").(rbxm.ValueBool); !ok || !bool(v) {
		t.Error("unexpected Anchored value")
	}
	if v, ok := part.Get("Size").(rbxm.ValueVector3); !ok || v.X != 512 || v.Y != 20 || v.Z != 512 {
		t.Error("unexpected Size value")
	}

	object := workspace.Children()[1]
	if v, ok := object.Get("Value").(rbxm.ValueReference); !ok || v.Instance != part {
		t.Error("expected reference to resolve to declared instance")
	}
}

func TestDeclareInstance(t *testing.T) {
	inst := Instance("Model",
		Property("Name", String, "Prop"),
		Instance("Part", Ref("P"),
			Property("BrickColor", BrickColor, 194),
		),
		Instance("ObjectValue",
			Property("Value", Reference, "P"),
		),
	).Declare()

	if inst.Name() != "Prop" {
		t.Error("unexpected name")
	}
	part := inst.Children()[0]
	object := inst.Children()[1]
	if v, ok := part.Get("BrickColor").(rbxm.ValueBrickColor); !ok || v != 194 {
		t.Error("unexpected BrickColor value")
	}
	if v, ok := object.Get("Value").(rbxm.ValueReference); !ok || v.Instance != part {
		t.Error("expected reference to resolve within declared instance")
	}
}

func TestDeclareProperty(t *testing.T) {
	if v := Property("", Int, 42).Declare(); v.(rbxm.ValueInt) != 42 {
		t.Error("unexpected Int value")
	}
	if v := Property("", Int64, int64(1)<<40).Declare(); v.(rbxm.ValueInt64) != 1<<40 {
		t.Error("unexpected Int64 value")
	}
	if v := Property("", SharedString, "blob").Declare(); string(v.(rbxm.ValueSharedString)) != "blob" {
		t.Error("unexpected SharedString value")
	}
	if v := Property("", UDim2, 1, 2, 3, 4).Declare(); v.(rbxm.ValueUDim2) != (rbxm.ValueUDim2{
		X: rbxm.ValueUDim{Scale: 1, Offset: 2},
		Y: rbxm.ValueUDim{Scale: 3, Offset: 4},
	}) {
		t.Error("unexpected UDim2 value")
	}
	if v := Property("", PhysicalProperties).Declare(); v.(rbxm.ValuePhysicalProperties).CustomPhysics {
		t.Error("expected default physical properties")
	}
	if v := Property("", PhysicalProperties, 0.7, 0.3, 0.5).Declare(); !v.(rbxm.ValuePhysicalProperties).CustomPhysics {
		t.Error("expected custom physical properties")
	}

	// A declared value that already matches the type passes through.
	cf := rbxm.ValueCFrame{Position: rbxm.ValueVector3{X: 1}}
	if v := Property("", CFrame, cf).Declare(); v.(rbxm.ValueCFrame) != cf {
		t.Error("expected value to pass through")
	}

	// Optional wraps an inner value, or declares an empty CFrame optional.
	if v := Property("", Optional, cf).Declare(); v.(rbxm.ValueOptional).Value.(rbxm.ValueCFrame) != cf {
		t.Error("expected occupied optional")
	}
	if v := Property("", Optional).Declare(); v.(rbxm.ValueOptional) != rbxm.None(rbxm.TypeCFrame) {
		t.Error("expected empty optional")
	}

	// Values that cannot be asserted produce the zero value.
	if v := Property("", Vector3, "bogus").Declare(); v.(rbxm.ValueVector3) != (rbxm.ValueVector3{}) {
		t.Error("expected zero value")
	}
}

func TestTypeStrings(t *testing.T) {
	if CFrame.String() != "CFrame" {
		t.Error("unexpected result from String")
	}
	if Type(0).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
	if TypeFromString("cframe") != CFrame {
		t.Error("unexpected result from TypeFromString")
	}
	if TypeFromString("bogus") != Type(0) {
		t.Error("unexpected result from TypeFromString")
	}
}
