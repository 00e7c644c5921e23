package rbxm_test

import (
	"strings"
	"testing"

	"github.com/robloxapi/rbxm"
)

func named(className, name string, parent *rbxm.Instance) *rbxm.Instance {
	inst := rbxm.NewInstance(className, parent)
	inst.SetName(name)
	return inst
}

func TestNewInstance(t *testing.T) {
	parent := rbxm.NewInstance("Model", nil)
	child := rbxm.NewInstance("Part", parent)

	if child.Parent() != parent {
		t.Error("expected parent to be set")
	}
	if len(parent.Children()) != 1 || parent.Children()[0] != child {
		t.Error("expected child to appear in parent's children")
	}
	if child.Reference == "" {
		t.Error("expected generated reference")
	}
}

func TestAddChild(t *testing.T) {
	a := rbxm.NewInstance("Folder", nil)
	b := rbxm.NewInstance("Folder", a)
	c := rbxm.NewInstance("Folder", b)

	if err := a.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != a {
		t.Error("expected child to be reparented")
	}
	if len(b.Children()) != 0 {
		t.Error("expected child to be removed from previous parent")
	}

	if err := c.AddChild(a); err == nil {
		t.Error("expected error from circular reference")
	}
}

func TestSetParent(t *testing.T) {
	a := rbxm.NewInstance("Folder", nil)
	b := rbxm.NewInstance("Folder", a)

	if err := a.SetParent(a); err == nil {
		t.Error("expected error from setting instance as its own parent")
	}
	if err := a.SetParent(b); err == nil {
		t.Error("expected error from circular reference")
	}
	if err := b.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != nil || len(a.Children()) != 0 {
		t.Error("expected child to be detached")
	}
}

func TestHierarchyQueries(t *testing.T) {
	workspace := named("Workspace", "Workspace", nil)
	model := named("Model", "Model", workspace)
	part := named("Part", "Part", model)

	if !workspace.IsAncestorOf(part) {
		t.Error("expected IsAncestorOf to be true")
	}
	if !part.IsDescendantOf(workspace) {
		t.Error("expected IsDescendantOf to be true")
	}
	if part.IsAncestorOf(workspace) {
		t.Error("expected IsAncestorOf to be false")
	}
	if workspace.IsAncestorOf(nil) {
		t.Error("expected IsAncestorOf of nil to be false")
	}

	if workspace.FindFirstChild("Part", false) != nil {
		t.Error("expected no direct child named Part")
	}
	if workspace.FindFirstChild("Part", true) != part {
		t.Error("expected recursive search to find Part")
	}
	if workspace.Descend("Model", "Part") != part {
		t.Error("expected Descend to find Part")
	}
	if workspace.Descend("Model", "Missing") != nil {
		t.Error("expected Descend to return nil for missing name")
	}

	if part.GetFullName() != "Workspace.Model.Part" {
		t.Errorf("unexpected full name %q", part.GetFullName())
	}
}

func TestNameAndString(t *testing.T) {
	inst := rbxm.NewInstance("Part", nil)
	if inst.Name() != "" {
		t.Error("expected empty name")
	}
	if inst.String() != "Part" {
		t.Error("expected String to fall back to ClassName")
	}
	inst.SetName("Baseplate")
	if inst.Name() != "Baseplate" || inst.String() != "Baseplate" {
		t.Error("unexpected name after SetName")
	}
}

func TestGetSet(t *testing.T) {
	inst := rbxm.NewInstance("Part", nil)
	inst.Set("Transparency", rbxm.ValueFloat(0.5))
	if v, ok := inst.Get("Transparency").(rbxm.ValueFloat); !ok || v != 0.5 {
		t.Error("unexpected value from Get")
	}
	inst.Set("Transparency", nil)
	if inst.Get("Transparency") != nil {
		t.Error("expected property to be deleted")
	}
}

func TestRemove(t *testing.T) {
	a := rbxm.NewInstance("Folder", nil)
	b := rbxm.NewInstance("Folder", a)
	c := rbxm.NewInstance("Folder", b)

	b.Remove()
	if b.Parent() != nil || c.Parent() != nil {
		t.Error("expected Remove to detach instance and descendants")
	}
	if len(a.Children()) != 0 {
		t.Error("expected instance to be removed from parent")
	}
}

func TestClearAllChildren(t *testing.T) {
	a := rbxm.NewInstance("Folder", nil)
	rbxm.NewInstance("Folder", a)
	rbxm.NewInstance("Folder", a)

	a.ClearAllChildren()
	if len(a.Children()) != 0 {
		t.Error("expected no children after ClearAllChildren")
	}
}

func TestClone(t *testing.T) {
	inst := named("Part", "Original", nil)
	inst.Set("Value", rbxm.ValueString("data"))
	child := named("Part", "Child", inst)
	child.Set("Target", rbxm.ValueReference{Instance: inst})

	clone := inst.Clone()
	if clone == inst {
		t.Fatal("expected clone to be a distinct instance")
	}
	if clone.Name() != "Original" {
		t.Error("expected properties to be copied")
	}
	if clone.Reference == inst.Reference {
		t.Error("expected clone to have a new reference")
	}

	cchild := clone.FindFirstChild("Child", false)
	if cchild == nil || cchild == child {
		t.Fatal("expected child to be copied")
	}
	if v, ok := cchild.Get("Target").(rbxm.ValueReference); !ok || v.Instance != clone {
		t.Error("expected copied reference to point at copied instance")
	}

	clone.Set("Value", rbxm.ValueString("changed"))
	if inst.Get("Value").(rbxm.ValueString).String() != "data" {
		t.Error("modifying clone modified original")
	}
}

func TestRootCopy(t *testing.T) {
	root := &rbxm.Root{
		Instances: []*rbxm.Instance{
			rbxm.NewInstance("ReferToSelf", nil),
			rbxm.NewInstance("ReferToSibling", nil),
			rbxm.NewInstance("ReferToOutside", nil),
			rbxm.NewInstance("HasChild", nil),
		},
		Metadata: map[string]string{"ExplicitAutoJoints": "true"},
	}
	child := rbxm.NewInstance("Child", root.Instances[3])
	child.Set("Data", rbxm.ValueString("hello world"))
	outside := rbxm.NewInstance("Outside", nil)
	root.Instances[0].Set("Reference", rbxm.ValueReference{Instance: root.Instances[0]})
	root.Instances[1].Set("Reference", rbxm.ValueReference{Instance: root.Instances[0]})
	root.Instances[2].Set("Reference", rbxm.ValueReference{Instance: outside})

	clone := root.Copy()

	if len(clone.Instances) != len(root.Instances) {
		t.Fatalf("mismatched number of instances (expected %d, got %d)", len(root.Instances), len(clone.Instances))
	}
	for i := range root.Instances {
		if a, b := root.Instances[i].ClassName, clone.Instances[i].ClassName; a != b {
			t.Errorf("mismatched instance %d (expected %s, got %s)", i, a, b)
		}
		if root.Instances[i] == clone.Instances[i] {
			t.Errorf("instance %d in copy equals instance in root", i)
		}
	}

	if v, ok := clone.Instances[0].Get("Reference").(rbxm.ValueReference); !ok || v.Instance != clone.Instances[0] {
		t.Error("expected self reference to resolve to copy")
	}
	if v, ok := clone.Instances[1].Get("Reference").(rbxm.ValueReference); !ok || v.Instance != clone.Instances[0] {
		t.Error("expected sibling reference to resolve to copy")
	}
	if v, ok := clone.Instances[2].Get("Reference").(rbxm.ValueReference); !ok || v.Instance != outside {
		t.Error("expected outside reference to point at original instance")
	}

	if len(clone.Instances[3].Children()) != 1 {
		t.Fatal("expected child to be copied")
	}
	cchild := clone.Instances[3].Children()[0]
	if cchild == child {
		t.Fatal("expected child copy to be distinct")
	}
	if v, ok := cchild.Get("Data").(rbxm.ValueString); !ok || string(v) != "hello world" {
		t.Error("expected child properties to be copied")
	}

	if clone.Metadata["ExplicitAutoJoints"] != "true" {
		t.Error("expected metadata to be copied")
	}
	clone.Metadata["ExplicitAutoJoints"] = "false"
	if root.Metadata["ExplicitAutoJoints"] != "true" {
		t.Error("modifying copied metadata modified original")
	}
}

func TestIsEmptyReference(t *testing.T) {
	for _, ref := range []string{"", "null", "nil"} {
		if !rbxm.IsEmptyReference(ref) {
			t.Errorf("expected %q to be empty", ref)
		}
	}
	if rbxm.IsEmptyReference("RBX0123") {
		t.Error("expected reference to be non-empty")
	}
}

func TestGenerateReference(t *testing.T) {
	ref := rbxm.GenerateReference()
	if !strings.HasPrefix(ref, "RBX") || len(ref) != 3+32 {
		t.Errorf("unexpected reference format %q", ref)
	}
	if ref == rbxm.GenerateReference() {
		t.Error("expected distinct references")
	}
}

func TestReferences(t *testing.T) {
	refs := rbxm.References{}
	inst := rbxm.NewInstance("Part", nil)
	ref := refs.Get(inst)
	if ref != inst.Reference {
		t.Error("expected Get to return the instance's reference")
	}

	// A duplicate reference is regenerated.
	dup := rbxm.NewInstance("Part", nil)
	dup.Reference = ref
	if refs.Get(dup) == ref {
		t.Error("expected duplicate reference to be regenerated")
	}

	target := rbxm.NewInstance("ObjectValue", nil)
	if ok := refs.Resolve(rbxm.PropRef{
		Instance:  target,
		Property:  "Value",
		Reference: ref,
	}); !ok {
		t.Error("expected reference to resolve")
	}
	if v, ok := target.Get("Value").(rbxm.ValueReference); !ok || v.Instance != inst {
		t.Error("expected resolved property to point at referent")
	}

	if ok := refs.Resolve(rbxm.PropRef{
		Instance:  target,
		Property:  "Value",
		Reference: "missing",
	}); ok {
		t.Error("expected unresolved reference to return false")
	}
	if v, ok := target.Get("Value").(rbxm.ValueReference); !ok || v.Instance != nil {
		t.Error("expected unresolved property to be nil reference")
	}
}
