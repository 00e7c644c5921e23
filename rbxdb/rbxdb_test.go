package rbxdb_test

import (
	"testing"

	"github.com/robloxapi/rbxm"
	"github.com/robloxapi/rbxm/rbxdb"
	"github.com/stretchr/testify/assert"
)

func TestTableCanonical(t *testing.T) {
	var table rbxdb.Table
	table.Define("Part", "size", rbxdb.Descriptor{
		Name: "Size",
		Type: rbxm.TypeVector3,
	})

	desc, ok := table.Canonical("Part", "size")
	assert.True(t, ok)
	assert.Equal(t, "Size", desc.Name)
	assert.Equal(t, rbxm.TypeVector3, desc.Type)

	_, ok = table.Canonical("Part", "Missing")
	assert.False(t, ok)
	_, ok = table.Canonical("Missing", "size")
	assert.False(t, ok)
}

func TestTableDefineName(t *testing.T) {
	var table rbxdb.Table
	// A descriptor without a name takes the serialized name.
	table.Define("Part", "Anchored", rbxdb.Descriptor{
		Type: rbxm.TypeBool,
	})
	desc, ok := table.Canonical("Part", "Anchored")
	assert.True(t, ok)
	assert.Equal(t, "Anchored", desc.Name)

	// Defining again replaces the previous descriptor.
	table.Define("Part", "Anchored", rbxdb.Descriptor{
		Name: "Pinned",
		Type: rbxm.TypeBool,
	})
	desc, _ = table.Canonical("Part", "Anchored")
	assert.Equal(t, "Pinned", desc.Name)
}

func TestTableDefaults(t *testing.T) {
	var table rbxdb.Table
	table.Define("Part", "Transparency", rbxdb.Descriptor{
		Type:    rbxm.TypeFloat,
		Default: rbxm.ValueFloat(0),
	})
	table.Define("Part", "Size", rbxdb.Descriptor{
		Type: rbxm.TypeVector3,
	})

	descs := table.Defaults("Part")
	assert.Len(t, descs, 1)
	assert.Equal(t, "Transparency", descs[0].Name)
	assert.Nil(t, table.Defaults("Missing"))
}

func TestNilTable(t *testing.T) {
	var table *rbxdb.Table
	_, ok := table.Canonical("Part", "Size")
	assert.False(t, ok)
	assert.Nil(t, table.Defaults("Part"))
}
