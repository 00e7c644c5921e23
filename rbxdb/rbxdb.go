// The rbxdb package describes the properties of Roblox classes.
//
// A Database answers questions about the canonical form of a property: its
// canonical name, its canonical type, and its default value. Codecs consult a
// Database to migrate serialized properties to their canonical form, and to
// fill in values for properties that are missing from a serialized stream.
package rbxdb

import (
	"github.com/robloxapi/rbxm"
)

// Descriptor describes the canonical form of a single property.
type Descriptor struct {
	// Name is the canonical name of the property.
	Name string

	// Type is the canonical type of the property.
	Type rbxm.Type

	// Default is the value used when the property is missing from a
	// serialized stream. Can be nil, indicating no default.
	Default rbxm.Value
}

// Database is an oracle describing the properties of classes. A nil Database
// is valid; every lookup misses, and codecs pass properties through verbatim.
type Database interface {
	// Canonical returns the descriptor for a property of a class, looked up
	// by serialized name. Returns false if the class or property is not
	// described by the database.
	Canonical(class, property string) (Descriptor, bool)

	// Defaults returns the descriptors of every property of a class that has
	// a default value. The order of the result is unspecified.
	Defaults(class string) []Descriptor
}

// Table is an in-memory Database. The zero value is an empty table ready for
// use. A Table must not be modified while lookups are in progress; a table
// populated before use is safe for concurrent lookup.
type Table struct {
	classes map[string]map[string]Descriptor
}

// Define adds a descriptor for a property of a class, looked up by the given
// serialized name. A previous descriptor under the same class and name is
// replaced.
func (t *Table) Define(class, property string, desc Descriptor) {
	if t.classes == nil {
		t.classes = map[string]map[string]Descriptor{}
	}
	props := t.classes[class]
	if props == nil {
		props = map[string]Descriptor{}
		t.classes[class] = props
	}
	if desc.Name == "" {
		desc.Name = property
	}
	props[property] = desc
}

// Canonical implements Database.
func (t *Table) Canonical(class, property string) (Descriptor, bool) {
	if t == nil {
		return Descriptor{}, false
	}
	desc, ok := t.classes[class][property]
	return desc, ok
}

// Defaults returns the descriptors of every property of a class that has a
// default value. The order of the result is unspecified.
func (t *Table) Defaults(class string) []Descriptor {
	if t == nil {
		return nil
	}
	var descs []Descriptor
	for _, desc := range t.classes[class] {
		if desc.Default != nil {
			descs = append(descs, desc)
		}
	}
	return descs
}
