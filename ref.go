package rbxm

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// References tracks which reference string names which Instance while a tree
// is built, copied, or decoded.
type References map[string]*Instance

// PropRef records a reference-typed property whose referent was named before
// the target instance existed. Callers collect PropRefs while walking a tree
// and resolve them once every instance is known.
type PropRef struct {
	Instance  *Instance
	Property  string
	Reference string
}

// Resolve looks up the referent named by pr and stores it in the property. A
// name with no referent stores a nil reference. Reports whether a referent
// was found.
func (refs References) Resolve(pr PropRef) bool {
	if refs == nil || pr.Instance == nil {
		return false
	}
	target := refs[pr.Reference]
	pr.Instance.Properties[pr.Property] = ValueReference{Instance: target}
	return target != nil && !IsEmptyReference(pr.Reference)
}

// Get returns a reference for inst that is unique within refs, recording it
// in refs. The instance's current reference is reused when possible; a
// reference that is empty, or already claimed by another instance, is
// replaced with a fresh one.
func (refs References) Get(inst *Instance) string {
	if inst == nil {
		return ""
	}
	ref := inst.Reference
	if refs == nil {
		return ref
	}
	for IsEmptyReference(ref) || (refs[ref] != nil && refs[ref] != inst) {
		ref = GenerateReference()
	}
	inst.Reference = ref
	refs[ref] = inst
	return ref
}

// IsEmptyReference reports whether ref is one of the placeholder strings
// that mean "no referent".
func IsEmptyReference(ref string) bool {
	return ref == "" || ref == "null" || ref == "nil"
}

// GenerateReference returns a fresh instance reference in the producer's
// form, "RBX" followed by 32 upper-case hexadecimal digits.
func GenerateReference() string {
	id := uuid.New()
	return "RBX" + strings.ToUpper(hex.EncodeToString(id[:]))
}
