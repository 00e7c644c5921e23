package rbxbin

import (
	"fmt"
	"sort"

	"github.com/robloxapi/rbxm"
	"github.com/robloxapi/rbxm/errors"
	"github.com/robloxapi/rbxm/rbxdb"
	"golang.org/x/crypto/blake2b"
)

// robloxCodec converts between a formatModel and a rbxm.Root.
type robloxCodec struct {
	// Mode indicates how the codec interprets data.
	Mode Mode

	// Strict causes chunks that would otherwise be skipped with a warning to
	// produce an error instead.
	Strict bool

	// DB describes the canonical form of properties. May be nil.
	DB rbxdb.Database
}

type indexError struct {
	Index int
	Len   int
}

func (err indexError) Error() string {
	return fmt.Sprintf("index %d exceeds length %d", err.Index, err.Len)
}

// propRef is a reference property waiting for its referent to be resolved.
type propRef struct {
	inst *rbxm.Instance
	prop string
	id   int32
}

// sharedRef is a shared string property waiting for the string table.
type sharedRef struct {
	inst  *rbxm.Instance
	prop  string
	index uint32
}

// migrateValue converts a decoded value to the canonical type described by a
// property descriptor. Only lossless conversions are performed; any other
// value is returned unchanged.
func migrateValue(v rbxm.Value, typ rbxm.Type) rbxm.Value {
	if v == nil || v.Type() == typ {
		return v
	}
	switch v := v.(type) {
	case rbxm.ValueInt:
		switch typ {
		case rbxm.TypeInt64:
			return v.Int64()
		case rbxm.TypeBrickColor:
			return rbxm.ValueBrickColor(v)
		}
	case rbxm.ValueFloat:
		if typ == rbxm.TypeDouble {
			return v.Double()
		}
	case rbxm.ValueString:
		switch typ {
		case rbxm.TypeBinaryString:
			return rbxm.ValueBinaryString(v)
		case rbxm.TypeProtectedString:
			return rbxm.ValueProtectedString(v)
		case rbxm.TypeContent:
			return rbxm.ValueContent(v)
		}
	}
	return v
}

////////////////////////////////////////////////////////////////

// Decode converts a formatModel to a rbxm.Root. Chunks that cannot be
// interpreted are skipped with a warning, unless Strict is set.
func (c robloxCodec) Decode(model *formatModel) (root *rbxm.Root, warn, err error) {
	if model == nil {
		return nil, nil, errors.New("formatModel is nil")
	}
	var warns errors.Errors

	root = new(rbxm.Root)

	groupLookup := make(map[int32]*chunkInstance, model.ClassCount)
	instLookup := make(map[int32]*rbxm.Instance, model.InstanceCount+1)
	instLookup[nilInstance] = nil
	instList := make([]*rbxm.Instance, 0, model.InstanceCount)

	var sharedStrings []sharedStringEntry
	propRefs := []propRef{}
	sharedRefs := []sharedRef{}
	attached := make(map[int32]bool, model.InstanceCount)

loop:
	for ic, ch := range model.Chunks {
		switch ch := ch.(type) {
		case *chunkInstance:
			if ch.ClassID < 0 || uint32(ch.ClassID) >= model.ClassCount {
				err = fmt.Errorf("class ID %d is out of bounds (%d classes)", ch.ClassID, model.ClassCount)
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}
			if _, ok := groupLookup[ch.ClassID]; ok {
				err = fmt.Errorf("duplicate class ID %d", ch.ClassID)
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}
			if ch.IsService && len(ch.GetService) != len(ch.InstanceIDs) {
				err = fmt.Errorf("length of GetService array (%d) does not match instance array (%d)", len(ch.GetService), len(ch.InstanceIDs))
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}
			for i, id := range ch.InstanceIDs {
				if id < 0 || uint32(id) >= model.InstanceCount {
					err = fmt.Errorf("instance ID %d is out of bounds (%d instances)", id, model.InstanceCount)
					return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
				}
				if _, ok := instLookup[id]; ok {
					err = fmt.Errorf("duplicate instance ID %d", id)
					return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
				}
				inst := rbxm.NewInstance(ch.ClassName, nil)
				inst.IsService = ch.IsService && ch.GetService[i] == 1
				instLookup[id] = inst
				instList = append(instList, inst)
			}
			groupLookup[ch.ClassID] = ch

		case *chunkProperty:
			if ch.DataType == typeInvalid {
				// Chunk has no value block.
				continue
			}
			instChunk, ok := groupLookup[ch.ClassID]
			if !ok {
				werr := ChunkError{Index: ic, Sig: ch.Signature(), Cause: fmt.Errorf("unknown class ID %d", ch.ClassID)}
				if c.Strict {
					return nil, warns.Return(), werr
				}
				warns = warns.Append(werr)
				continue
			}
			if err := c.decodeProperties(ch, instChunk, instLookup, &propRefs, &sharedRefs); err != nil {
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}

		case *chunkParent:
			if ch.Version != 0 {
				err = fmt.Errorf("unrecognized parent chunk version %d", ch.Version)
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}
			if len(ch.Parents) != len(ch.Children) {
				err = errParentArray{Children: len(ch.Children), Parents: len(ch.Parents)}
				return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
			}
			for i, childID := range ch.Children {
				child, ok := instLookup[childID]
				if !ok {
					err = fmt.Errorf("parent chunk refers to unknown child ID %d", childID)
					return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
				}
				if child == nil {
					continue
				}
				attached[childID] = true
				parentID := ch.Parents[i]
				if parentID == nilInstance {
					root.Instances = append(root.Instances, child)
					continue
				}
				parent, ok := instLookup[parentID]
				if !ok || parent == nil {
					err = fmt.Errorf("parent chunk refers to unknown parent ID %d", parentID)
					return nil, warns.Return(), ChunkError{Index: ic, Sig: ch.Signature(), Cause: err}
				}
				if err := parent.AddChild(child); err != nil {
					warns = warns.Append(err)
				}
			}

		case *chunkMeta:
			if root.Metadata != nil {
				warns = warns.Append(errors.New("file contains multiple metadata chunks"))
			}
			root.Metadata = make(map[string]string, len(ch.Values))
			for _, pair := range ch.Values {
				root.Metadata[pair[0]] = pair[1]
			}

		case *chunkSharedStrings:
			if sharedStrings != nil {
				warns = warns.Append(errors.New("file contains multiple shared string chunks"))
			}
			sharedStrings = ch.Values

		case *chunkEnd:
			if ch.Compressed() {
				warns = warns.Append(errEndChunkCompressed)
			}
			if string(ch.Content) != endChunkContent {
				warns = warns.Append(errEndChunkContent)
			}
			break loop

		case *chunkUnknown:
			werr := ChunkError{Index: ic, Sig: ch.Signature(), Cause: errUnknownChunkSig}
			if c.Strict {
				return nil, warns.Return(), werr
			}
			warns = warns.Append(werr)

		case *chunkErrored:
			werr := ChunkError{Index: ic, Sig: ch.Signature(), Cause: ch.Cause}
			if c.Strict {
				return nil, warns.Return(), werr
			}
			warns = warns.Append(werr)
		}
	}

	// Every instance must be placed by a parent chunk, either under another
	// instance or as a root.
	for id, inst := range instLookup {
		if inst == nil || attached[id] {
			continue
		}
		return nil, warns.Return(), fmt.Errorf("instance %d (%s) has no parent entry", id, inst.ClassName)
	}

	for _, pr := range propRefs {
		target, ok := instLookup[pr.id]
		if !ok {
			warns = warns.Append(fmt.Errorf("property %q refers to unknown instance ID %d", pr.prop, pr.id))
		}
		pr.inst.Properties[pr.prop] = rbxm.ValueReference{Instance: target}
	}

	for _, sr := range sharedRefs {
		if int(sr.index) >= len(sharedStrings) {
			warns = warns.Append(indexError{Index: int(sr.index), Len: len(sharedStrings)})
			continue
		}
		value := make(rbxm.ValueSharedString, len(sharedStrings[sr.index].Value))
		copy(value, sharedStrings[sr.index].Value)
		sr.inst.Properties[sr.prop] = value
	}

	if c.DB != nil {
		for _, inst := range instList {
			for _, desc := range c.DB.Defaults(inst.ClassName) {
				if _, ok := inst.Properties[desc.Name]; !ok {
					inst.Properties[desc.Name] = desc.Default.Copy()
				}
			}
		}
	}

	return root, warns.Return(), nil
}

// decodeProperties decodes the value block of a property chunk, assigning
// one value to each instance in the paired instance chunk. Reference and
// shared string values are accumulated for later resolution.
func (c robloxCodec) decodeProperties(ch *chunkProperty, instChunk *chunkInstance, instLookup map[int32]*rbxm.Instance, propRefs *[]propRef, sharedRefs *[]sharedRef) error {
	a := newArray(ch.DataType, len(instChunk.InstanceIDs))
	if a == nil {
		return errUnknownType(ch.DataType)
	}
	if _, err := arrayFromBytes(ch.Raw, a); err != nil {
		return err
	}

	name := ch.PropertyName
	var desc rbxdb.Descriptor
	var hasDesc bool
	if c.DB != nil {
		if desc, hasDesc = c.DB.Canonical(instChunk.ClassName, ch.PropertyName); hasDesc {
			name = desc.Name
		}
	}

	set := func(i int, v rbxm.Value) {
		if hasDesc {
			v = migrateValue(v, desc.Type)
		}
		if inst := instLookup[instChunk.InstanceIDs[i]]; inst != nil {
			inst.Properties[name] = v
		}
	}

	switch a := a.(type) {
	case arrayString:
		for i, v := range a {
			value := make(rbxm.ValueString, len(v))
			copy(value, v)
			set(i, value)
		}
	case arrayBool:
		for i, v := range a {
			set(i, rbxm.ValueBool(v))
		}
	case arrayInt:
		for i, v := range a {
			set(i, rbxm.ValueInt(v))
		}
	case arrayFloat:
		for i, v := range a {
			set(i, rbxm.ValueFloat(v))
		}
	case arrayDouble:
		for i, v := range a {
			set(i, rbxm.ValueDouble(v))
		}
	case arrayUDim:
		for i, v := range a {
			set(i, rbxm.ValueUDim{
				Scale:  float32(v.Scale),
				Offset: int32(v.Offset),
			})
		}
	case arrayUDim2:
		for i, v := range a {
			set(i, rbxm.ValueUDim2{
				X: rbxm.ValueUDim{Scale: float32(v.ScaleX), Offset: int32(v.OffsetX)},
				Y: rbxm.ValueUDim{Scale: float32(v.ScaleY), Offset: int32(v.OffsetY)},
			})
		}
	case arrayRay:
		for i, v := range a {
			set(i, rbxm.ValueRay{
				Origin:    rbxm.ValueVector3{X: v.OriginX, Y: v.OriginY, Z: v.OriginZ},
				Direction: rbxm.ValueVector3{X: v.DirectionX, Y: v.DirectionY, Z: v.DirectionZ},
			})
		}
	case arrayFaces:
		for i, v := range a {
			set(i, rbxm.ValueFaces{
				Right:  v.Right,
				Top:    v.Top,
				Back:   v.Back,
				Left:   v.Left,
				Bottom: v.Bottom,
				Front:  v.Front,
			})
		}
	case arrayAxes:
		for i, v := range a {
			set(i, rbxm.ValueAxes{X: v.X, Y: v.Y, Z: v.Z})
		}
	case arrayBrickColor:
		for i, v := range a {
			set(i, rbxm.ValueBrickColor(uint32(v)))
		}
	case arrayColor3:
		for i, v := range a {
			set(i, rbxm.ValueColor3{R: float32(v.R), G: float32(v.G), B: float32(v.B)})
		}
	case arrayVector2:
		for i, v := range a {
			set(i, rbxm.ValueVector2{X: float32(v.X), Y: float32(v.Y)})
		}
	case arrayVector3:
		for i, v := range a {
			set(i, rbxm.ValueVector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)})
		}
	case arrayVector2int16:
		for i, v := range a {
			set(i, rbxm.ValueVector2int16{X: v.X, Y: v.Y})
		}
	case arrayCFrame:
		for i, v := range a {
			value, err := decodeCFrame(v)
			if err != nil {
				return err
			}
			set(i, value)
		}
	case arrayToken:
		for i, v := range a {
			set(i, rbxm.ValueToken(uint32(v)))
		}
	case arrayReference:
		for i, v := range a {
			inst := instLookup[instChunk.InstanceIDs[i]]
			if inst == nil {
				continue
			}
			*propRefs = append(*propRefs, propRef{inst: inst, prop: name, id: int32(v)})
		}
	case arrayVector3int16:
		for i, v := range a {
			set(i, rbxm.ValueVector3int16{X: v.X, Y: v.Y, Z: v.Z})
		}
	case arrayNumberSequence:
		for i, v := range a {
			value := make(rbxm.ValueNumberSequence, len(v))
			for k, nsk := range v {
				value[k] = rbxm.ValueNumberSequenceKeypoint{
					Time:     nsk.Time,
					Value:    nsk.Value,
					Envelope: nsk.Envelope,
				}
			}
			set(i, value)
		}
	case arrayColorSequence:
		for i, v := range a {
			value := make(rbxm.ValueColorSequence, len(v))
			for k, csk := range v {
				value[k] = rbxm.ValueColorSequenceKeypoint{
					Time:     csk.Time,
					Value:    rbxm.ValueColor3{R: csk.R, G: csk.G, B: csk.B},
					Envelope: csk.Envelope,
				}
			}
			set(i, value)
		}
	case arrayNumberRange:
		for i, v := range a {
			set(i, rbxm.ValueNumberRange{Min: v.Min, Max: v.Max})
		}
	case arrayRect:
		for i, v := range a {
			set(i, rbxm.ValueRect{
				Min: rbxm.ValueVector2{X: float32(v.Min.X), Y: float32(v.Min.Y)},
				Max: rbxm.ValueVector2{X: float32(v.Max.X), Y: float32(v.Max.Y)},
			})
		}
	case arrayPhysicalProperties:
		for i, v := range a {
			set(i, rbxm.ValuePhysicalProperties{
				CustomPhysics:    v.CustomPhysics != 0,
				Density:          v.Density,
				Friction:         v.Friction,
				Elasticity:       v.Elasticity,
				FrictionWeight:   v.FrictionWeight,
				ElasticityWeight: v.ElasticityWeight,
				CrossFriction:    v.CrossFriction,
				CrossElasticity:  v.CrossElasticity,
			})
		}
	case arrayColor3uint8:
		for i, v := range a {
			set(i, rbxm.ValueColor3uint8{R: v.R, G: v.G, B: v.B})
		}
	case arrayInt64:
		for i, v := range a {
			set(i, rbxm.ValueInt64(v))
		}
	case arraySharedString:
		for i, v := range a {
			inst := instLookup[instChunk.InstanceIDs[i]]
			if inst == nil {
				continue
			}
			*sharedRefs = append(*sharedRefs, sharedRef{inst: inst, prop: name, index: uint32(v)})
		}
	case arrayOptionalCFrame:
		for i, v := range a {
			if !v.Present {
				set(i, rbxm.None(rbxm.TypeCFrame))
				continue
			}
			value, err := decodeCFrame(v.CFrame)
			if err != nil {
				return err
			}
			set(i, rbxm.Some(value))
		}
	}
	return nil
}

// decodeCFrame converts a serialized CFrame, resolving special rotation IDs
// to their matrices.
func decodeCFrame(v valueCFrame) (rbxm.ValueCFrame, error) {
	value := rbxm.ValueCFrame{
		Position: rbxm.ValueVector3{
			X: float32(v.Position.X),
			Y: float32(v.Position.Y),
			Z: float32(v.Position.Z),
		},
	}
	if v.Special == 0 {
		value.Rotation = v.Rotation
		return value, nil
	}
	mat, ok := cframeSpecialMatrix[v.Special]
	if !ok {
		return value, ValueError{
			Type:  byte(typeCFrame),
			Cause: fmt.Errorf("unknown rotation ID 0x%02X", v.Special),
		}
	}
	value.Rotation = mat
	return value, nil
}

// encodeCFrame converts a CFrame for serialization, replacing axis-aligned
// rotation matrices with their special IDs.
func encodeCFrame(v rbxm.ValueCFrame) valueCFrame {
	value := valueCFrame{
		Position: valueVector3{
			X: valueFloat(v.Position.X),
			Y: valueFloat(v.Position.Y),
			Z: valueFloat(v.Position.Z),
		},
	}
	if special, ok := cframeSpecialNumber[v.Rotation]; ok {
		value.Special = special
		return value
	}
	value.Rotation = v.Rotation
	return value
}

////////////////////////////////////////////////////////////////

// sharedMap accumulates shared strings during encoding, deduplicated by
// content hash. Indexes are assigned in insertion order.
type sharedMap struct {
	lookup  map[[16]byte]uint32
	entries []sharedStringEntry
}

func (m *sharedMap) index(value rbxm.ValueSharedString) uint32 {
	sum := blake2b.Sum256(value)
	var key [16]byte
	copy(key[:], sum[:])
	if index, ok := m.lookup[key]; ok {
		return index
	}
	if m.lookup == nil {
		m.lookup = map[[16]byte]uint32{}
	}
	index := uint32(len(m.entries))
	m.lookup[key] = index
	// The hash field is no longer written by Roblox, so it is left zeroed.
	m.entries = append(m.entries, sharedStringEntry{Value: value})
	return index
}

////////////////////////////////////////////////////////////////

// Encode converts a rbxm.Root to a formatModel. Properties that cannot be
// serialized are skipped with a warning.
func (c robloxCodec) Encode(root *rbxm.Root) (model *formatModel, warn, err error) {
	if root == nil {
		return nil, nil, errors.New("root is nil")
	}
	var warns errors.Errors

	model = new(formatModel)
	model.Version = 0

	// Assign instance IDs in traversal order.
	refs := map[*rbxm.Instance]int32{}
	instList := []*rbxm.Instance{}
	var addInstance func(inst *rbxm.Instance)
	addInstance = func(inst *rbxm.Instance) {
		if _, ok := refs[inst]; ok {
			return
		}
		refs[inst] = int32(len(instList))
		instList = append(instList, inst)
		for _, child := range inst.Children() {
			addInstance(child)
		}
	}
	for _, inst := range root.Instances {
		if inst == nil {
			continue
		}
		addInstance(inst)
	}

	// Group instances by class. Groups are ordered by first encounter.
	groups := map[string]*chunkInstance{}
	classList := []*chunkInstance{}
	for _, inst := range instList {
		group, ok := groups[inst.ClassName]
		if !ok {
			group = &chunkInstance{
				IsCompressed: true,
				ClassID:      int32(len(classList)),
				ClassName:    inst.ClassName,
			}
			groups[inst.ClassName] = group
			classList = append(classList, group)
		}
		group.InstanceIDs = append(group.InstanceIDs, refs[inst])
		if inst.IsService {
			if c.Mode == Model {
				warns = warns.Append(fmt.Errorf("instance %q is a service; services cannot be encoded in a model", inst.GetFullName()))
			} else {
				group.IsService = true
			}
		}
	}
	for _, group := range classList {
		if !group.IsService {
			continue
		}
		group.GetService = make([]byte, len(group.InstanceIDs))
		for i, id := range group.InstanceIDs {
			if instList[id].IsService {
				group.GetService[i] = 1
			}
		}
	}

	shared := new(sharedMap)
	propChunkList := []*chunkProperty{}
	for _, group := range classList {
		propChunks, w, err := c.encodePropChunks(group, instList, refs, shared)
		warns = warns.Append(w...)
		if err != nil {
			return nil, warns.Return(), err
		}
		propChunkList = append(propChunkList, propChunks...)
	}

	// Emit parent links depth-first, children before parents.
	parentChunk := &chunkParent{
		IsCompressed: true,
		Version:      0,
		Children:     make([]int32, 0, len(instList)),
		Parents:      make([]int32, 0, len(instList)),
	}
	var addParents func(inst *rbxm.Instance)
	addParents = func(inst *rbxm.Instance) {
		for _, child := range inst.Children() {
			addParents(child)
		}
		parentID := int32(nilInstance)
		if parent := inst.Parent(); parent != nil {
			if id, ok := refs[parent]; ok {
				parentID = id
			}
		}
		parentChunk.Children = append(parentChunk.Children, refs[inst])
		parentChunk.Parents = append(parentChunk.Parents, parentID)
	}
	for _, inst := range root.Instances {
		if inst == nil {
			continue
		}
		addParents(inst)
	}

	model.ClassCount = uint32(len(classList))
	model.InstanceCount = uint32(len(instList))

	if len(root.Metadata) > 0 {
		metaChunk := &chunkMeta{
			IsCompressed: true,
			Values:       make([][2]string, 0, len(root.Metadata)),
		}
		for key, value := range root.Metadata {
			metaChunk.Values = append(metaChunk.Values, [2]string{key, value})
		}
		sort.Slice(metaChunk.Values, func(i, j int) bool {
			return metaChunk.Values[i][0] < metaChunk.Values[j][0]
		})
		model.Chunks = append(model.Chunks, metaChunk)
	}
	if len(shared.entries) > 0 {
		model.Chunks = append(model.Chunks, &chunkSharedStrings{
			IsCompressed: true,
			Version:      0,
			Values:       shared.entries,
		})
	}
	for _, group := range classList {
		model.Chunks = append(model.Chunks, group)
	}
	for _, propChunk := range propChunkList {
		model.Chunks = append(model.Chunks, propChunk)
	}
	if len(instList) > 0 {
		model.Chunks = append(model.Chunks, parentChunk)
	}
	model.Chunks = append(model.Chunks, &chunkEnd{
		IsCompressed: false,
		Content:      []byte(endChunkContent),
	})

	return model, warns.Return(), nil
}

// encodePropChunks builds one property chunk for each property name that
// appears on any instance of a group. Instances missing a property get the
// default value from the database, or the zero value of the type.
func (c robloxCodec) encodePropChunks(group *chunkInstance, instList []*rbxm.Instance, refs map[*rbxm.Instance]int32, shared *sharedMap) (chunks []*chunkProperty, warns errors.Errors, err error) {
	// Union of property names across the group.
	propNames := map[string]typeID{}
	for _, id := range group.InstanceIDs {
		for name, value := range instList[id].Properties {
			if _, ok := propNames[name]; ok {
				continue
			}
			t := fromValueType(value.Type())
			if t == typeInvalid {
				warns = warns.Append(fmt.Errorf("property %s.%s has unserializable type %s", group.ClassName, name, value.Type()))
				continue
			}
			propNames[name] = t
		}
	}

	nameList := make([]string, 0, len(propNames))
	for name := range propNames {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)

	for _, name := range nameList {
		dataType := propNames[name]
		var defaultValue rbxm.Value
		if c.DB != nil {
			if desc, ok := c.DB.Canonical(group.ClassName, name); ok {
				dataType = fromValueType(desc.Type)
				defaultValue = desc.Default
			}
		}

		a, perr := c.encodePropArray(group, instList, name, dataType, defaultValue, refs, shared)
		if perr != nil {
			warns = warns.Append(fmt.Errorf("property %s.%s: %w", group.ClassName, name, perr))
			continue
		}

		raw, aerr := arrayToBytes(make([]byte, 0, 16), a)
		if aerr != nil {
			return nil, warns, aerr
		}
		chunks = append(chunks, &chunkProperty{
			IsCompressed: true,
			ClassID:      group.ClassID,
			PropertyName: name,
			DataType:     dataType,
			Raw:          raw,
		})
	}
	return chunks, warns, nil
}

type typeMismatchError struct {
	expected typeID
	got      rbxm.Type
}

func (err typeMismatchError) Error() string {
	return fmt.Sprintf("expected type %s, got %s", err.expected, err.got)
}

// encodePropArray builds the value array for a single property chunk. The
// value of each instance must convert to the chunk's type, or the chunk is
// abandoned.
func (c robloxCodec) encodePropArray(group *chunkInstance, instList []*rbxm.Instance, name string, t typeID, defaultValue rbxm.Value, refs map[*rbxm.Instance]int32, shared *sharedMap) (array, error) {
	get := func(i int) rbxm.Value {
		value, ok := instList[group.InstanceIDs[i]].Properties[name]
		if !ok || value == nil {
			if defaultValue != nil {
				return defaultValue
			}
			return rbxm.NewValue(t.ValueType())
		}
		return value
	}

	n := len(group.InstanceIDs)
	switch t {
	case typeString:
		a := make(arrayString, n)
		for i := range a {
			switch v := get(i).(type) {
			case rbxm.ValueString:
				a[i] = valueString(v)
			case rbxm.ValueBinaryString:
				a[i] = valueString(v)
			case rbxm.ValueProtectedString:
				a[i] = valueString(v)
			case rbxm.ValueContent:
				a[i] = valueString(v)
			default:
				return nil, typeMismatchError{expected: t, got: v.Type()}
			}
		}
		return a, nil
	case typeBool:
		a := make(arrayBool, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueBool)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueBool(v)
		}
		return a, nil
	case typeInt:
		a := make(arrayInt, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueInt)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueInt(v)
		}
		return a, nil
	case typeFloat:
		a := make(arrayFloat, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueFloat)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueFloat(v)
		}
		return a, nil
	case typeDouble:
		a := make(arrayDouble, n)
		for i := range a {
			switch v := get(i).(type) {
			case rbxm.ValueDouble:
				a[i] = valueDouble(v)
			case rbxm.ValueFloat:
				a[i] = valueDouble(v.Double())
			default:
				return nil, typeMismatchError{expected: t, got: v.Type()}
			}
		}
		return a, nil
	case typeUDim:
		a := make(arrayUDim, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueUDim)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueUDim{Scale: valueFloat(v.Scale), Offset: valueInt(v.Offset)}
		}
		return a, nil
	case typeUDim2:
		a := make(arrayUDim2, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueUDim2)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueUDim2{
				ScaleX:  valueFloat(v.X.Scale),
				ScaleY:  valueFloat(v.Y.Scale),
				OffsetX: valueInt(v.X.Offset),
				OffsetY: valueInt(v.Y.Offset),
			}
		}
		return a, nil
	case typeRay:
		a := make(arrayRay, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueRay)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueRay{
				OriginX:    v.Origin.X,
				OriginY:    v.Origin.Y,
				OriginZ:    v.Origin.Z,
				DirectionX: v.Direction.X,
				DirectionY: v.Direction.Y,
				DirectionZ: v.Direction.Z,
			}
		}
		return a, nil
	case typeFaces:
		a := make(arrayFaces, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueFaces)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueFaces{
				Right:  v.Right,
				Top:    v.Top,
				Back:   v.Back,
				Left:   v.Left,
				Bottom: v.Bottom,
				Front:  v.Front,
			}
		}
		return a, nil
	case typeAxes:
		a := make(arrayAxes, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueAxes)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueAxes{X: v.X, Y: v.Y, Z: v.Z}
		}
		return a, nil
	case typeBrickColor:
		a := make(arrayBrickColor, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueBrickColor)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueBrickColor(int32(v))
		}
		return a, nil
	case typeColor3:
		a := make(arrayColor3, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueColor3)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueColor3{R: valueFloat(v.R), G: valueFloat(v.G), B: valueFloat(v.B)}
		}
		return a, nil
	case typeVector2:
		a := make(arrayVector2, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueVector2)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueVector2{X: valueFloat(v.X), Y: valueFloat(v.Y)}
		}
		return a, nil
	case typeVector3:
		a := make(arrayVector3, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueVector3)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueVector3{X: valueFloat(v.X), Y: valueFloat(v.Y), Z: valueFloat(v.Z)}
		}
		return a, nil
	case typeVector2int16:
		a := make(arrayVector2int16, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueVector2int16)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueVector2int16{X: v.X, Y: v.Y}
		}
		return a, nil
	case typeCFrame:
		a := make(arrayCFrame, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueCFrame)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = encodeCFrame(v)
		}
		return a, nil
	case typeToken:
		a := make(arrayToken, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueToken)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueToken(v)
		}
		return a, nil
	case typeReference:
		a := make(arrayReference, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueReference)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			id := int32(nilInstance)
			if v.Instance != nil {
				if ref, ok := refs[v.Instance]; ok {
					id = ref
				}
			}
			a[i] = valueReference(id)
		}
		return a, nil
	case typeVector3int16:
		a := make(arrayVector3int16, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueVector3int16)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueVector3int16{X: v.X, Y: v.Y, Z: v.Z}
		}
		return a, nil
	case typeNumberSequence:
		a := make(arrayNumberSequence, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueNumberSequence)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			seq := make(valueNumberSequence, len(v))
			for k, nsk := range v {
				seq[k] = valueNumberSequenceKeypoint{
					Time:     nsk.Time,
					Value:    nsk.Value,
					Envelope: nsk.Envelope,
				}
			}
			a[i] = seq
		}
		return a, nil
	case typeColorSequence:
		a := make(arrayColorSequence, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueColorSequence)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			seq := make(valueColorSequence, len(v))
			for k, csk := range v {
				seq[k] = valueColorSequenceKeypoint{
					Time:     csk.Time,
					R:        csk.Value.R,
					G:        csk.Value.G,
					B:        csk.Value.B,
					Envelope: csk.Envelope,
				}
			}
			a[i] = seq
		}
		return a, nil
	case typeNumberRange:
		a := make(arrayNumberRange, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueNumberRange)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueNumberRange{Min: v.Min, Max: v.Max}
		}
		return a, nil
	case typeRect:
		a := make(arrayRect, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueRect)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueRect{
				Min: valueVector2{X: valueFloat(v.Min.X), Y: valueFloat(v.Min.Y)},
				Max: valueVector2{X: valueFloat(v.Max.X), Y: valueFloat(v.Max.Y)},
			}
		}
		return a, nil
	case typePhysicalProperties:
		a := make(arrayPhysicalProperties, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValuePhysicalProperties)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			var custom byte
			if v.CustomPhysics {
				custom = 1
			}
			a[i] = valuePhysicalProperties{
				CustomPhysics:    custom,
				Density:          v.Density,
				Friction:         v.Friction,
				Elasticity:       v.Elasticity,
				FrictionWeight:   v.FrictionWeight,
				ElasticityWeight: v.ElasticityWeight,
				CrossFriction:    v.CrossFriction,
				CrossElasticity:  v.CrossElasticity,
			}
		}
		return a, nil
	case typeColor3uint8:
		a := make(arrayColor3uint8, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueColor3uint8)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueColor3uint8{R: v.R, G: v.G, B: v.B}
		}
		return a, nil
	case typeInt64:
		a := make(arrayInt64, n)
		for i := range a {
			switch v := get(i).(type) {
			case rbxm.ValueInt64:
				a[i] = valueInt64(v)
			case rbxm.ValueInt:
				a[i] = valueInt64(v.Int64())
			default:
				return nil, typeMismatchError{expected: t, got: v.Type()}
			}
		}
		return a, nil
	case typeSharedString:
		a := make(arraySharedString, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueSharedString)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			a[i] = valueSharedString(shared.index(v))
		}
		return a, nil
	case typeOptionalCFrame:
		a := make(arrayOptionalCFrame, n)
		for i := range a {
			v, ok := get(i).(rbxm.ValueOptional)
			if !ok {
				return nil, typeMismatchError{expected: t, got: get(i).Type()}
			}
			if v.Value == nil {
				// Identity rotation stands in for the absent value.
				a[i] = valueOptionalCFrame{CFrame: valueCFrame{Special: 0x02}}
				continue
			}
			cf, ok := v.Value.(rbxm.ValueCFrame)
			if !ok {
				return nil, typeMismatchError{expected: t, got: v.Value.Type()}
			}
			a[i] = valueOptionalCFrame{CFrame: encodeCFrame(cf), Present: true}
		}
		return a, nil
	}
	return nil, errUnknownType(t)
}
