package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/omarchive/pkg/core"
)

// ErrUnknownProperty is returned for instance properties the instance's
// type does not declare.
var ErrUnknownProperty = errors.New("property not declared by type")

// properties types raw values against the attributes declared by typeName,
// its supertypes and this pack's patches.
func (a *applier) properties(typeName string, raw Properties) (core.InstanceProperties, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	declared := a.declared(typeName)

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var props core.InstanceProperties
	for _, name := range names {
		attr, ok := declared[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, typeName, name)
		}
		var err error
		if props, err = a.property(props, attr, raw[name]); err != nil {
			return nil, err
		}
	}
	return props, nil
}

func (a *applier) declared(typeName string) map[string]core.TypeDefAttribute {
	out := make(map[string]core.TypeDefAttribute)
	seen := make(map[string]bool)
	for name := typeName; name != "" && !seen[name]; {
		seen[name] = true
		for _, attr := range a.patched[name] {
			out[attr.Name] = attr
		}
		def := a.b.TypeDefByName(name)
		if def == nil {
			break
		}
		base := def.Base()
		for _, attr := range base.Properties {
			if _, ok := out[attr.Name]; !ok {
				out[attr.Name] = attr
			}
		}
		name = ""
		if base.SuperType != nil {
			name = base.SuperType.Name
		}
	}
	return out
}

func (a *applier) property(props core.InstanceProperties, attr core.TypeDefAttribute, v any) (core.InstanceProperties, error) {
	switch def := a.h.AttributeType(attr.Type).(type) {
	case *core.PrimitiveDef:
		return a.h.AddPrimitiveProperty(props, attr.Name, def.Kind, v)
	case *core.CollectionDef:
		return a.h.AddCollectionProperty(props, attr.Name, def, v)
	case *core.EnumDef:
		ordinal, err := enumOrdinal(def, v)
		if err != nil {
			return props, fmt.Errorf("%s: %w", attr.Name, err)
		}
		return a.h.AddEnumProperty(props, attr.Name, def.Name, ordinal)
	}
	return props, &core.ArchiveError{Kind: core.ErrBadDataType, Op: "Apply", Category: "TypeDefAttribute", ID: attr.Name, New: attr.Type.Name}
}

// enumOrdinal accepts an element's ordinal or its symbolic value.
func enumOrdinal(def *core.EnumDef, v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case string:
		for _, el := range def.Elements {
			if el.Value == x {
				return el.Ordinal, nil
			}
		}
		return 0, fmt.Errorf("%w: %q is not a value of %s", ErrInvalidPack, x, def.Name)
	}
	return 0, fmt.Errorf("%w: %v (%T) is not a value of %s", ErrInvalidPack, v, v, def.Name)
}
