package helper

import (
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/omarchive/pkg/core"
)

// The Add*Property helpers set one property and return the (possibly newly
// allocated) property map. Empty values are skipped so optional properties
// can be passed straight through.

func (h *Helper) primitive(kind core.PrimitiveKind, v any) *core.PrimitiveValue {
	def := primitiveDef(kind)
	return &core.PrimitiveValue{Kind: kind, TypeGUID: def.GUID, TypeName: def.Name, Value: v}
}

func set(props core.InstanceProperties, name string, v core.PropertyValue) core.InstanceProperties {
	if props == nil {
		props = make(core.InstanceProperties)
	}
	props[name] = v
	return props
}

// AddStringProperty sets a string property unless value is empty.
func (h *Helper) AddStringProperty(props core.InstanceProperties, name, value string) core.InstanceProperties {
	if value == "" {
		return props
	}
	return set(props, name, h.primitive(core.PrimitiveString, value))
}

// AddIntProperty sets an int property.
func (h *Helper) AddIntProperty(props core.InstanceProperties, name string, value int) core.InstanceProperties {
	return set(props, name, h.primitive(core.PrimitiveInt, value))
}

// AddLongProperty sets a long property.
func (h *Helper) AddLongProperty(props core.InstanceProperties, name string, value int64) core.InstanceProperties {
	return set(props, name, h.primitive(core.PrimitiveLong, value))
}

// AddBooleanProperty sets a boolean property.
func (h *Helper) AddBooleanProperty(props core.InstanceProperties, name string, value bool) core.InstanceProperties {
	return set(props, name, h.primitive(core.PrimitiveBoolean, value))
}

// AddDateProperty sets a date property unless value is the zero time.
func (h *Helper) AddDateProperty(props core.InstanceProperties, name string, value time.Time) core.InstanceProperties {
	if value.IsZero() {
		return props
	}
	return set(props, name, h.primitive(core.PrimitiveDate, value))
}

// AddStringArrayProperty sets an array<string> property unless values is
// empty.
func (h *Helper) AddStringArrayProperty(props core.InstanceProperties, name string, values []string) core.InstanceProperties {
	if len(values) == 0 {
		return props
	}
	def := collectionDef(core.CollectionArray, core.PrimitiveString)
	arr := &core.ArrayValue{TypeGUID: def.GUID, TypeName: def.Name}
	for _, v := range values {
		arr.Values = append(arr.Values, h.primitive(core.PrimitiveString, v))
	}
	return set(props, name, arr)
}

// AddStringMapProperty sets a map<string,string> property unless values is
// empty.
func (h *Helper) AddStringMapProperty(props core.InstanceProperties, name string, values map[string]string) core.InstanceProperties {
	if len(values) == 0 {
		return props
	}
	def := collectionDef(core.CollectionMap, core.PrimitiveString, core.PrimitiveString)
	m := &core.MapValue{TypeGUID: def.GUID, TypeName: def.Name, Values: make(core.InstanceProperties, len(values))}
	for k, v := range values {
		m.Values[k] = h.primitive(core.PrimitiveString, v)
	}
	return set(props, name, m)
}

// AddEnumProperty sets a property to the element of a registered enum with
// the given ordinal, falling back to the enum's default.
func (h *Helper) AddEnumProperty(props core.InstanceProperties, name, enumName string, ordinal int) (core.InstanceProperties, error) {
	def, ok := h.reg.AttributeTypeDefByName(enumName).(*core.EnumDef)
	if !ok {
		return props, &core.ArchiveError{Kind: core.ErrMissingType, Op: "AddEnumProperty", Category: "EnumDef", ID: enumName}
	}
	elem := h.EnumElement(def, ordinal)
	if elem == nil {
		h.logger.Warn("enum has no such ordinal and no default", "enum", enumName, "ordinal", ordinal)
		return props, nil
	}
	return set(props, name, &core.EnumValue{
		TypeGUID:    def.GUID,
		TypeName:    def.Name,
		Ordinal:     elem.Ordinal,
		Symbolic:    elem.Value,
		Description: elem.Description,
	}), nil
}

// AddPrimitiveProperty sets a property of any primitive kind, coercing
// value to the Go type the kind is stored as. A nil value is skipped.
func (h *Helper) AddPrimitiveProperty(props core.InstanceProperties, name string, kind core.PrimitiveKind, value any) (core.InstanceProperties, error) {
	v, err := core.NormalizePrimitive(kind, value)
	if err != nil {
		return props, &core.ArchiveError{Kind: core.ErrBadDataType, Op: "AddPrimitiveProperty", Category: "PrimitiveDef", ID: name, Cause: err}
	}
	if v == nil {
		return props, nil
	}
	return set(props, name, h.primitive(kind, v)), nil
}

// AddCollectionProperty sets an array or map property. value must be a
// []any for arrays and a map[string]any for maps; elements are coerced to the
// collection's primitive argument types. Empty collections are skipped.
func (h *Helper) AddCollectionProperty(props core.InstanceProperties, name string, def *core.CollectionDef, value any) (core.InstanceProperties, error) {
	const op = "AddCollectionProperty"
	bad := func(cause error) error {
		return &core.ArchiveError{Kind: core.ErrBadDataType, Op: op, Category: "CollectionDef", ID: name, New: def.Name, Cause: cause}
	}

	switch def.Kind {
	case core.CollectionArray:
		if len(def.ArgumentTypes) != 1 {
			return props, bad(fmt.Errorf("array takes one argument type, has %d", len(def.ArgumentTypes)))
		}
		items, ok := value.([]any)
		if !ok {
			return props, bad(fmt.Errorf("value is %T, not a list", value))
		}
		if len(items) == 0 {
			return props, nil
		}
		arr := &core.ArrayValue{TypeGUID: def.GUID, TypeName: def.Name}
		for i, item := range items {
			v, err := core.NormalizePrimitive(def.ArgumentTypes[0], item)
			if err != nil {
				return props, bad(fmt.Errorf("element %d: %w", i, err))
			}
			arr.Values = append(arr.Values, h.primitive(def.ArgumentTypes[0], v))
		}
		return set(props, name, arr), nil

	case core.CollectionMap:
		if len(def.ArgumentTypes) != 2 {
			return props, bad(fmt.Errorf("map takes two argument types, has %d", len(def.ArgumentTypes)))
		}
		entries, ok := value.(map[string]any)
		if !ok {
			return props, bad(fmt.Errorf("value is %T, not a mapping", value))
		}
		if len(entries) == 0 {
			return props, nil
		}
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := &core.MapValue{TypeGUID: def.GUID, TypeName: def.Name, Values: make(core.InstanceProperties, len(entries))}
		for _, k := range keys {
			v, err := core.NormalizePrimitive(def.ArgumentTypes[1], entries[k])
			if err != nil {
				return props, bad(fmt.Errorf("key %q: %w", k, err))
			}
			m.Values[k] = h.primitive(def.ArgumentTypes[1], v)
		}
		return set(props, name, m), nil
	}
	return props, bad(fmt.Errorf("unknown collection kind %q", def.Kind))
}
