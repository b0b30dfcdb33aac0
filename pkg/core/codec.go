package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sealed-interface collections are encoded as single-key envelopes naming
// the variant, e.g. {"entityDef": {...}}, in both JSON and YAML.

var errEmptyEnvelope = errors.New("envelope names no variant")

type attributeTypeDefEnvelope struct {
	Primitive  *PrimitiveDef  `json:"primitiveDef,omitempty" yaml:"primitiveDef,omitempty"`
	Collection *CollectionDef `json:"collectionDef,omitempty" yaml:"collectionDef,omitempty"`
	Enum       *EnumDef       `json:"enumDef,omitempty" yaml:"enumDef,omitempty"`
}

func wrapAttributeTypeDef(def AttributeTypeDef) (attributeTypeDefEnvelope, error) {
	switch d := def.(type) {
	case *PrimitiveDef:
		return attributeTypeDefEnvelope{Primitive: d}, nil
	case *CollectionDef:
		return attributeTypeDefEnvelope{Collection: d}, nil
	case *EnumDef:
		return attributeTypeDefEnvelope{Enum: d}, nil
	}
	return attributeTypeDefEnvelope{}, fmt.Errorf("unsupported attribute type def %T", def)
}

func (e attributeTypeDefEnvelope) unwrap() (AttributeTypeDef, error) {
	switch {
	case e.Primitive != nil:
		return e.Primitive, nil
	case e.Collection != nil:
		return e.Collection, nil
	case e.Enum != nil:
		return e.Enum, nil
	}
	return nil, fmt.Errorf("attribute type def: %w", errEmptyEnvelope)
}

type typeDefEnvelope struct {
	Entity         *EntityDef         `json:"entityDef,omitempty" yaml:"entityDef,omitempty"`
	Relationship   *RelationshipDef   `json:"relationshipDef,omitempty" yaml:"relationshipDef,omitempty"`
	Classification *ClassificationDef `json:"classificationDef,omitempty" yaml:"classificationDef,omitempty"`
}

func wrapTypeDef(def TypeDef) (typeDefEnvelope, error) {
	switch d := def.(type) {
	case *EntityDef:
		return typeDefEnvelope{Entity: d}, nil
	case *RelationshipDef:
		return typeDefEnvelope{Relationship: d}, nil
	case *ClassificationDef:
		return typeDefEnvelope{Classification: d}, nil
	}
	return typeDefEnvelope{}, fmt.Errorf("unsupported type def %T", def)
}

func (e typeDefEnvelope) unwrap() (TypeDef, error) {
	switch {
	case e.Entity != nil:
		return e.Entity, nil
	case e.Relationship != nil:
		return e.Relationship, nil
	case e.Classification != nil:
		return e.Classification, nil
	}
	return nil, fmt.Errorf("type def: %w", errEmptyEnvelope)
}

type typeStoreWire struct {
	AttributeTypeDefs []attributeTypeDefEnvelope `json:"attributeTypeDefs,omitempty" yaml:"attributeTypeDefs,omitempty"`
	NewTypeDefs       []typeDefEnvelope          `json:"newTypeDefs,omitempty" yaml:"newTypeDefs,omitempty"`
	TypeDefPatches    []*TypeDefPatch            `json:"typeDefPatches,omitempty" yaml:"typeDefPatches,omitempty"`
}

func (s TypeStore) wire() (typeStoreWire, error) {
	w := typeStoreWire{TypeDefPatches: s.TypeDefPatches}
	for _, def := range s.AttributeTypeDefs {
		e, err := wrapAttributeTypeDef(def)
		if err != nil {
			return w, err
		}
		w.AttributeTypeDefs = append(w.AttributeTypeDefs, e)
	}
	for _, def := range s.NewTypeDefs {
		e, err := wrapTypeDef(def)
		if err != nil {
			return w, err
		}
		w.NewTypeDefs = append(w.NewTypeDefs, e)
	}
	return w, nil
}

func (s *TypeStore) fromWire(w typeStoreWire) error {
	*s = TypeStore{TypeDefPatches: w.TypeDefPatches}
	for _, e := range w.AttributeTypeDefs {
		def, err := e.unwrap()
		if err != nil {
			return err
		}
		s.AttributeTypeDefs = append(s.AttributeTypeDefs, def)
	}
	for _, e := range w.NewTypeDefs {
		def, err := e.unwrap()
		if err != nil {
			return err
		}
		s.NewTypeDefs = append(s.NewTypeDefs, def)
	}
	return nil
}

func (s TypeStore) MarshalJSON() ([]byte, error) {
	w, err := s.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (s *TypeStore) UnmarshalJSON(data []byte) error {
	var w typeStoreWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return s.fromWire(w)
}

func (s TypeStore) MarshalYAML() (any, error) {
	return s.wire()
}

func (s *TypeStore) UnmarshalYAML(node *yaml.Node) error {
	var w typeStoreWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	return s.fromWire(w)
}

// --- Property values ---

type propertyEnvelope struct {
	Primitive *PrimitiveValue `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Enum      *EnumValue      `json:"enum,omitempty" yaml:"enum,omitempty"`
	Array     *ArrayValue     `json:"array,omitempty" yaml:"array,omitempty"`
	Map       *MapValue       `json:"map,omitempty" yaml:"map,omitempty"`
}

func wrapProperty(v PropertyValue) (propertyEnvelope, error) {
	switch p := v.(type) {
	case *PrimitiveValue:
		return propertyEnvelope{Primitive: p}, nil
	case *EnumValue:
		return propertyEnvelope{Enum: p}, nil
	case *ArrayValue:
		return propertyEnvelope{Array: p}, nil
	case *MapValue:
		return propertyEnvelope{Map: p}, nil
	}
	return propertyEnvelope{}, fmt.Errorf("unsupported property value %T", v)
}

func (e propertyEnvelope) unwrap() (PropertyValue, error) {
	switch {
	case e.Primitive != nil:
		return e.Primitive, nil
	case e.Enum != nil:
		return e.Enum, nil
	case e.Array != nil:
		return e.Array, nil
	case e.Map != nil:
		return e.Map, nil
	}
	return nil, fmt.Errorf("property value: %w", errEmptyEnvelope)
}

func (p InstanceProperties) wire() (map[string]propertyEnvelope, error) {
	w := make(map[string]propertyEnvelope, len(p))
	for name, v := range p {
		e, err := wrapProperty(v)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		w[name] = e
	}
	return w, nil
}

func (p *InstanceProperties) fromWire(w map[string]propertyEnvelope) error {
	if w == nil {
		*p = nil
		return nil
	}
	out := make(InstanceProperties, len(w))
	for name, e := range w {
		v, err := e.unwrap()
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		out[name] = v
	}
	*p = out
	return nil
}

func (p InstanceProperties) MarshalJSON() ([]byte, error) {
	w, err := p.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (p *InstanceProperties) UnmarshalJSON(data []byte) error {
	var w map[string]propertyEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return p.fromWire(w)
}

func (p InstanceProperties) MarshalYAML() (any, error) {
	return p.wire()
}

func (p *InstanceProperties) UnmarshalYAML(node *yaml.Node) error {
	var w map[string]propertyEnvelope
	if err := node.Decode(&w); err != nil {
		return err
	}
	return p.fromWire(w)
}

func (v PropertyValues) wire() ([]propertyEnvelope, error) {
	w := make([]propertyEnvelope, 0, len(v))
	for i, pv := range v {
		e, err := wrapProperty(pv)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		w = append(w, e)
	}
	return w, nil
}

func (v *PropertyValues) fromWire(w []propertyEnvelope) error {
	out := make(PropertyValues, 0, len(w))
	for i, e := range w {
		pv, err := e.unwrap()
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, pv)
	}
	*v = out
	return nil
}

func (v PropertyValues) MarshalJSON() ([]byte, error) {
	w, err := v.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (v *PropertyValues) UnmarshalJSON(data []byte) error {
	var w []propertyEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return v.fromWire(w)
}

func (v PropertyValues) MarshalYAML() (any, error) {
	return v.wire()
}

func (v *PropertyValues) UnmarshalYAML(node *yaml.Node) error {
	var w []propertyEnvelope
	if err := node.Decode(&w); err != nil {
		return err
	}
	return v.fromWire(w)
}

type primitiveValueAlias PrimitiveValue

// UnmarshalJSON keeps numbers as json.Number so long values above 2^53
// survive.
func (p *PrimitiveValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var a primitiveValueAlias
	if err := dec.Decode(&a); err != nil {
		return err
	}
	return p.normalize(a)
}

func (p *PrimitiveValue) UnmarshalYAML(node *yaml.Node) error {
	var a primitiveValueAlias
	if err := node.Decode(&a); err != nil {
		return err
	}
	return p.normalize(a)
}

func (p *PrimitiveValue) normalize(a primitiveValueAlias) error {
	v, err := NormalizePrimitive(a.Kind, a.Value)
	if err != nil {
		return err
	}
	a.Value = v
	*p = PrimitiveValue(a)
	return nil
}
