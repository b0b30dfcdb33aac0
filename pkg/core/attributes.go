package core

import (
	"fmt"
	"strings"
)

// Header carries the identity and version shared by every definition.
type Header struct {
	GUID            string `json:"guid" yaml:"guid"`
	Name            string `json:"name" yaml:"name"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionGUID string `json:"descriptionGUID,omitempty" yaml:"descriptionGUID,omitempty"`
	Version         int64  `json:"version" yaml:"version"`
	VersionName     string `json:"versionName,omitempty" yaml:"versionName,omitempty"`
}

// AttributeTypeDef is a type usable for an attribute: a *PrimitiveDef, a
// *CollectionDef or an *EnumDef.
type AttributeTypeDef interface {
	AttributeHeader() *Header
	AttributeCategory() AttributeTypeDefCategory
}

// PrimitiveDef is a scalar attribute type.
type PrimitiveDef struct {
	Header `yaml:",inline"`
	Kind   PrimitiveKind `json:"kind" yaml:"kind"`
}

func (d *PrimitiveDef) AttributeHeader() *Header                    { return &d.Header }
func (d *PrimitiveDef) AttributeCategory() AttributeTypeDefCategory { return CategoryPrimitive }

// CollectionDef is a parameterized array or map attribute type. Each distinct
// parameterization is a separate definition.
type CollectionDef struct {
	Header        `yaml:",inline"`
	Kind          CollectionKind  `json:"kind" yaml:"kind"`
	ArgumentTypes []PrimitiveKind `json:"argumentTypes" yaml:"argumentTypes"`
}

func (d *CollectionDef) AttributeHeader() *Header                    { return &d.Header }
func (d *CollectionDef) AttributeCategory() AttributeTypeDefCategory { return CategoryCollection }

// CollectionName derives the name of a collection from its parameters,
// e.g. "array<string>" or "map<string,int>".
func CollectionName(kind CollectionKind, args ...PrimitiveKind) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = string(a)
	}
	return fmt.Sprintf("%s<%s>", kind, strings.Join(parts, ","))
}

// EnumElementDef is one value of an enum.
type EnumElementDef struct {
	Ordinal         int    `json:"ordinal" yaml:"ordinal"`
	Value           string `json:"value" yaml:"value"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionGUID string `json:"descriptionGUID,omitempty" yaml:"descriptionGUID,omitempty"`
}

// EnumDef is a named set of ordinal values with an optional default.
type EnumDef struct {
	Header   `yaml:",inline"`
	Elements []EnumElementDef `json:"elements" yaml:"elements"`
	Default  *EnumElementDef  `json:"default,omitempty" yaml:"default,omitempty"`
}

func (d *EnumDef) AttributeHeader() *Header                    { return &d.Header }
func (d *EnumDef) AttributeCategory() AttributeTypeDefCategory { return CategoryEnum }

// Element returns the element with the given ordinal, or the default when
// no element matches. The result is nil only if there is no default either.
func (d *EnumDef) Element(ordinal int) *EnumElementDef {
	for i := range d.Elements {
		if d.Elements[i].Ordinal == ordinal {
			return &d.Elements[i]
		}
	}
	return d.Default
}

// AttributeTypeLink references an attribute type from a TypeDefAttribute.
type AttributeTypeLink struct {
	Category AttributeTypeDefCategory `json:"category" yaml:"category"`
	GUID     string                   `json:"guid" yaml:"guid"`
	Name     string                   `json:"name" yaml:"name"`
}

// LinkAttributeType builds a link to def.
func LinkAttributeType(def AttributeTypeDef) AttributeTypeLink {
	h := def.AttributeHeader()
	return AttributeTypeLink{Category: def.AttributeCategory(), GUID: h.GUID, Name: h.Name}
}

// TypeDefAttribute is one property declared by a type definition.
type TypeDefAttribute struct {
	Name            string               `json:"attributeName" yaml:"attributeName"`
	Type            AttributeTypeLink    `json:"attributeType" yaml:"attributeType"`
	Description     string               `json:"attributeDescription,omitempty" yaml:"attributeDescription,omitempty"`
	DescriptionGUID string               `json:"attributeDescriptionGUID,omitempty" yaml:"attributeDescriptionGUID,omitempty"`
	Cardinality     AttributeCardinality `json:"cardinality" yaml:"cardinality"`
	ValuesMinCount  int                  `json:"valuesMinCount" yaml:"valuesMinCount"`
	ValuesMaxCount  int                  `json:"valuesMaxCount" yaml:"valuesMaxCount"`
	IsIndexable     bool                 `json:"isIndexable" yaml:"isIndexable"`
	IsUnique        bool                 `json:"isUnique" yaml:"isUnique"`
	DefaultValue    string               `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}
