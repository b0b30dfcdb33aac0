package helper

import (
	"github.com/aretw0/omarchive/pkg/core"
)

// DataType is the semantic type of a property, used to pick its attribute
// type.
type DataType string

const (
	DataString          DataType = "string"
	DataInt             DataType = "int"
	DataLong            DataType = "long"
	DataShort           DataType = "short"
	DataDate            DataType = "date"
	DataBoolean         DataType = "boolean"
	DataChar            DataType = "char"
	DataByte            DataType = "byte"
	DataFloat           DataType = "float"
	DataDouble          DataType = "double"
	DataBigInteger      DataType = "biginteger"
	DataBigDecimal      DataType = "bigdecimal"
	DataObject          DataType = "object"
	DataStringArray     DataType = "array<string>"
	DataIntArray        DataType = "array<int>"
	DataStringStringMap DataType = "map<string,string>"
	DataStringBoolMap   DataType = "map<string,boolean>"
	DataStringIntMap    DataType = "map<string,int>"
	DataStringLongMap   DataType = "map<string,long>"
	DataStringObjectMap DataType = "map<string,object>"
)

func (d DataType) attributeType() (core.AttributeTypeDef, bool) {
	switch d {
	case DataString, DataInt, DataLong, DataShort, DataDate, DataBoolean, DataChar,
		DataByte, DataFloat, DataDouble, DataBigInteger, DataBigDecimal, DataObject:
		return primitiveDef(core.PrimitiveKind(d)), true
	}
	for _, c := range StandardCollections {
		if core.CollectionName(c.Kind, c.Args...) == string(d) {
			return collectionDef(c.Kind, c.Args...), true
		}
	}
	return nil, false
}

// Attribute returns an optional, indexable, non-unique attribute holding at
// most one value of dataType. Callers adjust the flags as needed.
func (h *Helper) Attribute(name string, dataType DataType, description string) (core.TypeDefAttribute, error) {
	def, ok := dataType.attributeType()
	if !ok {
		return core.TypeDefAttribute{}, &core.ArchiveError{
			Kind:     core.ErrBadDataType,
			Op:       "Attribute",
			Category: "TypeDefAttribute",
			ID:       name,
			New:      string(dataType),
		}
	}
	// A registered definition, possibly from a dependency, wins.
	if registered := h.reg.AttributeTypeDefByName(def.AttributeHeader().Name); registered != nil {
		def = registered
	}
	return h.attribute(name, core.LinkAttributeType(def), description), nil
}

// EnumAttribute returns an attribute whose type is a registered enum.
func (h *Helper) EnumAttribute(name, enumName, description string) (core.TypeDefAttribute, error) {
	def, ok := h.reg.AttributeTypeDefByName(enumName).(*core.EnumDef)
	if !ok {
		return core.TypeDefAttribute{}, &core.ArchiveError{
			Kind:     core.ErrMissingType,
			Op:       "EnumAttribute",
			Category: "EnumDef",
			ID:       enumName,
		}
	}
	attr := h.attribute(name, core.LinkAttributeType(def), description)
	if def.Default != nil {
		attr.DefaultValue = def.Default.Value
	}
	return attr, nil
}

func (h *Helper) attribute(name string, link core.AttributeTypeLink, description string) core.TypeDefAttribute {
	return core.TypeDefAttribute{
		Name:           name,
		Type:           link,
		Description:    description,
		Cardinality:    core.CardinalityAtMostOne,
		ValuesMinCount: 0,
		ValuesMaxCount: 1,
		IsIndexable:    true,
		IsUnique:       false,
	}
}

// AttributeType resolves an attribute's type link: a registered definition
// wins, otherwise the built-in definition of that name. It returns nil for
// unknown types.
func (h *Helper) AttributeType(link core.AttributeTypeLink) core.AttributeTypeDef {
	if registered := h.reg.AttributeTypeDefByName(link.Name); registered != nil {
		return registered
	}
	if def, ok := DataType(link.Name).attributeType(); ok {
		return def
	}
	return nil
}
