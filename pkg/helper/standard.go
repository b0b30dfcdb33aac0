package helper

import (
	"github.com/google/uuid"

	"github.com/aretw0/omarchive/pkg/core"
)

// Built-in attribute types get name-derived GUIDs so that every archive
// produced by this module agrees on them.
var standardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/aretw0/omarchive/attribute-types"))

// StandardGUID returns the fixed GUID of a built-in attribute type.
func StandardGUID(name string) string {
	return uuid.NewSHA1(standardNamespace, []byte(name)).String()
}

// StandardCollections are the collection shapes attributes can be built from.
var StandardCollections = []struct {
	Kind core.CollectionKind
	Args []core.PrimitiveKind
}{
	{core.CollectionArray, []core.PrimitiveKind{core.PrimitiveString}},
	{core.CollectionArray, []core.PrimitiveKind{core.PrimitiveInt}},
	{core.CollectionMap, []core.PrimitiveKind{core.PrimitiveString, core.PrimitiveString}},
	{core.CollectionMap, []core.PrimitiveKind{core.PrimitiveString, core.PrimitiveBoolean}},
	{core.CollectionMap, []core.PrimitiveKind{core.PrimitiveString, core.PrimitiveInt}},
	{core.CollectionMap, []core.PrimitiveKind{core.PrimitiveString, core.PrimitiveLong}},
	{core.CollectionMap, []core.PrimitiveKind{core.PrimitiveString, core.PrimitiveObject}},
}

// StandardPrimitiveDefs returns a definition for every primitive kind.
func StandardPrimitiveDefs() []*core.PrimitiveDef {
	defs := make([]*core.PrimitiveDef, 0, len(core.PrimitiveKinds))
	for _, kind := range core.PrimitiveKinds {
		defs = append(defs, primitiveDef(kind))
	}
	return defs
}

// StandardCollectionDefs returns a definition for every standard collection.
func StandardCollectionDefs() []*core.CollectionDef {
	defs := make([]*core.CollectionDef, 0, len(StandardCollections))
	for _, c := range StandardCollections {
		defs = append(defs, collectionDef(c.Kind, c.Args...))
	}
	return defs
}

func primitiveDef(kind core.PrimitiveKind) *core.PrimitiveDef {
	name := string(kind)
	return &core.PrimitiveDef{
		Header: core.Header{GUID: StandardGUID(name), Name: name, Version: 1, VersionName: "1.0"},
		Kind:   kind,
	}
}

func collectionDef(kind core.CollectionKind, args ...core.PrimitiveKind) *core.CollectionDef {
	name := core.CollectionName(kind, args...)
	return &core.CollectionDef{
		Header:        core.Header{GUID: StandardGUID(name), Name: name, Version: 1, VersionName: "1.0"},
		Kind:          kind,
		ArgumentTypes: append([]core.PrimitiveKind(nil), args...),
	}
}
