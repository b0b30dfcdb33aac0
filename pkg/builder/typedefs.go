package builder

import (
	"fmt"

	"github.com/aretw0/omarchive/pkg/core"
)

// --- Attribute type definitions ---

// AddPrimitiveDef registers a primitive type. A nil def is ignored.
func (b *Builder) AddPrimitiveDef(def *core.PrimitiveDef) error {
	const op = "AddPrimitiveDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkAttributeTypeDef(op, "PrimitiveDef", def, kindSlot(b.primitiveDefs, def.Name))
	if err != nil || exists {
		return err
	}
	b.primitiveDefs[def.Name] = def
	b.attributeTypeGUIDs[def.GUID] = def
	b.attributeTypeNames[def.Name] = def
	b.primitiveList = append(b.primitiveList, def)
	b.logger.Debug("added primitive def", "name", def.Name, "guid", def.GUID)
	return nil
}

// AddCollectionDef registers a collection type. A nil def is ignored.
func (b *Builder) AddCollectionDef(def *core.CollectionDef) error {
	const op = "AddCollectionDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkAttributeTypeDef(op, "CollectionDef", def, kindSlot(b.collectionDefs, def.Name))
	if err != nil || exists {
		return err
	}
	b.collectionDefs[def.Name] = def
	b.attributeTypeGUIDs[def.GUID] = def
	b.attributeTypeNames[def.Name] = def
	b.collectionList = append(b.collectionList, def)
	b.logger.Debug("added collection def", "name", def.Name, "guid", def.GUID)
	return nil
}

// AddEnumDef registers an enum type. A nil def is ignored.
func (b *Builder) AddEnumDef(def *core.EnumDef) error {
	const op = "AddEnumDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkAttributeTypeDef(op, "EnumDef", def, kindSlot(b.enumDefs, def.Name))
	if err != nil || exists {
		return err
	}
	b.enumDefs[def.Name] = def
	b.attributeTypeGUIDs[def.GUID] = def
	b.attributeTypeNames[def.Name] = def
	b.enumList = append(b.enumList, def)
	b.logger.Debug("added enum def", "name", def.Name, "guid", def.GUID)
	return nil
}

// checkAttributeTypeDef validates the name and the three index slots of an
// attribute type. It reports exists when every occupied slot already holds
// an equal definition.
func (b *Builder) checkAttributeTypeDef(op, category string, def core.AttributeTypeDef, kindExisting any) (exists bool, err error) {
	h := def.AttributeHeader()
	if err := checkName(op, category, h.Name); err != nil {
		return false, err
	}
	return checkSlots(op, category, def, []slot{
		{existing: kindExisting, id: h.Name},
		{existing: kindSlot(b.attributeTypeGUIDs, h.GUID), id: h.GUID},
		{existing: kindSlot(b.attributeTypeNames, h.Name), id: h.Name},
	})
}

// --- Type definitions ---

// AddEntityDef registers an entity type. A nil def is ignored.
func (b *Builder) AddEntityDef(def *core.EntityDef) error {
	const op = "AddEntityDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkTypeDef(op, "EntityDef", def, kindSlot(b.entityDefs, def.Name))
	if err != nil || exists {
		return err
	}
	if err := b.checkEntityAttributes(op, def); err != nil {
		return err
	}

	b.entityDefs[def.Name] = def
	b.typeDefGUIDs[def.GUID] = def
	b.typeDefNames[def.Name] = def
	for _, attr := range def.Properties {
		b.claim(def.Name, attr.Name)
	}
	b.entityDefList = append(b.entityDefList, def)
	b.logger.Debug("added entity def", "name", def.Name, "guid", def.GUID)
	return nil
}

// AddClassificationDef registers a classification type. A nil def is ignored.
func (b *Builder) AddClassificationDef(def *core.ClassificationDef) error {
	const op = "AddClassificationDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkTypeDef(op, "ClassificationDef", def, kindSlot(b.classificationDefs, def.Name))
	if err != nil || exists {
		return err
	}

	b.classificationDefs[def.Name] = def
	b.typeDefGUIDs[def.GUID] = def
	b.typeDefNames[def.Name] = def
	b.classificationList = append(b.classificationList, def)
	b.logger.Debug("added classification def", "name", def.Name, "guid", def.GUID)
	return nil
}

// AddRelationshipDef registers a relationship type. A nil def is ignored.
//
// The attribute name of end 1 is claimed on the entity type at end 2, then
// the attribute name of end 2 on the entity type at end 1. A name already
// claimed on that entity type, by a declared property or by an earlier
// relationship, is rejected. The first relationship registered keeps the name.
func (b *Builder) AddRelationshipDef(def *core.RelationshipDef) error {
	const op = "AddRelationshipDef"
	if def == nil {
		return nil
	}
	exists, err := b.checkTypeDef(op, "RelationshipDef", def, kindSlot(b.relationshipDefs, def.Name))
	if err != nil || exists {
		return err
	}
	if err := b.checkEnds(op, def); err != nil {
		return err
	}

	b.relationshipDefs[def.Name] = def
	b.typeDefGUIDs[def.GUID] = def
	b.typeDefNames[def.Name] = def
	b.claimEnds(def)
	b.relationshipDefList = append(b.relationshipDefList, def)
	b.logger.Debug("added relationship def",
		"name", def.Name,
		"guid", def.GUID,
		"end1", def.End1.EntityType.Name,
		"end2", def.End2.EntityType.Name,
	)
	return nil
}

func (b *Builder) checkTypeDef(op, category string, def core.TypeDef, kindExisting any) (exists bool, err error) {
	base := def.Base()
	if err := checkName(op, category, base.Name); err != nil {
		return false, err
	}
	exists, err = checkSlots(op, category, def, []slot{
		{existing: kindExisting, id: base.Name},
		{existing: kindSlot(b.typeDefGUIDs, base.GUID), id: base.GUID},
		{existing: kindSlot(b.typeDefNames, base.Name), id: base.Name},
	})
	if err != nil || exists {
		return exists, err
	}
	return false, checkDeclaredAttributes(op, category, base)
}

// AddTypeDefPatch appends a patch. Patches are cumulative, so several patches
// for the same type are all kept.
func (b *Builder) AddTypeDefPatch(patch *core.TypeDefPatch) error {
	const op = "AddTypeDefPatch"
	if patch == nil {
		return nil
	}
	if err := checkName(op, "TypeDefPatch", patch.TypeDefName); err != nil {
		return err
	}
	b.patches = append(b.patches, patch)
	b.logger.Debug("added type def patch",
		"type", patch.TypeDefName,
		"from", patch.ApplyToVersion,
		"to", patch.UpdateToVersion,
	)
	return nil
}

// PatchForType returns an empty patch for the named type that applies on top
// of the type's latest version, counting patches already added.
func (b *Builder) PatchForType(typeName string) (*core.TypeDefPatch, error) {
	const op = "PatchForType"
	def, err := b.TypeDef(typeName)
	if err != nil {
		return nil, withOp(err, op)
	}
	base := def.Base()

	version := base.Version
	for _, p := range b.patches {
		if p.TypeDefName == base.Name && p.UpdateToVersion > version {
			version = p.UpdateToVersion
		}
	}

	return &core.TypeDefPatch{
		TypeDefGUID:     base.GUID,
		TypeDefName:     base.Name,
		ApplyToVersion:  version,
		UpdateToVersion: version + 1,
		NewVersionName:  fmt.Sprintf("%d.0", version+1),
		Status:          base.Status,
	}, nil
}

// TypeDefPatches returns the patches added to this archive for the named
// type, in the order they were added.
func (b *Builder) TypeDefPatches(typeName string) []*core.TypeDefPatch {
	var out []*core.TypeDefPatch
	for _, p := range b.patches {
		if p.TypeDefName == typeName {
			out = append(out, p)
		}
	}
	return out
}

// --- Lookups ---

// PrimitiveDef returns the primitive type with the given name or GUID.
func (b *Builder) PrimitiveDef(nameOrGUID string) (*core.PrimitiveDef, error) {
	return find("PrimitiveDef", nameOrGUID, b.primitiveDefs, b.attributeTypeGUIDs)
}

// CollectionDef returns the collection type with the given name or GUID.
func (b *Builder) CollectionDef(nameOrGUID string) (*core.CollectionDef, error) {
	return find("CollectionDef", nameOrGUID, b.collectionDefs, b.attributeTypeGUIDs)
}

// EnumDef returns the enum type with the given name or GUID.
func (b *Builder) EnumDef(nameOrGUID string) (*core.EnumDef, error) {
	return find("EnumDef", nameOrGUID, b.enumDefs, b.attributeTypeGUIDs)
}

// EntityDef returns the entity type with the given name or GUID.
func (b *Builder) EntityDef(nameOrGUID string) (*core.EntityDef, error) {
	return find("EntityDef", nameOrGUID, b.entityDefs, b.typeDefGUIDs)
}

// RelationshipDef returns the relationship type with the given name or GUID.
func (b *Builder) RelationshipDef(nameOrGUID string) (*core.RelationshipDef, error) {
	return find("RelationshipDef", nameOrGUID, b.relationshipDefs, b.typeDefGUIDs)
}

// ClassificationDef returns the classification type with the given name or GUID.
func (b *Builder) ClassificationDef(nameOrGUID string) (*core.ClassificationDef, error) {
	return find("ClassificationDef", nameOrGUID, b.classificationDefs, b.typeDefGUIDs)
}

// TypeDef returns the type definition of any category with the given name
// or GUID.
func (b *Builder) TypeDef(nameOrGUID string) (core.TypeDef, error) {
	return find("TypeDef", nameOrGUID, b.typeDefNames, b.typeDefGUIDs)
}

// AttributeTypeDef returns the attribute type of any category with the given
// name or GUID.
func (b *Builder) AttributeTypeDef(nameOrGUID string) (core.AttributeTypeDef, error) {
	return find("AttributeTypeDef", nameOrGUID, b.attributeTypeNames, b.attributeTypeGUIDs)
}

// TypeDefByName returns the named type definition, or nil when there is none.
func (b *Builder) TypeDefByName(name string) core.TypeDef {
	return b.typeDefNames[name]
}

// AttributeTypeDefByName returns the named attribute type, or nil when there
// is none.
func (b *Builder) AttributeTypeDefByName(name string) core.AttributeTypeDef {
	return b.attributeTypeNames[name]
}
