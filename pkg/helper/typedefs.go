package helper

import (
	"slices"

	"github.com/aretw0/omarchive/pkg/core"
)

// PrimitiveDef returns the definition of a primitive kind.
func (h *Helper) PrimitiveDef(kind core.PrimitiveKind) *core.PrimitiveDef {
	return primitiveDef(kind)
}

// CollectionDef returns the definition of a collection. Its name is derived
// from the kind and arguments, e.g. "map<string,int>".
func (h *Helper) CollectionDef(kind core.CollectionKind, args ...core.PrimitiveKind) *core.CollectionDef {
	return collectionDef(kind, args...)
}

// ArrayCollectionDef returns the definition of array<elem>.
func (h *Helper) ArrayCollectionDef(elem core.PrimitiveKind) *core.CollectionDef {
	return collectionDef(core.CollectionArray, elem)
}

// MapCollectionDef returns the definition of map<key,value>.
func (h *Helper) MapCollectionDef(key, value core.PrimitiveKind) *core.CollectionDef {
	return collectionDef(core.CollectionMap, key, value)
}

// EnumDef returns an enum with no elements and no default.
func (h *Helper) EnumDef(guid, name, description string) *core.EnumDef {
	return &core.EnumDef{Header: h.header(guid, name, description)}
}

// EnumElementDef returns one enum element.
func (h *Helper) EnumElementDef(ordinal int, value, description string) core.EnumElementDef {
	return core.EnumElementDef{Ordinal: ordinal, Value: value, Description: description}
}

// EnumElement returns the element of enum with the given ordinal, or the
// enum's default.
func (h *Helper) EnumElement(enum *core.EnumDef, ordinal int) *core.EnumElementDef {
	if enum == nil {
		return nil
	}
	return enum.Element(ordinal)
}

// EntityDef returns an entity type with the archive's audit fields set.
// Statuses come from the named supertype when the registry knows it.
func (h *Helper) EntityDef(guid, name, superTypeName, description string) *core.EntityDef {
	d := &core.EntityDef{}
	h.fillBase(&d.TypeDefBase, guid, name, superTypeName, description)
	return d
}

// RelationshipDef returns a relationship type with empty ends. Set them with
// RelationshipEndDef.
func (h *Helper) RelationshipDef(guid, name, superTypeName, description string, rule core.ClassificationPropagationRule) *core.RelationshipDef {
	d := &core.RelationshipDef{PropagationRule: rule}
	if d.PropagationRule == "" {
		d.PropagationRule = core.PropagateNone
	}
	h.fillBase(&d.TypeDefBase, guid, name, superTypeName, description)
	return d
}

// RelationshipEndDef returns one end of a relationship. attributeName is the
// name the entity at the other end uses to reach entityTypeName.
func (h *Helper) RelationshipEndDef(entityTypeName, attributeName, attributeDescription string, cardinality core.RelationshipEndCardinality) (core.RelationshipEndDef, error) {
	link, err := h.TypeDefLink(entityTypeName)
	if err != nil {
		return core.RelationshipEndDef{}, err
	}
	if cardinality == "" {
		cardinality = core.EndCardinalityAnyNumber
	}
	return core.RelationshipEndDef{
		EntityType:           link,
		AttributeName:        attributeName,
		AttributeDescription: attributeDescription,
		Cardinality:          cardinality,
	}, nil
}

// ClassificationDef returns a classification type that may be attached to
// the named entity types.
func (h *Helper) ClassificationDef(guid, name, superTypeName, description string, validEntityDefs []string, propagatable bool) (*core.ClassificationDef, error) {
	d := &core.ClassificationDef{Propagatable: propagatable}
	h.fillBase(&d.TypeDefBase, guid, name, superTypeName, description)
	for _, entityName := range validEntityDefs {
		link, err := h.TypeDefLink(entityName)
		if err != nil {
			return nil, err
		}
		d.ValidEntityDefs = append(d.ValidEntityDefs, link)
	}
	return d, nil
}

// TypeDefLink links to a type already in the registry.
func (h *Helper) TypeDefLink(name string) (core.TypeDefLink, error) {
	if name == "" {
		return core.TypeDefLink{}, &core.ArchiveError{Kind: core.ErrMissingName, Op: "TypeDefLink", Category: "TypeDef"}
	}
	def := h.reg.TypeDefByName(name)
	if def == nil {
		return core.TypeDefLink{}, &core.ArchiveError{Kind: core.ErrMissingType, Op: "TypeDefLink", Category: "TypeDef", ID: name}
	}
	return def.Base().Link(), nil
}

// TypeDefPatch returns the next patch for the named type, stamped with the
// archive's originator and creation time.
func (h *Helper) TypeDefPatch(typeName, description string) (*core.TypeDefPatch, error) {
	patch, err := h.reg.PatchForType(typeName)
	if err != nil {
		return nil, err
	}
	patch.UpdatedBy = h.cfg.Originator
	patch.UpdateTime = h.creationTime()
	if description != "" {
		patch.Description = description
	}
	return patch, nil
}

func (h *Helper) header(guid, name, description string) core.Header {
	return core.Header{
		GUID:        guid,
		Name:        name,
		Description: description,
		Version:     h.cfg.Version,
		VersionName: h.cfg.VersionName,
	}
}

func (h *Helper) fillBase(base *core.TypeDefBase, guid, name, superTypeName, description string) {
	base.Header = h.header(guid, name, description)
	base.Origin = h.cfg.ArchiveGUID
	base.CreatedBy = h.cfg.Originator
	base.CreateTime = h.creationTime()
	base.Status = core.TypeDefActive
	base.ValidInstanceStatusList = core.DefaultValidStatuses()
	base.InitialStatus = core.StatusActive

	if superTypeName == "" {
		return
	}
	super := h.reg.TypeDefByName(superTypeName)
	if super == nil {
		h.logger.Warn("supertype not in registry, using default statuses", "type", name, "supertype", superTypeName)
		base.SuperType = &core.TypeDefLink{Name: superTypeName}
		return
	}
	sb := super.Base()
	link := sb.Link()
	base.SuperType = &link
	if len(sb.ValidInstanceStatusList) > 0 {
		base.ValidInstanceStatusList = slices.Clone(sb.ValidInstanceStatusList)
	}
	if sb.InitialStatus != "" {
		base.InitialStatus = sb.InitialStatus
	}
}

// hierarchy returns def followed by its resolvable supertypes, nearest
// first. It stops at the first unknown or repeated type.
func (h *Helper) hierarchy(def core.TypeDef) []core.TypeDef {
	var out []core.TypeDef
	seen := make(map[string]bool)
	for def != nil {
		name := def.Base().Name
		if seen[name] {
			h.logger.Warn("supertype cycle", "type", name)
			break
		}
		seen[name] = true
		out = append(out, def)

		super := def.Base().SuperType
		if super == nil {
			break
		}
		def = h.reg.TypeDefByName(super.Name)
	}
	return out
}

func (h *Helper) lookupType(op, typeName string) (core.TypeDef, error) {
	if typeName == "" {
		return nil, &core.ArchiveError{Kind: core.ErrMissingName, Op: op, Category: "TypeDef"}
	}
	def := h.reg.TypeDefByName(typeName)
	if def == nil {
		return nil, &core.ArchiveError{Kind: core.ErrMissingType, Op: op, Category: "TypeDef", ID: typeName}
	}
	return def, nil
}
