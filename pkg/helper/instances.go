package helper

import (
	"slices"

	"github.com/aretw0/omarchive/pkg/core"
)

// EntityDetail returns an entity of the named type. An empty status means
// the type's initial status.
func (h *Helper) EntityDetail(typeName, guid string, props core.InstanceProperties, status core.InstanceStatus, classifications []core.Classification) (*core.EntityDetail, error) {
	def, err := h.lookupType("EntityDetail", typeName)
	if err != nil {
		return nil, err
	}
	e := &core.EntityDetail{
		InstanceHeader:  core.InstanceHeader{GUID: guid},
		Properties:      props,
		Classifications: classifications,
	}
	e.InstanceAuditHeader = h.auditHeader(def, status)
	return e, nil
}

// EntityProxy returns a reference to entity carrying only the properties
// declared unique somewhere in the entity's type hierarchy.
func (h *Helper) EntityProxy(entity *core.EntityDetail) *core.EntityProxy {
	if entity == nil {
		return nil
	}
	return h.EntityProxyWithProperties(entity, entity.Properties.Subset(h.uniqueProperties(entity.Type.TypeDefName)))
}

// EntityProxyWithProperties returns a reference to entity carrying props.
func (h *Helper) EntityProxyWithProperties(entity *core.EntityDetail, props core.InstanceProperties) *core.EntityProxy {
	if entity == nil {
		return nil
	}
	return &core.EntityProxy{
		InstanceHeader:   entity.InstanceHeader,
		UniqueProperties: props,
		Classifications:  slices.Clone(entity.Classifications),
	}
}

// uniqueProperties collects the unique attribute names of a type and its
// supertypes, including those added by this archive's patches.
func (h *Helper) uniqueProperties(typeName string) []string {
	var names []string
	add := func(attrs []core.TypeDefAttribute) {
		for _, attr := range attrs {
			if attr.IsUnique && !slices.Contains(names, attr.Name) {
				names = append(names, attr.Name)
			}
		}
	}
	for _, def := range h.hierarchy(h.reg.TypeDefByName(typeName)) {
		add(def.Base().Properties)
		for _, p := range h.reg.TypeDefPatches(def.Base().Name) {
			add(p.PropertyDefinitions)
		}
	}
	return names
}

// Relationship returns a relationship of the named type between two
// entities.
func (h *Helper) Relationship(typeName, guid string, props core.InstanceProperties, status core.InstanceStatus, end1, end2 *core.EntityProxy) (*core.Relationship, error) {
	def, err := h.lookupType("Relationship", typeName)
	if err != nil {
		return nil, err
	}
	r := &core.Relationship{
		InstanceHeader: core.InstanceHeader{GUID: guid},
		Properties:     props,
		End1:           end1,
		End2:           end2,
	}
	r.InstanceAuditHeader = h.auditHeader(def, status)
	return r, nil
}

// Classification returns an assigned classification of the named type.
func (h *Helper) Classification(typeName string, props core.InstanceProperties, status core.InstanceStatus) (*core.Classification, error) {
	def, err := h.lookupType("Classification", typeName)
	if err != nil {
		return nil, err
	}
	return &core.Classification{
		InstanceAuditHeader: h.auditHeader(def, status),
		Name:                typeName,
		Origin:              core.OriginAssigned,
		Properties:          props,
	}, nil
}

// ClassificationEntityExtension pairs a classification with a proxy for the
// entity it classifies.
func (h *Helper) ClassificationEntityExtension(entity *core.EntityDetail, c *core.Classification) *core.ClassificationEntityExtension {
	return &core.ClassificationEntityExtension{
		EntityToClassify: h.EntityProxy(entity),
		Classification:   c,
	}
}

func (h *Helper) auditHeader(def core.TypeDef, status core.InstanceStatus) core.InstanceAuditHeader {
	base := def.Base()
	if status == "" {
		status = base.InitialStatus
	}
	if status == "" {
		status = core.StatusActive
	}

	hdr := core.InstanceAuditHeader{
		Type:                   h.instanceType(def),
		Provenance:             core.ProvenanceContentPack,
		MetadataCollectionID:   h.cfg.ArchiveGUID,
		MetadataCollectionName: h.cfg.RootName,
		License:                h.cfg.License,
		CreatedBy:              h.cfg.Originator,
		CreateTime:             h.creationTime(),
		Version:                h.cfg.Version,
		Status:                 status,
	}
	if hdr.Version > 1 {
		hdr.UpdatedBy = h.cfg.Originator
		hdr.UpdateTime = h.creationTime()
	}
	return hdr
}

func (h *Helper) instanceType(def core.TypeDef) core.InstanceType {
	base := def.Base()
	t := core.InstanceType{
		Category:           def.Category(),
		TypeDefGUID:        base.GUID,
		TypeDefName:        base.Name,
		TypeDefVersion:     base.Version,
		TypeDefDescription: base.Description,
		ValidStatusList:    slices.Clone(base.ValidInstanceStatusList),
	}
	for i, level := range h.hierarchy(def) {
		lb := level.Base()
		if i > 0 {
			t.SuperTypes = append(t.SuperTypes, lb.Link())
		}
		for _, attr := range lb.Properties {
			if !slices.Contains(t.ValidInstanceProperties, attr.Name) {
				t.ValidInstanceProperties = append(t.ValidInstanceProperties, attr.Name)
			}
		}
	}
	return t
}
