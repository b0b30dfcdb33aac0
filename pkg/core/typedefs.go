package core

import "time"

// TypeDefLink references a type definition by GUID and name.
type TypeDefLink struct {
	GUID   string        `json:"guid" yaml:"guid"`
	Name   string        `json:"name" yaml:"name"`
	Status TypeDefStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// TypeDef is an *EntityDef, *RelationshipDef or *ClassificationDef.
type TypeDef interface {
	Base() *TypeDefBase
	Category() TypeDefCategory
}

// TypeDefBase holds the fields common to every type definition.
type TypeDefBase struct {
	Header                  `yaml:",inline"`
	SuperType               *TypeDefLink       `json:"superType,omitempty" yaml:"superType,omitempty"`
	Origin                  string             `json:"origin,omitempty" yaml:"origin,omitempty"`
	CreatedBy               string             `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	UpdatedBy               string             `json:"updatedBy,omitempty" yaml:"updatedBy,omitempty"`
	CreateTime              *time.Time         `json:"createTime,omitempty" yaml:"createTime,omitempty"`
	UpdateTime              *time.Time         `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
	Options                 map[string]string  `json:"options,omitempty" yaml:"options,omitempty"`
	Status                  TypeDefStatus      `json:"status" yaml:"status"`
	ValidInstanceStatusList []InstanceStatus   `json:"validInstanceStatusList" yaml:"validInstanceStatusList"`
	InitialStatus           InstanceStatus     `json:"initialStatus" yaml:"initialStatus"`
	Properties              []TypeDefAttribute `json:"propertiesDefinition,omitempty" yaml:"propertiesDefinition,omitempty"`
}

// Link returns a TypeDefLink to the definition.
func (b *TypeDefBase) Link() TypeDefLink {
	return TypeDefLink{GUID: b.GUID, Name: b.Name, Status: b.Status}
}

// Attribute returns the declared attribute with the given name, or nil.
func (b *TypeDefBase) Attribute(name string) *TypeDefAttribute {
	for i := range b.Properties {
		if b.Properties[i].Name == name {
			return &b.Properties[i]
		}
	}
	return nil
}

// EntityDef describes a kind of entity.
type EntityDef struct {
	TypeDefBase `yaml:",inline"`
}

func (d *EntityDef) Base() *TypeDefBase        { return &d.TypeDefBase }
func (d *EntityDef) Category() TypeDefCategory { return CategoryEntity }

// RelationshipEndDef describes one end of a relationship. AttributeName is
// the name by which the entity at the opposite end navigates to this end.
type RelationshipEndDef struct {
	EntityType               TypeDefLink                `json:"entityType" yaml:"entityType"`
	AttributeName            string                     `json:"attributeName" yaml:"attributeName"`
	AttributeDescription     string                     `json:"attributeDescription,omitempty" yaml:"attributeDescription,omitempty"`
	AttributeDescriptionGUID string                     `json:"attributeDescriptionGUID,omitempty" yaml:"attributeDescriptionGUID,omitempty"`
	Cardinality              RelationshipEndCardinality `json:"attributeCardinality" yaml:"attributeCardinality"`
}

// RelationshipDef describes a kind of relationship between two entities.
type RelationshipDef struct {
	TypeDefBase     `yaml:",inline"`
	End1            RelationshipEndDef            `json:"endDef1" yaml:"endDef1"`
	End2            RelationshipEndDef            `json:"endDef2" yaml:"endDef2"`
	PropagationRule ClassificationPropagationRule `json:"propagationRule" yaml:"propagationRule"`
}

func (d *RelationshipDef) Base() *TypeDefBase        { return &d.TypeDefBase }
func (d *RelationshipDef) Category() TypeDefCategory { return CategoryRelationship }

// ClassificationDef describes a kind of classification and the entity types
// it may be attached to.
type ClassificationDef struct {
	TypeDefBase     `yaml:",inline"`
	ValidEntityDefs []TypeDefLink `json:"validEntityDefs,omitempty" yaml:"validEntityDefs,omitempty"`
	Propagatable    bool          `json:"propagatable" yaml:"propagatable"`
}

func (d *ClassificationDef) Base() *TypeDefBase        { return &d.TypeDefBase }
func (d *ClassificationDef) Category() TypeDefCategory { return CategoryClassification }

// TypeDefPatch moves an existing type definition from ApplyToVersion to
// UpdateToVersion.
type TypeDefPatch struct {
	TypeDefGUID             string             `json:"typeDefGUID" yaml:"typeDefGUID"`
	TypeDefName             string             `json:"typeDefName" yaml:"typeDefName"`
	ApplyToVersion          int64              `json:"applyToVersion" yaml:"applyToVersion"`
	UpdateToVersion         int64              `json:"updateToVersion" yaml:"updateToVersion"`
	NewVersionName          string             `json:"newVersionName" yaml:"newVersionName"`
	UpdatedBy               string             `json:"updatedBy,omitempty" yaml:"updatedBy,omitempty"`
	UpdateTime              *time.Time         `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
	Description             string             `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionGUID         string             `json:"descriptionGUID,omitempty" yaml:"descriptionGUID,omitempty"`
	Status                  TypeDefStatus      `json:"status,omitempty" yaml:"status,omitempty"`
	PropertyDefinitions     []TypeDefAttribute `json:"propertyDefinitions,omitempty" yaml:"propertyDefinitions,omitempty"`
	TypeDefOptions          map[string]string  `json:"typeDefOptions,omitempty" yaml:"typeDefOptions,omitempty"`
	ValidInstanceStatusList []InstanceStatus   `json:"validInstanceStatusList,omitempty" yaml:"validInstanceStatusList,omitempty"`
	InitialStatus           InstanceStatus     `json:"initialStatus,omitempty" yaml:"initialStatus,omitempty"`
	// Relationship patches only.
	EndDef1 *RelationshipEndDef `json:"endDef1,omitempty" yaml:"endDef1,omitempty"`
	EndDef2 *RelationshipEndDef `json:"endDef2,omitempty" yaml:"endDef2,omitempty"`
	// Classification patches only.
	ValidEntityDefs []TypeDefLink `json:"validEntityDefs,omitempty" yaml:"validEntityDefs,omitempty"`
}
