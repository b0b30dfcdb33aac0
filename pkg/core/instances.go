package core

import "time"

// InstanceType summarizes the type definition an instance conforms to.
type InstanceType struct {
	Category                TypeDefCategory  `json:"typeDefCategory" yaml:"typeDefCategory"`
	TypeDefGUID             string           `json:"typeDefGUID" yaml:"typeDefGUID"`
	TypeDefName             string           `json:"typeDefName" yaml:"typeDefName"`
	TypeDefVersion          int64            `json:"typeDefVersion" yaml:"typeDefVersion"`
	TypeDefDescription      string           `json:"typeDefDescription,omitempty" yaml:"typeDefDescription,omitempty"`
	SuperTypes              []TypeDefLink    `json:"typeDefSuperTypes,omitempty" yaml:"typeDefSuperTypes,omitempty"`
	ValidStatusList         []InstanceStatus `json:"validStatusList,omitempty" yaml:"validStatusList,omitempty"`
	ValidInstanceProperties []string         `json:"validInstanceProperties,omitempty" yaml:"validInstanceProperties,omitempty"`
}

// InstanceAuditHeader records the provenance of an instance.
type InstanceAuditHeader struct {
	Type                   InstanceType   `json:"type" yaml:"type"`
	Provenance             ProvenanceType `json:"instanceProvenanceType" yaml:"instanceProvenanceType"`
	MetadataCollectionID   string         `json:"metadataCollectionId" yaml:"metadataCollectionId"`
	MetadataCollectionName string         `json:"metadataCollectionName,omitempty" yaml:"metadataCollectionName,omitempty"`
	License                string         `json:"instanceLicense,omitempty" yaml:"instanceLicense,omitempty"`
	CreatedBy              string         `json:"createdBy,omitempty" yaml:"createdBy,omitempty"`
	UpdatedBy              string         `json:"updatedBy,omitempty" yaml:"updatedBy,omitempty"`
	CreateTime             *time.Time     `json:"createTime,omitempty" yaml:"createTime,omitempty"`
	UpdateTime             *time.Time     `json:"updateTime,omitempty" yaml:"updateTime,omitempty"`
	Version                int64          `json:"version" yaml:"version"`
	Status                 InstanceStatus `json:"status" yaml:"status"`
}

// InstanceHeader adds the instance GUID to the audit header.
type InstanceHeader struct {
	InstanceAuditHeader `yaml:",inline"`
	GUID                string `json:"guid" yaml:"guid"`
	InstanceURL         string `json:"instanceURL,omitempty" yaml:"instanceURL,omitempty"`
}

// Classification is attached to an entity.
type Classification struct {
	InstanceAuditHeader `yaml:",inline"`
	Name                string               `json:"name" yaml:"name"`
	Origin              ClassificationOrigin `json:"classificationOrigin" yaml:"classificationOrigin"`
	OriginGUID          string               `json:"classificationOriginGUID,omitempty" yaml:"classificationOriginGUID,omitempty"`
	Properties          InstanceProperties   `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// EntityDetail is a full entity.
type EntityDetail struct {
	InstanceHeader  `yaml:",inline"`
	Properties      InstanceProperties `json:"properties,omitempty" yaml:"properties,omitempty"`
	Classifications []Classification   `json:"classifications,omitempty" yaml:"classifications,omitempty"`
}

// EntityProxy references an entity by GUID, carrying only the properties
// that identify it.
type EntityProxy struct {
	InstanceHeader   `yaml:",inline"`
	UniqueProperties InstanceProperties `json:"uniqueProperties,omitempty" yaml:"uniqueProperties,omitempty"`
	Classifications  []Classification   `json:"classifications,omitempty" yaml:"classifications,omitempty"`
}

// Relationship links two entities.
type Relationship struct {
	InstanceHeader `yaml:",inline"`
	Properties     InstanceProperties `json:"properties,omitempty" yaml:"properties,omitempty"`
	End1           *EntityProxy       `json:"entityOneProxy" yaml:"entityOneProxy"`
	End2           *EntityProxy       `json:"entityTwoProxy" yaml:"entityTwoProxy"`
}

// ClassificationEntityExtension pairs a classification with the entity it
// classifies.
type ClassificationEntityExtension struct {
	EntityToClassify *EntityProxy    `json:"entityToClassify" yaml:"entityToClassify"`
	Classification   *Classification `json:"classification" yaml:"classification"`
}

// Key is the compound key that must be unique per archive.
func (c *ClassificationEntityExtension) Key() string {
	var entityGUID, name string
	if c.EntityToClassify != nil {
		entityGUID = c.EntityToClassify.GUID
	}
	if c.Classification != nil {
		name = c.Classification.Name
	}
	return ClassificationKey(entityGUID, name)
}

// ClassificationKey builds the compound key of an entity's classification.
func ClassificationKey(entityGUID, classificationName string) string {
	return entityGUID + ":" + classificationName
}
