package core

import "time"

// ArchiveProperties identify an archive and the archives it depends on.
type ArchiveProperties struct {
	GUID                   string      `json:"archiveGUID" yaml:"archiveGUID"`
	Name                   string      `json:"archiveName" yaml:"archiveName"`
	Description            string      `json:"archiveDescription,omitempty" yaml:"archiveDescription,omitempty"`
	Type                   ArchiveType `json:"archiveType" yaml:"archiveType"`
	Version                string      `json:"archiveVersion,omitempty" yaml:"archiveVersion,omitempty"`
	OriginatorName         string      `json:"originatorName,omitempty" yaml:"originatorName,omitempty"`
	OriginatorOrganization string      `json:"originatorOrganizationName,omitempty" yaml:"originatorOrganizationName,omitempty"`
	OriginatorLicense      string      `json:"originatorLicense,omitempty" yaml:"originatorLicense,omitempty"`
	CreationDate           *time.Time  `json:"creationDate,omitempty" yaml:"creationDate,omitempty"`
	DependsOn              []string    `json:"dependsOnArchives,omitempty" yaml:"dependsOnArchives,omitempty"`
}

// TypeStore holds the type content of an archive. Attribute type defs are
// ordered primitives, collections, enums; type defs entities,
// classifications, relationships.
type TypeStore struct {
	AttributeTypeDefs []AttributeTypeDef
	NewTypeDefs       []TypeDef
	TypeDefPatches    []*TypeDefPatch
}

// InstanceStore holds the instance content of an archive.
type InstanceStore struct {
	Entities        []*EntityDetail                  `json:"entities,omitempty" yaml:"entities,omitempty"`
	Relationships   []*Relationship                  `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Classifications []*ClassificationEntityExtension `json:"classifications,omitempty" yaml:"classifications,omitempty"`
}

// Archive is a versioned bundle of types and instances. A nil store means
// the archive has no content of that kind.
type Archive struct {
	Properties    ArchiveProperties `json:"archiveProperties" yaml:"archiveProperties"`
	TypeStore     *TypeStore        `json:"archiveTypeStore,omitempty" yaml:"archiveTypeStore,omitempty"`
	InstanceStore *InstanceStore    `json:"archiveInstanceStore,omitempty" yaml:"archiveInstanceStore,omitempty"`
}
