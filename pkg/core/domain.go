// Package core holds the open metadata archive data model: attribute type
// definitions, type definitions, patches, instances and the archive itself,
// together with the errors raised when their invariants are violated.
package core

// AttributeTypeDefCategory identifies the variant of an AttributeTypeDef.
type AttributeTypeDefCategory string

const (
	CategoryPrimitive  AttributeTypeDefCategory = "PRIMITIVE"
	CategoryCollection AttributeTypeDefCategory = "COLLECTION"
	CategoryEnum       AttributeTypeDefCategory = "ENUM_DEF"
)

// TypeDefCategory identifies the variant of a TypeDef.
type TypeDefCategory string

const (
	CategoryEntity         TypeDefCategory = "ENTITY_DEF"
	CategoryRelationship   TypeDefCategory = "RELATIONSHIP_DEF"
	CategoryClassification TypeDefCategory = "CLASSIFICATION_DEF"
)

// PrimitiveKind is the scalar kind of a primitive definition.
type PrimitiveKind string

const (
	PrimitiveUnknown    PrimitiveKind = "unknown"
	PrimitiveBoolean    PrimitiveKind = "boolean"
	PrimitiveByte       PrimitiveKind = "byte"
	PrimitiveChar       PrimitiveKind = "char"
	PrimitiveShort      PrimitiveKind = "short"
	PrimitiveInt        PrimitiveKind = "int"
	PrimitiveLong       PrimitiveKind = "long"
	PrimitiveFloat      PrimitiveKind = "float"
	PrimitiveDouble     PrimitiveKind = "double"
	PrimitiveBigInteger PrimitiveKind = "biginteger"
	PrimitiveBigDecimal PrimitiveKind = "bigdecimal"
	PrimitiveString     PrimitiveKind = "string"
	PrimitiveDate       PrimitiveKind = "date"
	PrimitiveObject     PrimitiveKind = "object"
)

// PrimitiveKinds lists every concrete primitive kind in declaration order.
var PrimitiveKinds = []PrimitiveKind{
	PrimitiveBoolean,
	PrimitiveByte,
	PrimitiveChar,
	PrimitiveShort,
	PrimitiveInt,
	PrimitiveLong,
	PrimitiveFloat,
	PrimitiveDouble,
	PrimitiveBigInteger,
	PrimitiveBigDecimal,
	PrimitiveString,
	PrimitiveDate,
	PrimitiveObject,
}

// CollectionKind is the shape of a collection definition.
type CollectionKind string

const (
	CollectionArray CollectionKind = "array"
	CollectionMap   CollectionKind = "map"
)

// TypeDefStatus is the lifecycle status of a type definition.
type TypeDefStatus string

const (
	TypeDefActive     TypeDefStatus = "ACTIVE_TYPEDEF"
	TypeDefDeprecated TypeDefStatus = "DEPRECATED_TYPEDEF"
)

// InstanceStatus is the lifecycle status of an instance.
type InstanceStatus string

const (
	StatusUnknown     InstanceStatus = "UNKNOWN"
	StatusDraft       InstanceStatus = "DRAFT"
	StatusPrepared    InstanceStatus = "PREPARED"
	StatusProposed    InstanceStatus = "PROPOSED"
	StatusApproved    InstanceStatus = "APPROVED"
	StatusRejected    InstanceStatus = "REJECTED"
	StatusActive      InstanceStatus = "ACTIVE"
	StatusDeprecated  InstanceStatus = "DEPRECATED"
	StatusDisabled    InstanceStatus = "DISABLED"
	StatusComplete    InstanceStatus = "COMPLETE"
	StatusDeactivated InstanceStatus = "DEACTIVATED"
	StatusOther       InstanceStatus = "OTHER"
	StatusDeleted     InstanceStatus = "DELETED"
)

// DefaultValidStatuses is used when a type has no supertype to inherit from.
func DefaultValidStatuses() []InstanceStatus {
	return []InstanceStatus{StatusActive, StatusDeleted}
}

// AttributeCardinality bounds the number of values an attribute may hold.
type AttributeCardinality string

const (
	CardinalityUnknown             AttributeCardinality = "UNKNOWN"
	CardinalityAtMostOne           AttributeCardinality = "AT_MOST_ONE"
	CardinalityOnlyOne             AttributeCardinality = "ONE_ONLY"
	CardinalityAtLeastOneOrdered   AttributeCardinality = "AT_LEAST_ONE_ORDERED"
	CardinalityAtLeastOneUnordered AttributeCardinality = "AT_LEAST_ONE_UNORDERED"
	CardinalityAnyNumberOrdered    AttributeCardinality = "ANY_NUMBER_ORDERED"
	CardinalityAnyNumberUnordered  AttributeCardinality = "ANY_NUMBER_UNORDERED"
)

// RelationshipEndCardinality bounds how many relationships of a type an
// entity may participate in at one end.
type RelationshipEndCardinality string

const (
	EndCardinalityUnknown   RelationshipEndCardinality = "UNKNOWN"
	EndCardinalityAtMostOne RelationshipEndCardinality = "AT_MOST_ONE"
	EndCardinalityAnyNumber RelationshipEndCardinality = "ANY_NUMBER"
)

// ClassificationPropagationRule says which way classifications flow across
// a relationship.
type ClassificationPropagationRule string

const (
	PropagateNone     ClassificationPropagationRule = "NONE"
	PropagateOneToTwo ClassificationPropagationRule = "ONE_TO_TWO"
	PropagateTwoToOne ClassificationPropagationRule = "TWO_TO_ONE"
	PropagateBoth     ClassificationPropagationRule = "BOTH"
)

// ArchiveType describes the purpose of an archive.
type ArchiveType string

const (
	ArchiveContentPack      ArchiveType = "CONTENT_PACK"
	ArchiveMetadataExport   ArchiveType = "METADATA_EXPORT"
	ArchiveRepositoryBackup ArchiveType = "REPOSITORY_BACKUP"
)

// ProvenanceType records where an instance came from.
type ProvenanceType string

const (
	ProvenanceUnknown     ProvenanceType = "UNKNOWN"
	ProvenanceLocalCohort ProvenanceType = "LOCAL_COHORT"
	ProvenanceExportMode  ProvenanceType = "EXPORT_ARCHIVE"
	ProvenanceContentPack ProvenanceType = "CONTENT_PACK"
)

// ClassificationOrigin records whether a classification was assigned
// directly or arrived through propagation.
type ClassificationOrigin string

const (
	OriginAssigned   ClassificationOrigin = "ASSIGNED"
	OriginPropagated ClassificationOrigin = "PROPAGATED"
)
