package builder

import "github.com/aretw0/introspection"

// BuilderState exposes content counts for observability.
type BuilderState struct {
	Archive           string   `json:"archive"`
	DependsOn         []string `json:"depends_on,omitempty"`
	AttributeTypeDefs int      `json:"attribute_type_defs"`
	TypeDefs          int      `json:"type_defs"`
	Patches           int      `json:"patches"`
	Entities          int      `json:"entities"`
	Relationships     int      `json:"relationships"`
	Classifications   int      `json:"classifications"`
	ImportedTypeDefs  int      `json:"imported_type_defs"`
	ImportedInstances int      `json:"imported_instances"`
}

// State implements introspection.Introspectable.
func (b *Builder) State() any {
	added := len(b.primitiveList) + len(b.collectionList) + len(b.enumList)
	typeDefs := len(b.entityDefList) + len(b.classificationList) + len(b.relationshipDefList)
	instances := len(b.entityList) + len(b.relationshipList) + len(b.classificationExList)
	total := len(b.entities) + len(b.relationships) + len(b.classifications)

	return BuilderState{
		Archive:           b.properties.Name,
		DependsOn:         b.properties.DependsOn,
		AttributeTypeDefs: added,
		TypeDefs:          typeDefs,
		Patches:           len(b.patches),
		Entities:          len(b.entityList),
		Relationships:     len(b.relationshipList),
		Classifications:   len(b.classificationExList),
		ImportedTypeDefs:  len(b.typeDefNames) - typeDefs,
		ImportedInstances: total - instances,
	}
}

// ComponentType implements introspection.Component.
func (b *Builder) ComponentType() string {
	return "archive-builder"
}

var _ introspection.Introspectable = (*Builder)(nil)
var _ introspection.Component = (*Builder)(nil)
