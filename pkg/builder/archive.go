package builder

import (
	"slices"

	"github.com/aretw0/omarchive/pkg/core"
)

// Archive returns a snapshot of the content added so far. Content imported
// from dependencies is not included. Stores with nothing in them are nil.
func (b *Builder) Archive() *core.Archive {
	archive := &core.Archive{Properties: b.properties}
	archive.Properties.DependsOn = slices.Clone(b.properties.DependsOn)

	var ts core.TypeStore
	for _, d := range b.primitiveList {
		ts.AttributeTypeDefs = append(ts.AttributeTypeDefs, d)
	}
	for _, d := range b.collectionList {
		ts.AttributeTypeDefs = append(ts.AttributeTypeDefs, d)
	}
	for _, d := range b.enumList {
		ts.AttributeTypeDefs = append(ts.AttributeTypeDefs, d)
	}
	for _, d := range b.entityDefList {
		ts.NewTypeDefs = append(ts.NewTypeDefs, d)
	}
	for _, d := range b.classificationList {
		ts.NewTypeDefs = append(ts.NewTypeDefs, d)
	}
	for _, d := range b.relationshipDefList {
		ts.NewTypeDefs = append(ts.NewTypeDefs, d)
	}
	ts.TypeDefPatches = slices.Clone(b.patches)
	if len(ts.AttributeTypeDefs) > 0 || len(ts.NewTypeDefs) > 0 || len(ts.TypeDefPatches) > 0 {
		archive.TypeStore = &ts
	}

	if len(b.entityList) > 0 || len(b.relationshipList) > 0 || len(b.classificationExList) > 0 {
		archive.InstanceStore = &core.InstanceStore{
			Entities:        slices.Clone(b.entityList),
			Relationships:   slices.Clone(b.relationshipList),
			Classifications: slices.Clone(b.classificationExList),
		}
	}
	return archive
}
