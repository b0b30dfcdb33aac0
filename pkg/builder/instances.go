package builder

import "github.com/aretw0/omarchive/pkg/core"

// AddEntity records an entity instance. A nil entity is ignored.
func (b *Builder) AddEntity(e *core.EntityDetail) error {
	const op = "AddEntity"
	if e == nil {
		return nil
	}
	if err := b.checkInstance(op, "EntityDetail", e.GUID, b.entities[e.GUID] != nil); err != nil {
		return err
	}
	b.entities[e.GUID] = e
	b.entityList = append(b.entityList, e)
	b.logger.Debug("added entity", "guid", e.GUID, "type", e.Type.TypeDefName)
	return nil
}

// AddRelationship records a relationship instance. A nil relationship is
// ignored.
func (b *Builder) AddRelationship(r *core.Relationship) error {
	const op = "AddRelationship"
	if r == nil {
		return nil
	}
	if err := b.checkInstance(op, "Relationship", r.GUID, b.relationships[r.GUID] != nil); err != nil {
		return err
	}
	b.relationships[r.GUID] = r
	b.relationshipList = append(b.relationshipList, r)
	b.logger.Debug("added relationship", "guid", r.GUID, "type", r.Type.TypeDefName)
	return nil
}

// AddClassification records a classification of an entity. Each entity may
// carry a given classification once.
func (b *Builder) AddClassification(c *core.ClassificationEntityExtension) error {
	const op = "AddClassification"
	if c == nil {
		return nil
	}
	if c.EntityToClassify == nil || c.Classification == nil {
		return &core.ArchiveError{Kind: core.ErrMissingName, Op: op, Category: "Classification", ID: c.Key()}
	}
	key := c.Key()
	if err := b.checkInstance(op, "Classification", key, b.classifications[key] != nil); err != nil {
		return err
	}
	b.classifications[key] = c
	b.classificationExList = append(b.classificationExList, c)
	b.logger.Debug("added classification", "key", key)
	return nil
}

func (b *Builder) checkInstance(op, category, id string, exists bool) error {
	if id == "" {
		return &core.ArchiveError{Kind: core.ErrMissingName, Op: op, Category: category}
	}
	if exists {
		return &core.ArchiveError{Kind: core.ErrDuplicateInstance, Op: op, Category: category, ID: id}
	}
	return nil
}

// Entity returns the entity with the given GUID.
func (b *Builder) Entity(guid string) (*core.EntityDetail, error) {
	if e, ok := b.entities[guid]; ok {
		return e, nil
	}
	return nil, unknown("Entity", "EntityDetail", guid)
}

// QueryEntity returns the entity with the given GUID, if there is one.
func (b *Builder) QueryEntity(guid string) (*core.EntityDetail, bool) {
	e, ok := b.entities[guid]
	return e, ok
}

// Relationship returns the relationship with the given GUID.
func (b *Builder) Relationship(guid string) (*core.Relationship, error) {
	if r, ok := b.relationships[guid]; ok {
		return r, nil
	}
	return nil, unknown("Relationship", "Relationship", guid)
}

// Classification returns the named classification of an entity.
func (b *Builder) Classification(entityGUID, name string) (*core.ClassificationEntityExtension, error) {
	key := core.ClassificationKey(entityGUID, name)
	if c, ok := b.classifications[key]; ok {
		return c, nil
	}
	return nil, unknown("Classification", "Classification", key)
}

func unknown(op, category, id string) error {
	if id == "" {
		return &core.ArchiveError{Kind: core.ErrMissingName, Op: op, Category: category}
	}
	return &core.ArchiveError{Kind: core.ErrUnknownGUID, Op: op, Category: category, ID: id}
}
