package builder

import (
	"errors"

	"github.com/aretw0/omarchive/pkg/core"
)

// slot is one index position a new definition would occupy.
type slot struct {
	existing any
	id       string
}

// kindSlot returns the value stored under key, or an untyped nil.
func kindSlot[T any](index map[string]T, key string) any {
	if v, ok := index[key]; ok {
		return v
	}
	return nil
}

// checkSlots fails when any occupied slot holds a different value. It
// reports exists when the definition is already registered as-is.
func checkSlots(op, category string, def any, slots []slot) (exists bool, err error) {
	for _, s := range slots {
		if s.existing == nil {
			continue
		}
		if !sameValue(s.existing, def) {
			return false, &core.ArchiveError{
				Kind:     core.ErrDuplicateType,
				Op:       op,
				Category: category,
				ID:       s.id,
				Existing: describe(s.existing),
				New:      describe(def),
			}
		}
		exists = true
	}
	return exists, nil
}

func describe(v any) string {
	switch d := v.(type) {
	case core.AttributeTypeDef:
		h := d.AttributeHeader()
		return h.Name + "/" + h.GUID
	case core.TypeDef:
		b := d.Base()
		return b.Name + "/" + b.GUID
	}
	return ""
}

// checkName requires a non-empty, whitespace-free name.
func checkName(op, category, name string) error {
	if name == "" {
		return &core.ArchiveError{Kind: core.ErrMissingName, Op: op, Category: category}
	}
	return core.CheckTypeName(op, category, name)
}

// checkDeclaredAttributes rejects a property list naming one attribute twice.
func checkDeclaredAttributes(op, category string, base *core.TypeDefBase) error {
	seen := make(map[string]struct{}, len(base.Properties))
	for _, attr := range base.Properties {
		if _, dup := seen[attr.Name]; dup {
			return &core.ArchiveError{
				Kind:     core.ErrDuplicateAttribute,
				Op:       op,
				Category: category,
				ID:       base.Name + "." + attr.Name,
			}
		}
		seen[attr.Name] = struct{}{}
	}
	return nil
}

// --- Per-entity attribute names ---

func (b *Builder) claimed(entityType, attr string) bool {
	_, ok := b.entityAttributes[entityType][attr]
	return ok
}

func (b *Builder) claim(entityType, attr string) {
	if entityType == "" || attr == "" {
		return
	}
	names, ok := b.entityAttributes[entityType]
	if !ok {
		names = make(map[string]struct{})
		b.entityAttributes[entityType] = names
	}
	names[attr] = struct{}{}
}

// checkEntityAttributes rejects declared properties already reached through
// a relationship end registered before the entity type.
func (b *Builder) checkEntityAttributes(op string, def *core.EntityDef) error {
	for _, attr := range def.Properties {
		if b.claimed(def.Name, attr.Name) {
			return &core.ArchiveError{
				Kind:     core.ErrDuplicateAttribute,
				Op:       op,
				Category: "EntityDef",
				ID:       def.Name + "." + attr.Name,
			}
		}
	}
	return nil
}

// checkEnds verifies that neither end name is already in use on the entity
// type that will navigate through it.
func (b *Builder) checkEnds(op string, def *core.RelationshipDef) error {
	end1Type, end2Type := def.End1.EntityType.Name, def.End2.EntityType.Name
	name1, name2 := def.End1.AttributeName, def.End2.AttributeName

	clash := func(entityType, attr string) error {
		return &core.ArchiveError{
			Kind:     core.ErrDuplicateAttribute,
			Op:       op,
			Category: "RelationshipDef",
			ID:       entityType + "." + attr,
			New:      def.Name,
		}
	}

	if name1 != "" && b.claimed(end2Type, name1) {
		return clash(end2Type, name1)
	}
	if name2 != "" && b.claimed(end1Type, name2) {
		return clash(end1Type, name2)
	}
	if end1Type == end2Type && name1 != "" && name1 == name2 {
		return clash(end1Type, name2)
	}
	return nil
}

func (b *Builder) claimEnds(def *core.RelationshipDef) {
	b.claim(def.End2.EntityType.Name, def.End1.AttributeName)
	b.claim(def.End1.EntityType.Name, def.End2.AttributeName)
}

// --- Lookup helpers ---

// find resolves key against the kind's name index first, then the shared
// GUID index.
func find[T any, I any](category, key string, byName map[string]T, byGUID map[string]I) (T, error) {
	var zero T
	if key == "" {
		return zero, &core.ArchiveError{Kind: core.ErrMissingName, Op: "Lookup", Category: category}
	}
	if v, ok := byName[key]; ok {
		return v, nil
	}
	if v, ok := byGUID[key]; ok {
		if t, ok := any(v).(T); ok {
			return t, nil
		}
	}
	return zero, &core.ArchiveError{Kind: core.ErrMissingType, Op: "Lookup", Category: category, ID: key}
}

// withOp re-labels an archive error with the caller's operation.
func withOp(err error, op string) error {
	var ae *core.ArchiveError
	if errors.As(err, &ae) {
		cp := *ae
		cp.Op = op
		return &cp
	}
	return err
}
