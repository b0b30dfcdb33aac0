package content

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/omarchive/pkg/builder"
	"github.com/aretw0/omarchive/pkg/core"
	"github.com/aretw0/omarchive/pkg/helper"
)

// QualifiedName is the property every pack entity carries its qualified
// name in.
const QualifiedName = "qualifiedName"

// Identifier map ids for the GUIDs a pack generates.
func ArchiveID(name string) string { return "archive:" + name }

func EnumID(name string) string { return "enum:" + name }

func TypeID(name string) string { return "type:" + name }

func EntityID(qualifiedName string) string { return "entity:" + qualifiedName }

func RelationshipID(typeName, end1, end2 string) string {
	return "relationship:" + typeName + ":" + end1 + ":" + end2
}

// applier carries the state of one Apply call.
type applier struct {
	h      *helper.Helper
	b      *builder.Builder
	logger *slog.Logger

	// Entities of this pack by qualified name.
	entities map[string]*core.EntityDetail
	// Attributes this pack's patches add, by type name.
	patched map[string][]core.TypeDefAttribute
}

// Option configures Apply.
type Option func(*applier)

// WithLogger sets the logger used to report progress.
func WithLogger(logger *slog.Logger) Option {
	return func(a *applier) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Apply adds the content of p to b, building every definition and instance
// with h. Types are added in dependency order: enums, entities,
// classifications, relationships, then patches and instances. The first
// error stops the build.
func Apply(p *Pack, h *helper.Helper, b *builder.Builder, opts ...Option) error {
	a := &applier{
		h:        h,
		b:        b,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		entities: make(map[string]*core.EntityDetail),
		patched:  make(map[string][]core.TypeDefAttribute),
	}
	for _, opt := range opts {
		opt(a)
	}

	steps := []struct {
		name string
		fn   func(*Pack) error
	}{
		{"standard types", a.standardTypes},
		{"enums", a.enums},
		{"entity types", a.entityDefs},
		{"classification types", a.classificationDefs},
		{"relationship types", a.relationshipDefs},
		{"patches", a.patches},
		{"entities", a.entityInstances},
		{"relationships", a.relationshipInstances},
		{"classifications", a.classificationInstances},
	}
	for _, step := range steps {
		a.logger.Debug("applying content", "archive", p.Archive.Name, "step", step.name)
		if err := step.fn(p); err != nil {
			return err
		}
	}

	a.logger.Info("content pack applied",
		"archive", p.Archive.Name,
		"types", len(p.Enums)+len(p.Entities)+len(p.Classifications)+len(p.Relationships),
		"patches", len(p.Patches),
		"entities", len(p.Instances.Entities),
		"relationships", len(p.Instances.Relationships),
	)
	return nil
}

func (a *applier) standardTypes(p *Pack) error {
	if !p.Archive.StandardTypes {
		return nil
	}
	for _, def := range helper.StandardPrimitiveDefs() {
		if a.b.AttributeTypeDefByName(def.Name) != nil {
			continue
		}
		if err := a.b.AddPrimitiveDef(def); err != nil {
			return err
		}
	}
	for _, def := range helper.StandardCollectionDefs() {
		if a.b.AttributeTypeDefByName(def.Name) != nil {
			continue
		}
		if err := a.b.AddCollectionDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) enums(p *Pack) error {
	for _, spec := range p.Enums {
		def := a.h.EnumDef(a.h.GUID(EnumID(spec.Name)), spec.Name, spec.Description)
		for _, el := range spec.Elements {
			def.Elements = append(def.Elements, a.h.EnumElementDef(el.Ordinal, el.Value, el.Description))
		}
		if spec.Default != nil {
			def.Default = def.Element(*spec.Default)
			if def.Default == nil {
				return fmt.Errorf("enum %s: %w: default ordinal %d has no element", spec.Name, ErrInvalidPack, *spec.Default)
			}
		}
		if err := a.b.AddEnumDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) attributes(owner string, specs []AttributeSpec) ([]core.TypeDefAttribute, error) {
	out := make([]core.TypeDefAttribute, 0, len(specs))
	for _, spec := range specs {
		var (
			attr core.TypeDefAttribute
			err  error
		)
		switch {
		case spec.Enum != "":
			attr, err = a.h.EnumAttribute(spec.Name, spec.Enum, spec.Description)
		default:
			dataType := spec.Type
			if dataType == "" {
				dataType = string(helper.DataString)
			}
			attr, err = a.h.Attribute(spec.Name, helper.DataType(dataType), spec.Description)
		}
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", owner, spec.Name, err)
		}
		attr.IsUnique = spec.Unique
		if spec.Cardinality != "" {
			attr.Cardinality = spec.Cardinality
		}
		out = append(out, attr)
	}
	return out, nil
}

func (a *applier) entityDefs(p *Pack) error {
	for _, spec := range p.Entities {
		def := a.h.EntityDef(a.h.GUID(TypeID(spec.Name)), spec.Name, spec.SuperType, spec.Description)
		attrs, err := a.attributes(spec.Name, spec.Attributes)
		if err != nil {
			return err
		}
		def.Properties = attrs
		if err := a.b.AddEntityDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) classificationDefs(p *Pack) error {
	for _, spec := range p.Classifications {
		def, err := a.h.ClassificationDef(a.h.GUID(TypeID(spec.Name)), spec.Name, spec.SuperType, spec.Description, spec.ValidEntities, spec.Propagatable)
		if err != nil {
			return fmt.Errorf("classification %s: %w", spec.Name, err)
		}
		if def.Properties, err = a.attributes(spec.Name, spec.Attributes); err != nil {
			return err
		}
		if err := a.b.AddClassificationDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) relationshipDefs(p *Pack) error {
	for _, spec := range p.Relationships {
		def := a.h.RelationshipDef(a.h.GUID(TypeID(spec.Name)), spec.Name, spec.SuperType, spec.Description, spec.Propagation)

		var err error
		if def.End1, err = a.endDef(spec.End1); err != nil {
			return fmt.Errorf("relationship %s end1: %w", spec.Name, err)
		}
		if def.End2, err = a.endDef(spec.End2); err != nil {
			return fmt.Errorf("relationship %s end2: %w", spec.Name, err)
		}
		if def.Properties, err = a.attributes(spec.Name, spec.Attributes); err != nil {
			return err
		}
		if err := a.b.AddRelationshipDef(def); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) endDef(spec EndSpec) (core.RelationshipEndDef, error) {
	return a.h.RelationshipEndDef(spec.Type, spec.Attribute, spec.Description, spec.Cardinality)
}

func (a *applier) patches(p *Pack) error {
	for _, spec := range p.Patches {
		patch, err := a.h.TypeDefPatch(spec.Type, spec.Description)
		if err != nil {
			return fmt.Errorf("patch %s: %w", spec.Type, err)
		}
		if spec.Status != "" {
			patch.Status = spec.Status
		}
		if patch.PropertyDefinitions, err = a.attributes(spec.Type, spec.Attributes); err != nil {
			return err
		}
		if err := a.b.AddTypeDefPatch(patch); err != nil {
			return err
		}
		a.patched[spec.Type] = append(a.patched[spec.Type], patch.PropertyDefinitions...)
	}
	return nil
}

func (a *applier) entityInstances(p *Pack) error {
	for _, spec := range p.Instances.Entities {
		if spec.QualifiedName == "" {
			return fmt.Errorf("%w: entity of type %s has no qualifiedName", ErrInvalidPack, spec.Type)
		}
		props, err := a.properties(spec.Type, spec.Properties)
		if err != nil {
			return fmt.Errorf("entity %s: %w", spec.QualifiedName, err)
		}
		props = a.h.AddStringProperty(props, QualifiedName, spec.QualifiedName)

		var classifications []core.Classification
		for _, cs := range spec.Classifications {
			c, err := a.classification(cs)
			if err != nil {
				return fmt.Errorf("entity %s: %w", spec.QualifiedName, err)
			}
			classifications = append(classifications, *c)
		}

		e, err := a.h.EntityDetail(spec.Type, a.h.GUID(EntityID(spec.QualifiedName)), props, spec.Status, classifications)
		if err != nil {
			return fmt.Errorf("entity %s: %w", spec.QualifiedName, err)
		}
		if err := a.b.AddEntity(e); err != nil {
			return err
		}
		a.entities[spec.QualifiedName] = e
	}
	return nil
}

func (a *applier) classification(spec Classification) (*core.Classification, error) {
	props, err := a.properties(spec.Type, spec.Properties)
	if err != nil {
		return nil, fmt.Errorf("classification %s: %w", spec.Type, err)
	}
	return a.h.Classification(spec.Type, props, spec.Status)
}

// entity resolves a reference to an entity of this pack or, by GUID, to one
// already known to the builder.
func (a *applier) entity(ref EntityRef) (*core.EntityDetail, error) {
	if ref.GUID != "" {
		return a.b.Entity(ref.GUID)
	}
	if e, ok := a.entities[ref.QualifiedName]; ok {
		return e, nil
	}
	return nil, &core.ArchiveError{Kind: core.ErrUnknownGUID, Op: "Apply", Category: "EntityDetail", ID: ref.QualifiedName}
}

func (a *applier) relationshipInstances(p *Pack) error {
	for _, spec := range p.Instances.Relationships {
		end1, err := a.entity(spec.End1)
		if err != nil {
			return fmt.Errorf("relationship %s end1: %w", spec.Type, err)
		}
		end2, err := a.entity(spec.End2)
		if err != nil {
			return fmt.Errorf("relationship %s end2: %w", spec.Type, err)
		}
		props, err := a.properties(spec.Type, spec.Properties)
		if err != nil {
			return fmt.Errorf("relationship %s: %w", spec.Type, err)
		}

		id := spec.ID
		if id == "" {
			id = RelationshipID(spec.Type, spec.End1.String(), spec.End2.String())
		}
		r, err := a.h.Relationship(spec.Type, a.h.GUID(id), props, spec.Status, a.h.EntityProxy(end1), a.h.EntityProxy(end2))
		if err != nil {
			return fmt.Errorf("relationship %s: %w", spec.Type, err)
		}
		if err := a.b.AddRelationship(r); err != nil {
			return err
		}
	}
	return nil
}

func (a *applier) classificationInstances(p *Pack) error {
	for _, spec := range p.Instances.Classifications {
		e, err := a.entity(spec.Entity)
		if err != nil {
			return fmt.Errorf("classification %s: %w", spec.Type, err)
		}
		c, err := a.classification(spec.Classification)
		if err != nil {
			return err
		}
		if err := a.b.AddClassification(a.h.ClassificationEntityExtension(e, c)); err != nil {
			return err
		}
	}
	return nil
}
