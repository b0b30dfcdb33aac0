// Package content describes an archive declaratively. A Pack is a YAML
// document listing the types and instances of one archive; Apply turns it
// into builder content through the definition helper.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/omarchive/pkg/core"
)

// ErrInvalidPack is returned for packs that parse but cannot be applied.
var ErrInvalidPack = errors.New("invalid content pack")

// Pack is the content of one archive.
type Pack struct {
	Archive         ArchiveInfo          `yaml:"archive"`
	Enums           []EnumSpec           `yaml:"enums,omitempty"`
	Entities        []EntitySpec         `yaml:"entities,omitempty"`
	Relationships   []RelationshipSpec   `yaml:"relationships,omitempty"`
	Classifications []ClassificationSpec `yaml:"classifications,omitempty"`
	Patches         []PatchSpec          `yaml:"patches,omitempty"`
	Instances       Instances            `yaml:"instances,omitempty"`
}

// ArchiveInfo holds the archive properties. GUID defaults to the identifier
// map entry "archive:<name>".
type ArchiveInfo struct {
	GUID         string           `yaml:"guid,omitempty"`
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description,omitempty"`
	Type         core.ArchiveType `yaml:"type,omitempty"`
	Version      string           `yaml:"version,omitempty"`
	Originator   string           `yaml:"originator,omitempty"`
	Organization string           `yaml:"organization,omitempty"`
	License      string           `yaml:"license,omitempty"`
	DependsOn    []string         `yaml:"dependsOn,omitempty"`

	// StandardTypes adds the built-in primitive and collection types that
	// no dependency provides.
	StandardTypes bool `yaml:"standardTypes,omitempty"`
}

// AttributeSpec declares an attribute. Type is a data type tag such as
// "string" or "map<string,int>"; Enum names an enum instead.
type AttributeSpec struct {
	Name        string                    `yaml:"name"`
	Type        string                    `yaml:"type,omitempty"`
	Enum        string                    `yaml:"enum,omitempty"`
	Description string                    `yaml:"description,omitempty"`
	Unique      bool                      `yaml:"unique,omitempty"`
	Cardinality core.AttributeCardinality `yaml:"cardinality,omitempty"`
}

// EnumSpec declares an enum. Default is the ordinal of the default element.
type EnumSpec struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description,omitempty"`
	Default     *int          `yaml:"default,omitempty"`
	Elements    []ElementSpec `yaml:"elements"`
}

type ElementSpec struct {
	Ordinal     int    `yaml:"ordinal"`
	Value       string `yaml:"value"`
	Description string `yaml:"description,omitempty"`
}

type EntitySpec struct {
	Name        string          `yaml:"name"`
	SuperType   string          `yaml:"superType,omitempty"`
	Description string          `yaml:"description,omitempty"`
	Attributes  []AttributeSpec `yaml:"attributes,omitempty"`
}

// EndSpec declares one relationship end. Attribute is the name the entity at
// the other end uses to navigate to Type.
type EndSpec struct {
	Type        string                          `yaml:"type"`
	Attribute   string                          `yaml:"attribute"`
	Description string                          `yaml:"description,omitempty"`
	Cardinality core.RelationshipEndCardinality `yaml:"cardinality,omitempty"`
}

type RelationshipSpec struct {
	Name        string                             `yaml:"name"`
	SuperType   string                             `yaml:"superType,omitempty"`
	Description string                             `yaml:"description,omitempty"`
	Propagation core.ClassificationPropagationRule `yaml:"propagation,omitempty"`
	End1        EndSpec                            `yaml:"end1"`
	End2        EndSpec                            `yaml:"end2"`
	Attributes  []AttributeSpec                    `yaml:"attributes,omitempty"`
}

type ClassificationSpec struct {
	Name          string          `yaml:"name"`
	SuperType     string          `yaml:"superType,omitempty"`
	Description   string          `yaml:"description,omitempty"`
	ValidEntities []string        `yaml:"validEntities,omitempty"`
	Propagatable  bool            `yaml:"propagatable,omitempty"`
	Attributes    []AttributeSpec `yaml:"attributes,omitempty"`
}

// PatchSpec adds attributes to, or changes the description or status of,
// a type that is already defined here or in a dependency.
type PatchSpec struct {
	Type        string             `yaml:"type"`
	Description string             `yaml:"description,omitempty"`
	Status      core.TypeDefStatus `yaml:"status,omitempty"`
	Attributes  []AttributeSpec    `yaml:"attributes,omitempty"`
}

type Instances struct {
	Entities        []EntityInstance         `yaml:"entities,omitempty"`
	Relationships   []RelationshipInstance   `yaml:"relationships,omitempty"`
	Classifications []ClassificationInstance `yaml:"classifications,omitempty"`
}

// Properties are raw YAML values, typed against the attributes of the
// instance's type when the pack is applied.
type Properties map[string]any

// EntityInstance is an entity identified by its qualified name, which is
// also stored as the qualifiedName property.
type EntityInstance struct {
	Type            string              `yaml:"type"`
	QualifiedName   string              `yaml:"qualifiedName"`
	Status          core.InstanceStatus `yaml:"status,omitempty"`
	Properties      Properties          `yaml:"properties,omitempty"`
	Classifications []Classification    `yaml:"classifications,omitempty"`
}

type Classification struct {
	Type       string              `yaml:"type"`
	Status     core.InstanceStatus `yaml:"status,omitempty"`
	Properties Properties          `yaml:"properties,omitempty"`
}

// EntityRef points at an entity of this pack by qualified name, or at any
// known entity by GUID. A plain scalar is a qualified name.
type EntityRef struct {
	QualifiedName string `yaml:"qualifiedName,omitempty"`
	GUID          string `yaml:"guid,omitempty"`
}

func (r *EntityRef) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.QualifiedName = value.Value
		return nil
	}
	type plain EntityRef
	return value.Decode((*plain)(r))
}

func (r EntityRef) String() string {
	if r.GUID != "" {
		return r.GUID
	}
	return r.QualifiedName
}

// RelationshipInstance links two entities. ID names the relationship in the
// identifier map and defaults to "<type>:<end1>:<end2>".
type RelationshipInstance struct {
	Type       string              `yaml:"type"`
	ID         string              `yaml:"id,omitempty"`
	End1       EntityRef           `yaml:"end1"`
	End2       EntityRef           `yaml:"end2"`
	Status     core.InstanceStatus `yaml:"status,omitempty"`
	Properties Properties          `yaml:"properties,omitempty"`
}

// ClassificationInstance classifies an entity outside its own declaration,
// typically one from a dependency archive.
type ClassificationInstance struct {
	Entity         EntityRef `yaml:"entity"`
	Classification `yaml:",inline"`
}

// Load reads a pack from a YAML file.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a pack. Unknown fields are rejected.
func Parse(data []byte) (*Pack, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Pack
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse content pack: %w", err)
	}
	if p.Archive.Name == "" {
		return nil, fmt.Errorf("%w: archive name is required", ErrInvalidPack)
	}
	return &p, nil
}

// Properties returns the archive properties of the pack with guid as the
// archive GUID when the pack does not set one.
func (p *Pack) Properties(guid string) core.ArchiveProperties {
	if p.Archive.GUID != "" {
		guid = p.Archive.GUID
	}
	typ := p.Archive.Type
	if typ == "" {
		typ = core.ArchiveContentPack
	}
	return core.ArchiveProperties{
		GUID:                   guid,
		Name:                   p.Archive.Name,
		Description:            p.Archive.Description,
		Type:                   typ,
		Version:                p.Archive.Version,
		OriginatorName:         p.Archive.Originator,
		OriginatorOrganization: p.Archive.Organization,
		OriginatorLicense:      p.Archive.License,
		DependsOn:              p.Archive.DependsOn,
	}
}
