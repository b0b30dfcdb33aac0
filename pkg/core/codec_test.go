package core_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/omarchive/pkg/core"
)

func sampleArchive() *core.Archive {
	entity := fooDef()
	rel := &core.RelationshipDef{PropagationRule: core.PropagateNone}
	rel.GUID = "rel-guid"
	rel.Name = "FooLink"
	rel.End1 = core.RelationshipEndDef{EntityType: core.TypeDefLink{GUID: "foo-guid", Name: "Foo"}, AttributeName: "from"}
	rel.End2 = core.RelationshipEndDef{EntityType: core.TypeDefLink{GUID: "foo-guid", Name: "Foo"}, AttributeName: "to"}

	e := &core.EntityDetail{
		Properties: core.InstanceProperties{
			"name":  &core.PrimitiveValue{Kind: core.PrimitiveString, Value: "one"},
			"count": &core.PrimitiveValue{Kind: core.PrimitiveInt, Value: 3},
			"big":   &core.PrimitiveValue{Kind: core.PrimitiveLong, Value: int64(1<<53 + 1)},
			"when":  &core.PrimitiveValue{Kind: core.PrimitiveDate, Value: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)},
			"level": &core.EnumValue{TypeName: "Level", Ordinal: 1, Symbolic: "High"},
			"tags": &core.ArrayValue{TypeName: "array<string>", Values: core.PropertyValues{
				&core.PrimitiveValue{Kind: core.PrimitiveString, Value: "a"},
			}},
			"labels": &core.MapValue{TypeName: "map<string,long>", Values: core.InstanceProperties{
				"k": &core.PrimitiveValue{Kind: core.PrimitiveLong, Value: int64(9)},
			}},
		},
	}
	e.GUID = "e1"

	return &core.Archive{
		Properties: core.ArchiveProperties{GUID: "a-guid", Name: "Sample", Type: core.ArchiveContentPack},
		TypeStore: &core.TypeStore{
			AttributeTypeDefs: []core.AttributeTypeDef{
				&core.PrimitiveDef{Header: core.Header{GUID: "s", Name: "string"}, Kind: core.PrimitiveString},
				&core.EnumDef{Header: core.Header{GUID: "l", Name: "Level"}, Elements: []core.EnumElementDef{{Ordinal: 1, Value: "High"}}},
			},
			NewTypeDefs: []core.TypeDef{entity, rel},
		},
		InstanceStore: &core.InstanceStore{Entities: []*core.EntityDetail{e}},
	}
}

func checkDecoded(t *testing.T, got *core.Archive) {
	t.Helper()
	require.NotNil(t, got.TypeStore)
	require.Len(t, got.TypeStore.AttributeTypeDefs, 2)
	assert.IsType(t, &core.PrimitiveDef{}, got.TypeStore.AttributeTypeDefs[0])
	enum, ok := got.TypeStore.AttributeTypeDefs[1].(*core.EnumDef)
	require.True(t, ok)
	assert.Equal(t, "High", enum.Element(1).Value)

	require.Len(t, got.TypeStore.NewTypeDefs, 2)
	foo, ok := got.TypeStore.NewTypeDefs[0].(*core.EntityDef)
	require.True(t, ok)
	assert.Equal(t, "foo-guid", foo.GUID)
	assert.Equal(t, "Foo", foo.Name)
	rel, ok := got.TypeStore.NewTypeDefs[1].(*core.RelationshipDef)
	require.True(t, ok)
	assert.Equal(t, "to", rel.End2.AttributeName)

	require.NotNil(t, got.InstanceStore)
	require.Len(t, got.InstanceStore.Entities, 1)
	props := got.InstanceStore.Entities[0].Properties
	assert.Equal(t, "one", props.String("name"))
	assert.Equal(t, 3, props["count"].(*core.PrimitiveValue).Value)
	assert.Equal(t, int64(1<<53+1), props["big"].(*core.PrimitiveValue).Value, "long beyond float64 precision")
	when, ok := props["when"].(*core.PrimitiveValue).Value.(time.Time)
	require.True(t, ok)
	assert.True(t, when.Equal(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)))
	assert.Equal(t, "High", props["level"].(*core.EnumValue).Symbolic)
	assert.Len(t, props["tags"].(*core.ArrayValue).Values, 1)
	labels := props["labels"].(*core.MapValue).Values
	assert.Equal(t, int64(9), labels["k"].(*core.PrimitiveValue).Value)
}

func TestCodec_JSON(t *testing.T) {
	data, err := json.Marshal(sampleArchive())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entityDef"`)
	assert.Contains(t, string(data), `"primitiveDef"`)

	var got core.Archive
	require.NoError(t, json.Unmarshal(data, &got))
	checkDecoded(t, &got)
}

func TestCodec_JSONDecoderKeepsLongs(t *testing.T) {
	data, err := json.Marshal(core.InstanceProperties{
		"n": &core.PrimitiveValue{Kind: core.PrimitiveLong, Value: int64(9007199254740993)},
		"d": &core.PrimitiveValue{Kind: core.PrimitiveDouble, Value: 0.25},
	})
	require.NoError(t, err)

	var got core.InstanceProperties
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, int64(9007199254740993), got["n"].(*core.PrimitiveValue).Value)
	assert.Equal(t, 0.25, got["d"].(*core.PrimitiveValue).Value)
}

func TestCodec_YAML(t *testing.T) {
	data, err := yaml.Marshal(sampleArchive())
	require.NoError(t, err)
	assert.Contains(t, string(data), "relationshipDef:")

	var got core.Archive
	require.NoError(t, yaml.Unmarshal(data, &got))
	checkDecoded(t, &got)
}

func TestCodec_EmptyEnvelope(t *testing.T) {
	var got core.Archive
	err := json.Unmarshal([]byte(`{"archiveProperties":{},"archiveTypeStore":{"newTypeDefs":[{}]}}`), &got)
	assert.Error(t, err)
}

func TestCodec_EmptyStoresOmitted(t *testing.T) {
	data, err := json.Marshal(&core.Archive{Properties: core.ArchiveProperties{Name: "Empty"}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "archiveTypeStore")
	assert.NotContains(t, string(data), "archiveInstanceStore")
}
