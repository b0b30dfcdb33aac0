package helper_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/omarchive/pkg/builder"
	"github.com/aretw0/omarchive/pkg/core"
	"github.com/aretw0/omarchive/pkg/guidmap"
	"github.com/aretw0/omarchive/pkg/helper"
)

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T, cfg helper.Config) (*builder.Builder, *helper.Helper) {
	t.Helper()
	b, err := builder.New(core.ArchiveProperties{GUID: "archive-guid", Name: "Test"}, nil)
	require.NoError(t, err)
	if cfg.ArchiveGUID == "" {
		cfg.ArchiveGUID = "archive-guid"
	}
	if cfg.Originator == "" {
		cfg.Originator = "tester"
	}
	if cfg.CreationTime.IsZero() {
		cfg.CreationTime = created
	}
	return b, helper.New(b, cfg)
}

// hierarchy registers Base(qualifiedName, unique) <- Derived(description).
func hierarchy(t *testing.T, b *builder.Builder, h *helper.Helper) {
	t.Helper()
	base := h.EntityDef("base-guid", "Base", "", "root type")
	qn, err := h.Attribute("qualifiedName", helper.DataString, "unique name")
	require.NoError(t, err)
	qn.IsUnique = true
	base.Properties = append(base.Properties, qn)
	require.NoError(t, b.AddEntityDef(base))

	derived := h.EntityDef("derived-guid", "Derived", "Base", "leaf type")
	desc, err := h.Attribute("description", helper.DataString, "free text")
	require.NoError(t, err)
	derived.Properties = append(derived.Properties, desc)
	require.NoError(t, b.AddEntityDef(derived))
}

func TestEntityProxy_UniquePropertiesOnly(t *testing.T) {
	b, h := setup(t, helper.Config{})
	hierarchy(t, b, h)

	props := h.AddStringProperty(nil, "qualifiedName", "Derived::one")
	props = h.AddStringProperty(props, "description", "the first one")
	entity, err := h.EntityDetail("Derived", "e1", props, "", nil)
	require.NoError(t, err)

	proxy := h.EntityProxy(entity)

	require.NotNil(t, proxy)
	assert.Equal(t, "e1", proxy.GUID)
	assert.Len(t, proxy.UniqueProperties, 1)
	assert.Contains(t, proxy.UniqueProperties, "qualifiedName")
	assert.NotContains(t, proxy.UniqueProperties, "description")
	assert.Equal(t, "Derived::one", proxy.UniqueProperties.String("qualifiedName"))
}

func TestEntityProxy_PatchedUniqueProperty(t *testing.T) {
	b, h := setup(t, helper.Config{})
	hierarchy(t, b, h)

	patch, err := h.TypeDefPatch("Base", "")
	require.NoError(t, err)
	code, err := h.Attribute("code", helper.DataString, "short unique code")
	require.NoError(t, err)
	code.IsUnique = true
	patch.PropertyDefinitions = append(patch.PropertyDefinitions, code)
	require.NoError(t, b.AddTypeDefPatch(patch))

	props := h.AddStringProperty(nil, "qualifiedName", "Derived::one")
	props = h.AddStringProperty(props, "code", "D1")
	props = h.AddStringProperty(props, "description", "the first one")
	entity, err := h.EntityDetail("Derived", "e1", props, "", nil)
	require.NoError(t, err)

	proxy := h.EntityProxy(entity)
	assert.Len(t, proxy.UniqueProperties, 2)
	assert.Equal(t, "D1", proxy.UniqueProperties.String("code"))
	assert.NotContains(t, proxy.UniqueProperties, "description")
}

func TestEntityDetail_InstanceType(t *testing.T) {
	b, h := setup(t, helper.Config{})
	hierarchy(t, b, h)

	entity, err := h.EntityDetail("Derived", "e1", nil, "", nil)
	require.NoError(t, err)

	typ := entity.Type
	assert.Equal(t, core.CategoryEntity, typ.Category)
	assert.Equal(t, "derived-guid", typ.TypeDefGUID)
	require.Len(t, typ.SuperTypes, 1)
	assert.Equal(t, "Base", typ.SuperTypes[0].Name)
	assert.ElementsMatch(t, []string{"qualifiedName", "description"}, typ.ValidInstanceProperties)
	assert.Equal(t, core.StatusActive, entity.Status)

	_, err = h.EntityDetail("Nope", "e2", nil, "", nil)
	assert.ErrorIs(t, err, core.ErrMissingType)
}

func TestAttribute(t *testing.T) {
	_, h := setup(t, helper.Config{})

	t.Run("Defaults", func(t *testing.T) {
		attr, err := h.Attribute("name", helper.DataString, "display name")
		require.NoError(t, err)
		assert.Equal(t, core.CardinalityAtMostOne, attr.Cardinality)
		assert.Equal(t, 0, attr.ValuesMinCount)
		assert.Equal(t, 1, attr.ValuesMaxCount)
		assert.True(t, attr.IsIndexable)
		assert.False(t, attr.IsUnique)
		assert.Equal(t, core.CategoryPrimitive, attr.Type.Category)
		assert.Equal(t, "string", attr.Type.Name)
	})

	t.Run("Every Tag Resolves", func(t *testing.T) {
		tags := []helper.DataType{
			helper.DataString, helper.DataInt, helper.DataLong, helper.DataShort, helper.DataDate,
			helper.DataBoolean, helper.DataChar, helper.DataByte, helper.DataFloat, helper.DataDouble,
			helper.DataBigInteger, helper.DataBigDecimal, helper.DataObject,
			helper.DataStringArray, helper.DataIntArray, helper.DataStringStringMap,
			helper.DataStringBoolMap, helper.DataStringIntMap, helper.DataStringLongMap,
			helper.DataStringObjectMap,
		}
		for _, tag := range tags {
			attr, err := h.Attribute("a", tag, "")
			require.NoError(t, err, tag)
			assert.Equal(t, string(tag), attr.Type.Name)
			assert.Equal(t, helper.StandardGUID(string(tag)), attr.Type.GUID)
		}
	})

	t.Run("Collections", func(t *testing.T) {
		attr, err := h.Attribute("tags", helper.DataStringArray, "")
		require.NoError(t, err)
		assert.Equal(t, core.CategoryCollection, attr.Type.Category)
	})

	t.Run("Bad Data Type", func(t *testing.T) {
		for _, tag := range []helper.DataType{"", "uuid", "array<date>", "String"} {
			_, err := h.Attribute("a", tag, "")
			assert.ErrorIs(t, err, core.ErrBadDataType, tag)
		}
	})
}

func TestAttribute_PrefersRegisteredType(t *testing.T) {
	b, h := setup(t, helper.Config{})
	custom := &core.PrimitiveDef{Header: core.Header{GUID: "dependency-string-guid", Name: "string"}, Kind: core.PrimitiveString}
	require.NoError(t, b.AddPrimitiveDef(custom))

	attr, err := h.Attribute("name", helper.DataString, "")
	require.NoError(t, err)
	assert.Equal(t, "dependency-string-guid", attr.Type.GUID)
}

func TestEnumAttributeAndElement(t *testing.T) {
	b, h := setup(t, helper.Config{})
	enum := h.EnumDef("enum-guid", "Criticality", "how much it matters")
	enum.Elements = []core.EnumElementDef{
		h.EnumElementDef(0, "Unclassified", ""),
		h.EnumElementDef(1, "Marginal", ""),
		h.EnumElementDef(99, "Other", ""),
	}
	enum.Default = &enum.Elements[0]
	require.NoError(t, b.AddEnumDef(enum))

	attr, err := h.EnumAttribute("criticality", "Criticality", "")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryEnum, attr.Type.Category)
	assert.Equal(t, "Unclassified", attr.DefaultValue)

	_, err = h.EnumAttribute("x", "Missing", "")
	assert.ErrorIs(t, err, core.ErrMissingType)

	assert.Equal(t, "Marginal", h.EnumElement(enum, 1).Value)
	assert.Equal(t, "Unclassified", h.EnumElement(enum, 42).Value, "unknown ordinal falls back to default")

	enum.Default = nil
	assert.Nil(t, h.EnumElement(enum, 42))

	props, err := h.AddEnumProperty(nil, "criticality", "Criticality", 99)
	require.NoError(t, err)
	ev, ok := props["criticality"].(*core.EnumValue)
	require.True(t, ok)
	assert.Equal(t, "Other", ev.Symbolic)
	assert.Equal(t, "enum-guid", ev.TypeGUID)
}

func TestTypeDefs_StatusInheritance(t *testing.T) {
	b, h := setup(t, helper.Config{})

	plain := h.EntityDef("g1", "Plain", "", "")
	assert.Equal(t, core.DefaultValidStatuses(), plain.ValidInstanceStatusList)
	assert.Equal(t, core.StatusActive, plain.InitialStatus)
	assert.Nil(t, plain.SuperType)

	governed := h.EntityDef("g2", "Governed", "", "")
	governed.ValidInstanceStatusList = []core.InstanceStatus{core.StatusDraft, core.StatusApproved, core.StatusDeleted}
	governed.InitialStatus = core.StatusDraft
	require.NoError(t, b.AddEntityDef(governed))

	child := h.EntityDef("g3", "Child", "Governed", "")
	assert.Equal(t, governed.ValidInstanceStatusList, child.ValidInstanceStatusList)
	assert.Equal(t, core.StatusDraft, child.InitialStatus)
	require.NotNil(t, child.SuperType)
	assert.Equal(t, "g2", child.SuperType.GUID)

	orphan := h.EntityDef("g4", "Orphan", "Unknown", "")
	assert.Equal(t, core.DefaultValidStatuses(), orphan.ValidInstanceStatusList)
	require.NotNil(t, orphan.SuperType)
	assert.Equal(t, "Unknown", orphan.SuperType.Name)

	assert.Equal(t, "tester", child.CreatedBy)
	assert.Equal(t, "archive-guid", child.Origin)
	assert.Equal(t, created, *child.CreateTime)
	assert.Equal(t, int64(1), child.Version)
}

func TestRelationshipAndClassificationDefs(t *testing.T) {
	b, h := setup(t, helper.Config{})
	require.NoError(t, b.AddEntityDef(h.EntityDef("a-guid", "Asset", "", "")))

	rel := h.RelationshipDef("r-guid", "AssetLink", "", "", "")
	assert.Equal(t, core.PropagateNone, rel.PropagationRule)

	end1, err := h.RelationshipEndDef("Asset", "source", "", "")
	require.NoError(t, err)
	assert.Equal(t, "a-guid", end1.EntityType.GUID)
	assert.Equal(t, core.EndCardinalityAnyNumber, end1.Cardinality)

	_, err = h.RelationshipEndDef("Missing", "x", "", core.EndCardinalityAtMostOne)
	assert.ErrorIs(t, err, core.ErrMissingType)

	cls, err := h.ClassificationDef("c-guid", "Confidential", "", "", []string{"Asset"}, true)
	require.NoError(t, err)
	require.Len(t, cls.ValidEntityDefs, 1)
	assert.True(t, cls.Propagatable)

	_, err = h.ClassificationDef("c2", "Other", "", "", []string{"Missing"}, false)
	assert.ErrorIs(t, err, core.ErrMissingType)
}

func TestTypeDefPatch(t *testing.T) {
	b, h := setup(t, helper.Config{})
	require.NoError(t, b.AddEntityDef(h.EntityDef("g", "Foo", "", "")))

	patch, err := h.TypeDefPatch("Foo", "now with more")
	require.NoError(t, err)
	assert.Equal(t, int64(1), patch.ApplyToVersion)
	assert.Equal(t, int64(2), patch.UpdateToVersion)
	assert.Equal(t, "tester", patch.UpdatedBy)
	assert.Equal(t, "now with more", patch.Description)

	_, err = h.TypeDefPatch("Bar", "")
	assert.ErrorIs(t, err, core.ErrMissingType)
}

func TestAuditHeader(t *testing.T) {
	t.Run("First Version Has No Update Stamp", func(t *testing.T) {
		b, h := setup(t, helper.Config{License: "Apache-2.0", ArchiveName: "Pack"})
		require.NoError(t, b.AddEntityDef(h.EntityDef("g", "Asset", "", "")))

		e, err := h.EntityDetail("Asset", "e1", nil, core.StatusDraft, nil)
		require.NoError(t, err)
		assert.Equal(t, "tester", e.CreatedBy)
		assert.Equal(t, "Apache-2.0", e.License)
		assert.Equal(t, "archive-guid", e.MetadataCollectionID)
		assert.Equal(t, "Pack", e.MetadataCollectionName)
		assert.Equal(t, core.ProvenanceContentPack, e.Provenance)
		assert.Equal(t, core.StatusDraft, e.Status)
		assert.Equal(t, created, *e.CreateTime)
		assert.Empty(t, e.UpdatedBy)
		assert.Nil(t, e.UpdateTime)
	})

	t.Run("Later Version Is Stamped As Update", func(t *testing.T) {
		b, h := setup(t, helper.Config{Version: 3})
		require.NoError(t, b.AddEntityDef(h.EntityDef("g", "Asset", "", "")))

		e, err := h.EntityDetail("Asset", "e1", nil, "", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), e.Version)
		assert.Equal(t, "tester", e.UpdatedBy)
		require.NotNil(t, e.UpdateTime)
		assert.Equal(t, created, *e.UpdateTime)
	})

	t.Run("Creation Time Defaults To Now", func(t *testing.T) {
		b, err := builder.New(core.ArchiveProperties{Name: "Test"}, nil)
		require.NoError(t, err)
		h := helper.New(b, helper.Config{})
		require.NoError(t, b.AddEntityDef(h.EntityDef("g", "Asset", "", "")))

		before := time.Now().Add(-time.Minute)
		e, err := h.EntityDetail("Asset", "e1", nil, "", nil)
		require.NoError(t, err)
		assert.True(t, e.CreateTime.After(before))
	})
}

func TestRelationshipAndClassificationInstances(t *testing.T) {
	b, h := setup(t, helper.Config{})
	hierarchy(t, b, h)

	rel := h.RelationshipDef("rel-guid", "DerivedLink", "", "", core.PropagateBoth)
	var err error
	rel.End1, err = h.RelationshipEndDef("Derived", "from", "", "")
	require.NoError(t, err)
	rel.End2, err = h.RelationshipEndDef("Derived", "to", "", "")
	require.NoError(t, err)
	require.NoError(t, b.AddRelationshipDef(rel))

	cls, err := h.ClassificationDef("cls-guid", "Confidential", "", "", []string{"Base"}, false)
	require.NoError(t, err)
	require.NoError(t, b.AddClassificationDef(cls))

	one, err := h.EntityDetail("Derived", "e1", h.AddStringProperty(nil, "qualifiedName", "one"), "", nil)
	require.NoError(t, err)
	two, err := h.EntityDetail("Derived", "e2", h.AddStringProperty(nil, "qualifiedName", "two"), "", nil)
	require.NoError(t, err)

	r, err := h.Relationship("DerivedLink", "r1", nil, "", h.EntityProxy(one), h.EntityProxy(two))
	require.NoError(t, err)
	assert.Equal(t, core.CategoryRelationship, r.Type.Category)
	assert.Equal(t, "e2", r.End2.GUID)
	require.NoError(t, b.AddRelationship(r))

	c, err := h.Classification("Confidential", h.AddIntProperty(nil, "level", 3), "")
	require.NoError(t, err)
	assert.Equal(t, "Confidential", c.Name)
	assert.Equal(t, core.OriginAssigned, c.Origin)

	ext := h.ClassificationEntityExtension(one, c)
	assert.Equal(t, "e1", ext.EntityToClassify.GUID)
	require.NoError(t, b.AddClassification(ext))
	assert.ErrorIs(t, b.AddClassification(h.ClassificationEntityExtension(one, c)), core.ErrDuplicateInstance)
}

func TestPropertyHelpers(t *testing.T) {
	_, h := setup(t, helper.Config{})

	var props core.InstanceProperties
	props = h.AddStringProperty(props, "empty", "")
	assert.Nil(t, props, "empty values are skipped")

	props = h.AddStringProperty(props, "name", "x")
	props = h.AddIntProperty(props, "count", 7)
	props = h.AddLongProperty(props, "size", 1<<40)
	props = h.AddBooleanProperty(props, "active", true)
	props = h.AddDateProperty(props, "when", created)
	props = h.AddDateProperty(props, "never", time.Time{})
	props = h.AddStringArrayProperty(props, "tags", []string{"a", "b"})
	props = h.AddStringArrayProperty(props, "noTags", nil)
	props = h.AddStringMapProperty(props, "labels", map[string]string{"k": "v"})

	assert.Len(t, props, 7)
	assert.Equal(t, 7, props["count"].(*core.PrimitiveValue).Value)
	assert.Equal(t, int64(1<<40), props["size"].(*core.PrimitiveValue).Value)
	assert.Equal(t, true, props["active"].(*core.PrimitiveValue).Value)
	assert.Equal(t, created, props["when"].(*core.PrimitiveValue).Value)

	arr := props["tags"].(*core.ArrayValue)
	assert.Equal(t, "array<string>", arr.TypeName)
	assert.Len(t, arr.Values, 2)

	m := props["labels"].(*core.MapValue)
	assert.Equal(t, "v", m.Values.String("k"))
}

func TestStandardDefs(t *testing.T) {
	prims := helper.StandardPrimitiveDefs()
	assert.Len(t, prims, len(core.PrimitiveKinds))
	colls := helper.StandardCollectionDefs()
	assert.Len(t, colls, len(helper.StandardCollections))

	again := helper.StandardPrimitiveDefs()
	for i := range prims {
		assert.Equal(t, prims[i].GUID, again[i].GUID, "GUIDs are deterministic")
		_, err := uuid.Parse(prims[i].GUID)
		assert.NoError(t, err)
	}

	b, err := builder.New(core.ArchiveProperties{Name: "Base"}, nil)
	require.NoError(t, err)
	for _, d := range prims {
		require.NoError(t, b.AddPrimitiveDef(d))
	}
	for _, d := range colls {
		require.NoError(t, b.AddCollectionDef(d))
	}
}

func TestGUID(t *testing.T) {
	t.Run("Random Without Map", func(t *testing.T) {
		_, h := setup(t, helper.Config{})
		assert.NotEqual(t, h.GUID("x"), h.GUID("x"))
	})

	t.Run("Stable With Map", func(t *testing.T) {
		m := guidmap.Open(filepath.Join(t.TempDir(), guidmap.FileName("Test")))
		_, h := setup(t, helper.Config{GUIDs: m})
		assert.Equal(t, h.GUID("x"), h.GUID("x"))
		assert.Equal(t, 1, m.Used())
	})
}

func TestTypedPropertyHelpers(t *testing.T) {
	_, h := setup(t, helper.Config{})

	t.Run("Primitive", func(t *testing.T) {
		props, err := h.AddPrimitiveProperty(nil, "small", core.PrimitiveShort, 12)
		require.NoError(t, err)
		assert.Equal(t, int16(12), props["small"].(*core.PrimitiveValue).Value)

		props, err = h.AddPrimitiveProperty(props, "nothing", core.PrimitiveString, nil)
		require.NoError(t, err)
		assert.Len(t, props, 1)

		_, err = h.AddPrimitiveProperty(props, "flag", core.PrimitiveBoolean, "yes")
		assert.ErrorIs(t, err, core.ErrBadDataType)
	})

	t.Run("Array", func(t *testing.T) {
		def := h.ArrayCollectionDef(core.PrimitiveInt)
		props, err := h.AddCollectionProperty(nil, "ports", def, []any{80, 443.0})
		require.NoError(t, err)
		arr := props["ports"].(*core.ArrayValue)
		assert.Equal(t, def.GUID, arr.TypeGUID)
		assert.Equal(t, 443, arr.Values[1].(*core.PrimitiveValue).Value)

		props, err = h.AddCollectionProperty(nil, "empty", def, []any{})
		require.NoError(t, err)
		assert.Nil(t, props)

		_, err = h.AddCollectionProperty(nil, "ports", def, "80")
		assert.ErrorIs(t, err, core.ErrBadDataType)
		_, err = h.AddCollectionProperty(nil, "ports", def, []any{"eighty"})
		assert.ErrorIs(t, err, core.ErrBadDataType)
	})

	t.Run("Map", func(t *testing.T) {
		def := h.MapCollectionDef(core.PrimitiveString, core.PrimitiveLong)
		props, err := h.AddCollectionProperty(nil, "sizes", def, map[string]any{"a": 1})
		require.NoError(t, err)
		m := props["sizes"].(*core.MapValue)
		assert.Equal(t, "map<string,long>", m.TypeName)
		assert.Equal(t, int64(1), m.Values["a"].(*core.PrimitiveValue).Value)

		_, err = h.AddCollectionProperty(nil, "sizes", def, []any{1})
		assert.ErrorIs(t, err, core.ErrBadDataType)
	})
}

func TestAttributeType(t *testing.T) {
	b, h := setup(t, helper.Config{})

	def := h.AttributeType(core.AttributeTypeLink{Name: "map<string,int>"})
	require.NotNil(t, def)
	assert.Equal(t, core.CategoryCollection, def.AttributeCategory())
	assert.Nil(t, h.AttributeType(core.AttributeTypeLink{Name: "Color"}))

	enum := h.EnumDef("color-guid", "Color", "")
	require.NoError(t, b.AddEnumDef(enum))
	assert.Same(t, enum, h.AttributeType(core.AttributeTypeLink{Name: "Color"}))

	registered := &core.PrimitiveDef{Header: core.Header{GUID: "custom-string", Name: "string"}, Kind: core.PrimitiveString}
	require.NoError(t, b.AddPrimitiveDef(registered))
	assert.Same(t, registered, h.AttributeType(core.AttributeTypeLink{Name: "string"}))
}
