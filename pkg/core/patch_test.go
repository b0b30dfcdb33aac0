package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/omarchive/pkg/core"
)

func fooDef() *core.EntityDef {
	d := &core.EntityDef{}
	d.GUID = "foo-guid"
	d.Name = "Foo"
	d.Version = 1
	d.VersionName = "1.0"
	d.Status = core.TypeDefActive
	d.Properties = []core.TypeDefAttribute{{Name: "name"}}
	d.Options = map[string]string{"a": "1"}
	return d
}

func TestApplyPatch(t *testing.T) {
	t.Run("Merges Onto A Copy", func(t *testing.T) {
		def := fooDef()
		when := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		patch := &core.TypeDefPatch{
			TypeDefGUID:         "foo-guid",
			TypeDefName:         "Foo",
			ApplyToVersion:      1,
			UpdateToVersion:     2,
			NewVersionName:      "2.0",
			UpdatedBy:           "patcher",
			UpdateTime:          &when,
			Description:         "patched",
			PropertyDefinitions: []core.TypeDefAttribute{{Name: "extra"}},
			TypeDefOptions:      map[string]string{"b": "2"},
		}

		got, err := core.ApplyPatch(def, patch)
		require.NoError(t, err)

		base := got.Base()
		assert.Equal(t, int64(2), base.Version)
		assert.Equal(t, "2.0", base.VersionName)
		assert.Equal(t, "patched", base.Description)
		assert.Equal(t, "patcher", base.UpdatedBy)
		assert.Equal(t, when, *base.UpdateTime)
		assert.NotNil(t, base.Attribute("extra"))
		assert.Equal(t, map[string]string{"a": "1", "b": "2"}, base.Options)

		assert.Equal(t, int64(1), def.Version, "original untouched")
		assert.Len(t, def.Properties, 1)
		assert.Len(t, def.Options, 1)
	})

	t.Run("Version Mismatch", func(t *testing.T) {
		_, err := core.ApplyPatch(fooDef(), &core.TypeDefPatch{TypeDefName: "Foo", ApplyToVersion: 2, UpdateToVersion: 3})
		assert.ErrorIs(t, err, core.ErrPatchMismatch)

		_, err = core.ApplyPatch(fooDef(), &core.TypeDefPatch{TypeDefName: "Foo", ApplyToVersion: 1, UpdateToVersion: 1})
		assert.ErrorIs(t, err, core.ErrPatchMismatch)
	})

	t.Run("Wrong Type", func(t *testing.T) {
		_, err := core.ApplyPatch(fooDef(), &core.TypeDefPatch{TypeDefName: "Bar", ApplyToVersion: 1, UpdateToVersion: 2})
		assert.ErrorIs(t, err, core.ErrPatchMismatch)

		_, err = core.ApplyPatch(fooDef(), &core.TypeDefPatch{TypeDefGUID: "other", TypeDefName: "Foo", ApplyToVersion: 1, UpdateToVersion: 2})
		assert.ErrorIs(t, err, core.ErrPatchMismatch)
	})

	t.Run("Existing Attribute", func(t *testing.T) {
		_, err := core.ApplyPatch(fooDef(), &core.TypeDefPatch{
			TypeDefName: "Foo", ApplyToVersion: 1, UpdateToVersion: 2,
			PropertyDefinitions: []core.TypeDefAttribute{{Name: "name"}},
		})
		assert.ErrorIs(t, err, core.ErrDuplicateAttribute)
	})

	t.Run("Relationship Ends", func(t *testing.T) {
		rel := &core.RelationshipDef{}
		rel.Name = "Link"
		rel.Version = 1
		rel.End1 = core.RelationshipEndDef{EntityType: core.TypeDefLink{Name: "A"}, AttributeName: "a"}

		got, err := core.ApplyPatch(rel, &core.TypeDefPatch{
			TypeDefName: "Link", ApplyToVersion: 1, UpdateToVersion: 2,
			EndDef1: &core.RelationshipEndDef{AttributeName: "renamed", Cardinality: core.EndCardinalityAtMostOne},
		})
		require.NoError(t, err)
		end := got.(*core.RelationshipDef).End1
		assert.Equal(t, "renamed", end.AttributeName)
		assert.Equal(t, core.EndCardinalityAtMostOne, end.Cardinality)
		assert.Equal(t, "a", rel.End1.AttributeName)

		_, err = core.ApplyPatch(rel, &core.TypeDefPatch{
			TypeDefName: "Link", ApplyToVersion: 1, UpdateToVersion: 2,
			EndDef1: &core.RelationshipEndDef{EntityType: core.TypeDefLink{Name: "B"}},
		})
		assert.ErrorIs(t, err, core.ErrPatchMismatch)
	})

	t.Run("Classification Entity Defs", func(t *testing.T) {
		cls := &core.ClassificationDef{ValidEntityDefs: []core.TypeDefLink{{Name: "A"}}}
		cls.Name = "Tag"
		cls.Version = 1

		got, err := core.ApplyPatch(cls, &core.TypeDefPatch{
			TypeDefName: "Tag", ApplyToVersion: 1, UpdateToVersion: 2,
			ValidEntityDefs: []core.TypeDefLink{{Name: "A"}, {Name: "B"}},
		})
		require.NoError(t, err)
		assert.Len(t, got.(*core.ClassificationDef).ValidEntityDefs, 2)
		assert.Len(t, cls.ValidEntityDefs, 1)
	})
}
