package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/omarchive/pkg/core"
)

func TestArchiveError(t *testing.T) {
	t.Run("Message Names Both Values", func(t *testing.T) {
		err := &core.ArchiveError{
			Kind:     core.ErrDuplicateType,
			Op:       "AddEntityDef",
			Category: "EntityDef",
			ID:       "Asset",
			Existing: "Asset/g1",
			New:      "Asset/g2",
		}
		assert.Equal(t, `AddEntityDef: duplicate type definition (EntityDef "Asset"): existing Asset/g1, new Asset/g2`, err.Error())
		assert.ErrorIs(t, err, core.ErrDuplicateType)
		assert.NotErrorIs(t, err, core.ErrMissingType)
	})

	t.Run("Cause Keeps Type And Message", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := &core.ArchiveError{Kind: core.ErrPatchFailed, Op: "New", Cause: cause}

		assert.ErrorIs(t, err, core.ErrPatchFailed)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "*errors.errorString: boom")
	})

	t.Run("Wrapped", func(t *testing.T) {
		err := fmt.Errorf("generate: %w", &core.ArchiveError{Kind: core.ErrUnknownGUID, ID: "x"})
		var ae *core.ArchiveError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "x", ae.ID)
	})
}

func TestCheckTypeName(t *testing.T) {
	assert.NoError(t, core.CheckTypeName("op", "EntityDef", "Asset"))
	assert.NoError(t, core.CheckTypeName("op", "EntityDef", "array<string>"))
	for _, name := range []string{"A B", "A\tB", "\nA", "A\r"} {
		assert.ErrorIs(t, core.CheckTypeName("op", "EntityDef", name), core.ErrBlankTypeName, "%q", name)
	}
}

func TestNormalizePrimitive(t *testing.T) {
	tests := []struct {
		kind core.PrimitiveKind
		in   any
		want any
	}{
		{core.PrimitiveInt, float64(3), 3},
		{core.PrimitiveLong, float64(1 << 40), int64(1 << 40)},
		{core.PrimitiveShort, 12, int16(12)},
		{core.PrimitiveLong, json.Number("9007199254740993"), int64(9007199254740993)},
		{core.PrimitiveLong, json.Number("4e3"), int64(4000)},
		{core.PrimitiveDouble, json.Number("0.5"), 0.5},
		{core.PrimitiveByte, "7", int8(7)},
		{core.PrimitiveFloat, 1.5, float32(1.5)},
		{core.PrimitiveDouble, 2, float64(2)},
		{core.PrimitiveBoolean, true, true},
		{core.PrimitiveChar, 'x', "x"},
		{core.PrimitiveBigInteger, 12345, "12345"},
		{core.PrimitiveDate, "2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{core.PrimitiveDate, float64(0), time.UnixMilli(0).UTC()},
		{core.PrimitiveObject, map[string]any{"a": 1}, map[string]any{"a": 1}},
		{core.PrimitiveString, nil, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %v", tt.kind, tt.in), func(t *testing.T) {
			got, err := core.NormalizePrimitive(tt.kind, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Rejects", func(t *testing.T) {
		bad := []struct {
			kind core.PrimitiveKind
			in   any
		}{
			{core.PrimitiveInt, 1.5},
			{core.PrimitiveByte, 300},
			{core.PrimitiveLong, float64(1 << 63)},
			{core.PrimitiveLong, json.Number("1.5")},
			{core.PrimitiveShort, math.MaxInt32},
			{core.PrimitiveBoolean, "yes"},
			{core.PrimitiveDate, "yesterday"},
		}
		for _, b := range bad {
			_, err := core.NormalizePrimitive(b.kind, b.in)
			assert.Error(t, err, "%s %v", b.kind, b.in)
		}
	})
}

func TestInstanceProperties_Subset(t *testing.T) {
	props := core.InstanceProperties{
		"a": &core.PrimitiveValue{Kind: core.PrimitiveString, Value: "1"},
		"b": &core.PrimitiveValue{Kind: core.PrimitiveString, Value: "2"},
	}
	assert.Len(t, props.Subset([]string{"a", "zzz"}), 1)
	assert.Nil(t, props.Subset([]string{"zzz"}))
	assert.Equal(t, "", props.String("missing"))
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "array<string>", core.CollectionName(core.CollectionArray, core.PrimitiveString))
	assert.Equal(t, "map<string,int>", core.CollectionName(core.CollectionMap, core.PrimitiveString, core.PrimitiveInt))
}
