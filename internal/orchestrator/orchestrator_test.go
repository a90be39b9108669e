package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogstore "github.com/labcold/catalog/internal/catalog"
	"github.com/labcold/catalog/internal/domain/catalog"
	"github.com/labcold/catalog/internal/specvalue"
)

func TestApplyFixedOrSpecRoutesFixedColumn(t *testing.T) {
	fixed := catalogstore.FixedColumns{}
	specs := map[string]specvalue.Value{}
	applyFixedOrSpec(&fixed, specs, "storage_capacity_cuft", specvalue.Num(26, "cuft"))
	require.NotNil(t, fixed.StorageCapacityCuft)
	assert.InDelta(t, 26.0, *fixed.StorageCapacityCuft, 1e-9)
	assert.Empty(t, specs)
}

func TestApplyFixedOrSpecRoutesSpecsMap(t *testing.T) {
	fixed := catalogstore.FixedColumns{}
	specs := map[string]specvalue.Value{}
	applyFixedOrSpec(&fixed, specs, "exterior_color", specvalue.Txt("white"))
	assert.Equal(t, "white", specs["exterior_color"].Text)
	assert.Nil(t, fixed.StorageCapacityCuft)
}

func TestApplyFixedOrSpecEnumFields(t *testing.T) {
	fixed := catalogstore.FixedColumns{}
	specs := map[string]specvalue.Value{}
	applyFixedOrSpec(&fixed, specs, "door_type", specvalue.EnumVal("glass"))
	assert.Equal(t, "glass", fixed.DoorType)
}

func TestExistingSpecValueReadsFixedColumnFirst(t *testing.T) {
	cap := 26.0
	p := &catalog.Product{StorageCapacityCuft: &cap}
	specs := map[string]specvalue.Value{"storage_capacity_cuft": specvalue.Num(99, "cuft")}

	v, ok := existingSpecValue(p, specs, "storage_capacity_cuft")
	require.True(t, ok)
	assert.InDelta(t, 26.0, v.Numeric, 1e-9)
}

func TestExistingSpecValueFallsBackToSpecsMap(t *testing.T) {
	p := &catalog.Product{}
	specs := map[string]specvalue.Value{"exterior_color": specvalue.Txt("white")}

	v, ok := existingSpecValue(p, specs, "exterior_color")
	require.True(t, ok)
	assert.Equal(t, "white", v.Text)
}

func TestExistingSpecValueMissingReturnsFalse(t *testing.T) {
	p := &catalog.Product{}
	_, ok := existingSpecValue(p, map[string]specvalue.Value{}, "door_count")
	assert.False(t, ok)
}

func TestDecodeProductSpecsRoundTrip(t *testing.T) {
	raw, err := json.Marshal(map[string]json.RawMessage{})
	require.NoError(t, err)
	decoded, err := decodeProductSpecs(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeProductSpecsEmptyInputIsEmptyMap(t *testing.T) {
	decoded, err := decodeProductSpecs(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDedupSortedRemovesCaseInsensitiveDuplicates(t *testing.T) {
	out := dedupSorted([]string{"ETL", "etl", "FDA"})
	assert.Len(t, out, 2)
}

func TestDedupSortedEmptyInputReturnsNil(t *testing.T) {
	assert.Nil(t, dedupSorted(nil))
}

func TestNonNilPreservesNonNilSlice(t *testing.T) {
	s := []string{"a"}
	assert.Equal(t, s, nonNil(s))
}

func TestNonNilTurnsNilIntoEmptySlice(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
}
