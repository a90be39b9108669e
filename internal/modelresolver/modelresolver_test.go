package modelresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/domain/catalog"
)

func TestResolveABSPremierChromatography(t *testing.T) {
	r, ok := Resolve("ABT-HC-CS-26")
	require.True(t, ok)
	assert.Equal(t, "ABS", r.BrandCode)
	assert.Equal(t, "chromatography_ref", r.FamilyCode)
	assert.Equal(t, "Premier", r.ProductLine)
	require.NotNil(t, r.InferredCapacity)
	assert.Equal(t, 26.0, *r.InferredCapacity)
}

func TestResolveABSPremierLabWithDoor(t *testing.T) {
	r, ok := Resolve("ABT-HC-26S")
	require.True(t, ok)
	assert.Equal(t, "premier_lab_ref", r.FamilyCode)
	assert.Equal(t, "solid", r.InferredDoorType)
	require.NotNil(t, r.InferredCapacity)
	assert.Equal(t, 26.0, *r.InferredCapacity)
}

func TestResolveABSPremierLabGlassDoor(t *testing.T) {
	r, ok := Resolve("ABT-HC-49G")
	require.True(t, ok)
	assert.Equal(t, "glass", r.InferredDoorType)
}

func TestResolveABSStandardLab(t *testing.T) {
	r, ok := Resolve("ABT-HC-26R")
	require.True(t, ok)
	assert.Equal(t, "standard_lab_ref", r.FamilyCode)
	assert.Equal(t, "Standard", r.ProductLine)
}

func TestResolveABSPharmacyPremier(t *testing.T) {
	r, ok := Resolve("PH-ABT-HC-23S")
	require.True(t, ok)
	assert.Equal(t, "pharmacy_vaccine_ref", r.FamilyCode)
	assert.Equal(t, "solid", r.InferredDoorType)
}

func TestResolveABSPharmacyNSF(t *testing.T) {
	r, ok := Resolve("PH-ABT-NSF-UCFS-3")
	require.True(t, ok)
	assert.Equal(t, "pharmacy_nsf_ref", r.FamilyCode)
	assert.True(t, r.NSFAnsi456)
	assert.Nil(t, r.InferredCapacity)
}

func TestResolveABSBloodBank(t *testing.T) {
	r, ok := Resolve("ABT-HC-BBR-23")
	require.True(t, ok)
	assert.Equal(t, "blood_bank_ref", r.FamilyCode)
}

func TestResolveABSFlammable(t *testing.T) {
	r, ok := Resolve("ABT-HC-FRP-23")
	require.True(t, ok)
	assert.Equal(t, "flammable_storage_ref", r.FamilyCode)
}

func TestResolveLABRepCoManualDefrostFreezer(t *testing.T) {
	r, ok := Resolve("LHT-20-FMP")
	require.True(t, ok)
	assert.Equal(t, "LABRepCo", r.BrandCode)
	assert.Equal(t, "manual_defrost_freezer", r.FamilyCode)
	assert.Equal(t, catalog.SuperCategoryFreezer, r.ProductType)
	assert.Equal(t, "ultra_touch", r.ControllerTier)
}

func TestResolveLABRepCoAutoDefrostFreezer(t *testing.T) {
	r, ok := Resolve("LHT-20-FASS")
	require.True(t, ok)
	assert.Equal(t, "auto_defrost_freezer", r.FamilyCode)
	assert.Equal(t, "Ultra Touch FUTURA", r.ProductLine)
}

func TestResolveLABRepCoFuturaManualDefrost(t *testing.T) {
	r, ok := Resolve("LHT-20-FM")
	require.True(t, ok)
	assert.Equal(t, "FUTURA", r.ProductLine)
}

func TestResolveLABRepCoFlammableRefrigerator(t *testing.T) {
	r, ok := Resolve("LHT-20-RFP")
	require.True(t, ok)
	assert.Equal(t, "flammable_storage_ref", r.FamilyCode)
	assert.Equal(t, catalog.SuperCategoryRefrigerator, r.ProductType)
}

func TestResolveLABRepCoPrecisionFreezer(t *testing.T) {
	r, ok := Resolve("LPVT-20-FA")
	require.True(t, ok)
	assert.Equal(t, "precision_freezer", r.FamilyCode)
	assert.Equal(t, "precision", r.ControllerTier)
}

func TestResolveLABRepCoRefrigeratorWithSuffix(t *testing.T) {
	r, ok := Resolve("LHT-20-RFGS")
	require.True(t, ok)
	assert.Equal(t, "premier_lab_ref", r.FamilyCode)
}

func TestResolveCorepointLegacy(t *testing.T) {
	r, ok := Resolve("NSBR492WSxCR/0")
	require.True(t, ok)
	assert.Equal(t, "Corepoint", r.BrandCode)
	assert.Equal(t, "premier_lab_ref", r.FamilyCode)
}

func TestResolveCorepointNewFormat(t *testing.T) {
	r, ok := Resolve("CP-REF-26-S-HC")
	require.True(t, ok)
	assert.Equal(t, "Corepoint", r.BrandCode)
	require.NotNil(t, r.InferredCapacity)
	assert.Equal(t, 26.0, *r.InferredCapacity)
	assert.Equal(t, "solid", r.InferredDoorType)
}

func TestResolveCelsiusBloodBank(t *testing.T) {
	r, ok := Resolve("CEL-HC-BB-23")
	require.True(t, ok)
	assert.Equal(t, "Celsius", r.BrandCode)
	assert.Equal(t, "blood_bank_ref", r.FamilyCode)
}

func TestResolveCryoDewar(t *testing.T) {
	r, ok := Resolve("V-34")
	require.True(t, ok)
	assert.Equal(t, "CBS", r.BrandCode)
	assert.Equal(t, "cryo_dewar", r.FamilyCode)
	assert.Equal(t, catalog.SuperCategoryCryogenic, r.ProductType)
}

func TestResolveUnknownModelNumberIsNoMatch(t *testing.T) {
	_, ok := Resolve("UNKNOWN-MODEL-123")
	assert.False(t, ok)
}

func TestResolveTrimsWhitespace(t *testing.T) {
	r, ok := Resolve("  ABT-HC-26S  ")
	require.True(t, ok)
	assert.Equal(t, "ABT-HC-26S", r.ModelNumber)
}

func TestExtractCandidatesFindsModelNumbersInProse(t *testing.T) {
	text := "The ABT-HC-26S is a premier lab refrigerator. See also LHT-20-FMP for freezer options."
	got := ExtractCandidates(text)
	assert.Contains(t, got, "ABT-HC-26S")
	assert.Contains(t, got, "LHT-20-FMP")
}

func TestExtractCandidatesDeduplicatesFirstOccurrence(t *testing.T) {
	text := "Model ABT-HC-26S. Compare to model ABT-HC-26S again."
	got := ExtractCandidates(text)
	count := 0
	for _, c := range got {
		if c == "ABT-HC-26S" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestExtractCandidatesIgnoresShortMatches(t *testing.T) {
	got := ExtractCandidates("no model numbers here at all")
	assert.Empty(t, got)
}

func TestExtractCandidatesNoModelsReturnsEmpty(t *testing.T) {
	got := ExtractCandidates("This document has no recognizable model number strings.")
	assert.Empty(t, got)
}
