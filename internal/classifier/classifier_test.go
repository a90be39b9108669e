package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/labcold/catalog/internal/domain/ingestion"
)

func TestClassifyCutSheet(t *testing.T) {
	r := Classify("ABS CUTSHEET\nModel: ABT-HC-26S\nCapacity: 26 cu ft", "abt-hc-26s.pdf")
	assert.Equal(t, ingestion.DocTypeCutSheet, r.DocType)
}

func TestClassifyPerformanceDataSheet(t *testing.T) {
	r := Classify("Product Data Sheet\nTemperature Probes\nUniformity (Cabinet Air)\nStability", "spec.pdf")
	assert.Equal(t, ingestion.DocTypePerformanceDataSheet, r.DocType)
}

func TestClassifyProductDataSheet(t *testing.T) {
	r := Classify("Product Data Sheet\nGeneral Description\nRefrigeration System\nController", "spec.pdf")
	assert.Equal(t, ingestion.DocTypeProductDataSheet, r.DocType)
}

func TestClassifyStructuredSectionsFallback(t *testing.T) {
	text := "General Description\nRefrigeration System\nDimensions\nCertifications\nMore filler text."
	r := Classify(text, "doc.pdf")
	assert.Equal(t, ingestion.DocTypeProductDataSheet, r.DocType)
}

func TestClassifyFeatureListByProductName(t *testing.T) {
	r := Classify("Product Name: ABS Premier\nFeature 1\nFeature 2", "features.pdf")
	assert.Equal(t, ingestion.DocTypeFeatureList, r.DocType)
}

func TestClassifyCryogenicFeatureList(t *testing.T) {
	r := Classify("Liquid Nitrogen Vapor Shipper\nVial Capacity: 500", "cryo.pdf")
	assert.Equal(t, ingestion.DocTypeFeatureList, r.DocType)
}

func TestClassifyOtherFallback(t *testing.T) {
	r := Classify("random marketing text with no structured markers at all", "misc.pdf")
	assert.Equal(t, ingestion.DocTypeOther, r.DocType)
}

func TestDetectBrandABS(t *testing.T) {
	r := Classify("American Bio Tech Supply Premier Line", "x.pdf")
	assert.Equal(t, "ABS", r.BrandCode)
}

func TestDetectBrandLABRepCo(t *testing.T) {
	r := Classify("LABRepCo Horizon Series", "x.pdf")
	assert.Equal(t, "LABRepCo", r.BrandCode)
}

func TestDetectBrandNoneFound(t *testing.T) {
	r := Classify("no brand markers here", "x.pdf")
	assert.Equal(t, "", r.BrandCode)
}

func TestExtractRevisionFourDigitYear(t *testing.T) {
	r := Classify("Spec sheet Rev_03.18.2025 final", "x.pdf")
	assert.Equal(t, "2025-03-18", r.Revision)
}

func TestExtractRevisionTwoDigitYear(t *testing.T) {
	r := Classify("Rev 03-18-25", "x.pdf")
	assert.Equal(t, "2025-03-18", r.Revision)
}

func TestExtractRevisionMissingIsEmpty(t *testing.T) {
	r := Classify("no revision marker here", "x.pdf")
	assert.Equal(t, "", r.Revision)
}
