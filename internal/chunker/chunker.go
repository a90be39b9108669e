// Package chunker implements the first half of Chunker + Embedder
// (spec.md §4.9): structure-aware splitting of extracted document text
// into retrieval-ready chunks. See embed.go for the embedding half.
package chunker

import (
	"regexp"
	"strings"

	"github.com/labcold/catalog/internal/domain/ingestion"
)

// Chunk is one candidate retrieval unit prior to persistence; the
// caller assigns ChunkIndex/DocumentID/ProductIDs/SpecNames when
// writing it to the ingestion.Chunk gorm model.
type Chunk struct {
	Content      string
	SectionTitle string
	ChunkType    ingestion.ChunkType
	TokenCount   int
}

// sectionHeaders are natural chunk boundaries, transcribed verbatim
// from ingestion-orchestrator.py's SECTION_HEADERS.
var sectionHeaders = []string{
	"GENERAL DESCRIPTION", "PRODUCT DESCRIPTION",
	"REFRIGERATION SYSTEM", "REFRIGERATION",
	"CONTROLLER", "CONTROLLER TECHNOLOGY", "CONTROLLER & MONITORING",
	"DIMENSIONS", "EXTERIOR DIMENSIONS", "INTERIOR DIMENSIONS",
	"ELECTRICAL", "FACILITY ELECTRICAL",
	"CERTIFICATIONS", "AGENCY LISTING",
	"PERFORMANCE", "TEMPERATURE PERFORMANCE",
	"WARRANTY", "ALARMS", "ALARM MANAGEMENT",
	"CONSTRUCTION", "SHELVING", "DOOR",
	"ACCESSORIES", "OPTIONS",
	"INSTALLATION", "OPERATIONAL ENVIRONMENT",
	"FEATURES", "STANDARD FEATURES",
	"PHARMACY", "VACCINE",
}

var sectionHeaderRe = buildSectionHeaderRe()

func buildSectionHeaderRe() *regexp.Regexp {
	escaped := make([]string, len(sectionHeaders))
	for i, h := range sectionHeaders {
		escaped[i] = regexp.QuoteMeta(h)
	}
	return regexp.MustCompile(`(?im)^[ \t]*(` + strings.Join(escaped, "|") + `)[ \t:]*$`)
}

const (
	defaultMaxTokens = 512
	defaultOverlap   = 64
)

// Split implements chunk_document: section-header-based splitting when
// the text has recognizable section boundaries, falling back to
// fixed-size splitting with overlap. Oversized sections are
// sub-chunked by size, same as the Python source.
func Split(text string, docType ingestion.DocType) []Chunk {
	return SplitWithBudget(text, docType, defaultMaxTokens, defaultOverlap)
}

// SplitWithBudget is Split with an explicit token budget, used by
// callers (e.g. tests, or a future per-doc-type override) that need
// control over chunk size.
func SplitWithBudget(text string, docType ingestion.DocType, maxTokens, overlapTokens int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	sections := splitBySections(text)
	var chunks []Chunk

	if len(sections) > 1 {
		for _, sec := range sections {
			if estimateTokens(sec.body) > maxTokens {
				for _, sc := range splitBySize(sec.body, maxTokens, overlapTokens) {
					chunks = append(chunks, Chunk{
						Content:      sc,
						SectionTitle: sec.title,
						ChunkType:    classifyChunk(sec.title, sc, docType),
						TokenCount:   estimateTokens(sc),
					})
				}
			} else {
				chunks = append(chunks, Chunk{
					Content:      sec.body,
					SectionTitle: sec.title,
					ChunkType:    classifyChunk(sec.title, sec.body, docType),
					TokenCount:   estimateTokens(sec.body),
				})
			}
		}
	} else {
		for _, rc := range splitBySize(text, maxTokens, overlapTokens) {
			chunks = append(chunks, Chunk{
				Content:    rc,
				ChunkType:  classifyChunk("", rc, docType),
				TokenCount: estimateTokens(rc),
			})
		}
	}

	return chunks
}

type section struct {
	title string
	body  string
}

// splitBySections mirrors _split_by_sections: find every section-header
// line, then slice the text between consecutive matches. A single
// (nil-title, full-text) section is returned when no headers are found,
// and content before the first header becomes a "Preamble" section
// when it's more than a few characters (skip a false-positive match
// right at the start of the document).
func splitBySections(text string) []section {
	matches := sectionHeaderRe.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []section{{title: "", body: text}}
	}

	var sections []section
	if matches[0][0] > 50 {
		if pre := strings.TrimSpace(text[:matches[0][0]]); pre != "" {
			sections = append(sections, section{title: "Preamble", body: pre})
		}
	}

	for i, m := range matches {
		title := titleCase(strings.TrimSpace(text[m[2]:m[3]]))
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(text[start:end])
		if body != "" {
			sections = append(sections, section{title: title, body: body})
		}
	}
	return sections
}

// splitBySize mirrors _split_by_size: a rough 1-token-per-4-chars
// estimate, breaking at a paragraph or sentence boundary near the
// target size rather than mid-word, with overlap carried into the
// start of the next chunk.
func splitBySize(text string, maxTokens, overlapTokens int) []string {
	maxChars := maxTokens * 4
	overlapChars := overlapTokens * 4

	if len(text) <= maxChars {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + maxChars
		if end > len(text) {
			end = len(text)
		}
		if end < len(text) {
			searchFrom := start + maxChars/2
			if searchFrom < start {
				searchFrom = start
			}
			if para := lastIndexInRange(text, "\n\n", searchFrom, end); para > start {
				end = para
			} else if sent := lastIndexInRange(text, ". ", searchFrom, end); sent > start {
				end = sent + 1
			}
		}

		chunk := strings.TrimSpace(text[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		next := end - overlapChars
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// lastIndexInRange finds the last occurrence of sep within text[from:to],
// returning its absolute start offset, or -1 if not found.
func lastIndexInRange(text, sep string, from, to int) int {
	if from < 0 {
		from = 0
	}
	if to > len(text) {
		to = len(text)
	}
	if from >= to {
		return -1
	}
	idx := strings.LastIndex(text[from:to], sep)
	if idx < 0 {
		return -1
	}
	return from + idx
}

var (
	dimensionRe    = regexp.MustCompile(`\d+["\s]\s*[xX×]\s*\d+`)
	specBlockRe    = regexp.MustCompile(`(?i)(Cu\.?\s*Ft|Defrost|Amps|R\d{3})`)
)

// classifyChunk mirrors _classify_chunk: the section title takes
// priority when present, otherwise fall back to content sniffing.
func classifyChunk(sectionTitle, content string, _ ingestion.DocType) ingestion.ChunkType {
	if sectionTitle != "" {
		s := strings.ToUpper(sectionTitle)
		switch {
		case strings.Contains(s, "DIMENSION"):
			return ingestion.ChunkTypeDimensional
		case strings.Contains(s, "PERFORMANCE"), strings.Contains(s, "TEMPERATURE"):
			return ingestion.ChunkTypePerformanceData
		case strings.Contains(s, "DESCRIPTION"):
			return ingestion.ChunkTypeDescription
		case strings.Contains(s, "CERTIFICATION"), strings.Contains(s, "AGENCY"), strings.Contains(s, "LISTING"):
			return ingestion.ChunkTypeSpecBlock
		}
	}

	c := strings.ToUpper(content)
	switch {
	case dimensionRe.MatchString(c):
		return ingestion.ChunkTypeDimensional
	case strings.Contains(c, "UNIFORMITY"), strings.Contains(c, "STABILITY"), strings.Contains(c, "PROBE"):
		return ingestion.ChunkTypePerformanceData
	case specBlockRe.MatchString(c):
		return ingestion.ChunkTypeSpecBlock
	}
	return ingestion.ChunkTypeText
}

func estimateTokens(text string) int {
	return len(text) / 4
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
