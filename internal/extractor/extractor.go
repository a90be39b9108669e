// Package extractor implements the Text Extractor (spec.md §4.1): file
// bytes + declared MIME type in, {plain_text, pages, metadata} out.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/labcold/catalog/internal/clients/pdftext"
	"github.com/labcold/catalog/internal/platform/logger"
)

// Page is one page of extracted text.
type Page struct {
	PageNo int
	Text   string
}

// Result is the Text Extractor's output.
type Result struct {
	PlainText string
	Pages     []Page
	Metadata  map[string]any
}

// ErrUnsupportedFormat and ExtractionFailedError are the two failure modes
// spec.md §4.1 names. ExtractionFailedError wraps the underlying provider
// error so callers can classify it as transient/permanent per spec.md §7.
var (
	ErrUnsupportedFormat = fmt.Errorf("extractor: unsupported format")
)

// ExtractionFailedError wraps a PDF provider failure.
type ExtractionFailedError struct {
	Cause error
}

func (e *ExtractionFailedError) Error() string { return fmt.Sprintf("extractor: extraction failed: %v", e.Cause) }
func (e *ExtractionFailedError) Unwrap() error  { return e.Cause }

// Extractor dispatches to the external PDF provider for application/pdf
// and decodes text/markdown natively, with no side effects.
type Extractor struct {
	pdf pdftext.Client
	log *logger.Logger
}

func New(pdf pdftext.Client, baseLog *logger.Logger) *Extractor {
	return &Extractor{pdf: pdf, log: baseLog.With("component", "extractor")}
}

// mimePDF, mimeText, and mimeMarkdown are the only MIME types spec.md
// §4.1 describes a path for; anything else is UnsupportedFormat.
const (
	mimePDF      = "application/pdf"
	mimeText     = "text/plain"
	mimeMarkdown = "text/markdown"
)

func (e *Extractor) Extract(ctx context.Context, data []byte, mimeType string) (Result, error) {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case mimePDF:
		return e.extractPDF(ctx, data)
	case mimeText, mimeMarkdown:
		return e.extractPlain(data), nil
	default:
		return Result{}, ErrUnsupportedFormat
	}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (Result, error) {
	res, err := e.pdf.Extract(ctx, data)
	if err != nil {
		return Result{}, &ExtractionFailedError{Cause: err}
	}
	if len(res.Pages) == 0 {
		return Result{}, &ExtractionFailedError{Cause: fmt.Errorf("provider returned no pages")}
	}

	pages := make([]Page, 0, len(res.Pages))
	var sb strings.Builder
	for _, p := range res.Pages {
		pages = append(pages, Page{PageNo: p.PageNo, Text: p.Text})
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(p.Text)
	}
	plain := sb.String()
	if strings.TrimSpace(plain) == "" {
		return Result{}, &ExtractionFailedError{Cause: fmt.Errorf("provider returned no text")}
	}

	return Result{
		PlainText: plain,
		Pages:     pages,
		Metadata:  map[string]any{"source": "pdf", "page_count": len(pages)},
	}, nil
}

// extractPlain decodes text/markdown bytes as UTF-8 (lossy replacement
// on invalid sequences) and synthesizes pages by form-feed, falling back
// to heading-based synthesis (a page starts at any "#" to "######" heading) for markdown
// with no form-feeds, per spec.md §4.1.
func (e *Extractor) extractPlain(data []byte) Result {
	text := toValidUTF8(data)

	var pages []Page
	if strings.Contains(text, "\f") {
		pages = pagesByFormFeed(text)
	} else {
		pages = pagesByHeading(text)
	}

	return Result{
		PlainText: text,
		Pages:     pages,
		Metadata:  map[string]any{"source": "plain", "page_count": len(pages)},
	}
}

func pagesByFormFeed(text string) []Page {
	parts := strings.Split(text, "\f")
	pages := make([]Page, 0, len(parts))
	for i, part := range parts {
		t := strings.TrimSpace(part)
		if t == "" {
			continue
		}
		pages = append(pages, Page{PageNo: i + 1, Text: t})
	}
	if len(pages) == 0 {
		pages = append(pages, Page{PageNo: 1, Text: strings.TrimSpace(text)})
	}
	return pages
}

// pagesByHeading splits on lines starting with a Markdown heading marker
// ("#" through "######"), treating each heading and the text until the
// next heading as one page.
func pagesByHeading(text string) []Page {
	lines := strings.Split(text, "\n")
	var pages []Page
	var cur strings.Builder

	flush := func() {
		t := strings.TrimSpace(cur.String())
		if t != "" {
			pages = append(pages, Page{PageNo: len(pages) + 1, Text: t})
		}
		cur.Reset()
	}

	for _, line := range lines {
		if isHeadingLine(line) && cur.Len() > 0 {
			flush()
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()

	if len(pages) == 0 {
		pages = append(pages, Page{PageNo: 1, Text: strings.TrimSpace(text)})
	}
	return pages
}

func isHeadingLine(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "#") {
		return false
	}
	i := 0
	for i < len(t) && t[i] == '#' && i < 6 {
		i++
	}
	return i < len(t) && t[i] == ' '
}

func toValidUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
