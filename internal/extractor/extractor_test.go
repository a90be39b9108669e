package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labcold/catalog/internal/clients/pdftext"
	"github.com/labcold/catalog/internal/platform/logger"
)

type fakePDF struct {
	result pdftext.Result
	err    error
}

func (f *fakePDF) Extract(_ context.Context, _ []byte) (pdftext.Result, error) {
	return f.result, f.err
}

func newTestExtractor(t *testing.T, pdf pdftext.Client) *Extractor {
	t.Helper()
	l, err := logger.New("test")
	require.NoError(t, err)
	return New(pdf, l)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	e := newTestExtractor(t, &fakePDF{})
	_, err := e.Extract(context.Background(), []byte("data"), "image/png")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractPDFSuccess(t *testing.T) {
	pdf := &fakePDF{result: pdftext.Result{Pages: []pdftext.Page{
		{PageNo: 1, Text: "capacity 26 cu ft"},
		{PageNo: 2, Text: "voltage 115V"},
	}}}
	e := newTestExtractor(t, pdf)

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Len(t, res.Pages, 2)
	assert.Contains(t, res.PlainText, "capacity 26 cu ft")
	assert.Contains(t, res.PlainText, "voltage 115V")
}

func TestExtractPDFProviderErrorWrapped(t *testing.T) {
	pdf := &fakePDF{err: errors.New("upstream 503")}
	e := newTestExtractor(t, pdf)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	require.Error(t, err)
	var extractionErr *ExtractionFailedError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractPDFNoTextIsExtractionFailed(t *testing.T) {
	pdf := &fakePDF{result: pdftext.Result{Pages: []pdftext.Page{{PageNo: 1, Text: "   "}}}}
	e := newTestExtractor(t, pdf)

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	var extractionErr *ExtractionFailedError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestExtractPlainTextDecodesLossy(t *testing.T) {
	e := newTestExtractor(t, &fakePDF{})
	data := append([]byte("valid text "), 0xff, 0xfe)
	res, err := e.Extract(context.Background(), data, "text/plain")
	require.NoError(t, err)
	assert.Contains(t, res.PlainText, "valid text")
}

func TestExtractPagesByFormFeed(t *testing.T) {
	e := newTestExtractor(t, &fakePDF{})
	text := "page one\fpage two\fpage three"
	res, err := e.Extract(context.Background(), []byte(text), "text/plain")
	require.NoError(t, err)
	require.Len(t, res.Pages, 3)
	assert.Equal(t, "page one", res.Pages[0].Text)
	assert.Equal(t, 3, res.Pages[2].PageNo)
}

func TestExtractMarkdownPagesByHeading(t *testing.T) {
	e := newTestExtractor(t, &fakePDF{})
	text := "# Intro\nsome text\n## Specs\ncapacity 26 cu ft\n## Electrical\nvoltage 115V\n"
	res, err := e.Extract(context.Background(), []byte(text), "text/markdown")
	require.NoError(t, err)
	require.Len(t, res.Pages, 3)
	assert.Contains(t, res.Pages[1].Text, "Specs")
	assert.Contains(t, res.Pages[2].Text, "Electrical")
}

func TestExtractPlainNoHeadingsIsOnePage(t *testing.T) {
	e := newTestExtractor(t, &fakePDF{})
	res, err := e.Extract(context.Background(), []byte("just plain text, no markers"), "text/plain")
	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
}
