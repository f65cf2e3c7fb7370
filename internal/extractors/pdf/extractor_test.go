package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag/internal/core/domain"
)

// fakeSource is a test double for pageSource.
type fakeSource struct {
	pages  []string
	null   map[int]bool
	errOn  int
	err    error
	closed bool
}

func (f *fakeSource) NumPage() int {
	return len(f.pages)
}

func (f *fakeSource) PageText(n int) (string, bool, error) {
	if n == f.errOn {
		return "", false, f.err
	}
	if f.null[n] {
		return "", false, nil
	}
	return f.pages[n-1], true, nil
}

func withSource(src *fakeSource) *Extractor {
	return &Extractor{open: func(string) (pageSource, func() error, error) {
		return src, func() error { src.closed = true; return nil }, nil
	}}
}

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, []string{".pdf"}, e.Extensions())
}

func TestExtract_OneBlockPerPage(t *testing.T) {
	src := &fakeSource{pages: []string{"Page one text.", "Page two text.", "Page three text."}}
	e := withSource(src)

	blocks, err := e.Extract(context.Background(), "/tmp/judgment.pdf")

	require.NoError(t, err)
	require.Len(t, blocks, 3)
	for i, b := range blocks {
		assert.Equal(t, src.pages[i], b.Text)
		assert.Equal(t, fmt.Sprint(i+1), b.Source["page"])
		assert.Equal(t, Format, b.Source["format"])
		assert.Equal(t, "/tmp/judgment.pdf", b.Source["path"])
	}
	assert.True(t, src.closed)
}

func TestExtract_SkipsBlankAndNullPages(t *testing.T) {
	src := &fakeSource{
		pages: []string{"Cover", "   \n ", "ignored", "Order"},
		null:  map[int]bool{3: true},
	}
	e := withSource(src)

	blocks, err := e.Extract(context.Background(), "x.pdf")

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "1", blocks[0].Source["page"])
	assert.Equal(t, "4", blocks[1].Source["page"])
}

func TestExtract_NoPagesYieldsNoBlocks(t *testing.T) {
	e := withSource(&fakeSource{})

	blocks, err := e.Extract(context.Background(), "empty.pdf")

	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestExtract_PageError(t *testing.T) {
	src := &fakeSource{pages: []string{"a", "b"}, errOn: 2, err: errors.New("bad stream")}
	e := withSource(src)

	blocks, err := e.Extract(context.Background(), "x.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.Nil(t, blocks)
	assert.True(t, src.closed)
}

func TestExtract_RecoversFromPanic(t *testing.T) {
	e := &Extractor{open: func(string) (pageSource, func() error, error) {
		panic("unexpected EOF")
	}}

	blocks, err := e.Extract(context.Background(), "x.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, blocks)
}

func TestExtract_CancelledContext(t *testing.T) {
	e := withSource(&fakeSource{pages: []string{"a"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, "x.pdf")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_MissingFile(t *testing.T) {
	e := New()

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is plain text, not a pdf at all"), 0600))

	_, err := New().Extract(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtract_RealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.pdf")
	require.NoError(t, os.WriteFile(path, buildPDF("The appeal is allowed", "Costs to the appellant"), 0600))

	blocks, err := New().Extract(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].Text, "The appeal is allowed")
	assert.Contains(t, blocks[1].Text, "Costs to the appellant")
	assert.Equal(t, "2", blocks[1].Source["page"])
}

// buildPDF writes a minimal uncompressed PDF with one text line per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1: catalog, 2: page tree, 3: font, then a page and content stream per page.
	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}
