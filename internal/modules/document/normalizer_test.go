package document

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clausewise/core/internal/pkg/blob"
)

func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	body := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, p := range paragraphs {
		body += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	body += `</w:body></w:document>`
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDocxText(t *testing.T) {
	data := buildDocx(t, []string{"Clause one.", "Clause two.", "Clause three."})
	text, err := ExtractDocxText(data)
	require.NoError(t, err)
	assert.Equal(t, "Clause one.\nClause two.\nClause three.", text)
}

func TestExtractDocxTextCorrupt(t *testing.T) {
	_, err := ExtractDocxText([]byte("not a zip archive"))
	assert.Error(t, err)
}

func TestNormalizeWordProcessor(t *testing.T) {
	store := blob.NewMemoryStore("docs")
	ctx := context.Background()

	data := buildDocx(t, []string{"Tenant shall pay rent.", "Late fees apply."})
	require.NoError(t, store.Put(ctx, "u1/2024/01/02/lease.docx", blob.Object{
		Data:        data,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}))

	n := NewNormalizer(store)
	locator, mime, err := n.Normalize(ctx, "u1/2024/01/02/lease.docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	require.NoError(t, err)
	assert.Equal(t, "s3://docs/u1/2024/01/02/lease.txt", locator)
	assert.Equal(t, "text/plain", mime)

	obj, err := store.Get(ctx, "u1/2024/01/02/lease.txt")
	require.NoError(t, err)
	assert.Equal(t, "Tenant shall pay rent.\nLate fees apply.", string(obj.Data))
}

func TestNormalizePlainTextPassthrough(t *testing.T) {
	store := blob.NewMemoryStore("docs")
	n := NewNormalizer(store)

	locator, mime, err := n.Normalize(context.Background(), "u1/notes.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "s3://docs/u1/notes.txt", locator)
	assert.Equal(t, "text/plain", mime)
}

func TestNormalizeCorruptSource(t *testing.T) {
	store := blob.NewMemoryStore("docs")
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "u1/bad.docx", blob.Object{Data: []byte("garbage")}))

	n := NewNormalizer(store)
	_, _, err := n.Normalize(ctx, "u1/bad.docx", "application/msword")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestNormalizeMissingSource(t *testing.T) {
	store := blob.NewMemoryStore("docs")
	n := NewNormalizer(store)
	_, _, err := n.Normalize(context.Background(), "u1/absent.docx", "application/msword")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestNeedsConversion(t *testing.T) {
	assert.True(t, NeedsConversion("application/msword", "x.bin"))
	assert.True(t, NeedsConversion("", "s3://docs/a/lease.DOCX"))
	assert.False(t, NeedsConversion("text/plain", "a/notes.txt"))
	assert.False(t, NeedsConversion("application/pdf", "a/scan.pdf"))
}
