package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveLocator(t *testing.T) {
	assert.Equal(t, "", ResolveLocator("docs", ""))
	assert.Equal(t, "s3://docs/a/b.pdf", ResolveLocator("docs", "a/b.pdf"))
	assert.Equal(t, "s3://docs/a/b.pdf", ResolveLocator("docs", "/a/b.pdf"))
	assert.Equal(t, "s3://other/x.txt", ResolveLocator("docs", "s3://other/x.txt"))
}

func TestResolveLocatorIdempotent(t *testing.T) {
	once := ResolveLocator("docs", "2024/01/02/contract.docx")
	twice := ResolveLocator("docs", once)
	assert.Equal(t, once, twice)
}

func TestParseLocator(t *testing.T) {
	bucket, key, ok := ParseLocator("s3://docs/a/b.pdf")
	assert.True(t, ok)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "a/b.pdf", key)

	_, _, ok = ParseLocator("a/b.pdf")
	assert.False(t, ok)
	_, _, ok = ParseLocator("s3://bucketonly")
	assert.False(t, ok)
}

func TestResolveMIME(t *testing.T) {
	cases := map[string]string{
		"x.pdf":      "application/pdf",
		"x.PDF":      "application/pdf",
		"x.docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"x.doc":      "application/msword",
		"x.txt":      "text/plain",
		"x.rtf":      "application/rtf",
		"x.csv":      "text/csv",
		"x.json":     "application/json",
		"x.html":     "text/html",
		"x.htm":      "text/html",
		"x.exe":      "application/octet-stream",
		"noext":      "application/octet-stream",
		"s3://b/k.pdf": "application/pdf",
	}
	for in, want := range cases {
		assert.Equal(t, want, ResolveMIME(in), "input %q", in)
	}
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "a/b.txt", ReplaceExt("a/b.docx", ".txt"))
	assert.Equal(t, "a/b.txt", ReplaceExt("a/b", ".txt"))
}
