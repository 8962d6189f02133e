package document

import (
	"path"
	"strings"
)

// LocatorScheme prefixes every fully-qualified document locator.
const LocatorScheme = "s3://"

// mimeBySuffix is the fixed classification table for stored documents.
// Anything not listed classifies as generic binary.
var mimeBySuffix = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".txt":  "text/plain",
	".rtf":  "application/rtf",
	".csv":  "text/csv",
	".json": "application/json",
	".html": "text/html",
	".htm":  "text/html",
}

const genericBinaryMIME = "application/octet-stream"

// ResolveLocator turns a bucket-relative path into a fully-qualified
// locator under defaultBucket. An already-qualified locator passes
// through unchanged, so the operation is idempotent. Empty input yields
// an empty result.
func ResolveLocator(defaultBucket, pathOrLocator string) string {
	p := strings.TrimSpace(pathOrLocator)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, LocatorScheme) {
		return p
	}
	return LocatorScheme + defaultBucket + "/" + strings.TrimLeft(p, "/")
}

// ParseLocator splits a fully-qualified locator into bucket and key.
func ParseLocator(locator string) (bucket, key string, ok bool) {
	if !strings.HasPrefix(locator, LocatorScheme) {
		return "", "", false
	}
	rest := strings.TrimPrefix(locator, LocatorScheme)
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// ResolveMIME classifies a locator or filename by suffix.
func ResolveMIME(locator string) string {
	ext := strings.ToLower(path.Ext(locator))
	if mime, ok := mimeBySuffix[ext]; ok {
		return mime
	}
	return genericBinaryMIME
}

// ReplaceExt swaps the extension of a locator or key, keeping the rest
// of the path intact.
func ReplaceExt(locator, newExt string) string {
	ext := path.Ext(locator)
	if ext == "" {
		return locator + newExt
	}
	return strings.TrimSuffix(locator, ext) + newExt
}
