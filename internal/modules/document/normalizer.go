package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/clausewise/core/internal/pkg/blob"
)

// ErrConversion marks a document that could not be converted to plain
// text, either because the source is corrupt or because no converter
// exists for its format.
var ErrConversion = fmt.Errorf("document conversion failed")

// Normalizer converts word-processor documents to plain text before
// they are handed to the analysis backend.
type Normalizer struct {
	store blob.Store
}

func NewNormalizer(store blob.Store) *Normalizer {
	return &Normalizer{store: store}
}

// wordProcessorMIMEs are the declared content types that require conversion.
var wordProcessorMIMEs = map[string]bool{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/msword": true,
}

// NeedsConversion reports whether the document must be converted,
// judged by declared content type first and filename suffix second.
func NeedsConversion(contentType, locator string) bool {
	if wordProcessorMIMEs[strings.ToLower(strings.TrimSpace(contentType))] {
		return true
	}
	lower := strings.ToLower(locator)
	return strings.HasSuffix(lower, ".docx") || strings.HasSuffix(lower, ".doc")
}

// Normalize resolves a stored document into the locator and MIME type
// that should be submitted for analysis. Word-processor documents are
// fetched, converted to plain text, and re-stored under the same path
// with a .txt extension; everything else passes through with its
// resolved MIME type.
func (n *Normalizer) Normalize(ctx context.Context, locator, contentType string) (string, string, error) {
	full := ResolveLocator(n.store.Bucket(), locator)
	if full == "" {
		return "", "", fmt.Errorf("%w: empty locator", ErrConversion)
	}
	if !NeedsConversion(contentType, full) {
		return full, ResolveMIME(full), nil
	}

	_, key, ok := ParseLocator(full)
	if !ok {
		return "", "", fmt.Errorf("%w: malformed locator %q", ErrConversion, locator)
	}

	obj, err := n.store.Get(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("%w: fetch source: %v", ErrConversion, err)
	}

	text, err := ExtractDocxText(obj.Data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrConversion, err)
	}

	txtKey := ReplaceExt(key, ".txt")
	if err := n.store.Put(ctx, txtKey, blob.Object{Data: []byte(text), ContentType: "text/plain"}); err != nil {
		return "", "", fmt.Errorf("%w: store converted text: %v", ErrConversion, err)
	}
	return LocatorScheme + n.store.Bucket() + "/" + txtKey, "text/plain", nil
}

// ExtractDocxText walks the paragraph structure of a .docx payload and
// returns the plain text, paragraphs joined with newlines. Legacy
// binary .doc files are not zip archives and fail here, which surfaces
// as a conversion error upstream.
func ExtractDocxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open word/document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("docx archive has no word/document.xml")
	}
	defer docXML.Close()

	decoder := xml.NewDecoder(docXML)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse word/document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}
