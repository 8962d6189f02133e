package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/pkg/blob"
)

// ContentFetcher loads the blob behind a fully-qualified locator.
// Implemented by document.Service.
type ContentFetcher interface {
	Fetch(ctx context.Context, locator string) (blob.Object, error)
}

// LiveBackend invokes the configured generative-model provider through
// the session manager.
type LiveBackend struct {
	sessions  *SessionManager
	fetcher   ContentFetcher
	signature string
	log       *zap.Logger
}

func NewLiveBackend(sessions *SessionManager, fetcher ContentFetcher, transientSignature string, log *zap.Logger) *LiveBackend {
	return &LiveBackend{
		sessions:  sessions,
		fetcher:   fetcher,
		signature: transientSignature,
		log:       log,
	}
}

func (b *LiveBackend) Summarize(ctx context.Context, ref Reference, lang string) (string, error) {
	text, err := b.fetchText(ctx, ref)
	if err != nil {
		return degradedSummary(err), err
	}
	system, prompt := buildSummaryPrompt(lang, text)
	out, err := b.generateWithRetry(ctx, system, prompt)
	if err != nil {
		if IsFatal(err) {
			return "", err
		}
		return degradedSummary(err), err
	}
	return strings.TrimSpace(out), nil
}

func (b *LiveBackend) ExtractRisks(ctx context.Context, ref Reference) ([]models.Risk, error) {
	text, err := b.fetchText(ctx, ref)
	if err == nil {
		system, prompt := buildRisksPrompt(text)
		var out string
		out, err = b.generate(ctx, system, prompt)
		if err == nil {
			return DecodeRisks(out), nil
		}
	}
	if IsFatal(err) {
		return nil, err
	}
	// Shape-stable degradation: one synthetic record instead of an
	// empty list, so the caller always sees the contracted shape.
	return []models.Risk{{
		Clause:      "Document access error",
		Risk:        "Unknown",
		Explanation: err.Error(),
	}}, err
}

func (b *LiveBackend) ExtractGlossary(ctx context.Context, ref Reference, lang string) ([]models.GlossaryEntry, error) {
	text, err := b.fetchText(ctx, ref)
	if err == nil {
		system, prompt := buildGlossaryPrompt(lang, text)
		var out string
		out, err = b.generate(ctx, system, prompt)
		if err == nil {
			return DecodeGlossary(out), nil
		}
	}
	if IsFatal(err) {
		return nil, err
	}
	return []models.GlossaryEntry{{
		Term:       "Document access error",
		Definition: err.Error(),
	}}, err
}

func (b *LiveBackend) AnswerQuestion(ctx context.Context, ref *Reference, question, lang string) (string, error) {
	var docText string
	if ref != nil {
		var err error
		docText, err = b.fetchText(ctx, *ref)
		if err != nil {
			return "", err
		}
	}
	system, prompt := buildQuestionPrompt(question, lang, docText)
	out, err := b.generate(ctx, system, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (b *LiveBackend) Chat(ctx context.Context, turns []ChatTurn, ref *Reference) (string, error) {
	var docText string
	if ref != nil {
		var err error
		docText, err = b.fetchText(ctx, *ref)
		if err != nil {
			return degradedReply(err), err
		}
	}
	system, prompt := buildChatPrompt(turns, docText)
	out, err := b.generateWithRetry(ctx, system, prompt)
	if err != nil {
		if IsFatal(err) {
			return "", err
		}
		return degradedReply(err), err
	}
	return strings.TrimSpace(out), nil
}

// generateTimeout bounds a single model invocation. The upstream design
// left these calls unbounded; capping them here is a deliberate deviation.
const generateTimeout = 90 * time.Second

func (b *LiveBackend) generate(ctx context.Context, system, prompt string) (string, error) {
	handle, err := b.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()
	return handle.GenerateText(ctx, system, prompt, 0)
}

// generateWithRetry retries exactly once after a forced session reset
// when the failure matches the transient-credential signature. Only
// Summarize and Chat take this path.
func (b *LiveBackend) generateWithRetry(ctx context.Context, system, prompt string) (string, error) {
	out, err := b.generate(ctx, system, prompt)
	if err == nil || !isTransientCredential(err, b.signature) {
		return out, err
	}

	b.log.Warn("transient credential failure, resetting session and retrying once", zap.Error(err))
	b.sessions.Reset()
	return b.generate(ctx, system, prompt)
}

// fetchText resolves a reference into the plain text submitted to the
// model. Word-processor formats were already converted at upload time,
// so only text-like payloads and PDFs remain.
func (b *LiveBackend) fetchText(ctx context.Context, ref Reference) (string, error) {
	if strings.TrimSpace(ref.Locator) == "" {
		return "", fmt.Errorf("document has no storage locator")
	}
	obj, err := b.fetcher.Fetch(ctx, ref.Locator)
	if err != nil {
		return "", fmt.Errorf("fetch document content: %w", err)
	}

	mime := ref.MIME
	if mime == "" {
		mime = obj.ContentType
	}
	switch {
	case strings.HasPrefix(mime, "text/"),
		mime == "application/json",
		mime == "application/rtf":
		return string(obj.Data), nil
	case mime == "application/pdf":
		return extractPDFText(obj.Data)
	default:
		return "", fmt.Errorf("unsupported document format %q", mime)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract pdf text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return string(raw), nil
}

func degradedSummary(err error) string {
	return fmt.Sprintf("The summary could not be generated because the document could not be analyzed (%v). Please try again later.", err)
}

func degradedReply(err error) string {
	return fmt.Sprintf("Sorry, I could not process that message (%v). Please try again.", err)
}
