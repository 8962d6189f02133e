package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/modules/document"
)

// ErrMissingLocator marks a document record without a storage path;
// surfaced as a bad request rather than a not-found.
var ErrMissingLocator = errors.New("document has no storage locator")

// AnalyzeResult is the full analysis payload for one document.
type AnalyzeResult struct {
	DocumentID string                 `json:"document_id"`
	Summary    string                 `json:"summary"`
	Risks      []models.Risk          `json:"risks"`
	Glossary   []models.GlossaryEntry `json:"glossary"`
	Cached     bool                   `json:"cached,omitempty"`
}

type Service struct {
	db      *gorm.DB
	docs    *document.Service
	backend Backend
	lang    string
	log     *zap.Logger
}

func NewService(db *gorm.DB, docs *document.Service, backend Backend, defaultLang string, log *zap.Logger) *Service {
	if defaultLang == "" {
		defaultLang = "en"
	}
	return &Service{db: db, docs: docs, backend: backend, lang: defaultLang, log: log}
}

func analysisHash(docID, lang string) string {
	sum := sha256.Sum256([]byte(docID + ":" + lang))
	return hex.EncodeToString(sum[:])
}

func (s *Service) resolveLang(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return s.lang
	}
	return lang
}

// Analyze runs the three analysis tasks over one document. A fully
// successful run is cached by document and language; degraded runs are
// served but never cached, so a later request can heal.
func (s *Service) Analyze(ctx context.Context, docID, subject, lang string) (*AnalyzeResult, error) {
	lang = s.resolveLang(lang)

	doc, err := s.docs.Get(docID, subject)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.StoragePath) == "" {
		return nil, ErrMissingLocator
	}

	hash := analysisHash(doc.ID, lang)
	var cached models.AnalysisModel
	if err := s.db.First(&cached, "hash = ?", hash).Error; err == nil {
		return &AnalyzeResult{
			DocumentID: doc.ID,
			Summary:    cached.Summary,
			Risks:      cached.Risks,
			Glossary:   cached.Glossary,
			Cached:     true,
		}, nil
	}

	ref := Reference{Locator: doc.StoragePath, MIME: doc.ContentType}

	summary, summaryErr := s.backend.Summarize(ctx, ref, lang)
	if IsFatal(summaryErr) {
		return nil, summaryErr
	}
	risks, risksErr := s.backend.ExtractRisks(ctx, ref)
	if IsFatal(risksErr) {
		return nil, risksErr
	}
	glossary, glossaryErr := s.backend.ExtractGlossary(ctx, ref, lang)
	if IsFatal(glossaryErr) {
		return nil, glossaryErr
	}

	result := &AnalyzeResult{
		DocumentID: doc.ID,
		Summary:    summary,
		Risks:      risks,
		Glossary:   glossary,
	}

	if summaryErr == nil && risksErr == nil && glossaryErr == nil {
		record := models.AnalysisModel{
			Hash:       hash,
			DocumentID: doc.ID,
			Lang:       lang,
			Summary:    summary,
			Risks:      risks,
			Glossary:   glossary,
		}
		if err := s.db.Create(&record).Error; err != nil {
			s.log.Warn("persist analysis cache failed", zap.Error(err))
		}
	} else {
		s.log.Warn("serving degraded analysis",
			zap.String("document_id", doc.ID),
			zap.NamedError("summary_err", summaryErr),
			zap.NamedError("risks_err", risksErr),
			zap.NamedError("glossary_err", glossaryErr),
		)
	}

	return result, nil
}

// Answer runs one question, optionally grounded on a document.
func (s *Service) Answer(ctx context.Context, subject, docID, question, lang string) (string, error) {
	ref, err := s.resolveReference(docID, subject)
	if err != nil {
		return "", err
	}
	return s.backend.AnswerQuestion(ctx, ref, question, s.resolveLang(lang))
}

// Chat produces the next assistant turn for a conversation. An unknown or
// unusable document reference degrades to a context-free chat instead of
// failing the request.
func (s *Service) Chat(ctx context.Context, subject, docID string, turns []ChatTurn) (string, error) {
	ref, err := s.resolveReference(docID, subject)
	if err != nil {
		s.log.Warn("chat document unavailable, continuing without context",
			zap.String("document", docID), zap.Error(err))
		ref = nil
	}
	reply, err := s.backend.Chat(ctx, turns, ref)
	if err != nil && !IsFatal(err) && reply != "" {
		s.log.Warn("serving degraded chat reply", zap.Error(err))
		return reply, nil
	}
	return reply, err
}

func (s *Service) resolveReference(docID, subject string) (*Reference, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, nil
	}
	doc, err := s.docs.Get(docID, subject)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.StoragePath) == "" {
		return nil, ErrMissingLocator
	}
	return &Reference{Locator: doc.StoragePath, MIME: doc.ContentType}, nil
}
