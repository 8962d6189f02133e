package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/pkg/blob"
	"github.com/clausewise/core/internal/pkg/pagination"
	"github.com/clausewise/core/internal/pkg/response"
)

// ErrNotFound covers both a missing document and a document owned by a
// different subject, so ownership probing is indistinguishable from a
// plain miss.
var ErrNotFound = errors.New("document not found")

type Service struct {
	db    *gorm.DB
	store blob.Store
	norm  *Normalizer
}

func NewService(db *gorm.DB, store blob.Store) *Service {
	return &Service{db: db, store: store, norm: NewNormalizer(store)}
}

// Upload stores the raw document, converts it to plain text when it is
// a word-processor format, and records the metadata. The stored key is
// partitioned by subject and upload date.
func (s *Service) Upload(ctx context.Context, subject, filename, category, contentType string, data []byte) (*models.DocumentModel, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload")
	}
	name := sanitizeFilename(filename)
	if contentType == "" || contentType == genericBinaryMIME {
		contentType = ResolveMIME(name)
	}
	if !models.ValidCategory(category) {
		category = "Other"
	}

	key := fmt.Sprintf("%s/%s/%s_%s",
		subject,
		time.Now().UTC().Format("2006/01/02"),
		uuid.New().String()[:8],
		name,
	)
	if err := s.store.Put(ctx, key, blob.Object{Data: data, ContentType: contentType}); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	rawLocator := ResolveLocator(s.store.Bucket(), key)

	doc := &models.DocumentModel{
		Filename:    name,
		ContentType: contentType,
		Category:    category,
		RawPath:     rawLocator,
		StoragePath: rawLocator,
		Status:      models.DocumentStatusUploaded,
		SubjectID:   subject,
		SizeBytes:   int64(len(data)),
	}

	normLocator, normMIME, err := s.norm.Normalize(ctx, key, contentType)
	if err != nil {
		doc.Status = models.DocumentStatusFailed
		if dbErr := s.db.Create(doc).Error; dbErr != nil {
			return nil, dbErr
		}
		return doc, err
	}
	doc.StoragePath = normLocator
	doc.ContentType = normMIME
	if normLocator != rawLocator {
		doc.Status = models.DocumentStatusNormalized
	}

	if err := s.db.Create(doc).Error; err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the document only when it belongs to subject.
func (s *Service) Get(id, subject string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	if err := s.db.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.SubjectID != subject {
		return nil, ErrNotFound
	}
	return &doc, nil
}

// List returns the subject's documents, newest first.
// ListPaged returns one page of the subject's documents, newest first.
func (s *Service) ListPaged(subject string, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	var docs []models.DocumentModel
	query := s.db.
		Model(&models.DocumentModel{}).
		Where("subject_id = ?", subject).
		Order("created_at DESC")
	page, err := pagination.Paginate(query, q, &docs)
	return docs, page, err
}

// Fetch loads the blob behind a fully-qualified locator.
func (s *Service) Fetch(ctx context.Context, locator string) (blob.Object, error) {
	_, key, ok := ParseLocator(locator)
	if !ok {
		return blob.Object{}, fmt.Errorf("malformed locator %q", locator)
	}
	return s.store.Get(ctx, key)
}

// Delete removes the metadata record; blobs are retained.
func (s *Service) Delete(id, subject string) error {
	doc, err := s.Get(id, subject)
	if err != nil {
		return err
	}
	return s.db.Delete(doc).Error
}

func sanitizeFilename(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "document"
	}
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "document"
	}
	return name
}
