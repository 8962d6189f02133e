package document

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clausewise/core/internal/database"
	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/pkg/blob"
	"github.com/clausewise/core/internal/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUploadStoresAndNormalizes(t *testing.T) {
	db := newTestDB(t)
	store := blob.NewMemoryStore("docs")
	svc := NewService(db, store)
	ctx := context.Background()

	data := buildDocx(t, []string{"Landlord may increase rent."})
	doc, err := svc.Upload(ctx, "user-1", "lease agreement.docx", "Bank",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
	require.NoError(t, err)

	assert.Equal(t, "lease_agreement.docx", doc.Filename)
	assert.Equal(t, "Bank", doc.Category)
	assert.Equal(t, models.DocumentStatusNormalized, doc.Status)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Contains(t, doc.StoragePath, "s3://docs/user-1/")
	assert.Contains(t, doc.StoragePath, ".txt")
	assert.NotEqual(t, doc.RawPath, doc.StoragePath)

	obj, err := svc.Fetch(ctx, doc.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "Landlord may increase rent.", string(obj.Data))
}

func TestUploadPlainText(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, blob.NewMemoryStore("docs"))

	doc, err := svc.Upload(context.Background(), "None", "notes.txt", "bogus-category",
		"text/plain", []byte("hello"))
	require.NoError(t, err)

	assert.Equal(t, models.DocumentStatusUploaded, doc.Status)
	assert.Equal(t, "Other", doc.Category)
	assert.Equal(t, doc.RawPath, doc.StoragePath)
	assert.Contains(t, doc.StoragePath, "s3://docs/None/")
}

func TestUploadCorruptDocx(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, blob.NewMemoryStore("docs"))

	doc, err := svc.Upload(context.Background(), "user-1", "broken.docx", "Other",
		"application/msword", []byte("not a real docx"))
	assert.ErrorIs(t, err, ErrConversion)
	require.NotNil(t, doc)
	assert.Equal(t, models.DocumentStatusFailed, doc.Status)
}

func TestGetEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, blob.NewMemoryStore("docs"))

	doc, err := svc.Upload(context.Background(), "owner", "a.txt", "Other", "text/plain", []byte("x"))
	require.NoError(t, err)

	got, err := svc.Get(doc.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = svc.Get(doc.ID, "intruder")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get("missing-id", "owner")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPagedPartitionsBySubject(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, blob.NewMemoryStore("docs"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Upload(ctx, "user-1", fmt.Sprintf("doc-%d.txt", i), "Other", "text/plain", []byte("x"))
		require.NoError(t, err)
	}
	_, err := svc.Upload(ctx, "user-2", "other.txt", "Other", "text/plain", []byte("x"))
	require.NoError(t, err)

	docs, page, err := svc.ListPaged("user-1", pagination.Query{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPage)
	assert.True(t, page.HasNextPage)

	docs, page, err = svc.ListPaged("user-1", pagination.Query{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.False(t, page.HasNextPage)
}
