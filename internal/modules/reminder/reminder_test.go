package reminder

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/clausewise/core/internal/database"
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

func TestCreateAndListOrdersBySoonestDue(t *testing.T) {
	svc := NewService(newTestDB(t))
	now := time.Now()

	_, err := svc.Create("user-1", &CreateReminderDTO{Title: "renewal notice", DueAt: now.Add(48 * time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create("user-1", &CreateReminderDTO{Title: "rent due", DueAt: now.Add(24 * time.Hour)})
	require.NoError(t, err)

	items, err := svc.List("user-1", false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "rent due", items[0].Title)
	assert.Equal(t, "renewal notice", items[1].Title)
}

func TestListHidesDoneUnlessAsked(t *testing.T) {
	svc := NewService(newTestDB(t))

	r, err := svc.Create("user-1", &CreateReminderDTO{Title: "file taxes", DueAt: time.Now()})
	require.NoError(t, err)
	_, err = svc.MarkDone(r.ID, "user-1")
	require.NoError(t, err)

	items, err := svc.List("user-1", false)
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = svc.List("user-1", true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].Done)
}

func TestForeignSubjectCannotTouchReminder(t *testing.T) {
	svc := NewService(newTestDB(t))

	r, err := svc.Create("user-1", &CreateReminderDTO{Title: "deposit refund", DueAt: time.Now()})
	require.NoError(t, err)

	_, err = svc.MarkDone(r.ID, "user-2")
	assert.ErrorIs(t, err, errNotFound)
	err = svc.Delete(r.ID, "user-2")
	assert.ErrorIs(t, err, errNotFound)

	items, err := svc.List("user-1", true)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestDeleteRemovesFromList(t *testing.T) {
	svc := NewService(newTestDB(t))

	r, err := svc.Create("user-1", &CreateReminderDTO{Title: "court date", DueAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(r.ID, "user-1"))

	items, err := svc.List("user-1", true)
	require.NoError(t, err)
	assert.Empty(t, items)
}
