package app

import (
	"context"
	"fmt"
	"time"

	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/pkg/blob"
	pkgcron "github.com/clausewise/core/internal/pkg/cron"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, store blob.Store, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "purge_deleted_documents",
		Description: "remove blobs and cached analyses of documents deleted more than 7 days ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -7)
			var docs []models.DocumentModel
			err := db.Unscoped().
				Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
				Find(&docs).Error
			if err != nil {
				return err
			}
			purged := 0
			for _, doc := range docs {
				deleteBlob(ctx, store, doc.StoragePath)
				if doc.RawPath != doc.StoragePath {
					deleteBlob(ctx, store, doc.RawPath)
				}
				if err := db.Where("document_id = ?", doc.ID).Delete(&models.AnalysisModel{}).Error; err != nil {
					cronLogger.Warn("failed to drop cached analyses", zap.String("document", doc.ID), zap.Error(err))
					continue
				}
				if err := db.Unscoped().Delete(&doc).Error; err != nil {
					cronLogger.Warn("failed to purge document record", zap.String("document", doc.ID), zap.Error(err))
					continue
				}
				purged++
			}
			if purged > 0 {
				cronLogger.Info(fmt.Sprintf("purged %d deleted documents", purged))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "drop_stale_failed_uploads",
		Description: "drop uploads stuck in failed state for over a day",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-24 * time.Hour)
			var docs []models.DocumentModel
			err := db.Where("status = ? AND updated_at < ?", models.DocumentStatusFailed, cutoff).
				Find(&docs).Error
			if err != nil {
				return err
			}
			for _, doc := range docs {
				deleteBlob(ctx, store, doc.RawPath)
				if err := db.Delete(&doc).Error; err != nil {
					cronLogger.Warn("failed to drop failed upload", zap.String("document", doc.ID), zap.Error(err))
				}
			}
			if len(docs) > 0 {
				cronLogger.Info(fmt.Sprintf("dropped %d failed uploads", len(docs)))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_done_reminders",
		Description: "delete reminders completed more than 30 days ago",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -30)
			result := db.Where("done = ? AND updated_at < ?", true, cutoff).
				Delete(&models.ReminderModel{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info(fmt.Sprintf("cleaned up %d completed reminders", result.RowsAffected))
			}
			return nil
		},
	})
}

func deleteBlob(ctx context.Context, store blob.Store, locator string) {
	_, key, ok := document.ParseLocator(locator)
	if !ok || key == "" {
		return
	}
	_ = store.Delete(ctx, key)
}
