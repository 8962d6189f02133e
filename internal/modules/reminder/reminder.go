// Package reminder manages user reminders for key dates found in
// analyzed documents.
package reminder

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/pkg/response"
)

type CreateReminderDTO struct {
	Title      string    `json:"title"       binding:"required"`
	Note       string    `json:"note"`
	DueAt      time.Time `json:"due_at"      binding:"required"`
	DocumentID string    `json:"document_id"`
}

var errNotFound = errors.New("reminder not found")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(subject string, dto *CreateReminderDTO) (*models.ReminderModel, error) {
	r := &models.ReminderModel{
		SubjectID:  subject,
		DocumentID: dto.DocumentID,
		Title:      dto.Title,
		Note:       dto.Note,
		DueAt:      dto.DueAt,
	}
	if err := s.db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the subject's reminders, soonest due first.
func (s *Service) List(subject string, includeDone bool) ([]models.ReminderModel, error) {
	tx := s.db.Where("subject_id = ?", subject).Order("due_at ASC")
	if !includeDone {
		tx = tx.Where("done = ?", false)
	}
	var items []models.ReminderModel
	err := tx.Find(&items).Error
	return items, err
}

func (s *Service) get(id, subject string) (*models.ReminderModel, error) {
	var r models.ReminderModel
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	if r.SubjectID != subject {
		return nil, errNotFound
	}
	return &r, nil
}

func (s *Service) MarkDone(id, subject string) (*models.ReminderModel, error) {
	r, err := s.get(id, subject)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(r).Update("done", true).Error; err != nil {
		return nil, err
	}
	r.Done = true
	return r, nil
}

func (s *Service) Delete(id, subject string) error {
	r, err := s.get(id, subject)
	if err != nil {
		return err
	}
	return s.db.Delete(r).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/reminders", authMW)

	g.POST("", h.create)
	g.GET("", h.list)
	g.PATCH("/:id/done", h.markDone)
	g.DELETE("/:id", h.delete)
}

// POST /reminders
func (h *Handler) create(c *gin.Context) {
	var dto CreateReminderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "title and due_at are required")
		return
	}
	r, err := h.svc.Create(middleware.StorageSubject(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, r)
}

// GET /reminders?include_done=true
func (h *Handler) list(c *gin.Context) {
	includeDone := c.Query("include_done") == "true"
	items, err := h.svc.List(middleware.StorageSubject(c), includeDone)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// PATCH /reminders/:id/done
func (h *Handler) markDone(c *gin.Context) {
	r, err := h.svc.MarkDone(c.Param("id"), middleware.StorageSubject(c))
	if err != nil {
		if errors.Is(err, errNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, r)
}

// DELETE /reminders/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.StorageSubject(c)); err != nil {
		if errors.Is(err, errNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
