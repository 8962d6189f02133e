// Package faq serves the curated help-page questions.
package faq

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clausewise/core/internal/models"
	"github.com/clausewise/core/internal/pkg/response"
)

type CreateFAQDTO struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer"   binding:"required"`
	Order    int    `json:"order"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List() ([]models.FAQModel, error) {
	var items []models.FAQModel
	err := s.db.Order("`order` ASC, created_at ASC").Find(&items).Error
	return items, err
}

func (s *Service) Create(dto *CreateFAQDTO) (*models.FAQModel, error) {
	f := &models.FAQModel{Question: dto.Question, Answer: dto.Answer, Order: dto.Order}
	if err := s.db.Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.FAQModel{}, "id = ?", id).Error
}

// Seed inserts the default entries when the table is empty.
func (s *Service) Seed() error {
	var count int64
	if err := s.db.Model(&models.FAQModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	defaults := []models.FAQModel{
		{
			Question: "What kinds of documents can I upload?",
			Answer:   "PDF, DOCX and plain-text documents up to 20 MB: contracts, policies, notices and similar legal paperwork.",
			Order:    1,
		},
		{
			Question: "Is the analysis legal advice?",
			Answer:   "No. The summaries, risk lists and answers are plain-language explanations, not a substitute for a qualified lawyer.",
			Order:    2,
		},
		{
			Question: "Which languages are supported?",
			Answer:   "Summaries, glossaries and answers can be produced in English, Hindi, Tamil and Telugu.",
			Order:    3,
		},
	}
	return s.db.Create(&defaults).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/faq")

	g.GET("", h.list)

	a := g.Group("", authMW)
	a.POST("", h.create)
	a.DELETE("/:id", h.delete)
}

// GET /faq
func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

// POST /faq
func (h *Handler) create(c *gin.Context) {
	var dto CreateFAQDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "question and answer are required")
		return
	}
	f, err := h.svc.Create(&dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, f)
}

// DELETE /faq/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
