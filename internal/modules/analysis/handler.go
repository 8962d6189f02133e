package analysis

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/pkg/response"
)

type ChatDTO struct {
	Messages []ChatTurn `json:"messages"`
	// Message is a single-turn shorthand accepted when messages is absent.
	Message    string `json:"message"`
	DocumentID string `json:"document_id"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/documents/:id/analyze", h.analyze)
	rg.POST("/chat", h.chat)
}

// GET /documents/:id/analyze?lang=en
func (h *Handler) analyze(c *gin.Context) {
	result, err := h.svc.Analyze(
		c.Request.Context(),
		c.Param("id"),
		middleware.StorageSubject(c),
		c.Query("lang"),
	)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrNotFound):
			response.NotFound(c)
		case errors.Is(err, ErrMissingLocator):
			response.BadRequest(c, ErrMissingLocator.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, result)
}

// POST /chat
func (h *Handler) chat(c *gin.Context) {
	var dto ChatDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid chat payload")
		return
	}
	if len(dto.Messages) == 0 && strings.TrimSpace(dto.Message) != "" {
		dto.Messages = []ChatTurn{{Role: "user", Content: dto.Message}}
	}
	if len(dto.Messages) == 0 {
		response.BadRequest(c, "messages must not be empty")
		return
	}
	for _, m := range dto.Messages {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		if role != "user" && role != "assistant" {
			response.BadRequest(c, "message roles must be user or assistant")
			return
		}
	}

	reply, err := h.svc.Chat(
		c.Request.Context(),
		middleware.StorageSubject(c),
		dto.DocumentID,
		dto.Messages,
	)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"reply": reply})
}
