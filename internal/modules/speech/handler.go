package speech

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/modules/analysis"
	"github.com/clausewise/core/internal/modules/document"
	"github.com/clausewise/core/internal/pkg/response"
)

type VoiceQnADTO struct {
	Question   string `json:"question"`
	Audio      string `json:"audio"` // base64-encoded
	Language   string `json:"language"`
	DocumentID string `json:"document_id"`
}

type VoiceQnAResponse struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	AnswerAudio string `json:"answer_audio"` // base64-encoded, may be empty
}

type Handler struct {
	bridge   Bridge
	analysis *analysis.Service
	log      *zap.Logger
}

func NewHandler(bridge Bridge, analysisSvc *analysis.Service, log *zap.Logger) *Handler {
	return &Handler{bridge: bridge, analysis: analysisSvc, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/voice/qna", h.voiceQnA)
}

// POST /voice/qna
func (h *Handler) voiceQnA(c *gin.Context) {
	var dto VoiceQnADTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "invalid voice payload")
		return
	}

	question := strings.TrimSpace(dto.Question)
	audio := strings.TrimSpace(dto.Audio)
	if question == "" && audio == "" {
		response.BadRequest(c, "either question or audio is required")
		return
	}
	if dto.Language == "" {
		dto.Language = "en"
	}

	ctx := c.Request.Context()

	if question == "" {
		audioBytes, err := base64.StdEncoding.DecodeString(audio)
		if err != nil {
			response.BadRequest(c, "audio must be base64-encoded")
			return
		}
		question, err = h.bridge.Transcribe(ctx, audioBytes, dto.Language)
		if err != nil {
			response.InternalErrorMsg(c, "transcription failed: "+err.Error())
			return
		}
		if strings.TrimSpace(question) == "" {
			response.UnprocessableEntity(c, "no speech recognized in the audio")
			return
		}
	}

	answer, err := h.analysis.Answer(ctx, middleware.StorageSubject(c), dto.DocumentID, question, dto.Language)
	if err != nil {
		switch {
		case errors.Is(err, document.ErrNotFound):
			response.NotFound(c)
		case errors.Is(err, analysis.ErrMissingLocator):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	// Synthesis failure degrades to a text-only answer.
	var answerAudio string
	if audioBytes, err := h.bridge.Synthesize(ctx, answer, dto.Language); err != nil {
		h.log.Warn("answer synthesis failed", zap.Error(err))
	} else if len(audioBytes) > 0 {
		answerAudio = base64.StdEncoding.EncodeToString(audioBytes)
	}

	response.OK(c, VoiceQnAResponse{
		Question:    question,
		Answer:      answer,
		AnswerAudio: answerAudio,
	})
}
