package document

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/clausewise/core/internal/middleware"
	"github.com/clausewise/core/internal/pkg/pagination"
	"github.com/clausewise/core/internal/pkg/response"
)

// maxUploadBytes bounds a single document upload.
const maxUploadBytes = 20 << 20

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/documents")

	g.POST("/upload", h.upload)
	g.GET("", h.list)
	g.GET("/:id", h.get)

	a := g.Group("", authMW)
	a.DELETE("/:id", h.delete)
}

// POST /documents/upload
func (h *Handler) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.UnprocessableEntity(c, "file exceeds the 20 MB upload limit")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(data) > maxUploadBytes {
		response.UnprocessableEntity(c, "file exceeds the 20 MB upload limit")
		return
	}

	subject := middleware.StorageSubject(c)
	category := c.PostForm("category")

	doc, err := h.svc.Upload(
		c.Request.Context(),
		subject,
		fileHeader.Filename,
		category,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		if errors.Is(err, ErrConversion) {
			response.InternalErrorMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, doc)
}

// GET /documents
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	docs, page, err := h.svc.ListPaged(middleware.StorageSubject(c), q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, docs, page)
}

// GET /documents/:id
func (h *Handler) get(c *gin.Context) {
	doc, err := h.svc.Get(c.Param("id"), middleware.StorageSubject(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, doc)
}

// DELETE /documents/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id"), middleware.StorageSubject(c)); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
