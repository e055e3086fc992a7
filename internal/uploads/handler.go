package uploads

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"documind-backend/internal/documents"
	"documind-backend/internal/pipeline"
	"documind-backend/internal/shared/server/respond"
	"documind-backend/internal/shared/telemetry"
)

const sniffLen = 512

// Handler exposes the upload endpoints.
type Handler struct {
	Jobs *Manager
}

func NewHandler(jobs *Manager) *Handler {
	return &Handler{Jobs: jobs}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.createSync)
	rg.POST("/uploads", h.createAsync)
	rg.GET("/uploads/:id", h.get)
}

// JobResponse is the wire shape of an upload job.
type JobResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"`
	Step       string    `json:"step"`
	Error      string    `json:"error,omitempty"`
	DocumentID string    `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toJobResponse(j Job) JobResponse {
	return JobResponse{
		ID:         j.ID,
		FileName:   j.FileName,
		Status:     j.Status,
		Progress:   j.Progress,
		Step:       j.Step,
		Error:      j.Error,
		DocumentID: j.DocumentID,
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}
}

func (h *Handler) createSync(c *gin.Context) {
	f, closeFn, ok := readFile(c)
	if !ok {
		return
	}
	defer closeFn()

	doc, err := h.Jobs.RunSync(c.Request.Context(), f)
	if err != nil {
		writePipelineError(c, err)
		return
	}
	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, documents.ToDetail(doc))
}

func (h *Handler) createAsync(c *gin.Context) {
	f, closeFn, ok := readFile(c)
	if !ok {
		return
	}
	defer closeFn()

	job, err := h.Jobs.Start(c.Request.Context(), f)
	if err != nil {
		if errors.Is(err, ErrShuttingDown) {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "server is shutting down", nil)
			return
		}
		writePipelineError(c, err)
		return
	}
	c.Set("uploadId", job.ID)
	c.Header("Location", "/api/v1/uploads/"+job.ID)
	respond.JSON(c, http.StatusAccepted, toJobResponse(job))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("uploadId", id)

	job, err := h.Jobs.Get(id)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "upload not found", nil)
		return
	}
	if job.DocumentID != "" {
		c.Set("documentId", job.DocumentID)
	}
	respond.OK(c, toJobResponse(job))
}

// readFile pulls the multipart "file" field. It writes the error response itself.
func readFile(c *gin.Context) (pipeline.File, func(), bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return pipeline.File{}, nil, false
	}
	body, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return pipeline.File{}, nil, false
	}

	contentType, reader, err := contentTypeOf(fh, body)
	if err != nil {
		_ = body.Close()
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return pipeline.File{}, nil, false
	}

	return pipeline.File{
		Name:        fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        reader,
	}, func() { _ = body.Close() }, true
}

// contentTypeOf trusts the part header and sniffs the first bytes when it is absent.
func contentTypeOf(fh *multipart.FileHeader, body multipart.File) (string, io.Reader, error) {
	declared := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if declared != "" && declared != "application/octet-stream" {
		return declared, body, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", nil, err
	}
	head = head[:n]
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), body), nil
}

func writePipelineError(c *gin.Context, err error) {
	if stage, ok := pipeline.FailedStage(err); ok {
		c.Set("pipelineStage", string(stage))
	}
	msg := pipeline.UserMessage(err)
	switch {
	case errors.Is(err, pipeline.ErrNotPDF):
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", msg, nil)
	case errors.Is(err, pipeline.ErrEmptyFile):
		respond.Error(c, http.StatusBadRequest, "validation_error", msg, nil)
	case errors.Is(err, pipeline.ErrFileTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", msg, nil)
	case errors.Is(err, pipeline.ErrExtractionFailed):
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", msg, nil)
	default:
		telemetry.Error("upload.failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
		respond.Error(c, http.StatusBadGateway, "processing_failed", msg, nil)
	}
}
