package chat

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"documind-backend/internal/documents"
	"documind-backend/internal/shared/server/respond"
)

// Handler exposes the chat endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches chat routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents/:id/messages", h.history)
	rg.POST("/documents/:id/messages", h.send)
}

// MessageResponse is the wire shape of a chat message.
type MessageResponse struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedDate time.Time `json:"created_date"`
}

type sendRequest struct {
	Content string `json:"content"`
}

type sendResponse struct {
	User      MessageResponse  `json:"user"`
	Assistant *MessageResponse `json:"assistant"`
}

func toResponse(m Message) MessageResponse {
	return MessageResponse(m)
}

func (h *Handler) history(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	msgs, err := h.Svc.History(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load messages", nil)
		return
	}

	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toResponse(m))
	}
	respond.OK(c, gin.H{"messages": out})
}

func (h *Handler) send(c *gin.Context) {
	id := c.Param("id")
	c.Set("documentId", id)

	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	ex, err := h.Svc.Send(c.Request.Context(), id, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyMessage):
			respond.Error(c, http.StatusBadRequest, "validation_error", "content is required", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrNoDocumentText):
			respond.Error(c, http.StatusUnprocessableEntity, "no_document_text", "This document has no extracted text to chat about", nil)
		case errors.Is(err, ErrTurnInProgress):
			respond.Error(c, http.StatusConflict, "turn_in_progress", "A reply is already being generated for this document", nil)
		case errors.Is(err, ErrAssistantFailed):
			respond.Error(c, http.StatusBadGateway, "assistant_failed", "Failed to get a response", gin.H{
				"user": toResponse(ex.User),
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send message", nil)
		}
		return
	}

	resp := sendResponse{User: toResponse(ex.User)}
	if ex.Assistant != nil {
		a := toResponse(*ex.Assistant)
		resp.Assistant = &a
	}
	respond.JSON(c, http.StatusCreated, resp)
}
