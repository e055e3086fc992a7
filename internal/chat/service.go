package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"documind-backend/internal/documents"
	"documind-backend/internal/llm"
	"documind-backend/internal/shared/metrics"
	"documind-backend/internal/shared/telemetry"
	"documind-backend/internal/shared/util"
)

// ContextChars is how much of the document text is sent with each question.
const ContextChars = 10000

// DocumentReader loads the document a conversation is about.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (documents.Document, error)
}

// Invoker sends a prompt to the language model.
type Invoker interface {
	InvokeLLM(ctx context.Context, prompt string) (string, error)
}

// Service runs chat turns against a document.
type Service struct {
	Documents DocumentReader
	Messages  Repo
	LLM       Invoker
	Now       func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
}

// History returns a document's messages oldest first.
func (s *Service) History(ctx context.Context, documentID string) ([]Message, error) {
	if _, err := s.Documents.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.Messages.ListByDocument(ctx, documentID)
}

// Send appends the user message, asks the model once and appends its reply.
// If the model fails the user message is kept and ErrAssistantFailed is returned
// together with the partial exchange.
func (s *Service) Send(ctx context.Context, documentID, content string) (Exchange, error) {
	if strings.TrimSpace(content) == "" {
		return Exchange{}, ErrEmptyMessage
	}

	doc, err := s.Documents.GetByID(ctx, documentID)
	if err != nil {
		return Exchange{}, err
	}
	if strings.TrimSpace(doc.ExtractedText) == "" {
		return Exchange{}, ErrNoDocumentText
	}

	if !s.begin(documentID) {
		metrics.IncChatTurn("rejected")
		return Exchange{}, ErrTurnInProgress
	}
	defer s.end(documentID)

	// A started turn is not abandoned when the caller goes away.
	ctx = context.WithoutCancel(ctx)

	userMsg := s.newMessage(documentID, RoleUser, content)
	if err := s.Messages.Append(ctx, userMsg); err != nil {
		metrics.IncChatTurn("failed")
		return Exchange{}, fmt.Errorf("save user message: %w", err)
	}
	ex := Exchange{User: userMsg}

	prompt := llm.ChatPrompt(util.Truncate(doc.ExtractedText, ContextChars), content)
	reply, err := s.LLM.InvokeLLM(ctx, prompt)
	if err != nil {
		metrics.IncChatTurn("failed")
		telemetry.Error("chat.failed", map[string]any{
			"document_id": documentID,
			"message_id":  userMsg.ID,
			"error":       err,
		})
		return ex, fmt.Errorf("%w: %v", ErrAssistantFailed, err)
	}

	assistantMsg := s.newMessage(documentID, RoleAssistant, reply)
	if err := s.Messages.Append(ctx, assistantMsg); err != nil {
		metrics.IncChatTurn("failed")
		return ex, fmt.Errorf("save assistant message: %w", err)
	}
	ex.Assistant = &assistantMsg

	metrics.IncChatTurn("succeeded")
	telemetry.Info("chat.turn", map[string]any{
		"document_id":  documentID,
		"question_len": len(content),
		"reply_len":    len(reply),
	})
	return ex, nil
}

func (s *Service) newMessage(documentID, role, content string) Message {
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	return Message{
		ID:          uuid.NewString(),
		DocumentID:  documentID,
		Role:        role,
		Content:     content,
		Timestamp:   now,
		CreatedDate: now,
	}
}

func (s *Service) begin(documentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		s.pending = make(map[string]struct{})
	}
	if _, busy := s.pending[documentID]; busy {
		return false
	}
	s.pending[documentID] = struct{}{}
	return true
}

func (s *Service) end(documentID string) {
	s.mu.Lock()
	delete(s.pending, documentID)
	s.mu.Unlock()
}
