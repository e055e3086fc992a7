package chat

import "errors"

var (
	// ErrEmptyMessage is returned when the user message is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrNoDocumentText is returned when the document has no extracted text to ground answers in.
	ErrNoDocumentText = errors.New("document has no extracted text")
	// ErrTurnInProgress is returned while another turn for the same document is pending.
	ErrTurnInProgress = errors.New("a reply is already being generated for this document")
	// ErrAssistantFailed wraps LLM failures. The user message stays persisted.
	ErrAssistantFailed = errors.New("failed to get a response")
	// ErrInvalidMessage is returned by repos for malformed messages.
	ErrInvalidMessage = errors.New("invalid chat message")
)
