package chat

import "context"

// Repo persists chat messages in append order.
type Repo interface {
	Append(ctx context.Context, msg Message) error
	// ListByDocument returns messages oldest first.
	ListByDocument(ctx context.Context, documentID string) ([]Message, error)
}

func validate(msg Message) error {
	if msg.ID == "" || msg.DocumentID == "" {
		return ErrInvalidMessage
	}
	if msg.Role != RoleUser && msg.Role != RoleAssistant {
		return ErrInvalidMessage
	}
	return nil
}
