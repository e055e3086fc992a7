package chat

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a document's conversation.
type Message struct {
	ID          string
	DocumentID  string
	Role        string
	Content     string
	Timestamp   time.Time
	CreatedDate time.Time
}

// Exchange is the pair of messages produced by one chat turn.
// Assistant is nil when the reply could not be generated.
type Exchange struct {
	User      Message
	Assistant *Message
}
