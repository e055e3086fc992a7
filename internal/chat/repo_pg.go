package chat

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Append inserts a message; seq keeps insertion order.
func (r *PGRepo) Append(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	const query = `
INSERT INTO chat_messages (
    id,
    document_id,
    role,
    content,
    "timestamp",
    created_date
) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID,
		msg.DocumentID,
		msg.Role,
		msg.Content,
		msg.Timestamp,
		msg.CreatedDate,
	)
	return err
}

// ListByDocument returns the document's messages oldest first.
func (r *PGRepo) ListByDocument(ctx context.Context, documentID string) ([]Message, error) {
	const query = `
SELECT id, document_id, role, content, "timestamp", created_date
FROM chat_messages
WHERE document_id = $1
ORDER BY seq ASC`

	rows, err := r.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.DocumentID, &m.Role, &m.Content, &m.Timestamp, &m.CreatedDate); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
