package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, title, file_url, storage_key, extracted_text, brief_summary, detailed_summary, bullet_summary, file_size, size_bytes, status, created_date`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    title,
    file_url,
    storage_key,
    extracted_text,
    brief_summary,
    detailed_summary,
    bullet_summary,
    file_size,
    size_bytes,
    status,
    created_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	var storageKey sql.NullString
	if doc.StorageKey != "" {
		storageKey = sql.NullString{String: doc.StorageKey, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Title,
		doc.FileURL,
		storageKey,
		doc.ExtractedText,
		doc.BriefSummary,
		doc.DetailedSummary,
		doc.BulletSummary,
		doc.FileSize,
		doc.SizeBytes,
		doc.Status,
		doc.CreatedDate,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := `SELECT ` + selectColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// List returns all documents ordered newest-first.
func (r *PGRepo) List(ctx context.Context) ([]Document, error) {
	query := `SELECT ` + selectColumns + `
FROM documents
ORDER BY created_date DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var storageKey sql.NullString
	if err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.FileURL,
		&storageKey,
		&doc.ExtractedText,
		&doc.BriefSummary,
		&doc.DetailedSummary,
		&doc.BulletSummary,
		&doc.FileSize,
		&doc.SizeBytes,
		&doc.Status,
		&doc.CreatedDate,
	); err != nil {
		return Document{}, err
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
