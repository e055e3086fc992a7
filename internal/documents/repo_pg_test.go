package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var docColumns = []string{"id", "title", "file_url", "storage_key", "extracted_text", "brief_summary", "detailed_summary", "bullet_summary", "file_size", "size_bytes", "status", "created_date"}

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := Document{
		ID:              "doc-1",
		Title:           "Annual Report",
		FileURL:         "http://localhost:8080/api/v1/files/documents/a.pdf",
		StorageKey:      "documents/a.pdf",
		ExtractedText:   "text",
		BriefSummary:    "brief",
		DetailedSummary: "detailed",
		BulletSummary:   "- a",
		FileSize:        "1.00 MB",
		SizeBytes:       1048576,
		Status:          StatusReady,
		CreatedDate:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.Title,
			doc.FileURL,
			doc.StorageKey,
			doc.ExtractedText,
			doc.BriefSummary,
			doc.DetailedSummary,
			doc.BulletSummary,
			doc.FileSize,
			doc.SizeBytes,
			doc.Status,
			doc.CreatedDate,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(docColumns).
		AddRow("b", "Second", "u2", nil, "t2", "b2", "d2", "l2", "0.50 MB", int64(524288), StatusReady, now).
		AddRow("a", "First", "u1", "documents/a.pdf", "t1", "b1", "d1", "l1", "1.00 MB", int64(1048576), StatusError, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY created_date DESC").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	if docs[0].ID != "b" || docs[0].StorageKey != "" {
		t.Fatalf("unexpected first doc %+v", docs[0])
	}
	if docs[1].StorageKey != "documents/a.pdf" || docs[1].SizeBytes != 1048576 {
		t.Fatalf("unexpected second doc %+v", docs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
