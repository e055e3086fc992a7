package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"documind-backend/internal/shared/storage/object"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir(), "http://localhost:8080/")
	payload := []byte("%PDF-1.4\n%fake pdf body\n")

	key, size, mime, err := store.Save(context.Background(), "Lecture Notes.pdf", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	if mime != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", mime)
	}
	if !strings.HasSuffix(key, "_lecture-notes.pdf") {
		t.Fatalf("unexpected key %s", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch")
	}

	link, err := store.URL(context.Background(), key)
	if err != nil {
		t.Fatalf("URL: %v", err)
	}
	if link != "http://localhost:8080/api/v1/files/"+key {
		t.Fatalf("unexpected url %s", link)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir(), "")
	for _, key := range []string{"../secret", "/../../etc/passwd", ""} {
		if _, err := store.Open(context.Background(), key); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("Open(%q) expected ErrInvalidKey, got %v", key, err)
		}
		if _, err := store.URL(context.Background(), key); !errors.Is(err, object.ErrInvalidKey) {
			t.Fatalf("URL(%q) expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	store := New(t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := store.Save(ctx, "a.pdf", strings.NewReader("x")); err == nil {
		t.Fatalf("expected context error")
	}
}
