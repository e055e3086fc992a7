package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"documind-backend/internal/documents"
	"documind-backend/internal/pipeline"
)

type fakeRunner struct {
	mu      sync.Mutex
	err     error
	bodies  []string
	running int
	peak    int
	block   chan struct{}
}

func (f *fakeRunner) ValidateFile(file pipeline.File) error {
	return pipeline.ValidateFile(file)
}

func (f *fakeRunner) Run(ctx context.Context, file pipeline.File, progress pipeline.ProgressFunc) (documents.Document, error) {
	f.mu.Lock()
	f.running++
	if f.running > f.peak {
		f.peak = f.running
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.running--
		f.mu.Unlock()
	}()

	if f.block != nil {
		<-f.block
	}
	b, _ := io.ReadAll(file.Body)
	f.mu.Lock()
	f.bodies = append(f.bodies, string(b))
	f.mu.Unlock()

	if progress != nil {
		progress(pipeline.ProgressFor(pipeline.StageUploading))
		progress(pipeline.ProgressFor(pipeline.StageExtracting))
	}
	if f.err != nil {
		if progress != nil {
			progress(pipeline.ProgressFor(pipeline.StageFailed))
		}
		return documents.Document{}, &pipeline.StageError{Stage: pipeline.StageExtracting, Err: f.err}
	}
	if progress != nil {
		progress(pipeline.ProgressFor(pipeline.StageDone))
	}
	return documents.Document{ID: "doc-1", Title: pipeline.TitleFromFileName(file.Name), Status: documents.StatusReady}, nil
}

func pdf(name, body string) pipeline.File {
	return pipeline.File{Name: name, ContentType: "application/pdf", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func waitClosed(t *testing.T, m *Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestStartRunsJobToSuccess(t *testing.T) {
	runner := &fakeRunner{}
	m := NewManager(runner, 2, time.Hour)

	job, err := m.Start(context.Background(), pdf("report.pdf", "%PDF-1.4"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if job.Status != StatusPending || job.FileName != "report.pdf" {
		t.Fatalf("unexpected job %+v", job)
	}
	waitClosed(t, m)

	got, err := m.Get(job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusSucceeded || got.Progress != 100 || got.DocumentID != "doc-1" {
		t.Fatalf("unexpected job %+v", got)
	}
	if len(runner.bodies) != 1 || runner.bodies[0] != "%PDF-1.4" {
		t.Fatalf("unexpected bodies %v", runner.bodies)
	}
}

func TestStartRecordsFailure(t *testing.T) {
	runner := &fakeRunner{err: pipeline.ErrExtractionFailed}
	m := NewManager(runner, 1, time.Hour)

	job, err := m.Start(context.Background(), pdf("scan.pdf", "%PDF-"))
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitClosed(t, m)

	got, _ := m.Get(job.ID)
	if got.Status != StatusFailed {
		t.Fatalf("status = %q", got.Status)
	}
	if got.Progress != 0 || got.Step != "" {
		t.Fatalf("expected reset progress, got %+v", got)
	}
	if got.Error != "Failed to extract text from PDF" {
		t.Fatalf("error = %q", got.Error)
	}
	if got.Stage != string(pipeline.StageExtracting) {
		t.Fatalf("stage = %q", got.Stage)
	}
}

func TestStartRejectsNonPDF(t *testing.T) {
	m := NewManager(&fakeRunner{}, 1, time.Hour)
	_, err := m.Start(context.Background(), pipeline.File{Name: "a.txt", ContentType: "text/plain", Size: 1, Body: strings.NewReader("a")})
	if !errors.Is(err, pipeline.ErrNotPDF) {
		t.Fatalf("expected ErrNotPDF, got %v", err)
	}
	if m.tracker.Len() != 0 {
		t.Fatalf("expected no tracked jobs")
	}
}

func TestStartBoundsConcurrency(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	m := NewManager(runner, 2, time.Hour)
	for i := 0; i < 5; i++ {
		if _, err := m.Start(context.Background(), pdf("a.pdf", "%PDF-")); err != nil {
			t.Fatalf("Start: %v", err)
		}
	}
	time.Sleep(50 * time.Millisecond)
	close(runner.block)
	waitClosed(t, m)

	if runner.peak > 2 {
		t.Fatalf("expected at most 2 concurrent runs, got %d", runner.peak)
	}
	if len(runner.bodies) != 5 {
		t.Fatalf("expected 5 runs, got %d", len(runner.bodies))
	}
}

func TestStartAfterClose(t *testing.T) {
	m := NewManager(&fakeRunner{}, 1, time.Hour)
	waitClosed(t, m)
	if _, err := m.Start(context.Background(), pdf("a.pdf", "%PDF-")); !errors.Is(err, ErrShuttingDown) {
		t.Fatalf("expected ErrShuttingDown, got %v", err)
	}
}

func TestGetUnknownJob(t *testing.T) {
	m := NewManager(&fakeRunner{}, 1, time.Hour)
	if _, err := m.Get("missing"); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestRunSync(t *testing.T) {
	m := NewManager(&fakeRunner{}, 1, time.Hour)
	doc, err := m.RunSync(context.Background(), pdf("report.pdf", "%PDF-"))
	if err != nil {
		t.Fatalf("RunSync: %v", err)
	}
	if doc.Title != "report" {
		t.Fatalf("title = %q", doc.Title)
	}
}

func TestTrackerPrunesFinishedJobs(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(time.Minute)
	tr.now = func() time.Time { return now }

	tr.Put(Job{ID: "done", Status: StatusSucceeded, UpdatedAt: now})
	tr.Put(Job{ID: "busy", Status: StatusRunning, UpdatedAt: now})

	now = now.Add(2 * time.Minute)
	if _, ok := tr.Get("done"); ok {
		t.Fatalf("expected finished job to be pruned")
	}
	if _, ok := tr.Get("busy"); !ok {
		t.Fatalf("expected running job to be kept")
	}
}
