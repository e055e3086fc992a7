package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"documind-backend/internal/documents"
	"documind-backend/internal/pipeline"
	"documind-backend/internal/shared/telemetry"
)

// Runner executes one pipeline run.
type Runner interface {
	ValidateFile(f pipeline.File) error
	Run(ctx context.Context, f pipeline.File, progress pipeline.ProgressFunc) (documents.Document, error)
}

// Manager runs pipelines for HTTP callers, at most maxConcurrent at a time.
type Manager struct {
	runner  Runner
	tracker *Tracker
	sem     chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewManager(runner Runner, maxConcurrent int, ttl time.Duration) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Manager{
		runner:  runner,
		tracker: NewTracker(ttl),
		sem:     make(chan struct{}, maxConcurrent),
	}
}

// Start validates f and runs the pipeline in the background.
// The body is buffered before Start returns so the caller may close it.
func (m *Manager) Start(ctx context.Context, f pipeline.File) (Job, error) {
	if err := m.runner.ValidateFile(f); err != nil {
		return Job{}, err
	}
	data, err := io.ReadAll(f.Body)
	if err != nil {
		return Job{}, fmt.Errorf("buffer upload: %w", err)
	}
	f.Body = bytes.NewReader(data)
	if f.Size <= 0 {
		f.Size = int64(len(data))
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return Job{}, ErrShuttingDown
	}
	m.wg.Add(1)
	m.mu.Unlock()

	now := time.Now().UTC()
	job := Job{
		ID:        uuid.NewString(),
		FileName:  f.Name,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tracker.Put(job)
	telemetry.Info("upload.job.queued", map[string]any{
		"upload_id":  job.ID,
		"file_name":  f.Name,
		"size_bytes": f.Size,
	})

	go func() {
		defer m.wg.Done()
		m.execute(context.WithoutCancel(ctx), job.ID, f)
	}()
	return job, nil
}

func (m *Manager) execute(ctx context.Context, id string, f pipeline.File) {
	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	m.tracker.Update(id, func(j *Job) { j.Status = StatusRunning })

	doc, err := m.runner.Run(ctx, f, func(p pipeline.Progress) {
		m.tracker.Update(id, func(j *Job) {
			j.Progress = p.Percent
			j.Step = p.Step
			if p.Stage != pipeline.StageFailed {
				j.Stage = string(p.Stage)
			}
		})
	})
	if err != nil {
		job, _ := m.tracker.Update(id, func(j *Job) {
			j.Status = StatusFailed
			j.Progress = 0
			j.Step = ""
			j.Error = pipeline.UserMessage(err)
		})
		telemetry.Warn("upload.job.failed", map[string]any{
			"upload_id": id,
			"stage":     job.Stage,
			"error":     err,
		})
		return
	}

	m.tracker.Update(id, func(j *Job) {
		j.Status = StatusSucceeded
		j.Progress = 100
		j.Step = ""
		j.DocumentID = doc.ID
	})
	telemetry.Info("upload.job.succeeded", map[string]any{
		"upload_id":   id,
		"document_id": doc.ID,
	})
}

// Get returns the latest snapshot of a job.
func (m *Manager) Get(id string) (Job, error) {
	job, ok := m.tracker.Get(id)
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// RunSync runs the pipeline inline and shares the concurrency bound with Start.
func (m *Manager) RunSync(ctx context.Context, f pipeline.File) (documents.Document, error) {
	if err := m.runner.ValidateFile(f); err != nil {
		return documents.Document{}, err
	}
	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		return documents.Document{}, ctx.Err()
	}
	defer func() { <-m.sem }()
	return m.runner.Run(ctx, f, nil)
}

// Close stops accepting jobs and waits for running ones until ctx is done.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
