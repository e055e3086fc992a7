package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"documind-backend/internal/documents"
	"documind-backend/internal/extract"
	"documind-backend/internal/llm"
	"documind-backend/internal/platform"
	"documind-backend/internal/shared/metrics"
	"documind-backend/internal/shared/telemetry"
)

const mediaTypePDF = "application/pdf"

// File is an upload handed to the pipeline.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ports are the platform integrations a run depends on.
type Ports interface {
	UploadFile(ctx context.Context, fileName string, r io.Reader) (platform.UploadedFile, error)
	ExtractDataFromUploadedFile(ctx context.Context, storageKey string, schema extract.Schema) (extract.Result, error)
	InvokeLLM(ctx context.Context, prompt string) (string, error)
}

// DocumentWriter persists finished documents.
type DocumentWriter interface {
	Create(ctx context.Context, doc documents.Document) error
}

// Pipeline turns an uploaded PDF into a summarized Document.
type Pipeline struct {
	Ports     Ports
	Documents DocumentWriter
	// MaxBytes rejects larger files when positive.
	MaxBytes int64
	Now      func() time.Time
}

// ValidateFile runs the pre-flight checks. It makes no external calls.
func (p *Pipeline) ValidateFile(f File) error {
	if err := ValidateFile(f); err != nil {
		return err
	}
	if p.MaxBytes > 0 && f.Size > p.MaxBytes {
		return ErrFileTooLarge
	}
	return nil
}

// ValidateFile checks the declared media type and that the file is not empty.
func ValidateFile(f File) error {
	mt, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil || !strings.EqualFold(mt, mediaTypePDF) {
		return ErrNotPDF
	}
	if f.Size == 0 {
		return ErrEmptyFile
	}
	return nil
}

type run struct {
	p        *Pipeline
	file     File
	progress ProgressFunc
	last     int
	stage    Stage
	entered  time.Time
	runID    string
}

// Run executes every stage in order. Cancellation of ctx does not interrupt a started run.
// On failure no Document is created and progress is reset.
func (p *Pipeline) Run(ctx context.Context, f File, progress ProgressFunc) (documents.Document, error) {
	if err := p.ValidateFile(f); err != nil {
		return documents.Document{}, err
	}
	ctx = context.WithoutCancel(ctx)

	r := &run{p: p, file: f, progress: progress, runID: uuid.NewString()}
	metrics.PipelineStarted()
	defer metrics.PipelineFinished()
	started := time.Now()

	doc, err := r.execute(ctx)
	if err != nil {
		r.fail(err)
		metrics.IncPipelineRun("failed")
		return documents.Document{}, err
	}

	r.enter(StageDone)
	metrics.IncPipelineRun("succeeded")
	telemetry.Info("pipeline.complete", map[string]any{
		"run_id":      r.runID,
		"document_id": doc.ID,
		"file_name":   f.Name,
		"size_bytes":  f.Size,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return doc, nil
}

func (r *run) execute(ctx context.Context) (documents.Document, error) {
	r.enter(StageUploading)
	uploaded, err := r.p.Ports.UploadFile(ctx, r.file.Name, r.file.Body)
	if err != nil {
		return documents.Document{}, r.wrap(err)
	}
	size := r.file.Size
	if uploaded.SizeBytes > 0 {
		size = uploaded.SizeBytes
	}

	r.enter(StageExtracting)
	res, err := r.p.Ports.ExtractDataFromUploadedFile(ctx, uploaded.StorageKey, extract.TextSchema)
	if err != nil {
		return documents.Document{}, r.wrap(fmt.Errorf("extract text: %w", err))
	}
	if res.Status == extract.StatusError || strings.TrimSpace(res.Text()) == "" {
		return documents.Document{}, r.wrap(ErrExtractionFailed)
	}
	text := res.Text()
	excerpt := Truncate(text, SummaryChars)

	summaries := make(map[llm.SummaryKind]string, len(llm.SummaryKinds))
	for _, kind := range llm.SummaryKinds {
		r.enter(summaryStage(kind))
		prompt, err := llm.SummaryPrompt(kind, excerpt)
		if err != nil {
			return documents.Document{}, r.wrap(err)
		}
		out, err := r.p.Ports.InvokeLLM(ctx, prompt)
		if err != nil {
			return documents.Document{}, r.wrap(err)
		}
		summaries[kind] = out
	}

	r.enter(StagePersisting)
	doc := documents.Document{
		ID:              uuid.NewString(),
		Title:           TitleFromFileName(r.file.Name),
		FileURL:         uploaded.FileURL,
		StorageKey:      uploaded.StorageKey,
		ExtractedText:   text,
		BriefSummary:    summaries[llm.SummaryBrief],
		DetailedSummary: summaries[llm.SummaryDetailed],
		BulletSummary:   summaries[llm.SummaryBullets],
		FileSize:        FormatFileSize(size),
		SizeBytes:       size,
		Status:          documents.StatusReady,
		CreatedDate:     r.p.now(),
	}
	if err := r.p.Documents.Create(ctx, doc); err != nil {
		return documents.Document{}, r.wrap(err)
	}
	return doc, nil
}

func summaryStage(kind llm.SummaryKind) Stage {
	switch kind {
	case llm.SummaryBrief:
		return StageSummarizingBrief
	case llm.SummaryDetailed:
		return StageSummarizingDetailed
	default:
		return StageSummarizingBullets
	}
}

func (r *run) enter(s Stage) {
	now := time.Now()
	if r.stage != "" {
		metrics.ObserveStage(string(r.stage), now.Sub(r.entered))
	}
	r.stage = s
	r.entered = now

	p := ProgressFor(s)
	if p.Percent < r.last && s != StageFailed {
		p.Percent = r.last
	}
	r.last = p.Percent

	telemetry.Info("pipeline.stage", map[string]any{
		"run_id":   r.runID,
		"stage":    string(s),
		"progress": p.Percent,
	})
	if r.progress != nil {
		r.progress(p)
	}
}

func (r *run) wrap(err error) error {
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: r.stage, Err: err}
}

func (r *run) fail(err error) {
	stage, _ := FailedStage(err)
	telemetry.Error("pipeline.failed", map[string]any{
		"run_id":    r.runID,
		"stage":     string(stage),
		"file_name": r.file.Name,
		"error":     err,
	})
	r.last = 0
	r.enter(StageFailed)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
