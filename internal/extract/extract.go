package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	dpdf "github.com/dslipak/pdf"
	"github.com/ledongthuc/pdf"

	"documind-backend/internal/shared/storage/object"
	"documind-backend/internal/shared/telemetry"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const defaultPageTimeout = 10 * time.Second

// ErrUnsupportedSchema is returned when a schema asks for nothing this extractor can produce.
var ErrUnsupportedSchema = errors.New("extract: schema has no supported properties")

// Property describes one requested output field.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Schema constrains the output of an extraction, JSON-schema style.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
}

// TextSchema requests the full plain text of the document.
var TextSchema = Schema{
	Type: "object",
	Properties: map[string]Property{
		"text": {Type: "string", Description: "Full text content of the document"},
	},
}

// Result mirrors the {status, output} envelope of the extraction call.
type Result struct {
	Status  string         `json:"status"`
	Output  map[string]any `json:"output,omitempty"`
	Details string         `json:"details,omitempty"`
}

// Text returns the extracted "text" field, if any.
func (r Result) Text() string {
	if r.Output == nil {
		return ""
	}
	s, _ := r.Output["text"].(string)
	return s
}

// Extractor pulls structured data out of uploaded PDFs.
type Extractor struct {
	store       object.ObjectStore
	pageTimeout time.Duration
}

func New(store object.ObjectStore) *Extractor {
	return &Extractor{store: store, pageTimeout: defaultPageTimeout}
}

// ExtractDataFromUploadedFile reads the stored object and fills the schema's fields.
// Storage failures are returned as errors; unreadable content is reported with StatusError.
func (e *Extractor) ExtractDataFromUploadedFile(ctx context.Context, storageKey string, schema Schema) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if !supported(schema) {
		return Result{}, ErrUnsupportedSchema
	}

	body, err := e.store.Open(ctx, storageKey)
	if err != nil {
		return Result{}, fmt.Errorf("extract key=%s: open: %w", storageKey, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return Result{}, fmt.Errorf("extract key=%s: read: %w", storageKey, err)
	}

	res := e.FromBytes(ctx, raw, schema)
	if res.Status == StatusError {
		telemetry.Warn("extract.failed", map[string]any{
			"storage_key": storageKey,
			"details":     res.Details,
			"size_bytes":  len(raw),
		})
	}
	return res, nil
}

// FromBytes extracts from an in-memory PDF payload.
func (e *Extractor) FromBytes(ctx context.Context, data []byte, schema Schema) Result {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-")) {
		return Result{Status: StatusError, Details: "file is not a PDF"}
	}

	text, pages, err := primaryText(data)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			telemetry.Info("extract.fallback", map[string]any{"reason": err})
		}
		text, pages, err = e.pageText(ctx, data)
	}
	if err != nil {
		return Result{Status: StatusError, Details: err.Error()}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Status: StatusError, Details: "no extractable text"}
	}

	out := make(map[string]any, len(schema.Properties))
	for name := range schema.Properties {
		switch name {
		case "text":
			out[name] = text
		case "page_count":
			out[name] = pages
		}
	}
	return Result{Status: StatusSuccess, Output: out}
}

func supported(schema Schema) bool {
	for name := range schema.Properties {
		if name == "text" || name == "page_count" {
			return true
		}
	}
	return false
}

// primaryText reads the whole document in one pass.
func primaryText(data []byte) (text string, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, err
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", 0, err
	}
	return buf.String(), r.NumPage(), nil
}

// pageText walks pages one by one, skipping any that fail or hang.
func (e *Extractor) pageText(ctx context.Context, data []byte) (string, int, error) {
	r, err := openFallback(data)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	n := r.NumPage()
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := e.protectExtract(page)
		if err != nil {
			telemetry.Warn("extract.page_failed", map[string]any{"page": i, "error": err})
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(content)
	}
	return b.String(), n, nil
}

func openFallback(data []byte) (r *dpdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf reader panic: %v", rec)
		}
	}()
	return dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

func (e *Extractor) protectExtract(page dpdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{err: fmt.Errorf("page panic: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timeout := e.pageTimeout
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(timeout):
		return "", errors.New("page extraction timed out")
	}
}
