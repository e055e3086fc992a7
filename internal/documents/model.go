package documents

import "time"

const (
	StatusReady      = "ready"
	StatusProcessing = "processing"
	StatusError      = "error"
)

// Document is an uploaded PDF together with its extracted text and summaries.
type Document struct {
	ID              string
	Title           string
	FileURL         string
	StorageKey      string
	ExtractedText   string
	BriefSummary    string
	DetailedSummary string
	BulletSummary   string
	FileSize        string
	SizeBytes       int64
	Status          string
	CreatedDate     time.Time
}

// Stats counts documents by status.
type Stats struct {
	Total      int `json:"total"`
	Ready      int `json:"ready"`
	Processing int `json:"processing"`
	Error      int `json:"error"`
}

// Dashboard is the listing view: filtered documents plus stats over all of them.
type Dashboard struct {
	Query     string
	Documents []Document
	Stats     Stats
	// HasAny reports whether any document exists before filtering.
	HasAny bool
}
