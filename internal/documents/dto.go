package documents

import (
	"strings"
	"time"
)

const (
	noBriefSummary    = "No brief summary available."
	noDetailedSummary = "No detailed summary available."
	noBulletSummary   = "No bullet points available."
)

// CardResponse is the compact dashboard representation of a document.
type CardResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	StatusLabel  string    `json:"status_label"`
	FileSize     string    `json:"file_size"`
	BriefSummary string    `json:"brief_summary"`
	CreatedDate  time.Time `json:"created_date"`
}

// SummariesResponse groups the three summary variants.
type SummariesResponse struct {
	Brief    string `json:"brief"`
	Detailed string `json:"detailed"`
	Bullets  string `json:"bullets"`
}

// DetailResponse is the full representation used by the document view.
type DetailResponse struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	FileURL         string            `json:"file_url"`
	FileSize        string            `json:"file_size"`
	SizeBytes       int64             `json:"size_bytes"`
	Status          string            `json:"status"`
	StatusLabel     string            `json:"status_label"`
	ExtractedText   string            `json:"extracted_text"`
	BriefSummary    string            `json:"brief_summary"`
	DetailedSummary string            `json:"detailed_summary"`
	BulletSummary   string            `json:"bullet_summary"`
	Summaries       SummariesResponse `json:"summaries"`
	CreatedDate     time.Time         `json:"created_date"`
}

// EmptyState tells the client what to show when the list is empty.
type EmptyState struct {
	HasDocuments bool   `json:"has_documents"`
	SearchQuery  string `json:"search_query"`
	Message      string `json:"message"`
}

// DashboardResponse is the payload of the listing endpoint.
type DashboardResponse struct {
	Documents  []CardResponse `json:"documents"`
	Stats      Stats          `json:"stats"`
	EmptyState *EmptyState    `json:"empty_state,omitempty"`
}

// StatusLabel maps a status to its display label. Unknown statuses read as Ready.
func StatusLabel(status string) string {
	switch status {
	case StatusProcessing:
		return "Processing"
	case StatusError:
		return "Error"
	default:
		return "Ready"
	}
}

// NewEmptyState builds the empty-list message for the given search.
func NewEmptyState(hasDocuments bool, query string) EmptyState {
	msg := "No documents yet"
	if query != "" {
		msg = "No documents found"
	}
	return EmptyState{HasDocuments: hasDocuments, SearchQuery: query, Message: msg}
}

func toCard(doc Document) CardResponse {
	return CardResponse{
		ID:           doc.ID,
		Title:        doc.Title,
		Status:       doc.Status,
		StatusLabel:  StatusLabel(doc.Status),
		FileSize:     doc.FileSize,
		BriefSummary: doc.BriefSummary,
		CreatedDate:  doc.CreatedDate,
	}
}

func toDetail(doc Document) DetailResponse {
	return DetailResponse{
		ID:              doc.ID,
		Title:           doc.Title,
		FileURL:         doc.FileURL,
		FileSize:        doc.FileSize,
		SizeBytes:       doc.SizeBytes,
		Status:          doc.Status,
		StatusLabel:     StatusLabel(doc.Status),
		ExtractedText:   doc.ExtractedText,
		BriefSummary:    doc.BriefSummary,
		DetailedSummary: doc.DetailedSummary,
		BulletSummary:   doc.BulletSummary,
		Summaries: SummariesResponse{
			Brief:    orPlaceholder(doc.BriefSummary, noBriefSummary),
			Detailed: orPlaceholder(doc.DetailedSummary, noDetailedSummary),
			Bullets:  orPlaceholder(doc.BulletSummary, noBulletSummary),
		},
		CreatedDate: doc.CreatedDate,
	}
}

func toDashboard(d Dashboard) DashboardResponse {
	cards := make([]CardResponse, 0, len(d.Documents))
	for _, doc := range d.Documents {
		cards = append(cards, toCard(doc))
	}
	resp := DashboardResponse{Documents: cards, Stats: d.Stats}
	if len(cards) == 0 {
		empty := NewEmptyState(d.HasAny, d.Query)
		resp.EmptyState = &empty
	}
	return resp
}

// ToDetail exposes the detail shape to other handlers, e.g. after an upload.
func ToDetail(doc Document) DetailResponse {
	return toDetail(doc)
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
