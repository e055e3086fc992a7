package documents

import (
	"context"
	"strings"
)

// Service contains the read paths for documents.
type Service struct {
	Repo Repo
}

// Get returns a single document.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if strings.TrimSpace(id) == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// Dashboard lists documents newest-first, filtered by query, with stats over the unfiltered set.
func (s *Service) Dashboard(ctx context.Context, query string) (Dashboard, error) {
	all, err := s.Repo.List(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Query:     query,
		Documents: Filter(all, query),
		Stats:     CountByStatus(all),
		HasAny:    len(all) > 0,
	}, nil
}

// Filter keeps documents whose title contains q, ignoring case. An empty q keeps everything.
func Filter(docs []Document, q string) []Document {
	out := make([]Document, 0, len(docs))
	needle := strings.ToLower(q)
	for _, d := range docs {
		if needle == "" || strings.Contains(strings.ToLower(d.Title), needle) {
			out = append(out, d)
		}
	}
	return out
}

// CountByStatus tallies documents per status.
func CountByStatus(docs []Document) Stats {
	stats := Stats{Total: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case StatusReady:
			stats.Ready++
		case StatusProcessing:
			stats.Processing++
		case StatusError:
			stats.Error++
		}
	}
	return stats
}
