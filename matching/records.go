// Package matching scores free text against a user's stored partner
// records. It holds the two keyword extractors, the similarity scorer, the
// mine-risk evaluator for NG records and the RAG context builder.
package matching

import (
	"context"
	"time"

	"amomaster/models"
)

// RecordSource fetches the records owned by one user. Implementations own
// their timeouts; callers here never retry.
type RecordSource interface {
	Preferences(ctx context.Context, userID int64) ([]models.Preference, error)
	Quotes(ctx context.Context, userID int64) ([]models.Quote, error)
	PartnerDisplayName(ctx context.Context, userID int64) (string, error)
}

// RecordKind discriminates Record.
type RecordKind string

const (
	KindPreference RecordKind = "preference"
	KindQuote      RecordKind = "quote"
)

// Record is either a preference or a quote, selected by Kind. Category is
// set only for preferences and Context only for quotes.
type Record struct {
	Kind      RecordKind
	ID        string
	Category  models.PreferenceCategory
	Content   string
	Context   string
	Tags      []string
	CreatedAt time.Time
}

func FromPreference(p models.Preference) Record {
	return Record{
		Kind:      KindPreference,
		ID:        p.ID,
		Category:  p.Category,
		Content:   p.Content,
		Tags:      []string(p.Tags),
		CreatedAt: p.CreatedAt,
	}
}

func FromQuote(q models.Quote) Record {
	return Record{
		Kind:      KindQuote,
		ID:        q.ID,
		Content:   q.Content,
		Context:   q.Context,
		Tags:      []string(q.Tags),
		CreatedAt: q.CreatedAt,
	}
}
