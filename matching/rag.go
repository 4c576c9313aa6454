package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"amomaster/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultContextLimit caps the number of records put into a context.
const DefaultContextLimit = 10

const (
	contentHitPoints = 3
	tagHitPoints     = 2
	day              = 24 * time.Hour
)

const (
	contextPartnerHeader = "パートナー名: %s\n"
	contextIntro         = "ユーザーが記録したパートナーの情報:\n"
	contextNoRecords     = "（まだ記録がありません）"
)

// ContextBuilder selects the records most relevant to a question and
// renders them as a compact prompt context.
type ContextBuilder struct {
	source RecordSource
	logger *zap.Logger
	limit  int
	loc    *time.Location
	now    func() time.Time
}

type ContextOption func(*ContextBuilder)

// WithLimit overrides DefaultContextLimit.
func WithLimit(n int) ContextOption {
	return func(b *ContextBuilder) {
		if n > 0 {
			b.limit = n
		}
	}
}

// WithLocation sets the zone used for the M/D dates in the output.
func WithLocation(loc *time.Location) ContextOption {
	return func(b *ContextBuilder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// WithClock replaces time.Now for the recency bonus.
func WithClock(now func() time.Time) ContextOption {
	return func(b *ContextBuilder) {
		if now != nil {
			b.now = now
		}
	}
}

func NewContextBuilder(source RecordSource, logger *zap.Logger, opts ...ContextOption) *ContextBuilder {
	b := &ContextBuilder{
		source: source,
		logger: logger.Named("rag"),
		limit:  DefaultContextLimit,
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the context for query. It never fails and never returns an
// empty string: without records the context says so.
func (b *ContextBuilder) Build(ctx context.Context, userID int64, query string) string {
	records := b.Search(ctx, userID, query)

	var sb strings.Builder
	fmt.Fprintf(&sb, contextPartnerHeader, b.partnerName(ctx, userID))
	sb.WriteString(contextIntro)

	if len(records) == 0 {
		sb.WriteString(contextNoRecords)
		return sb.String()
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, CompressRecord(r, b.loc))
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

// Search returns up to limit records ranked for query. When the query
// yields no keywords the most recent records are returned unscored.
func (b *ContextBuilder) Search(ctx context.Context, userID int64, query string) []Record {
	pool := b.fetchPool(ctx, userID)
	if len(pool) == 0 {
		return nil
	}

	keywords := ExtractQueryKeywords(query)
	if len(keywords) == 0 {
		sort.SliceStable(pool, func(i, j int) bool {
			return pool[i].CreatedAt.After(pool[j].CreatedAt)
		})
		return head(pool, b.limit)
	}

	now := b.now()
	scores := make([]int, len(pool))
	order := make([]int, len(pool))
	for i, r := range pool {
		scores[i] = scoreRecord(r, keywords, now)
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	out := make([]Record, 0, min(b.limit, len(order)))
	for _, idx := range head(order, b.limit) {
		out = append(out, pool[idx])
	}
	return out
}

// fetchPool loads preferences then quotes concurrently. Any failure is
// logged and yields an empty pool.
func (b *ContextBuilder) fetchPool(ctx context.Context, userID int64) []Record {
	var (
		prefs  []models.Preference
		quotes []models.Quote
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prefs, err = b.source.Preferences(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch preferences: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		quotes, err = b.source.Quotes(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch quotes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		b.logger.Error("fetch records failed, building context without records",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil
	}

	pool := make([]Record, 0, len(prefs)+len(quotes))
	for _, p := range prefs {
		pool = append(pool, FromPreference(p))
	}
	for _, q := range quotes {
		pool = append(pool, FromQuote(q))
	}
	return pool
}

func (b *ContextBuilder) partnerName(ctx context.Context, userID int64) string {
	name, err := b.source.PartnerDisplayName(ctx, userID)
	if err != nil {
		b.logger.Warn("fetch partner name failed, using default",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return models.DefaultPartnerName
	}
	if strings.TrimSpace(name) == "" {
		return models.DefaultPartnerName
	}
	return name
}

func scoreRecord(r Record, keywords []string, now time.Time) int {
	content := strings.ToLower(r.Content)
	tags := strings.ToLower(strings.Join(r.Tags, " "))

	score := 0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if strings.Contains(content, kw) {
			score += contentHitPoints
		}
		if strings.Contains(tags, kw) {
			score += tagHitPoints
		}
	}

	age := now.Sub(r.CreatedAt)
	switch {
	case age < 7*day:
		score += 2
	case age < 30*day:
		score += 1
	}
	return score
}

// CompressRecord renders one record as a single context line, dated M/D in loc.
func CompressRecord(r Record, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t := r.CreatedAt.In(loc)
	date := fmt.Sprintf("%d/%d", int(t.Month()), t.Day())

	if r.Kind == KindQuote {
		situation := ""
		if r.Context != "" {
			situation = " (" + r.Context + ")"
		}
		return fmt.Sprintf("[%s] \"%s\"%s (%s)", models.QuoteLabel, r.Content, situation, date)
	}

	tags := ""
	if len(r.Tags) > 0 {
		tags = " #" + strings.Join(r.Tags, " #")
	}
	return fmt.Sprintf("[%s] %s%s (%s)", r.Category.Label(), r.Content, tags, date)
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
