package matching

import (
	"context"
	"errors"
	"sync/atomic"

	"amomaster/models"
)

type fakeSource struct {
	prefs       []models.Preference
	quotes      []models.Quote
	partner     string
	prefsErr    error
	quotesErr   error
	partnerErr  error
	prefsCalls  atomic.Int32
	quotesCalls atomic.Int32
}

func (f *fakeSource) Preferences(_ context.Context, _ int64) ([]models.Preference, error) {
	f.prefsCalls.Add(1)
	if f.prefsErr != nil {
		return nil, f.prefsErr
	}
	return append([]models.Preference(nil), f.prefs...), nil
}

func (f *fakeSource) Quotes(_ context.Context, _ int64) ([]models.Quote, error) {
	f.quotesCalls.Add(1)
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	return append([]models.Quote(nil), f.quotes...), nil
}

func (f *fakeSource) PartnerDisplayName(_ context.Context, _ int64) (string, error) {
	if f.partnerErr != nil {
		return "", f.partnerErr
	}
	return f.partner, nil
}

var errUnavailable = errors.New("store unavailable")

func ng(content string) models.Preference {
	return models.Preference{ID: "pref_" + content, Category: models.CategoryNG, Content: content}
}
