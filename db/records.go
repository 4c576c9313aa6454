package db

import (
	"context"

	"amomaster/models"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

// RecordStore reads a user's partner records for the matching package.
type RecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Preferences returns every preference of the user, newest first.
func (s *RecordStore) Preferences(ctx context.Context, userID int64) ([]models.Preference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var prefs []models.Preference
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&prefs).Error; err != nil {
		return nil, errors.Wrapf(err, "load preferences of user %d", userID)
	}
	return prefs, nil
}

// Quotes returns every quote of the user, newest first.
func (s *RecordStore) Quotes(ctx context.Context, userID int64) ([]models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var quotes []models.Quote
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&quotes).Error; err != nil {
		return nil, errors.Wrapf(err, "load quotes of user %d", userID)
	}
	return quotes, nil
}

// PartnerDisplayName returns the configured partner name, or the default
// one when the user has no settings row yet.
func (s *RecordStore) PartnerDisplayName(ctx context.Context, userID int64) (string, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return "", err
	}
	return settings.DisplayName(), nil
}

// Settings returns the user's settings. A missing row yields defaults.
func (s *RecordStore) Settings(ctx context.Context, userID int64) (models.Settings, error) {
	if err := ctx.Err(); err != nil {
		return models.Settings{}, err
	}
	var settings models.Settings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.Settings{UserID: userID, PartnerName: models.DefaultPartnerName}, nil
	}
	if err != nil {
		return models.Settings{}, errors.Wrapf(err, "load settings of user %d", userID)
	}
	return settings, nil
}
