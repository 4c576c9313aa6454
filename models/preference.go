package models

import "time"

// PreferenceCategory classifies a Preference. "quote" is not a category:
// quotes live in their own table.
type PreferenceCategory string

const (
	CategoryLike  PreferenceCategory = "like"
	CategoryGift  PreferenceCategory = "gift"
	CategoryPlace PreferenceCategory = "place"
	CategoryFood  PreferenceCategory = "food"
	CategoryNG    PreferenceCategory = "ng"
)

var categoryLabels = map[PreferenceCategory]string{
	CategoryLike:  "好きなもの",
	CategoryGift:  "プレゼント",
	CategoryPlace: "行きたい場所",
	CategoryFood:  "食べたいもの",
	CategoryNG:    "NG/地雷",
}

// QuoteLabel is the label used for quotes in compressed listings.
const QuoteLabel = "言葉"

func (c PreferenceCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display label, or the raw value for unknown categories.
func (c PreferenceCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Preference is one atomic fact about the partner.
type Preference struct {
	ID        string             `gorm:"primary_key" json:"id"`
	UserID    int64              `gorm:"not null;index" json:"user_id"`
	Category  PreferenceCategory `gorm:"not null;index" json:"category" form:"category"`
	Content   string             `gorm:"type:text;not null" json:"content" form:"content"`
	Tags      Tags               `gorm:"type:text" json:"tags" form:"tags"`
	Notes     string             `gorm:"type:text" json:"notes,omitempty" form:"notes"`
	CreatedAt time.Time          `json:"created_at"`
}

func (p Preference) MissingFields() string {
	if p.Category == "" {
		return "category"
	} else if p.Content == "" {
		return "content"
	}
	return ""
}

// Quote is a remembered statement of the partner.
type Quote struct {
	ID        string    `gorm:"primary_key" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content" form:"content"`
	Context   string    `gorm:"type:text" json:"context,omitempty" form:"context"`
	Tags      Tags      `gorm:"type:text" json:"tags" form:"tags"`
	CreatedAt time.Time `json:"created_at"`
}
