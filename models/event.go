package models

import (
	"math"
	"time"
)

/************************************************
/**** MARK: EVENT TYPES ****/
/************************************************/
const EVENT_TYPE_BIRTHDAY = "birthday"
const EVENT_TYPE_ANNIVERSARY = "anniversary"
const EVENT_TYPE_DATE = "date"
const EVENT_TYPE_OTHER = "other"

// EventDateLayout is the layout of Event.Date.
const EventDateLayout = "2006-01-02"

// Event is a dated occasion with the partner (birthday, anniversary, a planned date).
type Event struct {
	ID          string    `gorm:"primary_key" json:"id"`
	UserID      int64     `gorm:"not null;index" json:"user_id"`
	Type        string    `gorm:"not null" json:"type" form:"type"`
	Title       string    `gorm:"not null" json:"title" form:"title"`
	Date        string    `gorm:"not null" json:"date" form:"date"`
	IsRecurring bool      `gorm:"not null;default:false" json:"is_recurring" form:"is_recurring"`
	Notes       string    `gorm:"type:text" json:"notes,omitempty" form:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

func IsValidEventType(t string) bool {
	switch t {
	case EVENT_TYPE_BIRTHDAY, EVENT_TYPE_ANNIVERSARY, EVENT_TYPE_DATE, EVENT_TYPE_OTHER:
		return true
	}
	return false
}

func (e Event) MissingFields() string {
	if e.Type == "" {
		return "type"
	} else if e.Title == "" {
		return "title"
	} else if e.Date == "" {
		return "date"
	}
	return ""
}

// DaysUntil counts calendar days from now to the event, in now's location.
// Recurring events roll over to their next yearly occurrence; past
// one-off events give a negative count.
func (e Event) DaysUntil(now time.Time) (int, error) {
	d, err := time.ParseInLocation(EventDateLayout, e.Date, now.Location())
	if err != nil {
		return 0, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	target := d
	if e.IsRecurring {
		target = time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if target.Before(today) {
			target = target.AddDate(1, 0, 0)
		}
	}

	return int(math.Round(target.Sub(today).Hours() / 24)), nil
}
