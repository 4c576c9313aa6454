package controllers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"amomaster/advisor"
	"amomaster/models"
	"amomaster/tools"

	"github.com/gin-gonic/gin"
)

const (
	defaultUpcomingDays = 30
	maxUpcomingDays     = 366
)

type EventInput struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Notes       string `json:"notes"`
}

// UpcomingEvent is an event with its distance from today and the reminder
// for it, if any.
type UpcomingEvent struct {
	models.Event
	DaysUntil int    `json:"days_until"`
	Warning   string `json:"warning,omitempty"`
}

// GET /api/events
func GetEvents(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	events := []models.Event{}
	if err := ownedBy(db, user.ID).Order("date asc").Find(&events).Error; err != nil {
		RespondInternal(c, "load events failed", err)
		return
	}
	RespondSuccess(c, gin.H{"events": events})
}

// POST /api/events
func CreateEvent(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}

	var in EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	event := models.Event{
		Type:        strings.TrimSpace(in.Type),
		Title:       strings.TrimSpace(in.Title),
		Date:        strings.TrimSpace(in.Date),
		IsRecurring: in.IsRecurring,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if missing := event.MissingFields(); missing != "" {
		RespondError(c, missing+" is required", http.StatusBadRequest)
		return
	}
	if !models.IsValidEventType(event.Type) {
		RespondError(c, "invalid type", http.StatusBadRequest)
		return
	}
	if !tools.ValidateDate(event.Date) {
		RespondError(c, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	event.ID = tools.NewID("event")
	event.UserID = user.ID
	event.CreatedAt = time.Now()
	if err := db.Create(&event).Error; err != nil {
		RespondInternal(c, "create event failed", err)
		return
	}
	RespondCreated(c, gin.H{"event": event})
}

// DELETE /api/events/:id
func DeleteEvent(c *gin.Context) {
	deleteOwned(c, &models.Event{}, "event")
}

// GET /api/events/upcoming?days=30
func GetUpcomingEvents(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	db, ok := requireDB(c)
	if !ok {
		return
	}
	s, ok := requireServices(c)
	if !ok {
		return
	}

	var events []models.Event
	if err := ownedBy(db, user.ID).Find(&events).Error; err != nil {
		RespondInternal(c, "load events failed", err)
		return
	}

	window := QueryInt(c, "days", defaultUpcomingDays, maxUpcomingDays)
	RespondSuccess(c, gin.H{"events": upcomingEvents(events, s.Clock(), window)})
}

// upcomingEvents keeps events from today up to window days ahead, soonest first.
func upcomingEvents(events []models.Event, now time.Time, window int) []UpcomingEvent {
	out := []UpcomingEvent{}
	for _, e := range events {
		days, err := e.DaysUntil(now)
		if err != nil || days < 0 || days > window {
			continue
		}
		out = append(out, UpcomingEvent{
			Event:     e,
			DaysUntil: days,
			Warning:   advisor.EventWarning(e.Title, days),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntil < out[j].DaysUntil
	})
	return out
}
