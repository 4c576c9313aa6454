package controllers

import (
	"amomaster/db"
	"amomaster/models"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"golang.org/x/sync/errgroup"
)

// UserData is everything stored for one user.
type UserData struct {
	Preferences []models.Preference `json:"preferences"`
	Quotes      []models.Quote      `json:"quotes"`
	Events      []models.Event      `json:"events"`
	Diary       []models.DiaryEntry `json:"diary"`
	Settings    models.Settings     `json:"settings"`
}

// GET /api/data
func GetAllData(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	conn, ok := requireDB(c)
	if !ok {
		return
	}

	data, err := loadUserData(c, conn, user.ID)
	if err != nil {
		RespondInternal(c, "load data failed", err)
		return
	}
	RespondSuccess(c, data)
}

func loadUserData(c *gin.Context, conn *gorm.DB, userID int64) (UserData, error) {
	data := UserData{
		Preferences: []models.Preference{},
		Quotes:      []models.Quote{},
		Events:      []models.Event{},
		Diary:       []models.DiaryEntry{},
	}

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		return ownedBy(conn, userID).Order("created_at desc").Find(&data.Preferences).Error
	})
	g.Go(func() error {
		return ownedBy(conn, userID).Order("created_at desc").Find(&data.Quotes).Error
	})
	g.Go(func() error {
		return ownedBy(conn, userID).Order("date asc").Find(&data.Events).Error
	})
	g.Go(func() error {
		return ownedBy(conn, userID).Order("created_at desc").Find(&data.Diary).Error
	})
	g.Go(func() error {
		var err error
		data.Settings, err = db.NewRecordStore(conn).Settings(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return UserData{}, err
	}
	return data, nil
}
