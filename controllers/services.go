package controllers

import (
	"time"

	"amomaster/advisor"
	"amomaster/config"
	"amomaster/matching"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const servicesKey = "services"

// Services bundles what handlers need besides the database. It is built once
// in main and placed on every request context.
type Services struct {
	Config      config.Configuration
	Logger      *zap.Logger
	MineChecker *matching.MineChecker
	Contexts    *matching.ContextBuilder
	Advisor     *advisor.Service
	Usage       advisor.UsagePolicy
	Location    *time.Location
	Now         func() time.Time
}

// Clock returns the current time in the service location.
func (s *Services) Clock() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if s.Location != nil {
		return now().In(s.Location)
	}
	return now()
}

func SetServicesToContext(s *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(servicesKey, s)
		c.Next()
	}
}

func ServicesInstance(c *gin.Context) *Services {
	v, ok := c.Get(servicesKey)
	if !ok {
		return nil
	}
	s, _ := v.(*Services)
	return s
}
