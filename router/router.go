package router

import (
	"net/http"

	"amomaster/controllers"
	dbpkg "amomaster/db"
	"amomaster/middleware"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
)

// Initialize wires all routes and middlewares: public routes, authenticated
// routes, validated routes (Authorizer) and admin routes (Adminizer).
func Initialize(r *gin.Engine, db *gorm.DB, services *controllers.Services) {
	logger := services.Logger.Named("http")
	log := Logger(logger)

	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(services.Config.AllowedOrigins))
	r.Use(dbpkg.SetDBtoContext(db))
	r.Use(controllers.SetServicesToContext(services))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/users", log, controllers.CreateUser)
	api.POST("/login", log, controllers.Login)
	api.POST("/refresh", log, controllers.Refresh)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	// Validated routes (token + active user)
	validated := auth.Group("")
	validated.Use(Authorizer())

	validated.GET("/me", log, controllers.Me)
	validated.GET("/me/profile", log, controllers.GetProfile)
	validated.PUT("/me/profile", log, controllers.UpdateProfile)

	validated.GET("/preferences", log, controllers.GetPreferences)
	validated.POST("/preferences", log, controllers.CreatePreference)
	validated.PUT("/preferences/:id", log, controllers.UpdatePreference)
	validated.DELETE("/preferences/:id", log, controllers.DeletePreference)

	validated.GET("/quotes", log, controllers.GetQuotes)
	validated.POST("/quotes", log, controllers.CreateQuote)
	validated.PUT("/quotes/:id", log, controllers.UpdateQuote)
	validated.DELETE("/quotes/:id", log, controllers.DeleteQuote)

	validated.GET("/events", log, controllers.GetEvents)
	validated.POST("/events", log, controllers.CreateEvent)
	validated.GET("/events/upcoming", log, controllers.GetUpcomingEvents)
	validated.DELETE("/events/:id", log, controllers.DeleteEvent)

	validated.GET("/settings", log, controllers.GetSettings)
	validated.PUT("/settings", log, controllers.UpdateSettings)

	validated.GET("/data", log, controllers.GetAllData)

	validated.GET("/diary", log, controllers.GetDiaryEntries)
	validated.POST("/diary", log, controllers.CreateDiaryEntry)
	validated.PUT("/diary/:id", log, controllers.UpdateDiaryEntry)
	validated.DELETE("/diary/:id", log, controllers.DeleteDiaryEntry)

	validated.POST("/feedback", log, controllers.CreateFeedback)
	validated.POST("/account/delete", log, controllers.DeleteAccount)

	// AI routes share a per-user token bucket
	limiter := middleware.NewRateLimiter(services.Config.AI.RatePerSecond, services.Config.AI.RateBurst)
	limited := validated.Group("")
	limited.Use(middleware.RateLimit(limiter, middleware.UserKey(loggedUserID)))

	limited.POST("/mine-check", log, controllers.MineCheck)
	limited.POST("/ai/chat", log, controllers.Chat)
	limited.GET("/ai/usage", log, controllers.GetAIUsage)
	limited.POST("/ai/usage", log, controllers.IncrementAIUsage)
	limited.GET("/ai/context", log, controllers.GetAIContext)

	// Admin routes
	admin := validated.Group("/admin")
	admin.Use(Adminizer())
	admin.GET("/feedback", log, controllers.GetFeedback)

	logger.Info("routes initialized", zap.Int("count", len(r.Routes())))
}

func loggedUserID(c *gin.Context) (int64, bool) {
	user, ok := controllers.GetUserLogged(c)
	return user.ID, ok
}
