package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hearthside/companion/internal/api/handlers"
	"github.com/hearthside/companion/internal/api/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Voice         *handlers.VoiceHandler
	Conversations *handlers.ConversationHandler
	Medications   *handlers.MedicationHandler
	Settings      *handlers.SettingsHandler
	Word          *handlers.WordHandler
	Escalations   *handlers.EscalationHandler
}

func Register(r *gin.Engine, h Handlers, jwtSecret string, log *logrus.Logger) {
	r.Use(middleware.RequestLogger(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ws/voice", h.Voice.Serve)

	api := r.Group("/api/v1", middleware.JWTAuth(jwtSecret))
	{
		api.GET("/conversations", h.Conversations.List)

		api.GET("/medications", h.Medications.List)
		api.POST("/medications", h.Medications.Create)
		api.PUT("/medications/:id", h.Medications.Update)
		api.DELETE("/medications/:id", h.Medications.Delete)
		api.GET("/medications/due", h.Medications.Due)
		api.POST("/medications/:id/taken", h.Medications.MarkTaken)

		api.GET("/settings", h.Settings.Get)
		api.PUT("/settings", h.Settings.Update)

		api.GET("/word-of-day", h.Word.Today)

		api.GET("/escalations", h.Escalations.List)
	}
}
