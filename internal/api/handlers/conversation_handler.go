package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/services"
)

const defaultConversationLimit = 20

type ConversationHandler struct {
	svc services.ConversationService
}

func NewConversationHandler(svc services.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// List returns recent turns, optionally scoped to one session.
func (h *ConversationHandler) List(c *gin.Context) {
	limit := defaultConversationLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var (
		turns []models.ConversationTurn
		err   error
	)
	if sessionID := c.Query("session_id"); sessionID != "" {
		turns, err = h.svc.Recent(c.Request.Context(), sessionID, limit)
	} else {
		turns, err = h.svc.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	if turns == nil {
		turns = []models.ConversationTurn{}
	}

	c.JSON(http.StatusOK, gin.H{"conversations": turns})
}
