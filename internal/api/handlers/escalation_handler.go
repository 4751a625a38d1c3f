package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/repositories/postgres"
)

type EscalationHandler struct {
	repo postgres.EscalationRepository
}

func NewEscalationHandler(repo postgres.EscalationRepository) *EscalationHandler {
	return &EscalationHandler{repo: repo}
}

// List returns recent escalations for caregiver review.
func (h *EscalationHandler) List(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	escs, err := h.repo.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	if escs == nil {
		escs = []models.Escalation{}
	}
	c.JSON(http.StatusOK, gin.H{"escalations": escs})
}
