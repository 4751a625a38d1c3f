package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/services"
	"github.com/hearthside/companion/internal/utils"
)

type SettingsHandler struct {
	svc services.SettingsService
}

func NewSettingsHandler(svc services.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Effective(c.Request.Context()))
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var patch models.SettingsUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SettingsHandler.Update", "invalid request body", err))
		return
	}

	updated, err := h.svc.Save(c.Request.Context(), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
