package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/services"
)

type WordHandler struct {
	svc services.WordService
}

func NewWordHandler(svc services.WordService) *WordHandler {
	return &WordHandler{svc: svc}
}

func (h *WordHandler) Today(c *gin.Context) {
	word, err := h.svc.Today(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}
