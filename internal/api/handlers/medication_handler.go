package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hearthside/companion/internal/models"
	"github.com/hearthside/companion/internal/services"
	"github.com/hearthside/companion/internal/utils"
)

// dueWindow is the lookaround used by the due endpoint; it mirrors the nudge
// scheduler's grace window.
const dueWindow = 2 * time.Minute

type MedicationHandler struct {
	svc services.MedicationService
}

func NewMedicationHandler(svc services.MedicationService) *MedicationHandler {
	return &MedicationHandler{svc: svc}
}

func (h *MedicationHandler) List(c *gin.Context) {
	meds, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if meds == nil {
		meds = []models.Medication{}
	}
	c.JSON(http.StatusOK, gin.H{"medications": meds})
}

type medicationRequest struct {
	Name string `json:"medication_name" binding:"required"`
	Time string `json:"time" binding:"required"`
	Days string `json:"days"`
}

func (h *MedicationHandler) Create(c *gin.Context) {
	var req medicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MedicationHandler.Create", "invalid request body", err))
		return
	}

	med := models.Medication{Name: req.Name, Time: req.Time, Days: req.Days}
	if err := h.svc.Add(c.Request.Context(), &med); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, med)
}

func (h *MedicationHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req medicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MedicationHandler.Update", "invalid request body", err))
		return
	}

	med := models.Medication{ID: id, Name: req.Name, Time: req.Time, Days: req.Days}
	if err := h.svc.Update(c.Request.Context(), &med); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, med)
}

func (h *MedicationHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Due lists medications inside the reminder window right now.
func (h *MedicationHandler) Due(c *gin.Context) {
	meds, err := h.svc.Due(c.Request.Context(), time.Now(), dueWindow)
	if err != nil {
		writeError(c, err)
		return
	}
	if meds == nil {
		meds = []models.Medication{}
	}
	c.JSON(http.StatusOK, gin.H{"due": meds})
}

// MarkTaken records that the user took a dose.
func (h *MedicationHandler) MarkTaken(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.MarkTaken(c.Request.Context(), id, time.Now()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.E(utils.CodeInvalidArgument, "MedicationHandler", "invalid medication id", err)
	}
	return id, nil
}
