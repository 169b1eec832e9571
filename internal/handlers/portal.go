package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/types"
	"github.com/Adithyanbm/medlens-ai1/internal/utils"
)

// PortalHandler serves the doctor and pharmacist cross-patient views.
// Access is gated by role at the route, not per record.
type PortalHandler struct {
	DB            *gorm.DB
	prescriptions *PrescriptionHandler
}

func NewPortalHandler(database *gorm.DB) *PortalHandler {
	return &PortalHandler{DB: database, prescriptions: NewPrescriptionHandler(database)}
}

func (h *PortalHandler) SearchPatient(ctx *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(ctx.Query("email")))

	if email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Email query parameter is required"})
		return
	}

	var user models.User

	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve patient"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": types.NewUserResponse(user)})
}

func (h *PortalHandler) PatientPrescriptions(ctx *gin.Context) {
	patientID, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	h.prescriptions.listForUser(ctx, patientID, 0)
}
