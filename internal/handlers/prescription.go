package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/utils"
)

// QueueLimit caps the global pharmacist queue.
const QueueLimit = 20

type PrescriptionHandler struct {
	DB *gorm.DB
}

func NewPrescriptionHandler(database *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: database}
}

type NoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// ListOwn returns the caller's prescriptions, newest first.
func (h *PrescriptionHandler) ListOwn(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	h.listForUser(ctx, userID, 0)
}

// ListInteractions returns the caller's recent interaction checks.
func (h *PrescriptionHandler) ListInteractions(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var interactions []models.Interaction

	if err := h.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(InteractionLimit).
		Find(&interactions).Error; err != nil {
		log.Printf("Failed to list interactions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve interactions"})
		return
	}

	if interactions == nil {
		interactions = []models.Interaction{}
	}

	ctx.JSON(http.StatusOK, interactions)
}

// Queue returns the newest prescriptions across all patients for the
// pharmacist dispensing view.
func (h *PrescriptionHandler) Queue(ctx *gin.Context) {
	var prescriptions []models.Prescription

	if err := h.DB.Order("created_at DESC").Limit(QueueLimit).Find(&prescriptions).Error; err != nil {
		log.Printf("Failed to list prescription queue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prescriptions"})
		return
	}

	if prescriptions == nil {
		prescriptions = []models.Prescription{}
	}

	ctx.JSON(http.StatusOK, prescriptions)
}

// AddNote sets the doctor's note on a prescription. Notes are orthogonal
// to the dispense state, so a dispensed prescription can still be noted.
func (h *PrescriptionHandler) AddNote(ctx *gin.Context) {
	var req NoteRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note is required"})
		return
	}

	prescription, ok := h.findByParam(ctx)

	if !ok {
		return
	}

	if err := h.DB.Model(prescription).Update("doctor_notes", req.Note).Error; err != nil {
		log.Printf("Failed to update prescription note: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prescription"})
		return
	}

	ctx.JSON(http.StatusOK, prescription)
}

// Dispense transitions a prescription to dispensed and stamps who and
// when. The transition is one-way; a second call is a conflict.
func (h *PrescriptionHandler) Dispense(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	prescription, ok := h.findByParam(ctx)

	if !ok {
		return
	}

	if prescription.Dispensed() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Prescription already dispensed"})
		return
	}

	now := time.Now()
	dispenserID := currentUser.ID

	updates := map[string]interface{}{
		"status":       models.PrescriptionDispensed,
		"dispensed_by": dispenserID,
		"dispensed_at": now,
	}

	if err := h.DB.Model(prescription).Updates(updates).Error; err != nil {
		log.Printf("Failed to dispense prescription: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update prescription"})
		return
	}

	ctx.JSON(http.StatusOK, prescription)
}

func (h *PrescriptionHandler) listForUser(ctx *gin.Context, userID uint, limit int) {
	var prescriptions []models.Prescription

	query := h.DB.Where("user_id = ?", userID).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&prescriptions).Error; err != nil {
		log.Printf("Failed to list prescriptions: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prescriptions"})
		return
	}

	if prescriptions == nil {
		prescriptions = []models.Prescription{}
	}

	ctx.JSON(http.StatusOK, prescriptions)
}

// findByParam loads the prescription named by the :id parameter. A
// malformed or unknown id answers 404 so point lookups stay uniform.
func (h *PrescriptionHandler) findByParam(ctx *gin.Context) (*models.Prescription, bool) {
	id, err := utils.GetIDParam(ctx, "id")

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Prescription not found"})
		return nil, false
	}

	var prescription models.Prescription

	if err := h.DB.First(&prescription, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Prescription not found"})
		} else {
			log.Printf("Failed to fetch prescription: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prescription"})
		}
		return nil, false
	}

	return &prescription, true
}
