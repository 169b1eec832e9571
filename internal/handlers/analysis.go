package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/ollama"
	"github.com/Adithyanbm/medlens-ai1/internal/utils"
)

// InteractionLimit caps how many interaction checks a listing returns.
const InteractionLimit = 10

// lowSafetyThreshold is the score below which an interaction check raises
// a warning notification.
const lowSafetyThreshold = 50

type AnalysisHandler struct {
	DB     *gorm.DB
	Ollama *ollama.Client
	Hub    *Hub
}

func NewAnalysisHandler(database *gorm.DB, client *ollama.Client, hub *Hub) *AnalysisHandler {
	return &AnalysisHandler{DB: database, Ollama: client, Hub: hub}
}

type ImageRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type CheckInteractionsRequest struct {
	Medicines []string `json:"medicines" binding:"required,min=1"`
}

type AssistantRequest struct {
	Message             string           `json:"message" binding:"required"`
	ConversationHistory []ollama.Message `json:"conversationHistory"`
}

func (h *AnalysisHandler) AnalyzePrescription(ctx *gin.Context) {
	var req ImageRequest

	if err := ctx.BindJSON(&req); err != nil || req.ImageBase64 == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image data", "isValidPrescription": false})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.Ollama.AnalyzePrescription(ctx.Request.Context(), req.ImageBase64)

	if err != nil {
		h.upstreamError(ctx, err, gin.H{"error": "Analysis failed", "isValidPrescription": false})
		return
	}

	if !result.IsValidPrescription {
		ctx.JSON(http.StatusBadRequest, result)
		return
	}

	prescription := models.Prescription{
		UserID:      userID,
		Medicines:   datatypes.JSONSlice[string](result.Medicines),
		Dosages:     datatypes.JSONSlice[string](result.Dosages),
		Warnings:    datatypes.JSONSlice[string](result.Warnings),
		Confidence:  result.Confidence,
		SafetyScore: result.SafetyScore,
		ImageURL:    req.ImageBase64,
		Status:      models.PrescriptionAnalyzed,
	}

	if result.DoctorName != "" {
		prescription.DoctorName = result.DoctorName
	} else {
		prescription.DoctorName = "Unknown Doctor"
	}

	if err := h.DB.Create(&prescription).Error; err != nil {
		log.Printf("Failed to save prescription: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save prescription"})
		return
	}

	if err := pushNotification(h.DB, h.Hub, userID, models.NotificationInfo,
		"Prescription Analyzed", "Your prescription was analyzed successfully."); err != nil {
		log.Printf("Failed to create notification: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":                  prescription.ID,
		"isValidPrescription": true,
		"medicines":           result.Medicines,
		"dosages":             result.Dosages,
		"confidence":          result.Confidence,
		"safetyScore":         result.SafetyScore,
		"warnings":            result.Warnings,
		"doctorName":          prescription.DoctorName,
	})
}

func (h *AnalysisHandler) CheckInteractions(ctx *gin.Context) {
	var req CheckInteractionsRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Medicines list is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	result, err := h.Ollama.CheckInteractions(ctx.Request.Context(), req.Medicines)

	if err != nil {
		h.upstreamError(ctx, err, gin.H{"error": "Interaction check failed"})
		return
	}

	analysisJSON, err := json.Marshal(result)

	if err != nil {
		log.Printf("Failed to marshal analysis: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	interaction := models.Interaction{
		UserID:      userID,
		Medicines:   datatypes.JSONSlice[string](req.Medicines),
		Analysis:    datatypes.JSON(analysisJSON),
		SafetyScore: result.SafetyScore,
	}

	if err := h.DB.Create(&interaction).Error; err != nil {
		log.Printf("Failed to save interaction: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save interaction"})
		return
	}

	if result.SafetyScore < lowSafetyThreshold {
		h.alertLowSafety(userID, result.SafetyScore)
	}

	ctx.JSON(http.StatusOK, result)
}

// alertLowSafety raises a warning notification unless the user opted out
// of interaction alerts.
func (h *AnalysisHandler) alertLowSafety(userID uint, score float64) {
	var user models.User

	if err := h.DB.First(&user, userID).Error; err != nil {
		log.Printf("Failed to fetch user for interaction alert: %v", err)
		return
	}

	if !user.Preferences.Data().InteractionAlerts {
		return
	}

	description := fmt.Sprintf("An interaction check scored %.0f/100. Review the results and consult your doctor.", score)

	if err := pushNotification(h.DB, h.Hub, userID, models.NotificationWarning, "Interaction Alert", description); err != nil {
		log.Printf("Failed to create interaction alert: %v", err)
	}
}

func (h *AnalysisHandler) VerifyMedicine(ctx *gin.Context) {
	var req ImageRequest

	if err := ctx.BindJSON(&req); err != nil || req.ImageBase64 == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No image"})
		return
	}

	result, err := h.Ollama.VerifyMedicine(ctx.Request.Context(), req.ImageBase64)

	if err != nil {
		h.upstreamError(ctx, err, gin.H{"error": "Verification failed"})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (h *AnalysisHandler) HealthAssistant(ctx *gin.Context) {
	var req AssistantRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.Ollama.Chat(ctx.Request.Context(), req.ConversationHistory, req.Message)

	if err != nil {
		h.upstreamError(ctx, err, gin.H{"error": "Assistant unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": reply, "role": "assistant"})
}

// upstreamError maps gateway failures: a reply that broke the JSON contract
// is the caller's 400 (mirrors the legacy parse-failure behavior), anything
// else is a 500 and goes to Sentry.
func (h *AnalysisHandler) upstreamError(ctx *gin.Context, err error, badReplyBody gin.H) {
	if errors.Is(err, ollama.ErrBadReply) {
		log.Printf("Model reply violated contract: %v", err)
		ctx.JSON(http.StatusBadRequest, badReplyBody)
		return
	}

	log.Printf("Upstream model error: %v", err)
	sentry.CaptureException(err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Analysis service unavailable"})
}
