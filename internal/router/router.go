package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/internal/auth"
	"github.com/Adithyanbm/medlens-ai1/internal/handlers"
	"github.com/Adithyanbm/medlens-ai1/internal/middleware"
	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/ollama"
)

type Deps struct {
	DB      *gorm.DB
	Auth    *auth.Manager
	Ollama  *ollama.Client
	Hub     *handlers.Hub
	Origins []string
}

// route binds a method and path to its handler and the roles allowed to
// call it. nil roles means any authenticated user; public routes are
// registered separately.
type route struct {
	method  string
	path    string
	roles   []string
	handler gin.HandlerFunc
}

func New(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Prescription images travel as base64 blobs; compress everything.
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(deps.DB, deps.Auth)
	analysisHandler := handlers.NewAnalysisHandler(deps.DB, deps.Ollama, deps.Hub)
	prescriptionHandler := handlers.NewPrescriptionHandler(deps.DB)
	portalHandler := handlers.NewPortalHandler(deps.DB)
	notificationHandler := handlers.NewNotificationHandler(deps.DB, deps.Hub, deps.Origins)

	api := r.Group("/api")

	// Public surface.
	api.GET("/health", handlers.HealthCheck)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/health-assistant", analysisHandler.HealthAssistant)

	doctorOrPharmacist := []string{models.RoleDoctor, models.RolePharmacist}

	// Authenticated surface, one declarative row per route.
	table := []route{
		{http.MethodGet, "/auth/me", nil, authHandler.Me},
		{http.MethodPut, "/auth/profile", nil, authHandler.UpdateProfile},

		{http.MethodPost, "/analyze-prescription", nil, analysisHandler.AnalyzePrescription},
		{http.MethodPost, "/check-interactions", nil, analysisHandler.CheckInteractions},
		{http.MethodPost, "/verify-medicine", nil, analysisHandler.VerifyMedicine},

		{http.MethodGet, "/prescriptions", nil, prescriptionHandler.ListOwn},
		{http.MethodGet, "/interactions", nil, prescriptionHandler.ListInteractions},

		{http.MethodGet, "/notifications", nil, notificationHandler.List},
		{http.MethodPut, "/notifications/read-all", nil, notificationHandler.MarkAllRead},
		{http.MethodPut, "/notifications/:id/read", nil, notificationHandler.MarkRead},
		{http.MethodDelete, "/notifications/:id", nil, notificationHandler.Delete},
		{http.MethodGet, "/ws/notifications", nil, notificationHandler.Stream},

		{http.MethodGet, "/doctor/patient/search", doctorOrPharmacist, portalHandler.SearchPatient},
		{http.MethodGet, "/doctor/patient/:id/prescriptions", doctorOrPharmacist, portalHandler.PatientPrescriptions},

		{http.MethodGet, "/pharmacist/prescriptions", []string{models.RolePharmacist}, prescriptionHandler.Queue},
		{http.MethodPut, "/prescription/:id/note", []string{models.RoleDoctor}, prescriptionHandler.AddNote},
		{http.MethodPut, "/prescription/:id/dispense", []string{models.RolePharmacist}, prescriptionHandler.Dispense},
	}

	authRequired := middleware.Auth(deps.Auth, deps.DB)

	for _, rt := range table {
		chain := []gin.HandlerFunc{authRequired}
		if rt.roles != nil {
			chain = append(chain, middleware.RequireRoles(rt.roles...))
		}
		chain = append(chain, rt.handler)
		api.Handle(rt.method, rt.path, chain...)
	}

	return r
}
