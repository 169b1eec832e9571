package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Adithyanbm/medlens-ai1/db"
	"github.com/Adithyanbm/medlens-ai1/internal/auth"
	"github.com/Adithyanbm/medlens-ai1/internal/config"
	"github.com/Adithyanbm/medlens-ai1/internal/handlers"
	"github.com/Adithyanbm/medlens-ai1/internal/models"
	"github.com/Adithyanbm/medlens-ai1/internal/ollama"
	"github.com/Adithyanbm/medlens-ai1/internal/router"
)

const testSecret = "test-secret"

// testOrigin is the browser origin the test websocket clients present.
const testOrigin = "http://localhost:3000"

type testEnv struct {
	Router *gin.Engine
	DB     *gorm.DB
	Auth   *auth.Manager
	Hub    *handlers.Hub
}

// newTestEnv wires the full router against an in-memory database and a
// demo-mode gateway. Pass a non-nil client to point analysis at a fake
// upstream instead.
func newTestEnv(t *testing.T, client *ollama.Client) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(database))

	if client == nil {
		client = ollama.NewClient(config.OllamaConfig{BaseURL: "http://unused"}, true)
	}

	manager := auth.NewManager(testSecret)
	hub := handlers.NewHub()

	r := router.New(router.Deps{
		DB:      database,
		Auth:    manager,
		Ollama:  client,
		Hub:     hub,
		Origins: []string{testOrigin},
	})

	return &testEnv{Router: r, DB: database, Auth: manager, Hub: hub}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// register creates a user through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, email, role string) (string, uint) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]interface{})
	require.NotNil(t, user)
	id, _ := user["id"].(float64)

	return token, uint(id)
}

// seedPrescription inserts a prescription directly with an explicit
// creation time so ordering assertions are deterministic.
func (e *testEnv) seedPrescription(t *testing.T, userID uint, createdAt time.Time, medicines ...string) models.Prescription {
	t.Helper()

	prescription := models.Prescription{
		UserID:      userID,
		Medicines:   medicines,
		Status:      models.PrescriptionAnalyzed,
		DoctorName:  "Unknown Doctor",
		SafetyScore: 90,
	}
	prescription.CreatedAt = createdAt

	require.NoError(t, e.DB.Create(&prescription).Error)
	return prescription
}
