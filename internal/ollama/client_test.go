package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithyanbm/medlens-ai1/internal/config"
)

func fakeUpstream(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.NotEmpty(t, req.Messages)

		json.NewEncoder(w).Encode(chatResponse{
			Message: &Message{Role: "assistant", Content: content},
		})
	}))
}

func testClient(url string, demo bool) *Client {
	return NewClient(config.OllamaConfig{
		BaseURL:     url,
		APIKey:      "test-key",
		Model:       "test-model",
		VisionModel: "test-vision",
	}, demo)
}

func TestChatLive(t *testing.T) {
	server := fakeUpstream(t, "Paracetamol is an analgesic.")
	defer server.Close()

	reply, err := testClient(server.URL, false).Chat(context.Background(), nil, "What is paracetamol?")
	require.NoError(t, err)
	assert.Equal(t, "Paracetamol is an analgesic.", reply)
}

func TestChatDemo(t *testing.T) {
	reply, err := testClient("http://unused", true).Chat(context.Background(), nil, "Tell me about Aspirin")
	require.NoError(t, err)
	assert.Contains(t, reply, "Aspirin")
}

func TestAnalyzePrescriptionParsesEmbeddedJSON(t *testing.T) {
	content := `Here is the result:
{ "isValidPrescription": true, "medicines": ["Amoxicillin"], "dosages": ["500mg"], "confidence": 88, "safetyScore": 92, "warnings": [], "doctorName": "Dr. Rao" }
Let me know if you need more.`

	server := fakeUpstream(t, content)
	defer server.Close()

	result, err := testClient(server.URL, false).AnalyzePrescription(context.Background(), "base64data")
	require.NoError(t, err)

	assert.True(t, result.IsValidPrescription)
	assert.Equal(t, []string{"Amoxicillin"}, result.Medicines)
	assert.Equal(t, 88.0, result.Confidence)
	assert.Equal(t, "Dr. Rao", result.DoctorName)
}

func TestAnalyzePrescriptionRejectsNonJSONReply(t *testing.T) {
	server := fakeUpstream(t, "I cannot read this image, sorry.")
	defer server.Close()

	_, err := testClient(server.URL, false).AnalyzePrescription(context.Background(), "base64data")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadReply)
}

func TestAnalyzePrescriptionRejectsEmptyObjectReply(t *testing.T) {
	server := fakeUpstream(t, "{}")
	defer server.Close()

	_, err := testClient(server.URL, false).AnalyzePrescription(context.Background(), "base64data")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadReply)
}

func TestCheckInteractionsRejectsReplyWithoutSafetyScore(t *testing.T) {
	// A zero-value score would count as a critical interaction and raise a
	// spurious alert, so a reply missing the field must not decode.
	server := fakeUpstream(t, `{ "interactions": [] }`)
	defer server.Close()

	_, err := testClient(server.URL, false).CheckInteractions(context.Background(), []string{"Aspirin", "Ibuprofen"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadReply)
}

func TestUpstreamFailureIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := testClient(server.URL, false).CheckInteractions(context.Background(), []string{"aspirin"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestCheckInteractionsDemo(t *testing.T) {
	client := testClient("http://unused", true)

	risky, err := client.CheckInteractions(context.Background(), []string{"Aspirin", "Warfarin"})
	require.NoError(t, err)
	require.Len(t, risky.Interactions, 1)
	assert.Equal(t, "severe", risky.Interactions[0].Severity)
	assert.Equal(t, 45.0, risky.SafetyScore)

	safe, err := client.CheckInteractions(context.Background(), []string{"Paracetamol"})
	require.NoError(t, err)
	assert.Empty(t, safe.Interactions)
	assert.Equal(t, 95.0, safe.SafetyScore)
}

func TestVerifyMedicineParsesResult(t *testing.T) {
	content := `{ "isLikelyAuthentic": false, "confidence": 70, "riskLevel": "high", "issues": ["blurred hologram"], "analysis": "Packaging differs from reference." }`

	server := fakeUpstream(t, content)
	defer server.Close()

	result, err := testClient(server.URL, false).VerifyMedicine(context.Background(), "base64data")
	require.NoError(t, err)

	assert.False(t, result.IsLikelyAuthentic)
	assert.Equal(t, "high", result.RiskLevel)
	assert.Equal(t, []string{"blurred hologram"}, result.Issues)
}
