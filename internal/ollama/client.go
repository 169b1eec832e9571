// Package ollama talks to the hosted model API that performs prescription
// OCR, drug-interaction analysis and counterfeit checks. The model answers
// in free text that is expected to carry one JSON object; anything that
// does not decode into the expected shape is an upstream error, never a
// best-effort partial result.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Adithyanbm/medlens-ai1/internal/config"
)

var (
	// ErrUpstream covers unreachable or non-2xx responses from the model API.
	ErrUpstream = fmt.Errorf("upstream model error")
	// ErrBadReply covers replies that carry no JSON object or one that does
	// not match the expected schema.
	ErrBadReply = fmt.Errorf("unparsable model reply")
)

const systemPrompt = "You are MedLens AI, a careful medical information assistant. " +
	"Answer questions about medicines, interactions and side effects. " +
	"Always advise consulting a healthcare professional for medical decisions."

const analyzePrompt = `Analyze the attached image. If it is a medical prescription, respond with JSON only:
{ "isValidPrescription": true, "medicines": ["..."], "dosages": ["..."], "confidence": 85, "safetyScore": 90, "warnings": ["..."], "doctorName": "..." }
If it is not a prescription, respond with JSON only:
{ "isValidPrescription": false, "error": "Not a prescription" }`

const interactionsPrompt = `Check the listed medicines for pairwise drug interactions. Respond with JSON only:
{ "interactions": [ { "drugA": "...", "drugB": "...", "severity": "mild|moderate|severe", "description": "...", "management": "..." } ], "safetyScore": 85 }`

const verifyPrompt = `Analyze the attached medicine packaging image for signs of counterfeiting. Respond with JSON only:
{ "isLikelyAuthentic": true, "confidence": 90, "riskLevel": "low|medium|high", "issues": ["..."], "analysis": "..." }`

type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message *Message `json:"message"`
}

type PrescriptionAnalysis struct {
	IsValidPrescription bool     `json:"isValidPrescription"`
	Medicines           []string `json:"medicines"`
	Dosages             []string `json:"dosages"`
	Confidence          float64  `json:"confidence"`
	SafetyScore         float64  `json:"safetyScore"`
	Warnings            []string `json:"warnings"`
	DoctorName          string   `json:"doctorName"`
	Error               string   `json:"error,omitempty"`
}

type DrugInteraction struct {
	DrugA       string `json:"drugA"`
	DrugB       string `json:"drugB"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Management  string `json:"management"`
}

type InteractionAnalysis struct {
	Interactions []DrugInteraction `json:"interactions"`
	SafetyScore  float64           `json:"safetyScore"`
}

type VerificationResult struct {
	IsLikelyAuthentic bool     `json:"isLikelyAuthentic"`
	Confidence        float64  `json:"confidence"`
	RiskLevel         string   `json:"riskLevel"`
	Issues            []string `json:"issues"`
	Analysis          string   `json:"analysis"`
}

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	visionModel string
	demo        bool
	httpClient  *http.Client
}

func NewClient(cfg config.OllamaConfig, demo bool) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		demo:        demo,
		httpClient:  &http.Client{Timeout: 90 * time.Second},
	}
}

// Chat answers a free-form health-assistant message. Demo mode returns a
// canned reply without touching the network.
func (c *Client) Chat(ctx context.Context, history []Message, message string) (string, error) {
	if c.demo {
		return demoChat(message), nil
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	reply, err := c.complete(ctx, c.model, messages)

	if err != nil {
		return "", err
	}

	return reply, nil
}

func (c *Client) AnalyzePrescription(ctx context.Context, imageBase64 string) (*PrescriptionAnalysis, error) {
	messages := []Message{
		{Role: "system", Content: analyzePrompt},
		{Role: "user", Content: "Analyze this.", Images: []string{imageBase64}},
	}

	reply, err := c.complete(ctx, c.visionModel, messages)

	if err != nil {
		return nil, err
	}

	var result PrescriptionAnalysis

	if err := decodeReply(reply, &result, "isValidPrescription"); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CheckInteractions(ctx context.Context, medicines []string) (*InteractionAnalysis, error) {
	if c.demo {
		return demoInteractions(medicines), nil
	}

	messages := []Message{
		{Role: "system", Content: interactionsPrompt},
		{Role: "user", Content: "Check: " + strings.Join(medicines, ", ")},
	}

	reply, err := c.complete(ctx, c.model, messages)

	if err != nil {
		return nil, err
	}

	var result InteractionAnalysis

	if err := decodeReply(reply, &result, "safetyScore"); err != nil {
		return nil, err
	}

	if result.Interactions == nil {
		result.Interactions = []DrugInteraction{}
	}

	return &result, nil
}

func (c *Client) VerifyMedicine(ctx context.Context, imageBase64 string) (*VerificationResult, error) {
	messages := []Message{
		{Role: "system", Content: verifyPrompt},
		{Role: "user", Content: "Verify authenticity.", Images: []string{imageBase64}},
	}

	reply, err := c.complete(ctx, c.visionModel, messages)

	if err != nil {
		return nil, err
	}

	var result VerificationResult

	if err := decodeReply(reply, &result, "isLikelyAuthentic", "riskLevel"); err != nil {
		return nil, err
	}

	if result.Issues == nil {
		result.Issues = []string{}
	}

	return &result, nil
}

// complete sends one non-streaming chat completion and returns the reply
// content.
func (c *Client) complete(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})

	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))

	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)

	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var parsed chatResponse

	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if parsed.Message == nil {
		return "", fmt.Errorf("%w: empty reply", ErrUpstream)
	}

	return parsed.Message.Content, nil
}

// decodeReply extracts the single JSON object the prompt demanded and
// decodes it strictly into out. A decodable object that lacks one of the
// required keys is still a bad reply; without this check an empty `{}`
// would pass through as an all-zero result.
func decodeReply(reply string, out interface{}, required ...string) error {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")

	if start == -1 || end == -1 || end < start {
		return fmt.Errorf("%w: no JSON object in reply", ErrBadReply)
	}

	raw := []byte(reply[start : end+1])

	var fields map[string]json.RawMessage

	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("%w: %v", ErrBadReply, err)
	}

	for _, key := range required {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("%w: reply is missing %q", ErrBadReply, key)
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadReply, err)
	}

	return nil
}
