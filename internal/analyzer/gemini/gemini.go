package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"midad/internal/analyzer"
	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
)

const (
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.0-flash"
	providerName = "gemini"
)

func init() {
	analyzer.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Generator, error) {
		return NewGenerator(cfg), nil
	})
}

// Generator implements port.Generator using Google's Gemini API.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGenerator creates a Gemini-based generator. cfg.Endpoint overrides the
// API URL (used by tests and proxies).
func NewGenerator(cfg *config.ParserConfig) *Generator {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Generator{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second},
	}
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	return g.model
}

func (g *Generator) Generate(ctx context.Context, input port.GenerateInput) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: gemini API key is missing", domain.ErrConfiguration)
	}

	reqBody := map[string]interface{}{
		"system_instruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": input.SystemInstruction},
			},
		},
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": input.Document.MediaType,
							"data":      input.Document.PayloadBase64,
						},
					},
					{
						"text": input.UserInstruction,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %w", domain.ErrConfiguration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", domain.ErrConfiguration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling gemini API: %w", domain.ErrProvider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", domain.ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", analyzer.NewStatusError(providerName, resp.StatusCode, respBody)
	}

	return parseResponse(respBody)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func parseResponse(body []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshaling response: %w", domain.ErrProvider, err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrProvider)
	}

	// Long answers may be split over several parts.
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from gemini (finish reason %q)",
			domain.ErrProvider, resp.Candidates[0].FinishReason)
	}
	return text, nil
}
