package claude

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
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
	providerName = "claude"
	maxTokens    = 8192
)

func init() {
	analyzer.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Generator, error) {
		return NewGenerator(cfg), nil
	})
}

// Generator implements port.Generator using the Anthropic Messages API.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGenerator creates a Claude-based generator. cfg.Endpoint overrides the API URL.
func NewGenerator(cfg *config.ParserConfig) *Generator {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
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
		return "", fmt.Errorf("%w: anthropic API key is missing", domain.ErrConfiguration)
	}

	contentBlocks, err := buildContentBlocks(input)
	if err != nil {
		return "", fmt.Errorf("%w: building content blocks: %w", domain.ErrProvider, err)
	}

	reqBody := map[string]interface{}{
		"model":      g.model,
		"max_tokens": maxTokens,
		"system":     input.SystemInstruction,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
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
	req.Header.Set("x-api-key", g.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling anthropic API: %w", domain.ErrProvider, err)
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

func buildContentBlocks(input port.GenerateInput) ([]map[string]interface{}, error) {
	var blocks []map[string]interface{}

	switch mt := input.Document.MediaType; mt {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "document",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": mt,
				"data":       input.Document.PayloadBase64,
			},
		})
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		blocks = append(blocks, map[string]interface{}{
			"type": "image",
			"source": map[string]interface{}{
				"type":       "base64",
				"media_type": mt,
				"data":       input.Document.PayloadBase64,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported media type for claude: %s", mt)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.UserInstruction,
	})

	return blocks, nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshaling response: %w", domain.ErrProvider, err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from anthropic (stop_reason %q)", domain.ErrProvider, resp.StopReason)
	}
	return text, nil
}
