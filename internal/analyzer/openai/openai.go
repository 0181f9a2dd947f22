package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"midad/internal/analyzer"
	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
)

const (
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
	providerName = "openai"
)

func init() {
	analyzer.RegisterProvider(providerName, func(cfg *config.ParserConfig) (port.Generator, error) {
		return NewGenerator(cfg), nil
	})
}

// Generator implements port.Generator using the OpenAI Chat Completions API.
type Generator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGenerator creates an OpenAI-based generator. cfg.Endpoint overrides the API URL,
// which also allows OpenAI-compatible gateways.
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
		return "", fmt.Errorf("%w: openai API key is missing", domain.ErrConfiguration)
	}

	reqBody := map[string]interface{}{
		"model": g.model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": input.SystemInstruction,
			},
			{
				"role":    "user",
				"content": buildContentBlocks(input),
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
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
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling openai API: %w", domain.ErrProvider, err)
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

func buildContentBlocks(input port.GenerateInput) []map[string]interface{} {
	doc := input.Document
	dataURI := fmt.Sprintf("data:%s;base64,%s", doc.MediaType, doc.PayloadBase64)

	var blocks []map[string]interface{}
	if doc.MediaType == "application/pdf" {
		name := filepath.Base(doc.Name)
		if name == "" || name == "." {
			name = "document.pdf"
		}
		blocks = append(blocks, map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  name,
				"file_data": dataURI,
			},
		})
	} else {
		blocks = append(blocks, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURI,
			},
		})
	}

	return append(blocks, map[string]interface{}{
		"type": "text",
		"text": input.UserInstruction,
	})
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshaling response: %w", domain.ErrProvider, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrProvider)
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty response from openai (finish_reason %q)", domain.ErrProvider, resp.Choices[0].FinishReason)
	}
	return text, nil
}
