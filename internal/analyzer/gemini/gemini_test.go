package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midad/internal/analyzer/gemini"
	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
)

func newTestGenerator(serverURL, apiKey string) *gemini.Generator {
	return gemini.NewGenerator(&config.ParserConfig{
		Provider: "gemini",
		APIKey:   apiKey,
		Endpoint: serverURL,
	})
}

func testInput() port.GenerateInput {
	return port.GenerateInput{
		Document:          domain.EncodedDocument{Name: "notes.pdf", MediaType: "application/pdf", PayloadBase64: "JVBERi0xLjQ="},
		SystemInstruction: "system rules",
		UserInstruction:   "summarize please",
	}
}

func successResponse(parts ...string) map[string]interface{} {
	ps := make([]map[string]interface{}, 0, len(parts))
	for _, p := range parts {
		ps = append(ps, map[string]interface{}{"text": p})
	}
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content":      map[string]interface{}{"role": "model", "parts": ps},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGenerator_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		sys := reqBody["system_instruction"].(map[string]interface{})
		sysParts := sys["parts"].([]interface{})
		assert.Equal(t, "system rules", sysParts[0].(map[string]interface{})["text"])

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)

		inline := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "application/pdf", inline["mime_type"])
		assert.Equal(t, "JVBERi0xLjQ=", inline["data"])
		assert.Equal(t, "summarize please", parts[1].(map[string]interface{})["text"])

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		_ = json.NewEncoder(w).Encode(successResponse(`{"document_summary":`, `"x"}`))
	}))
	defer server.Close()

	g := newTestGenerator(server.URL, "test-key")
	text, err := g.Generate(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, `{"document_summary":"x"}`, text)
	assert.Equal(t, "gemini-2.0-flash", g.Model())
}

func TestGenerator_Generate_MissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL, "").Generate(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.False(t, called, "no request may be issued without a credential")
}

func TestGenerator_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"backend exploded"}}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL, "k").Generate(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrProvider)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGenerator_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL, "k").Generate(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestGenerator_Generate_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse("  "))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL, "k").Generate(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestGenerator_Generate_InvalidEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	_, err := newTestGenerator(server.URL, "k").Generate(context.Background(), testInput())

	assert.ErrorIs(t, err, domain.ErrProvider)
}

func TestNewGenerator_CustomModel(t *testing.T) {
	g := gemini.NewGenerator(&config.ParserConfig{APIKey: "k", DefaultModel: "gemini-2.5-pro"})

	assert.Equal(t, "gemini-2.5-pro", g.Model())
}

func TestGenerator_Generate_InvalidEndpoint(t *testing.T) {
	_, err := newTestGenerator("://no-scheme", "k").Generate(context.Background(), testInput())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, "configuration", domain.FailureKind(err))
}
