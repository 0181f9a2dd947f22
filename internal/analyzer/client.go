package analyzer

import (
	"context"
	"fmt"

	"midad/internal/domain"
	"midad/internal/port"
)

// Client turns an encoded document into the model's raw text answer.
// It holds no per-request state; concurrent calls are independent.
type Client struct {
	gen port.Generator
}

// NewClient creates a Client around a model provider.
func NewClient(gen port.Generator) *Client {
	return &Client{gen: gen}
}

// Analyze builds the system and user instructions for lang and issues exactly
// one Generate call. Errors from the provider are returned unchanged.
func (c *Client) Analyze(ctx context.Context, doc domain.EncodedDocument, lang domain.Language, override string) (string, error) {
	if c.gen == nil {
		return "", fmt.Errorf("%w: no provider configured", domain.ErrConfiguration)
	}
	return c.gen.Generate(ctx, port.GenerateInput{
		Document:          doc,
		SystemInstruction: BuildSystemPrompt(lang),
		UserInstruction:   BuildUserPrompt(lang, override),
	})
}
