package port

import (
	"context"

	"midad/internal/domain"
)

// GenerateInput carries one request to a hosted model: the encoded document
// plus the system and user instructions.
type GenerateInput struct {
	Document          domain.EncodedDocument
	SystemInstruction string
	UserInstruction   string
}

// Generator abstracts a hosted text/vision model. Implementations issue
// exactly one request per call and return the model's raw text.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (string, error)
}
