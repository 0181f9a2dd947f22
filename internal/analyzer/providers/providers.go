// Package providers links every model provider into the analyzer registry.
package providers

import (
	_ "midad/internal/analyzer/claude"
	_ "midad/internal/analyzer/gemini"
	_ "midad/internal/analyzer/openai"
)
