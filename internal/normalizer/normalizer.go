// Package normalizer turns raw model output into a validated-enough
// AnalysisResult with shuffled quiz options.
package normalizer

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"midad/internal/domain"
)

var (
	leadingFence  = regexp.MustCompile("^`{3}[A-Za-z0-9_+-]*[ \t]*\\r?\\n?")
	trailingFence = regexp.MustCompile("\\r?\\n?`{3}$")
)

// Normalizer parses model text. The zero value uses the global random source.
type Normalizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Normalizer using the global random source.
func New() *Normalizer {
	return &Normalizer{}
}

// NewWithRand returns a Normalizer drawing shuffles from rng. Calls are
// serialised because *rand.Rand is not safe for concurrent use.
func NewWithRand(rng *rand.Rand) *Normalizer {
	return &Normalizer{rng: rng}
}

// StripCodeFences removes one leading ``` marker (with optional language tag)
// and one trailing ``` marker, then trims surrounding whitespace.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// response holds metadata undecoded so a badly typed block can be dropped
// without losing the summary and quiz.
type response struct {
	domain.AnalysisResult
	Metadata json.RawMessage `json:"metadata"`
}

// Normalize cleans and parses raw, then shuffles every question's options.
// An undecodable metadata block is dropped rather than failing the result.
func (n *Normalizer) Normalize(raw string) (*domain.AnalysisResult, error) {
	cleaned := StripCodeFences(raw)

	var resp *response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: response is null", domain.ErrMalformedResponse)
	}

	result := &resp.AnalysisResult
	if len(resp.Metadata) > 0 && string(resp.Metadata) != "null" {
		var meta domain.Metadata
		if err := json.Unmarshal(resp.Metadata, &meta); err != nil {
			log.Printf("normalizer.Normalizer.Normalize: dropping metadata: %v", err)
		} else {
			result.Metadata = &meta
		}
	}

	if result.QuizData != nil {
		for i := range result.QuizData.Questions {
			n.Shuffle(result.QuizData.Questions[i].Options)
		}
	}
	return result, nil
}

// Shuffle permutes options in place with a Fisher-Yates pass.
func (n *Normalizer) Shuffle(options []string) {
	if len(options) < 2 {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(options) - 1; i > 0; i-- {
		j := n.intN(i + 1)
		options[i], options[j] = options[j], options[i]
	}
}

func (n *Normalizer) intN(k int) int {
	if n.rng != nil {
		return n.rng.IntN(k)
	}
	return rand.IntN(k)
}
