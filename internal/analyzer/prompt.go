package analyzer

import (
	"fmt"
	"strings"

	"midad/internal/domain"
)

// QuestionCount is the number of quiz questions requested from the model.
const QuestionCount = 10

// BuildSystemPrompt returns the fixed instruction set for a study-document analysis.
// The only parameter is the target language; everything else is constant.
func BuildSystemPrompt(lang domain.Language) string {
	name := lang.DisplayName()
	tag := string(lang)
	if name == "English" {
		tag = string(domain.LanguageEnglish)
	}

	var b strings.Builder
	b.WriteString(`You are "Midad", an academic study assistant. Students give you lecture slides, notes or scanned pages and you turn them into revision material.

What to produce:
1. A study summary: the key ideas, definitions, laws and formulas of the document, written for revision.
2. A multiple-choice quiz that checks understanding, application and analysis, not only recall.
`)
	fmt.Fprintf(&b, "3. The \"document_summary\" and every text inside \"quiz_data\" MUST be written in %s.\n", name)
	fmt.Fprintf(&b, "4. Generate exactly %d questions. Every question has exactly 4 options and \"correct_answer\" is copied verbatim from one of them.\n", QuestionCount)
	b.WriteString(`
Respond with a single JSON object and nothing else: no markdown, no code fences, no commentary.
The object must follow this schema:
{
  "action_performed": "academic_analysis",
`)
	fmt.Fprintf(&b, "  \"document_summary\": \"summary in %s\",\n", name)
	b.WriteString(`  "quiz_data": {
`)
	fmt.Fprintf(&b, "    \"title\": \"quiz title in %s\",\n", name)
	b.WriteString(`    "questions": [
      {
        "id": 1,
`)
	fmt.Fprintf(&b, "        \"question\": \"question text in %s\",\n", name)
	b.WriteString(`        "options": ["option 1", "option 2", "option 3", "option 4"],
        "correct_answer": "option 1",
`)
	fmt.Fprintf(&b, "        \"explanation\": \"why the answer is correct, in %s\"\n", name)
	b.WriteString(`      }
    ]
  },
  "metadata": {
    "word_count": 0,
`)
	fmt.Fprintf(&b, "    \"language\": %q,\n", tag)
	b.WriteString(`    "complexity_level": "Beginner | University | Advanced"
  }
}
`)
	return b.String()
}

// BuildUserPrompt returns the per-request instruction. A non-blank override
// replaces the default request verbatim.
func BuildUserPrompt(lang domain.Language, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return fmt.Sprintf("Analyze this document and provide a summary and quiz in %s.", lang.DisplayName())
}
