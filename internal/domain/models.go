package domain

import "io"

// AnalysisResult is the structured output of one successful document analysis.
type AnalysisResult struct {
	ActionPerformed string    `json:"action_performed" yaml:"action_performed"`
	DocumentSummary string    `json:"document_summary" yaml:"document_summary"`
	QuizData        *QuizData `json:"quiz_data,omitempty" yaml:"quiz_data,omitempty"`
	Metadata        *Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// QuizData holds the generated quiz.
type QuizData struct {
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a single multiple-choice question.
// CorrectAnswer is expected to equal one element of Options; the model
// does not always honour that, see Check.
type Question struct {
	ID            int      `json:"id" yaml:"id"`
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Explanation   string   `json:"explanation" yaml:"explanation"`
}

// Metadata describes the analyzed document.
type Metadata struct {
	WordCount       int    `json:"word_count" yaml:"word_count"`
	Language        string `json:"language" yaml:"language"`
	ComplexityLevel string `json:"complexity_level" yaml:"complexity_level"`
}

// HistoryItem is a persisted snapshot of a past analysis.
// Items are write-once: they are created after a successful analysis and
// can only be deleted afterwards.
type HistoryItem struct {
	ID        string         `json:"id" yaml:"id"`
	Timestamp int64          `json:"timestamp" yaml:"timestamp"` // ms since epoch
	Title     string         `json:"title" yaml:"title"`
	Data      AnalysisResult `json:"data" yaml:"data"`
}

// Question returns the question with the given ID, if the item carries a quiz.
func (h *HistoryItem) Question(id int) (*Question, bool) {
	if h.Data.QuizData == nil {
		return nil, false
	}
	for i := range h.Data.QuizData.Questions {
		if h.Data.QuizData.Questions[i].ID == id {
			return &h.Data.QuizData.Questions[i], true
		}
	}
	return nil, false
}

// SourceFile is an uploaded document before encoding.
type SourceFile struct {
	Name      string
	MediaType string
	Body      io.Reader
}

// EncodedDocument is a document ready to be sent to a model provider.
type EncodedDocument struct {
	Name          string
	MediaType     string
	PayloadBase64 string
}

// AnswerStatus is the outcome of checking a chosen option.
type AnswerStatus string

const (
	AnswerCorrect         AnswerStatus = "correct"
	AnswerIncorrect       AnswerStatus = "incorrect"
	AnswerNoCorrectAnswer AnswerStatus = "no_correct_answer"
)

// AnalysisFailedMessage is the only failure text shown to users; causes are logged.
const AnalysisFailedMessage = "An error occurred while analyzing the document. Please try again."

// AnswerFeedback is returned after the student picks an option.
type AnswerFeedback struct {
	QuestionID    int          `json:"question_id" yaml:"question_id"`
	Chosen        string       `json:"chosen" yaml:"chosen"`
	Correct       bool         `json:"correct" yaml:"correct"`
	Status        AnswerStatus `json:"status" yaml:"status"`
	CorrectAnswer string       `json:"correct_answer,omitempty" yaml:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation" yaml:"explanation"`
}

// HasAnswerKey reports whether CorrectAnswer is one of the options.
func (q *Question) HasAnswerKey() bool {
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return true
		}
	}
	return false
}

// Check grades the chosen option. When the answer key is missing from the
// options no option can be correct, and the feedback says so explicitly
// instead of marking every choice wrong.
func (q *Question) Check(chosen string) AnswerFeedback {
	fb := AnswerFeedback{
		QuestionID:  q.ID,
		Chosen:      chosen,
		Explanation: q.Explanation,
	}
	if !q.HasAnswerKey() {
		fb.Status = AnswerNoCorrectAnswer
		return fb
	}
	fb.CorrectAnswer = q.CorrectAnswer
	if chosen == q.CorrectAnswer {
		fb.Correct = true
		fb.Status = AnswerCorrect
		return fb
	}
	fb.Status = AnswerIncorrect
	return fb
}
