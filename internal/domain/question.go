package domain

import (
	"context"
	"strings"
	"time"
)

const (
	// OptionCount is the fixed number of choices (A, B, C, D) per question.
	OptionCount = 4

	MaxQuestionTextLength = 1000
	MaxOptionTextLength   = 500
)

var optionLabels = [OptionCount]string{"A", "B", "C", "D"}

// OptionLabel returns the letter for an option index, or "" when out of range.
func OptionLabel(index int) string {
	if index < 0 || index >= OptionCount {
		return ""
	}
	return optionLabels[index]
}

// Question is a single multiple-choice item in the bank.
type Question struct {
	ID            string
	Text          string
	Options       [OptionCount]string
	CorrectOption int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewQuestion creates a new Question instance
func NewQuestion(text string, options [OptionCount]string, correctOption int) *Question {
	now := time.Now()
	return &Question{
		Text:          text,
		Options:       options,
		CorrectOption: correctOption,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate checks the question invariants.
func (q *Question) Validate() ValidationErrors {
	var errs ValidationErrors

	text := strings.TrimSpace(q.Text)
	if text == "" {
		errs = append(errs, NewMissingFieldError("question"))
	} else if len(text) > MaxQuestionTextLength {
		errs = append(errs, NewOutOfRangeError("question", len(text), 1, MaxQuestionTextLength))
	}

	for i, opt := range q.Options {
		field := "option" + optionLabels[i]
		opt = strings.TrimSpace(opt)
		if opt == "" {
			errs = append(errs, NewMissingFieldError(field))
		} else if len(opt) > MaxOptionTextLength {
			errs = append(errs, NewOutOfRangeError(field, len(opt), 1, MaxOptionTextLength))
		}
	}

	if q.CorrectOption < 0 || q.CorrectOption >= OptionCount {
		errs = append(errs, NewOutOfRangeError("correctOption", q.CorrectOption, 0, OptionCount-1))
	}

	return errs
}

// QuestionRepository defines the interface for question persistence.
type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]*Question, error)
	GetQuestionByID(ctx context.Context, id string) (*Question, error)
	FindQuestionByText(ctx context.Context, text string) (*Question, error)
	CreateQuestion(ctx context.Context, question *Question) error
	UpdateQuestion(ctx context.Context, question *Question) error
	DeleteQuestion(ctx context.Context, id string) error
	CountQuestions(ctx context.Context) (int, error)
}
