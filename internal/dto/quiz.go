package dto

import "time"

// QuestionRequest is the admin create/update body. CorrectOption is a pointer so
// a missing value is distinguishable from option A.
// @Description Question with four options and the 0-based correct option
type QuestionRequest struct {
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption *int   `json:"correctOption"`
}

// QuestionResponse is the admin view of a question, including the answer.
// @Description Question information
type QuestionResponse struct {
	ID            string    `json:"id"`
	Question      string    `json:"question"`
	OptionA       string    `json:"optionA"`
	OptionB       string    `json:"optionB"`
	OptionC       string    `json:"optionC"`
	OptionD       string    `json:"optionD"`
	CorrectOption int       `json:"correctOption"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuestionMutationResponse wraps a created or updated question.
type QuestionMutationResponse struct {
	Message  string           `json:"message"`
	Question QuestionResponse `json:"question"`
}

// OptionView is one labelled option shown to a participant.
type OptionView struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// AttemptQuestionView is the current question without its answer.
type AttemptQuestionView struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Options  []OptionView `json:"options"`
	Selected int          `json:"selected"` // -1 when nothing is selected
}

// AttemptResponse is the participant's view of an attempt.
// @Description Attempt state
type AttemptResponse struct {
	ID               string               `json:"id"`
	State            string               `json:"state"`
	Position         int                  `json:"position"`
	TotalQuestions   int                  `json:"totalQuestions"`
	Answered         int                  `json:"answered"`
	RemainingSeconds int                  `json:"remainingSeconds"`
	TimeLimitSeconds int                  `json:"timeLimitSeconds"`
	StartedAt        time.Time            `json:"startedAt"`
	FinishedAt       *time.Time           `json:"finishedAt,omitempty"`
	FinishReason     string               `json:"finishReason,omitempty"`
	Selections       []int                `json:"selections"`
	Current          *AttemptQuestionView `json:"current,omitempty"`
	Result           *ResultResponse      `json:"result,omitempty"`
	Review           []QuestionReview     `json:"review,omitempty"`
}

// QuestionReview shows how one question was answered. Only present once the attempt is finished.
type QuestionReview struct {
	Index         int    `json:"index"`
	QuestionID    string `json:"questionId"`
	Question      string `json:"question"`
	Selected      int    `json:"selected"`
	CorrectOption int    `json:"correctOption"`
	Correct       bool   `json:"correct"`
}

// SelectOptionRequest is the body of POST /attempts/:id/select.
type SelectOptionRequest struct {
	Option *int `json:"option"`
}

// GoToRequest is the body of POST /attempts/:id/goto.
type GoToRequest struct {
	Position *int `json:"position"`
}

// FinishResponse always carries the computed result; Persisted reports whether it was stored.
// @Description Finished attempt and its result
type FinishResponse struct {
	Attempt      AttemptResponse `json:"attempt"`
	Result       ResultResponse  `json:"result"`
	Persisted    bool            `json:"persisted"`
	PersistError string          `json:"persistError,omitempty"`
}
