package dto

import "time"

// ResultResponse is one recorded score.
// @Description Result of a finished attempt
type ResultResponse struct {
	ID             string    `json:"id"`
	AttemptID      string    `json:"attemptId"`
	Username       string    `json:"username"`
	TotalQuestions int       `json:"totalQuestions"`
	CorrectAnswers int       `json:"correctAnswers"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"createdAt"`
}

// RetryPendingResponse reports how many parked results were stored on retry.
type RetryPendingResponse struct {
	Recorded  int `json:"recorded"`
	Remaining int `json:"remaining"`
}
