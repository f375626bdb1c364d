package models

import "time"

// Result is the RESULTS row. Username and email are copied at write time so
// history survives account deletion.
type Result struct {
	ID             string    `db:"ID"`
	AccountID      string    `db:"ACCOUNT_ID"`
	Username       string    `db:"USERNAME"`
	Email          string    `db:"EMAIL"`
	AttemptID      string    `db:"ATTEMPT_ID"`
	TotalQuestions int       `db:"TOTAL_QUESTIONS"`
	CorrectAnswers int       `db:"CORRECT_ANSWERS"`
	Score          int       `db:"SCORE"`
	CreatedAt      time.Time `db:"CREATED_AT"`
}
