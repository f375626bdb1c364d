package models

import "time"

// Question is the QUESTIONS row. Options are stored as four columns in A-D order.
type Question struct {
	ID            string    `db:"ID"`
	QuestionText  string    `db:"QUESTION_TEXT"`
	OptionA       string    `db:"OPTION_A"`
	OptionB       string    `db:"OPTION_B"`
	OptionC       string    `db:"OPTION_C"`
	OptionD       string    `db:"OPTION_D"`
	CorrectOption int       `db:"CORRECT_OPTION"` // 0-based index into A-D
	CreatedAt     time.Time `db:"CREATED_AT"`
	UpdatedAt     time.Time `db:"UPDATED_AT"`
}
