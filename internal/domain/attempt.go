package domain

import (
	"fmt"
	"time"
)

// AttemptState is the lifecycle state of an attempt.
type AttemptState string

const (
	AttemptActive   AttemptState = "active"
	AttemptFinished AttemptState = "finished"
)

// FinishReason records which path ended the attempt.
type FinishReason string

const (
	FinishSubmitted FinishReason = "submitted"
	FinishTimeout   FinishReason = "timeout"
)

const (
	// Unselected marks a question slot with no chosen option.
	Unselected = -1

	// DefaultTimeBudget is the time allowed for one attempt.
	DefaultTimeBudget = 600 * time.Second
)

// Attempt is the in-progress state of one quiz run.
//
// It is a plain state machine with no locking: Active until Finish, after
// which every operation returns an INVALID_STATE error. Callers serialise access.
type Attempt struct {
	ID        string
	AccountID string
	StartedAt time.Time

	questions    []Question
	selections   []int
	position     int
	budget       time.Duration
	remaining    time.Duration
	state        AttemptState
	finishedAt   time.Time
	finishReason FinishReason
	result       *Result
}

// StartAttempt snapshots the question set and returns an Active attempt at position 0.
// A non-positive budget falls back to DefaultTimeBudget.
func StartAttempt(accountID string, questions []Question, budget time.Duration, now time.Time) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, NewInvalidInputError("cannot start an attempt without questions")
	}
	if budget <= 0 {
		budget = DefaultTimeBudget
	}

	snapshot := make([]Question, len(questions))
	copy(snapshot, questions)

	selections := make([]int, len(questions))
	for i := range selections {
		selections[i] = Unselected
	}

	return &Attempt{
		AccountID:  accountID,
		StartedAt:  now,
		questions:  snapshot,
		selections: selections,
		budget:     budget,
		remaining:  budget,
		state:      AttemptActive,
	}, nil
}

func (a *Attempt) ensureActive() error {
	if a.state != AttemptActive {
		return NewInvalidStateError("attempt is already finished").WithContext("attemptID", a.ID)
	}
	return nil
}

// SelectOption records optionIndex at the current position, replacing any earlier choice.
// The deadline is not checked here; the countdown owner finishes the attempt.
func (a *Attempt) SelectOption(optionIndex int) error {
	if err := a.ensureActive(); err != nil {
		return err
	}
	if optionIndex < 0 || optionIndex >= OptionCount {
		return NewInvalidInputError(fmt.Sprintf("option index %d out of range [0,%d]", optionIndex, OptionCount-1))
	}
	a.selections[a.position] = optionIndex
	return nil
}

// Advance moves to the next question. No-op on the last one.
func (a *Attempt) Advance() error {
	if err := a.ensureActive(); err != nil {
		return err
	}
	if a.position < len(a.questions)-1 {
		a.position++
	}
	return nil
}

// Retreat moves to the previous question. No-op on the first one.
func (a *Attempt) Retreat() error {
	if err := a.ensureActive(); err != nil {
		return err
	}
	if a.position > 0 {
		a.position--
	}
	return nil
}

// GoTo jumps directly to a question.
func (a *Attempt) GoTo(position int) error {
	if err := a.ensureActive(); err != nil {
		return err
	}
	if position < 0 || position >= len(a.questions) {
		return NewInvalidInputError(fmt.Sprintf("position %d out of range [0,%d]", position, len(a.questions)-1))
	}
	a.position = position
	return nil
}

// Tick consumes d from the remaining budget and reports whether it has run out.
func (a *Attempt) Tick(d time.Duration) (bool, error) {
	if err := a.ensureActive(); err != nil {
		return false, err
	}
	a.remaining -= d
	if a.remaining < 0 {
		a.remaining = 0
	}
	return a.remaining == 0, nil
}

// Finish scores the attempt and moves it to Finished. Unset slots count as wrong.
// Calling Finish again returns INVALID_STATE and leaves the first result intact.
func (a *Attempt) Finish(reason FinishReason, now time.Time) (*Result, error) {
	if err := a.ensureActive(); err != nil {
		return nil, err
	}

	correct := 0
	for i, q := range a.questions {
		if a.selections[i] == q.CorrectOption {
			correct++
		}
	}
	total := len(a.questions)

	a.state = AttemptFinished
	a.finishedAt = now
	a.finishReason = reason
	a.result = &Result{
		AccountID:      a.AccountID,
		AttemptID:      a.ID,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          ComputeScore(correct, total),
		CreatedAt:      now,
	}

	out := *a.result
	return &out, nil
}

func (a *Attempt) State() AttemptState { return a.state }

func (a *Attempt) Position() int { return a.position }

func (a *Attempt) Len() int { return len(a.questions) }

func (a *Attempt) Remaining() time.Duration { return a.remaining }

func (a *Attempt) Budget() time.Duration { return a.budget }

func (a *Attempt) FinishedAt() time.Time { return a.finishedAt }

func (a *Attempt) FinishReason() FinishReason { return a.finishReason }

// Selections returns a copy of the selected option per question.
func (a *Attempt) Selections() []int {
	out := make([]int, len(a.selections))
	copy(out, a.selections)
	return out
}

// Questions returns a copy of the snapshot taken at start.
func (a *Attempt) Questions() []Question {
	out := make([]Question, len(a.questions))
	copy(out, a.questions)
	return out
}

// Answered counts slots that hold a selection.
func (a *Attempt) Answered() int {
	n := 0
	for _, s := range a.selections {
		if s != Unselected {
			n++
		}
	}
	return n
}

// Result returns a copy of the result produced by Finish, or nil while Active.
func (a *Attempt) Result() *Result {
	if a.result == nil {
		return nil
	}
	out := *a.result
	return &out
}
