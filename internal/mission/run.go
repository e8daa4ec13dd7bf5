// internal/mission/run.go
//
// Mission runner: drives one question at a time.
// Responsibilities:
//   - Accept exactly one answer per question and apply the per-answer economy.
//   - Advance through the question sequence.
//   - Compute pass/fail once the last question has been answered.
//
// Notes:
//   - The runner knows nothing about phases; the game engine consumes Result.
//   - Economy changes go through the Wallet interface so the runner never
//     touches the player profile directly.
package mission

import (
	"errors"

	"github.com/google/uuid"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
)

var (
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question not answered yet")
	ErrFinished        = errors.New("mission finished")
	ErrInvalidOption   = errors.New("invalid answer option")
	ErrNoQuestions     = errors.New("mission has no questions")
)

// Outcome is the presentation-facing result of the last answer.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeCorrect   Outcome = "correct"
	OutcomeIncorrect Outcome = "incorrect"
)

// Wallet receives the economy side effects of an answer.
type Wallet interface {
	Credit(score, fuel int)
	Debit(fuel int)
}

// Briefing is what a content provider hands back for one mission.
type Briefing struct {
	Topic     string     `json:"topic"`
	Fact      string     `json:"fact"`
	Questions []Question `json:"questions"`
	// Padded counts trailing questions that repeat the first one because
	// the provider returned fewer than requested.
	Padded int `json:"padded"`
}

// Result is produced once, when the last question is advanced past.
type Result struct {
	MissionID   string    `json:"missionId"`
	Destination galaxy.ID `json:"destination"`
	Passed      bool      `json:"passed"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
}

// Run holds the state of one mission attempt.
type Run struct {
	ID          string
	Destination galaxy.ID
	Difficulty  Difficulty
	Spec        Spec
	Rewards     Rewards
	Topic       string
	Fact        string
	Questions   []Question
	Padded      int

	Index       int
	Correct     int
	LastAnswer  *int
	LastOutcome Outcome
	Finished    bool
}

// NewRun starts a mission at question zero. Spec and rewards are captured
// from d now and never recomputed for this attempt.
func NewRun(dest galaxy.ID, d Difficulty, b Briefing) (*Run, error) {
	if len(b.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	qs := make([]Question, len(b.Questions))
	copy(qs, b.Questions)
	return &Run{
		ID:          uuid.NewString(),
		Destination: dest,
		Difficulty:  d,
		Spec:        Config(d),
		Rewards:     RewardsFor(d),
		Topic:       b.Topic,
		Fact:        b.Fact,
		Questions:   qs,
		Padded:      b.Padded,
	}, nil
}

// Current returns the question being asked.
func (r *Run) Current() Question { return r.Questions[r.Index] }

// Answer records the pilot's choice for the current question and applies
// the economy to w. A question accepts exactly one answer; later calls are
// rejected without side effects.
func (r *Run) Answer(w Wallet, selected int) (bool, error) {
	if r.Finished {
		return false, ErrFinished
	}
	if r.LastAnswer != nil {
		return false, ErrAlreadyAnswered
	}
	if selected < 0 || selected >= len(r.Current().Options) {
		return false, ErrInvalidOption
	}

	correct := selected == r.Current().CorrectAnswerIndex
	r.LastAnswer = &selected
	if correct {
		r.Correct++
		r.LastOutcome = OutcomeCorrect
		w.Credit(r.Rewards.ScoreGain, r.Rewards.FuelGain)
	} else {
		r.LastOutcome = OutcomeIncorrect
		w.Debit(r.Rewards.FuelLoss)
	}
	return correct, nil
}

// Advance moves to the next question. Past the last question it marks the
// run finished and returns the Result; otherwise the Result is nil.
func (r *Run) Advance() (*Result, error) {
	if r.Finished {
		return nil, ErrFinished
	}
	if r.LastAnswer == nil {
		return nil, ErrNotAnswered
	}
	if r.Index < len(r.Questions)-1 {
		r.Index++
		r.LastAnswer, r.LastOutcome = nil, OutcomeNone
		return nil, nil
	}
	r.Finished = true
	return &Result{
		MissionID:   r.ID,
		Destination: r.Destination,
		Passed:      r.Correct >= r.Spec.PassThreshold,
		Correct:     r.Correct,
		Total:       len(r.Questions),
	}, nil
}
