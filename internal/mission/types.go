// internal/mission/types.go
//
// Core type definitions for a single mission.
// Defines:
//   - Difficulty: the tier chosen by the pilot (easy/medium/hard).
//   - Spec: question count and pass threshold for one attempt.
//   - Rewards: score/fuel magnitudes applied per answer.
//   - Question: one multiple-choice trivia record.

package mission

import "strings"

// Difficulty controls question count, pass threshold and reward sizing.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty normalizes s. Unknown values fall back to Easy.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d
	default:
		return Easy
	}
}

// Valid reports whether d is one of the three known tiers.
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// Spec is derived from a Difficulty and fixed for one mission attempt.
type Spec struct {
	QuestionCount int `json:"questionCount"`
	PassThreshold int `json:"passThreshold"`
}

// Rewards holds the per-answer economy for a Difficulty.
type Rewards struct {
	ScoreGain int `json:"scoreGain"`
	FuelGain  int `json:"fuelGain"`
	FuelLoss  int `json:"fuelLoss"`
}

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// Question is immutable once received from a content provider.
type Question struct {
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation"`
}

// Valid reports whether q has a prompt, exactly four options and an
// in-range correct index.
func (q Question) Valid() bool {
	if strings.TrimSpace(q.Prompt) == "" || len(q.Options) != OptionCount {
		return false
	}
	return q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < OptionCount
}
