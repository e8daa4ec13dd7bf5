// internal/content/provider.go
//
// Content provider contract and result preparation.
// Responsibilities:
//   - Provider: fetch trivia for a destination at a difficulty.
//   - Prepare: drop malformed records, trim to the requested count and pad
//     short results by repeating the first question.
//
// Every failure a provider can produce wraps ErrProvider so the travel
// sequencer can recognize it with errors.Is.

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

var (
	ErrProvider  = errors.New("content provider failed")
	ErrNoContent = errors.New("no usable questions")
)

// Provider generates the questions for one mission. Implementations return
// between 1 and count questions, or an error wrapping ErrProvider.
type Provider interface {
	FetchQuestions(ctx context.Context, dest galaxy.ID, d mission.Difficulty, count int) (mission.Briefing, error)
}

// Prepare validates b and makes it exactly count questions long.
// Records with a missing prompt, a wrong option count or an out-of-range
// answer index are dropped. Short results are padded with copies of the
// first question; b.Padded records how many.
func Prepare(b mission.Briefing, count int) (mission.Briefing, error) {
	if count < 1 {
		count = 1
	}
	valid := make([]mission.Question, 0, count)
	for _, q := range b.Questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	if dropped := len(b.Questions) - len(valid); dropped > 0 {
		log.Warn().Int("dropped", dropped).Msg("malformed questions from provider")
	}
	if len(valid) == 0 {
		return mission.Briefing{}, fmt.Errorf("%w: %w", ErrProvider, ErrNoContent)
	}
	if len(valid) > count {
		valid = valid[:count]
	}

	padded := 0
	for len(valid) < count {
		valid = append(valid, valid[0])
		padded++
	}
	b.Questions = valid
	b.Padded = padded
	return b, nil
}
