// internal/content/offline.go
//
// Offline provider backed by the embedded question bank.
// Keeps the game playable without a question generation service.
//
// Notes:
//   • The bank is decoded once on first use (sync.Once).
//   • Difficulty is ignored; the bank has one tier of questions.
//   • Questions are shuffled per mission so repeat visits vary.

package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/robalobadob/galactic-brain/assets"
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

var (
	bankOnce    sync.Once
	bank        map[galaxy.ID]mission.Briefing
	bankInitErr error
)

func initBank() {
	entries, err := assets.QuestionBank()
	if err != nil {
		bankInitErr = err
		return
	}
	bank = make(map[galaxy.ID]mission.Briefing, len(entries))
	for _, e := range entries {
		id, err := galaxy.ParseID(e.Destination)
		if err != nil {
			continue
		}
		b := mission.Briefing{Topic: e.Topic, Fact: e.Fact}
		for _, q := range e.Questions {
			b.Questions = append(b.Questions, mission.Question{
				Prompt:             q.Question,
				Options:            q.Options,
				CorrectAnswerIndex: q.CorrectAnswerIndex,
				Explanation:        q.Explanation,
			})
		}
		bank[id] = b
	}
}

// Offline serves missions from the embedded bank.
type Offline struct{}

func (Offline) FetchQuestions(ctx context.Context, dest galaxy.ID, _ mission.Difficulty, count int) (mission.Briefing, error) {
	bankOnce.Do(initBank)
	if bankInitErr != nil {
		return mission.Briefing{}, fmt.Errorf("%w: load bank: %w", ErrProvider, bankInitErr)
	}
	if err := ctx.Err(); err != nil {
		return mission.Briefing{}, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	src, ok := bank[dest]
	if !ok || len(src.Questions) == 0 {
		return mission.Briefing{}, fmt.Errorf("%w: %s: %w", ErrProvider, dest, ErrNoContent)
	}

	qs := append([]mission.Question(nil), src.Questions...)
	for i := len(qs) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		qs[i], qs[j] = qs[j], qs[i]
	}
	if count > 0 && len(qs) > count {
		qs = qs[:count]
	}
	return mission.Briefing{Topic: src.Topic, Fact: src.Fact, Questions: qs}, nil
}
