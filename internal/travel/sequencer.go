// internal/travel/sequencer.go
//
// Travel sequencer: MAP → TRAVELING → TRIVIA for one destination.
// Responsibilities:
//   - Reject travel on an empty tank.
//   - Join a minimum warp timer with the content fetch; both must finish.
//   - Hold a landing window, then build a fresh mission run.
//
// Notes:
//   - A provider failure cancels the warp timer instead of waiting it out.
//   - Cancelling ctx abandons the timer and the in-flight fetch; no run is
//     built and nothing outside the sequencer is mutated.
package travel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/galactic-brain/internal/content"
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

const (
	DefaultMinTravel = 2500 * time.Millisecond
	DefaultLanding   = 1500 * time.Millisecond
)

var ErrNoFuel = errors.New("not enough fuel to travel")

// Stage is the travel sub-phase shown by the presentation layer.
type Stage string

const (
	StageNone    Stage = ""
	StageWarp    Stage = "warp"
	StageLanding Stage = "landing"
)

// Sequencer coordinates the warp animation floor with the content fetch.
type Sequencer struct {
	provider  content.Provider
	minTravel time.Duration
	landing   time.Duration
}

// New returns a Sequencer. Negative durations fall back to the defaults;
// zero skips that wait.
func New(p content.Provider, minTravel, landing time.Duration) *Sequencer {
	if minTravel < 0 {
		minTravel = DefaultMinTravel
	}
	if landing < 0 {
		landing = DefaultLanding
	}
	return &Sequencer{provider: p, minTravel: minTravel, landing: landing}
}

// Begin runs the full travel sequence and returns the prepared mission.
// onStage, if non-nil, is called as each sub-phase starts.
func (s *Sequencer) Begin(ctx context.Context, dest galaxy.ID, d mission.Difficulty, fuel int, onStage func(Stage)) (*mission.Run, error) {
	if fuel <= 0 {
		return nil, ErrNoFuel
	}
	if onStage == nil {
		onStage = func(Stage) {}
	}
	plan := mission.Config(d)
	started := time.Now()
	onStage(StageWarp)

	var briefing mission.Briefing
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sleep(gctx, s.minTravel)
	})
	g.Go(func() error {
		raw, err := s.provider.FetchQuestions(gctx, dest, d, plan.QuestionCount)
		if err != nil {
			return err
		}
		briefing, err = content.Prepare(raw, plan.QuestionCount)
		return err
	})
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !errors.Is(err, content.ErrProvider) {
			err = fmt.Errorf("%w: %w", content.ErrProvider, err)
		}
		return nil, err
	}
	if briefing.Padded > 0 {
		log.Warn().Str("destination", string(dest)).Int("padded", briefing.Padded).
			Int("requested", plan.QuestionCount).Msg("provider returned a short mission; padded with repeats")
	}

	onStage(StageLanding)
	if err := sleep(ctx, s.landing); err != nil {
		return nil, err
	}

	run, err := mission.NewRun(dest, d, briefing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", content.ErrProvider, err)
	}
	log.Debug().Str("destination", string(dest)).Str("mission", run.ID).
		Dur("elapsed", time.Since(started)).Msg("travel complete")
	return run, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
