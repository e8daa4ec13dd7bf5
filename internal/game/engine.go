// internal/game/engine.go
//
// Progression engine for a single pilot's run.
// Responsibilities:
//   - Own the profile, the destination map, the selection and the active mission.
//   - Apply commands through one dispatch point that checks phase legality first.
//   - Start travel in the background and fold its outcome back in as a command.
//   - Resolve finished missions: badge, then game over / victory / map.
//
// Notes:
//   - All state is guarded by one mutex; the engine is the only writer.
//   - Every committed command bumps Version.
//   - Persistence and notifications are side effects after each commit.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
	"github.com/robalobadob/galactic-brain/internal/player"
	"github.com/robalobadob/galactic-brain/internal/store"
	"github.com/robalobadob/galactic-brain/internal/travel"
)

// TravelFailedMessage is the retryable notice shown after a failed fetch.
const TravelFailedMessage = "Communications with the planet failed! Try again."

var (
	ErrIllegalTransition = errors.New("command not allowed in this phase")
	ErrClosed            = errors.New("engine closed")
)

// Traveler runs the travel sequence for one destination.
type Traveler interface {
	Begin(ctx context.Context, dest galaxy.ID, d mission.Difficulty, fuel int, onStage func(travel.Stage)) (*mission.Run, error)
}

// Options wires the engine's collaborators. Store and Notifier may be nil.
type Options struct {
	Traveler Traveler
	Store    store.Gateway
	Notifier Notifier
}

// Reply carries what a command produced beyond the new state.
type Reply struct {
	Correct       bool            `json:"correct,omitempty"`
	Result        *mission.Result `json:"result,omitempty"`
	TravelStarted bool            `json:"travelStarted,omitempty"`
}

// Engine is the progression state machine.
type Engine struct {
	mu       sync.Mutex
	phase    Phase
	version  uint64
	profile  *player.Profile
	planets  *galaxy.Map
	selected *galaxy.ID
	run      *mission.Run
	stage    travel.Stage
	notice   string
	closed   bool

	traveler Traveler
	notifier Notifier
	saver    *saver

	base       context.Context
	stop       context.CancelFunc
	travelGen  uint64
	travelDone chan struct{}
}

// New builds an engine in MENU, restoring any saved profile and
// completion flags from opts.Store.
func New(ctx context.Context, opts Options) *Engine {
	gw := opts.Store
	if gw == nil {
		gw = store.NewMemoryStore()
	}
	n := opts.Notifier
	if n == nil {
		n = LogNotifier{}
	}

	profile, completions := load(ctx, gw)
	planets := galaxy.NewMap()
	planets.Restore(completions)
	// badge present ⇔ completed
	for _, id := range profile.Badges {
		planets.Complete(id)
	}
	for _, d := range planets.List() {
		if d.Completed {
			profile.AwardBadge(d.ID)
		}
	}

	base, stop := context.WithCancel(context.Background())
	return &Engine{
		phase:    PhaseMenu,
		profile:  profile,
		planets:  planets,
		traveler: opts.Traveler,
		notifier: n,
		saver:    newSaver(gw),
		base:     base,
		stop:     stop,
	}
}

// Dispatch applies cmd if it is legal in the current phase. Rejected
// commands leave the state untouched.
func (e *Engine) Dispatch(cmd Command) (Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed && cmd.Kind() != kindTravelSettled {
		return Reply{}, ErrClosed
	}
	if !Allowed(e.phase, cmd.Kind()) {
		return Reply{}, fmt.Errorf("%w: %s in %s", ErrIllegalTransition, cmd.Kind(), e.phase)
	}

	var (
		reply Reply
		err   error
	)
	switch c := cmd.(type) {
	case Launch:
		err = e.launch(c.Name)
	case SetDifficulty:
		err = e.setDifficulty(c.Difficulty)
	case Select:
		reply.TravelStarted, err = e.selectDestination(c.Destination)
	case ClearSelection:
		e.selected = nil
	case Answer:
		reply.Correct, err = e.answer(c.Index)
	case Advance:
		reply.Result, err = e.advance()
	case ReturnToMenu:
		e.returnToMenu()
	case Reset:
		e.reset()
	case travelSettled:
		if c.gen != e.travelGen {
			return Reply{}, nil
		}
		e.settleTravel(c.run, c.err)
	default:
		return Reply{}, fmt.Errorf("%w: %s", ErrIllegalTransition, cmd.Kind())
	}
	if err != nil {
		return Reply{}, err
	}
	if cmd.Kind() != kindTravelSettled {
		e.notice = ""
	}
	e.version++
	return reply, nil
}

func (e *Engine) launch(name string) error {
	name, err := player.NormalizeName(name)
	if err != nil {
		return err
	}
	e.profile.Name = name
	e.saveProfile()
	e.notifier.Notify(Notice{Kind: NoticeClick})

	// A saved run may already be over.
	switch {
	case e.profile.Empty():
		e.enter(PhaseGameOver)
	case e.planets.AllCompleted():
		e.enter(PhaseVictory)
	default:
		e.enter(PhaseMap)
	}
	return nil
}

func (e *Engine) setDifficulty(d mission.Difficulty) error {
	if !d.Valid() {
		return fmt.Errorf("unknown difficulty %q", d)
	}
	e.profile.Difficulty = d
	e.saveProfile()
	e.notifier.Notify(Notice{Kind: NoticeClick})
	return nil
}

func (e *Engine) selectDestination(id galaxy.ID) (bool, error) {
	if _, ok := e.planets.Get(id); !ok {
		return false, galaxy.ErrUnknownDestination
	}
	if e.selected == nil || *e.selected != id {
		e.selected = &id
		e.notifier.Notify(Notice{Kind: NoticeClick, Destination: id})
		return false, nil
	}
	if e.profile.Empty() {
		return false, travel.ErrNoFuel
	}
	if e.traveler == nil {
		return false, errors.New("no traveler configured")
	}
	e.startTravel(id)
	return true, nil
}

// startTravel must be called with e.mu held.
func (e *Engine) startTravel(id galaxy.ID) {
	e.travelGen++
	gen := e.travelGen
	ctx, cancel := context.WithCancel(e.base)
	done := make(chan struct{})
	e.travelDone = done

	e.enter(PhaseTraveling)
	e.stage = travel.StageWarp
	e.notifier.Notify(Notice{Kind: NoticeTravelStart, Destination: id})

	diff, fuel := e.profile.Difficulty, e.profile.Fuel
	go func() {
		defer close(done)
		defer cancel()
		run, err := e.traveler.Begin(ctx, id, diff, fuel, func(st travel.Stage) { e.setStage(gen, id, st) })
		if _, derr := e.Dispatch(travelSettled{gen: gen, run: run, err: err}); derr != nil {
			log.Error().Err(derr).Msg("settle travel")
		}
	}()
}

func (e *Engine) setStage(gen uint64, id galaxy.ID, st travel.Stage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.travelGen || e.phase != PhaseTraveling {
		return
	}
	e.stage = st
	if st == travel.StageLanding {
		e.notifier.Notify(Notice{Kind: NoticeLanding, Destination: id})
	}
}

func (e *Engine) settleTravel(run *mission.Run, err error) {
	e.stage = travel.StageNone
	if err != nil {
		dest := galaxy.ID("")
		if e.selected != nil {
			dest = *e.selected
		}
		e.enter(PhaseMap)
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Warn().Err(err).Str("destination", string(dest)).Msg("travel aborted")
		e.notice = TravelFailedMessage
		e.notifier.Notify(Notice{Kind: NoticeTravelFailed, Destination: dest, Message: TravelFailedMessage})
		return
	}
	e.run = run
	e.enter(PhaseTrivia)
}

func (e *Engine) answer(idx int) (bool, error) {
	correct, err := e.run.Answer(e.profile, idx)
	if err != nil {
		return false, err
	}
	e.saveProfile()
	if correct {
		e.notifier.Notify(Notice{Kind: NoticeAnswerCorrect})
	} else {
		e.notifier.Notify(Notice{Kind: NoticeAnswerIncorrect})
	}
	return correct, nil
}

func (e *Engine) advance() (*mission.Result, error) {
	res, err := e.run.Advance()
	if err != nil {
		return nil, err
	}
	if res == nil {
		e.notifier.Notify(Notice{Kind: NoticeClick})
		return nil, nil
	}
	e.resolve(res)
	return res, nil
}

// resolve applies a finished mission. Fuel exhaustion is checked before
// victory so an empty tank always ends the run.
func (e *Engine) resolve(res *mission.Result) {
	if res.Passed {
		badge := e.profile.AwardBadge(res.Destination)
		planet := e.planets.Complete(res.Destination)
		if badge {
			e.saveProfile()
		}
		if planet {
			e.savePlanets()
		}
		e.notifier.Notify(Notice{Kind: NoticeMissionPass, Destination: res.Destination})
	} else {
		e.notifier.Notify(Notice{Kind: NoticeMissionFail, Destination: res.Destination})
	}
	log.Info().Str("mission", res.MissionID).Str("destination", string(res.Destination)).
		Bool("passed", res.Passed).Int("correct", res.Correct).Int("total", res.Total).Msg("mission resolved")

	e.run = nil
	switch {
	case e.profile.Empty():
		e.enter(PhaseGameOver)
		e.notifier.Notify(Notice{Kind: NoticeGameOver})
	case e.planets.AllCompleted():
		e.enter(PhaseVictory)
		e.notifier.Notify(Notice{Kind: NoticeVictory})
	default:
		e.selected = nil
		e.enter(PhaseMap)
	}
}

func (e *Engine) returnToMenu() {
	e.run = nil
	e.selected = nil
	e.notifier.Notify(Notice{Kind: NoticeClick})
	e.enter(PhaseMenu)
}

// reset starts a fresh run for the same pilot.
func (e *Engine) reset() {
	e.profile = player.New(e.profile.Name)
	e.planets.Reset()
	e.selected = nil
	e.run = nil
	e.saver.remove(KeyPlanets)
	e.saveProfile()
	e.notifier.Notify(Notice{Kind: NoticeClick})
	e.enter(PhaseMap)
}

func (e *Engine) enter(to Phase) {
	from := e.phase
	e.phase = to
	log.Debug().Str("from", string(from)).Str("to", string(to)).Uint64("version", e.version+1).Msg("transition")
	e.notifier.PhaseChanged(from, to)
}

func (e *Engine) saveProfile() { e.saver.save(KeyProfile, e.profile.Clone()) }
func (e *Engine) savePlanets() { e.saver.save(KeyPlanets, e.planets.Completions()) }

// AwaitTravel blocks until the in-flight travel (if any) has settled.
func (e *Engine) AwaitTravel(ctx context.Context) error {
	e.mu.Lock()
	done := e.travelDone
	e.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Close abandons any in-flight travel without touching the profile, then
// flushes pending writes. The engine rejects commands afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.stop()
	done := e.travelDone
	e.mu.Unlock()

	if done != nil {
		<-done
	}
	e.saver.close()
}

// Convenience wrappers used by the HTTP layer.

func (e *Engine) Launch(name string) error {
	_, err := e.Dispatch(Launch{Name: name})
	return err
}

func (e *Engine) SetDifficulty(d mission.Difficulty) error {
	_, err := e.Dispatch(SetDifficulty{Difficulty: d})
	return err
}

func (e *Engine) Select(id galaxy.ID) (bool, error) {
	r, err := e.Dispatch(Select{Destination: id})
	return r.TravelStarted, err
}

func (e *Engine) ClearSelection() error {
	_, err := e.Dispatch(ClearSelection{})
	return err
}

func (e *Engine) Answer(idx int) (bool, error) {
	r, err := e.Dispatch(Answer{Index: idx})
	return r.Correct, err
}

func (e *Engine) Advance() (*mission.Result, error) {
	r, err := e.Dispatch(Advance{})
	return r.Result, err
}

func (e *Engine) ReturnToMenu() error {
	_, err := e.Dispatch(ReturnToMenu{})
	return err
}

func (e *Engine) Reset() error {
	_, err := e.Dispatch(Reset{})
	return err
}
