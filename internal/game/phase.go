// internal/game/phase.go
//
// Phases and commands of the progression state machine.
// Defines:
//   - Phase: the top-level game phase (MENU, MAP, TRAVELING, TRIVIA, GAME_OVER, VICTORY).
//   - Command: the closed set of inputs the engine accepts.
//   - Allowed: the legality table, total over (phase, command).

package game

import (
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

// Phase is the current top-level state of a run.
type Phase string

const (
	PhaseMenu      Phase = "MENU"
	PhaseMap       Phase = "MAP"
	PhaseTraveling Phase = "TRAVELING"
	PhaseTrivia    Phase = "TRIVIA"
	PhaseGameOver  Phase = "GAME_OVER"
	PhaseVictory   Phase = "VICTORY"
)

// CommandKind names a Command for logging and the legality table.
type CommandKind string

const (
	KindLaunch         CommandKind = "launch"
	KindSetDifficulty  CommandKind = "set-difficulty"
	KindSelect         CommandKind = "select"
	KindClearSelection CommandKind = "clear-selection"
	KindAnswer         CommandKind = "answer"
	KindAdvance        CommandKind = "advance"
	KindReturnToMenu   CommandKind = "return-to-menu"
	KindReset          CommandKind = "reset"
	kindTravelSettled  CommandKind = "travel-settled"
)

// Command is one input to the engine. The set is closed: only types in
// this package implement it.
type Command interface {
	Kind() CommandKind
	command()
}

// Launch supplies the pilot name and leaves the menu.
type Launch struct{ Name string }

// SetDifficulty picks the tier for future missions.
type SetDifficulty struct{ Difficulty mission.Difficulty }

// Select picks a destination on the map. Selecting the already-selected
// destination again confirms it and starts travel.
type Select struct{ Destination galaxy.ID }

// ClearSelection drops the current map selection.
type ClearSelection struct{}

// Answer picks an option for the current question.
type Answer struct{ Index int }

// Advance moves past an answered question.
type Advance struct{}

// ReturnToMenu leaves the map or an in-progress mission for the menu.
type ReturnToMenu struct{}

// Reset starts a new run after game over or victory.
type Reset struct{}

// travelSettled is posted by the travel goroutine when it finishes.
type travelSettled struct {
	gen uint64
	run *mission.Run
	err error
}

func (Launch) Kind() CommandKind         { return KindLaunch }
func (SetDifficulty) Kind() CommandKind  { return KindSetDifficulty }
func (Select) Kind() CommandKind         { return KindSelect }
func (ClearSelection) Kind() CommandKind { return KindClearSelection }
func (Answer) Kind() CommandKind         { return KindAnswer }
func (Advance) Kind() CommandKind        { return KindAdvance }
func (ReturnToMenu) Kind() CommandKind   { return KindReturnToMenu }
func (Reset) Kind() CommandKind          { return KindReset }
func (travelSettled) Kind() CommandKind  { return kindTravelSettled }

func (Launch) command()         {}
func (SetDifficulty) command()  {}
func (Select) command()         {}
func (ClearSelection) command() {}
func (Answer) command()         {}
func (Advance) command()        {}
func (ReturnToMenu) command()   {}
func (Reset) command()          {}
func (travelSettled) command()  {}

var legal = map[Phase]map[CommandKind]bool{
	PhaseMenu:      {KindLaunch: true, KindSetDifficulty: true},
	PhaseMap:       {KindSelect: true, KindClearSelection: true, KindReturnToMenu: true},
	PhaseTraveling: {kindTravelSettled: true},
	PhaseTrivia:    {KindAnswer: true, KindAdvance: true, KindReturnToMenu: true},
	PhaseGameOver:  {KindReset: true},
	PhaseVictory:   {KindReset: true},
}

// Allowed reports whether a command of kind k may be applied in phase p.
// Unknown phases and kinds are never allowed.
func Allowed(p Phase, k CommandKind) bool {
	return legal[p][k]
}
