package game

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
)

// NoticeKind is a discrete presentation/audio cue.
type NoticeKind string

const (
	NoticeClick           NoticeKind = "click"
	NoticeTravelStart     NoticeKind = "travel-start"
	NoticeLanding         NoticeKind = "landing"
	NoticeTravelFailed    NoticeKind = "travel-failed"
	NoticeAnswerCorrect   NoticeKind = "answer-correct"
	NoticeAnswerIncorrect NoticeKind = "answer-incorrect"
	NoticeMissionPass     NoticeKind = "mission-pass"
	NoticeMissionFail     NoticeKind = "mission-fail"
	NoticeGameOver        NoticeKind = "game-over"
	NoticeVictory         NoticeKind = "victory"
)

// Notice is one cue, optionally tied to a destination.
type Notice struct {
	Kind        NoticeKind `json:"kind"`
	Destination galaxy.ID  `json:"destination,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// Notifier receives phase changes and cues. Calls are made while the engine
// holds its lock, so implementations must return quickly and must not call
// back into the engine.
type Notifier interface {
	PhaseChanged(from, to Phase)
	Notify(n Notice)
}

// Notifiers fans out to every notifier in the slice.
type Notifiers []Notifier

func (ns Notifiers) PhaseChanged(from, to Phase) {
	for _, n := range ns {
		n.PhaseChanged(from, to)
	}
}

func (ns Notifiers) Notify(n Notice) {
	for _, x := range ns {
		x.Notify(n)
	}
}

// LogNotifier writes cues to the debug log.
type LogNotifier struct{}

func (LogNotifier) PhaseChanged(from, to Phase) {
	log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("phase changed")
}

func (LogNotifier) Notify(n Notice) {
	log.Debug().Str("notice", string(n.Kind)).Str("destination", string(n.Destination)).Msg("notice")
}
