package game

import (
	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
	"github.com/robalobadob/galactic-brain/internal/player"
	"github.com/robalobadob/galactic-brain/internal/travel"
)

// Snapshot is a read-only copy of the engine state for presentation.
type Snapshot struct {
	Phase        Phase                `json:"phase"`
	Version      uint64               `json:"version"`
	Profile      player.Profile       `json:"profile"`
	Destinations []galaxy.Destination `json:"destinations"`
	Selected     *galaxy.ID           `json:"selected"`
	TravelStage  travel.Stage         `json:"travelStage,omitempty"`
	Notice       string               `json:"notice,omitempty"`
	Mission      *MissionView         `json:"mission,omitempty"`
}

// MissionView hides the correct answer until the question is answered.
type MissionView struct {
	ID                 string             `json:"id"`
	Destination        galaxy.ID          `json:"destination"`
	Difficulty         mission.Difficulty `json:"difficulty"`
	Topic              string             `json:"topic"`
	Fact               string             `json:"fact"`
	Index              int                `json:"index"`
	Total              int                `json:"total"`
	PassThreshold      int                `json:"passThreshold"`
	Correct            int                `json:"correct"`
	Prompt             string             `json:"question"`
	Options            []string           `json:"options"`
	LastAnswer         *int               `json:"lastAnswer,omitempty"`
	LastOutcome        mission.Outcome    `json:"lastOutcome,omitempty"`
	CorrectAnswerIndex *int               `json:"correctAnswerIndex,omitempty"`
	Explanation        string             `json:"explanation,omitempty"`
	Padded             int                `json:"padded"`
	Degraded           bool               `json:"degraded"`
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Phase:        e.phase,
		Version:      e.version,
		Profile:      e.profile.Clone(),
		Destinations: e.planets.List(),
		TravelStage:  e.stage,
		Notice:       e.notice,
	}
	if e.selected != nil {
		id := *e.selected
		s.Selected = &id
	}
	if r := e.run; r != nil {
		q := r.Current()
		mv := &MissionView{
			ID:            r.ID,
			Destination:   r.Destination,
			Difficulty:    r.Difficulty,
			Topic:         r.Topic,
			Fact:          r.Fact,
			Index:         r.Index,
			Total:         len(r.Questions),
			PassThreshold: r.Spec.PassThreshold,
			Correct:       r.Correct,
			Prompt:        q.Prompt,
			Options:       append([]string(nil), q.Options...),
			LastOutcome:   r.LastOutcome,
			Padded:        r.Padded,
			Degraded:      r.Padded > 0,
		}
		if r.LastAnswer != nil {
			a, c := *r.LastAnswer, q.CorrectAnswerIndex
			mv.LastAnswer, mv.CorrectAnswerIndex = &a, &c
			mv.Explanation = q.Explanation
		}
		s.Mission = mv
	}
	return s
}
