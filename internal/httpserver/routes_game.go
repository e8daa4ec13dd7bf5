// internal/httpserver/routes_game.go
//
// HTTP routes for the progression engine.
//   - GET  /state          → current snapshot
//   - GET  /destinations   → the six planets with completion flags
//   - POST /pilot          → name (+ optional difficulty), leaves the menu, issues token
//   - POST /difficulty     → change tier while in the menu
//   - POST /select         → select / confirm a destination (?wait=1 blocks until landing)
//   - POST /select/clear   → drop the selection
//   - POST /answer         → answer the current question
//   - POST /advance        → next question or mission result
//   - POST /menu           → back to the menu
//   - POST /reset          → new run after game over or victory
//
// Every mutating route answers with the action's reply plus the new snapshot.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/game"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

// actionRes is the body of every mutating route.
type actionRes struct {
	game.Reply
	Token string        `json:"token,omitempty"`
	State game.Snapshot `json:"state"`
}

type pilotReq struct {
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
}

type difficultyReq struct {
	Difficulty string `json:"difficulty"`
}

type selectReq struct {
	Destination string `json:"destination"`
}

type answerReq struct {
	Index *int `json:"index"`
}

// mountGame registers the engine routes.
func (s *Server) mountGame(r chi.Router) {
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.eng.Snapshot())
	})
	r.Get("/destinations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.eng.Snapshot().Destinations)
	})

	r.Post("/pilot", s.handlePilot)
	r.Post("/difficulty", s.handleDifficulty)

	r.Group(func(r chi.Router) {
		r.Use(s.requirePilot())
		r.Post("/select", s.handleSelect)
		r.Post("/select/clear", s.dispatch(game.ClearSelection{}))
		r.Post("/answer", s.handleAnswer)
		r.Post("/advance", s.dispatch(game.Advance{}))
		r.Post("/menu", s.dispatch(game.ReturnToMenu{}))
		r.Post("/reset", s.dispatch(game.Reset{}))
	})
}

func (s *Server) reply(w http.ResponseWriter, rep game.Reply) {
	writeJSON(w, http.StatusOK, actionRes{Reply: rep, State: s.eng.Snapshot()})
}

// dispatch serves body-less commands.
func (s *Server) dispatch(cmd game.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := s.eng.Dispatch(cmd)
		if err != nil {
			writeErr(w, err)
			return
		}
		s.reply(w, rep)
	}
}

// handlePilot applies the optional difficulty, launches, and issues a token.
func (s *Server) handlePilot(w http.ResponseWriter, r *http.Request) {
	var req pilotReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_json"})
		return
	}
	if req.Difficulty != "" {
		d := mission.Difficulty(req.Difficulty)
		if err := s.eng.SetDifficulty(d); err != nil {
			writeErr(w, err)
			return
		}
	}
	if err := s.eng.Launch(req.Name); err != nil {
		writeErr(w, err)
		return
	}
	snap := s.eng.Snapshot()
	tok, exp, err := s.signPilot(snap.Profile.Name)
	if err != nil {
		log.Error().Err(err).Msg("sign pilot token")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "sign_failed"})
		return
	}
	s.setPilotCookie(w, tok, exp)
	log.Info().Str("pilot", snap.Profile.Name).Str("difficulty", string(snap.Profile.Difficulty)).Msg("pilot launched")
	writeJSON(w, http.StatusOK, actionRes{Token: tok, State: snap})
}

func (s *Server) handleDifficulty(w http.ResponseWriter, r *http.Request) {
	var req difficultyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_json"})
		return
	}
	if err := s.eng.SetDifficulty(mission.Difficulty(req.Difficulty)); err != nil {
		writeErr(w, err)
		return
	}
	s.reply(w, game.Reply{})
}

// handleSelect selects or confirms. With ?wait=1 a confirmation blocks
// until travel settles (or half the handler budget passes) and answers 202
// if the ship is still in flight.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_json"})
		return
	}
	id, err := galaxy.ParseID(req.Destination)
	if err != nil {
		writeErr(w, err)
		return
	}
	rep, err := s.eng.Dispatch(game.Select{Destination: id})
	if err != nil {
		writeErr(w, err)
		return
	}
	if p := pilotFrom(r.Context()); p != nil && rep.TravelStarted {
		log.Info().Str("session", p.SessionID).Str("destination", string(id)).Msg("travel started")
	}
	if rep.TravelStarted && r.URL.Query().Get("wait") == "1" {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout/2)
		defer cancel()
		if err := s.eng.AwaitTravel(ctx); err != nil {
			writeJSON(w, http.StatusAccepted, actionRes{Reply: rep, State: s.eng.Snapshot()})
			return
		}
	}
	s.reply(w, rep)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_json"})
		return
	}
	rep, err := s.eng.Dispatch(game.Answer{Index: *req.Index})
	if err != nil {
		writeErr(w, err)
		return
	}
	s.reply(w, rep)
}

// handleWS greets the client with the current snapshot, then streams
// phase changes and events.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	snap := s.eng.Snapshot()
	s.hub.serve(w, r, wsOut{Type: "state", State: &snap})
}
