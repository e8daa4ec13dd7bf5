// internal/player/profile.go
//
// PlayerProfile aggregate.
// Responsibilities:
//   - Validate the pilot name (trimmed, non-empty, at most MaxNameLen runes).
//   - Keep fuel clamped to [0, MaxFuel] and score non-decreasing.
//   - Hold the badge set (each destination at most once).
//
// The profile is owned by the game engine; every mutation goes through it.

package player

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

const (
	MaxFuel    = 100
	MaxNameLen = 12
)

var (
	ErrEmptyName   = errors.New("pilot name is required")
	ErrNameTooLong = errors.New("pilot name must be at most 12 characters")
)

// Profile is the persisted player record.
type Profile struct {
	Name       string             `json:"name"`
	Fuel       int                `json:"fuel"`
	Score      int                `json:"score"`
	Badges     []galaxy.ID        `json:"badges"`
	Difficulty mission.Difficulty `json:"difficulty"`
}

// New returns a fresh profile for name: full tank, no score, no badges, easy.
func New(name string) *Profile {
	return &Profile{
		Name:       name,
		Fuel:       MaxFuel,
		Badges:     []galaxy.ID{},
		Difficulty: mission.Easy,
	}
}

// NormalizeName trims s and enforces the name rules.
func NormalizeName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(s) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return s, nil
}

// Credit adds score and fuel, capping fuel at MaxFuel.
func (p *Profile) Credit(score, fuel int) {
	if score > 0 {
		p.Score += score
	}
	p.Fuel = clamp(p.Fuel + fuel)
}

// Debit removes fuel, never going below zero.
func (p *Profile) Debit(fuel int) {
	p.Fuel = clamp(p.Fuel - fuel)
}

// Empty reports whether the tank is dry.
func (p *Profile) Empty() bool { return p.Fuel <= 0 }

// HasBadge reports whether id was already earned.
func (p *Profile) HasBadge(id galaxy.ID) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// AwardBadge adds id once. It reports whether the badge is new.
func (p *Profile) AwardBadge(id galaxy.ID) bool {
	if p.HasBadge(id) {
		return false
	}
	p.Badges = append(p.Badges, id)
	return true
}

// Sanitize repairs a profile loaded from storage: clamps fuel, drops
// negative score, unknown or duplicate badges, and normalizes difficulty.
func (p *Profile) Sanitize() {
	p.Fuel = clamp(p.Fuel)
	if p.Score < 0 {
		p.Score = 0
	}
	p.Difficulty = mission.ParseDifficulty(string(p.Difficulty))
	badges := make([]galaxy.ID, 0, len(p.Badges))
	seen := map[galaxy.ID]bool{}
	for _, b := range p.Badges {
		id, err := galaxy.ParseID(string(b))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		badges = append(badges, id)
	}
	p.Badges = badges
	if n, err := NormalizeName(p.Name); err == nil {
		p.Name = n
	} else {
		p.Name = ""
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() Profile {
	c := *p
	c.Badges = append([]galaxy.ID{}, p.Badges...)
	return c
}

func clamp(f int) int {
	if f < 0 {
		return 0
	}
	if f > MaxFuel {
		return MaxFuel
	}
	return f
}
