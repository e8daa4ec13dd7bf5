// internal/galaxy/galaxy.go
//
// The fixed set of six destinations and their completion flags.
// Static display attributes never change; only Completed mutates, and only
// from false to true until a reset.

package galaxy

import (
	"errors"
	"strings"
)

// ID identifies a destination (and the trivia theme it carries).
type ID string

const (
	Nature  ID = "NATURE"
	Science ID = "SCIENCE"
	History ID = "HISTORY"
	Space   ID = "SPACE"
	Ocean   ID = "OCEAN"
	Art     ID = "ART"
)

var ErrUnknownDestination = errors.New("unknown destination")

// Position is a map coordinate as a percentage (0-100) of each axis.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Destination is one planet on the map.
type Destination struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
	Position    Position `json:"position"`
	Completed   bool     `json:"completed"`
}

var catalog = []Destination{
	{ID: Nature, Name: "Terra Verde", Color: "#22c55e", Icon: "leaf", Description: "The Jungle Planet. Home to amazing animals and lush forests!", Position: Position{15, 30}},
	{ID: Science, Name: "Atomos", Color: "#3b82f6", Icon: "microscope", Description: "The Lab World. Where science experiments come to life!", Position: Position{85, 25}},
	{ID: History, Name: "Chronos", Color: "#eab308", Icon: "hourglass", Description: "The Time Capsule. Travel back to ancient history!", Position: Position{20, 65}},
	{ID: Space, Name: "Stardust", Color: "#a855f7", Icon: "rocket", Description: "Deep Space Outpost. Explore the mysteries of the universe!", Position: Position{80, 70}},
	{ID: Ocean, Name: "Aquaria", Color: "#06b6d4", Icon: "fish", Description: "The Water World. Dive deep into the blue ocean!", Position: Position{50, 45}},
	{ID: Art, Name: "Muse", Color: "#ec4899", Icon: "palette", Description: "The Creative Comet. Painting, music, and imagination!", Position: Position{50, 80}},
}

// IDs returns every destination ID in map order.
func IDs() []ID {
	out := make([]ID, len(catalog))
	for i, d := range catalog {
		out[i] = d.ID
	}
	return out
}

// ParseID matches s case-insensitively against the catalog.
func ParseID(s string) (ID, error) {
	id := ID(strings.ToUpper(strings.TrimSpace(s)))
	for _, d := range catalog {
		if d.ID == id {
			return id, nil
		}
	}
	return "", ErrUnknownDestination
}

// Map is the mutable view of the catalog: the same six destinations with
// their completion flags.
type Map struct {
	dests []Destination
}

// NewMap returns all destinations, none completed.
func NewMap() *Map {
	m := &Map{dests: make([]Destination, len(catalog))}
	copy(m.dests, catalog)
	return m
}

// Get returns the destination with the given id.
func (m *Map) Get(id ID) (Destination, bool) {
	for _, d := range m.dests {
		if d.ID == id {
			return d, true
		}
	}
	return Destination{}, false
}

// Complete marks id completed. It reports true only on the first call
// for that destination.
func (m *Map) Complete(id ID) bool {
	for i := range m.dests {
		if m.dests[i].ID == id {
			if m.dests[i].Completed {
				return false
			}
			m.dests[i].Completed = true
			return true
		}
	}
	return false
}

// AllCompleted reports whether every destination has been completed.
func (m *Map) AllCompleted() bool {
	for _, d := range m.dests {
		if !d.Completed {
			return false
		}
	}
	return true
}

// Reset clears every completion flag.
func (m *Map) Reset() {
	for i := range m.dests {
		m.dests[i].Completed = false
	}
}

// List returns a copy of the destinations in map order.
func (m *Map) List() []Destination {
	out := make([]Destination, len(m.dests))
	copy(out, m.dests)
	return out
}

// Completion is the persisted form of one completion flag.
type Completion struct {
	ID        ID   `json:"id"`
	Completed bool `json:"completed"`
}

// Completions exports the flags for persistence.
func (m *Map) Completions() []Completion {
	out := make([]Completion, len(m.dests))
	for i, d := range m.dests {
		out[i] = Completion{ID: d.ID, Completed: d.Completed}
	}
	return out
}

// Restore applies saved flags. Unknown ids are ignored.
func (m *Map) Restore(cs []Completion) {
	for _, c := range cs {
		if c.Completed {
			m.Complete(c.ID)
		}
	}
}
