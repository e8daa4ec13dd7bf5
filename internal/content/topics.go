// internal/content/topics.go
//
// Subtopics and difficulty instructions used to steer question generation.
// Each destination theme has a pool of subtopics; one is chosen at random
// per mission so repeat visits get different questions.

package content

import (
	"crypto/rand"
	"math/big"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/mission"
)

var subtopics = map[galaxy.ID][]string{
	galaxy.Nature:  {"Rainforest Animals", "Desert Survival", "Insects & Bugs", "Birds", "Mammals", "Reptiles", "Plant Life", "Endangered Species", "Camouflage", "Arctic Animals", "Baby Animals"},
	galaxy.Science: {"Chemistry", "Physics", "The Human Body", "Microorganisms", "Robots & AI", "Famous Inventors", "Electricity", "Weather", "Simple Machines", "Atoms", "Magnets"},
	galaxy.History: {"Ancient Egypt", "The Roman Empire", "Medieval Knights", "Vikings", "The Stone Age", "Dinosaurs & Prehistory", "World Explorers", "Ancient China", "Greek Mythology", "Pirates", "Castles"},
	galaxy.Space:   {"The Solar System", "Black Holes", "Constellations", "Space Travel", "The Moon", "Mars", "Asteroids & Comets", "Astronauts", "Galaxies", "The Sun", "Aliens (in movies)"},
	galaxy.Ocean:   {"Sharks", "Whales & Dolphins", "Coral Reefs", "Deep Sea Creatures", "Shipwrecks", "Tides & Waves", "Jellyfish", "Seahorses", "Octopuses", "Crabs & Lobsters", "Penguins"},
	galaxy.Art:     {"Famous Painters", "Musical Instruments", "Classical Music", "Modern Art", "Sculpture", "Dance", "Colors", "Architecture", "Photography", "Pottery", "Movies"},
}

// Subtopic returns a random subtopic for dest, or "General Knowledge" for
// a destination without a pool.
func Subtopic(dest galaxy.ID) string {
	pool := subtopics[dest]
	if len(pool) == 0 {
		return "General Knowledge"
	}
	return pool[randIndex(len(pool))]
}

// DifficultyInstruction describes the target audience for d.
func DifficultyInstruction(d mission.Difficulty) string {
	switch d {
	case mission.Hard:
		return "Difficulty: HARD (Age 10-12). Questions should be challenging details."
	case mission.Medium:
		return "Difficulty: MEDIUM (Age 8-10). Questions should be moderately challenging."
	default:
		return "Difficulty: EASY (Age 6-8). Questions should be simple and very well-known."
	}
}

// randIndex returns a cryptographically random index in [0, n).
func randIndex(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
