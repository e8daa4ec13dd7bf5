// internal/game/persist.go
//
// Persistence adapter between the engine and a store.Gateway.
// Responsibilities:
//   - Load the saved profile and completion list once at startup.
//   - Queue writes after every committed mutation without blocking the engine.
//
// Notes:
//   - Only the latest value per key is kept while a write is pending, so a
//     slow store never builds an unbounded backlog.
//   - Write failures are logged and dropped; in-memory state is unaffected.

package game

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/galactic-brain/internal/galaxy"
	"github.com/robalobadob/galactic-brain/internal/player"
	"github.com/robalobadob/galactic-brain/internal/store"
)

const (
	KeyProfile = "gb_player"
	KeyPlanets = "gb_planets"

	writeTimeout = 5 * time.Second
)

type pendingWrite struct {
	value  []byte
	remove bool
}

// saver is a single background writer with per-key coalescing.
type saver struct {
	gw      store.Gateway
	mu      sync.Mutex
	pending map[string]pendingWrite
	wake    chan struct{}
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
}

func newSaver(gw store.Gateway) *saver {
	s := &saver{
		gw:      gw,
		pending: make(map[string]pendingWrite),
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *saver) save(key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("encode save record")
		return
	}
	s.enqueue(key, pendingWrite{value: b})
}

func (s *saver) remove(key string) {
	s.enqueue(key, pendingWrite{remove: true})
}

func (s *saver) enqueue(key string, w pendingWrite) {
	s.mu.Lock()
	s.pending[key] = w
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *saver) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.wake:
			s.flush()
		case <-s.quit:
			s.flush()
			return
		}
	}
}

func (s *saver) flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[string]pendingWrite)
	s.mu.Unlock()

	for key, w := range batch {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		var err error
		if w.remove {
			err = s.gw.Remove(ctx, key)
		} else {
			err = s.gw.Save(ctx, key, w.value)
		}
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("persist failed")
		}
	}
}

// close drains pending writes and stops the writer. Safe to call twice.
func (s *saver) close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

// load reads the saved records. Missing or unreadable records yield a
// fresh profile and no completions.
func load(ctx context.Context, gw store.Gateway) (*player.Profile, []galaxy.Completion) {
	p := player.New("")
	if b, err := gw.Load(ctx, KeyProfile); err == nil {
		var saved player.Profile
		if err := json.Unmarshal(b, &saved); err != nil {
			log.Warn().Err(err).Str("key", KeyProfile).Msg("discarding unreadable save")
		} else {
			saved.Sanitize()
			p = &saved
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Str("key", KeyProfile).Msg("load failed")
	}

	var cs []galaxy.Completion
	if b, err := gw.Load(ctx, KeyPlanets); err == nil {
		if err := json.Unmarshal(b, &cs); err != nil {
			log.Warn().Err(err).Str("key", KeyPlanets).Msg("discarding unreadable save")
			cs = nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn().Err(err).Str("key", KeyPlanets).Msg("load failed")
	}
	return p, cs
}
