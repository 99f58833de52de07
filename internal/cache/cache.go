// Package cache is the in-process lookaside store for live rosters, keyed
// by card id. Entries are bounded by count and by TTL; whatever falls out
// is rebuilt on demand from the token embedded in the card itself.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/luk-gg/lukchan/internal/codec"
	"github.com/luk-gg/lukchan/internal/roster"
)

const (
	DefaultSize = 1024
	DefaultTTL  = 3 * time.Hour
)

type Store struct {
	log *zap.Logger
	lru *expirable.LRU[string, *roster.Group]
	sf  singleflight.Group

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(size int, ttl time.Duration, log *zap.Logger) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}
	s.lru = expirable.NewLRU(size, func(cardID string, _ *roster.Group) {
		log.Debug("card evicted", zap.String("card_id", cardID))
	}, ttl)
	return s
}

// Get returns the cached roster, if present and unexpired.
func (s *Store) Get(cardID string) (*roster.Group, bool) {
	return s.lru.Get(cardID)
}

// Put installs (or refreshes) the roster for a card.
func (s *Store) Put(cardID string, g *roster.Group) {
	s.lru.Add(cardID, g)
}

// GetOrDecode is the read-through path: a hit returns the shared live
// instance; a miss reconstructs the roster from the fallback token,
// caches it and returns it. Concurrent misses for the same card are
// coalesced so only one decode runs.
func (s *Store) GetOrDecode(cardID, token string) (*roster.Group, error) {
	if g, ok := s.lru.Get(cardID); ok {
		return g, nil
	}

	v, err, _ := s.sf.Do(cardID, func() (any, error) {
		// Re-check: another caller may have finished between our miss
		// and entering the flight.
		if g, ok := s.lru.Get(cardID); ok {
			return g, nil
		}
		g, err := codec.Decode(token)
		if err != nil {
			return nil, err
		}
		s.lru.Add(cardID, g)
		s.log.Debug("card reconstructed from token", zap.String("card_id", cardID))
		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*roster.Group), nil
}

// Do runs fn inside the card's critical section. All mutation of a card's
// roster (decode, apply, render, cache write) goes through here; cards
// are independent, so sections for different ids run in parallel.
//
// Lock entries are tiny and never reclaimed; they are bounded by the
// number of distinct cards the process has touched, not by the LRU.
func (s *Store) Do(cardID string, fn func() error) error {
	s.mu.Lock()
	l, ok := s.locks[cardID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[cardID] = l
	}
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn()
}

func (s *Store) Len() int { return s.lru.Len() }
