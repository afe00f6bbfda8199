// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/teastore-recommender/internal/config"
	"github.com/tomtom215/teastore-recommender/internal/logging"
	"github.com/tomtom215/teastore-recommender/internal/models"
)

const (
	roundPrefix = "round:"

	// gcDiscardRatio matches the badger recommendation for value log GC.
	gcDiscardRatio = 0.5
)

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("history store is closed")

// Store is a BadgerDB-backed log of training rounds.
type Store struct {
	db        *badger.DB
	maxRounds int

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the history database described by cfg.
func Open(cfg *config.HistoryConfig) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("history path is required unless in_memory is set")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Int("max_rounds", cfg.MaxRounds).
		Msg("Training history opened")

	return &Store{db: db, maxRounds: cfg.MaxRounds}, nil
}

// roundKey orders rounds by start time; the ID breaks ties between rounds
// started in the same nanosecond.
func roundKey(r *models.TrainingRound) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", roundPrefix, r.StartedAt.UnixNano(), r.ID))
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Record stores a finished round and prunes the oldest rounds beyond the
// retention limit.
func (s *Store) Record(ctx context.Context, round *models.TrainingRound) error {
	if round == nil {
		return errors.New("round is nil")
	}
	if err := s.checkOpen(); err != nil {
		return err
	}

	data, err := json.Marshal(round)
	if err != nil {
		return fmt.Errorf("marshal round: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(roundKey(round), data))
	})
	if err != nil {
		return fmt.Errorf("write round: %w", err)
	}

	if s.maxRounds > 0 {
		if _, err := s.prune(ctx, s.maxRounds); err != nil {
			logging.Warn().Err(err).Msg("Failed to prune training history")
		}
	}
	return nil
}

// Recent returns up to limit rounds, newest first. A limit <= 0 returns all.
func (s *Store) Recent(ctx context.Context, limit int) ([]*models.TrainingRound, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var rounds []*models.TrainingRound
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(roundPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration has to start past the last key under the prefix.
		seek := append([]byte(roundPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := it.Item()
			var round models.TrainingRound
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &round)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(item.Key())).Msg("Skipping unreadable training round")
				continue
			}
			rounds = append(rounds, &round)
			if limit > 0 && len(rounds) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

// Latest returns the newest stored round, or nil when the store is empty.
func (s *Store) Latest(ctx context.Context) (*models.TrainingRound, error) {
	rounds, err := s.Recent(ctx, 1)
	if err != nil || len(rounds) == 0 {
		return nil, err
	}
	return rounds[0], nil
}

// Count returns the number of stored rounds.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := s.checkOpen(); err != nil {
		return 0, err
	}
	keys, err := s.keys(ctx)
	return len(keys), err
}

// keys returns all round keys, oldest first.
func (s *Store) keys(ctx context.Context) ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(roundPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}

// prune deletes the oldest rounds until at most keep remain.
func (s *Store) prune(ctx context.Context, keep int) (int, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("list rounds: %w", err)
	}
	excess := len(keys) - keep
	if excess <= 0 {
		return 0, nil
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys[:excess] {
		if err := wb.Delete(key); err != nil {
			return 0, fmt.Errorf("delete round: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush deletes: %w", err)
	}

	logging.Debug().Int("pruned", excess).Int("kept", keep).Msg("Pruned training history")
	return excess, nil
}

// RunGC reclaims value log space. In-memory stores have nothing to collect.
func (s *Store) RunGC() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.db.Opts().InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close closes the underlying database. It is safe to call more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	logging.Info().Msg("Training history closed")
	return nil
}
