// TeaStore Recommender - Slope-One Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/teastore-recommender

package sync

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/teastore-recommender/internal/metrics"
)

// ErrSourceUnavailable marks a failed generation poll. It never ends the wait
// loop; it is exported so callers can match wrapped poll errors.
var ErrSourceUnavailable = errors.New("persistence service unavailable")

// WaitSchedule is the delay sequence between generation polls.
// The last entry repeats forever.
type WaitSchedule []time.Duration

// Delay returns the delay after the given zero-based failed attempt.
func (s WaitSchedule) Delay(attempt int) time.Duration {
	if len(s) == 0 {
		return 0
	}
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(s) {
		return s[len(s)-1]
	}
	return s[attempt]
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// waitForSource polls the persistence service until it reports that database
// generation has finished. There is no retry cap: the only way out besides
// success is ctx cancellation.
func (s *Synchronizer) waitForSource(ctx context.Context) error {
	log := s.ctxLogger(ctx)

	for attempt := 0; ; attempt++ {
		finished, err := s.source.GeneratorFinished(ctx)
		switch {
		case err == nil && finished:
			metrics.RecordSourceWait("finished")
			if attempt > 0 {
				log.Info().Int("attempts", attempt+1).Msg("Persistence service finished generating the database")
			}
			return nil
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.RecordSourceWait("unavailable")
			log.Debug().Err(errors.Join(ErrSourceUnavailable, err)).Int("attempt", attempt+1).Msg("Generation poll failed")
		default:
			metrics.RecordSourceWait("pending")
		}

		delay := s.schedule.Delay(attempt)
		log.Info().Dur("wait", delay).Msg("Persistence not reachable or still generating, waiting")
		if err := sleepContext(ctx, delay); err != nil {
			return err
		}
	}
}
