// Package scheduler runs the periodic vaccination reminder sweep.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/apps/vaccination"
	"github.com/ahmetcoskunkizilkaya/medmitra-backend/internal/models"
)

const batchSize = 100

// UserSource walks every user with vaccinations loaded.
type UserSource interface {
	EachUserBatch(ctx context.Context, size int, fn func([]models.User) error) error
}

// Scanner logs a reminder for every open vaccination entry due today. It
// never writes anything back, so sweeps can repeat without dedup state.
type Scanner struct {
	source    UserSource
	projector *vaccination.Projector
	interval  time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScanner(source UserSource, projector *vaccination.Projector, interval time.Duration, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{source: source, projector: projector, interval: interval, logger: logger}
}

// Start runs one sweep right away and then one per interval until ctx is
// cancelled or Stop is called. Calling Start on a running scanner is a no-op.
func (s *Scanner) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.run(ctx)
		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("reminder scanner started", "interval", s.interval.String())
}

// Stop cancels the loop and waits for an in-flight sweep to return.
func (s *Scanner) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("reminder scanner stopped")
}

func (s *Scanner) run(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("reminder sweep failed", "action", "reminder_sweep", "error", err)
	}
}

// Sweep performs a single pass and returns how many reminders it logged.
func (s *Scanner) Sweep(ctx context.Context) (int, error) {
	count := 0
	err := s.source.EachUserBatch(ctx, batchSize, func(users []models.User) error {
		for i := range users {
			for _, r := range s.projector.PendingEntries(&users[i], 0) {
				s.logger.Info("vaccination reminder",
					"email", users[i].Email,
					"vaccine", r.Entry.VaccineName,
					"dose", r.Entry.DoseNumber,
					"due", r.Entry.NextDoseDate,
				)
				count++
			}
		}
		return nil
	})
	return count, err
}
