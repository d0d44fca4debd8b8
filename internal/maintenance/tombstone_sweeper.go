package maintenance

import (
	"context"
	"log/slog"
	"time"

	"launchit/internal/config"
	"launchit/internal/domain/repositories"
	"launchit/internal/metrics"
)

// TombstoneSweeperJob is the registry name of the sweeper
const TombstoneSweeperJob = "tombstone-sweeper"

// TombstoneSweeper erases tombstoned comments whose replies are all gone.
// Each pass removes one level, so a chain of tombstones collapses over
// repeated passes.
type TombstoneSweeper struct {
	commentRepo repositories.CommentRepository
	metrics     *metrics.Metrics
	logger      *slog.Logger
	timeout     time.Duration
}

// NewTombstoneSweeper creates a new sweeper
func NewTombstoneSweeper(commentRepo repositories.CommentRepository, m *metrics.Metrics, logger *slog.Logger) *TombstoneSweeper {
	return &TombstoneSweeper{
		commentRepo: commentRepo,
		metrics:     m,
		logger:      logger,
		timeout:     time.Minute,
	}
}

// Sweep runs passes until nothing is erased or config.MaxSweepPasses is reached.
// Returns the total number of erased comments.
func (s *TombstoneSweeper) Sweep(ctx context.Context) (int, error) {
	total := 0
	for pass := 0; pass < config.MaxSweepPasses; pass++ {
		n, err := s.commentRepo.SweepTombstones(ctx)
		if err != nil {
			s.metrics.TombstonesSwept(total)
			return total, err
		}
		total += n
		if n == 0 {
			break
		}
	}

	s.metrics.TombstonesSwept(total)
	return total, nil
}

// Job returns the sweeper as a cron job body
func (s *TombstoneSweeper) Job() JobFunc {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		n, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("tombstone sweep failed", "erased", n, "error", err)
			return
		}
		if n > 0 {
			s.logger.Info("tombstones swept", "erased", n, "duration", time.Since(start))
		}
	}
}
