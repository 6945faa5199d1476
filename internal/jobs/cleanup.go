package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/internal/repository"
)

// CleanupJob periodically clears expired password reset tokens so stale
// tokens cannot pile up in the users table.
type CleanupJob struct {
	userRepo repository.UserRepository
	interval time.Duration
	done     chan struct{}
}

func NewCleanupJob(userRepo repository.UserRepository, interval time.Duration) *CleanupJob {
	return &CleanupJob{
		userRepo: userRepo,
		interval: interval,
		done:     make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.userRepo.DeleteExpiredResetTokens(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cleanup: expired reset tokens")
		return
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up expired reset tokens")
	}
}
