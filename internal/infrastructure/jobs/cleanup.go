package jobs

import (
	"context"
	"log"
	"time"
)

// staleProcessingAfter is how long a profile may sit in PROCESSING before
// the run is considered abandoned
const staleProcessingAfter = 30 * time.Minute

type expiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type staleProfileResetter interface {
	ResetStaleProcessing(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupJob periodically removes expired verification and refresh tokens
// and fails profile runs abandoned mid-processing
type CleanupJob struct {
	verifications expiredDeleter
	refreshTokens expiredDeleter
	profiles      staleProfileResetter
	interval      time.Duration
	stop          chan struct{}
}

func NewCleanupJob(verifications, refreshTokens expiredDeleter, profiles staleProfileResetter) *CleanupJob {
	return &CleanupJob{
		verifications: verifications,
		refreshTokens: refreshTokens,
		profiles:      profiles,
		interval:      time.Hour,
		stop:          make(chan struct{}),
	}
}

func (j *CleanupJob) Start(ctx context.Context) {
	log.Println("🕐 Starting cleanup job...")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Cleanup job stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Cleanup job stopped")
			return
		case <-ticker.C:
			j.runCleanup(ctx)
		}
	}
}

func (j *CleanupJob) Stop() {
	close(j.stop)
}

func (j *CleanupJob) runCleanup(ctx context.Context) {
	if n, err := j.verifications.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Error deleting expired email verifications: %v", err)
	} else if n > 0 {
		log.Printf("✅ Deleted %d expired email verifications", n)
	}

	if n, err := j.refreshTokens.DeleteExpired(ctx); err != nil {
		log.Printf("❌ Error deleting expired refresh tokens: %v", err)
	} else if n > 0 {
		log.Printf("✅ Deleted %d expired refresh tokens", n)
	}

	cutoff := time.Now().Add(-staleProcessingAfter)
	if n, err := j.profiles.ResetStaleProcessing(ctx, cutoff); err != nil {
		log.Printf("❌ Error failing stale processing profiles: %v", err)
	} else if n > 0 {
		log.Printf("✅ Marked %d stale processing profiles as failed", n)
	}
}
