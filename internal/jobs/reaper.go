package jobs

import (
	"log"
	"os"
	"time"

	"vidfetch-server/internal/models"
)

// Reaper reclaims expired job records and their files on a fixed interval.
type Reaper struct {
	store     Store
	retention time.Duration
	interval  time.Duration
	stop      chan struct{}
}

func NewReaper(store Store, retention, interval time.Duration) *Reaper {
	return &Reaper{
		store:     store,
		retention: retention,
		interval:  interval,
		stop:      make(chan struct{}),
	}
}

// Run blocks until Stop; callers launch it on its own goroutine.
func (r *Reaper) Run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.SweepOnce(time.Now())
		case <-r.stop:
			return
		}
	}
}

func (r *Reaper) Stop() {
	close(r.stop)
}

// SweepOnce deletes every terminal job older than the retention window.
// Jobs still pending or running are skipped regardless of age, so a sweep
// cannot race a worker's in-flight write. File removal is best-effort; a
// missing file is not an error.
func (r *Reaper) SweepOnce(now time.Time) {
	r.store.Range(func(job models.Job) bool {
		if !job.Status.IsTerminal() {
			return true
		}
		if now.Sub(job.CreatedAt) <= r.retention {
			return true
		}
		if job.FilePath != "" {
			if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
				log.Printf("🧹 Reaper: could not remove %s: %v", job.FilePath, err)
			}
		}
		r.store.Delete(job.ID)
		log.Println("🧹 Cleaned up job:", job.ID)
		return true
	})
}
