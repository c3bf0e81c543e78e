package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vidfetch-server/internal/config"
	"vidfetch-server/internal/extract"
	"vidfetch-server/internal/formats"
	"vidfetch-server/internal/models"
	"vidfetch-server/internal/stats"
)

// acquireTimeout bounds how long a worker waits for a concurrency slot
// before failing its job with "server busy".
const acquireTimeout = 10 * time.Second

// ErrAlreadyDone is returned by Cancel for jobs in a terminal state.
var ErrAlreadyDone = errors.New("job already finished")

var (
	nonWordChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Extractor is the slice of the extraction chain a worker needs.
type Extractor interface {
	Info(ctx context.Context, url string) (*extract.Metadata, error)
	Download(ctx context.Context, url string, format extract.Format, destPath string, progress extract.ProgressFunc) error
}

// Manager owns the job lifecycle: it creates records, spawns one worker
// goroutine per job and is the only writer of a job's mutable fields.
type Manager struct {
	store     Store
	extractor Extractor
	stats     *stats.Collector
	cfg       *config.Config
	queue     chan struct{}

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func NewManager(store Store, extractor Extractor, st *stats.Collector, cfg *config.Config) *Manager {
	return &Manager{
		store:     store,
		extractor: extractor,
		stats:     st,
		cfg:       cfg,
		queue:     make(chan struct{}, cfg.MaxConcurrentJobs),
		cancels:   make(map[string]context.CancelFunc),
	}
}

// Start registers a pending job and launches its worker. Every call yields
// a fresh id, even for a URL that is already downloading.
func (m *Manager) Start(url, quality string) string {
	job := &models.Job{
		ID:        uuid.New().String(),
		SourceURL: url,
		Quality:   quality,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	m.store.Create(job)
	m.stats.JobStarted()

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	go m.runWorker(ctx, job.ID, url, quality)

	return job.ID
}

// Cancel stops a running worker best-effort. The job fails with
// "cancelled" once the worker observes the context.
func (m *Manager) Cancel(id string) error {
	job, err := m.store.Get(id)
	if err != nil {
		return err
	}
	if job.Status.IsTerminal() {
		return ErrAlreadyDone
	}
	m.mu.Lock()
	cancel, ok := m.cancels[id]
	m.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

// Remove drops a job record and its backing file. Used by deliver-once
// cleanup after a successful serve; file removal is best-effort.
func (m *Manager) Remove(id string) {
	job, err := m.store.Get(id)
	if err != nil {
		return
	}
	if job.FilePath != "" {
		if err := os.Remove(job.FilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("job %s: could not remove file: %v", id, err)
		}
	}
	m.store.Delete(id)
}

func (m *Manager) runWorker(ctx context.Context, id, url, quality string) {
	defer m.releaseCancel(id)

	select {
	case m.queue <- struct{}{}:
		defer func() { <-m.queue }()
	case <-time.After(acquireTimeout):
		m.fail(id, "server busy")
		return
	case <-ctx.Done():
		m.fail(id, "cancelled")
		return
	}

	m.store.Update(id, func(j *models.Job) {
		j.Status = models.StatusRunning
	})

	md, err := m.extractor.Info(ctx, url)
	if err != nil {
		m.failErr(ctx, id, err)
		return
	}

	format, ok := formats.PickFormat(md.Formats, quality)
	if !ok {
		m.fail(id, "no suitable format found")
		return
	}

	fileName := buildFileName(md.Title, id, format)
	destPath := filepath.Join(m.cfg.DownloadDir, fileName)

	err = m.extractor.Download(ctx, url, format, destPath, func(received, total int64) {
		m.reportProgress(id, received, total)
	})
	if err != nil {
		m.failErr(ctx, id, err)
		// Partial output is removed eagerly so a file on disk always
		// belongs to a complete job.
		if rmErr := os.Remove(destPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("job %s: could not remove partial file: %v", id, rmErr)
		}
		return
	}

	m.store.Update(id, func(j *models.Job) {
		j.Status = models.StatusComplete
		j.Progress = 100
		j.Filename = fileName
		j.FilePath = destPath
	})
	if done, err := m.store.Get(id); err == nil {
		m.stats.JobCompleted(done.BytesReceived)
	}
	log.Printf("job %s: complete (%s)", id, fileName)
}

// reportProgress converts byte counters into a monotonic percentage,
// capped at 99: only the completion transition writes 100, so a job never
// claims to be done early.
func (m *Manager) reportProgress(id string, received, total int64) {
	m.store.Update(id, func(j *models.Job) {
		j.BytesReceived = received
		if total > 0 {
			j.TotalBytes = total
		}
		if pct := estimatePercent(received, j.TotalBytes); pct > j.Progress {
			j.Progress = pct
		}
	})
}

func estimatePercent(received, total int64) int {
	var pct int
	if total > 0 {
		pct = int(received * 100 / total)
	} else {
		// No length from upstream: creep up one point per MiB received.
		pct = int(received >> 20)
	}
	if pct > 99 {
		pct = 99
	}
	return pct
}

func (m *Manager) failErr(ctx context.Context, id string, err error) {
	if ctx.Err() != nil {
		m.fail(id, "cancelled")
		return
	}
	m.fail(id, err.Error())
}

func (m *Manager) fail(id, detail string) {
	m.store.Update(id, func(j *models.Job) {
		if j.Status.IsTerminal() {
			return
		}
		j.Status = models.StatusFailed
		j.Error = detail
	})
	m.stats.JobFailed()
	log.Printf("job %s: failed: %s", id, detail)
}

func (m *Manager) releaseCancel(id string) {
	m.mu.Lock()
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
	m.mu.Unlock()
}

// buildFileName derives a filesystem-safe name from the video title and
// the job id: non-word characters stripped, whitespace collapsed to
// underscores.
func buildFileName(title, id string, f extract.Format) string {
	safe := nonWordChars.ReplaceAllString(title, "")
	safe = whitespace.ReplaceAllString(strings.TrimSpace(safe), "_")
	if safe == "" {
		safe = "video"
	}
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	if f.QualityLabel != "" {
		return fmt.Sprintf("%s_%s_%s.mp4", safe, f.QualityLabel, short)
	}
	return fmt.Sprintf("%s_%s.mp4", safe, short)
}
