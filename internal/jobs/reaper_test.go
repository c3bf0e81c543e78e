package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vidfetch-server/internal/models"
)

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReaper_SweepRemovesExpiredTerminalJobs(t *testing.T) {
	dir := t.TempDir()
	store := NewMemoryStore()
	now := time.Now()

	oldFile := writeTempFile(t, dir, "old.mp4")
	store.Create(&models.Job{
		ID:        "old-complete",
		Status:    models.StatusComplete,
		FilePath:  oldFile,
		CreatedAt: now.Add(-2 * time.Hour),
	})
	store.Create(&models.Job{
		ID:        "old-failed",
		Status:    models.StatusFailed,
		CreatedAt: now.Add(-2 * time.Hour),
	})

	reaper := NewReaper(store, time.Hour, time.Minute)
	reaper.SweepOnce(now)

	if _, err := store.Get("old-complete"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired complete job survived the sweep")
	}
	if _, err := store.Get("old-failed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired failed job survived the sweep")
	}
	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Errorf("backing file survived the sweep")
	}
}

func TestReaper_SweepSkipsActiveAndFreshJobs(t *testing.T) {
	dir := t.TempDir()
	store := NewMemoryStore()
	now := time.Now()

	freshFile := writeTempFile(t, dir, "fresh.mp4")
	store.Create(&models.Job{
		ID:        "fresh-complete",
		Status:    models.StatusComplete,
		FilePath:  freshFile,
		CreatedAt: now.Add(-time.Minute),
	})
	// Old but still running: age alone must never reap an active job.
	store.Create(&models.Job{
		ID:        "old-running",
		Status:    models.StatusRunning,
		CreatedAt: now.Add(-3 * time.Hour),
	})
	store.Create(&models.Job{
		ID:        "old-pending",
		Status:    models.StatusPending,
		CreatedAt: now.Add(-3 * time.Hour),
	})

	reaper := NewReaper(store, time.Hour, time.Minute)
	reaper.SweepOnce(now)

	for _, id := range []string{"fresh-complete", "old-running", "old-pending"} {
		if _, err := store.Get(id); err != nil {
			t.Errorf("job %s should have survived the sweep: %v", id, err)
		}
	}
	if _, err := os.Stat(freshFile); err != nil {
		t.Errorf("fresh file should still exist: %v", err)
	}
}

func TestReaper_MissingFileIsNotAnError(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.Create(&models.Job{
		ID:        "gone",
		Status:    models.StatusComplete,
		FilePath:  filepath.Join(t.TempDir(), "never-existed.mp4"),
		CreatedAt: now.Add(-2 * time.Hour),
	})

	reaper := NewReaper(store, time.Hour, time.Minute)
	reaper.SweepOnce(now)

	if _, err := store.Get("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("job with a missing file was not reaped")
	}
}

func TestReaper_RunStops(t *testing.T) {
	store := NewMemoryStore()
	reaper := NewReaper(store, time.Hour, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		reaper.Run()
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	reaper.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Stop()")
	}
}
