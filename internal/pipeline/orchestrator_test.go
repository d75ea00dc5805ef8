package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docsift/internal/config"
)

func newTestOrchestrator(queueSize int) *Orchestrator {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		WorkerCount:        1,
		MaxQueueSize:       queueSize,
		MaxConcurrentParse: 2,
		JobTTL:             time.Hour,
	}
	return NewOrchestrator(cfg, nil, log)
}

func TestOrchestrator_SubmitAndProcess(t *testing.T) {
	o := newTestOrchestrator(4)
	o.Start(context.Background())
	defer o.Stop()

	job := newTestJob([]DocumentInput{
		{Filename: "guide.md", Data: []byte(guideMarkdown)},
	})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected submitted job to be retrievable")
	}

	deadline := time.After(10 * time.Second)
	for {
		snap := job.Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed || snap.Status == StatusPartial {
			t.Fatalf("unexpected terminal status %s: %v", snap.Status, snap.Progress.Errors)
		}
		select {
		case <-deadline:
			t.Fatalf("job did not complete, stuck at %s", snap.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}

	res := job.Result()
	if res == nil || len(res.ExtractedSections) == 0 {
		t.Fatal("expected a completed result with sections")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Workers never started, so the queue fills up.
	o := newTestOrchestrator(1)

	first := newTestJob(nil)
	if err := o.Submit(first); err != nil {
		t.Fatalf("first submit should fit the queue: %v", err)
	}

	second := newTestJob(nil)
	if err := o.Submit(second); err == nil {
		t.Fatal("expected queue-full error")
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed {
		t.Errorf("expected rejected job to be marked failed, got %s", snap.Status)
	}
}
