package pipeline

import (
	"testing"
	"time"
)

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{ID: NewJobID(), Status: StatusQueued, Phase: "queued"}

	job.SetStatus(StatusParsing, "parsing")
	snap := job.Snapshot()
	if snap.Status != StatusParsing || snap.Phase != "parsing" {
		t.Errorf("expected parsing/parsing, got %s/%s", snap.Status, snap.Phase)
	}

	job.SetStatus(StatusCompleted, "done")
	if snap := job.Snapshot(); snap.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", snap.Status)
	}
}

func TestJob_Errors(t *testing.T) {
	job := &Job{ID: NewJobID()}
	job.AddError("broken.pdf: parse failed")
	job.AddError("empty.docx: no content")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "broken.pdf: parse failed" {
		t.Errorf("unexpected first error: %s", snap.Progress.Errors[0])
	}
}

func TestJob_SnapshotErrorsNeverNil(t *testing.T) {
	job := &Job{ID: NewJobID()}
	if errs := job.Snapshot().Progress.Errors; errs == nil {
		t.Error("snapshot errors must be an empty slice, not nil")
	}
}

func TestJob_Documents(t *testing.T) {
	job := &Job{ID: NewJobID()}
	job.SetDocuments([]DocumentInput{
		{Filename: "a.pdf", Data: []byte("x")},
		{Filename: "b.md", Data: []byte("y")},
	})

	if got := job.Snapshot().Progress.TotalDocuments; got != 2 {
		t.Errorf("expected 2 total documents, got %d", got)
	}
	docs := job.Documents()
	if len(docs) != 2 || docs[0].Filename != "a.pdf" {
		t.Errorf("unexpected documents: %+v", docs)
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: NewJobID(), UpdatedAt: time.Now()}
	store.Put(job)

	if got := store.Get(job.ID); got != job {
		t.Error("expected to retrieve the stored job")
	}
	if got := store.Get("nonexistent"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestJobStore_Cleanup(t *testing.T) {
	store := NewJobStore(time.Minute)

	stale := &Job{ID: NewJobID(), UpdatedAt: time.Now().Add(-time.Hour)}
	fresh := &Job{ID: NewJobID(), UpdatedAt: time.Now()}
	store.Put(stale)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(stale.ID) != nil {
		t.Error("expected stale job to be evicted")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestNewJobID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewJobID()
		if len(id) != 26 {
			t.Fatalf("expected 26-character id, got %d (%s)", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
