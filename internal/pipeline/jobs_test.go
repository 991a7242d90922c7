package pipeline

import (
	"errors"
	"testing"
	"time"
)

func TestNewJobID_UniquePerSubmission(t *testing.T) {
	body := []byte(`{"contents":[]}`)
	id1 := NewJobID("kitchen", body)
	id2 := NewJobID("kitchen", body)
	if id1 == id2 {
		t.Error("expected distinct IDs for repeated submissions of the same document")
	}
}

func TestNewJobID_Shape(t *testing.T) {
	id := NewJobID("bar", []byte("x"))
	if len(id) != 20 {
		t.Errorf("expected 20-char ID, got %d (%q)", len(id), id)
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			t.Errorf("expected hex ID, got %q", id)
			break
		}
	}
}

func TestNewJob(t *testing.T) {
	body := []byte(`{"contents":[{"println":"x"}]}`)
	job := NewJob("kitchen", "application/json", body)
	if job.ID == "" {
		t.Error("expected non-empty job ID")
	}
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got %q/%q", job.Status, job.Phase)
	}
	if job.Printer != "kitchen" || job.ContentType != "application/json" {
		t.Errorf("expected submission fields kept, got %+v", job)
	}
	if string(job.Body()) != string(body) {
		t.Error("expected body held for the worker")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("kitchen", "application/json", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusDecoding, "decoding document"},
		{StatusPrinting, "printing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.Snapshot().UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		snap := job.Snapshot()
		if snap.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, snap.Status)
		}
		if snap.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, snap.Phase)
		}
		if !snap.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_Fail(t *testing.T) {
	job := NewJob("bar", "application/json", nil)
	job.Fail("printing", errors.New("printer offline"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected failed status, got %q", snap.Status)
	}
	if snap.Phase != "printing" {
		t.Errorf("expected failing phase kept, got %q", snap.Phase)
	}
	if snap.Error != "printer offline" {
		t.Errorf("expected error recorded, got %q", snap.Error)
	}
}

func TestJob_ProgressCounters(t *testing.T) {
	job := NewJob("bar", "application/json", nil)
	job.SetNodes(4)
	job.IncrLines()
	job.IncrLines()
	job.IncrImages()

	snap := job.Snapshot()
	if snap.Progress.Nodes != 4 {
		t.Errorf("expected 4 nodes, got %d", snap.Progress.Nodes)
	}
	if snap.Progress.Lines != 2 {
		t.Errorf("expected 2 lines, got %d", snap.Progress.Lines)
	}
	if snap.Progress.Images != 1 {
		t.Errorf("expected 1 image, got %d", snap.Progress.Images)
	}
}

func TestJob_SetTitle(t *testing.T) {
	job := NewJob("bar", "application/json", nil)
	job.SetTitle("Order 42")
	if job.Snapshot().Title != "Order 42" {
		t.Errorf("expected title set, got %q", job.Snapshot().Title)
	}
}

func TestStatus_Terminal(t *testing.T) {
	for status, want := range map[JobStatus]bool{
		StatusQueued:    false,
		StatusDecoding:  false,
		StatusPrinting:  false,
		StatusCompleted: true,
		StatusFailed:    true,
	} {
		if status.Terminal() != want {
			t.Errorf("%s: expected Terminal()=%v", status, want)
		}
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("kitchen", "application/json", nil)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("kitchen", "application/json", nil)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := NewJob("kitchen", "application/json", nil)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
