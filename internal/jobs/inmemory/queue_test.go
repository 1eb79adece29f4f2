package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/expense-scanner/internal/jobs"
)

func waitForStatus(t *testing.T, store jobs.JobStore, jobID string, want jobs.JobStatus) *jobs.ScanDocumentJob {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetJob(context.Background(), jobID)
		if err == nil && job.Status == want {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	job, _ := store.GetJob(context.Background(), jobID)
	t.Fatalf("job %s never reached status %q, last seen: %+v", jobID, want, job)
	return nil
}

func TestQueuePublishDefaults(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	job := &jobs.ScanDocumentJob{StorageHandle: "gs://b/1.jpg", MimeType: "image/jpeg"}
	if err := q.PublishScanDocument(context.Background(), job); err != nil {
		t.Fatalf("PublishScanDocument() error = %v", err)
	}

	if job.JobID == "" {
		t.Error("publish did not assign a job ID")
	}
	if job.Status != jobs.JobStatusPending {
		t.Errorf("status = %q, want %q", job.Status, jobs.JobStatusPending)
	}
	if job.CreatedAt.IsZero() {
		t.Error("publish did not set created_at")
	}
	if job.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want 3", job.MaxRetries)
	}

	if _, err := store.GetJob(context.Background(), job.JobID); err != nil {
		t.Errorf("published job not persisted: %v", err)
	}
}

func TestQueueProcessesJob(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	handled := make(chan string, 1)
	handler := func(ctx context.Context, job jobs.Job) error {
		handled <- job.GetID()
		return nil
	}
	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ScanDocumentJob{StorageHandle: "gs://b/1.jpg", MimeType: "image/jpeg"}
	if err := q.PublishScanDocument(context.Background(), job); err != nil {
		t.Fatalf("PublishScanDocument() error = %v", err)
	}

	select {
	case id := <-handled:
		if id != job.JobID {
			t.Errorf("handler saw job %q, want %q", id, job.JobID)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler was never invoked")
	}

	final := waitForStatus(t, store, job.JobID, jobs.JobStatusCompleted)
	if final.StartedAt == nil || final.CompletedAt == nil {
		t.Errorf("timestamps missing on completed job: %+v", final)
	}
	if final.Error != "" {
		t.Errorf("completed job carries error %q", final.Error)
	}
}

func TestQueueMarksFailureForRetry(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)
	defer q.Close()

	handler := func(ctx context.Context, job jobs.Job) error {
		return errors.New("fetch failed")
	}
	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ScanDocumentJob{StorageHandle: "gs://b/1.jpg", MimeType: "image/jpeg"}
	if err := q.PublishScanDocument(context.Background(), job); err != nil {
		t.Fatalf("PublishScanDocument() error = %v", err)
	}

	got := waitForStatus(t, store, job.JobID, jobs.JobStatusRetrying)
	if got.Error == "" {
		t.Error("failed job has no error message")
	}
	if got.RetryCount != 1 {
		t.Errorf("retry_count = %d, want 1", got.RetryCount)
	}
}

func TestQueueStopUnblocksPendingPublish(t *testing.T) {
	// No consumers: the first publish fills the buffer, the second blocks on
	// the channel send. Stop must still complete and release the publisher.
	store := NewStore()
	q := NewQueue(1, store)

	if err := q.PublishScanDocument(context.Background(), &jobs.ScanDocumentJob{StorageHandle: "gs://b/1.jpg"}); err != nil {
		t.Fatalf("PublishScanDocument() error = %v", err)
	}

	pubErr := make(chan error, 1)
	go func() {
		pubErr <- q.PublishScanDocument(context.Background(), &jobs.ScanDocumentJob{StorageHandle: "gs://b/2.jpg"})
	}()
	time.Sleep(50 * time.Millisecond) // let the publisher block on the send

	stopErr := make(chan error, 1)
	go func() { stopErr <- q.Stop(context.Background()) }()

	select {
	case err := <-stopErr:
		if err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop() deadlocked behind a blocked publisher")
	}

	select {
	case err := <-pubErr:
		if err == nil {
			t.Error("blocked publish succeeded on a stopped queue")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("blocked publisher never released after Stop()")
	}
}

func TestQueueRejectsPublishAfterClose(t *testing.T) {
	q := NewQueue(1, NewStore())
	if err := q.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := q.PublishScanDocument(context.Background(), &jobs.ScanDocumentJob{})
	if err == nil {
		t.Error("PublishScanDocument() succeeded on a closed queue")
	}
}

func TestQueueStopWaitsForWorkers(t *testing.T) {
	store := NewStore()
	q := NewQueue(10, store)

	release := make(chan struct{})
	handler := func(ctx context.Context, job jobs.Job) error {
		<-release
		return nil
	}
	if err := q.Start(context.Background(), handler); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	job := &jobs.ScanDocumentJob{StorageHandle: "gs://b/1.jpg"}
	if err := q.PublishScanDocument(context.Background(), job); err != nil {
		t.Fatalf("PublishScanDocument() error = %v", err)
	}
	waitForStatus(t, store, job.JobID, jobs.JobStatusRunning)

	stopErr := make(chan error, 1)
	go func() { stopErr <- q.Stop(context.Background()) }()

	select {
	case err := <-stopErr:
		t.Fatalf("Stop() returned %v while a job was still in flight", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-stopErr:
		if err != nil {
			t.Errorf("Stop() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Stop() never returned after the in-flight job finished")
	}
}
