package inmemory

import (
	"context"
	"testing"

	"github.com/dvloznov/expense-scanner/internal/jobs"
)

func TestStoreSaveAndGet(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	job := &jobs.ScanDocumentJob{
		JobID:         "job-1",
		StorageHandle: "gs://receipts/scan.jpg",
		MimeType:      "image/jpeg",
		Status:        jobs.JobStatusPending,
	}
	if err := store.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	got, err := store.GetJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if got.StorageHandle != job.StorageHandle || got.Status != jobs.JobStatusPending {
		t.Errorf("GetJob() = %+v", got)
	}

	// Returned job must be a copy, not shared state.
	got.Status = jobs.JobStatusFailed
	again, _ := store.GetJob(ctx, "job-1")
	if again.Status != jobs.JobStatusPending {
		t.Error("mutating a returned job changed stored state")
	}
}

func TestStoreSaveRequiresID(t *testing.T) {
	store := NewStore()
	if err := store.SaveJob(context.Background(), &jobs.ScanDocumentJob{}); err == nil {
		t.Error("SaveJob() accepted a job without an ID")
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := NewStore()
	if _, err := store.GetJob(context.Background(), "nope"); err == nil {
		t.Error("GetJob() returned no error for a missing job")
	}
}

func TestStoreListJobs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	seed := []*jobs.ScanDocumentJob{
		{JobID: "a", StorageHandle: "gs://b/1.jpg", Status: jobs.JobStatusPending},
		{JobID: "b", StorageHandle: "gs://b/1.jpg", Status: jobs.JobStatusCompleted},
		{JobID: "c", StorageHandle: "gs://b/2.pdf", Status: jobs.JobStatusPending},
	}
	for _, j := range seed {
		if err := store.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob(%s) error = %v", j.JobID, err)
		}
	}

	tests := []struct {
		name   string
		filter jobs.JobFilter
		want   int
	}{
		{"all", jobs.JobFilter{}, 3},
		{"by handle", jobs.JobFilter{StorageHandle: "gs://b/1.jpg"}, 2},
		{"by status", jobs.JobFilter{Status: jobs.JobStatusPending}, 2},
		{"handle and status", jobs.JobFilter{StorageHandle: "gs://b/1.jpg", Status: jobs.JobStatusCompleted}, 1},
		{"limit", jobs.JobFilter{Limit: 2}, 2},
		{"offset past end", jobs.JobFilter{Offset: 10}, 0},
		{"no match", jobs.JobFilter{StorageHandle: "gs://other/x"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.ListJobs(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListJobs() error = %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListJobs() returned %d jobs, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStoreUpdateJobStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveJob(ctx, &jobs.ScanDocumentJob{JobID: "a", Status: jobs.JobStatusPending}); err != nil {
		t.Fatalf("SaveJob() error = %v", err)
	}

	if err := store.UpdateJobStatus(ctx, "a", jobs.JobStatusFailed, "ocr crashed"); err != nil {
		t.Fatalf("UpdateJobStatus() error = %v", err)
	}
	got, _ := store.GetJob(ctx, "a")
	if got.Status != jobs.JobStatusFailed || got.Error != "ocr crashed" {
		t.Errorf("job after update = %+v", got)
	}

	if err := store.UpdateJobStatus(ctx, "missing", jobs.JobStatusFailed, ""); err == nil {
		t.Error("UpdateJobStatus() returned no error for a missing job")
	}
}
