package storage

import "testing"

func TestSplitHandle(t *testing.T) {
	tests := []struct {
		name       string
		handle     string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"simple", "gs://receipts/scan.jpg", "receipts", "scan.jpg", false},
		{"nested path", "gs://receipts/2025/03/statement.pdf", "receipts", "2025/03/statement.pdf", false},
		{"missing scheme", "receipts/scan.jpg", "", "", true},
		{"http url", "https://example.com/scan.jpg", "", "", true},
		{"bucket only", "gs://receipts", "", "", true},
		{"empty object", "gs://receipts/", "", "", true},
		{"empty bucket", "gs:///scan.jpg", "", "", true},
		{"empty string", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := SplitHandle(tt.handle)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitHandle(%q) error = %v, wantErr %v", tt.handle, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("SplitHandle(%q) = (%q, %q), want (%q, %q)",
					tt.handle, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestHandleFilename(t *testing.T) {
	tests := []struct {
		handle string
		want   string
	}{
		{"gs://receipts/scan.jpg", "scan.jpg"},
		{"gs://receipts/2025/03/statement.pdf", "statement.pdf"},
		{"gs://receipts", "receipts"},
	}

	for _, tt := range tests {
		if got := HandleFilename(tt.handle); got != tt.want {
			t.Errorf("HandleFilename(%q) = %q, want %q", tt.handle, got, tt.want)
		}
	}
}
