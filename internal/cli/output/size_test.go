package output

import "testing"

func TestReadableSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.0 B"},
		{1, "1.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{15360 * 1024 * 1024 * 1024, "15360.0 GB"},
	}

	for _, tt := range tests {
		if got := ReadableSize(tt.n); got != tt.want {
			t.Errorf("ReadableSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
