package tailfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultPollInterval is how often Follow checks the size of the file.
const DefaultPollInterval = 100 * time.Millisecond

// Follower streams bytes appended to a file.
//
// It polls the file size instead of relying on filesystem notifications,
// so new data shows up with a latency of at most one poll interval.
type Follower struct {
	path     string
	offset   int64
	interval time.Duration
}

// NewFollower creates a Follower streaming path from offset. An offset past
// the end of the file is treated as a truncation on the first poll.
func NewFollower(path string, offset int64, interval time.Duration) (*Follower, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("tailfile: stat %s: %w", path, err)
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if offset < 0 {
		offset = 0
	}
	return &Follower{
		path:     path,
		offset:   offset,
		interval: interval,
	}, nil
}

// Offset returns the position up to which the file has been streamed.
func (f *Follower) Offset() int64 {
	return f.offset
}

// Run copies appended bytes to w verbatim until ctx is cancelled.
// It returns nil on cancellation.
func (f *Follower) Run(ctx context.Context, w io.Writer) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if err := f.Poll(w); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Poll copies whatever was appended since the last call.
func (f *Follower) Poll(w io.Writer) error {
	info, err := os.Stat(f.path)
	if err != nil {
		return fmt.Errorf("tailfile: stat %s: %w", f.path, err)
	}

	size := info.Size()
	switch {
	case size < f.offset:
		// truncated: resume from the new end
		f.offset = size
		return nil
	case size == f.offset:
		return nil
	}

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("tailfile: open %s: %w", f.path, err)
	}
	defer file.Close()

	if _, err := file.Seek(f.offset, io.SeekStart); err != nil {
		return fmt.Errorf("tailfile: seek %s: %w", f.path, err)
	}

	n, err := io.Copy(w, io.LimitReader(file, size-f.offset))
	f.offset += n
	if err != nil {
		return fmt.Errorf("tailfile: copy %s: %w", f.path, err)
	}
	return nil
}

// Follow is a shorthand for NewFollower followed by Run.
func Follow(ctx context.Context, path string, offset int64, w io.Writer, interval time.Duration) error {
	f, err := NewFollower(path, offset, interval)
	if err != nil {
		return err
	}
	return f.Run(ctx, w)
}
