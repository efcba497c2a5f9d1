package tailfile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultBlockSize is the number of bytes read from disk at a time.
const DefaultBlockSize = 4096

// ReverseReader yields the lines of a file from the last one to the first.
//
// It walks the file backward byte by byte, reading it in blocks. Each line
// feed closes the line accumulated so far, so a file ending with a line feed
// yields an empty line first. Use it like bufio.Scanner:
//
//	r, err := tailfile.OpenReverse(path)
//	if err != nil { ... }
//	defer r.Close()
//	for r.Next() {
//		line := r.Line()
//	}
//	if err := r.Err(); err != nil { ... }
type ReverseReader struct {
	f         *os.File
	size      int64
	offset    int64 // bytes of the file not read yet
	block     []byte
	idx       int    // bytes of block not scanned yet
	pending   []byte // current line, reversed
	line      []byte
	err       error
	done      bool
	closed    bool
	blockSize int
}

// OpenReverse opens path and positions a ReverseReader at its end.
// The size of the file is captured now; bytes appended later are ignored.
func OpenReverse(path string) (*ReverseReader, error) {
	return openReverse(path, DefaultBlockSize)
}

func openReverse(path string, blockSize int) (*ReverseReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tailfile: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("tailfile: stat %s: %w", path, err)
	}

	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	return &ReverseReader{
		f:         f,
		size:      info.Size(),
		offset:    info.Size(),
		block:     make([]byte, blockSize),
		blockSize: blockSize,
	}, nil
}

// Next advances to the previous line. It returns false once the start of the
// file is reached or an error occurs; the file is closed at that point.
func (r *ReverseReader) Next() bool {
	if r.done {
		return false
	}

	for {
		for r.idx > 0 {
			r.idx--
			c := r.block[r.idx]
			if c == '\n' {
				r.emit()
				return true
			}
			r.pending = append(r.pending, c)
		}

		if r.offset == 0 {
			r.done = true
			r.Close()
			// the first line of a non-empty file is emitted even when empty
			if r.size > 0 {
				r.emit()
				return true
			}
			return false
		}

		if err := r.fill(); err != nil {
			r.err = err
			r.done = true
			r.Close()
			return false
		}
	}
}

// Line returns the current line. The slice is owned by the caller.
func (r *ReverseReader) Line() []byte {
	return r.line
}

// Err returns the first read error, if any.
func (r *ReverseReader) Err() error {
	return r.err
}

// Size returns the size of the file when it was opened. Lines are read
// from that point backward.
func (r *ReverseReader) Size() int64 {
	return r.size
}

// Close releases the file. It is safe to call more than once.
func (r *ReverseReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.f.Close()
}

// fill reads the block that precedes the current offset.
func (r *ReverseReader) fill() error {
	n := int64(r.blockSize)
	if r.offset < n {
		n = r.offset
	}
	r.offset -= n

	read, err := r.f.ReadAt(r.block[:n], r.offset)
	if err != nil && !(errors.Is(err, io.EOF) && int64(read) == n) {
		return fmt.Errorf("tailfile: read at %d: %w", r.offset, err)
	}
	r.idx = int(n)
	return nil
}

// emit turns the pending bytes into the current line, in forward order.
func (r *ReverseReader) emit() {
	line := make([]byte, len(r.pending))
	for i, c := range r.pending {
		line[len(line)-1-i] = c
	}
	r.line = line
	r.pending = r.pending[:0]
}

// LastLines returns at most n lines from the end of path, in file order,
// and the offset they end at. Bytes appended while reading are not part of
// the lines; following from end picks them up.
func LastLines(path string, n int) (lines [][]byte, end int64, err error) {
	r, err := OpenReverse(path)
	if err != nil {
		return nil, 0, err
	}
	defer r.Close()

	end = r.Size()
	if n <= 0 {
		return nil, end, nil
	}

	lines = make([][]byte, 0, n)
	for len(lines) < n && r.Next() {
		lines = append(lines, r.Line())
	}
	if err := r.Err(); err != nil {
		return nil, 0, err
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, end, nil
}
