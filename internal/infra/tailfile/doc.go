// Package tailfile reads files from the end.
//
// This package implements the primitives behind the tail command:
//
//   - reverse.go: ReverseReader, a lazy backward line iterator
//   - follow.go: polling follower streaming bytes appended to a file
//
// Lines are raw byte slices without the trailing line feed; callers decode
// them as needed. The reverse reader holds at most one block plus the
// longest line in memory, whatever the size of the file.
//
// @design DS-0703
package tailfile
