package storage

import (
	"context"
	"errors"
	"path"
	"strconv"
	"time"
)

// Package storage contains blob store abstractions for uploaded documents.
// Implementations persist raw file bytes at paths relative to an uploads
// root; path layout is time-bucketed so no single directory grows unbounded.

var (
	// ErrUnavailable indicates the underlying store failed for a reason other
	// than "already exists" / "already absent" (permission denied, disk full,
	// backend unreachable). Callers match it with errors.Is.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrBlobNotFound is returned by Read when no blob exists at the path.
	ErrBlobNotFound = errors.New("blob not found")
)

// TimeBucket derives the relative bucket directory for an upload timestamp:
// one path segment per calendar component, year through minute, each as an
// unpadded decimal. Two calls within the same minute yield the same bucket.
func TimeBucket(at time.Time) string {
	return path.Join(
		strconv.Itoa(at.Year()),
		strconv.Itoa(int(at.Month())),
		strconv.Itoa(at.Day()),
		strconv.Itoa(at.Hour()),
		strconv.Itoa(at.Minute()),
	)
}

// BlobStore persists and removes raw document content. All paths are
// slash-separated and relative to the store's root. Implementations must be
// safe for concurrent use by multiple goroutines.
type BlobStore interface {
	// AllocateDir ensures the time bucket for the given timestamp exists and
	// returns its relative path. Idempotent: an already existing bucket is a
	// success, including when two concurrent uploads race on the same minute.
	AllocateDir(ctx context.Context, at time.Time) (string, error)

	// Write stores the full content at the given relative path. On failure no
	// partial file may remain visible at that path.
	Write(ctx context.Context, relPath string, data []byte) error

	// Read returns the full content stored at the given relative path, or
	// ErrBlobNotFound when no blob exists there.
	Read(ctx context.Context, relPath string) ([]byte, error)

	// Delete removes the blob if present and reports whether it existed.
	// Deleting an absent blob is a success.
	Delete(ctx context.Context, relPath string) (bool, error)

	// PruneEmptyDirs walks upward from the given relative directory, removing
	// each directory found empty, and stops at the first non-empty directory
	// or at the store root. The root itself is never removed.
	PruneEmptyDirs(ctx context.Context, relDir string) error
}
