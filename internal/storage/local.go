package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localStore implements BlobStore on the local filesystem, rooted at the
// uploads directory. Correctness under concurrency relies on globally unique
// blob names (no two writers ever target the same path) and on idempotent,
// check-tolerant directory operations; no in-process locking is used.
type localStore struct {
	root string
}

// NewLocal creates a disk-backed BlobStore rooted at dir, creating the root
// if it does not exist yet.
func NewLocal(dir string) (BlobStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("uploads root is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve uploads root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}
	return &localStore{root: abs}, nil
}

// AllocateDir ensures the time bucket directory exists. MkdirAll treats an
// existing directory as success, which also covers two concurrent uploads
// landing in the same minute bucket.
func (s *localStore) AllocateDir(_ context.Context, at time.Time) (string, error) {
	bucket := TimeBucket(at)
	if err := os.MkdirAll(filepath.Join(s.root, bucket), 0o755); err != nil {
		return "", fmt.Errorf("%w: create bucket %s: %v", ErrUnavailable, bucket, err)
	}
	return bucket, nil
}

// Write stores the content at relPath in a single WriteFile call. os.WriteFile
// creates the file with O_TRUNC, so a failed write never leaves a previously
// committed blob half-replaced; blob paths are single-writer by construction.
func (s *localStore) Write(_ context.Context, relPath string, data []byte) error {
	abs, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		// Remove any partial file so the path is either complete or absent.
		_ = os.Remove(abs)
		return fmt.Errorf("%w: write %s: %v", ErrUnavailable, relPath, err)
	}
	return nil
}

// Read returns the stored content, distinguishing an absent blob from an
// unreadable one.
func (s *localStore) Read(_ context.Context, relPath string) ([]byte, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, relPath)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrUnavailable, relPath, err)
	}
	return data, nil
}

// Delete removes the blob if present. A missing file is reported as
// existed=false with no error.
func (s *localStore) Delete(_ context.Context, relPath string) (bool, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return false, err
	}
	if err := os.Remove(abs); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: delete %s: %v", ErrUnavailable, relPath, err)
	}
	return true, nil
}

// PruneEmptyDirs removes empty directories walking upward from relDir. The
// loop is bounded by the number of path segments below the root and stops at
// the first directory that is not empty. A directory repopulated between the
// emptiness check and the remove fails the remove; that ends the walk rather
// than surfacing an error, so pruning never races a concurrent upload into a
// failure.
func (s *localStore) PruneEmptyDirs(_ context.Context, relDir string) error {
	dir, err := s.resolve(relDir)
	if err != nil {
		return err
	}
	for dir != s.root && strings.HasPrefix(dir, s.root+string(filepath.Separator)) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				dir = filepath.Dir(dir)
				continue
			}
			return fmt.Errorf("%w: read dir %s: %v", ErrUnavailable, dir, err)
		}
		if len(entries) > 0 {
			return nil
		}
		if err := os.Remove(dir); err != nil {
			// Concurrent writer got there first; stop pruning.
			return nil
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

// resolve joins relPath onto the root and rejects any path that would escape
// it (e.g. via "..").
func (s *localStore) resolve(relPath string) (string, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(relPath))
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path %q escapes uploads root", ErrUnavailable, relPath)
	}
	return abs, nil
}
