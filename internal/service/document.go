package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docstore/internal/model"
	"docstore/internal/repository"
	"docstore/internal/storage"
)

var (
	ErrOwnerRequired   = errors.New("owner id is required")
	ErrNameRequired    = errors.New("assigned name is required")
	ErrNoFiles         = errors.New("no files provided")
	ErrNotFound        = errors.New("document not found")
	ErrMetadataBackend = errors.New("metadata backend error")
)

// newAssignedName issues the globally unique identifier for an uploaded file.
// 128 bits of randomness make a pre-check against existing records
// unnecessary; the database still carries a UNIQUE constraint as a backstop.
var newAssignedName = uuid.NewString

// RawFile is one uploaded item as handed over by the request layer.
type RawFile struct {
	OriginalName string
	Content      []byte
}

// UploadResult is returned by UploadBatch on full success.
type UploadResult struct {
	Message   string           `json:"message"`
	Documents []model.Document `json:"documents"`
}

// QueryResult is returned by QueryByOwner.
type QueryResult struct {
	Message   string           `json:"message"`
	Documents []model.Document `json:"documents"`
}

// DeleteResult is returned by DeleteByAssignedName.
type DeleteResult struct {
	Message string `json:"message"`
}

// DocumentService defines the use cases for handling owner documents.
type DocumentService interface {
	// UploadBatch stores each file's content in the blob store and records its
	// metadata, strictly in input order. The batch is best-effort: a failure
	// on file k aborts the call but leaves files 1..k-1 committed.
	UploadBatch(ctx context.Context, ownerID string, files []RawFile) (*UploadResult, error)

	// QueryByOwner returns all documents recorded for the owner.
	// An owner with zero documents yields ErrNotFound.
	QueryByOwner(ctx context.Context, ownerID string) (*QueryResult, error)

	// DeleteByAssignedName removes the metadata record first, then
	// best-effort deletes the blob and prunes emptied bucket directories.
	DeleteByAssignedName(ctx context.Context, assignedName string) (*DeleteResult, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.BlobStore
	repo  repository.DocumentRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.BlobStore, repo repository.DocumentRepository) DocumentService {
	return &documentService{store: store, repo: repo}
}

func (s *documentService) UploadBatch(ctx context.Context, ownerID string, files []RawFile) (*UploadResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	created := make([]model.Document, 0, len(files))
	for _, f := range files {
		now := time.Now().UTC()
		assigned := newAssignedName()

		dir, err := s.store.AllocateDir(ctx, now)
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w", f.OriginalName, err)
		}
		relPath := path.Join(dir, assigned+filepath.Ext(f.OriginalName))

		if err := s.store.Write(ctx, relPath, f.Content); err != nil {
			return nil, fmt.Errorf("upload %q: %w", f.OriginalName, err)
		}

		stored, err := s.repo.Create(ctx, &model.Document{
			OwnerID:      ownerID,
			OriginalName: f.OriginalName,
			AssignedName: assigned,
			StoragePath:  relPath,
			UploadedAt:   now,
		})
		if err != nil {
			return nil, fmt.Errorf("upload %q: %w: %v", f.OriginalName, ErrMetadataBackend, err)
		}
		created = append(created, *stored)
	}

	return &UploadResult{
		Message:   "documents uploaded successfully",
		Documents: created,
	}, nil
}

func (s *documentService) QueryByOwner(ctx context.Context, ownerID string) (*QueryResult, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}

	docs, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadataBackend, err)
	}
	// Zero documents is surfaced as not-found, matching the upload API's
	// contract of one 404 for both unknown owners and empty owners.
	if len(docs) == 0 {
		return nil, ErrNotFound
	}

	return &QueryResult{
		Message:   "documents retrieved successfully",
		Documents: docs,
	}, nil
}

func (s *documentService) DeleteByAssignedName(ctx context.Context, assignedName string) (*DeleteResult, error) {
	if assignedName == "" {
		return nil, ErrNameRequired
	}

	// Remove the record first; the metadata store is the source of truth and a
	// crash after this point leaves an orphaned blob, never a dangling record.
	doc, err := s.repo.DeleteByAssignedName(ctx, assignedName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataBackend, err)
	}

	// Blob removal and pruning are best-effort: the record is already gone and
	// restoring it would be unsafe, so cleanup failures are logged, not returned.
	if _, err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		logCleanupFailure(assignedName, doc.StoragePath, err)
	} else if err := s.store.PruneEmptyDirs(ctx, path.Dir(doc.StoragePath)); err != nil {
		logCleanupFailure(assignedName, doc.StoragePath, err)
	}

	return &DeleteResult{Message: "document deleted successfully"}, nil
}

// cleanupLog writes one JSON line per failed blob cleanup. Package-scoped so
// tests can redirect it; no global logger state is touched.
var cleanupLog = json.NewEncoder(os.Stdout)

func logCleanupFailure(assignedName, storagePath string, err error) {
	_ = cleanupLog.Encode(map[string]any{
		"level":         "warn",
		"msg":           "blob_cleanup_failed",
		"assigned_name": assignedName,
		"storage_path":  storagePath,
		"error":         err.Error(),
	})
}
