package repository

import (
	"context"

	"docstore/internal/model"
)

// DocumentRepository defines data access for document metadata using SQL
// queries only. No business logic here — strictly persistence operations.
// Each operation is atomic at the single-record level; no multi-record
// transactions are required by callers.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByOwner returns all documents recorded for the given owner.
	// An unknown owner yields an empty slice, not an error.
	FindByOwner(ctx context.Context, ownerID string) ([]model.Document, error)

	// DeleteByAssignedName removes the record with the given assigned name and
	// returns it, so the caller learns the storage path of the removed blob.
	// Returns sql.ErrNoRows if no record matches.
	DeleteByAssignedName(ctx context.Context, assignedName string) (*model.Document, error)
}
