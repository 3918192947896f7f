package postgres

import (
	"context"
	"database/sql"

	"docstore/internal/model"
	"docstore/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (owner_id, original_name, assigned_name, storage_path, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING owner_id, original_name, assigned_name, storage_path, uploaded_at
	`
	row := r.db.QueryRowContext(ctx, q,
		doc.OwnerID,
		doc.OriginalName,
		doc.AssignedName,
		doc.StoragePath,
		doc.UploadedAt,
	)
	var out model.Document
	if err := row.Scan(
		&out.OwnerID,
		&out.OriginalName,
		&out.AssignedName,
		&out.StoragePath,
		&out.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByOwner returns every document recorded for the owner, oldest first.
func (r *DocumentPostgres) FindByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	const q = `
		SELECT owner_id, original_name, assigned_name, storage_path, uploaded_at
		FROM documents
		WHERE owner_id = $1
		ORDER BY uploaded_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.OwnerID,
			&d.OriginalName,
			&d.AssignedName,
			&d.StoragePath,
			&d.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteByAssignedName removes the matching row and returns it in one
// round-trip, so removal and path lookup cannot interleave with another
// writer. Returns sql.ErrNoRows when nothing matched.
func (r *DocumentPostgres) DeleteByAssignedName(ctx context.Context, assignedName string) (*model.Document, error) {
	const q = `
		DELETE FROM documents
		WHERE assigned_name = $1
		RETURNING owner_id, original_name, assigned_name, storage_path, uploaded_at
	`
	row := r.db.QueryRowContext(ctx, q, assignedName)
	var d model.Document
	if err := row.Scan(
		&d.OwnerID,
		&d.OriginalName,
		&d.AssignedName,
		&d.StoragePath,
		&d.UploadedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
