package model

import "time"

// Document represents one stored file belonging to an owner.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	OwnerID      string    `json:"owner_id"`
	OriginalName string    `json:"original_name"`
	AssignedName string    `json:"assigned_name"`
	StoragePath  string    `json:"storage_path"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
