package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"docstore/internal/service"
	"docstore/internal/storage"
)

const (
	// Limits enforced at the HTTP boundary; the service below assumes they held.
	maxFilesPerBatch = 10
	maxFileSize      = 5 << 20 // 5 MiB per file
)

// rutPattern validates the owner identifier format (e.g. 12345678-9).
var rutPattern = regexp.MustCompile(`^\d{7,8}-[\dkK]$`)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers parse and validate input, delegate to the service, and translate
// its errors; no business logic lives here.
func RegisterRoutes(app *fiber.App, db *sql.DB, store storage.BlobStore, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Post("/documents/:owner_id", UploadDocuments(docSvc))
	app.Get("/documents/:owner_id", QueryDocuments(docSvc))
	app.Delete("/documents/:assigned_name", DeleteDocument(docSvc))

	// Stored blobs are reachable under their recorded storage_path.
	app.Get("/uploads/*", ServeUpload(store))
}

// HealthCheck reports readiness based on DB connectivity.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// UploadDocuments handles POST /documents/:owner_id.
//
//	@Summary   Upload documents for an owner
//	@Accept    multipart/form-data
//	@Param     owner_id path string true "Owner RUT (e.g. 12345678-9)"
//	@Param     files formData file true "Files to upload (max 10, 5 MiB each)"
//	@Success   201 {object} service.UploadResult
//	@Router    /documents/{owner_id} [post]
func UploadDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := c.Params("owner_id")
		if !rutPattern.MatchString(ownerID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OWNER_ID", "owner id must be a valid RUT")
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart form is required")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "NO_FILES", "no files provided")
		}
		if len(headers) > maxFilesPerBatch {
			return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES",
				fmt.Sprintf("at most %d files per upload", maxFilesPerBatch))
		}

		files := make([]service.RawFile, 0, len(headers))
		for _, fh := range headers {
			if fh.Size > maxFileSize {
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE",
					fmt.Sprintf("file %q exceeds the %d byte limit", fh.Filename, maxFileSize))
			}
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
			files = append(files, service.RawFile{OriginalName: fh.Filename, Content: content})
		}

		res, err := docSvc.UploadBatch(c.UserContext(), ownerID, files)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// QueryDocuments handles GET /documents/:owner_id.
//
//	@Summary   List documents of an owner
//	@Param     owner_id path string true "Owner RUT"
//	@Success   200 {object} service.QueryResult
//	@Router    /documents/{owner_id} [get]
func QueryDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := c.Params("owner_id")
		if !rutPattern.MatchString(ownerID) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OWNER_ID", "owner id must be a valid RUT")
		}

		res, err := docSvc.QueryByOwner(c.UserContext(), ownerID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// DeleteDocument handles DELETE /documents/:assigned_name.
//
//	@Summary   Delete a document by its assigned name
//	@Param     assigned_name path string true "Assigned name (UUID)"
//	@Success   200 {object} service.DeleteResult
//	@Router    /documents/{assigned_name} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignedName := c.Params("assigned_name")
		if _, err := uuid.Parse(assignedName); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ASSIGNED_NAME", "assigned name must be a UUID")
		}

		res, err := docSvc.DeleteByAssignedName(c.UserContext(), assignedName)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// ServeUpload handles GET /uploads/*, serving a stored blob by the
// storage_path recorded in its document's metadata.
//
//	@Summary   Download a stored document by its storage path
//	@Param     path path string true "Storage path (e.g. 2025/6/1/12/30/uuid.pdf)"
//	@Success   200 {file} binary
//	@Router    /uploads/{path} [get]
func ServeUpload(store storage.BlobStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		relPath := path.Clean(c.Params("*"))
		if relPath == "." || strings.HasPrefix(relPath, "..") || strings.HasPrefix(relPath, "/") {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PATH", "invalid storage path")
		}

		data, err := store.Read(c.UserContext(), relPath)
		if err != nil {
			return writeServiceError(c, err)
		}
		if ext := strings.TrimPrefix(filepath.Ext(relPath), "."); ext != "" {
			c.Type(ext)
		}
		return c.Send(data)
	}
}

// writeServiceError maps service-layer errors onto HTTP responses so callers
// can tell absent resources from storage or backend outages.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, storage.ErrBlobNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrNoFiles):
		return writeError(c, fiber.StatusBadRequest, "NO_FILES", "no files provided")
	case errors.Is(err, service.ErrOwnerRequired), errors.Is(err, service.ErrNameRequired):
		return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "bad request")
	case errors.Is(err, storage.ErrUnavailable):
		return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "storage unavailable")
	case errors.Is(err, service.ErrMetadataBackend):
		return writeError(c, fiber.StatusServiceUnavailable, "METADATA_BACKEND_ERROR", "metadata backend unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
