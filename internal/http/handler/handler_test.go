package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"docstore/internal/model"
	"docstore/internal/service"
	serviceMocks "docstore/internal/service/mocks"
	"docstore/internal/storage"
	storeMocks "docstore/internal/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc service.DocumentService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/documents/:owner_id", UploadDocuments(svc))
	app.Get("/documents/:owner_id", QueryDocuments(svc))
	app.Delete("/documents/:assigned_name", DeleteDocument(svc))
	return app
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestUploadDocuments(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("UploadBatch", mock.Anything, "12345678-9", mock.MatchedBy(func(files []service.RawFile) bool {
			return len(files) == 2
		})).Return(&service.UploadResult{
			Message:   "documents uploaded successfully",
			Documents: []model.Document{{AssignedName: "uuid-a"}, {AssignedName: "uuid-b"}},
		}, nil)

		app := newTestApp(mSvc)
		body, contentType := multipartBody(t, map[string][]byte{
			"a.pdf": []byte("pdf"),
			"b.png": []byte("png"),
		})
		req := httptest.NewRequest(http.MethodPost, "/documents/12345678-9", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var res service.UploadResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Len(t, res.Documents, 2)
		mSvc.AssertExpectations(t)
	})

	t.Run("invalid RUT", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app := newTestApp(mSvc)

		body, contentType := multipartBody(t, map[string][]byte{"a.pdf": []byte("x")})
		req := httptest.NewRequest(http.MethodPost, "/documents/not-a-rut", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mSvc.AssertNotCalled(t, "UploadBatch")
	})

	t.Run("no files", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app := newTestApp(mSvc)

		body, contentType := multipartBody(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/documents/12345678-9", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body2 errorPayload
		json.NewDecoder(resp.Body).Decode(&body2)
		assert.Equal(t, "NO_FILES", body2.Error.Code)
	})

	t.Run("storage unavailable maps to 503", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("UploadBatch", mock.Anything, "12345678-9", mock.Anything).
			Return(nil, storage.ErrUnavailable)

		app := newTestApp(mSvc)
		body, contentType := multipartBody(t, map[string][]byte{"a.pdf": []byte("x")})
		req := httptest.NewRequest(http.MethodPost, "/documents/12345678-9", body)
		req.Header.Set("Content-Type", contentType)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "STORAGE_UNAVAILABLE", payload.Error.Code)
	})
}

func TestQueryDocuments(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("QueryByOwner", mock.Anything, "12345678-9").
			Return(&service.QueryResult{
				Message:   "documents retrieved successfully",
				Documents: []model.Document{{AssignedName: "uuid-a"}},
			}, nil)

		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodGet, "/documents/12345678-9", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("owner without documents is 404", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("QueryByOwner", mock.Anything, "1111111-1").
			Return(nil, service.ErrNotFound)

		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodGet, "/documents/1111111-1", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid RUT", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodGet, "/documents/abc", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mSvc.AssertNotCalled(t, "QueryByOwner")
	})
}

func TestServeUpload(t *testing.T) {
	newUploadApp := func(store *storeMocks.MockBlobStore) *fiber.App {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Get("/uploads/*", ServeUpload(store))
		return app
	}

	t.Run("serves stored blob", func(t *testing.T) {
		content := []byte("%PDF-1.7 payload")
		mStore := new(storeMocks.MockBlobStore)
		mStore.On("Read", mock.Anything, "2025/6/1/12/30/uuid-a.pdf").Return(content, nil)

		app := newUploadApp(mStore)
		req := httptest.NewRequest(http.MethodGet, "/uploads/2025/6/1/12/30/uuid-a.pdf", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "pdf")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, content, body)
		mStore.AssertExpectations(t)
	})

	t.Run("absent blob is 404", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		mStore.On("Read", mock.Anything, "2025/6/1/12/30/missing.pdf").
			Return(nil, storage.ErrBlobNotFound)

		app := newUploadApp(mStore)
		req := httptest.NewRequest(http.MethodGet, "/uploads/2025/6/1/12/30/missing.pdf", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("traversal never reaches the store", func(t *testing.T) {
		mStore := new(storeMocks.MockBlobStore)
		app := newUploadApp(mStore)

		req := httptest.NewRequest(http.MethodGet, "/uploads/../secret.txt", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		// The router may normalize the dot-dot away (missing a route) or the
		// handler rejects it; either way no blob is read and nothing is served.
		assert.NotEqual(t, http.StatusOK, resp.StatusCode)
		mStore.AssertNotCalled(t, "Read")
	})
}

func TestDeleteDocument(t *testing.T) {
	name := uuid.NewString()

	t.Run("deleted", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("DeleteByAssignedName", mock.Anything, name).
			Return(&service.DeleteResult{Message: "document deleted successfully"}, nil)

		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodDelete, "/documents/"+name, nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown name is 404", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		mSvc.On("DeleteByAssignedName", mock.Anything, name).
			Return(nil, service.ErrNotFound)

		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodDelete, "/documents/"+name, nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("invalid assigned name", func(t *testing.T) {
		mSvc := new(serviceMocks.MockDocumentService)
		app := newTestApp(mSvc)
		req := httptest.NewRequest(http.MethodDelete, "/documents/not-a-uuid", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		mSvc.AssertNotCalled(t, "DeleteByAssignedName")
	})
}
