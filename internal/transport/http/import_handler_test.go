package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "careimport/internal/errors"
	"careimport/internal/importer"
	"careimport/internal/infrastructure"
	"careimport/internal/store/memory"
	"careimport/internal/validation"
	"careimport/pkg/contracts/domain"
)

func newTestHandler(t *testing.T) (*ImportHandler, *memory.Store) {
	t.Helper()
	logger := infrastructure.NewTestLogger(io.Discard)
	store := memory.NewStore()
	store.PutOrganization(&domain.Organization{ID: "org-1", Name: "Test Org"})
	svc := importer.NewService(store, logger, importer.Options{
		DefaultPassword: "starter-secret",
		BcryptCost:      4,
		SampleRows:      5,
	})
	uploadValidator := validation.NewUploadValidator(logger, 1<<20)
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewImportHandler(svc, uploadValidator, logger, errorHandler), store
}

// multipartBody builds a form with a file part and optional extra fields.
func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func staffMappingsJSON(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal([]domain.MappingPair{
		{Header: "Full Name", Field: "fullName"},
		{Header: "Email", Field: "email"},
		{Header: "Role", Field: "role"},
	})
	require.NoError(t, err)
	return string(raw)
}

func TestPreviewEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	csv := "Full Name,Email,Role\nAlice Smith,alice@example.com,doctor\n"
	body, contentType := multipartBody(t, "staff.csv", csv, nil)

	resp, err := http.Post(srv.URL+"/org-1/staff/preview", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview domain.ImportPreview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	assert.Equal(t, 1, preview.TotalRows)
	assert.Equal(t, []string{"Full Name", "Email", "Role"}, preview.DetectedHeaders)
	require.Len(t, preview.SuggestedMappings, 3)
	for _, m := range preview.SuggestedMappings {
		assert.Equal(t, 1.0, m.Confidence)
	}
}

func TestExecuteEndpoint(t *testing.T) {
	handler, store := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	csv := "Full Name,Email,Role\n" +
		"Alice Smith,alice@example.com,doctor\n" +
		"Bob Jones,bob@example.com,volunteer\n"
	body, contentType := multipartBody(t, "staff.csv", csv, map[string]string{
		"mappings": staffMappingsJSON(t),
	})

	resp, err := http.Post(srv.URL+"/org-1/staff/execute", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary domain.ImportSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 2, store.AccountCount())
}

func TestExecuteEndpointRowErrorsStillOK(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	csv := "Full Name,Email,Role\n" +
		"Alice Smith,alice@example.com,doctor\n" +
		",missing@example.com,doctor\n"
	body, contentType := multipartBody(t, "staff.csv", csv, map[string]string{
		"mappings": staffMappingsJSON(t),
	})

	resp, err := http.Post(srv.URL+"/org-1/staff/execute", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "row errors ride inside a successful summary")

	var summary domain.ImportSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 1, summary.Created)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, 3, summary.Errors[0].Row)
}

func TestExecuteEndpointOrganizationNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	csv := "Full Name,Email,Role\nAlice Smith,alice@example.com,doctor\n"
	body, contentType := multipartBody(t, "staff.csv", csv, map[string]string{
		"mappings": staffMappingsJSON(t),
	})

	resp, err := http.Post(srv.URL+"/missing-org/staff/execute", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/problem+json")
}

func TestInvalidKindRejected(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body, contentType := multipartBody(t, "staff.csv", "a,b\n1,2\n", nil)
	resp, err := http.Post(srv.URL+"/org-1/payroll/preview", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreviewMalformedFile(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	// ZIP magic with garbage after it: claims xlsx, parses as nothing.
	body, contentType := multipartBody(t, "broken.xlsx", "PK\x03\x04not really a workbook", nil)
	resp, err := http.Post(srv.URL+"/org-1/staff/preview", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var problem map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Contains(t, problem["type"], "malformed-file")
}

func TestExecuteMissingMappings(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	csv := "Full Name,Email,Role\nAlice Smith,alice@example.com,doctor\n"
	body, contentType := multipartBody(t, "staff.csv", csv, nil)

	resp, err := http.Post(srv.URL+"/org-1/staff/execute", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExecuteMissingFile(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("mappings", staffMappingsJSON(t)))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/org-1/staff/execute", w.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnsupportedExtensionRejected(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	body, contentType := multipartBody(t, "staff.pdf", "%PDF-1.4", nil)
	resp, err := http.Post(srv.URL+"/org-1/staff/preview", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestTemplateEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)
	srv := httptest.NewServer(handler.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/dependents/template")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Kind    string   `json:"kind"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "dependents", payload.Kind)
	assert.Contains(t, payload.Columns, "Parent Email")

	resp2, err := http.Get(srv.URL + "/payroll/template")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}
