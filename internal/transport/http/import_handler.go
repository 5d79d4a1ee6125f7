package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "careimport/internal/errors"
	"careimport/internal/importer"
	"careimport/internal/validation"
	"careimport/pkg/contracts/domain"
)

// ImportHandler handles import HTTP requests with RFC 7807 compliance
type ImportHandler struct {
	service      *importer.Service
	validator    *validation.UploadValidator
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewImportHandler creates a new import handler
func NewImportHandler(service *importer.Service, uploadValidator *validation.UploadValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ImportHandler {
	return &ImportHandler{
		service:      service,
		validator:    uploadValidator,
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "import_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the import routes
func (h *ImportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/{kind}/template", h.Template)

	r.Route("/{org}/{kind}", func(r chi.Router) {
		r.Use(h.KindCtx)
		r.Post("/preview", h.Preview)
		r.Post("/execute", h.Execute)
	})

	return r
}

// KindCtx middleware validates the import kind parameter
func (h *ImportHandler) KindCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := domain.ImportKind(chi.URLParam(r, "kind"))
		if !kind.Valid() {
			h.errorHandler.HandleError(w, r, apierrors.InvalidImportKindError(string(kind)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Preview handles POST /api/import/{org}/{kind}/preview
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	kind := domain.ImportKind(chi.URLParam(r, "kind"))

	data, apiErr := h.readUpload(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	preview, err := h.service.Preview(r.Context(), kind, data)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.serviceError(err))
		return
	}

	render.JSON(w, r, preview)
}

// Execute handles POST /api/import/{org}/{kind}/execute
func (h *ImportHandler) Execute(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "org")
	kind := domain.ImportKind(chi.URLParam(r, "kind"))

	data, apiErr := h.readUpload(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	mappings, apiErr := h.parseMappings(r)
	if apiErr != nil {
		h.errorHandler.HandleError(w, r, apiErr)
		return
	}

	overridePassword := r.FormValue("default_password")

	summary, err := h.service.Execute(r.Context(), kind, data, orgID, mappings, overridePassword)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.serviceError(err))
		return
	}

	render.JSON(w, r, summary)
}

// Template handles GET /api/import/{kind}/template
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	kind := domain.ImportKind(chi.URLParam(r, "kind"))

	columns, err := h.service.Template(kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidImportKindError(string(kind)))
		return
	}

	render.JSON(w, r, map[string]any{
		"kind":    kind,
		"columns": columns,
	})
}

// readUpload extracts and validates the uploaded file from the request
func (h *ImportHandler) readUpload(r *http.Request) ([]byte, *apierrors.APIError) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.validator.MaxBytes()+1024)
	if err := r.ParseMultipartForm(h.validator.MaxBytes()); err != nil {
		return nil, apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST",
			"expected a multipart form upload", err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, apierrors.ErrValidation("file", "file upload is required")
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(header); err != nil {
		switch {
		case validation.IsSizeError(err):
			return nil, apierrors.NewWithDetails(http.StatusRequestEntityTooLarge,
				"FILE_TOO_LARGE", "Uploaded file exceeds the size limit", err.Error())
		case validation.IsTypeError(err):
			return nil, apierrors.NewWithDetails(http.StatusUnsupportedMediaType,
				"UNSUPPORTED_FILE_TYPE", "File type is not supported", err.Error())
		default:
			return nil, apierrors.InvalidRequestWithError(err)
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	return data, nil
}

// parseMappings decodes and validates the mappings form field
func (h *ImportHandler) parseMappings(r *http.Request) ([]domain.MappingPair, *apierrors.APIError) {
	raw := r.FormValue("mappings")
	if raw == "" {
		return nil, apierrors.ErrValidation("mappings", "column mappings are required")
	}

	var mappings []domain.MappingPair
	if err := json.Unmarshal([]byte(raw), &mappings); err != nil {
		return nil, apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST",
			"mappings must be a JSON array of {header, field} pairs", err.Error())
	}

	if len(mappings) == 0 {
		return nil, apierrors.ErrValidation("mappings", "at least one column mapping is required")
	}

	for _, m := range mappings {
		if err := h.validate.Struct(m); err != nil {
			return nil, apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
				"each mapping needs a header and a field", err.Error())
		}
	}

	return mappings, nil
}

// serviceError maps import engine errors to API errors
func (h *ImportHandler) serviceError(err error) error {
	switch {
	case errors.Is(err, importer.ErrMalformedFile):
		return apierrors.MalformedFileError(err)
	case errors.Is(err, importer.ErrUnknownKind):
		return apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_IMPORT_KIND",
			"Unknown import kind", err.Error())
	case errors.Is(err, importer.ErrOrganizationNotFound):
		return apierrors.NewWithDetails(http.StatusNotFound, "ORGANIZATION_NOT_FOUND",
			"Organization not found", err.Error())
	default:
		return err
	}
}
