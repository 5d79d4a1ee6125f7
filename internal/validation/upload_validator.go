// Package validation checks uploaded files before they reach the import
// engine.
package validation

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// allowedExtensions lists the tabular file types the import engine accepts.
var allowedExtensions = map[string]bool{
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// UploadValidator validates multipart file uploads
type UploadValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewUploadValidator creates a new upload validator
func NewUploadValidator(logger *slog.Logger, maxBytes int64) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the configured upload size cap
func (v *UploadValidator) MaxBytes() int64 { return v.maxBytes }

// ValidateUpload checks the file header of a multipart upload
func (v *UploadValidator) ValidateUpload(header *multipart.FileHeader) error {
	if header == nil {
		return fmt.Errorf("no file provided")
	}

	if header.Size > v.maxBytes {
		v.logger.Warn("upload rejected: too large",
			slog.String("filename", header.Filename),
			slog.Int64("size", header.Size),
			slog.Int64("limit", v.maxBytes))
		return fmt.Errorf("file %s exceeds the %d byte limit", header.Filename, v.maxBytes)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		v.logger.Warn("upload rejected: unsupported type",
			slog.String("filename", header.Filename),
			slog.String("extension", ext))
		return fmt.Errorf("file %s has unsupported extension %q", header.Filename, ext)
	}

	// Temp files saved by Excel while a workbook is open
	if strings.HasPrefix(filepath.Base(header.Filename), "~$") {
		return fmt.Errorf("file %s is a temporary spreadsheet file", header.Filename)
	}

	v.logger.Debug("upload validated",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))
	return nil
}

// IsSizeError reports whether err came from the size check
func IsSizeError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "byte limit")
}

// IsTypeError reports whether err came from the extension check
func IsTypeError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "unsupported extension") ||
		strings.Contains(err.Error(), "temporary spreadsheet"))
}
