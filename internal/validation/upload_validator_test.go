package validation

import (
	"io"
	"log/slog"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(maxBytes int64) *UploadValidator {
	return NewUploadValidator(slog.New(slog.NewJSONHandler(io.Discard, nil)), maxBytes)
}

func TestValidateUpload(t *testing.T) {
	v := newValidator(1024)

	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr bool
		sizeErr bool
		typeErr bool
	}{
		{
			name:   "csv within limit",
			header: &multipart.FileHeader{Filename: "staff.csv", Size: 100},
		},
		{
			name:   "xlsx within limit",
			header: &multipart.FileHeader{Filename: "Roster.XLSX", Size: 1024},
		},
		{
			name:    "over size limit",
			header:  &multipart.FileHeader{Filename: "staff.csv", Size: 2048},
			wantErr: true,
			sizeErr: true,
		},
		{
			name:    "unsupported extension",
			header:  &multipart.FileHeader{Filename: "staff.pdf", Size: 100},
			wantErr: true,
			typeErr: true,
		},
		{
			name:    "excel temp file",
			header:  &multipart.FileHeader{Filename: "~$roster.xlsx", Size: 100},
			wantErr: true,
			typeErr: true,
		},
		{
			name:    "nil header",
			header:  nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.header)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.sizeErr, IsSizeError(err))
			assert.Equal(t, tt.typeErr, IsTypeError(err))
		})
	}
}

func TestMaxBytes(t *testing.T) {
	assert.Equal(t, int64(512), newValidator(512).MaxBytes())
}
