package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateImageBySniff(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		head     []byte
		mime     string
		message  string
	}{
		{"png", "me.PNG", pngHeader, "image/png", ""},
		{"jpeg", "me.jpg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF"), "image/jpeg", ""},
		{"svg extension", "me.svg", []byte("<svg></svg>"), "", "Only JPG, JPEG, PNG, GIF and BMP images are supported"},
		{"html disguised as png", "me.png", []byte("<html><script></script></html>"), "", "Markup files are not accepted as images"},
		{"plain text", "me.gif", []byte("hello there"), "", "Unsupported file type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := ValidateImageBySniff(tt.filename, tt.head)
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.mime, mime)
				return
			}
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestValidateSVG(t *testing.T) {
	icon := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><circle r="4"/></svg>`)

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		message     string
	}{
		{"by content type", "icon", "image/svg+xml", icon, ""},
		{"by extension", "icon.SVG", "application/octet-stream", icon, ""},
		{"png upload", "icon.png", "image/png", pngHeader, "Only SVG files are allowed for the icon."},
		{"declared but not svg", "icon.svg", "image/svg+xml", []byte("hello"), "Only SVG files are allowed for the icon."},
		{"scripted", "icon.svg", "image/svg+xml", []byte(`<svg><SCRIPT>alert(1)</SCRIPT></svg>`), "SVG icons must not contain scripts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSVG(tt.filename, tt.contentType, tt.data)
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}
