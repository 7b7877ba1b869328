// Package upload checks user supplied files before they are decoded.
package upload

import (
	"bytes"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

// SniffLen is how many leading bytes ValidateImageBySniff looks at.
const SniffLen = 512

// formats the avatar decoder understands
var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the filename extension and the first bytes of an
// upload against the supported image types and returns the detected mime type.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperror.Validation("Only JPG, JPEG, PNG, GIF and BMP images are supported")
	}

	detected := http.DetectContentType(head)

	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") ||
		strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", apperror.Validation("Markup files are not accepted as images")
	}

	if allowedMime[detected] {
		return detected, nil
	}
	return "", apperror.Validation("Unsupported file type")
}

// MaxIconBytes bounds an uploaded SVG icon.
const MaxIconBytes = 256 << 10

// ValidateSVG accepts an icon declared as SVG by content type or extension
// whose body is an SVG document without script elements.
func ValidateSVG(filename, contentType string, data []byte) error {
	declared := strings.HasPrefix(strings.ToLower(contentType), "image/svg+xml") ||
		strings.EqualFold(filepath.Ext(filename), ".svg")
	if !declared || !bytes.Contains(data, []byte("<svg")) {
		return apperror.Validation("Only SVG files are allowed for the icon.")
	}
	if len(data) > MaxIconBytes {
		return apperror.Validation("Icon is too large")
	}
	if bytes.Contains(bytes.ToLower(data), []byte("<script")) {
		return apperror.Validation("SVG icons must not contain scripts")
	}
	return nil
}
