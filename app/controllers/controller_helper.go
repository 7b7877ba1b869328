package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/request"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/upload"
)

// Clock is the time source controllers pass down to services.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// optionalInt parses v, treating an absent value as 0.
func optionalInt(v request.Value, label string) (int, error) {
	if !v.Present() {
		return 0, nil
	}
	n, err := v.Int()
	if err != nil {
		return 0, apperror.Validationf("Invalid %s", label)
	}
	return n, nil
}

// optionalID parses v as an ID, treating an absent value as 0.
func optionalID(v request.Value, label string) (uint, error) {
	if !v.Present() {
		return 0, nil
	}
	n, err := v.Uint()
	if err != nil {
		return 0, apperror.Validationf("Invalid %s ID", label)
	}
	return n, nil
}

// marshalMerged encodes v as a JSON object with extra keys added at the top level.
func marshalMerged(v interface{}, extra map[string]interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	for k, val := range extra {
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		obj[k] = b
	}
	return json.Marshal(obj)
}

// optionalFormFile returns nil when the request carries no file under field.
func optionalFormFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// readImage checks an uploaded image by extension and content, then hands the
// full stream to process.
func readImage(fh *multipart.FileHeader, process func(io.Reader) ([]byte, error)) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("Provide file")
	}
	defer f.Close()

	head := make([]byte, upload.SniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, apperror.Validation("Provide file")
	}
	if _, err := upload.ValidateImageBySniff(fh.Filename, head[:n]); err != nil {
		return nil, err
	}
	return process(io.MultiReader(bytes.NewReader(head[:n]), f))
}

// readSVG loads an uploaded SVG icon.
func readSVG(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("Only SVG files are allowed for the icon.")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, upload.MaxIconBytes+1))
	if err != nil {
		return nil, apperror.Internal("Failed to read icon", err)
	}
	if err := upload.ValidateSVG(fh.Filename, fh.Header.Get(fiber.HeaderContentType), data); err != nil {
		return nil, err
	}
	return data, nil
}
