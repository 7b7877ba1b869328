// Package avatar normalises uploaded member pictures.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

const (
	// Size is the edge length of a stored avatar in pixels.
	Size = 150
	// PortraitWidth and PortraitHeight bound a sub-wing member photo.
	PortraitWidth  = 163
	PortraitHeight = 231
	// MaxUploadBytes bounds how much of an upload is read.
	MaxUploadBytes = 10 << 20

	jpegQuality = 85
)

// Process decodes an uploaded image, applies its EXIF orientation, crops it to
// a centred Size x Size square and returns it as JPEG.
func Process(r io.Reader) ([]byte, error) {
	return fill(r, Size, Size)
}

// Portrait is Process for sub-wing member photos, cropped to
// PortraitWidth x PortraitHeight.
func Portrait(r io.Reader) ([]byte, error) {
	return fill(r, PortraitWidth, PortraitHeight)
}

func fill(r io.Reader, width, height int) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) > MaxUploadBytes {
		return nil, apperror.Validation("Image is too large")
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, apperror.Validation("Invalid image file")
	}
	img = Orient(img, orientation(raw))

	thumb := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// orientation returns the EXIF orientation tag, or 1 when absent.
func orientation(raw []byte) int {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		log.Debugf("[Avatar] Unreadable orientation tag: %v", err)
		return 1
	}
	return v
}

// Orient transforms img so that EXIF orientation o displays upright.
func Orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
