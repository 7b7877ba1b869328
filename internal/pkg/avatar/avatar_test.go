package avatar

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessProducesSquareJPEG(t *testing.T) {
	out, err := Process(bytes.NewReader(pngFixture(t, 400, 250)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, Size, cfg.Width)
	assert.Equal(t, Size, cfg.Height)
}

func TestPortraitKeepsMemberPhotoSize(t *testing.T) {
	out, err := Portrait(bytes.NewReader(pngFixture(t, 300, 300)))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, PortraitWidth, cfg.Width)
	assert.Equal(t, PortraitHeight, cfg.Height)
}

func TestProcessRejectsGarbage(t *testing.T) {
	_, err := Process(strings.NewReader("definitely not an image"))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestOrientationDefaultsWithoutExif(t *testing.T) {
	assert.Equal(t, 1, orientation(pngFixture(t, 4, 4)))
}

func TestOrient(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))

	tests := []struct {
		orientation int
		w, h        int
	}{
		{1, 4, 2},
		{2, 4, 2},
		{3, 4, 2},
		{4, 4, 2},
		{5, 2, 4},
		{6, 2, 4},
		{7, 2, 4},
		{8, 2, 4},
		{0, 4, 2},
	}
	for _, tt := range tests {
		b := Orient(src, tt.orientation).Bounds()
		assert.Equal(t, tt.w, b.Dx(), "orientation %d", tt.orientation)
		assert.Equal(t, tt.h, b.Dy(), "orientation %d", tt.orientation)
	}
}
