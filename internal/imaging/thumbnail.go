package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
)

const (
	// DefaultThumbnailSize is the edge length of cell thumbnails in pixels.
	DefaultThumbnailSize = 64

	// MaxThumbnailSize caps the thumbnail edge so a single request cannot
	// allocate an unbounded canvas.
	MaxThumbnailSize = 1024
)

// ThumbnailResult contains a cell thumbnail encoded as base64 PNG.
type ThumbnailResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Thumbnail crops rect out of img and stretches it to size×size pixels.
//
// rect is relative to the image origin (img.Bounds().Min), like the rects
// produced by cellstats.Partition. A zero-area rect yields a transparent
// thumbnail.
func Thumbnail(img image.Image, rect cellstats.Rect, size int) (*ThumbnailResult, error) {
	if size <= 0 || size > MaxThumbnailSize {
		return nil, fmt.Errorf("invalid thumbnail size %d, must be 1-%d", size, MaxThumbnailSize)
	}

	bounds := img.Bounds()
	if rect.X < 0 || rect.Y < 0 || rect.Width < 0 || rect.Height < 0 ||
		rect.Width > bounds.Dx()-rect.X || rect.Height > bounds.Dy()-rect.Y {
		return nil, fmt.Errorf("thumbnail rect (%d,%d) %dx%d outside %dx%d image",
			rect.X, rect.Y, rect.Width, rect.Height, bounds.Dx(), bounds.Dy())
	}
	region := image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height).Add(bounds.Min)
	if !region.In(bounds) {
		return nil, fmt.Errorf("thumbnail region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			region.Min.X, region.Min.Y, region.Max.X, region.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	var thumb image.Image
	if rect.Empty() {
		thumb = image.NewNRGBA(image.Rect(0, 0, size, size))
	} else {
		cropped := imaging.Crop(img, region)
		thumb = imaging.Resize(cropped, size, size, imaging.Linear)
	}

	encoded, err := encodePNGBase64(thumb)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ThumbnailResult{
		Width:       thumb.Bounds().Dx(),
		Height:      thumb.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
