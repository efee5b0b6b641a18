package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
)

// ToPixelBuffer returns img as a PixelBuffer for the statistics engine.
//
// *image.RGBA and *image.NRGBA are viewed in place. Every other image type
// (YCbCr JPEGs, paletted GIFs, 16-bit PNGs, ...) is converted to 8-bit RGBA
// once. The buffer's (0,0) is img.Bounds().Min.
func ToPixelBuffer(img image.Image) *cellstats.PixelBuffer {
	switch src := img.(type) {
	case *image.NRGBA:
		return cellstats.FromNRGBA(src)
	case *image.RGBA:
		return cellstats.FromRGBA(src)
	default:
		return cellstats.FromRGBA(clone.AsRGBA(img))
	}
}
