package cellstats

import (
	"fmt"
	"image"
)

// bytesPerPixel is the number of samples per pixel (R, G, B, A).
const bytesPerPixel = 4

// PixelBuffer is an immutable view over a rectangular grid of 8-bit RGBA
// samples.
//
// Pixel (x, y) starts at offset y*stride + x*4 in the underlying slice, with
// channels stored in R, G, B, A order. The buffer borrows the slice; callers
// must not mutate it while computations are running.
//
// The zero value is an empty 0×0 buffer.
type PixelBuffer struct {
	pix    []uint8
	stride int
	width  int
	height int
}

// NewPixelBuffer wraps a tightly packed RGBA slice (stride = width*4).
//
// Returns ErrInvalidBuffer if width or height is negative or pix holds fewer
// than width*height*4 bytes.
func NewPixelBuffer(width, height int, pix []uint8) (*PixelBuffer, error) {
	return NewPixelBufferStride(width, height, width*bytesPerPixel, pix)
}

// NewPixelBufferStride wraps an RGBA slice whose rows are stride bytes apart.
//
// The final row only needs width*4 bytes, so a slice taken from the middle of a
// larger image is accepted.
func NewPixelBufferStride(width, height, stride int, pix []uint8) (*PixelBuffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidBuffer, width, height)
	}
	if stride < width*bytesPerPixel {
		return nil, fmt.Errorf("%w: stride %d shorter than row of %d pixels", ErrInvalidBuffer, stride, width)
	}
	if height > 0 && width > 0 {
		need := (height-1)*stride + width*bytesPerPixel
		if len(pix) < need {
			return nil, fmt.Errorf("%w: need %d bytes for %dx%d (stride %d), have %d",
				ErrInvalidBuffer, need, width, height, stride, len(pix))
		}
	}
	return &PixelBuffer{pix: pix, stride: stride, width: width, height: height}, nil
}

// FromRGBA returns a buffer viewing img's pixels without copying.
//
// Values are read as stored; for *image.RGBA those are alpha-premultiplied,
// which is identical to straight RGB for opaque images.
func FromRGBA(img *image.RGBA) *PixelBuffer {
	return fromPix(img.Pix, img.Stride, img.Rect, img.PixOffset)
}

// FromNRGBA returns a buffer viewing img's non-premultiplied pixels without
// copying.
func FromNRGBA(img *image.NRGBA) *PixelBuffer {
	return fromPix(img.Pix, img.Stride, img.Rect, img.PixOffset)
}

func fromPix(pix []uint8, stride int, r image.Rectangle, offset func(x, y int) int) *PixelBuffer {
	if r.Empty() {
		return &PixelBuffer{}
	}
	return &PixelBuffer{
		pix:    pix[offset(r.Min.X, r.Min.Y):],
		stride: stride,
		width:  r.Dx(),
		height: r.Dy(),
	}
}

// Width returns the buffer width in pixels.
func (b *PixelBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *PixelBuffer) Height() int { return b.height }

// Bounds returns a Rect covering the whole buffer.
func (b *PixelBuffer) Bounds() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// At returns the RGBA samples of pixel (x, y). The coordinates must be inside
// the buffer.
func (b *PixelBuffer) At(x, y int) (r, g, bl, a uint8) {
	i := y*b.stride + x*bytesPerPixel
	p := b.pix[i : i+bytesPerPixel : i+bytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// row returns the samples of n pixels starting at (x, y).
func (b *PixelBuffer) row(x, y, n int) []uint8 {
	start := y*b.stride + x*bytesPerPixel
	return b.pix[start : start+n*bytesPerPixel]
}

// checkRect validates that r lies entirely inside the buffer.
func (b *PixelBuffer) checkRect(r Rect) error {
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 ||
		r.Width > b.width-r.X || r.Height > b.height-r.Y {
		return fmt.Errorf("%w: rect (%d,%d) %dx%d outside %dx%d buffer",
			ErrRectOutOfBounds, r.X, r.Y, r.Width, r.Height, b.width, b.height)
	}
	return nil
}
