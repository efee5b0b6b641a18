package cellstats

import (
	"fmt"
	"math"
)

// Bin counts used by the grid overview and the single-cell detail view.
const (
	OverviewBins = 16
	DetailBins   = 32
)

// Histogram counts pixels per brightness bin, ordered by ascending brightness.
// The sum of all bins equals the pixel count of the region.
type Histogram []int

// Total returns the sum of all bins.
func (h Histogram) Total() int {
	total := 0
	for _, v := range h {
		total += v
	}
	return total
}

// Max returns the largest bin count, or 0 for an empty histogram.
func (h Histogram) Max() int {
	m := 0
	for _, v := range h {
		if v > m {
			m = v
		}
	}
	return m
}

// BinRange returns the brightness interval [low, high) covered by bin i of a
// histogram with binCount bins.
func BinRange(i, binCount int) (low, high float64) {
	width := 256.0 / float64(binCount)
	return float64(i) * width, float64(i+1) * width
}

// ComputeHistogram bins the brightness of every pixel in rect.
//
// Parameters:
//   - buf: Source pixels. Not modified.
//   - rect: Region to bin. Must lie inside buf; may have zero area.
//   - binCount: Number of equal-width bins over [0, 256). Must be positive.
//
// Returns:
//   - Histogram: binCount counts. All zero for a zero-area rect.
//   - error: ErrInvalidBinCount or ErrRectOutOfBounds.
//
// # Binning
//
// Brightness is rounded to the nearest integer level first, so gray (v,v,v)
// always counts as level v even when the weighted sum comes out a hair below
// it. Level l then falls in bin floor(l/256 * binCount), clamped to binCount-1
// so level 255 always lands in the top bin.
func ComputeHistogram(buf *PixelBuffer, rect Rect, binCount int) (Histogram, error) {
	if err := checkBinCount(binCount); err != nil {
		return nil, err
	}
	if err := buf.checkRect(rect); err != nil {
		return nil, err
	}

	hist := make(Histogram, binCount)
	if rect.Empty() {
		return hist, nil
	}
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		p := buf.row(rect.X, y, rect.Width)
		for i := 0; i < len(p); i += bytesPerPixel {
			hist[binIndex(Brightness(p[i], p[i+1], p[i+2]), binCount)]++
		}
	}
	return hist, nil
}

func binIndex(brightness float64, binCount int) int {
	bin := int(math.Round(brightness) / 256 * float64(binCount))
	if bin >= binCount {
		bin = binCount - 1
	}
	return bin
}

func checkBinCount(binCount int) error {
	if binCount <= 0 {
		return fmt.Errorf("%w: %d, must be positive", ErrInvalidBinCount, binCount)
	}
	return nil
}
