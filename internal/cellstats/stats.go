package cellstats

import "math"

// Luminance weights (ITU-R BT.601).
const (
	weightR = 0.299
	weightG = 0.587
	weightB = 0.114
)

// Initial extremes; a region with no pixels keeps these values.
const (
	initialMinBrightness = 255.0
	initialMaxBrightness = 0.0
)

// Brightness returns the luminance of an RGB sample, 0.299*R + 0.587*G + 0.114*B,
// in the range [0, 255].
func Brightness(r, g, b uint8) float64 {
	// Explicit conversions round every product so no platform fuses them
	// into a multiply-add; results must be bit-identical everywhere.
	return float64(weightR*float64(r)) + float64(weightG*float64(g)) + float64(weightB*float64(b))
}

// CellStats summarizes the brightness of one rectangular region.
//
// For a region with no pixels, PixelCount is 0, all averages are 0,
// MinBrightness is 255 and MaxBrightness is 0. Callers should treat that as
// "no data" rather than as a real measurement.
type CellStats struct {
	AvgBrightness float64 `json:"avg_brightness"` // Mean luminance (0-255)
	AvgR          float64 `json:"avg_r"`          // Mean red channel (0-255)
	AvgG          float64 `json:"avg_g"`          // Mean green channel (0-255)
	AvgB          float64 `json:"avg_b"`          // Mean blue channel (0-255)
	MinBrightness float64 `json:"min_brightness"` // Darkest pixel luminance
	MaxBrightness float64 `json:"max_brightness"` // Brightest pixel luminance
	PixelCount    int     `json:"pixel_count"`    // Pixels in the region
}

// Empty reports whether the statistics were computed over zero pixels.
func (s CellStats) Empty() bool {
	return s.PixelCount == 0
}

// RoundedBrightness returns AvgBrightness rounded to the nearest integer, the
// value shown on the grid overview.
func (s CellStats) RoundedBrightness() int {
	return int(math.Round(s.AvgBrightness))
}

// ComputeStats computes brightness statistics for the pixels of rect.
//
// Parameters:
//   - buf: Source pixels. Not modified.
//   - rect: Region to summarize. Must lie inside buf; may have zero area.
//
// Returns:
//   - CellStats: Averages, extremes and pixel count.
//   - error: ErrRectOutOfBounds if rect is negative or extends past buf.
//
// Alpha is ignored. A zero-area rect is not an error; see CellStats for the
// values reported.
func ComputeStats(buf *PixelBuffer, rect Rect) (CellStats, error) {
	if err := buf.checkRect(rect); err != nil {
		return CellStats{}, err
	}

	acc := newAccumulator(0)
	acc.scan(buf, rect)
	return acc.stats(), nil
}

// ComputeCell computes the statistics and histogram of rect in a single pass
// over its pixels. The results equal those of ComputeStats and
// ComputeHistogram.
func ComputeCell(buf *PixelBuffer, rect Rect, binCount int) (CellStats, Histogram, error) {
	if err := checkBinCount(binCount); err != nil {
		return CellStats{}, nil, err
	}
	if err := buf.checkRect(rect); err != nil {
		return CellStats{}, nil, err
	}

	acc := newAccumulator(binCount)
	acc.scan(buf, rect)
	return acc.stats(), acc.hist, nil
}

// accumulator collects running sums for one region. When hist is non-nil it
// also bins every pixel.
type accumulator struct {
	sum, sumR, sumG, sumB float64
	min, max              float64
	count                 int
	hist                  Histogram
}

func newAccumulator(binCount int) *accumulator {
	acc := &accumulator{
		min: initialMinBrightness,
		max: initialMaxBrightness,
	}
	if binCount > 0 {
		acc.hist = make(Histogram, binCount)
	}
	return acc
}

func (a *accumulator) scan(buf *PixelBuffer, rect Rect) {
	if rect.Empty() {
		return
	}
	for y := rect.Y; y < rect.Y+rect.Height; y++ {
		p := buf.row(rect.X, y, rect.Width)
		for i := 0; i < len(p); i += bytesPerPixel {
			r, g, b := p[i], p[i+1], p[i+2]
			br := Brightness(r, g, b)

			a.sum += br
			a.sumR += float64(r)
			a.sumG += float64(g)
			a.sumB += float64(b)
			if br < a.min {
				a.min = br
			}
			if br > a.max {
				a.max = br
			}
			if a.hist != nil {
				a.hist[binIndex(br, len(a.hist))]++
			}
		}
	}
	a.count += rect.Area()
}

func (a *accumulator) stats() CellStats {
	s := CellStats{
		MinBrightness: a.min,
		MaxBrightness: a.max,
		PixelCount:    a.count,
	}
	if a.count == 0 {
		return s
	}

	n := float64(a.count)
	s.AvgR = a.sumR / n
	s.AvgG = a.sumG / n
	s.AvgB = a.sumB / n
	// Rounding in the running sum can land the mean an ulp outside the
	// observed extremes.
	s.AvgBrightness = math.Min(math.Max(a.sum/n, a.min), a.max)
	return s
}
