package cellstats

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestComputeHistogram_WhiteCells(t *testing.T) {
	buf := createBuffer(t, 4, 4, color.RGBA{255, 255, 255, 255})
	rects, _ := Partition(4, 4, GridSpec{Rows: 2, Cols: 2})

	for _, r := range rects {
		hist, err := ComputeHistogram(buf, r, 4)
		if err != nil {
			t.Fatalf("ComputeHistogram failed: %v", err)
		}
		want := Histogram{0, 0, 0, 4}
		for i := range want {
			if hist[i] != want[i] {
				t.Errorf("rect %+v: got %v, want %v", r, hist, want)
				break
			}
		}
	}
}

func TestComputeHistogram_SingleBlackPixel(t *testing.T) {
	buf := createBuffer(t, 1, 1, color.RGBA{0, 0, 0, 255})

	hist, err := ComputeHistogram(buf, buf.Bounds(), OverviewBins)
	if err != nil {
		t.Fatalf("ComputeHistogram failed: %v", err)
	}
	if len(hist) != OverviewBins {
		t.Fatalf("len: got %d, want %d", len(hist), OverviewBins)
	}
	if hist[0] != 1 {
		t.Errorf("bin 0: got %d, want 1", hist[0])
	}
	for i := 1; i < len(hist); i++ {
		if hist[i] != 0 {
			t.Errorf("bin %d: got %d, want 0", i, hist[i])
		}
	}
}

func TestComputeHistogram_BinBoundaries(t *testing.T) {
	// Gray pixels have brightness equal to their level, so each level's bin
	// is predictable.
	levels := []uint8{0, 15, 16, 31, 32, 127, 128, 240, 254, 255}
	img := image.NewRGBA(image.Rect(0, 0, len(levels), 1))
	for x, v := range levels {
		img.SetRGBA(x, 0, color.RGBA{v, v, v, 255})
	}
	buf := FromRGBA(img)

	for x, v := range levels {
		hist, err := ComputeHistogram(buf, Rect{X: x, Width: 1, Height: 1}, OverviewBins)
		if err != nil {
			t.Fatalf("ComputeHistogram failed: %v", err)
		}
		wantBin := int(v) / 16
		if hist[wantBin] != 1 {
			t.Errorf("level %d: want bin %d, histogram %v", v, wantBin, hist)
		}
	}
}

func TestComputeHistogram_SumEqualsArea(t *testing.T) {
	buf := createGradientBuffer(t, 64, 48)
	rects, _ := Partition(64, 48, GridSpec{Rows: 5, Cols: 7})

	for _, bins := range []int{1, 2, 7, 16, 32, 256, 1000} {
		for _, r := range rects {
			hist, err := ComputeHistogram(buf, r, bins)
			if err != nil {
				t.Fatalf("ComputeHistogram failed: %v", err)
			}
			if len(hist) != bins {
				t.Errorf("bins=%d: len %d", bins, len(hist))
			}
			if hist.Total() != r.Area() {
				t.Errorf("bins=%d rect %+v: total %d, want %d", bins, r, hist.Total(), r.Area())
			}
		}
	}
}

func TestComputeHistogram_ZeroArea(t *testing.T) {
	buf := createBuffer(t, 3, 3, color.RGBA{255, 255, 255, 255})

	hist, err := ComputeHistogram(buf, Rect{X: 3, Y: 0, Width: 0, Height: 3}, 8)
	if err != nil {
		t.Fatalf("ComputeHistogram failed: %v", err)
	}
	if len(hist) != 8 || hist.Total() != 0 {
		t.Errorf("got %v, want 8 empty bins", hist)
	}
}

func TestComputeHistogram_InvalidBinCount(t *testing.T) {
	buf := createBuffer(t, 2, 2, color.RGBA{0, 0, 0, 255})

	for _, bins := range []int{0, -1, -16} {
		if _, err := ComputeHistogram(buf, buf.Bounds(), bins); !errors.Is(err, ErrInvalidBinCount) {
			t.Errorf("bins=%d: got %v, want ErrInvalidBinCount", bins, err)
		}
	}
}

func TestComputeHistogram_OutOfBounds(t *testing.T) {
	buf := createBuffer(t, 2, 2, color.RGBA{0, 0, 0, 255})

	for _, r := range []Rect{
		{X: 1, Y: 1, Width: 2, Height: 1},
		{X: 1, Y: 0, Width: math.MaxInt, Height: 1},
		{X: 0, Y: 1, Width: 1, Height: math.MaxInt},
	} {
		if _, err := ComputeHistogram(buf, r, 4); !errors.Is(err, ErrRectOutOfBounds) {
			t.Errorf("ComputeHistogram(%+v): got %v, want ErrRectOutOfBounds", r, err)
		}
	}
}

func TestComputeHistogram_Idempotent(t *testing.T) {
	buf := createGradientBuffer(t, 20, 20)
	r := Rect{X: 3, Y: 4, Width: 11, Height: 9}

	first, err := ComputeHistogram(buf, r, 8)
	if err != nil {
		t.Fatalf("ComputeHistogram failed: %v", err)
	}
	second, err := ComputeHistogram(buf, r, 8)
	if err != nil {
		t.Fatalf("ComputeHistogram failed: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("bin counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("bin %d: %d vs %d", i, first[i], second[i])
		}
	}
	if first.Total() != r.Area() {
		t.Errorf("Total: got %d, want %d", first.Total(), r.Area())
	}
}

func TestHistogram_Helpers(t *testing.T) {
	h := Histogram{1, 5, 0, 3}
	if h.Total() != 9 {
		t.Errorf("Total: got %d, want 9", h.Total())
	}
	if h.Max() != 5 {
		t.Errorf("Max: got %d, want 5", h.Max())
	}
	if (Histogram{}).Max() != 0 {
		t.Error("Max of empty histogram should be 0")
	}

	low, high := BinRange(3, 16)
	if low != 48 || high != 64 {
		t.Errorf("BinRange(3,16): got [%v,%v), want [48,64)", low, high)
	}
}
