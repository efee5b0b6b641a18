package cellstats

import "fmt"

// MaxGridSize is the largest row or column count. Rows are labeled with a
// single letter, so the bound is the size of the A-Z alphabet.
const MaxGridSize = 26

// GridSpec defines how an image is divided into cells.
type GridSpec struct {
	Rows int `json:"rows"` // Number of rows (1-26)
	Cols int `json:"cols"` // Number of columns (1-26)
}

// Validate returns ErrInvalidGridSpec if rows or cols fall outside [1, 26].
func (s GridSpec) Validate() error {
	if s.Rows < 1 || s.Rows > MaxGridSize || s.Cols < 1 || s.Cols > MaxGridSize {
		return fmt.Errorf("%w: rows=%d cols=%d, each must be in [1,%d]",
			ErrInvalidGridSpec, s.Rows, s.Cols, MaxGridSize)
	}
	return nil
}

// Cells returns the number of cells in the grid.
func (s GridSpec) Cells() int {
	return s.Rows * s.Cols
}

// Rect is the pixel region of one grid cell.
//
// (X, Y) is the top-left corner; the region spans [X, X+Width) × [Y, Y+Height).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the number of pixels covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Partition divides an image into the cells of spec.
//
// Parameters:
//   - imageWidth, imageHeight: Image dimensions in pixels (>= 0).
//   - spec: Grid rows and columns, each in [1, 26].
//
// Returns:
//   - []Rect: spec.Rows*spec.Cols rectangles in row-major order (row 0 first,
//     within a row column 0 first). Index i is row i/cols, column i%cols.
//   - error: ErrInvalidGridSpec or ErrInvalidDimensions.
//
// # Algorithm
//
// Interior cells are floor(imageWidth/cols) × floor(imageHeight/rows). The last
// column extends to imageWidth and the last row to imageHeight, so the
// rectangles tile the image with no gaps or overlaps.
//
// When the image is smaller than the grid, interior cells have zero width or
// height; they are still emitted.
func Partition(imageWidth, imageHeight int, spec GridSpec) ([]Rect, error) {
	if err := validateLayout(imageWidth, imageHeight, spec); err != nil {
		return nil, err
	}

	rects := make([]Rect, 0, spec.Cells())
	for row := 0; row < spec.Rows; row++ {
		for col := 0; col < spec.Cols; col++ {
			rects = append(rects, cellRect(imageWidth, imageHeight, spec, row, col))
		}
	}
	return rects, nil
}

// CellRect returns the rectangle of a single cell, computed exactly as
// Partition computes it.
//
// Returns ErrCellOutOfRange if row or col is outside the grid.
func CellRect(imageWidth, imageHeight int, spec GridSpec, row, col int) (Rect, error) {
	if err := validateLayout(imageWidth, imageHeight, spec); err != nil {
		return Rect{}, err
	}
	if row < 0 || row >= spec.Rows || col < 0 || col >= spec.Cols {
		return Rect{}, fmt.Errorf("%w: row=%d col=%d in %dx%d grid",
			ErrCellOutOfRange, row, col, spec.Rows, spec.Cols)
	}
	return cellRect(imageWidth, imageHeight, spec, row, col), nil
}

func validateLayout(imageWidth, imageHeight int, spec GridSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if imageWidth < 0 || imageHeight < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, imageWidth, imageHeight)
	}
	return nil
}

func cellRect(imageWidth, imageHeight int, spec GridSpec, row, col int) Rect {
	cellWidth := imageWidth / spec.Cols
	cellHeight := imageHeight / spec.Rows

	r := Rect{
		X:      col * cellWidth,
		Y:      row * cellHeight,
		Width:  cellWidth,
		Height: cellHeight,
	}
	// Last column and row absorb the remainder
	if col == spec.Cols-1 {
		r.Width = imageWidth - r.X
	}
	if row == spec.Rows-1 {
		r.Height = imageHeight - r.Y
	}
	return r
}
