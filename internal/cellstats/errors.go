package cellstats

import "errors"

// Validation errors. Functions wrap these with details, so compare with
// errors.Is.
var (
	// ErrInvalidGridSpec is returned when rows or cols fall outside [1, MaxGridSize].
	ErrInvalidGridSpec = errors.New("invalid grid spec")

	// ErrInvalidBinCount is returned for a histogram bin count <= 0.
	ErrInvalidBinCount = errors.New("invalid bin count")

	// ErrRectOutOfBounds is returned when a rectangle is negative or extends
	// past the pixel buffer.
	ErrRectOutOfBounds = errors.New("rect out of bounds")

	// ErrInvalidDimensions is returned for negative image dimensions.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrInvalidBuffer is returned when a pixel slice is too short for the
	// requested width, height and stride.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")

	// ErrCellOutOfRange is returned when a row or column index is outside the grid.
	ErrCellOutOfRange = errors.New("cell out of range")

	// ErrInvalidCellLabel is returned when a cell label cannot be parsed.
	ErrInvalidCellLabel = errors.New("invalid cell label")
)

// IsValidationError reports whether err is one of the input validation errors
// of this package.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrInvalidGridSpec,
		ErrInvalidBinCount,
		ErrRectOutOfBounds,
		ErrInvalidDimensions,
		ErrInvalidBuffer,
		ErrCellOutOfRange,
		ErrInvalidCellLabel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
