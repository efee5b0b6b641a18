package cellstats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// CellResult holds everything computed for one grid cell.
type CellResult struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Label     string    `json:"label"`
	Rect      Rect      `json:"rect"`
	Stats     CellStats `json:"stats"`
	Histogram Histogram `json:"histogram"`
}

// GridAnalysis is the result of analyzing every cell of a grid. Treat it as
// read-only: cached analyses are shared between callers.
type GridAnalysis struct {
	Grid     GridSpec     `json:"grid"`
	BinCount int          `json:"bin_count"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Cells    []CellResult `json:"cells"` // Row-major
}

// Cell returns the result for (row, col).
func (a *GridAnalysis) Cell(row, col int) (*CellResult, error) {
	if row < 0 || row >= a.Grid.Rows || col < 0 || col >= a.Grid.Cols {
		return nil, fmt.Errorf("%w: row=%d col=%d in %dx%d grid",
			ErrCellOutOfRange, row, col, a.Grid.Rows, a.Grid.Cols)
	}
	return &a.Cells[row*a.Grid.Cols+col], nil
}

// BrightnessGrid returns the rounded average brightness of every cell,
// indexed [row][col].
func (a *GridAnalysis) BrightnessGrid() [][]int {
	grid := make([][]int, a.Grid.Rows)
	for row := range grid {
		grid[row] = make([]int, a.Grid.Cols)
		for col := range grid[row] {
			grid[row][col] = a.Cells[row*a.Grid.Cols+col].Stats.RoundedBrightness()
		}
	}
	return grid
}

// HistogramGrid returns the histogram of every cell, indexed [row][col].
func (a *GridAnalysis) HistogramGrid() [][]Histogram {
	grid := make([][]Histogram, a.Grid.Rows)
	for row := range grid {
		grid[row] = make([]Histogram, a.Grid.Cols)
		for col := range grid[row] {
			grid[row][col] = a.Cells[row*a.Grid.Cols+col].Histogram
		}
	}
	return grid
}

// Analyzer runs the statistics engine over all cells of a grid.
//
// Cells share no state, so with more than one worker they are computed
// concurrently. Results are identical either way.
type Analyzer struct {
	workers int
}

// NewAnalyzer returns an Analyzer using up to workers goroutines per grid.
// Values below 1 are treated as 1 (sequential).
func NewAnalyzer(workers int) *Analyzer {
	if workers < 1 {
		workers = 1
	}
	return &Analyzer{workers: workers}
}

// Workers returns the configured concurrency.
func (an *Analyzer) Workers() int {
	return an.workers
}

// Analyze partitions buf by spec and computes statistics and a binCount-bin
// histogram for every cell.
//
// Cancellation is checked between cells. A cancelled analysis returns the
// context error and no result.
func (an *Analyzer) Analyze(ctx context.Context, buf *PixelBuffer, spec GridSpec, binCount int) (*GridAnalysis, error) {
	if err := checkBinCount(binCount); err != nil {
		return nil, err
	}
	rects, err := Partition(buf.Width(), buf.Height(), spec)
	if err != nil {
		return nil, err
	}

	cells := make([]CellResult, len(rects))
	compute := func(i int) error {
		row, col := i/spec.Cols, i%spec.Cols
		stats, hist, err := ComputeCell(buf, rects[i], binCount)
		if err != nil {
			return fmt.Errorf("cell %s: %w", CellLabel(row, col), err)
		}
		cells[i] = CellResult{
			Row:       row,
			Col:       col,
			Label:     CellLabel(row, col),
			Rect:      rects[i],
			Stats:     stats,
			Histogram: hist,
		}
		return nil
	}

	if an.workers == 1 {
		for i := range rects {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := compute(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(an.workers)
		for i := range rects {
			if gctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return compute(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		// Cells skipped after cancellation leave no error behind.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return &GridAnalysis{
		Grid:     spec,
		BinCount: binCount,
		Width:    buf.Width(),
		Height:   buf.Height(),
		Cells:    cells,
	}, nil
}
