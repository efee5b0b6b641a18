// Command gridstat prints the brightness grid of an image in the terminal.
//
//	gridstat -rows 4 -cols 6 photo.jpg
//
// Each cell shows its rounded average brightness (0-255), coloured dark,
// medium or bright. With -hist, the histogram of every cell follows.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
	"github.com/ironsheep/image-grid-mcp/internal/config"
	"github.com/ironsheep/image-grid-mcp/internal/imaging"
)

// Brightness class boundaries.
const (
	darkBelow   = 85
	brightAbove = 170
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	darkColor   = color.New(color.FgHiBlack)
	mediumColor = color.New(color.FgYellow)
	brightColor = color.New(color.FgHiWhite, color.Bold)
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "gridstat: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("gridstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rows := fs.Int("rows", 4, "number of grid rows (1-26)")
	cols := fs.Int("cols", 4, "number of grid columns (1-26)")
	bins := fs.Int("bins", cfg.OverviewBins, "histogram bins")
	showHist := fs.Bool("hist", false, "print each cell's histogram")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: gridstat [-rows N] [-cols M] [-bins B] [-hist] image")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	ci, err := imaging.NewImageCache().Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "gridstat: %v\n", err)
		return 1
	}

	spec := cellstats.GridSpec{Rows: *rows, Cols: *cols}
	analysis, err := cellstats.NewAnalyzer(cfg.Workers).Analyze(context.Background(), ci.Pixels(), spec, *bins)
	if err != nil {
		fmt.Fprintf(stderr, "gridstat: %v\n", err)
		if cellstats.IsValidationError(err) {
			return 2
		}
		return 1
	}

	fmt.Fprintf(stdout, "%s: %dx%d %s, %dx%d grid\n\n", fs.Arg(0), ci.Width(), ci.Height(), ci.Format, spec.Rows, spec.Cols)
	printGrid(stdout, analysis)
	if *showHist {
		fmt.Fprintln(stdout)
		printHistograms(stdout, analysis)
	}
	return 0
}

// printGrid writes the column header and one line per row of rounded
// brightness values.
func printGrid(w io.Writer, a *cellstats.GridAnalysis) {
	headerColor.Fprint(w, "   ")
	for col := 0; col < a.Grid.Cols; col++ {
		headerColor.Fprintf(w, "%4d", col+1)
	}
	fmt.Fprintln(w)

	grid := a.BrightnessGrid()
	for row, values := range grid {
		headerColor.Fprintf(w, "%-3s", string(rune('A'+row)))
		for col, v := range values {
			if a.Cells[row*a.Grid.Cols+col].Stats.Empty() {
				darkColor.Fprintf(w, "%4s", "-")
				continue
			}
			brightnessColor(v).Fprintf(w, "%4d", v)
		}
		fmt.Fprintln(w)
	}
}

func printHistograms(w io.Writer, a *cellstats.GridAnalysis) {
	for i := range a.Cells {
		cell := &a.Cells[i]
		counts := make([]string, len(cell.Histogram))
		for j, n := range cell.Histogram {
			counts[j] = fmt.Sprint(n)
		}
		headerColor.Fprintf(w, "%-4s", cell.Label)
		fmt.Fprintln(w, strings.Join(counts, " "))
	}
}

func brightnessColor(v int) *color.Color {
	switch {
	case v < darkBelow:
		return darkColor
	case v > brightAbove:
		return brightColor
	default:
		return mediumColor
	}
}
