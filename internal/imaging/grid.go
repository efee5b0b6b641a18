package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
)

// OverlayOptions controls what GridOverlay draws on top of the image.
type OverlayOptions struct {
	// LabelColor is the hex colour of cell labels ("#1d4ed8" if empty or invalid).
	LabelColor string

	// HistColor is the hex colour of the mini histograms ("#1d4ed8" if empty or invalid).
	HistColor string

	// ShowBrightness draws the rounded average brightness in each cell's
	// upper-right corner.
	ShowBrightness bool

	// ShowHistograms draws a histogram in the bottom centre of each cell,
	// half the cell's width and height.
	ShowHistograms bool
}

// GridOverlayResult contains the image with the labeled grid drawn on it.
type GridOverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var (
	gridLineColor   = color.NRGBA{R: 0x60, G: 0xa5, B: 0xfa, A: 255} // light blue
	labelBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 204}
	valueBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 217}
	valueText       = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 255}
)

const (
	histogramOpacity = 0.6
	labelPadding     = 2
	labelInset       = 2
)

// GridOverlay draws the analyzed grid over img: cell borders, a label such as
// "B3" in every cell's upper-left corner and, depending on opts, the cell's
// rounded brightness and a bar chart of its histogram.
//
// The analysis must have been computed from an image of the same size.
func GridOverlay(img image.Image, analysis *cellstats.GridAnalysis, opts OverlayOptions) (*GridOverlayResult, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if analysis.Width != width || analysis.Height != height {
		return nil, fmt.Errorf("analysis is for a %dx%d image, got %dx%d",
			analysis.Width, analysis.Height, width, height)
	}

	accent := colorOrDefault(DefaultAccentColor, color.NRGBA{A: 255})
	labelColor := colorOrDefault(opts.LabelColor, accent)
	histColor := withOpacity(colorOrDefault(opts.HistColor, accent), histogramOpacity)

	result := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for i := range analysis.Cells {
		cell := &analysis.Cells[i]
		drawCellBorder(result, cell.Rect)
		drawLabel(result, cell.Rect.X+labelInset, cell.Rect.Y+labelInset, cell.Label, labelColor, labelBackground, false)

		if opts.ShowBrightness && !cell.Stats.Empty() {
			text := strconv.Itoa(cell.Stats.RoundedBrightness())
			drawLabel(result, cell.Rect.X+cell.Rect.Width-labelInset, cell.Rect.Y+labelInset, text, valueText, valueBackground, true)
		}
		if opts.ShowHistograms {
			drawHistogram(result, cell.Rect, cell.Histogram, histColor)
		}
	}

	encoded, err := encodePNGBase64(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &GridOverlayResult{
		Width:       width,
		Height:      height,
		Rows:        analysis.Grid.Rows,
		Cols:        analysis.Grid.Cols,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// drawCellBorder outlines the top and left edges of a cell, plus the right
// and bottom edges where the cell touches the image border.
func drawCellBorder(dst *image.RGBA, r cellstats.Rect) {
	if r.Empty() {
		return
	}
	line := image.NewUniform(gridLineColor)
	b := dst.Bounds()
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.Width, r.Y+r.Height

	draw.Draw(dst, image.Rect(x0, y0, x1, y0+1), line, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(x0, y0, x0+1, y1), line, image.Point{}, draw.Src)
	if x1 == b.Max.X {
		draw.Draw(dst, image.Rect(x1-2, y0, x1, y1), line, image.Point{}, draw.Src)
	}
	if y1 == b.Max.Y {
		draw.Draw(dst, image.Rect(x0, y1-2, x1, y1), line, image.Point{}, draw.Src)
	}
}

// drawLabel draws text on a translucent box. (x, y) is the box's top-left
// corner, or its top-right corner when alignRight is set. The box is clipped
// to the image.
func drawLabel(dst *image.RGBA, x, y int, text string, fg, bg color.NRGBA, alignRight bool) {
	face := basicfont.Face7x13
	textWidth := font.MeasureString(face, text).Ceil()
	boxW := textWidth + 2*labelPadding
	boxH := face.Metrics().Height.Ceil() + labelPadding

	if alignRight {
		x -= boxW
	}
	box := image.Rect(x, y, x+boxW, y+boxH).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot:  fixed.P(x+labelPadding, y+face.Metrics().Ascent.Ceil()+labelPadding/2),
	}
	d.DrawString(text)
}

// drawHistogram draws hist as vertical bars scaled to its largest bin, in a
// box half the cell's size centred on the cell's bottom edge.
func drawHistogram(dst *image.RGBA, r cellstats.Rect, hist cellstats.Histogram, c color.NRGBA) {
	peak := hist.Max()
	if peak == 0 {
		peak = 1
	}
	chartW, chartH := r.Width/2, r.Height/2
	if chartW <= 0 || chartH <= 0 || len(hist) == 0 {
		return
	}

	left := r.X + (r.Width-chartW)/2
	bottom := r.Y + r.Height - labelInset
	binWidth := float64(chartW) / float64(len(hist))
	fill := image.NewUniform(c)

	for i, v := range hist {
		barH := int(float64(v) / float64(peak) * float64(chartH))
		if barH == 0 {
			continue
		}
		x0 := left + int(float64(i)*binWidth)
		x1 := left + int(float64(i+1)*binWidth) - 1
		if x1 <= x0 {
			x1 = x0 + 1
		}
		draw.Draw(dst, image.Rect(x0, bottom-barH, x1, bottom), fill, image.Point{}, draw.Over)
	}
}
