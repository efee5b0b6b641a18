// Package cellstats partitions a raster image into a labeled grid and computes
// per-cell luminance statistics and brightness histograms.
//
// The package works on a PixelBuffer, a read-only stride-based view over 8-bit
// RGBA samples. It never decodes files; callers hand it pixels that are already
// decoded (see the imaging package for conversion from image.Image).
//
// # Grid Layout
//
// A GridSpec of rows×cols (each 1-26) splits a W×H image into cells of
// floor(W/cols) × floor(H/rows) pixels. The last column and last row absorb the
// rounding remainder, so every interior cell has the same size. Cells are
// labeled with a row letter and a 1-based column number: "A1" is the top-left
// cell, "B3" is row 1, column 2.
//
// # Brightness
//
// Per-pixel brightness is the BT.601 luminance 0.299*R + 0.587*G + 0.114*B in
// the range [0, 255]. Alpha is ignored. Histograms bin the brightness rounded
// to the nearest integer level; bin i of n covers levels [i*256/n, (i+1)*256/n)
// and the last bin also holds level 255.
//
// # Degenerate Cells
//
// An image smaller than the grid produces zero-area cells. These are not
// errors: statistics report PixelCount 0, averages 0, MinBrightness 255,
// MaxBrightness 0, and histograms are all zero.
//
// # Thread Safety
//
// Partition, ComputeStats and ComputeHistogram are pure functions and may be
// called concurrently on the same buffer. Analyzer can spread the cells of one
// grid across goroutines. AnalysisCache is safe for concurrent use.
package cellstats
