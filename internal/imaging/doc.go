// Package imaging loads images and renders the visual outputs of grid
// analysis: the labeled grid overlay and per-cell thumbnails.
//
// Statistics themselves live in package cellstats. This package bridges
// decoded image.Image values to cellstats.PixelBuffer and draws the results
// back onto the image.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner of the
// image, X increasing rightward and Y increasing downward. Cell rectangles
// are relative to img.Bounds().Min, so images decoded with a non-zero origin
// behave like any other.
//
// # Supported Formats
//
// ImageCache decodes PNG, JPEG, GIF, TIFF, BMP and WebP. The reported format
// comes from the decoder, not the file extension.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use, and a CachedImage's pixel buffer is
// built once and shared. GridOverlay and Thumbnail never modify their input.
//
// # Color Representation
//
// Average colours are returned as:
//   - Hex: lowercase "#rrggbb"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// Overlay colours accept "#rrggbb" or "#rrggbbaa"; anything else falls back
// to DefaultAccentColor.
package imaging
