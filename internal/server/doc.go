// Package server implements the MCP (Model Context Protocol) server for grid
// brightness analysis.
//
// The server splits an image into a labeled rows x cols grid (at most 26 x 26,
// cells A1 through Z26) and reports per-cell luminance statistics and
// histograms, so an AI client can reason about which parts of an image are
// dark or bright without looking at the pixels itself.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load image and get metadata and image_id
//   - grid_partition: Cell labels and pixel rectangles
//   - grid_analyze: Brightness grid and histogram grid
//   - grid_cell: Detailed statistics and thumbnail for one cell
//   - grid_overlay: Image with labeled grid, brightness and histograms drawn on
//   - region_stats: Statistics for an arbitrary rectangle
//   - cache_clear: Drop cached images and analyses
//
// # Caching
//
// Decoded images are cached by path. Each decode gets a fresh image_id, and
// grid analyses are memoized under (image_id, grid, bin count), so reloading
// or evicting an image never serves stale statistics.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for invalid arguments (grid size, bin count, rectangle,
//     cell address), -32000 for any other tool failure
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, logging.New(logging.Options{Level: cfg.LogLevel}))
//	if err := srv.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package server
