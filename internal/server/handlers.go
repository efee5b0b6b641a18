package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
	"github.com/ironsheep/image-grid-mcp/internal/imaging"
)

// errInvalidArguments marks tool arguments that are malformed or missing.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "grid_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Invalid arguments (bad grid, bin count, rectangle or cell address) return a
// JSON-RPC error with code -32602. Every other failure returns -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		if isInvalidParams(err) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

func isInvalidParams(err error) bool {
	return errors.Is(err, errInvalidArguments) || cellstats.IsValidationError(err)
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "grid_partition":
		return s.handleGridPartition(args)
	case "grid_analyze":
		return s.handleGridAnalyze(ctx, args)
	case "grid_cell":
		return s.handleGridCell(args)
	case "grid_overlay":
		return s.handleGridOverlay(ctx, args)
	case "region_stats":
		return s.handleRegionStats(args)
	case "cache_clear":
		return s.handleCacheClear(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, tagging failures as invalid params.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// intOr returns *p, or def when p is nil.
func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// === Image Handlers ===

type imageLoadArgs struct {
	Path   string `json:"path"`
	Reload bool   `json:"reload"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		_, replacedID, err := s.images.Reload(a.Path)
		if err != nil {
			return nil, err
		}
		if replacedID != "" {
			s.analyses.EvictImage(replacedID)
		}
	}
	return imaging.LoadImageInfo(s.images, a.Path)
}

// evict drops path from the image cache along with every analysis computed
// from it.
func (s *Server) evict(path string) (imageEvicted bool, analysesEvicted int) {
	id, ok := s.images.Evict(path)
	if !ok {
		return false, 0
	}
	return true, s.analyses.EvictImage(id)
}

// === Grid Handlers ===

type gridArgs struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

func (a gridArgs) spec() cellstats.GridSpec {
	return cellstats.GridSpec{Rows: a.Rows, Cols: a.Cols}
}

type partitionCell struct {
	Row   int            `json:"row"`
	Col   int            `json:"col"`
	Label string         `json:"label"`
	Rect  cellstats.Rect `json:"rect"`
}

type gridPartitionResult struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Rows   int             `json:"rows"`
	Cols   int             `json:"cols"`
	Cells  []partitionCell `json:"cells"`
}

func (s *Server) handleGridPartition(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ci, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	spec := a.spec()
	rects, err := cellstats.Partition(ci.Width(), ci.Height(), spec)
	if err != nil {
		return nil, err
	}

	cells := make([]partitionCell, len(rects))
	for i, r := range rects {
		row, col := i/spec.Cols, i%spec.Cols
		cells[i] = partitionCell{Row: row, Col: col, Label: cellstats.CellLabel(row, col), Rect: r}
	}
	return &gridPartitionResult{
		Width:  ci.Width(),
		Height: ci.Height(),
		Rows:   spec.Rows,
		Cols:   spec.Cols,
		Cells:  cells,
	}, nil
}

// analyze returns the memoized analysis of ci, computing it on a miss.
func (s *Server) analyze(ctx context.Context, ci *imaging.CachedImage, spec cellstats.GridSpec, bins int) (*cellstats.GridAnalysis, error) {
	key := cellstats.CacheKey{ImageID: ci.ID, Grid: spec, BinCount: bins}
	return s.analyses.GetOrCompute(key, func() (*cellstats.GridAnalysis, error) {
		s.log.Debug("analyzing grid",
			zap.String("path", ci.Path),
			zap.Int("rows", spec.Rows),
			zap.Int("cols", spec.Cols),
			zap.Int("bins", bins))
		return s.analyzer.Analyze(ctx, ci.Pixels(), spec, bins)
	})
}

type gridAnalyzeArgs struct {
	gridArgs
	Bins *int `json:"bins"`
}

type gridAnalyzeResult struct {
	ImageID        string                  `json:"image_id"`
	Width          int                     `json:"width"`
	Height         int                     `json:"height"`
	Rows           int                     `json:"rows"`
	Cols           int                     `json:"cols"`
	Bins           int                     `json:"bins"`
	Labels         [][]string              `json:"labels"`
	BrightnessGrid [][]int                 `json:"brightness_grid"`
	HistogramGrid  [][]cellstats.Histogram `json:"histogram_grid"`
}

func (s *Server) handleGridAnalyze(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a gridAnalyzeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ci, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	bins := intOr(a.Bins, s.cfg.OverviewBins)
	analysis, err := s.analyze(ctx, ci, a.spec(), bins)
	if err != nil {
		return nil, err
	}

	return &gridAnalyzeResult{
		ImageID:        ci.ID,
		Width:          analysis.Width,
		Height:         analysis.Height,
		Rows:           analysis.Grid.Rows,
		Cols:           analysis.Grid.Cols,
		Bins:           analysis.BinCount,
		Labels:         cellstats.GridLabels(analysis.Grid),
		BrightnessGrid: analysis.BrightnessGrid(),
		HistogramGrid:  analysis.HistogramGrid(),
	}, nil
}

type gridCellArgs struct {
	gridArgs
	Cell          string `json:"cell"`
	Row           *int   `json:"row"`
	Col           *int   `json:"col"`
	Bins          *int   `json:"bins"`
	ThumbnailSize *int   `json:"thumbnail_size"`
}

// address resolves the cell either from its label or from row and col.
func (a gridCellArgs) address() (row, col int, err error) {
	if a.Cell != "" {
		return cellstats.ParseCellLabel(a.Cell)
	}
	if a.Row == nil || a.Col == nil {
		return 0, 0, fmt.Errorf("%w: either cell or both row and col are required", errInvalidArguments)
	}
	return *a.Row, *a.Col, nil
}

type gridCellResult struct {
	Label     string                   `json:"label"`
	Row       int                      `json:"row"`
	Col       int                      `json:"col"`
	Rect      cellstats.Rect           `json:"rect"`
	Stats     cellstats.CellStats      `json:"stats"`
	Color     imaging.ColorResult      `json:"color"`
	Bins      int                      `json:"bins"`
	Histogram cellstats.Histogram      `json:"histogram"`
	Thumbnail *imaging.ThumbnailResult `json:"thumbnail"`
}

func (s *Server) handleGridCell(args json.RawMessage) (interface{}, error) {
	var a gridCellArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	row, col, err := a.address()
	if err != nil {
		return nil, err
	}
	size := intOr(a.ThumbnailSize, s.cfg.ThumbnailSize)
	if size <= 0 || size > imaging.MaxThumbnailSize {
		return nil, fmt.Errorf("%w: thumbnail_size must be 1-%d, got %d",
			errInvalidArguments, imaging.MaxThumbnailSize, size)
	}

	ci, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rect, err := cellstats.CellRect(ci.Width(), ci.Height(), a.spec(), row, col)
	if err != nil {
		return nil, err
	}

	bins := intOr(a.Bins, s.cfg.DetailBins)
	stats, hist, err := cellstats.ComputeCell(ci.Pixels(), rect, bins)
	if err != nil {
		return nil, err
	}
	thumb, err := imaging.Thumbnail(ci.Image, rect, size)
	if err != nil {
		return nil, err
	}

	return &gridCellResult{
		Label:     cellstats.CellLabel(row, col),
		Row:       row,
		Col:       col,
		Rect:      rect,
		Stats:     stats,
		Color:     imaging.AverageColor(stats),
		Bins:      bins,
		Histogram: hist,
		Thumbnail: thumb,
	}, nil
}

type gridOverlayArgs struct {
	gridArgs
	LabelColor     string `json:"label_color"`
	HistColor      string `json:"hist_color"`
	ShowBrightness *bool  `json:"show_brightness"`
	ShowHistograms bool   `json:"show_histograms"`
	Bins           *int   `json:"bins"`
}

func (s *Server) handleGridOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a gridOverlayArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ci, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyze(ctx, ci, a.spec(), intOr(a.Bins, s.cfg.OverviewBins))
	if err != nil {
		return nil, err
	}

	return imaging.GridOverlay(ci.Image, analysis, imaging.OverlayOptions{
		LabelColor:     a.LabelColor,
		HistColor:      a.HistColor,
		ShowBrightness: a.ShowBrightness == nil || *a.ShowBrightness,
		ShowHistograms: a.ShowHistograms,
	})
}

// === Region Handlers ===

type regionStatsArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Bins   *int   `json:"bins"`
}

type regionStatsResult struct {
	Rect      cellstats.Rect      `json:"rect"`
	Stats     cellstats.CellStats `json:"stats"`
	Color     imaging.ColorResult `json:"color"`
	Bins      int                 `json:"bins"`
	Histogram cellstats.Histogram `json:"histogram"`
}

func (s *Server) handleRegionStats(args json.RawMessage) (interface{}, error) {
	var a regionStatsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ci, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	rect := cellstats.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height}
	bins := intOr(a.Bins, s.cfg.DetailBins)
	stats, hist, err := cellstats.ComputeCell(ci.Pixels(), rect, bins)
	if err != nil {
		return nil, err
	}

	return &regionStatsResult{
		Rect:      rect,
		Stats:     stats,
		Color:     imaging.AverageColor(stats),
		Bins:      bins,
		Histogram: hist,
	}, nil
}

// === Cache Handlers ===

type cacheClearArgs struct {
	Path string `json:"path"`
}

type cacheClearResult struct {
	ImagesEvicted   int                  `json:"images_evicted"`
	AnalysesEvicted int                  `json:"analyses_evicted"`
	Analyses        cellstats.CacheStats `json:"analyses"`
}

func (s *Server) handleCacheClear(args json.RawMessage) (interface{}, error) {
	var a cacheClearArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	result := &cacheClearResult{}
	if a.Path != "" {
		evicted, n := s.evict(a.Path)
		if evicted {
			result.ImagesEvicted = 1
		}
		result.AnalysesEvicted = n
	} else {
		result.ImagesEvicted = s.images.Len()
		result.AnalysesEvicted = s.analyses.Stats().Entries
		s.images.Clear()
		s.analyses.Clear()
	}
	result.Analyses = s.analyses.Stats()

	s.log.Info("cache cleared",
		zap.String("path", a.Path),
		zap.Int("images", result.ImagesEvicted),
		zap.Int("analyses", result.AnalysesEvicted))
	return result, nil
}
