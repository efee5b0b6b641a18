package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Schema fragments shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	rowsProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Number of grid rows (1-26)",
		"minimum":     1,
		"maximum":     26,
	}
	colsProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Number of grid columns (1-26)",
		"minimum":     1,
		"maximum":     26,
	}
)

func binsProperty(def string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Histogram bin count over brightness 0-255. Default: " + def,
		"minimum":     1,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and image_id. The image_id changes whenever the file is decoded again, e.g. with reload=true after the file changed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Discard any cached copy and decode the file again. Default: false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_partition",
			Description: "Split the image into a rows x cols grid and return each cell's label (A1, A2, ...) and pixel rectangle. The last row and column absorb any remainder.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
					"cols": colsProperty,
				},
				"required": []string{"path", "rows", "cols"},
			},
		},
		{
			Name:        "grid_analyze",
			Description: "Compute every grid cell's rounded average brightness (BT.601 luma, 0-255) and brightness histogram. Returns brightness_grid[row][col], histogram_grid[row][col] and labels[row][col].",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
					"cols": colsProperty,
					"bins": binsProperty("16"),
				},
				"required": []string{"path", "rows", "cols"},
			},
		},
		{
			Name:        "grid_cell",
			Description: "Detailed statistics for one grid cell: average brightness and RGB, min/max brightness, pixel count, average color, histogram and a square PNG thumbnail. Address the cell by label (\"C4\" or \"2-3\") or by zero-based row and col.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
					"cols": colsProperty,
					"cell": map[string]interface{}{
						"type":        "string",
						"description": "Cell label: letter row + 1-based column (\"C4\"), or zero-based \"row-col\" (\"2-3\")",
					},
					"row": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based row index, used when cell is omitted",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based column index, used when cell is omitted",
					},
					"bins": binsProperty("32"),
					"thumbnail_size": map[string]interface{}{
						"type":        "integer",
						"description": "Thumbnail edge length in pixels (1-1024). Default: 64",
						"minimum":     1,
						"maximum":     1024,
					},
				},
				"required": []string{"path", "rows", "cols"},
			},
		},
		{
			Name:        "grid_overlay",
			Description: "Draw the labeled grid over the image and return it as base64-encoded PNG. Each cell shows its label, optionally its rounded average brightness and a mini brightness histogram.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"rows": rowsProperty,
					"cols": colsProperty,
					"label_color": map[string]interface{}{
						"type":        "string",
						"description": "Label color in hex (#RRGGBB or #RRGGBBAA). Default: #1d4ed8",
						"default":     "#1d4ed8",
					},
					"hist_color": map[string]interface{}{
						"type":        "string",
						"description": "Histogram bar color in hex (#RRGGBB or #RRGGBBAA), drawn at 60% opacity. Default: #1d4ed8",
						"default":     "#1d4ed8",
					},
					"show_brightness": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each cell's rounded brightness. Default: true",
						"default":     true,
					},
					"show_histograms": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw a mini histogram in each cell. Default: false",
						"default":     false,
					},
					"bins": binsProperty("16"),
				},
				"required": []string{"path", "rows", "cols"},
			},
		},
		{
			Name:        "region_stats",
			Description: "Brightness and color statistics plus a histogram for an arbitrary rectangle of the image. The rectangle must lie inside the image; zero width or height is allowed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Height in pixels",
					},
					"bins": binsProperty("32"),
				},
				"required": []string{"path", "x", "y", "width", "height"},
			},
		},
		{
			Name:        "cache_clear",
			Description: "Drop a cached image and its memoized grid analyses, or everything when path is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Image to evict. Omit to clear all caches",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
