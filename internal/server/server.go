package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/image-grid-mcp/internal/cellstats"
	"github.com/ironsheep/image-grid-mcp/internal/config"
	"github.com/ironsheep/image-grid-mcp/internal/imaging"
)

// Server handles MCP protocol communication
type Server struct {
	cfg      *config.Config
	log      *zap.Logger
	images   *imaging.ImageCache
	analyses *cellstats.AnalysisCache
	analyzer *cellstats.Analyzer
	version  string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Option customizes a Server.
type Option func(*Server)

// WithVersion sets the version reported in the initialize handshake.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a new MCP server instance. A nil cfg means config.Default() and
// a nil logger discards all output.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		images:   imaging.NewImageCache(),
		analyses: cellstats.NewAnalysisCache(cfg.CacheEntries),
		analyzer: cellstats.NewAnalyzer(cfg.Workers),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves MCP on stdin and stdout until stdin closes.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
// It returns when r is exhausted or ctx is cancelled between requests.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		var resp *MCPResponse
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", zap.Error(err))
			resp = s.errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(ctx, &req)
		}

		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	s.log.Debug("request", zap.String("method", req.Method), zap.Any("id", req.ID))

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-grid-mcp",
				"version": s.version,
			},
		},
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// Empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
