package server

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ironsheep/image-grid-mcp/internal/config"
	"github.com/ironsheep/image-grid-mcp/internal/imaging"
)

func TestNew(t *testing.T) {
	s := New(nil, nil)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.images == nil || s.analyses == nil || s.analyzer == nil {
		t.Fatal("New() did not initialize caches and analyzer")
	}
	if s.cfg.OverviewBins != 16 || s.cfg.DetailBins != 32 {
		t.Errorf("default bins: got %d/%d, want 16/32", s.cfg.OverviewBins, s.cfg.DetailBins)
	}
}

func TestNew_UsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 3
	s := New(cfg, nil)
	if s.analyzer.Workers() != 3 {
		t.Errorf("Workers: got %d, want 3", s.analyzer.Workers())
	}
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{
			"string id",
			`{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`,
			"test-1",
			"tools/list",
		},
		{
			"number id",
			`{"jsonrpc":"2.0","id":42,"method":"ping"}`,
			float64(42), // JSON numbers decode as float64
			"ping",
		},
		{
			"null id",
			`{"jsonrpc":"2.0","id":null,"method":"initialize"}`,
			nil,
			"initialize",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			if err := json.Unmarshal([]byte(tt.json), &req); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}

			if req.ID != tt.wantID {
				t.Errorf("ID: got %v (%T), want %v (%T)", req.ID, req.ID, tt.wantID, tt.wantID)
			}
			if req.Method != tt.wantMethod {
				t.Errorf("Method: got %s, want %s", req.Method, tt.wantMethod)
			}
		})
	}
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(nil, nil, WithVersion("1.2.3"))
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
	}

	resp := s.handleRequest(context.Background(), req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}
	info := result["serverInfo"].(map[string]interface{})
	if info["name"] != "image-grid-mcp" || info["version"] != "1.2.3" {
		t.Errorf("serverInfo: got %v", info)
	}
}

func TestHandleRequest_Ping(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      "ping-1",
		Method:  "ping",
	}

	resp := s.handleRequest(context.Background(), req)

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	if resp.ID != "ping-1" {
		t.Errorf("ID: got %v, want ping-1", resp.ID)
	}
}

func TestHandleRequest_InitializedNotification(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		Method:  "notifications/initialized",
	}

	if resp := s.handleRequest(context.Background(), req); resp != nil {
		t.Errorf("notification should not get a response, got %+v", resp)
	}
}

func TestHandleRequest_UnknownMethod(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "unknown/method",
	}

	resp := s.handleRequest(context.Background(), req)

	if resp == nil || resp.Error == nil {
		t.Fatal("Expected error response for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Errorf("Error code: got %d, want -32601", resp.Error.Code)
	}
}

func TestServe(t *testing.T) {
	s := New(nil, nil)
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		`not json`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`,
	}, "\n")

	var out strings.Builder
	if err := s.Serve(context.Background(), strings.NewReader(input), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			t.Fatalf("invalid response line %q: %v", scanner.Text(), err)
		}
		responses = append(responses, resp)
	}

	// initialize, ping, parse error, tools/list
	if len(responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(responses))
	}
	if responses[1].ID != float64(2) {
		t.Errorf("second response ID: got %v, want 2", responses[1].ID)
	}
	if responses[2].Error == nil || responses[2].Error.Code != -32700 {
		t.Errorf("malformed line: got %+v, want parse error", responses[2].Error)
	}
	if responses[3].Error != nil {
		t.Errorf("tools/list failed: %v", responses[3].Error)
	}
}

func TestServe_CancelledContext(t *testing.T) {
	s := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	err := s.Serve(ctx, strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &out)
	if err != context.Canceled {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Errorf("no response expected after cancellation, got %q", out.String())
	}
}

func TestConfigThumbnailLimitMatchesRenderer(t *testing.T) {
	cfg := config.Default()
	cfg.ThumbnailSize = imaging.MaxThumbnailSize
	if err := cfg.Validate(); err != nil {
		t.Errorf("thumbnail_size %d should be accepted: %v", cfg.ThumbnailSize, err)
	}
	cfg.ThumbnailSize = imaging.MaxThumbnailSize + 1
	if err := cfg.Validate(); err == nil {
		t.Errorf("thumbnail_size %d should be rejected", cfg.ThumbnailSize)
	}
}
