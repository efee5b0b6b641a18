package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"grid_partition",
		"grid_analyze",
		"grid_cell",
		"grid_overlay",
		"region_stats",
		"cache_clear",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema missing 'properties' map")
			}

			// Every required parameter must be declared
			required, _ := tool.InputSchema["required"].([]string)
			for _, name := range required {
				if _, ok := props[name]; !ok {
					t.Errorf("required parameter %s not in properties", name)
				}
			}
		})
	}
}

func TestToolDefinitions_GridParameters(t *testing.T) {
	gridTools := []string{"grid_partition", "grid_analyze", "grid_cell", "grid_overlay"}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, name := range gridTools {
		tool := toolMap[name]
		required, _ := tool.InputSchema["required"].([]string)
		want := map[string]bool{"path": false, "rows": false, "cols": false}
		for _, r := range required {
			if _, ok := want[r]; ok {
				want[r] = true
			}
		}
		for param, found := range want {
			if !found {
				t.Errorf("%s should require %s", name, param)
			}
		}

		props := tool.InputSchema["properties"].(map[string]interface{})
		rows := props["rows"].(map[string]interface{})
		if rows["maximum"] != 26 {
			t.Errorf("%s rows maximum: got %v, want 26", name, rows["maximum"])
		}
	}
}

func TestToolDefinitions_Defaults(t *testing.T) {
	tools := GetToolDefinitions()
	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	tests := []struct {
		tool  string
		param string
		want  interface{}
	}{
		{"image_load", "reload", false},
		{"grid_overlay", "label_color", "#1d4ed8"},
		{"grid_overlay", "hist_color", "#1d4ed8"},
		{"grid_overlay", "show_brightness", true},
		{"grid_overlay", "show_histograms", false},
	}

	for _, tt := range tests {
		props := toolMap[tt.tool].InputSchema["properties"].(map[string]interface{})
		param, ok := props[tt.param].(map[string]interface{})
		if !ok {
			t.Errorf("%s.%s not defined", tt.tool, tt.param)
			continue
		}
		if param["default"] != tt.want {
			t.Errorf("%s.%s: default got %v, want %v", tt.tool, tt.param, param["default"], tt.want)
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(nil, nil)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}
	if len(toolsList) != len(GetToolDefinitions()) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(GetToolDefinitions()))
	}
}
