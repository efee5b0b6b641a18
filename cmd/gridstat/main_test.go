package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fcolor "github.com/fatih/color"
)

func init() {
	fcolor.NoColor = true
}

func writeTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "grid.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestRun_PrintsGrid(t *testing.T) {
	path := writeTestImage(t, 40, 30, color.RGBA{255, 255, 255, 255})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-rows", "3", "-cols", "2", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	// title, blank, header, 3 rows
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), stdout.String())
	}
	if !strings.Contains(lines[0], "40x30 png, 3x2 grid") {
		t.Errorf("title: got %q", lines[0])
	}
	if strings.Fields(lines[2])[1] != "2" {
		t.Errorf("header: got %q", lines[2])
	}
	if got := strings.Fields(lines[5]); len(got) != 3 || got[0] != "C" || got[1] != "255" || got[2] != "255" {
		t.Errorf("last row: got %q", lines[5])
	}
}

func TestRun_Histograms(t *testing.T) {
	path := writeTestImage(t, 10, 10, color.RGBA{0, 0, 0, 255})

	var stdout, stderr bytes.Buffer
	code := run([]string{"-rows", "1", "-cols", "1", "-bins", "4", "-hist", path}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "A1  100 0 0 0") {
		t.Errorf("histogram line missing:\n%s", stdout.String())
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeTestImage(t, 10, 10, color.RGBA{0, 0, 0, 255})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no image", []string{"-rows", "2"}, 2},
		{"bad flag", []string{"-nope", path}, 2},
		{"grid too large", []string{"-rows", "27", path}, 2},
		{"zero bins", []string{"-bins", "0", path}, 2},
		{"missing file", []string{"/nonexistent/grid.png"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.want {
				t.Errorf("exit code: got %d, want %d (stderr: %s)", code, tt.want, stderr.String())
			}
		})
	}
}

func TestBrightnessColor(t *testing.T) {
	tests := []struct {
		v    int
		want *fcolor.Color
	}{
		{0, darkColor},
		{84, darkColor},
		{85, mediumColor},
		{170, mediumColor},
		{171, brightColor},
		{255, brightColor},
	}

	for _, tt := range tests {
		if got := brightnessColor(tt.v); got != tt.want {
			t.Errorf("brightnessColor(%d): wrong class", tt.v)
		}
	}
}
