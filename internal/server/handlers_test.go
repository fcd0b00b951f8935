package server

import (
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
	"github.com/ironsheep/coin-tools-mcp/internal/pipeline"
)

var (
	table  = imaging.RGBColor{R: 150, G: 150, B: 150}
	marker = imaging.RGBColor{R: 30, G: 30, B: 30}
	brass  = imaging.RGBColor{R: 200, G: 200, B: 40}
)

// newTestServer returns a server whose pipeline is scaled down to the
// 100x100 test scenes.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := pipeline.DefaultConfig()
	cfg.NormalizeCount = 1
	cfg.MinArea = 500
	cfg.Seed = 1
	p, err := pipeline.New(cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("pipeline.New failed: %v", err)
	}
	return New(p)
}

// writeScene writes a 100x100 gray table to a temp PNG. With withCoins set
// it carries a dark marker disc at (25,25) and a brass disc at (70,70).
func writeScene(t *testing.T, withCoins bool) string {
	t.Helper()

	g := imaging.NewRGBGrid(100, 100)
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			c := table
			if withCoins {
				switch {
				case (x-25)*(x-25)+(y-25)*(y-25) <= 20*20:
					c = marker
				case (x-70)*(x-70)+(y-70)*(y-70) <= 25*25:
					c = brass
				}
			}
			g.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "scene.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, g.Image()); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func execute(t *testing.T, s *Server, name string, args map[string]interface{}) interface{} {
	t.Helper()
	argsJSON, _ := json.Marshal(args)
	result, err := s.executeTool(name, argsJSON)
	if err != nil {
		t.Fatalf("executeTool(%s) failed: %v", name, err)
	}
	return result
}

func TestHandleToolsCall_CoinLoad(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t, true)

	params, _ := json.Marshal(map[string]interface{}{
		"name":      "coin_load",
		"arguments": map[string]interface{}{"path": path},
	})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})

	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	var info imaging.ImageInfo
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &info); err != nil {
		t.Fatalf("failed to decode content: %v", err)
	}
	if info.Width != 100 || info.Height != 100 || info.Format != "png" {
		t.Errorf("info: got %+v", info)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := newTestServer(t)
	params, _ := json.Marshal(map[string]interface{}{
		"name":      "coin_count",
		"arguments": map[string]interface{}{"path": "/nonexistent/scene.png"},
	})
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})

	if resp.Error == nil {
		t.Fatal("Expected error for missing file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`[1,2]`)})

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("got %+v, want -32602", resp.Error)
	}
}

func TestCoinCount(t *testing.T) {
	s := newTestServer(t)
	res := execute(t, s, "coin_count", map[string]interface{}{"path": writeScene(t, true)}).(*pipeline.Result)

	if len(res.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(res.Regions))
	}
	if math.Abs(res.Total-0.50) > 1e-9 {
		t.Errorf("total: got %.2f, want 0.50", res.Total)
	}
}

func TestCoinCount_NoMarker(t *testing.T) {
	s := newTestServer(t)
	argsJSON, _ := json.Marshal(map[string]interface{}{"path": writeScene(t, false)})

	_, err := s.executeTool("coin_count", argsJSON)
	if !errors.Is(err, pipeline.ErrNoMarker) {
		t.Errorf("got %v, want ErrNoMarker", err)
	}
}

func TestCoinSegmentMarker(t *testing.T) {
	s := newTestServer(t)
	res := execute(t, s, "coin_segment_marker", map[string]interface{}{"path": writeScene(t, true), "scale": 0.5}).(*maskResult)

	if res.Width != 50 || res.Height != 50 {
		t.Errorf("size: got %dx%d, want 50x50", res.Width, res.Height)
	}
	if res.ForegroundPixels == 0 {
		t.Error("marker mask is empty")
	}
	if res.MarkerFound != nil {
		t.Error("marker_found should be omitted for the marker mask")
	}
	if res.MimeType != "image/png" || res.ImageBase64 == "" {
		t.Errorf("bad render: %s, %d bytes", res.MimeType, len(res.ImageBase64))
	}
}

func TestCoinSegmentCoins(t *testing.T) {
	s := newTestServer(t)

	res := execute(t, s, "coin_segment_coins", map[string]interface{}{"path": writeScene(t, true)}).(*maskResult)
	if res.MarkerFound == nil || !*res.MarkerFound {
		t.Error("marker should be found")
	}
	if res.ForegroundPixels == 0 {
		t.Error("coin mask is empty")
	}

	blank := execute(t, s, "coin_segment_coins", map[string]interface{}{"path": writeScene(t, false)}).(*maskResult)
	if blank.MarkerFound == nil || *blank.MarkerFound {
		t.Error("marker should not be found on a blank table")
	}
}

func TestCoinLabelRegions(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t, true)

	tests := []struct {
		name string
		args map[string]interface{}
		size int
	}{
		{"plain", map[string]interface{}{"path": path}, 100},
		{"overlay", map[string]interface{}{"path": path, "overlay": true, "opacity": 0.4}, 100},
		{"annotated and scaled", map[string]interface{}{"path": path, "overlay": true, "annotate": true, "scale": 2.0}, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, s, "coin_label_regions", tt.args).(*LabelRegionsResult)
			if res.Width != tt.size || res.Height != tt.size {
				t.Errorf("size: got %dx%d, want %d", res.Width, res.Height, tt.size)
			}
			if len(res.Regions) != 1 {
				t.Fatalf("got %d regions, want 1", len(res.Regions))
			}
			r := res.Regions[0]
			if r.ID != 1 || r.Pixels < 500 {
				t.Errorf("region: got %+v", r)
			}
			if !strings.HasPrefix(r.Color, "#") || len(r.Color) != 7 {
				t.Errorf("color: got %q", r.Color)
			}
			if r.Centroid.X < 60 || r.Centroid.X > 80 || r.Centroid.Y < 60 || r.Centroid.Y > 80 {
				t.Errorf("centroid: got %+v, want near (70,70)", r.Centroid)
			}
		})
	}
}

func TestCoinLabelRegions_BadOpacity(t *testing.T) {
	s := newTestServer(t)
	argsJSON, _ := json.Marshal(map[string]interface{}{"path": writeScene(t, true), "overlay": true, "opacity": 1.5})

	if _, err := s.executeTool("coin_label_regions", argsJSON); err == nil {
		t.Error("expected error for opacity above 1")
	}
}

func TestCoinSampleColor(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t, true)

	res := execute(t, s, "coin_sample_color", map[string]interface{}{"path": path, "x": 70, "y": 70}).(*imaging.ColorResult)
	if res.Hex != "#C8C828" {
		t.Errorf("hex: got %s, want #C8C828", res.Hex)
	}
	if res.HSB.H < 0.12 {
		t.Errorf("brass hue %.3f should be above the gold cutoff", res.HSB.H)
	}

	argsJSON, _ := json.Marshal(map[string]interface{}{"path": path, "x": 100, "y": 0})
	if _, err := s.executeTool("coin_sample_color", argsJSON); err == nil {
		t.Error("expected error for out of bounds sample")
	}
}

func TestCoinCatalog(t *testing.T) {
	s := newTestServer(t)
	res := execute(t, s, "coin_catalog", nil).(*CatalogResult)

	if len(res.Copper) != 3 || len(res.Gold) != 3 {
		t.Errorf("catalog sizes: copper %d, gold %d", len(res.Copper), len(res.Gold))
	}
	if res.GoldHueCutoff != 0.12 {
		t.Errorf("cutoff: got %v, want 0.12", res.GoldHueCutoff)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	_, err := s.executeTool("coin_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
