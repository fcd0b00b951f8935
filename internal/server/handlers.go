package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/coin-tools-mcp/internal/coins"
	"github.com/ironsheep/coin-tools-mcp/internal/imaging"
	"github.com/ironsheep/coin-tools-mcp/internal/pipeline"
)

// defaultOpacity is the region opacity used by coin_label_regions overlays.
const defaultOpacity = 0.6

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "coin_load", "coin_count").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
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

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "coin_load":
		return s.handleCoinLoad(args)

	case "coin_count":
		return s.handleCoinCount(args)

	// Pipeline Stages
	case "coin_segment_marker":
		return s.handleCoinSegmentMarker(args)
	case "coin_segment_coins":
		return s.handleCoinSegmentCoins(args)
	case "coin_label_regions":
		return s.handleCoinLabelRegions(args)

	case "coin_sample_color":
		return s.handleCoinSampleColor(args)
	case "coin_catalog":
		return s.handleCoinCatalog()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleCoinLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Pipeline Handlers ===

func (s *Server) handleCoinCount(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rgb, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(context.Background(), rgb)
}

type renderArgs struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

// maskResult is a rendered binary mask with its foreground pixel count.
type maskResult struct {
	*imaging.RenderResult
	ForegroundPixels int   `json:"foreground_pixels"`
	MarkerFound      *bool `json:"marker_found,omitempty"`
}

func (s *Server) handleCoinSegmentMarker(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rgb, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	bin := s.pipeline.SegmentReferenceMarker(rgb)
	return renderMask(bin, a.Scale, nil)
}

func (s *Server) handleCoinSegmentCoins(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rgb, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}

	_, points, err := s.pipeline.LocateMarker(rgb)
	found := true
	if errors.Is(err, pipeline.ErrNoMarker) {
		found = false
	} else if err != nil {
		return nil, err
	}

	bin := s.pipeline.SegmentCoins(rgb, points)
	return renderMask(bin, a.Scale, &found)
}

func renderMask(bin *imaging.BinaryGrid, scale float64, markerFound *bool) (*maskResult, error) {
	rendered, err := imaging.Render(bin.Image(), scale)
	if err != nil {
		return nil, err
	}
	return &maskResult{
		RenderResult:     rendered,
		ForegroundPixels: bin.Count(),
		MarkerFound:      markerFound,
	}, nil
}

type labelRegionsArgs struct {
	Path     string   `json:"path"`
	Scale    float64  `json:"scale"`
	Overlay  bool     `json:"overlay"`
	Opacity  *float64 `json:"opacity"`
	Annotate bool     `json:"annotate"`
}

// RegionSummary describes one labelled coin region.
type RegionSummary struct {
	ID       int           `json:"id"`
	Pixels   int           `json:"pixels"`
	Centroid imaging.Point `json:"centroid"`
	Color    string        `json:"color"`
}

// LabelRegionsResult is the coin_label_regions response.
type LabelRegionsResult struct {
	*imaging.RenderResult
	Regions []RegionSummary `json:"regions"`
}

func (s *Server) handleCoinLabelRegions(args json.RawMessage) (interface{}, error) {
	var a labelRegionsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opacity := defaultOpacity
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("opacity %.2f outside [0,1]", opacity)
	}

	rgb, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	res, err := s.pipeline.Run(context.Background(), rgb)
	if err != nil {
		return nil, err
	}

	labels := res.Coins
	vis := labels.Visualization()
	var img image.Image = vis.Image()
	if a.Overlay {
		img, err = imaging.Overlay(rgb, vis, opacity)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]RegionSummary, 0, len(labels.Regions))
	for _, id := range labels.Regions.IDs() {
		c, _ := labels.Centroid(id)
		summaries = append(summaries, RegionSummary{
			ID:       id,
			Pixels:   len(labels.Regions[id]),
			Centroid: c,
			Color:    labels.Colors[id].Hex(),
		})
	}
	if a.Annotate {
		img = imaging.Annotate(img, labels.IDAnnotations())
	}

	rendered, err := imaging.Render(img, a.Scale)
	if err != nil {
		return nil, err
	}
	return &LabelRegionsResult{RenderResult: rendered, Regions: summaries}, nil
}

// === Color and Reference Handlers ===

type sampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleCoinSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rgb, err := s.cache.LoadGrid(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(rgb, a.X, a.Y)
}

// CatalogResult is the coin_catalog response.
type CatalogResult struct {
	Copper        []coins.Coin `json:"copper"`
	Gold          []coins.Coin `json:"gold"`
	GoldHueCutoff float64      `json:"gold_hue_cutoff"`
}

func (s *Server) handleCoinCatalog() (interface{}, error) {
	return &CatalogResult{
		Copper:        coins.CopperCatalog(),
		Gold:          coins.GoldCatalog(),
		GoldHueCutoff: s.pipeline.Config().GoldHueCutoff,
	}, nil
}
