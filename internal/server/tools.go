package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor for the returned image (e.g., 0.5 to halve size). Default 1.0",
		"default":     1.0,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "coin_load",
			Description: "Load an image file and return its dimensions, format and file size. The decoded image is cached for the other coin tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Full Pipeline
		{
			Name:        "coin_count",
			Description: "Run the full coin counting pipeline: locate the reference marker, calibrate millimeters per pixel, segment and label the coins, and classify each coin by diameter and color. Returns the marker measurement, the region report, per-coin matches and the total value in euros.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Pipeline Stages
		{
			Name:        "coin_segment_marker",
			Description: "Binarize the reference marker band and normalize it. Returns the binary mask as base64-encoded PNG with its foreground pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "coin_segment_coins",
			Description: "Binarize the coin band, remove the reference marker pixels when a marker is found, and normalize. Returns the binary mask as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "coin_label_regions",
			Description: "Run the pipeline and return the coin regions painted in their display colors, optionally blended over the photo and annotated with region ids.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty(),
					"scale": scaleProperty(),
					"overlay": map[string]interface{}{
						"type":        "boolean",
						"description": "Blend the regions over the original photo instead of a black background. Default false",
						"default":     false,
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Region opacity when overlay is set (0-1). Default 0.6",
						"default":     0.6,
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each region id at its centroid. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},

		// Color and Reference Data
		{
			Name:        "coin_sample_color",
			Description: "Get the exact color at a specific pixel coordinate. Returns hex, RGB and HSB values, with hue in [0,1) as used by the gold/copper cutoff.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "coin_catalog",
			Description: "List the copper and gold coin catalogs with nominal diameters, and the hue cutoff that separates them.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
