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
		"description": "Absolute path or http(s) URL of the image",
	}
}

func pointSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

func styleSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"point_radius":   map[string]interface{}{"type": "integer", "default": 10},
			"edge_thickness": map[string]interface{}{"type": "integer", "default": 2},
			"half_height":    map[string]interface{}{"type": "integer", "default": 22},
			"half_width":     map[string]interface{}{"type": "integer", "default": 70},
			"font_scale":     map[string]interface{}{"type": "number", "default": 1.0},
			"text_thickness": map[string]interface{}{"type": "integer", "default": 4},
		},
		"description": "Optional label sizes. Omitted fields keep their defaults.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file or URL and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Labeling
		{
			Name: "image_draw_labels",
			Description: "Draw labels onto a copy of an image and return it as base64-encoded PNG. " +
				"A label with two points is drawn on the edge between them; a label with three points " +
				"(p1, p2, p3) is drawn on the perpendicular from p3 to the line p1-p2. Labels are drawn " +
				"in order, later ones on top. The source image is not modified.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"labels": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"points": map[string]interface{}{
									"type":     "array",
									"items":    pointSchema(),
									"minItems": 2,
									"maxItems": 3,
								},
								"text": map[string]interface{}{"type": "string"},
							},
							"required": []string{"points", "text"},
						},
						"description": "Labels to draw, in order",
					},
					"channel_order": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"rgb", "bgr"},
						"description": "Channel order of the target buffer. Default is the server setting.",
					},
					"style": styleSchema(),
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to also save the result to; format follows the extension",
					},
				},
				"required": []string{"path", "labels"},
			},
		},
		{
			Name:        "label_anchor",
			Description: "Compute where a label would be drawn: its center, angle and background corners, without drawing.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":        "array",
						"items":       pointSchema(),
						"minItems":    2,
						"maxItems":    3,
						"description": "Two points for an edge label, three for a T label",
					},
					"style": styleSchema(),
				},
				"required": []string{"points"},
			},
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_sample_colors_multi",
			Description: "Get color values at multiple pixel coordinates in a single call.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string", "description": "Optional label for this point"},
							},
							"required": []string{"x", "y"},
						},
						"description": "Array of points to sample",
					},
				},
				"required": []string{"path", "points"},
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
