package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/draw-labels-mcp/internal/geometry"
	"github.com/ironsheep/draw-labels-mcp/internal/imaging"
	"github.com/ironsheep/draw-labels-mcp/internal/label"
	"github.com/ironsheep/draw-labels-mcp/internal/palette"
	"github.com/ironsheep/draw-labels-mcp/internal/text"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_draw_labels").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(ctx, args)
	case "image_dimensions":
		return s.handleImageDimensions(ctx, args)

	// Labeling
	case "image_draw_labels":
		return s.handleImageDrawLabels(ctx, args)
	case "label_anchor":
		return s.handleLabelAnchor(args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(ctx, args)
	case "image_sample_colors_multi":
		return s.handleImageSampleColorsMulti(ctx, args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// style overlays the fields present in raw onto the server's style.
func (s *Server) style(raw json.RawMessage) (label.Style, error) {
	st := s.cfg.Style
	if len(raw) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		return st, fmt.Errorf("invalid style: %w", err)
	}
	return st, st.Validate()
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(ctx, s.loader, a.Path)
}

func (s *Server) handleImageDimensions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(ctx, s.loader, a.Path)
}

// === Labeling Handlers ===

type imageDrawLabelsArgs struct {
	Path         string          `json:"path"`
	Labels       []label.Record  `json:"labels"`
	ChannelOrder string          `json:"channel_order"`
	Style        json.RawMessage `json:"style,omitempty"`
	OutputPath   string          `json:"output_path"`
}

type drawLabelsResult struct {
	LabelsDrawn  int                   `json:"labels_drawn"`
	ChannelOrder string                `json:"channel_order"`
	OutputPath   string                `json:"output_path,omitempty"`
	Image        *imaging.EncodedImage `json:"image"`
}

func (s *Server) handleImageDrawLabels(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageDrawLabelsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := s.cfg
	if a.ChannelOrder != "" {
		order, err := palette.ParseChannelOrder(a.ChannelOrder)
		if err != nil {
			return nil, err
		}
		cfg.Order = order
	}
	st, err := s.style(a.Style)
	if err != nil {
		return nil, err
	}
	cfg.Style = st

	labels, err := label.Labels(a.Labels)
	if err != nil {
		return nil, err
	}

	img, err := s.loader.Load(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	if err := label.NewDrawer(cfg).DrawLabels(img, labels); err != nil {
		return nil, err
	}

	if a.OutputPath != "" {
		if err := imaging.Save(img, a.OutputPath); err != nil {
			return nil, err
		}
	}
	enc, err := imaging.EncodeBase64(img)
	if err != nil {
		return nil, err
	}
	return &drawLabelsResult{
		LabelsDrawn:  len(labels),
		ChannelOrder: cfg.Order.String(),
		OutputPath:   a.OutputPath,
		Image:        enc,
	}, nil
}

type labelAnchorArgs struct {
	Points []label.RecordPoint `json:"points"`
	Text   string              `json:"text"`
	Style  json.RawMessage     `json:"style,omitempty"`
}

type labelAnchorResult struct {
	Kind    string          `json:"kind"`
	Center  geometry.Point  `json:"center"`
	Angle   float64         `json:"angle_radians"`
	Degrees float64         `json:"angle_degrees"`
	Edges   []geometry.Edge `json:"edges"`
	Foot    *geometry.Point `json:"foot,omitempty"`
	// Background is the body of the rounded rectangle, corner by corner.
	Background [4]geometry.Point `json:"background"`
	// Caps are the centers of the two rounded ends.
	Caps [2]geometry.Point `json:"caps"`
	// TextOrigin is the baseline start of Text, when given.
	TextOrigin *geometry.Point `json:"text_origin,omitempty"`
}

func (s *Server) handleLabelAnchor(args json.RawMessage) (interface{}, error) {
	var a labelAnchorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	st, err := s.style(a.Style)
	if err != nil {
		return nil, err
	}

	txt := a.Text
	l, err := label.Record{Points: a.Points, Text: &txt}.Label()
	if err != nil {
		return nil, err
	}
	p, err := label.Place(l)
	if err != nil {
		return nil, err
	}

	c := p.Anchor.Center
	w := float64(st.HalfWidth)
	res := &labelAnchorResult{
		Kind:       p.Kind.String(),
		Center:     c,
		Angle:      p.Anchor.Angle,
		Degrees:    p.Anchor.Degrees(),
		Edges:      p.Edges,
		Background: geometry.RotatedRectVertices(c, p.Anchor.Angle, st.HalfHeight, st.HalfWidth),
		Caps: [2]geometry.Point{
			geometry.ProjectPoint(c, w, p.Anchor.Angle),
			geometry.ProjectPoint(c, -w, p.Anchor.Angle),
		},
	}
	if p.Kind == label.KindT {
		foot := p.Foot
		res.Foot = &foot
	}
	if a.Text != "" {
		origin, err := text.Anchor(a.Text, c)
		if err != nil {
			return nil, err
		}
		res.TextOrigin = &origin
	}
	return res, nil
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loader.Load(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageSampleColorsMultiArgs struct {
	Path   string                 `json:"path"`
	Points []imaging.LabeledPoint `json:"points"`
}

func (s *Server) handleImageSampleColorsMulti(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSampleColorsMultiArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.loader.Load(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColorsMulti(img, a.Points)
}
