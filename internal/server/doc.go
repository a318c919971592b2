// Package server implements the MCP (Model Context Protocol) server for label drawing.
//
// This package provides a JSON-RPC 2.0 server that exposes the label pipeline
// through the MCP protocol, so MCP clients can annotate floor plans and
// diagrams with oriented text labels and check where those labels land.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Labeling:
//   - image_draw_labels: Draw a batch of edge and T labels, return PNG
//   - label_anchor: Compute a label's center, angle and background without drawing
//
// Color Operations:
//   - image_sample_color: Get color at pixel
//   - image_sample_colors_multi: Sample multiple points
//
// # Image Caching
//
// Images are cached by path or URL for the lifetime of the server. Every
// tool call draws on its own copy, so image_draw_labels never changes what
// a later call sees.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, including the failing label index
//
// # Usage
//
//	srv := server.New(label.DefaultConfig())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
