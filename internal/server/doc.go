// Package server implements the MCP (Model Context Protocol) server for the
// pixel-art vectorization tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the sampling,
// palette, and rendering pipeline through the MCP protocol, so MCP-compatible
// clients can drive conversions interactively.
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
//   - image_load: Load an image and get metadata
//   - grid_dimensions: Lattice size for a sampling config
//   - grid_sample: Sample the image into cell colors
//   - grid_bounding_frame: Minimal frame around visible content
//   - grid_detect_cell_size: Auto-detect the pixel-art cell lattice
//   - palette_extract: Unique colors by occurrence count
//   - palette_groups: Palette partitioned into hue families
//   - render_svg: Run-length-merged rectangle SVG
//   - render_png: Re-rasterized PNG at an integer scale
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// Diagnostics never touch stdout; they go to the hclog logger on stderr.
package server
