package server

import (
	"encoding/json"
	"fmt"

	"github.com/pixelvec/pixelvec/internal/colorspace"
	"github.com/pixelvec/pixelvec/internal/detection"
	"github.com/pixelvec/pixelvec/internal/emitter"
	"github.com/pixelvec/pixelvec/internal/grouper"
	"github.com/pixelvec/pixelvec/internal/imaging"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "render_svg").
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
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Validates the grid configuration and fills defaults
//  3. Loads the image through the cache
//  4. Calls into the sampling/grouping/emission core
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "grid_dimensions":
		return s.handleGridDimensions(args)
	case "grid_sample":
		return s.handleGridSample(args)
	case "grid_bounding_frame":
		return s.handleGridBoundingFrame(args)
	case "grid_detect_cell_size":
		return s.handleGridDetectCellSize(args)
	case "palette_extract":
		return s.handlePaletteExtract(args)
	case "palette_groups":
		return s.handlePaletteGroups(args)
	case "render_svg":
		return s.handleRenderSVG(args)
	case "render_png":
		return s.handleRenderPNG(args)
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument plumbing ===

// gridArgs is the common argument block for every grid-based tool.
type gridArgs struct {
	Path       string `json:"path"`
	GridSize   int    `json:"grid_size"`
	OffsetX    int    `json:"offset_x"`
	OffsetY    int    `json:"offset_y"`
	SampleMode string `json:"sample_mode"`
}

// config validates the argument block and converts it into a sampling
// config. GridSize defaults to 1; offsets must land inside one cell.
func (a *gridArgs) config() (sampler.Config, error) {
	if a.GridSize == 0 {
		a.GridSize = 1
	}
	if a.GridSize < 1 {
		return sampler.Config{}, fmt.Errorf("grid_size must be >= 1, got %d", a.GridSize)
	}
	if a.OffsetX < 0 || a.OffsetX >= a.GridSize {
		return sampler.Config{}, fmt.Errorf("offset_x must be in [0, %d), got %d", a.GridSize, a.OffsetX)
	}
	if a.OffsetY < 0 || a.OffsetY >= a.GridSize {
		return sampler.Config{}, fmt.Errorf("offset_y must be in [0, %d), got %d", a.GridSize, a.OffsetY)
	}

	mode := sampler.ModeCenter
	switch a.SampleMode {
	case "", string(sampler.ModeCenter):
	case string(sampler.ModeAverage):
		mode = sampler.ModeAverage
	default:
		return sampler.Config{}, fmt.Errorf("sample_mode must be %q or %q, got %q",
			sampler.ModeCenter, sampler.ModeAverage, a.SampleMode)
	}

	return sampler.Config{
		GridSize: a.GridSize,
		OffsetX:  a.OffsetX,
		OffsetY:  a.OffsetY,
		Mode:     mode,
	}, nil
}

// frameArgs is the optional cell-rectangle restriction.
type frameArgs struct {
	StartCol int `json:"start_col"`
	StartRow int `json:"start_row"`
	EndCol   int `json:"end_col"`
	EndRow   int `json:"end_row"`
}

func (f *frameArgs) validate(dims sampler.Dimensions) (*sampler.Frame, error) {
	if f == nil {
		return nil, nil
	}
	if f.StartCol < 0 || f.StartRow < 0 ||
		f.EndCol >= dims.Cols || f.EndRow >= dims.Rows ||
		f.StartCol > f.EndCol || f.StartRow > f.EndRow {
		return nil, fmt.Errorf("frame [%d,%d]-[%d,%d] outside %dx%d grid",
			f.StartCol, f.StartRow, f.EndCol, f.EndRow, dims.Cols, dims.Rows)
	}
	return &sampler.Frame{
		StartCol: f.StartCol, StartRow: f.StartRow,
		EndCol: f.EndCol, EndRow: f.EndRow,
	}, nil
}

// ignoredSet converts the wire list of "{col}-{row}" keys.
func ignoredSet(keys []string) sampler.IgnoredSet {
	if len(keys) == 0 {
		return nil
	}
	set := make(sampler.IgnoredSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// adjustmentArgs uses pointers so an omitted scale means "leave alone"
// rather than "scale to zero".
type adjustmentArgs struct {
	HueShift        float64  `json:"hue_shift"`
	SaturationScale *float64 `json:"saturation_scale"`
	LightnessScale  *float64 `json:"lightness_scale"`
}

func toAdjustments(wire map[string]adjustmentArgs) grouper.Adjustments {
	if len(wire) == 0 {
		return nil
	}
	out := make(grouper.Adjustments, len(wire))
	for id, a := range wire {
		adj := colorspace.Adjustment{
			HueShift:        a.HueShift,
			SaturationScale: 1,
			LightnessScale:  1,
		}
		if a.SaturationScale != nil {
			adj.SaturationScale = *a.SaturationScale
		}
		if a.LightnessScale != nil {
			adj.LightnessScale = *a.LightnessScale
		}
		out[grouper.GroupID(id)] = adj
	}
	return out
}

// sampleFromPath loads an image through the cache and samples it.
func (s *Server) sampleFromPath(path string, cfg sampler.Config) (sampler.Grid, sampler.Dimensions, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, sampler.Dimensions{}, err
	}
	buf := imaging.ToBuffer(img)
	dims := sampler.GridDimensions(buf.Width, buf.Height, cfg)
	return sampler.SampleGrid(buf, cfg), dims, nil
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Grid Handlers ===

func (s *Server) handleGridDimensions(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return sampler.GridDimensions(b.Dx(), b.Dy(), cfg), nil
}

// cellResult is one sampled cell on the wire; a null entry in the rows
// means the cell is absent.
type cellResult struct {
	Hex string `json:"hex"`
	A   uint8  `json:"a"`
}

type gridSampleResult struct {
	Dimensions sampler.Dimensions `json:"dimensions"`
	Cells      [][]*cellResult    `json:"cells"`
}

func (s *Server) handleGridSample(args json.RawMessage) (interface{}, error) {
	var a gridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	grid, dims, err := s.sampleFromPath(a.Path, cfg)
	if err != nil {
		return nil, err
	}

	cells := make([][]*cellResult, len(grid))
	for row := range grid {
		cells[row] = make([]*cellResult, len(grid[row]))
		for col, c := range grid[row] {
			if c == nil {
				continue
			}
			cells[row][col] = &cellResult{Hex: colorspace.Hex(*c), A: c.A}
		}
	}
	return &gridSampleResult{Dimensions: dims, Cells: cells}, nil
}

type boundingFrameArgs struct {
	gridArgs
	Ignored []string `json:"ignored"`
}

type boundingFrameResult struct {
	Frame *sampler.Frame `json:"frame"`
	Empty bool           `json:"empty"`
}

func (s *Server) handleGridBoundingFrame(args json.RawMessage) (interface{}, error) {
	var a boundingFrameArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	grid, dims, err := s.sampleFromPath(a.Path, cfg)
	if err != nil {
		return nil, err
	}

	frame := sampler.MinimalBoundingFrame(dims.Cols, dims.Rows, ignoredSet(a.Ignored), grid)
	return &boundingFrameResult{Frame: frame, Empty: frame == nil}, nil
}

type detectCellSizeArgs struct {
	Path    string `json:"path"`
	MaxSize int    `json:"max_size"`
}

func (s *Server) handleGridDetectCellSize(args json.RawMessage) (interface{}, error) {
	var a detectCellSizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxSize == 0 {
		a.MaxSize = 64
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return detection.DetectCellSize(img, a.MaxSize), nil
}

// === Palette Handlers ===

type paletteArgs struct {
	gridArgs
	Ignored   []string   `json:"ignored"`
	Frame     *frameArgs `json:"frame,omitempty"`
	MaxColors int        `json:"max_colors"`
}

type paletteResult struct {
	Entries []sampler.PaletteEntry `json:"entries"`
	Total   int                    `json:"total"`
}

func (s *Server) handlePaletteExtract(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	grid, dims, err := s.sampleFromPath(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	frame, err := a.Frame.validate(dims)
	if err != nil {
		return nil, err
	}

	ignored := ignoredSet(a.Ignored)
	if a.MaxColors > 0 {
		grid = sampler.ReducePalette(grid, ignored, frame, a.MaxColors)
	}
	entries := sampler.ExtractPalette(grid, ignored, frame)
	return &paletteResult{Entries: entries, Total: len(entries)}, nil
}

type paletteGroupsResult struct {
	Groups []grouper.Group `json:"groups"`
}

func (s *Server) handlePaletteGroups(args json.RawMessage) (interface{}, error) {
	var a paletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	grid, dims, err := s.sampleFromPath(a.Path, cfg)
	if err != nil {
		return nil, err
	}
	frame, err := a.Frame.validate(dims)
	if err != nil {
		return nil, err
	}

	entries := sampler.ExtractPalette(grid, ignoredSet(a.Ignored), frame)
	return &paletteGroupsResult{Groups: grouper.GroupColorsByHue(entries)}, nil
}

// === Render Handlers ===

type renderArgs struct {
	gridArgs
	Ignored     []string                  `json:"ignored"`
	Frame       *frameArgs                `json:"frame,omitempty"`
	AutoFrame   bool                      `json:"auto_frame"`
	MaxColors   int                       `json:"max_colors"`
	Adjustments map[string]adjustmentArgs `json:"adjustments"`
	Scale       int                       `json:"scale"`
}

// prepare runs the shared pre-render pipeline: sample, validate the frame
// (or compute one when auto_frame is set), and optionally quantize.
func (s *Server) prepare(a *renderArgs) (sampler.Grid, *sampler.Frame, sampler.Config, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, sampler.Config{}, err
	}
	grid, dims, err := s.sampleFromPath(a.Path, cfg)
	if err != nil {
		return nil, nil, sampler.Config{}, err
	}
	frame, err := a.Frame.validate(dims)
	if err != nil {
		return nil, nil, sampler.Config{}, err
	}
	ignored := ignoredSet(a.Ignored)
	if frame == nil && a.AutoFrame {
		frame = sampler.MinimalBoundingFrame(dims.Cols, dims.Rows, ignored, grid)
	}
	if a.MaxColors > 0 {
		grid = sampler.ReducePalette(grid, ignored, frame, a.MaxColors)
	}
	return grid, frame, cfg, nil
}

type renderSVGResult struct {
	SVG  string `json:"svg"`
	Cols int    `json:"cols"`
	Rows int    `json:"rows"`
}

func (s *Server) handleRenderSVG(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	grid, frame, cfg, err := s.prepare(&a)
	if err != nil {
		return nil, err
	}

	opts := emitter.Options{
		GridSize:    cfg.GridSize,
		Frame:       frame,
		Ignored:     ignoredSet(a.Ignored),
		Adjustments: toAdjustments(a.Adjustments),
	}
	doc := emitter.RenderSVG(grid, opts)

	cols, rows := grid.Cols(), grid.Rows()
	if frame != nil {
		cols = frame.EndCol - frame.StartCol + 1
		rows = frame.EndRow - frame.StartRow + 1
	}
	return &renderSVGResult{SVG: doc, Cols: cols, Rows: rows}, nil
}

func (s *Server) handleRenderPNG(args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1
	}
	if a.Scale < 1 {
		return nil, fmt.Errorf("scale must be >= 1, got %d", a.Scale)
	}
	grid, frame, _, err := s.prepare(&a)
	if err != nil {
		return nil, err
	}

	cols, rows := grid.Cols(), grid.Rows()
	if frame != nil {
		cols = frame.EndCol - frame.StartCol + 1
		rows = frame.EndRow - frame.StartRow + 1
	}
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("nothing to render: empty grid")
	}

	opts := emitter.Options{
		Frame:       frame,
		Ignored:     ignoredSet(a.Ignored),
		Adjustments: toAdjustments(a.Adjustments),
	}
	img := emitter.RenderRaster(grid, opts, cols*a.Scale, rows*a.Scale)
	return emitter.EncodePNG(img)
}
