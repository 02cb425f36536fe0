package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Shared schema fragments for the grid-based tools.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file (PNG, JPEG, GIF, BMP, or WebP)",
	}
}

func gridProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"grid_size": map[string]interface{}{
			"type":        "integer",
			"description": "Source pixels per grid cell. Default 1 (per-pixel sampling)",
			"default":     1,
		},
		"offset_x": map[string]interface{}{
			"type":        "integer",
			"description": "Horizontal lattice origin shift, 0 <= offset_x < grid_size",
			"default":     0,
		},
		"offset_y": map[string]interface{}{
			"type":        "integer",
			"description": "Vertical lattice origin shift, 0 <= offset_y < grid_size",
			"default":     0,
		},
		"sample_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"center", "average"},
			"description": "Per-cell color derivation: single center pixel or full-cell average. Default center",
			"default":     "center",
		},
	}
}

func ignoredProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Cell keys (\"{col}-{row}\") to treat as transparent",
	}
}

func frameProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "Inclusive cell rectangle restricting the operation",
		"properties": map[string]interface{}{
			"start_col": map[string]interface{}{"type": "integer"},
			"start_row": map[string]interface{}{"type": "integer"},
			"end_col":   map[string]interface{}{"type": "integer"},
			"end_row":   map[string]interface{}{"type": "integer"},
		},
		"required": []string{"start_col", "start_row", "end_col", "end_row"},
	}
}

func adjustmentsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"description": "Per-group HSL adjustments keyed by group id (reds, oranges, yellows, " +
			"greens, cyans, blues, purples, grays)",
		"additionalProperties": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"hue_shift": map[string]interface{}{
					"type":        "number",
					"description": "Degrees added to hue, wrapped into [0, 360)",
				},
				"saturation_scale": map[string]interface{}{
					"type":        "number",
					"description": "Multiplier on saturation, result clamped to [0, 100]. Default 1",
				},
				"lightness_scale": map[string]interface{}{
					"type":        "number",
					"description": "Multiplier on lightness, result clamped to [0, 100]. Default 1",
				},
			},
		},
	}
}

func maxColorsProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": "Quantize the visible palette to at most this many colors before the operation. 0 disables",
		"default":     0,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file into the cache and return its dimensions, format, and alpha presence.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_dimensions",
			Description: "Compute how many grid columns and rows a sampling configuration yields for an image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "grid_sample",
			Description: "Sample the image into a cell grid and return each cell's hex color and alpha. Cells whose sampling point falls outside the image are null.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": gridProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "grid_bounding_frame",
			Description: "Find the tightest cell rectangle containing all non-transparent content, honoring user-ignored cells. Returns null when the canvas is empty.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(gridProperties(), map[string]interface{}{
					"ignored": ignoredProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "grid_detect_cell_size",
			Description: "Estimate the cell size and lattice offset of upscaled pixel art from its luminance transitions. Returns cell_size 1 with confidence 0 when no grid is found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_size": map[string]interface{}{
						"type":        "integer",
						"description": "Largest cell size to consider. Default 64",
						"default":     64,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_extract",
			Description: "Extract the unique visible colors of the sampled grid, sorted by occurrence count descending.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(gridProperties(), map[string]interface{}{
					"ignored":    ignoredProperty(),
					"frame":      frameProperty(),
					"max_colors": maxColorsProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_groups",
			Description: "Extract the palette and partition it into fixed hue families (reds through purples, grays last), each with a representative swatch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(gridProperties(), map[string]interface{}{
					"ignored": ignoredProperty(),
					"frame":   frameProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "render_svg",
			Description: "Render the sampled grid as an SVG of run-length-merged rectangles, applying per-group HSL adjustments and omitting transparent cells.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(gridProperties(), map[string]interface{}{
					"ignored":     ignoredProperty(),
					"frame":       frameProperty(),
					"auto_frame":  map[string]interface{}{"type": "boolean", "description": "Compute the minimal bounding frame automatically when no frame is given"},
					"max_colors":  maxColorsProperty(),
					"adjustments": adjustmentsProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "render_png",
			Description: "Render the sampled grid back to a PNG (base64) at an integer scale, with the same visibility and adjustment rules as render_svg.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": mergeProperties(gridProperties(), map[string]interface{}{
					"ignored":     ignoredProperty(),
					"frame":       frameProperty(),
					"auto_frame":  map[string]interface{}{"type": "boolean", "description": "Compute the minimal bounding frame automatically when no frame is given"},
					"max_colors":  maxColorsProperty(),
					"adjustments": adjustmentsProperty(),
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Output pixels per cell. Default 1",
						"default":     1,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func mergeProperties(base, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
