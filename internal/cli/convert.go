package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pixelvec/pixelvec/internal/detection"
	"github.com/pixelvec/pixelvec/internal/emitter"
	"github.com/pixelvec/pixelvec/internal/imaging"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

var convertFlags struct {
	gridSize   int
	offsetX    int
	offsetY    int
	sampleMode string
	maxColors  int
	detectGrid bool
	autoFrame  bool
	scale      int
	output     string
}

var convertCmd = &cobra.Command{
	Use:   "convert <image>",
	Short: "Convert an image to SVG or PNG",
	Long: `Convert samples the image on a regular grid and writes the result to
the path given with -o. The output format follows the extension: .svg
emits merged rectangles, .png re-rasterizes at --scale pixels per cell.
With no -o the SVG is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.IntVar(&convertFlags.gridSize, "grid-size", 1, "source pixels per grid cell")
	f.IntVar(&convertFlags.offsetX, "offset-x", 0, "horizontal lattice origin shift")
	f.IntVar(&convertFlags.offsetY, "offset-y", 0, "vertical lattice origin shift")
	f.StringVar(&convertFlags.sampleMode, "sample-mode", "center", "cell color derivation: center or average")
	f.IntVar(&convertFlags.maxColors, "max-colors", 0, "quantize the palette to at most this many colors (0 disables)")
	f.BoolVar(&convertFlags.detectGrid, "detect-grid", false, "auto-detect cell size and offsets, overriding the grid flags")
	f.BoolVar(&convertFlags.autoFrame, "auto-frame", false, "crop output to the minimal frame around visible content")
	f.IntVar(&convertFlags.scale, "scale", 1, "output pixels per cell for PNG output")
	f.StringVarP(&convertFlags.output, "output", "o", "", "output file (.svg or .png); stdout SVG when omitted")

	rootCmd.AddCommand(convertCmd)
}

// parseConfig validates the shared grid flags into a sampling config.
func parseConfig(gridSize, offsetX, offsetY int, sampleMode string) (sampler.Config, error) {
	if gridSize < 1 {
		return sampler.Config{}, fmt.Errorf("--grid-size must be >= 1, got %d", gridSize)
	}
	if offsetX < 0 || offsetX >= gridSize {
		return sampler.Config{}, fmt.Errorf("--offset-x must be in [0, %d), got %d", gridSize, offsetX)
	}
	if offsetY < 0 || offsetY >= gridSize {
		return sampler.Config{}, fmt.Errorf("--offset-y must be in [0, %d), got %d", gridSize, offsetY)
	}

	var mode sampler.SampleMode
	switch sampleMode {
	case "center":
		mode = sampler.ModeCenter
	case "average":
		mode = sampler.ModeAverage
	default:
		return sampler.Config{}, fmt.Errorf("--sample-mode must be center or average, got %q", sampleMode)
	}

	return sampler.Config{GridSize: gridSize, OffsetX: offsetX, OffsetY: offsetY, Mode: mode}, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := parseConfig(convertFlags.gridSize, convertFlags.offsetX,
		convertFlags.offsetY, convertFlags.sampleMode)
	if err != nil {
		return err
	}
	if convertFlags.scale < 1 {
		return fmt.Errorf("--scale must be >= 1, got %d", convertFlags.scale)
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(args[0])
	if err != nil {
		return err
	}

	if convertFlags.detectGrid {
		det := detection.DetectCellSize(img, 64)
		if det.Confidence > 0 {
			logger.Info("detected cell lattice",
				"cell_size", det.CellSize,
				"offset_x", det.OffsetX, "offset_y", det.OffsetY,
				"confidence", fmt.Sprintf("%.2f", det.Confidence))
			cfg.GridSize = det.CellSize
			cfg.OffsetX = det.OffsetX
			cfg.OffsetY = det.OffsetY
		} else {
			logger.Warn("no cell lattice detected, keeping grid flags")
		}
	}

	buf := imaging.ToBuffer(img)
	dims := sampler.GridDimensions(buf.Width, buf.Height, cfg)
	grid := sampler.SampleGrid(buf, cfg)

	var frame *sampler.Frame
	if convertFlags.autoFrame {
		frame = sampler.MinimalBoundingFrame(dims.Cols, dims.Rows, nil, grid)
		if frame == nil {
			return fmt.Errorf("image has no visible content")
		}
	}
	if convertFlags.maxColors > 0 {
		grid = sampler.ReducePalette(grid, nil, frame, convertFlags.maxColors)
	}

	opts := emitter.Options{GridSize: cfg.GridSize, Frame: frame}

	switch strings.ToLower(filepath.Ext(convertFlags.output)) {
	case "", ".svg":
		doc := emitter.RenderSVG(grid, opts)
		if convertFlags.output == "" || convertFlags.output == "-" {
			fmt.Fprint(cmd.OutOrStdout(), doc)
			return nil
		}
		return os.WriteFile(convertFlags.output, []byte(doc), 0o644)
	case ".png":
		cols, rows := dims.Cols, dims.Rows
		if frame != nil {
			cols = frame.EndCol - frame.StartCol + 1
			rows = frame.EndRow - frame.StartRow + 1
		}
		out := emitter.RenderRaster(grid, opts, cols*convertFlags.scale, rows*convertFlags.scale)
		f, err := os.Create(convertFlags.output)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := png.Encode(f, out); err != nil {
			return fmt.Errorf("encoding PNG: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output extension %q (want .svg or .png)",
			filepath.Ext(convertFlags.output))
	}
}
