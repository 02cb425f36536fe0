package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pixelvec/pixelvec/internal/colorspace"
	"github.com/pixelvec/pixelvec/internal/grouper"
	"github.com/pixelvec/pixelvec/internal/imaging"
	"github.com/pixelvec/pixelvec/internal/sampler"
)

var paletteFlags struct {
	gridSize   int
	offsetX    int
	offsetY    int
	sampleMode string
	maxColors  int
	groups     bool
}

var paletteCmd = &cobra.Command{
	Use:   "palette <image>",
	Short: "List the unique colors of the sampled grid",
	Long: `Palette samples the image and prints its unique colors sorted by
occurrence count. With --groups the colors are partitioned into hue
families (reds through purples, grays last).`,
	Args: cobra.ExactArgs(1),
	RunE: runPalette,
}

func init() {
	f := paletteCmd.Flags()
	f.IntVar(&paletteFlags.gridSize, "grid-size", 1, "source pixels per grid cell")
	f.IntVar(&paletteFlags.offsetX, "offset-x", 0, "horizontal lattice origin shift")
	f.IntVar(&paletteFlags.offsetY, "offset-y", 0, "vertical lattice origin shift")
	f.StringVar(&paletteFlags.sampleMode, "sample-mode", "center", "cell color derivation: center or average")
	f.IntVar(&paletteFlags.maxColors, "max-colors", 0, "quantize before listing (0 disables)")
	f.BoolVar(&paletteFlags.groups, "groups", false, "partition colors into hue families")

	rootCmd.AddCommand(paletteCmd)
}

func runPalette(cmd *cobra.Command, args []string) error {
	cfg, err := parseConfig(paletteFlags.gridSize, paletteFlags.offsetX,
		paletteFlags.offsetY, paletteFlags.sampleMode)
	if err != nil {
		return err
	}

	cache := imaging.NewImageCache()
	img, err := cache.Load(args[0])
	if err != nil {
		return err
	}

	buf := imaging.ToBuffer(img)
	grid := sampler.SampleGrid(buf, cfg)
	if paletteFlags.maxColors > 0 {
		grid = sampler.ReducePalette(grid, nil, nil, paletteFlags.maxColors)
	}
	entries := sampler.ExtractPalette(grid, nil, nil)

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "no visible colors")
		return nil
	}

	if !paletteFlags.groups {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "HEX\tCOUNT\tRGBA")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%d\t%s\n", e.Hex, e.Count, colorspace.RGBA(e.Color))
		}
		return w.Flush()
	}

	for _, g := range grouper.GroupColorsByHue(entries) {
		fmt.Fprintf(out, "%s (swatch %s)\n", g.Name, g.SwatchHex)
		for _, e := range g.Colors {
			fmt.Fprintf(out, "  %s x%d\n", e.Hex, e.Count)
		}
	}
	return nil
}
