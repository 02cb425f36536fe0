package cli

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	logger   hclog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pixelvec",
	Short: "Convert pixel art to SVG or re-rasterized PNG",
	Long: `pixelvec samples a regular grid over a raster image, extracts its
palette, and emits either a run-length-merged rectangle SVG or a clean
re-rasterized PNG. It understands upscaled pixel art and can auto-detect
the original cell size.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   "pixelvec",
			Level:  hclog.LevelFromString(logLevel),
			Output: os.Stderr,
		})
	},
}

// Execute runs the CLI and returns the process exit code.
func Execute(version string) int {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		hclog.New(&hclog.LoggerOptions{Name: "pixelvec", Output: os.Stderr}).
			Error(err.Error())
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log verbosity (trace, debug, info, warn, error)")
}
