package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-macfs/internal/device"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the settings images are opened with, after merging defaults, the
config file, MACFS_* environment variables, and flags.`,

	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig() error {
	cfg, err := device.LoadImageConfig()
	if err != nil {
		return err
	}
	ctx := newAppContext(cfg)

	if ctx.OutputFormat != "table" {
		return app.WriteStructured(ctx.Out, ctx.OutputFormat, viper.AllSettings())
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)
	source := viper.ConfigFileUsed()
	if source == "" {
		source = "(none)"
	}
	fmt.Fprintf(w, "config file:\t%s\n", source)
	fmt.Fprintf(w, "auto_detect:\t%t\n", cfg.AutoDetect)
	fmt.Fprintf(w, "partition_offset:\t%d\n", cfg.PartitionOffset)
	fmt.Fprintf(w, "partition_block_size:\t%d\n", cfg.PartitionBlockSize)
	fmt.Fprintf(w, "writable:\t%t\n", cfg.Writable)
	fmt.Fprintf(w, "log_level:\t%s\n", cfg.LogLevel)
	fmt.Fprintf(w, "output_format:\t%s\n", cfg.OutputFormat)
	fmt.Fprintf(w, "resource_suffix:\t%s\n", cfg.ResourceSuffix)
	return w.Flush()
}
