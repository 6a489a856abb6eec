package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/services"
)

var (
	// Source and destination (extract-specific)
	extractSource string
	extractDest   string

	// Extraction options (extract-specific)
	extractDataOnly bool
	extractSuffix   string
)

var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Copy files out of a volume",
	Long: `Copy a file or directory out of a volume, the whole volume by default.
Resource forks are written next to their data fork with a suffix.

Examples:
  # Extract the entire volume
  macfs extract disk.dsk --dest ./backup

  # Extract one folder without resource forks
  macfs extract disk.dsk --source /Games --dest ./games --data-only`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(args[0])
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractSource, "source", "s", "/", "source path (default: entire volume)")
	extractCmd.Flags().StringVarP(&extractDest, "dest", "d", "", "destination directory (required)")
	extractCmd.MarkFlagRequired("dest")

	extractCmd.Flags().BoolVar(&extractDataOnly, "data-only", false, "skip resource forks")
	extractCmd.Flags().StringVar(&extractSuffix, "rsrc-suffix", "", "suffix for resource fork files (default from config)")
}

func runExtract(imagePath string) (err error) {
	s, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	opts := services.ExtractOptions{
		DataOnly:       extractDataOnly,
		ResourceSuffix: s.cfg.ResourceSuffix,
	}
	if extractSuffix != "" {
		opts.ResourceSuffix = extractSuffix
	}

	s.ctx.Log(fmt.Sprintf("Extracting %s to %s", extractSource, extractDest))
	stats, err := services.Extract(s.vol, extractSource, osfs.New(extractDest), opts)
	if err != nil {
		return err
	}

	if !s.ctx.Quiet {
		fmt.Fprintf(s.ctx.Out, "Extracted %d files and %d folders (%d bytes)\n", stats.Files, stats.Directories, stats.Bytes)
	}
	return nil
}
