package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/pkg/app"
	"github.com/deploymenttheory/go-macfs/pkg/app/find"
)

var (
	// Matching criteria
	findType    string
	findCreator string

	// Size criteria
	findMinSize string
	findMaxSize string

	// Date criteria
	findModifiedAfter  string
	findModifiedBefore string

	findFilesOnly  bool
	findMaxResults int
)

var findCmd = &cobra.Command{
	Use:   "find [image] [pattern]",
	Short: "Find files by name, type, size, or date",
	Long: `Search a volume with a glob pattern. A pattern containing "/" is matched
against the whole path, anything else against names.

Examples:
  # Every application
  macfs find disk.dsk '*' --type APPL

  # MacWrite documents larger than 10KB
  macfs find disk.dsk '*' --creator MACA --min-size 10KB

  # Everything in the System Folder
  macfs find disk.dsk '/System Folder/*'`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFind(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().StringVarP(&findType, "type", "t", "", "four character file type (APPL, TEXT)")
	findCmd.Flags().StringVarP(&findCreator, "creator", "c", "", "four character creator code")

	findCmd.Flags().StringVar(&findMinSize, "min-size", "", "minimum size of both forks (10KB, 1MB)")
	findCmd.Flags().StringVar(&findMaxSize, "max-size", "", "maximum size of both forks (400KB)")

	findCmd.Flags().StringVar(&findModifiedAfter, "after", "", "modified after (YYYY-MM-DD)")
	findCmd.Flags().StringVar(&findModifiedBefore, "before", "", "modified before (YYYY-MM-DD)")

	findCmd.Flags().BoolVar(&findFilesOnly, "files", false, "match files only")
	findCmd.Flags().IntVar(&findMaxResults, "limit", 1000, "maximum results")
}

func runFind(imagePath, pattern string) (err error) {
	s, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	request := &find.Request{
		Target: app.ImageTarget{
			ImagePath: imagePath,
			Offset:    s.vol.Info().Offset,
			Writable:  s.cfg.Writable,
		},
		Pattern:        pattern,
		Type:           findType,
		Creator:        findCreator,
		MinSize:        findMinSize,
		MaxSize:        findMaxSize,
		ModifiedAfter:  findModifiedAfter,
		ModifiedBefore: findModifiedBefore,
		FilesOnly:      findFilesOnly,
		MaxResults:     findMaxResults,
	}

	response, err := find.Handle(s.ctx, s.vol, request)
	if err != nil {
		return err
	}
	if s.ctx.Verbose {
		s.ctx.Log(find.FormatSummary(response))
	}

	return find.FormatOutput(s.ctx.Out, response, s.ctx.OutputFormat)
}
