package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/services"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

var (
	// Fork selection (cat-specific)
	catFork string
)

var catCmd = &cobra.Command{
	Use:   "cat [image] [path]",
	Short: "Print a file fork",
	Long: `Write the data fork of a file, or its resource fork, to standard output.

Examples:
  macfs cat disk.dsk "/Read Me"
  macfs cat disk.dsk /Games/Tetris --fork rsrc > Tetris.rsrc`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCat(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(catCmd)

	catCmd.Flags().StringVarP(&catFork, "fork", "f", "data", "fork to print (data, rsrc)")
}

func runCat(imagePath, p string) (err error) {
	fork, err := types.ParseFork(catFork)
	if err != nil {
		return err
	}

	s, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	file, err := lookupFile(s.vol, p)
	if err != nil {
		return err
	}
	r, err := s.vol.OpenFork(file, fork)
	if err != nil {
		return err
	}
	_, err = io.Copy(s.ctx.Out, r)
	return err
}

// lookupFile resolves p to a file, rejecting directories
func lookupFile(vol services.Volume, p string) (*tree.File, error) {
	_, file, err := vol.LookupPath(services.SplitPath(p))
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, errs.InvalidInput("%s is a directory", p)
	}
	return file, nil
}
