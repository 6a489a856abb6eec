package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/types"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

var (
	// Finder info for the new file (touch-specific)
	touchType    string
	touchCreator string
)

var touchCmd = &cobra.Command{
	Use:   "touch [image] [name]",
	Short: "Create an empty file on an MFS volume",
	Long: `Create an empty file in the root directory of an MFS volume.

Examples:
  macfs touch --writable disk.dsk "Notes" --type TEXT --creator MACA`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTouch(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(touchCmd)

	touchCmd.Flags().StringVarP(&touchType, "type", "t", "TEXT", "four character file type")
	touchCmd.Flags().StringVarP(&touchCreator, "creator", "c", "????", "four character creator code")
}

func runTouch(imagePath, name string) (err error) {
	if len(touchType) > 4 || len(touchCreator) > 4 {
		return app.NewError(app.ErrCodeInvalidInput, "type and creator codes are at most four characters", nil)
	}

	s, err := openWritable(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	file, err := s.vol.AddFile(name, types.NewFourCC(touchType), types.NewFourCC(touchCreator))
	if err != nil {
		return err
	}
	if err := s.vol.Flush(); err != nil {
		return err
	}

	s.ctx.Log(fmt.Sprintf("Created %q with file number %s", file.Name, file.ID))
	return nil
}
