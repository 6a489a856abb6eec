package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/types"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

var (
	// Fork and data source (append-specific)
	appendFork  string
	appendInput string
)

var appendCmd = &cobra.Command{
	Use:   "append [image] [path]",
	Short: "Append data to a fork on an MFS volume",
	Long: `Append data to the end of a file's data or resource fork on an MFS
volume. Data is read from standard input unless --input names a file.

Examples:
  echo "more text" | macfs append --writable disk.dsk /Notes
  macfs append --writable disk.dsk /Notes --fork rsrc --input notes.rsrc`,

	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAppend(cmd.InOrStdin(), args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(appendCmd)

	appendCmd.Flags().StringVarP(&appendFork, "fork", "f", "data", "fork to append to (data, rsrc)")
	appendCmd.Flags().StringVarP(&appendInput, "input", "i", "", "file to read the data from (default: stdin)")
}

func runAppend(stdin io.Reader, imagePath, p string) (err error) {
	fork, err := types.ParseFork(appendFork)
	if err != nil {
		return err
	}

	data, err := readInput(stdin, appendInput)
	if err != nil {
		return err
	}

	s, err := openWritable(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	file, err := lookupFile(s.vol, p)
	if err != nil {
		return err
	}
	if err := s.vol.Append(file, fork, data); err != nil {
		return err
	}
	if err := s.vol.Flush(); err != nil {
		return err
	}

	s.ctx.Log(fmt.Sprintf("Appended %d bytes to the %s fork of %s", len(data), fork, p))
	return nil
}

// readInput reads the whole of the named file, or stdin when name is empty
func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("cannot read %s", name), err)
	}
	return data, nil
}
