package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/services"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

// infoOutput is the structured form of the info command
type infoOutput struct {
	SessionID  string    `json:"session_id" yaml:"session_id"`
	Format     string    `json:"format" yaml:"format"`
	Name       string    `json:"name" yaml:"name"`
	Offset     int64     `json:"offset" yaml:"offset"`
	BlockSize  uint32    `json:"block_size" yaml:"block_size"`
	BlockCount uint32    `json:"block_count" yaml:"block_count"`
	FreeBlocks uint32    `json:"free_blocks" yaml:"free_blocks"`
	Files      int       `json:"files" yaml:"files"`
	Folders    int       `json:"folders" yaml:"folders"`
	Created    time.Time `json:"created" yaml:"created"`
	Modified   time.Time `json:"modified" yaml:"modified"`
	Locked     bool      `json:"locked" yaml:"locked"`
	Writable   bool      `json:"writable" yaml:"writable"`
	BootSystem string    `json:"boot_system,omitempty" yaml:"boot_system,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info [image]",
	Short: "Show volume information",
	Long: `Show the name, format, geometry, and free space of the volume in an image.

Examples:
  # Show a floppy image
  macfs info "System 1.0.dsk"

  # Volume behind a partition map, as JSON
  macfs info --offset 49152 disk.img -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInfo(args[0])
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(imagePath string) (err error) {
	s, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	info := s.vol.Info()
	out := infoOutput{
		SessionID:  info.SessionID.String(),
		Format:     info.Format.String(),
		Name:       info.Name,
		Offset:     info.Offset,
		BlockSize:  info.BlockSize,
		BlockCount: info.BlockCount,
		FreeBlocks: info.FreeBlocks,
		Files:      info.FileCount,
		Folders:    info.DirCount,
		Created:    info.Created,
		Modified:   info.Modified,
		Locked:     info.Locked,
		Writable:   info.Writable,
		BootSystem: info.BootSystem,
	}

	if s.ctx.OutputFormat != "table" {
		return app.WriteStructured(s.ctx.Out, s.ctx.OutputFormat, out)
	}
	return writeInfoTable(s.ctx, info)
}

func writeInfoTable(ctx *app.Context, info services.VolumeInfo) error {
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Name:\t%s\n", info.Name)
	fmt.Fprintf(w, "Format:\t%s\n", info.Format)
	fmt.Fprintf(w, "Offset:\t%d\n", info.Offset)
	fmt.Fprintf(w, "Blocks:\t%d x %d bytes (%s)\n", info.BlockCount, info.BlockSize, app.FormatBytes(info.TotalBytes()))
	fmt.Fprintf(w, "Free:\t%d blocks (%s)\n", info.FreeBlocks, app.FormatBytes(info.FreeBytes()))
	fmt.Fprintf(w, "Files:\t%d\n", info.FileCount)
	fmt.Fprintf(w, "Folders:\t%d\n", info.DirCount)
	fmt.Fprintf(w, "Created:\t%s\n", formatTime(info.Created))
	fmt.Fprintf(w, "Modified:\t%s\n", formatTime(info.Modified))
	if info.Locked {
		fmt.Fprintf(w, "Locked:\tyes\n")
	}
	if info.BootSystem != "" {
		fmt.Fprintf(w, "Boot system:\t%s\n", info.BootSystem)
	}
	fmt.Fprintf(w, "Session:\t%s\n", info.SessionID)
	return w.Flush()
}

// formatTime renders a volume date; unset dates show as "-"
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}
