package cmd

import (
	"fmt"
	"path"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-macfs/internal/services"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

var (
	// Listing options (ls-specific)
	lsRecursive bool
)

// lsEntry is one listed file or directory
type lsEntry struct {
	Path         string    `json:"path" yaml:"path"`
	Kind         string    `json:"kind" yaml:"kind"`
	DataSize     uint32    `json:"data_size" yaml:"data_size"`
	ResourceSize uint32    `json:"resource_size" yaml:"resource_size"`
	Type         string    `json:"type,omitempty" yaml:"type,omitempty"`
	Creator      string    `json:"creator,omitempty" yaml:"creator,omitempty"`
	Locked       bool      `json:"locked" yaml:"locked"`
	Modified     time.Time `json:"modified" yaml:"modified"`
}

var lsCmd = &cobra.Command{
	Use:   "ls [image] [path]",
	Short: "List a directory",
	Long: `List the files and folders of a directory, the root by default.

Examples:
  # List the root directory
  macfs ls disk.dsk

  # Everything below a folder
  macfs ls disk.dsk "/System Folder" --recursive`,

	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := "/"
		if len(args) == 2 {
			p = args[1]
		}
		return runList(args[0], p)
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "r", false, "list subdirectories recursively")
}

func runList(imagePath, p string) (err error) {
	s, err := openVolume(imagePath)
	if err != nil {
		return err
	}
	defer s.close(&err)

	entries, err := listEntries(s.vol, p, lsRecursive)
	if err != nil {
		return err
	}

	if s.ctx.OutputFormat != "table" {
		return app.WriteStructured(s.ctx.Out, s.ctx.OutputFormat, entries)
	}

	w := tabwriter.NewWriter(s.ctx.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tDATA\tRSRC\tTYPE\tCREATOR\tMODIFIED\n")
	for _, e := range entries {
		if e.Kind == "directory" {
			fmt.Fprintf(w, "%s/\t-\t-\t\t\t%s\n", e.Path, formatTime(e.Modified))
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			e.Path, e.DataSize, e.ResourceSize, e.Type, e.Creator, formatTime(e.Modified))
	}
	return w.Flush()
}

// listEntries lists the directory at p. Paths are relative to it when
// recursing and bare names otherwise.
func listEntries(vol services.Volume, p string, recursive bool) ([]lsEntry, error) {
	dir, file, err := vol.LookupPath(services.SplitPath(p))
	if err != nil {
		return nil, err
	}
	if file != nil {
		return []lsEntry{fileEntry(file.Name, file)}, nil
	}

	var entries []lsEntry
	var visit func(d *tree.Directory, prefix string)
	visit = func(d *tree.Directory, prefix string) {
		files, dirs := vol.List(d)
		for _, f := range files {
			entries = append(entries, fileEntry(path.Join(prefix, f.Name), f))
		}
		for _, sub := range dirs {
			subPath := path.Join(prefix, sub.Name)
			entries = append(entries, lsEntry{Path: subPath, Kind: "directory", Modified: sub.Modified})
			if recursive {
				visit(sub, subPath)
			}
		}
	}
	visit(dir, "")
	return entries, nil
}

func fileEntry(p string, f *tree.File) lsEntry {
	return lsEntry{
		Path:         p,
		Kind:         "file",
		DataSize:     f.DataLength,
		ResourceSize: f.ResourceLength,
		Type:         f.Type.String(),
		Creator:      f.Creator.String(),
		Locked:       f.Locked,
		Modified:     f.Modified,
	}
}
