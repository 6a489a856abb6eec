package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-macfs/internal/device"
	"github.com/deploymenttheory/go-macfs/internal/services"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

var (
	// Global flags
	configFile   string
	volumeOffset int64
	writable     bool
	verbose      bool
	quiet        bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "macfs",
	Short: "Explorer for classic Macintosh MFS and HFS volumes",
	Long: `macfs reads classic Macintosh volumes, the flat Macintosh File System
(MFS) and the Hierarchical File System (HFS), from raw disk images and
DiskCopy 4.2 images without an emulator.

MFS volumes can also be modified: files can be created and forks appended.

Commands:
  info        Show volume information
  ls          List a directory
  cat         Print a file fork
  find        Find files by name, type, size, or date
  extract     Copy files out of a volume
  touch       Create an empty file on an MFS volume
  append      Append data to a fork on an MFS volume
  config      Show the effective configuration`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			viper.SetConfigFile(configFile)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: macfs-config.yaml in ., ./config, $HOME/.macfs, /etc/macfs)")
	flags.Int64Var(&volumeOffset, "offset", 0, "byte offset of the volume inside the image")
	flags.BoolVarP(&writable, "writable", "w", false, "open the image read-write")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")

	// Flags override config file and environment
	_ = viper.BindPFlag("partition_offset", flags.Lookup("offset"))
	_ = viper.BindPFlag("writable", flags.Lookup("writable"))
	_ = viper.BindPFlag("output_format", flags.Lookup("output"))
}

// newAppContext builds the application context from flags and config
func newAppContext(cfg *device.ImageConfig) *app.Context {
	ctx := app.NewContext()
	ctx.OutputFormat = cfg.OutputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	ctx.Logger = newLogger(os.Stderr, cfg.LogLevel)
	return ctx
}

// newLogger builds a text logger; --verbose forces debug and --quiet
// keeps errors only
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch {
	case verbose:
		lvl = slog.LevelDebug
	case quiet:
		lvl = slog.LevelError
	default:
		if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
			lvl = slog.LevelInfo
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// session is an opened volume with the settings it was opened with
type session struct {
	vol services.Volume
	ctx *app.Context
	cfg *device.ImageConfig
}

// openVolume loads the configuration, opens the image and the volume
// inside it
func openVolume(path string) (*session, error) {
	cfg, err := device.LoadImageConfig()
	if err != nil {
		return nil, err
	}
	// an explicit --offset disables probing
	if rootCmd.PersistentFlags().Changed("offset") {
		cfg.AutoDetect = false
	}

	target := app.ImageTarget{ImagePath: path, Offset: cfg.PartitionOffset, Writable: cfg.Writable}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	ctx := newAppContext(cfg)
	ctx.Log(fmt.Sprintf("Opening %s", target.String()))

	dev, err := device.OpenImage(path, cfg)
	if err != nil {
		return nil, app.NewError(app.ErrCodeImageAccess, "cannot open image", err)
	}

	vol, err := services.Open(dev,
		services.WithLogger(ctx.Logger),
		services.WithPartition(dev.Partition()),
	)
	if err != nil {
		dev.Close()
		return nil, app.NewError(app.ErrCodeImageAccess, fmt.Sprintf("cannot open volume in %s", path), err)
	}
	return &session{vol: vol, ctx: ctx, cfg: cfg}, nil
}

// openWritable is openVolume for commands that modify the volume
func openWritable(path string) (*session, error) {
	s, err := openVolume(path)
	if err != nil {
		return nil, err
	}
	if !s.cfg.Writable {
		s.vol.Close()
		return nil, app.NewError(app.ErrCodeNotWritable, "image opened read-only, pass --writable", nil)
	}
	return s, nil
}

// close closes the volume, reporting the close error if none came first
func (s *session) close(err *error) {
	if cerr := s.vol.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
