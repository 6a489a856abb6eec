// Package device gives raw access to disk images holding MFS or HFS
// volumes, and loads the image settings from configuration.
package device

import (
	"encoding/binary"
	"errors"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-macfs/internal/errs"
	"github.com/deploymenttheory/go-macfs/internal/types"
)

// diskCopyHeaderSize is the header DiskCopy 4.2 images put in front of the
// raw sectors
const diskCopyHeaderSize = 84

// ImageDevice is a raw disk image file. Offsets are image offsets; the
// volume inside it is located by Partition.
type ImageDevice struct {
	file      *os.File
	size      int64
	writable  bool
	partition StaticPartition
}

// ImageConfig holds configuration for opening disk images
type ImageConfig struct {
	AutoDetect         bool   `mapstructure:"auto_detect"`
	PartitionOffset    int64  `mapstructure:"partition_offset"`
	PartitionBlockSize uint32 `mapstructure:"partition_block_size"`
	Writable           bool   `mapstructure:"writable"`
	LogLevel           string `mapstructure:"log_level"`
	OutputFormat       string `mapstructure:"output_format"`
	ResourceSuffix     string `mapstructure:"resource_suffix"`
}

// LoadImageConfig loads image configuration using Viper
func LoadImageConfig() (*ImageConfig, error) {
	viper.SetConfigName("macfs-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.macfs")
	viper.AddConfigPath("/etc/macfs")

	viper.SetDefault("auto_detect", true)
	viper.SetDefault("partition_offset", 0)
	viper.SetDefault("partition_block_size", types.SectorSize)
	viper.SetDefault("writable", false)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("output_format", "table")
	viper.SetDefault("resource_suffix", ".rsrc")

	viper.SetEnvPrefix("MACFS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errs.InvalidInput("error reading config file: %v", err)
		}
		// no config file, defaults apply
	}

	var config ImageConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errs.InvalidInput("error unmarshaling config: %v", err)
	}

	return &config, nil
}

// OpenImage opens a disk image and locates the volume inside it
func OpenImage(path string, config *ImageConfig) (*ImageDevice, error) {
	flag := os.O_RDONLY
	if config.Writable {
		flag = os.O_RDWR
	}
	file, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errs.IO(err, "failed to open disk image %s", path)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errs.IO(err, "failed to stat disk image %s", path)
	}

	device := &ImageDevice{
		file:     file,
		size:     stat.Size(),
		writable: config.Writable,
		partition: StaticPartition{
			Offset: config.PartitionOffset,
			Block:  config.PartitionBlockSize,
		},
	}

	if config.AutoDetect {
		if offset, ok := DetectVolumeOffset(device, config.PartitionOffset); ok {
			device.partition.Offset = offset
		}
	}

	return device, nil
}

// DetectVolumeOffset checks the configured offset, the start of the image
// and the end of a DiskCopy 4.2 header for an MFS or HFS signature
func DetectVolumeOffset(r io.ReaderAt, configured int64) (int64, bool) {
	sig := make([]byte, 2)
	for _, offset := range []int64{configured, 0, diskCopyHeaderSize} {
		if offset < 0 {
			continue
		}
		if _, err := r.ReadAt(sig, offset+types.VolumeHeaderOffset); err != nil {
			continue
		}
		switch binary.BigEndian.Uint16(sig) {
		case types.MFSSignature, types.HFSSignature:
			return offset, true
		}
	}
	return 0, false
}

// ReadAt implements io.ReaderAt over the whole image
func (d *ImageDevice) ReadAt(p []byte, off int64) (int, error) {
	return d.file.ReadAt(p, off)
}

// WriteAt implements io.WriterAt over the whole image
func (d *ImageDevice) WriteAt(p []byte, off int64) (int, error) {
	if !d.writable {
		return 0, errs.Forbidden("disk image opened read-only")
	}
	if off < 0 || off+int64(len(p)) > d.size {
		return 0, errs.InvalidInput("write of %d bytes at %d outside the %d-byte image", len(p), off, d.size)
	}
	return d.file.WriteAt(p, off)
}

// Size returns the size of the image in bytes
func (d *ImageDevice) Size() int64 {
	return d.size
}

// Writable reports whether the image was opened for writing
func (d *ImageDevice) Writable() bool {
	return d.writable
}

// Partition returns the location of the volume inside the image
func (d *ImageDevice) Partition() StaticPartition {
	return d.partition
}

// Close closes the image file
func (d *ImageDevice) Close() error {
	if d.file != nil {
		if d.writable {
			if err := d.file.Sync(); err != nil {
				d.file.Close()
				return errs.IO(err, "failed to sync disk image")
			}
		}
		return d.file.Close()
	}
	return nil
}
