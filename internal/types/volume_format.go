package types

// VolumeFormat identifies the on-disk layout of a volume
type VolumeFormat int

const (
	// FormatUnknown is returned when no known signature is present
	FormatUnknown VolumeFormat = iota
	// FormatMFS is the flat Macintosh File System
	FormatMFS
	// FormatHFS is the hierarchical file system
	FormatHFS
	// FormatHFSPlus is HFS Plus; detected but not decoded
	FormatHFSPlus
)

// String returns the format's short name
func (f VolumeFormat) String() string {
	switch f {
	case FormatMFS:
		return "MFS"
	case FormatHFS:
		return "HFS"
	case FormatHFSPlus:
		return "HFS+"
	}
	return "unknown"
}

// Volume layout constants shared by both formats.
const (
	// SectorSize is the logical sector size used for all sector-relative fields
	SectorSize = 512

	// BootBlocksSize is the size of the boot block area at the start of a volume
	BootBlocksSize = 1024

	// VolumeHeaderOffset is the offset of the MDB / volume info from the volume start
	VolumeHeaderOffset = 1024

	// BootBlockSignature is the "LK" signature of executable boot blocks
	BootBlockSignature uint16 = 0x4C4B
)

// BootBlockHeader is the leading part of the boot blocks
type BootBlockHeader struct {
	// Boot block signature, "LK" when the volume is bootable (bbID)
	Signature uint16

	// Entry point to the boot code (bbEntry)
	EntryPoint uint32

	// Boot block version (bbVersion)
	Version uint16

	// Name of the system file (bbSysName)
	SystemName string

	// Name of the shell, normally the Finder (bbShellName)
	ShellName string
}
