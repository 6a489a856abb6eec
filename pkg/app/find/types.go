package find

import (
	"time"

	"github.com/deploymenttheory/go-macfs/pkg/app"
)

// Request represents a search over one volume
type Request struct {
	Target app.ImageTarget

	// Search criteria
	Pattern        string
	Type           string
	Creator        string
	MinSize        string
	MaxSize        string
	ModifiedAfter  string
	ModifiedBefore string
	FilesOnly      bool
	MaxResults     int
}

// Response represents search results
type Response struct {
	Entries     []EntryResult `json:"entries"`
	TotalFound  int           `json:"total_found"`
	SearchTime  time.Duration `json:"search_time"`
	VolumeInfo  VolumeInfo    `json:"volume_info"`
	Truncated   bool          `json:"truncated"`
	SearchQuery SearchQuery   `json:"search_query"`
}

// Entry kinds
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// EntryResult represents a matched file or directory
type EntryResult struct {
	Path         string    `json:"path"`
	Name         string    `json:"name"`
	Kind         string    `json:"kind"`
	DataSize     int64     `json:"data_size"`
	ResourceSize int64     `json:"resource_size"`
	Type         string    `json:"type,omitempty"`
	Creator      string    `json:"creator,omitempty"`
	Locked       bool      `json:"locked"`
	Created      time.Time `json:"created"`
	Modified     time.Time `json:"modified"`
}

// VolumeInfo represents the searched volume
type VolumeInfo struct {
	Name      string `json:"name"`
	Format    string `json:"format"`
	SessionID string `json:"session_id"`
}

// SearchQuery represents the executed search parameters
type SearchQuery struct {
	Pattern        string `json:"pattern,omitempty"`
	Type           string `json:"type,omitempty"`
	Creator        string `json:"creator,omitempty"`
	MinSize        string `json:"min_size,omitempty"`
	MaxSize        string `json:"max_size,omitempty"`
	ModifiedAfter  string `json:"modified_after,omitempty"`
	ModifiedBefore string `json:"modified_before,omitempty"`
	FilesOnly      bool   `json:"files_only"`
	MaxResults     int    `json:"max_results"`
}

// SizeClass represents entry size categories for display
type SizeClass string

const (
	SizeClassEmpty  SizeClass = "empty"  // 0 bytes
	SizeClassTiny   SizeClass = "tiny"   // < 1KB
	SizeClassSmall  SizeClass = "small"  // < 64KB
	SizeClassMedium SizeClass = "medium" // < 1MB
	SizeClassLarge  SizeClass = "large"  // >= 1MB
)

// Size returns the combined length of both forks
func (e *EntryResult) Size() int64 {
	return e.DataSize + e.ResourceSize
}

// GetSizeClass returns the size class for display purposes
func (e *EntryResult) GetSizeClass() SizeClass {
	switch size := e.Size(); {
	case size == 0:
		return SizeClassEmpty
	case size < 1024:
		return SizeClassTiny
	case size < 64*1024:
		return SizeClassSmall
	case size < 1024*1024:
		return SizeClassMedium
	default:
		return SizeClassLarge
	}
}

// FormatSize returns a human-readable size string; directories show "-"
func (e *EntryResult) FormatSize() string {
	if e.Kind == KindDirectory {
		return "-"
	}
	return app.FormatBytes(e.Size())
}
