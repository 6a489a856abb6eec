package app

import (
	"fmt"
)

// ImageTarget selects a volume inside a disk image across commands
type ImageTarget struct {
	ImagePath string
	Offset    int64
	Writable  bool
}

// Validate ensures the image target is usable
func (it *ImageTarget) Validate() error {
	if it.ImagePath == "" {
		return NewError(ErrCodeInvalidInput, "image path is required", nil)
	}
	if it.Offset < 0 {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("negative volume offset %d", it.Offset), nil)
	}
	return nil
}

// String returns a string representation of the image target
func (it *ImageTarget) String() string {
	if it.Offset != 0 {
		return fmt.Sprintf("%s @ %d", it.ImagePath, it.Offset)
	}
	return it.ImagePath
}

// CommonError represents application-level errors
type CommonError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CommonError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CommonError) Unwrap() error {
	return e.Cause
}

// Common error codes
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeImageAccess   = "IMAGE_ACCESS"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeNotWritable   = "NOT_WRITABLE"
	ErrCodeOutputFailure = "OUTPUT_FAILURE"
)

// NewError creates a new CommonError
func NewError(code, message string, cause error) *CommonError {
	return &CommonError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// FormatBytes formats a byte count as a human readable size
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
