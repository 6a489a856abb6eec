// Package errs defines the error codes reported by the volume decoders and
// helpers to build coded errors at the point a problem is detected.
//
// Coded errors are created once, where the fault is found. Callers further
// up add context with fmt.Errorf("...: %w", err) so Code still reports the
// original classification.
package errs

import (
	platformerrors "github.com/jmgilman/go/errors"
)

// Error codes.
const (
	// CodeFormatMismatch is a wrong signature, node size or record tag. Aborts a load.
	CodeFormatMismatch platformerrors.ErrorCode = "FORMAT_MISMATCH"

	// CodeIO is a short read, short write or failed seek.
	CodeIO platformerrors.ErrorCode = "IO_ERROR"

	// CodeStructuralCorruption is an inconsistent structure: orphan catalog
	// records, cyclic block chains, forks longer than their allocation.
	CodeStructuralCorruption platformerrors.ErrorCode = "STRUCTURAL_CORRUPTION"

	// CodeUnsupportedFeature is a valid structure this package does not handle.
	CodeUnsupportedFeature platformerrors.ErrorCode = "UNSUPPORTED_FEATURE"

	// CodeNotADirectory is a path segment that resolved to a file.
	CodeNotADirectory platformerrors.ErrorCode = "NOT_A_DIRECTORY"

	// CodeNoSpace is an allocation that could not be satisfied.
	CodeNoSpace platformerrors.ErrorCode = "NO_SPACE"

	CodeNotFound      = platformerrors.CodeNotFound
	CodeAlreadyExists = platformerrors.CodeAlreadyExists
	CodeInvalidInput  = platformerrors.CodeInvalidInput
	CodeForbidden     = platformerrors.CodeForbidden
)

// FormatMismatch returns a FORMAT_MISMATCH error
func FormatMismatch(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeFormatMismatch, format, args...)
}

// IO wraps err as an IO_ERROR. It returns nil when err is nil.
func IO(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrapf(err, CodeIO, format, args...)
}

// Corrupt returns a STRUCTURAL_CORRUPTION error
func Corrupt(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeStructuralCorruption, format, args...)
}

// Unsupported returns an UNSUPPORTED_FEATURE error
func Unsupported(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeUnsupportedFeature, format, args...)
}

// NotFound returns a NOT_FOUND error
func NotFound(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeNotFound, format, args...)
}

// NotADirectory returns a NOT_A_DIRECTORY error
func NotADirectory(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeNotADirectory, format, args...)
}

// NoSpace returns a NO_SPACE error
func NoSpace(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeNoSpace, format, args...)
}

// AlreadyExists returns an ALREADY_EXISTS error
func AlreadyExists(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeAlreadyExists, format, args...)
}

// InvalidInput returns an INVALID_INPUT error
func InvalidInput(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeInvalidInput, format, args...)
}

// Forbidden returns a FORBIDDEN error
func Forbidden(format string, args ...interface{}) error {
	return platformerrors.Newf(CodeForbidden, format, args...)
}

// With attaches a context field to a coded error, keeping its code
func With(err error, key string, value interface{}) error {
	if err == nil {
		return nil
	}
	return platformerrors.WithContext(err, key, value)
}

// Code returns the code of the first coded error in err's chain, or
// UNKNOWN when there is none.
func Code(err error) platformerrors.ErrorCode {
	return platformerrors.GetCode(err)
}

// Is reports whether err carries the given code
func Is(err error, code platformerrors.ErrorCode) bool {
	return err != nil && Code(err) == code
}
