package helpers

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/deploymenttheory/go-macfs/internal/errs"
)

// DecodeMacRoman converts Mac Roman bytes to a UTF-8 string
func DecodeMacRoman(raw []byte) string {
	out, err := charmap.Macintosh.NewDecoder().Bytes(raw)
	if err != nil {
		// every byte maps in Mac Roman
		return string(raw)
	}
	return string(out)
}

// EncodeMacRoman converts a UTF-8 string to Mac Roman bytes
func EncodeMacRoman(s string) ([]byte, error) {
	out, err := charmap.Macintosh.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errs.InvalidInput("name %q has characters outside Mac Roman", s)
	}
	return out, nil
}

// EncodePascalString returns s as a length-prefixed Mac Roman string
// limited to maxLen characters
func EncodePascalString(s string, maxLen int) ([]byte, error) {
	raw, err := EncodeMacRoman(s)
	if err != nil {
		return nil, err
	}
	if len(raw) > maxLen || len(raw) > 255 {
		return nil, errs.InvalidInput("name %q is longer than %d characters", s, maxLen)
	}
	return append([]byte{byte(len(raw))}, raw...), nil
}
