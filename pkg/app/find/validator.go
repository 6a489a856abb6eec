package find

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/deploymenttheory/go-macfs/pkg/app"
)

const dateLayout = "2006-01-02"

// Validate validates a search request
func (r *Request) Validate() error {
	if err := r.Target.Validate(); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid image target", err)
	}

	if r.Pattern == "" {
		return app.NewError(app.ErrCodeInvalidInput, "search pattern is required", nil)
	}
	if _, err := glob.Compile(r.Pattern, '/'); err != nil {
		return app.NewError(app.ErrCodeInvalidInput, "invalid search pattern", err)
	}

	if err := validateCode("type", r.Type); err != nil {
		return err
	}
	if err := validateCode("creator", r.Creator); err != nil {
		return err
	}

	if r.MinSize != "" {
		if err := validateSizeFormat(r.MinSize); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid min-size format", err)
		}
	}
	if r.MaxSize != "" {
		if err := validateSizeFormat(r.MaxSize); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid max-size format", err)
		}
	}
	if r.MinSize != "" && r.MaxSize != "" {
		lo, _ := ParseSize(r.MinSize)
		hi, _ := ParseSize(r.MaxSize)
		if lo > hi {
			return app.NewError(app.ErrCodeInvalidInput, "min-size is larger than max-size", nil)
		}
	}

	if r.ModifiedAfter != "" {
		if _, err := time.Parse(dateLayout, r.ModifiedAfter); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-after, use YYYY-MM-DD", err)
		}
	}
	if r.ModifiedBefore != "" {
		if _, err := time.Parse(dateLayout, r.ModifiedBefore); err != nil {
			return app.NewError(app.ErrCodeInvalidInput, "invalid date format for modified-before, use YYYY-MM-DD", err)
		}
	}

	if r.MaxResults < 1 || r.MaxResults > 10000 {
		return app.NewError(app.ErrCodeInvalidInput, "max results must be between 1 and 10000", nil)
	}

	return nil
}

// validateCode checks a type or creator filter: up to four printable
// ASCII characters
func validateCode(field, code string) error {
	if len(code) > 4 {
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s code %q is longer than four characters", field, code), nil)
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 0x20 || code[i] > 0x7e {
			return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("%s code %q is not printable ASCII", field, code), nil)
		}
	}
	return nil
}

var sizeMultipliers = map[string]int64{
	"B":  1,
	"KB": 1024,
	"MB": 1024 * 1024,
	"GB": 1024 * 1024 * 1024,
}

// splitSize separates "10 KB" into "10" and "KB"
func splitSize(size string) (string, string) {
	size = strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(size)), " ", "")
	for i, char := range size {
		if !(char >= '0' && char <= '9' || char == '.') {
			return size[:i], size[i:]
		}
	}
	return size, "B"
}

// validateSizeFormat validates size strings like "400KB" or "800"
func validateSizeFormat(size string) error {
	numPart, unit := splitSize(size)
	if numPart == "" {
		return fmt.Errorf("no numeric value found in %q", size)
	}
	if _, err := strconv.ParseFloat(numPart, 64); err != nil {
		return fmt.Errorf("invalid numeric value: %s", numPart)
	}
	if _, ok := sizeMultipliers[unit]; !ok {
		return fmt.Errorf("invalid size unit: %s (valid: B, KB, MB, GB)", unit)
	}
	return nil
}

// ParseSize converts a size string to bytes. A bare number is bytes.
func ParseSize(size string) (int64, error) {
	if err := validateSizeFormat(size); err != nil {
		return 0, err
	}
	numPart, unit := splitSize(size)
	value, _ := strconv.ParseFloat(numPart, 64)
	return int64(value * float64(sizeMultipliers[unit])), nil
}
