package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-macfs/pkg/app"
)

func TestRequestValidate(t *testing.T) {
	valid := func() *Request {
		return &Request{
			Target:     app.ImageTarget{ImagePath: "disk.img"},
			Pattern:    "*",
			MaxResults: 100,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{"valid", func(r *Request) {}, false},
		{"all criteria", func(r *Request) {
			r.Type, r.Creator = "TEXT", "ttxt"
			r.MinSize, r.MaxSize = "1KB", "2 MB"
			r.ModifiedAfter, r.ModifiedBefore = "1990-01-01", "1999-12-31"
		}, false},
		{"short type code", func(r *Request) { r.Type = "PNT" }, false},
		{"missing image", func(r *Request) { r.Target.ImagePath = "" }, true},
		{"missing pattern", func(r *Request) { r.Pattern = "" }, true},
		{"bad pattern", func(r *Request) { r.Pattern = "[abc" }, true},
		{"long type code", func(r *Request) { r.Type = "TEXTS" }, true},
		{"unprintable creator", func(r *Request) { r.Creator = "a\x01" }, true},
		{"bad size unit", func(r *Request) { r.MinSize = "10XB" }, true},
		{"min above max", func(r *Request) { r.MinSize, r.MaxSize = "2KB", "1KB" }, true},
		{"bad date", func(r *Request) { r.ModifiedAfter = "01/02/1990" }, true},
		{"zero results", func(r *Request) { r.MaxResults = 0 }, true},
		{"too many results", func(r *Request) { r.MaxResults = 10001 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"800", 800, false},
		{"512B", 512, false},
		{"400KB", 400 * 1024, false},
		{" 1.5 mb ", 1536 * 1024, false},
		{"1GB", 1 << 30, false},
		{"", 0, true},
		{"KB", 0, true},
		{"1.2.3KB", 0, true},
		{"5TB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
