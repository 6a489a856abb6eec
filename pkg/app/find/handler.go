package find

import (
	"fmt"
	"time"

	"github.com/deploymenttheory/go-macfs/internal/services"
	"github.com/deploymenttheory/go-macfs/internal/tree"
	"github.com/deploymenttheory/go-macfs/internal/types"
	"github.com/deploymenttheory/go-macfs/pkg/app"
)

// filter is the parsed form of a request's criteria
type filter struct {
	fileType, creator *types.FourCC
	minSize, maxSize  int64
	after, before     time.Time
	filesOnly         bool
}

// Handle runs a search request against an opened volume
func Handle(ctx *app.Context, vol services.Volume, req *Request) (*Response, error) {
	startTime := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx.Log(fmt.Sprintf("Searching %s for %q", req.Target.String(), req.Pattern))
	logSearchCriteria(ctx, req)
	ctx.Progress("Walking catalog...", 10)

	f := newFilter(req)

	matches, err := services.FindMatches(vol, req.Pattern)
	if err != nil {
		return nil, app.NewError(app.ErrCodeInvalidInput, "search failed", err)
	}

	ctx.Progress("Filtering matches...", 60)

	var entries []EntryResult
	for _, m := range matches {
		if entry, ok := f.match(m.Path, m.Dir, m.File); ok {
			entries = append(entries, entry)
		}
	}

	info := vol.Info()
	response := &Response{
		Entries:    entries,
		TotalFound: len(entries),
		VolumeInfo: VolumeInfo{
			Name:      info.Name,
			Format:    info.Format.String(),
			SessionID: info.SessionID.String(),
		},
		SearchQuery: createSearchQuery(req),
	}

	if len(response.Entries) > req.MaxResults {
		response.Entries = response.Entries[:req.MaxResults]
		response.Truncated = true
	}
	response.SearchTime = time.Since(startTime)

	ctx.Progress("Complete", 100)
	ctx.Log(fmt.Sprintf("Search completed: found %d entries in %v", response.TotalFound, response.SearchTime))

	return response, nil
}

// newFilter parses a validated request
func newFilter(req *Request) *filter {
	f := &filter{filesOnly: req.FilesOnly, maxSize: -1}
	if req.Type != "" {
		c := types.NewFourCC(req.Type)
		f.fileType = &c
	}
	if req.Creator != "" {
		c := types.NewFourCC(req.Creator)
		f.creator = &c
	}
	if req.MinSize != "" {
		f.minSize, _ = ParseSize(req.MinSize)
	}
	if req.MaxSize != "" {
		f.maxSize, _ = ParseSize(req.MaxSize)
	}
	if req.ModifiedAfter != "" {
		f.after, _ = time.Parse(dateLayout, req.ModifiedAfter)
	}
	if req.ModifiedBefore != "" {
		f.before, _ = time.Parse(dateLayout, req.ModifiedBefore)
	}
	return f
}

// fileCriteria reports whether any criterion only a file can satisfy is set
func (f *filter) fileCriteria() bool {
	return f.filesOnly || f.fileType != nil || f.creator != nil || f.minSize > 0 || f.maxSize >= 0
}

func (f *filter) matchTime(modified time.Time) bool {
	if !f.after.IsZero() && !modified.After(f.after) {
		return false
	}
	if !f.before.IsZero() && !modified.Before(f.before) {
		return false
	}
	return true
}

func (f *filter) match(p string, dir *tree.Directory, file *tree.File) (EntryResult, bool) {
	if dir != nil {
		if f.fileCriteria() || !f.matchTime(dir.Modified) {
			return EntryResult{}, false
		}
		return EntryResult{
			Path:     p,
			Name:     dir.Name,
			Kind:     KindDirectory,
			Created:  dir.Created,
			Modified: dir.Modified,
		}, true
	}

	if f.fileType != nil && file.Type != *f.fileType {
		return EntryResult{}, false
	}
	if f.creator != nil && file.Creator != *f.creator {
		return EntryResult{}, false
	}
	if file.Size() < f.minSize || (f.maxSize >= 0 && file.Size() > f.maxSize) {
		return EntryResult{}, false
	}
	if !f.matchTime(file.Modified) {
		return EntryResult{}, false
	}

	return EntryResult{
		Path:         p,
		Name:         file.Name,
		Kind:         KindFile,
		DataSize:     int64(file.DataLength),
		ResourceSize: int64(file.ResourceLength),
		Type:         file.Type.String(),
		Creator:      file.Creator.String(),
		Locked:       file.Locked,
		Created:      file.Created,
		Modified:     file.Modified,
	}, true
}

// logSearchCriteria logs the search criteria for verbose output
func logSearchCriteria(ctx *app.Context, req *Request) {
	if !ctx.Verbose {
		return
	}

	ctx.Log("Search criteria:")
	if req.Type != "" || req.Creator != "" {
		ctx.Log(fmt.Sprintf("  Type/creator: %q/%q", req.Type, req.Creator))
	}
	if req.MinSize != "" || req.MaxSize != "" {
		ctx.Log(fmt.Sprintf("  Size range: %s - %s", req.MinSize, req.MaxSize))
	}
	if req.ModifiedAfter != "" || req.ModifiedBefore != "" {
		ctx.Log(fmt.Sprintf("  Modified: %s - %s", req.ModifiedAfter, req.ModifiedBefore))
	}
	if req.FilesOnly {
		ctx.Log("  Files only")
	}
}

// createSearchQuery creates a SearchQuery from the request
func createSearchQuery(req *Request) SearchQuery {
	return SearchQuery{
		Pattern:        req.Pattern,
		Type:           req.Type,
		Creator:        req.Creator,
		MinSize:        req.MinSize,
		MaxSize:        req.MaxSize,
		ModifiedAfter:  req.ModifiedAfter,
		ModifiedBefore: req.ModifiedBefore,
		FilesOnly:      req.FilesOnly,
		MaxResults:     req.MaxResults,
	}
}
