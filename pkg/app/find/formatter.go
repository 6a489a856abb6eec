package find

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/deploymenttheory/go-macfs/pkg/app"
)

// FormatOutput writes search results to w in the given format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return app.NewError(app.ErrCodeInvalidInput, fmt.Sprintf("unsupported output format: %s", format), nil)
	}
}

// formatTable formats results as a table, in walk order
func formatTable(out io.Writer, response *Response) error {
	if len(response.Entries) == 0 {
		_, err := fmt.Fprintln(out, "No entries found matching the search criteria.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "PATH\tKIND\tSIZE\tTYPE\tCREATOR\tMODIFIED\n")
	fmt.Fprintf(w, "----\t----\t----\t----\t-------\t--------\n")

	for _, entry := range response.Entries {
		modTime := "-"
		if !entry.Modified.IsZero() {
			modTime = entry.Modified.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.Path, entry.Kind, entry.FormatSize(), entry.Type, entry.Creator, modTime)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n")
	if response.VolumeInfo.Name != "" {
		fmt.Fprintf(out, "Volume: %s (%s)\n", response.VolumeInfo.Name, response.VolumeInfo.Format)
	}
	fmt.Fprintf(out, "Found %d entries", response.TotalFound)
	if response.Truncated {
		fmt.Fprintf(out, " (showing first %d)", len(response.Entries))
	}
	_, err := fmt.Fprintf(out, " in %v\n", response.SearchTime)
	return err
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}

// FormatSummary provides a brief summary for verbose output
func FormatSummary(response *Response) string {
	if response.TotalFound == 0 {
		return "No entries found"
	}

	summary := fmt.Sprintf("Found %d entr", response.TotalFound)
	if response.TotalFound == 1 {
		summary += "y"
	} else {
		summary += "ies"
	}
	if response.Truncated {
		summary += fmt.Sprintf(" (showing %d)", len(response.Entries))
	}

	var totalSize int64
	for _, entry := range response.Entries {
		totalSize += entry.Size()
	}

	summary += fmt.Sprintf(" totaling %s", app.FormatBytes(totalSize))
	summary += fmt.Sprintf(" in %v", response.SearchTime)

	return summary
}
