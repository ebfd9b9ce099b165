package agent

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/tableparse"
)

const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Export renders a loaded document in the requested format.
func (a *Agent) Export(sourceID, format string) (string, error) {
	doc, err := a.Document(sourceID)
	if err != nil {
		return "", err
	}

	switch strings.ToLower(format) {
	case FormatJSON:
		return doc.ToJSON()
	case FormatCSV:
		return a.exportCSV(doc)
	case FormatMarkdown, "md":
		return a.exportMarkdown(doc), nil
	default:
		return "", fmt.Errorf("%w: export format %q", forms.ErrUnsupportedFormat, format)
	}
}

// exportCSV writes the field set as rows, one per field.
func (a *Agent) exportCSV(doc *forms.FormDocument) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"name", "value", "kind"}
	if a.cfg.OutputIncludeConfidence {
		header = append(header, "confidence")
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	var writeErr error
	doc.Fields.Range(func(name string, value forms.FieldValue) bool {
		row := []string{name, value.Masked(), string(value.Kind)}
		if a.cfg.OutputIncludeConfidence {
			row = append(row, strconv.FormatFloat(value.Confidence, 'f', 2, 64))
		}
		if err := w.Write(row); err != nil {
			writeErr = err
			return false
		}
		return true
	})
	if writeErr != nil {
		return "", writeErr
	}
	w.Flush()
	return b.String(), w.Error()
}

func (a *Agent) exportMarkdown(doc *forms.FormDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.SourceID)
	if doc.SchemaType != "" {
		fmt.Fprintf(&b, "Detected form type: **%s** (%.0f%% confidence)\n\n",
			doc.SchemaType, doc.SchemaConfidence*100)
	}

	if doc.Fields.Len() > 0 {
		b.WriteString("## Fields\n\n")
		if a.cfg.OutputIncludeConfidence {
			b.WriteString("| Name | Value | Kind | Confidence |\n|---|---|---|---|\n")
		} else {
			b.WriteString("| Name | Value | Kind |\n|---|---|---|\n")
		}
		doc.Fields.Range(func(name string, value forms.FieldValue) bool {
			if a.cfg.OutputIncludeConfidence {
				fmt.Fprintf(&b, "| %s | %s | %s | %.2f |\n", name, value.Masked(), value.Kind, value.Confidence)
			} else {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", name, value.Masked(), value.Kind)
			}
			return true
		})
		b.WriteString("\n")
	}

	for i, table := range doc.Tables {
		fmt.Fprintf(&b, "## Table %d (%s)\n\n", i+1, table.TableType)
		b.WriteString(tableparse.ToMarkdown(table))
		b.WriteString("\n")
	}
	return b.String()
}
