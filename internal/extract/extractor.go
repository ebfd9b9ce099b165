package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// Result is the raw material handed to the parsing pipeline: plain text,
// any row grids found in the source, and format metadata.
type Result struct {
	Text       string
	Tables     [][][]string
	AcroFields []AcroField
	Metadata   map[string]string
	Kind       forms.FileKind
}

// Extractor pulls text and raw tables out of one source format.
type Extractor interface {
	Extract(path string) (*Result, error)
}

// SupportedExtensions lists file extensions the pipeline can ingest.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".txt":      true,
	".text":     true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".json":     true,
}

// ForPath returns the extractor for a filename by extension.
func ForPath(path string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFExtractor(), nil
	case ".txt", ".text":
		return &TextExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".json":
		return &JSONExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", forms.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// IsSupported checks whether a filename has an ingestible extension.
func IsSupported(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}
