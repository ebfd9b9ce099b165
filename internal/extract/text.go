package extract

import (
	"fmt"
	"os"
	"strconv"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// TextExtractor reads plain text files verbatim.
type TextExtractor struct{}

func (e *TextExtractor) Extract(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	return &Result{
		Text: string(data),
		Kind: forms.FileKindText,
		Metadata: map[string]string{
			"size_bytes": strconv.Itoa(len(data)),
		},
	}, nil
}
