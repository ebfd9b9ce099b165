package summarize

import (
	"fmt"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

const (
	StyleBulletPoints = "bullet_points"
	StyleNarrative    = "narrative"
)

// styleRenderers maps a style name to its FullText renderer. Adding a
// style means adding an entry here, nothing else changes.
var styleRenderers = map[string]func(forms.Summary) string{
	StyleBulletPoints: renderBullets,
	StyleNarrative:    renderNarrative,
}

func (s *Summarizer) render(summary forms.Summary) string {
	renderer, ok := styleRenderers[s.cfg.Style]
	if !ok {
		renderer = renderBullets
	}
	text := renderer(summary)
	if s.cfg.MaxLength > 0 && len(text) > s.cfg.MaxLength {
		text = text[:s.cfg.MaxLength]
	}
	return text
}

func renderBullets(summary forms.Summary) string {
	var lines []string
	lines = append(lines, "SUMMARY: "+titleize(summary.FormType), "")

	if len(summary.Highlights) > 0 {
		lines = append(lines, "KEY INFORMATION:")
		for _, h := range summary.Highlights {
			lines = append(lines, "- "+h)
		}
		lines = append(lines, "")
	}

	var extra []string
	for _, fact := range summary.KeyInformation {
		line := renderFact(fact)
		if containsLine(summary.Highlights, line) {
			continue
		}
		extra = append(extra, "- "+line)
		if len(extra) >= 5 {
			break
		}
	}
	if len(extra) > 0 {
		lines = append(lines, "ADDITIONAL DETAILS:")
		lines = append(lines, extra...)
		lines = append(lines, "")
	}

	if len(summary.NotableItems) > 0 {
		lines = append(lines, "NOTABLE ITEMS:")
		for _, n := range summary.NotableItems {
			lines = append(lines, "- "+n)
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func renderNarrative(summary forms.Summary) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("This %s contains the following information.", titleize(summary.FormType)))

	for _, h := range summary.Highlights {
		if name, value, ok := strings.Cut(h, ":"); ok {
			parts = append(parts, fmt.Sprintf("The %s is %s.", strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(value)))
		}
	}

	if len(summary.NotableItems) > 0 {
		parts = append(parts, "Additionally, "+lowerFirst(summary.NotableItems[0])+".")
		if len(summary.NotableItems) > 1 {
			parts = append(parts, "Note that "+lowerFirst(summary.NotableItems[1])+".")
		}
	}
	return strings.Join(parts, " ")
}

// SummarizeMultiple renders a combined report over a document set:
// per-document compact highlights followed by cross-form observations.
func (s *Summarizer) SummarizeMultiple(docs []*forms.FormDocument) (string, error) {
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: no documents", forms.ErrInvalidInput)
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("MULTI-FORM SUMMARY (%d forms)", len(docs)))
	lines = append(lines, strings.Repeat("=", 40), "")

	var types []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		t := doc.SchemaType
		if t == "" {
			t = "unknown"
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	lines = append(lines, "Form Types: "+strings.Join(types, ", "), "")

	for i, doc := range docs {
		summary, err := s.Summarize(doc)
		if err != nil {
			return "", fmt.Errorf("failed to summarize %s: %w", doc.SourceID, err)
		}
		lines = append(lines, fmt.Sprintf("--- Form %d: %s ---", i+1, doc.SourceID))
		for j, h := range summary.Highlights {
			if j >= 3 {
				break
			}
			lines = append(lines, "  - "+h)
		}
		lines = append(lines, "")
	}

	lines = append(lines, "CROSS-FORM INSIGHTS:")
	if common := commonFieldNames(docs); len(common) > 0 {
		if len(common) > 5 {
			common = common[:5]
		}
		lines = append(lines, "- Common fields: "+strings.Join(common, ", "))
	}
	for _, line := range numericTotals(docs) {
		lines = append(lines, "- "+line)
	}

	return strings.Join(lines, "\n"), nil
}

// commonFieldNames intersects field names across all documents, keeping
// the first document's order.
func commonFieldNames(docs []*forms.FormDocument) []string {
	if len(docs) == 0 || docs[0].Fields == nil {
		return nil
	}
	var common []string
	docs[0].Fields.Range(func(name string, _ forms.FieldValue) bool {
		for _, doc := range docs[1:] {
			if doc.Fields == nil {
				return true
			}
			if _, ok := doc.Fields.Get(name); !ok {
				return true
			}
		}
		common = append(common, name)
		return true
	})
	return common
}

// numericTotals reports sum and average for fields numeric in more than
// one document, in first-seen order.
func numericTotals(docs []*forms.FormDocument) []string {
	var order []string
	values := make(map[string][]float64)
	for _, doc := range docs {
		if doc.Fields == nil {
			continue
		}
		doc.Fields.Range(func(name string, value forms.FieldValue) bool {
			if !value.Kind.IsNumeric() {
				return true
			}
			if _, ok := values[name]; !ok {
				order = append(order, name)
			}
			values[name] = append(values[name], value.Number)
			return true
		})
	}

	var out []string
	for _, name := range order {
		vals := values[name]
		if len(vals) < 2 {
			continue
		}
		var sum float64
		for _, v := range vals {
			sum += v
		}
		out = append(out, fmt.Sprintf("%s: Total=%.2f, Avg=%.2f", name, sum, sum/float64(len(vals))))
	}
	return out
}

func containsLine(haystack []string, line string) bool {
	for _, h := range haystack {
		if h == line {
			return true
		}
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
