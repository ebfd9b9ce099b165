package fieldparse

import (
	"regexp"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// PatternRule is one entry of the ordered field-extraction rule table.
// Rules are evaluated in priority order (lower Priority first) so that
// specialized patterns claim their spans before the generic ones run.
type PatternRule struct {
	Name     string
	Kind     forms.FieldKind // kind implied by the rule itself; empty means infer from the value
	Pattern  *regexp.Regexp
	Base     float64 // base confidence before adjustments
	Priority int
	Checked  bool // for checkbox rules: whether a match means the box is selected
}

// defaultRules returns the rule table in evaluation order. Checkbox and
// selection patterns run before the generic label/value forms so a checked
// option line is not also claimed as a "[x" label.
func defaultRules() []PatternRule {
	return []PatternRule{
		{
			Name:     "checkbox_checked",
			Kind:     forms.FieldKindCheckbox,
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*(?:\[[ \t]*[xX✓✔][ \t]*\]|☑|\([xX✓✔]\))[ \t]*(\S[^\n]{0,98}?)[ \t]*$`),
			Base:     0.7,
			Priority: 1,
			Checked:  true,
		},
		{
			Name:     "checkbox_unchecked",
			Kind:     forms.FieldKindCheckbox,
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*(?:\[[ \t]*\]|☐|\([ \t]*\))[ \t]*(\S[^\n]{0,98}?)[ \t]*$`),
			Base:     0.7,
			Priority: 2,
		},
		{
			Name:     "numbered_label_colon",
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]*([A-Za-z][A-Za-z0-9 ]{1,48}?):[ \t]*(\S[^\n]*)$`),
			Base:     0.55,
			Priority: 3,
		},
		{
			Name:     "label_colon",
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z0-9 \-_/()]{0,48}?):[ \t]*(\S[^\n]*)$`),
			Base:     0.5,
			Priority: 4,
		},
		{
			Name:     "label_equals",
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z0-9 _]{1,48}?)[ \t]*=[ \t]*(\S[^\n]*)$`),
			Base:     0.5,
			Priority: 5,
		},
		{
			Name:     "label_dash",
			Pattern:  regexp.MustCompile(`(?m)^[ \t]*([A-Za-z][A-Za-z0-9 _]{1,48}?)[ \t]*[-–—][ \t]*(\S[^\n]*)$`),
			Base:     0.45,
			Priority: 6,
		},
	}
}

// Standalone value detectors, applied to the whole text independently of
// label rules. The SSN pattern is anchored on word boundaries so it does not
// fire inside longer digit runs.
var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(?:\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`)
	ssnPattern   = regexp.MustCompile(`\b\d{3}[-\s]\d{2}[-\s]\d{4}\b`)

	currencyPattern = regexp.MustCompile(`^\$[\d,]+(?:\.\d{2})?$|^\d+(?:,\d{3})*(?:\.\d{2})?\s*(?:USD|EUR|GBP|dollars?)$`)
	numberPattern   = regexp.MustCompile(`^-?\d+(?:,\d{3})*(?:\.\d+)?$`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d{4}[/-]\d{1,2}[/-]\d{1,2}`),
		regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`),
		regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`),
		regexp.MustCompile(`(?i)\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}`),
	}

	// label immediately preceding a bare date, e.g. "Issued 01/15/2024"
	dateContextPattern = regexp.MustCompile(`([A-Za-z]+(?:\s+[A-Za-z]+)?)\s*[:\-]?\s*$`)
)

// Field names that carry extra weight during confidence scoring.
var commonFieldTerms = []string{
	"name", "date", "address", "phone", "email", "ssn", "dob",
	"number", "amount", "total", "id", "signature", "account",
	"income", "wage", "salary", "charge",
}

// Generic labels too vague to be fields on their own.
var genericLabels = map[string]bool{
	"a": true, "b": true, "c": true, "i": true, "ii": true, "iii": true,
	"the": true, "and": true, "or": true, "if": true, "note": true,
}
