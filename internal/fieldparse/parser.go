// Package fieldparse turns raw form text into named, typed, confidence-scored
// fields using an ordered table of pattern rules.
package fieldparse

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// DefaultConfidenceThreshold is the cutoff below which Parse drops a match.
const DefaultConfidenceThreshold = 0.3

// FieldMatch is a single candidate field located in the text.
type FieldMatch struct {
	Name       string
	Value      forms.FieldValue
	Confidence float64
	Position   int // byte offset of the match start
	End        int // byte offset just past the match
	Rule       string
}

// Parser extracts key-value fields from linearized form text.
type Parser struct {
	rules     []PatternRule
	threshold float64
}

// NewParser creates a parser with the default rule table and threshold.
func NewParser() *Parser {
	return NewParserWithThreshold(DefaultConfidenceThreshold)
}

// NewParserWithThreshold creates a parser that excludes matches below the
// given confidence from Parse results.
func NewParserWithThreshold(threshold float64) *Parser {
	return &Parser{rules: defaultRules(), threshold: threshold}
}

// Parse extracts fields above the confidence threshold. Matches below the
// threshold are dropped here but still visible via ParseWithConfidence.
func (p *Parser) Parse(text string) (*forms.FieldSet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty document text", forms.ErrInvalidInput)
	}

	fields := forms.NewFieldSet()
	for _, m := range p.ParseWithConfidence(text) {
		if m.Confidence < p.threshold {
			continue
		}
		fields.Set(m.Name, m.Value)
	}
	return fields, nil
}

// ParseWithConfidence extracts every candidate field with its confidence,
// in discovery order. Overlapping label-rule matches are resolved by
// longest-match-wins, then by rule priority.
func (p *Parser) ParseWithConfidence(text string) []FieldMatch {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	matches := p.matchRules(text)
	matches = resolveOverlaps(matches)

	matches = append(matches, p.matchSpecialValues(text)...)
	matches = append(matches, p.matchContextDates(text)...)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})
	return matches
}

// matchRules runs the ordered rule table over the text.
func (p *Parser) matchRules(text string) []FieldMatch {
	var out []FieldMatch

	for _, rule := range p.rules {
		for _, idx := range rule.Pattern.FindAllStringSubmatchIndex(text, -1) {
			m := p.buildMatch(rule, text, idx)
			if m != nil {
				out = append(out, *m)
			}
		}
	}
	return out
}

func (p *Parser) buildMatch(rule PatternRule, text string, idx []int) *FieldMatch {
	start, end := idx[0], idx[1]

	if rule.Kind == forms.FieldKindCheckbox {
		option := strings.TrimSpace(text[idx[2]:idx[3]])
		if option == "" {
			return nil
		}
		raw := "unchecked"
		if rule.Checked {
			raw = "checked"
		}
		return &FieldMatch{
			Name: option,
			Value: forms.FieldValue{
				Raw:        raw,
				Kind:       forms.FieldKindCheckbox,
				Checked:    rule.Checked,
				Confidence: rule.Base,
				Position:   start,
			},
			Confidence: rule.Base,
			Position:   start,
			End:        end,
			Rule:       rule.Name,
		}
	}

	name := normalizeName(text[idx[2]:idx[3]])
	value := strings.TrimSpace(text[idx[4]:idx[5]])
	if name == "" || value == "" || len(value) > 500 {
		return nil
	}
	if genericLabels[strings.ToLower(name)] {
		return nil
	}

	kind, number := typeValue(value)
	confidence := adjustConfidence(rule.Base, name, value, kind)

	return &FieldMatch{
		Name: name,
		Value: forms.FieldValue{
			Raw:        value,
			Kind:       kind,
			Number:     number,
			Confidence: confidence,
			Position:   start,
		},
		Confidence: confidence,
		Position:   start,
		End:        end,
		Rule:       rule.Name,
	}
}

// resolveOverlaps keeps at most one rule match per text span. Longer matches
// win; equal lengths fall back to rule order, which encodes priority.
func resolveOverlaps(matches []FieldMatch) []FieldMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Position != matches[j].Position {
			return matches[i].Position < matches[j].Position
		}
		return (matches[i].End - matches[i].Position) > (matches[j].End - matches[j].Position)
	})

	var out []FieldMatch
	claimedEnd := -1
	for _, m := range matches {
		if m.Position < claimedEnd {
			continue
		}
		out = append(out, m)
		claimedEnd = m.End
	}
	return out
}

// matchSpecialValues finds unlabeled emails, phone numbers and SSNs and
// assigns them synthesized names, numbering repeats.
func (p *Parser) matchSpecialValues(text string) []FieldMatch {
	var out []FieldMatch

	out = append(out, namedValueMatches(text, emailPattern, "Email", forms.FieldKindEmail, 0.8)...)
	out = append(out, namedValueMatches(text, phonePattern, "Phone", forms.FieldKindPhone, 0.7)...)
	out = append(out, namedValueMatches(text, ssnPattern, "SSN", forms.FieldKindSSN, 0.85)...)
	return out
}

func namedValueMatches(text string, re *regexp.Regexp, baseName string, kind forms.FieldKind, confidence float64) []FieldMatch {
	locs := re.FindAllStringIndex(text, -1)
	out := make([]FieldMatch, 0, len(locs))
	for i, loc := range locs {
		name := baseName
		if len(locs) > 1 {
			name = fmt.Sprintf("%s %d", baseName, i+1)
		}
		out = append(out, FieldMatch{
			Name: name,
			Value: forms.FieldValue{
				Raw:        text[loc[0]:loc[1]],
				Kind:       kind,
				Confidence: confidence,
				Position:   loc[0],
			},
			Confidence: confidence,
			Position:   loc[0],
			End:        loc[1],
			Rule:       "special_" + string(kind),
		})
	}
	return out
}

// matchContextDates finds bare dates and labels them from the words
// immediately before the match.
func (p *Parser) matchContextDates(text string) []FieldMatch {
	var out []FieldMatch
	skipLabels := map[string]bool{"on": true, "of": true, "the": true, "at": true, "by": true}

	for _, re := range datePatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start := loc[0] - 50
			if start < 0 {
				start = 0
			}
			context := strings.TrimRight(text[start:loc[0]], " \t")
			label := dateContextPattern.FindStringSubmatch(context)
			if label == nil {
				continue
			}
			name := strings.TrimSpace(label[1])
			if name == "" || skipLabels[strings.ToLower(name)] {
				continue
			}
			if !strings.Contains(strings.ToLower(name), "date") {
				name += " Date"
			}
			value := text[loc[0]:loc[1]]
			out = append(out, FieldMatch{
				Name: name,
				Value: forms.FieldValue{
					Raw:        value,
					Kind:       forms.FieldKindDate,
					Confidence: 0.6,
					Position:   loc[0],
				},
				Confidence: 0.6,
				Position:   loc[0],
				End:        loc[1],
				Rule:       "context_date",
			})
		}
	}
	return out
}

// normalizeName collapses whitespace in a field label.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// typeValue infers the tagged kind of a value and, for numeric kinds, its
// parsed number. Specialized formats are checked before the generic number
// form so "123-45-6789" is an SSN, not arithmetic.
// TypeValue infers the field kind and numeric value for a raw string,
// for callers that obtain values outside the pattern pipeline (interactive
// PDF form fields, structured imports).
func TypeValue(value string) (forms.FieldKind, float64) {
	return typeValue(value)
}

func typeValue(value string) (forms.FieldKind, float64) {
	switch {
	case currencyPattern.MatchString(value):
		return forms.FieldKindCurrency, parseNumeric(value)
	case ssnPattern.MatchString(value) && ssnDigitCount(value):
		return forms.FieldKindSSN, 0
	case emailPattern.MatchString(value):
		return forms.FieldKindEmail, 0
	case isDate(value):
		return forms.FieldKindDate, 0
	case phonePattern.MatchString(value):
		return forms.FieldKindPhone, 0
	case numberPattern.MatchString(value):
		return forms.FieldKindNumber, parseNumeric(value)
	default:
		return forms.FieldKindText, 0
	}
}

func isDate(value string) bool {
	for _, re := range datePatterns {
		if loc := re.FindStringIndex(value); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

// ssnDigitCount verifies the 3-2-4 digit structure.
func ssnDigitCount(value string) bool {
	count := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			count++
		}
	}
	return count == 9
}

func parseNumeric(value string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, value)
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return n
}

// adjustConfidence applies the scoring adjustments to a rule's base
// confidence: name and value plausibility, recognized field vocabulary,
// and a bonus when the value parses as a recognized format.
func adjustConfidence(base float64, name, value string, kind forms.FieldKind) float64 {
	confidence := base

	if len(name) > 2 && len(name) < 50 {
		confidence += 0.1
	}
	if len(value) > 1 && len(value) < 200 {
		confidence += 0.1
	}

	nameLower := strings.ToLower(name)
	for _, term := range commonFieldTerms {
		if strings.Contains(nameLower, term) {
			confidence += 0.2
			break
		}
	}

	if kind != forms.FieldKindText {
		confidence += 0.1
	}
	if len(value) > 200 {
		confidence -= 0.2
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < 0.0 {
		confidence = 0.0
	}
	return confidence
}

// ExtractionConfidence aggregates field confidences with text quality into
// the document-level score.
func ExtractionConfidence(fields *forms.FieldSet, rawText string) float64 {
	if len(rawText) == 0 {
		return 0.0
	}

	textQuality := float64(len(rawText)) / 500.0
	if textQuality > 1.0 {
		textQuality = 1.0
	}

	fieldBoost := float64(fields.Len()) * 0.03
	if fieldBoost > 0.3 {
		fieldBoost = 0.3
	}

	alpha := 0
	for _, r := range rawText {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			alpha++
		}
	}
	qualityFactor := 2.0 * float64(alpha) / float64(len(rawText))
	if qualityFactor > 1.0 {
		qualityFactor = 1.0
	}

	confidence := textQuality*0.4 + fieldBoost + qualityFactor*0.3
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
