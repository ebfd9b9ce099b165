package schema

import (
	"sort"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

const (
	// DefaultConfidenceFloor is the minimum confidence for a detection to
	// be reported at all. Below it a document stays unclassified.
	DefaultConfidenceFloor = 0.25

	requiredWeight = 0.7
	optionalWeight = 0.3
)

// Match is one scored schema candidate.
type Match struct {
	SchemaID          string   `json:"schemaId"`
	Category          string   `json:"category"`
	Confidence        float64  `json:"confidence"`
	MatchedIndicators []string `json:"matchedIndicators,omitempty"`
}

// Detector classifies documents against a schema registry by matching
// indicator phrases in the extracted text and field names.
type Detector struct {
	registry *Registry
	floor    float64
}

// NewDetector builds a detector over the built-in registry.
func NewDetector() *Detector {
	return NewDetectorWithRegistry(NewRegistry())
}

// NewDetectorWithRegistry builds a detector over a caller-supplied registry.
func NewDetectorWithRegistry(registry *Registry) *Detector {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Detector{registry: registry, floor: DefaultConfidenceFloor}
}

// SetConfidenceFloor overrides the minimum reportable confidence.
func (d *Detector) SetConfidenceFloor(floor float64) {
	if floor >= 0 && floor <= 1 {
		d.floor = floor
	}
}

// Registry returns the registry the detector scores against.
func (d *Detector) Registry() *Registry {
	return d.registry
}

// Detect returns the best schema id for a document, or the empty string
// when nothing clears the confidence floor.
func (d *Detector) Detect(text string, fields *forms.FieldSet) string {
	match, ok := d.DetectWithConfidence(text, fields)
	if !ok {
		return ""
	}
	return match.SchemaID
}

// DetectWithConfidence returns the single best candidate and whether it
// cleared the confidence floor. Ties resolve to the earlier registry entry.
func (d *Detector) DetectWithConfidence(text string, fields *forms.FieldSet) (Match, bool) {
	var best Match
	haystack := buildHaystack(text, fields)

	for _, def := range d.registry.defs {
		match, ok := scoreDefinition(def, haystack)
		if !ok {
			continue
		}
		if match.Confidence > best.Confidence {
			best = match
		}
	}

	if best.Confidence < d.floor || best.SchemaID == "" {
		return Match{}, false
	}
	return best, true
}

// DetectAll returns every candidate clearing the confidence floor, ordered
// by descending confidence with registry order breaking ties.
func (d *Detector) DetectAll(text string, fields *forms.FieldSet) []Match {
	haystack := buildHaystack(text, fields)

	var matches []Match
	for _, def := range d.registry.defs {
		match, ok := scoreDefinition(def, haystack)
		if !ok || match.Confidence < d.floor {
			continue
		}
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// ExpectedFields returns the canonical field list for a schema id, empty
// when the schema is not registered.
func (d *Detector) ExpectedFields(schemaID string) []string {
	return d.registry.ExpectedFields(schemaID)
}

// Validate reports how completely a field set covers a schema's expected
// fields. It returns the coverage ratio and the expected fields that are
// missing, matching field names case-insensitively.
func (d *Detector) Validate(schemaID string, fields *forms.FieldSet) (float64, []string, error) {
	def, err := d.registry.Get(schemaID)
	if err != nil {
		return 0, nil, err
	}
	if len(def.ExpectedFields) == 0 {
		return 1, nil, nil
	}

	present := make(map[string]bool)
	if fields != nil {
		fields.Range(func(name string, _ forms.FieldValue) bool {
			present[strings.ToLower(strings.TrimSpace(name))] = true
			return true
		})
	}

	var missing []string
	found := 0
	for _, expected := range def.ExpectedFields {
		if matchesExpected(present, expected) {
			found++
		} else {
			missing = append(missing, expected)
		}
	}
	return float64(found) / float64(len(def.ExpectedFields)), missing, nil
}

// matchesExpected accepts a field either by exact normalized name or by
// substring containment in either direction, so "Employee SSN" satisfies an
// expected "SSN".
func matchesExpected(present map[string]bool, expected string) bool {
	want := strings.ToLower(strings.TrimSpace(expected))
	if present[want] {
		return true
	}
	for name := range present {
		if strings.Contains(name, want) || strings.Contains(want, name) {
			return true
		}
	}
	return false
}

func scoreDefinition(def Definition, haystack string) (Match, bool) {
	if len(def.RequiredIndicators) == 0 {
		return Match{}, false
	}

	var matched []string
	requiredHits := 0
	for _, ind := range def.RequiredIndicators {
		if strings.Contains(haystack, strings.ToLower(ind)) {
			requiredHits++
			matched = append(matched, ind)
		}
	}
	if requiredHits == 0 {
		return Match{}, false
	}

	optionalHits := 0
	for _, ind := range def.OptionalIndicators {
		if strings.Contains(haystack, strings.ToLower(ind)) {
			optionalHits++
			matched = append(matched, ind)
		}
	}

	confidence := requiredWeight * float64(requiredHits) / float64(len(def.RequiredIndicators))
	if len(def.OptionalIndicators) > 0 {
		confidence += optionalWeight * float64(optionalHits) / float64(len(def.OptionalIndicators))
	} else if requiredHits == len(def.RequiredIndicators) {
		confidence += optionalWeight
	}
	if confidence > 1 {
		confidence = 1
	}

	return Match{
		SchemaID:          def.SchemaID,
		Category:          def.Category,
		Confidence:        confidence,
		MatchedIndicators: matched,
	}, true
}

// buildHaystack folds the document text, field names, and field values into
// one lowercase string for indicator matching.
func buildHaystack(text string, fields *forms.FieldSet) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(text))
	if fields != nil {
		fields.Range(func(name string, value forms.FieldValue) bool {
			b.WriteByte('\n')
			b.WriteString(strings.ToLower(name))
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(value.Raw))
			return true
		})
	}
	return b.String()
}
