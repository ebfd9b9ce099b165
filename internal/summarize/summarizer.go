package summarize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/schema"
)

// Config tunes summary generation. Style only affects the FullText
// rendering; the structured members are the same regardless of style.
type Config struct {
	Style           string
	MaxLength       int
	MinLength       int
	MaxKeyFields    int
	MaxHighlights   int
	MaxNotableItems int
	LowConfidence   float64
}

// DefaultConfig matches the standard summary shape.
func DefaultConfig() Config {
	return Config{
		Style:           StyleBulletPoints,
		MaxLength:       500,
		MinLength:       100,
		MaxKeyFields:    10,
		MaxHighlights:   4,
		MaxNotableItems: 5,
		LowConfidence:   0.5,
	}
}

// priorityFields ranks field-name terms by form category when the schema
// is unknown or carries no expected-field list.
var priorityFields = map[string][]string{
	"tax":        {"name", "ssn", "wages", "income", "tax", "withheld", "ein", "employer"},
	"medical":    {"patient", "date", "diagnosis", "provider", "amount", "policy", "claim"},
	"employment": {"name", "position", "salary", "department", "start", "manager"},
	"financial":  {"name", "amount", "loan", "income", "assets", "account"},
	"legal":      {"parties", "date", "term", "amount", "effective"},
	"generic":    {"name", "date", "amount", "total", "number", "id"},
}

// Summarizer renders structured summaries of parsed documents.
type Summarizer struct {
	cfg      Config
	detector *schema.Detector
}

// NewSummarizer builds a summarizer with default settings over the
// built-in schema registry.
func NewSummarizer() *Summarizer {
	return NewSummarizerWith(schema.NewDetector(), DefaultConfig())
}

// NewSummarizerWith builds a summarizer over an explicit detector and
// config.
func NewSummarizerWith(detector *schema.Detector, cfg Config) *Summarizer {
	if detector == nil {
		detector = schema.NewDetector()
	}
	def := DefaultConfig()
	if cfg.MaxKeyFields <= 0 {
		cfg.MaxKeyFields = def.MaxKeyFields
	}
	if cfg.MaxHighlights <= 0 {
		cfg.MaxHighlights = def.MaxHighlights
	}
	if cfg.MaxNotableItems <= 0 {
		cfg.MaxNotableItems = def.MaxNotableItems
	}
	if cfg.LowConfidence <= 0 {
		cfg.LowConfidence = def.LowConfidence
	}
	if cfg.Style == "" {
		cfg.Style = def.Style
	}
	return &Summarizer{cfg: cfg, detector: detector}
}

// Summarize builds the structured summary of one document.
func (s *Summarizer) Summarize(doc *forms.FormDocument) (forms.Summary, error) {
	if doc == nil {
		return forms.Summary{}, fmt.Errorf("%w: nil document", forms.ErrInvalidInput)
	}

	formType := doc.SchemaType
	if formType == "" {
		formType = "unknown"
	}
	category := s.category(doc.SchemaType)

	keyInfo := s.keyInformation(doc, category)
	highlights := s.highlights(keyInfo)
	notable := s.notableItems(doc)

	summary := forms.Summary{
		FormType:       formType,
		KeyInformation: keyInfo,
		Highlights:     highlights,
		NotableItems:   notable,
	}
	summary.FullText = s.render(summary)
	return summary, nil
}

func (s *Summarizer) category(schemaType string) string {
	if schemaType == "" {
		return "generic"
	}
	def, err := s.detector.Registry().Get(schemaType)
	if err != nil {
		return "generic"
	}
	return def.Category
}

// keyInformation selects the fields worth surfacing. A detected schema
// drives selection through its expected-field list; otherwise the highest
// confidence fields win. Either way document field order is preserved
// within the selection.
func (s *Summarizer) keyInformation(doc *forms.FormDocument, category string) []forms.KeyFact {
	if doc.Fields == nil || doc.Fields.Len() == 0 {
		return nil
	}

	if doc.SchemaType != "" {
		if expected := s.detector.ExpectedFields(doc.SchemaType); len(expected) > 0 {
			return factsFromExpected(doc.Fields, expected, s.cfg.MaxKeyFields)
		}
	}

	priority := priorityFields[category]
	if priority == nil {
		priority = priorityFields["generic"]
	}
	return factsByConfidence(doc.Fields, priority, s.cfg.MaxKeyFields)
}

// factsFromExpected walks the schema's expected fields in order, filling
// each from the document and skipping absences.
func factsFromExpected(fields *forms.FieldSet, expected []string, limit int) []forms.KeyFact {
	var facts []forms.KeyFact
	used := make(map[string]bool)
	for _, want := range expected {
		name, value, ok := lookupFuzzy(fields, want, used)
		if !ok {
			continue
		}
		used[name] = true
		facts = append(facts, newFact(name, value))
		if len(facts) >= limit {
			break
		}
	}
	return facts
}

func factsByConfidence(fields *forms.FieldSet, priority []string, limit int) []forms.KeyFact {
	type scored struct {
		name  string
		value forms.FieldValue
		score float64
		order int
	}
	var all []scored
	idx := 0
	fields.Range(func(name string, value forms.FieldValue) bool {
		score := value.Confidence
		lower := strings.ToLower(name)
		for _, p := range priority {
			if strings.Contains(lower, p) {
				score += 0.5
				break
			}
		}
		if value.Kind == forms.FieldKindCurrency || value.Kind == forms.FieldKindDate {
			score += 0.25
		}
		all = append(all, scored{name: name, value: value, score: score, order: idx})
		idx++
		return true
	})

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > limit {
		all = all[:limit]
	}
	// Re-sort the winners back into document order.
	sort.Slice(all, func(i, j int) bool { return all[i].order < all[j].order })

	facts := make([]forms.KeyFact, 0, len(all))
	for _, s := range all {
		facts = append(facts, newFact(s.name, s.value))
	}
	return facts
}

func newFact(name string, value forms.FieldValue) forms.KeyFact {
	display := value.Raw
	if value.Kind == forms.FieldKindSSN {
		display = value.Masked()
	}
	return forms.KeyFact{Name: name, Value: display, Kind: value.Kind}
}

// lookupFuzzy matches an expected field name against document fields,
// accepting exact matches first and substring containment second.
func lookupFuzzy(fields *forms.FieldSet, want string, used map[string]bool) (string, forms.FieldValue, bool) {
	if value, ok := fields.Get(want); ok && !used[want] {
		return want, value, true
	}
	wantLower := strings.ToLower(want)
	var foundName string
	var foundValue forms.FieldValue
	fields.Range(func(name string, value forms.FieldValue) bool {
		if used[name] {
			return true
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, wantLower) || strings.Contains(wantLower, lower) {
			foundName = name
			foundValue = value
			return false
		}
		return true
	})
	return foundName, foundValue, foundName != ""
}

var identityTerms = []string{"name", "applicant", "employee", "patient", "customer"}
var referenceTerms = []string{"id", "number", "ssn", "ein", "policy", "account"}
var amountTerms = []string{"total", "amount", "wage", "salary", "income", "payment"}

// highlights builds short declarative statements, at most one per slot:
// identity, reference number, date, and amount.
func (s *Summarizer) highlights(facts []forms.KeyFact) []string {
	var out []string
	used := make(map[int]bool)
	take := func(pred func(forms.KeyFact) bool) {
		if len(out) >= s.cfg.MaxHighlights {
			return
		}
		for i, f := range facts {
			if used[i] {
				continue
			}
			if pred(f) {
				used[i] = true
				out = append(out, renderFact(f))
				return
			}
		}
	}

	take(func(f forms.KeyFact) bool { return nameHasAny(f.Name, identityTerms) })
	take(func(f forms.KeyFact) bool { return nameHasAny(f.Name, referenceTerms) || f.Kind == forms.FieldKindSSN })
	take(func(f forms.KeyFact) bool { return f.Kind == forms.FieldKindDate || strings.Contains(strings.ToLower(f.Name), "date") })
	take(func(f forms.KeyFact) bool { return f.Kind == forms.FieldKindCurrency || nameHasAny(f.Name, amountTerms) })
	return out
}

// renderFact formats one highlight line by field kind.
func renderFact(f forms.KeyFact) string {
	switch f.Kind {
	case forms.FieldKindCheckbox:
		state := "not selected"
		if strings.EqualFold(f.Value, "checked") || strings.EqualFold(f.Value, "true") {
			state = "selected"
		}
		return fmt.Sprintf("%s: %s", f.Name, state)
	default:
		return fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
}

func (s *Summarizer) notableItems(doc *forms.FormDocument) []string {
	var notable []string

	if n := len(doc.Tables); n > 0 {
		notable = append(notable, fmt.Sprintf("Contains %d table(s)", n))
	}

	var checked []string
	var uncertain []string
	if doc.Fields != nil {
		doc.Fields.Range(func(name string, value forms.FieldValue) bool {
			if value.Kind == forms.FieldKindCheckbox && value.Checked {
				checked = append(checked, name)
			}
			if value.Confidence > 0 && value.Confidence < s.cfg.LowConfidence {
				uncertain = append(uncertain, name)
			}
			return true
		})
	}
	if len(checked) > 0 {
		if len(checked) > 3 {
			checked = checked[:3]
		}
		notable = append(notable, "Selected: "+strings.Join(checked, ", "))
	}
	for _, name := range uncertain {
		notable = append(notable, "Uncertain value for "+name)
	}

	if doc.ExtractionConfidence > 0 && doc.ExtractionConfidence < s.cfg.LowConfidence {
		notable = append(notable, "Low extraction confidence, manual review recommended")
	}
	if doc.SchemaType != "" {
		notable = append(notable, "Identified as: "+titleize(doc.SchemaType))
	}

	text := strings.ToLower(doc.RawText)
	if strings.Contains(text, "signature") {
		notable = append(notable, "Contains signature field")
	}
	if strings.Contains(text, "deadline") || strings.Contains(text, "due date") {
		notable = append(notable, "Has deadline/due date")
	}
	if strings.Contains(text, "authorization number") || strings.Contains(text, "reference number") {
		notable = append(notable, "Carries an authorization/reference number")
	}

	if len(notable) > s.cfg.MaxNotableItems {
		notable = notable[:s.cfg.MaxNotableItems]
	}
	return notable
}

func titleize(schemaType string) string {
	words := strings.Split(strings.ReplaceAll(schemaType, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func nameHasAny(name string, terms []string) bool {
	lower := strings.ToLower(name)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
