package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/qa"
)

// Aggregator runs cross-document analysis and pairwise comparison.
type Aggregator struct {
	engine *qa.Engine
}

// NewAggregator builds an aggregator. The QA engine answers the optional
// free-form question passed to Analyze.
func NewAggregator(engine *qa.Engine) *Aggregator {
	if engine == nil {
		engine = qa.NewEngine()
	}
	return &Aggregator{engine: engine}
}

// Analyze computes structure and numeric statistics over a document set.
// When question is non-empty the answer comes from the QA engine's
// multi-document path over the same documents.
func (a *Aggregator) Analyze(ctx context.Context, docs []*forms.FormDocument, question string) (forms.AnalysisResult, error) {
	if len(docs) == 0 {
		return forms.AnalysisResult{}, fmt.Errorf("%w: no documents", forms.ErrInvalidInput)
	}

	result := forms.AnalysisResult{
		DocumentCount:   len(docs),
		CommonFields:    commonFields(docs),
		SchemaTypes:     schemaTypes(docs),
		FieldStatistics: fieldStatistics(docs),
	}
	result.Insights = insights(docs, result)

	if strings.TrimSpace(question) != "" {
		answer, err := a.engine.AskMultiple(ctx, question, docs)
		if err != nil {
			return forms.AnalysisResult{}, fmt.Errorf("failed to answer analysis question: %w", err)
		}
		result.Answer = answer.Answer
	}
	return result, nil
}

// Compare diffs two documents field by field. Comparing a document with
// itself reports a schema match even when no schema was detected;
// otherwise undetected schemas never count as matching.
func (a *Aggregator) Compare(docA, docB *forms.FormDocument) (forms.ComparisonResult, error) {
	if docA == nil || docB == nil {
		return forms.ComparisonResult{}, fmt.Errorf("%w: nil document", forms.ErrInvalidInput)
	}

	result := forms.ComparisonResult{
		CommonFields: []string{},
		OnlyInFirst:  []string{},
		OnlyInSecond: []string{},
		Differences:  map[string]forms.ValuePair{},
	}

	if docA.Fields != nil {
		docA.Fields.Range(func(name string, valueA forms.FieldValue) bool {
			valueB, ok := fieldLookup(docB, name)
			if !ok {
				result.OnlyInFirst = append(result.OnlyInFirst, name)
				return true
			}
			result.CommonFields = append(result.CommonFields, name)
			if normalizeValue(valueA.Raw) != normalizeValue(valueB.Raw) {
				result.Differences[name] = forms.ValuePair{First: valueA.Raw, Second: valueB.Raw}
			}
			return true
		})
	}
	if docB.Fields != nil {
		docB.Fields.Range(func(name string, _ forms.FieldValue) bool {
			if _, ok := fieldLookup(docA, name); !ok {
				result.OnlyInSecond = append(result.OnlyInSecond, name)
			}
			return true
		})
	}

	if docA == docB || (docA.SourceID != "" && docA.SourceID == docB.SourceID) {
		result.SameSchema = true
	} else {
		result.SameSchema = docA.SchemaType != "" && docA.SchemaType == docB.SchemaType
	}
	return result, nil
}

func fieldLookup(doc *forms.FormDocument, name string) (forms.FieldValue, bool) {
	if doc.Fields == nil {
		return forms.FieldValue{}, false
	}
	return doc.Fields.Get(name)
}

func normalizeValue(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// commonFields intersects field names across all documents, in the first
// document's order.
func commonFields(docs []*forms.FormDocument) []string {
	common := []string{}
	if docs[0].Fields == nil {
		return common
	}
	docs[0].Fields.Range(func(name string, _ forms.FieldValue) bool {
		for _, doc := range docs[1:] {
			if _, ok := fieldLookup(doc, name); !ok {
				return true
			}
		}
		common = append(common, name)
		return true
	})
	return common
}

func schemaTypes(docs []*forms.FormDocument) []string {
	var types []string
	seen := make(map[string]bool)
	for _, doc := range docs {
		if doc.SchemaType == "" || seen[doc.SchemaType] {
			continue
		}
		seen[doc.SchemaType] = true
		types = append(types, doc.SchemaType)
	}
	return types
}

// fieldStatistics computes min/max/avg/sum over every field that is
// numeric in at least two documents. Non-numeric occurrences of the same
// field name are skipped, not fatal.
func fieldStatistics(docs []*forms.FormDocument) map[string]forms.FieldStats {
	values := make(map[string][]float64)
	for _, doc := range docs {
		if doc.Fields == nil {
			continue
		}
		doc.Fields.Range(func(name string, value forms.FieldValue) bool {
			if value.Kind.IsNumeric() {
				values[name] = append(values[name], value.Number)
			}
			return true
		})
	}

	stats := make(map[string]forms.FieldStats)
	for name, vals := range values {
		if len(vals) < 2 {
			continue
		}
		s := forms.FieldStats{Min: vals[0], Max: vals[0], Count: len(vals)}
		for _, v := range vals {
			s.Sum += v
			if v < s.Min {
				s.Min = v
			}
			if v > s.Max {
				s.Max = v
			}
		}
		s.Avg = s.Sum / float64(len(vals))
		stats[name] = s
	}
	return stats
}

func insights(docs []*forms.FormDocument, result forms.AnalysisResult) []string {
	var out []string

	switch len(result.SchemaTypes) {
	case 0:
		out = append(out, "No document could be classified against the schema registry")
	case 1:
		out = append(out, "All classified forms are of type: "+result.SchemaTypes[0])
	default:
		out = append(out, fmt.Sprintf("Forms include %d different types: %s",
			len(result.SchemaTypes), strings.Join(result.SchemaTypes, ", ")))
	}

	if len(result.CommonFields) > 0 {
		shown := result.CommonFields
		if len(shown) > 5 {
			shown = shown[:5]
		}
		out = append(out, "All forms share these fields: "+strings.Join(shown, ", "))
	} else if len(docs) > 1 {
		out = append(out, "The documents share no common fields")
	}

	// Surface the numeric field with the highest average, money-like
	// fields formatted as amounts.
	var names []string
	for name := range result.FieldStatistics {
		names = append(names, name)
	}
	sort.Strings(names)
	bestName := ""
	bestAvg := 0.0
	for _, name := range names {
		if s := result.FieldStatistics[name]; s.Avg > bestAvg {
			bestAvg = s.Avg
			bestName = name
		}
	}
	if bestName != "" {
		s := result.FieldStatistics[bestName]
		out = append(out, fmt.Sprintf("Average %s: %.2f (range: %.2f to %.2f)",
			bestName, s.Avg, s.Min, s.Max))
	}
	return out
}
