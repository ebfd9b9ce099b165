package summarize

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/schema"
)

func w2Doc() *forms.FormDocument {
	doc := forms.NewFormDocument("w2_2023.txt", forms.FileKindText)
	doc.RawText = "W-2 Wage and Tax Statement\nEmployee Name: Jane Smith\nEmployee SSN: 123-45-6789\nWages: $45,000.00\nSignature: ____"
	doc.Fields.Set("Employee Name", forms.FieldValue{Raw: "Jane Smith", Kind: forms.FieldKindText, Confidence: 0.9})
	doc.Fields.Set("Employee SSN", forms.FieldValue{Raw: "123-45-6789", Kind: forms.FieldKindSSN, Confidence: 0.9})
	doc.Fields.Set("Wages", forms.FieldValue{Raw: "$45,000.00", Kind: forms.FieldKindCurrency, Number: 45000, Confidence: 0.9})
	doc.SchemaType = "w2"
	doc.SchemaConfidence = 0.8
	doc.ExtractionConfidence = 0.75
	return doc
}

func TestSummarizeNilDoc(t *testing.T) {
	s := NewSummarizer()
	_, err := s.Summarize(nil)
	assert.True(t, errors.Is(err, forms.ErrInvalidInput))
}

func TestSummarizeW2(t *testing.T) {
	s := NewSummarizer()

	summary, err := s.Summarize(w2Doc())
	require.NoError(t, err)

	assert.Equal(t, "w2", summary.FormType)
	require.NotEmpty(t, summary.KeyInformation)
	assert.NotEmpty(t, summary.Highlights)
	assert.NotEmpty(t, summary.FullText)

	// Schema-aware selection follows the expected-field list.
	names := make([]string, 0, len(summary.KeyInformation))
	for _, f := range summary.KeyInformation {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "Employee SSN")
	assert.Contains(t, names, "Wages")
}

func TestSummarizeMasksSSN(t *testing.T) {
	s := NewSummarizer()

	summary, err := s.Summarize(w2Doc())
	require.NoError(t, err)

	for _, f := range summary.KeyInformation {
		assert.NotContains(t, f.Value, "123-45-6789", "raw SSN must never appear in %q", f.Name)
	}
	assert.NotContains(t, summary.FullText, "123-45-6789")
	joined := strings.Join(summary.Highlights, "\n") + summary.FullText
	assert.Contains(t, joined, "XXX-XX-6789", "the masked form is still shown")
}

func TestSummarizeStylesShareStructuredContent(t *testing.T) {
	doc := w2Doc()

	bullets := NewSummarizerWith(nil, Config{Style: StyleBulletPoints, MaxLength: 2000})
	narrative := NewSummarizerWith(nil, Config{Style: StyleNarrative, MaxLength: 2000})

	a, err := bullets.Summarize(doc)
	require.NoError(t, err)
	b, err := narrative.Summarize(doc)
	require.NoError(t, err)

	assert.Equal(t, a.FormType, b.FormType)
	assert.Equal(t, a.KeyInformation, b.KeyInformation)
	assert.Equal(t, a.Highlights, b.Highlights)
	assert.Equal(t, a.NotableItems, b.NotableItems)
	assert.NotEqual(t, a.FullText, b.FullText, "styles differ only in rendering")

	assert.Contains(t, a.FullText, "SUMMARY:")
	assert.NotContains(t, b.FullText, "SUMMARY:")
	assert.Contains(t, b.FullText, "contains the following information")
}

func TestSummarizeMaxLength(t *testing.T) {
	s := NewSummarizerWith(nil, Config{Style: StyleBulletPoints, MaxLength: 80})

	summary, err := s.Summarize(w2Doc())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(summary.FullText), 80)
}

func TestSummarizeNotableItems(t *testing.T) {
	s := NewSummarizer()
	doc := w2Doc()
	doc.Tables = []forms.ParsedTable{{Headers: []string{"A"}, Rows: [][]string{{"1"}}}}
	doc.Fields.Set("Overtime Authorized", forms.FieldValue{Raw: "checked", Kind: forms.FieldKindCheckbox, Checked: true, Confidence: 0.7})

	summary, err := s.Summarize(doc)
	require.NoError(t, err)

	joined := strings.Join(summary.NotableItems, "\n")
	assert.Contains(t, joined, "1 table(s)")
	assert.Contains(t, joined, "Overtime Authorized")
	assert.Contains(t, joined, "Identified as: W2")
	assert.LessOrEqual(t, len(summary.NotableItems), DefaultConfig().MaxNotableItems)
}

func TestSummarizeUnknownSchemaUsesConfidence(t *testing.T) {
	s := NewSummarizer()

	doc := forms.NewFormDocument("misc.txt", forms.FileKindText)
	doc.RawText = "Assorted notes"
	doc.Fields.Set("Scribble", forms.FieldValue{Raw: "abc", Kind: forms.FieldKindText, Confidence: 0.3})
	doc.Fields.Set("Payment Amount", forms.FieldValue{Raw: "$12.00", Kind: forms.FieldKindCurrency, Number: 12, Confidence: 0.9})

	summary, err := s.Summarize(doc)
	require.NoError(t, err)

	assert.Equal(t, "unknown", summary.FormType)
	require.NotEmpty(t, summary.KeyInformation)
	assert.Equal(t, "Scribble", summary.KeyInformation[0].Name,
		"selected facts keep document field order")
}

func TestSummarizeMultiple(t *testing.T) {
	s := NewSummarizer()

	docA := w2Doc()
	docB := forms.NewFormDocument("w2_2022.txt", forms.FileKindText)
	docB.RawText = "W-2 Wage and Tax Statement"
	docB.Fields.Set("Employee Name", forms.FieldValue{Raw: "Jane Smith", Kind: forms.FieldKindText, Confidence: 0.9})
	docB.Fields.Set("Wages", forms.FieldValue{Raw: "$40,000.00", Kind: forms.FieldKindCurrency, Number: 40000, Confidence: 0.9})
	docB.SchemaType = "w2"

	report, err := s.SummarizeMultiple([]*forms.FormDocument{docA, docB})
	require.NoError(t, err)

	assert.Contains(t, report, "MULTI-FORM SUMMARY (2 forms)")
	assert.Contains(t, report, "Form Types: w2")
	assert.Contains(t, report, "w2_2023.txt")
	assert.Contains(t, report, "w2_2022.txt")
	assert.Contains(t, report, "CROSS-FORM INSIGHTS:")
	assert.Contains(t, report, "Common fields:")
	assert.Contains(t, report, "Wages: Total=85000.00, Avg=42500.00")
}

func TestSummarizeMultipleEmpty(t *testing.T) {
	s := NewSummarizer()
	_, err := s.SummarizeMultiple(nil)
	assert.True(t, errors.Is(err, forms.ErrInvalidInput))
}

func TestSummarizerWithCustomDetector(t *testing.T) {
	registry := schema.NewEmptyRegistry()
	registry.Add(schema.Definition{
		SchemaID:           "badge_request",
		Category:           "employment",
		RequiredIndicators: []string{"badge"},
		ExpectedFields:     []string{"Badge Holder", "Badge Number"},
	})
	s := NewSummarizerWith(schema.NewDetectorWithRegistry(registry), DefaultConfig())

	doc := forms.NewFormDocument("badge.txt", forms.FileKindText)
	doc.Fields.Set("Badge Number", forms.FieldValue{Raw: "8841", Kind: forms.FieldKindNumber, Number: 8841, Confidence: 0.9})
	doc.Fields.Set("Badge Holder", forms.FieldValue{Raw: "Jane Smith", Kind: forms.FieldKindText, Confidence: 0.9})
	doc.SchemaType = "badge_request"

	summary, err := s.Summarize(doc)
	require.NoError(t, err)
	require.Len(t, summary.KeyInformation, 2)
	assert.Equal(t, "Badge Holder", summary.KeyInformation[0].Name,
		"expected-field order drives the selection")
}

func TestTitleize(t *testing.T) {
	assert.Equal(t, "Insurance Claim", titleize("insurance_claim"))
	assert.Equal(t, "W2", titleize("w2"))
}
