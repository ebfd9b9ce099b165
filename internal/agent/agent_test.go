package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/config"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

const w2Text = "W-2 Wage and Tax Statement\n" +
	"Employee Name: Jane Smith\n" +
	"Employee SSN: 123-45-6789\n" +
	"Total Income: $45,000.00\n"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.FormsDirectory = t.TempDir()
	return cfg
}

func writeForm(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadForm(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "w2_2023.txt", w2Text)
	doc, err := a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, doc.SourceID)
	assert.Equal(t, forms.FileKindText, doc.FileKind)
	assert.Equal(t, "w2", doc.SchemaType)
	assert.Greater(t, doc.SchemaConfidence, 0.0)
	assert.Greater(t, doc.ExtractionConfidence, 0.0)

	income, ok := doc.Fields.Get("Total Income")
	require.True(t, ok)
	assert.Equal(t, "$45,000.00", income.Raw)
	assert.Equal(t, forms.FieldKindCurrency, income.Kind)

	assert.Equal(t, 1, a.Count())
}

func TestLoadFormUnsupported(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	_, err = a.LoadForm(context.Background(), "report.docx")
	assert.True(t, errors.Is(err, forms.ErrUnsupportedFormat))
	assert.Equal(t, 0, a.Count())
}

func TestLoadFormReplacesOnReload(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "form.txt", "Name: First Version\n")
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("Name: Second Version\n"), 0o600))
	doc, err := a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	v, _ := doc.Fields.Get("Name")
	assert.Equal(t, "Second Version", v.Raw)
	assert.Equal(t, 1, a.Count(), "reloading a path must not duplicate the document")
}

func TestLoadFormsBatch(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	good1 := writeForm(t, "a.txt", "Name: Jane\n")
	bad := filepath.Join(t.TempDir(), "missing.txt")
	good2 := writeForm(t, "b.txt", "Name: Bob\n")

	outcomes := a.LoadForms(context.Background(), []string{good1, bad, good2})
	require.Len(t, outcomes, 3)

	assert.Equal(t, good1, outcomes[0].Path, "outcomes keep input order")
	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err, "one failure does not abort the batch")
	assert.NoError(t, outcomes[2].Err)
	assert.Equal(t, 2, a.Count())
}

func TestDocumentLifecycle(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path1 := writeForm(t, "one.txt", "Name: Jane\n")
	path2 := writeForm(t, "two.txt", "Name: Bob\n")
	_, err = a.LoadForm(context.Background(), path1)
	require.NoError(t, err)
	_, err = a.LoadForm(context.Background(), path2)
	require.NoError(t, err)

	docs := a.Documents()
	require.Len(t, docs, 2)
	assert.Equal(t, path1, docs[0].SourceID, "documents come back in load order")

	_, err = a.Document("never-loaded.txt")
	assert.True(t, errors.Is(err, forms.ErrInvalidInput))

	assert.True(t, a.Remove(path1))
	assert.False(t, a.Remove(path1), "second removal reports nothing removed")
	assert.Equal(t, 1, a.Count())
	assert.Equal(t, path2, a.Documents()[0].SourceID)
}

func TestAsk(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "w2.txt", w2Text)
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	result, err := a.Ask(context.Background(), "What is the total income?", path)
	require.NoError(t, err)
	assert.Contains(t, result.Answer, "$45,000.00")
}

func TestAskAllWithoutDocuments(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	_, err = a.AskAll(context.Background(), "What is the total?")
	assert.True(t, errors.Is(err, forms.ErrInvalidInput))
}

func TestSummarizeAndAnalyze(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "w2.txt", w2Text)
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	summary, err := a.Summarize(path)
	require.NoError(t, err)
	assert.Equal(t, "w2", summary.FormType)
	assert.NotContains(t, summary.FullText, "123-45-6789", "SSN stays masked")

	analysisResult, err := a.Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, analysisResult.DocumentCount)

	report, err := a.SummarizeAll()
	require.NoError(t, err)
	assert.Contains(t, report, "MULTI-FORM SUMMARY")
}

func TestCompareLoadedDocuments(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "w2.txt", w2Text)
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	result, err := a.Compare(path, path)
	require.NoError(t, err)
	assert.True(t, result.SameSchema)
	assert.Empty(t, result.Differences)
}

func TestExportFormats(t *testing.T) {
	a, err := New(testConfig(t))
	require.NoError(t, err)

	path := writeForm(t, "w2.txt", w2Text)
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	jsonOut, err := a.Export(path, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, jsonOut, `"schema_type": "w2"`)

	csvOut, err := a.Export(path, FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	assert.Equal(t, "name,value,kind,confidence", lines[0])
	assert.Contains(t, csvOut, "Total Income")
	assert.NotContains(t, csvOut, "123-45-6789", "rendered exports mask SSNs")
	assert.Contains(t, csvOut, "XXX-XX-6789")

	mdOut, err := a.Export(path, "markdown")
	require.NoError(t, err)
	assert.Contains(t, mdOut, "# "+path)
	assert.Contains(t, mdOut, "**w2**")
	assert.Contains(t, mdOut, "| Total Income |")

	mdShort, err := a.Export(path, "md")
	require.NoError(t, err)
	assert.Equal(t, mdOut, mdShort)

	_, err = a.Export(path, "yaml")
	assert.True(t, errors.Is(err, forms.ErrUnsupportedFormat))
}

func TestExportConfidenceToggle(t *testing.T) {
	cfg := testConfig(t)
	cfg.OutputIncludeConfidence = false
	a, err := New(cfg)
	require.NoError(t, err)

	path := writeForm(t, "w2.txt", w2Text)
	_, err = a.LoadForm(context.Background(), path)
	require.NoError(t, err)

	csvOut, err := a.Export(path, FormatCSV)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(csvOut), "\n")
	assert.Equal(t, "name,value,kind", lines[0])
}

func TestLoadFormSchemaRegistryPath(t *testing.T) {
	registryFile := filepath.Join(t.TempDir(), "extra.json")
	require.NoError(t, os.WriteFile(registryFile, []byte(`{
		"definitions": [{
			"schema_id": "pet_license",
			"category": "municipal",
			"required_indicators": ["pet license application"],
			"expected_fields": ["Pet Name", "Owner Name"]
		}]
	}`), 0o600))

	cfg := testConfig(t)
	cfg.SchemaRegistryPath = registryFile
	a, err := New(cfg)
	require.NoError(t, err)

	path := writeForm(t, "pet.txt", "Pet License Application\nPet Name: Rex\nOwner Name: Jane Smith\n")
	doc, err := a.LoadForm(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "pet_license", doc.SchemaType)
}

func TestNewWithBadRegistryPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.SchemaRegistryPath = filepath.Join(t.TempDir(), "absent.json")
	_, err := New(cfg)
	assert.Error(t, err)
}
