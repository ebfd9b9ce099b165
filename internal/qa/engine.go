package qa

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/retrieval"
)

// NoEvidenceAnswer is the answer text returned when nothing in the
// document matches the question. It is a result, not an error.
const NoEvidenceAnswer = "I couldn't find relevant information to answer this question."

// Config tunes the engine.
type Config struct {
	TopK       int
	MaxContext int
}

// DefaultConfig matches the standard retrieval depth and context budget.
func DefaultConfig() Config {
	return Config{TopK: 5, MaxContext: 512}
}

// Engine answers natural-language questions about parsed form documents.
// Each call is self-contained; the engine holds no per-document state.
type Engine struct {
	retriever *retrieval.Retriever
	cfg       Config
}

// NewEngine builds an engine with default settings.
func NewEngine() *Engine {
	return NewEngineWith(retrieval.NewRetriever(), DefaultConfig())
}

// NewEngineWith builds an engine over an explicit retriever and config.
func NewEngineWith(retriever *retrieval.Retriever, cfg Config) *Engine {
	if retriever == nil {
		retriever = retrieval.NewRetriever()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxContext <= 0 {
		cfg.MaxContext = 512
	}
	return &Engine{retriever: retriever, cfg: cfg}
}

// Ask answers a question about one document. A question with no matching
// evidence yields a zero-confidence result, never an error.
func (e *Engine) Ask(ctx context.Context, question string, doc *forms.FormDocument) (forms.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return forms.QueryResult{}, fmt.Errorf("%w: empty question", forms.ErrInvalidInput)
	}
	if doc == nil {
		return forms.QueryResult{}, fmt.Errorf("%w: nil document", forms.ErrInvalidInput)
	}

	chunks, err := e.retriever.Retrieve(ctx, doc, question, e.cfg.TopK)
	if err != nil && !errors.Is(err, forms.ErrInvalidInput) {
		return forms.QueryResult{}, err
	}
	if len(chunks) == 0 {
		return noEvidenceResult(question), nil
	}

	docs := map[string]*forms.FormDocument{doc.SourceID: doc}
	answer, confidence, sourceFields := compose(ClassifyIntent(question), question, chunks, docs)

	return forms.QueryResult{
		Question:     question,
		Answer:       answer,
		Confidence:   clamp01(confidence),
		SourceFields: sourceFields,
		Context:      e.renderContext(chunks),
	}, nil
}

// AskMultiple answers one question across several documents. Evidence is
// gathered per document, composed, and then synthesized into a combined
// statement. Zero documents with evidence yields the no-evidence result.
func (e *Engine) AskMultiple(ctx context.Context, question string, docs []*forms.FormDocument) (forms.QueryResult, error) {
	if strings.TrimSpace(question) == "" {
		return forms.QueryResult{}, fmt.Errorf("%w: empty question", forms.ErrInvalidInput)
	}
	if len(docs) == 0 {
		return forms.QueryResult{}, fmt.Errorf("%w: no documents", forms.ErrInvalidInput)
	}
	if len(docs) == 1 {
		return e.Ask(ctx, question, docs[0])
	}

	intent := ClassifyIntent(question)

	type perDoc struct {
		docID      string
		answer     string
		confidence float64
		fields     []string
		chunks     []retrieval.Chunk
	}

	var answered []perDoc
	var allChunks []retrieval.Chunk
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		chunks, err := e.retriever.Retrieve(ctx, doc, question, e.cfg.TopK)
		if err != nil || len(chunks) == 0 {
			continue
		}
		byID := map[string]*forms.FormDocument{doc.SourceID: doc}
		answer, confidence, fields := compose(intent, question, chunks, byID)
		answered = append(answered, perDoc{
			docID:      doc.SourceID,
			answer:     answer,
			confidence: confidence,
			fields:     fields,
			chunks:     chunks,
		})
		allChunks = append(allChunks, chunks...)
	}

	if len(answered) == 0 {
		return noEvidenceResult(question), nil
	}

	result := forms.QueryResult{
		Question: question,
		Context:  e.renderContext(allChunks),
	}

	if len(answered) == 1 {
		only := answered[0]
		result.Answer = only.answer
		result.Confidence = clamp01(only.confidence)
		result.SourceFields = only.fields
		result.MatchedDocument = only.docID
		return result, nil
	}

	// Synthesize: numeric questions get aggregate statistics over the
	// per-document values, everything else lists the distinct answers.
	var parts []string
	var best float64
	fieldSet := map[string]bool{}
	for _, a := range answered {
		parts = append(parts, fmt.Sprintf("[%s] %s", a.docID, a.answer))
		if a.confidence > best {
			best = a.confidence
		}
		for _, f := range a.fields {
			fieldSet[f] = true
		}
	}

	if intent == IntentNumeric || intent == IntentComparison {
		if stats := numericSynthesis(question, collectNumericValues(allChunks, docs)); stats != "" {
			parts = append(parts, stats)
		}
	}

	result.Answer = strings.Join(parts, "\n")
	result.Confidence = clamp01(best)
	result.SourceFields = sortedKeys(fieldSet)
	return result, nil
}

func (e *Engine) renderContext(chunks []retrieval.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(c.Text)
		if b.Len() >= e.cfg.MaxContext {
			break
		}
	}
	s := b.String()
	if len(s) > e.cfg.MaxContext {
		s = s[:e.cfg.MaxContext]
	}
	return s
}

func noEvidenceResult(question string) forms.QueryResult {
	return forms.QueryResult{
		Question:     question,
		Answer:       NoEvidenceAnswer,
		Confidence:   0,
		SourceFields: []string{},
	}
}

// collectNumericValues gathers the numeric field values behind the
// retrieved field chunks, for cross-document aggregate statements.
func collectNumericValues(chunks []retrieval.Chunk, docs []*forms.FormDocument) []float64 {
	byID := make(map[string]*forms.FormDocument, len(docs))
	for _, d := range docs {
		if d != nil {
			byID[d.SourceID] = d
		}
	}
	var values []float64
	for _, c := range chunks {
		if c.Source != retrieval.SourceField {
			continue
		}
		doc := byID[c.DocID]
		if doc == nil || doc.Fields == nil {
			continue
		}
		value, ok := doc.Fields.Get(c.FieldName)
		if !ok || !value.Kind.IsNumeric() {
			continue
		}
		values = append(values, value.Number)
	}
	return values
}

func numericSynthesis(question string, values []float64) string {
	if len(values) < 2 {
		return ""
	}
	var sum, min, max float64
	min = values[0]
	max = values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg := sum / float64(len(values))

	q := strings.ToLower(question)
	switch {
	case strings.Contains(q, "average"):
		return fmt.Sprintf("Across %d documents the average is %.2f.", len(values), avg)
	case strings.Contains(q, "total") || strings.Contains(q, "sum"):
		return fmt.Sprintf("Across %d documents the combined total is %.2f.", len(values), sum)
	default:
		return fmt.Sprintf("Across %d documents values range from %.2f to %.2f (average %.2f).", len(values), min, max, avg)
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
