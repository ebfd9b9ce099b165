package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/analysis"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/config"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/extract"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/fieldparse"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/qa"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/retrieval"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/schema"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/summarize"
	"github.com/araraj1997/Agentic-Form-Analyser/internal/tableparse"
)

// acroFieldConfidence is the confidence assigned to values read from a
// PDF's interactive form fields. These are author-entered, not pattern
// matched, so they rank above any text-derived value.
const acroFieldConfidence = 0.95

// Agent wires the extraction and parsing pipeline together and keeps the
// loaded documents. All operations are safe for concurrent use; documents
// are immutable once stored.
type Agent struct {
	cfg *config.Config

	fieldParser *fieldparse.Parser
	tableParser *tableparse.Parser
	detector    *schema.Detector
	engine      *qa.Engine
	summarizer  *summarize.Summarizer
	aggregator  *analysis.Aggregator

	mu    sync.RWMutex
	docs  map[string]*forms.FormDocument
	order []string
}

// New builds an agent from configuration.
func New(cfg *config.Config) (*Agent, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	registry := schema.NewRegistry()
	if cfg.SchemaRegistryPath != "" {
		if err := registry.LoadFile(cfg.SchemaRegistryPath); err != nil {
			return nil, fmt.Errorf("failed to load schema registry: %w", err)
		}
	}
	detector := schema.NewDetectorWithRegistry(registry)

	retriever := retrieval.NewRetrieverWithConfig(retrieval.Config{
		SemanticWeight: cfg.SemanticWeight,
		KeywordWeight:  cfg.KeywordWeight,
		Window: retrieval.WindowConfig{
			Size:    cfg.TextWindowSize,
			Overlap: cfg.TextWindowOverlap,
		},
	})
	if !retrieval.Available() {
		log.Printf("Warning: no embedding backend configured, retrieval is keyword-only")
	}

	engine := qa.NewEngineWith(retriever, qa.Config{
		TopK:       cfg.QATopKRetrieval,
		MaxContext: cfg.QAMaxContextLength,
	})

	summarizer := summarize.NewSummarizerWith(detector, summarize.Config{
		Style:     cfg.SummaryStyle,
		MaxLength: cfg.SummaryMaxLength,
		MinLength: cfg.SummaryMinLength,
	})

	return &Agent{
		cfg:         cfg,
		fieldParser: fieldparse.NewParserWithThreshold(cfg.FieldConfidenceThreshold),
		tableParser: tableparse.NewParser(),
		detector:    detector,
		engine:      engine,
		summarizer:  summarizer,
		aggregator:  analysis.NewAggregator(engine),
		docs:        make(map[string]*forms.FormDocument),
	}, nil
}

// LoadForm runs the full pipeline over one file and stores the resulting
// document keyed by its path. Reloading a path replaces the stored
// document.
func (a *Agent) LoadForm(ctx context.Context, path string) (*forms.FormDocument, error) {
	extractor, err := extract.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res, err := extractor.Extract(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	doc, err := a.buildDocument(path, res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	a.mu.Lock()
	if _, exists := a.docs[path]; !exists {
		a.order = append(a.order, path)
	}
	a.docs[path] = doc
	a.mu.Unlock()

	log.Printf("Loaded %s: %d fields, %d tables, schema=%q",
		path, doc.Fields.Len(), len(doc.Tables), doc.SchemaType)
	return doc, nil
}

// LoadOutcome is one entry of a batch load. Err is set when that file
// failed; the rest of the batch is unaffected.
type LoadOutcome struct {
	Path string
	Doc  *forms.FormDocument
	Err  error
}

// LoadForms processes a batch of files across a small worker pool.
// Results come back in input order.
func (a *Agent) LoadForms(ctx context.Context, paths []string) []LoadOutcome {
	outcomes := make([]LoadOutcome, len(paths))

	workers := 4
	if len(paths) < workers {
		workers = len(paths)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				doc, err := a.LoadForm(ctx, paths[i])
				outcomes[i] = LoadOutcome{Path: paths[i], Doc: doc, Err: err}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

func (a *Agent) buildDocument(path string, res *extract.Result) (*forms.FormDocument, error) {
	doc := forms.NewFormDocument(path, res.Kind)
	doc.RawText = res.Text
	for k, v := range res.Metadata {
		doc.Metadata[k] = v
	}

	fields, err := a.fieldParser.Parse(res.Text)
	if err != nil {
		// A file with no running text can still carry interactive
		// fields or tables.
		if !errors.Is(err, forms.ErrInvalidInput) || (len(res.AcroFields) == 0 && len(res.Tables) == 0) {
			return nil, err
		}
		fields = forms.NewFieldSet()
	}
	mergeAcroFields(fields, res.AcroFields)
	doc.Fields = fields

	if a.cfg.ExtractTables && len(res.Tables) > 0 {
		tables, err := a.tableParser.Parse(res.Tables)
		if err != nil {
			return nil, fmt.Errorf("table parsing: %w", err)
		}
		doc.Tables = tables
	}

	if match, ok := a.detector.DetectWithConfidence(res.Text, fields); ok {
		doc.SchemaType = match.SchemaID
		doc.SchemaConfidence = match.Confidence
	}
	doc.ExtractionConfidence = fieldparse.ExtractionConfidence(fields, res.Text)
	return doc, nil
}

func mergeAcroFields(fields *forms.FieldSet, acro []extract.AcroField) {
	for _, af := range acro {
		value := forms.FieldValue{
			Raw:        af.Value,
			Confidence: acroFieldConfidence,
			Position:   -1,
		}
		if af.IsCheckbox {
			value.Kind = forms.FieldKindCheckbox
			value.Checked = af.Checked
		} else {
			kind, number := fieldparse.TypeValue(af.Value)
			value.Kind = kind
			value.Number = number
		}
		fields.Set(af.Name, value)
	}
}

// Document returns a stored document by source id.
func (a *Agent) Document(sourceID string) (*forms.FormDocument, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	doc, ok := a.docs[sourceID]
	if !ok {
		return nil, fmt.Errorf("%w: document not loaded: %s", forms.ErrInvalidInput, sourceID)
	}
	return doc, nil
}

// Documents returns all stored documents in load order.
func (a *Agent) Documents() []*forms.FormDocument {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]*forms.FormDocument, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.docs[id])
	}
	return out
}

// Remove drops a stored document. It reports whether anything was removed.
func (a *Agent) Remove(sourceID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.docs[sourceID]; !ok {
		return false
	}
	delete(a.docs, sourceID)
	for i, id := range a.order {
		if id == sourceID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return true
}

// Count returns the number of loaded documents.
func (a *Agent) Count() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.docs)
}
