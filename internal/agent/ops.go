package agent

import (
	"context"
	"fmt"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// Ask answers a question against one loaded document.
func (a *Agent) Ask(ctx context.Context, question, sourceID string) (forms.QueryResult, error) {
	doc, err := a.Document(sourceID)
	if err != nil {
		return forms.QueryResult{}, err
	}
	return a.engine.Ask(ctx, question, doc)
}

// AskAll answers a question across every loaded document.
func (a *Agent) AskAll(ctx context.Context, question string) (forms.QueryResult, error) {
	docs := a.Documents()
	if len(docs) == 0 {
		return forms.QueryResult{}, fmt.Errorf("%w: no documents loaded", forms.ErrInvalidInput)
	}
	return a.engine.AskMultiple(ctx, question, docs)
}

// Summarize builds the structured summary of one loaded document.
func (a *Agent) Summarize(sourceID string) (forms.Summary, error) {
	doc, err := a.Document(sourceID)
	if err != nil {
		return forms.Summary{}, err
	}
	return a.summarizer.Summarize(doc)
}

// SummarizeAll renders the combined multi-form report.
func (a *Agent) SummarizeAll() (string, error) {
	docs := a.Documents()
	if len(docs) == 0 {
		return "", fmt.Errorf("%w: no documents loaded", forms.ErrInvalidInput)
	}
	return a.summarizer.SummarizeMultiple(docs)
}

// Analyze runs cross-document analysis over all loaded documents,
// optionally answering a free-form question along the way.
func (a *Agent) Analyze(ctx context.Context, question string) (forms.AnalysisResult, error) {
	docs := a.Documents()
	if len(docs) == 0 {
		return forms.AnalysisResult{}, fmt.Errorf("%w: no documents loaded", forms.ErrInvalidInput)
	}
	return a.aggregator.Analyze(ctx, docs, question)
}

// Compare diffs two loaded documents field by field.
func (a *Agent) Compare(firstID, secondID string) (forms.ComparisonResult, error) {
	first, err := a.Document(firstID)
	if err != nil {
		return forms.ComparisonResult{}, err
	}
	second, err := a.Document(secondID)
	if err != nil {
		return forms.ComparisonResult{}, err
	}
	return a.aggregator.Compare(first, second)
}
