package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// Embedder turns text into a dense vector. Implementations wrap whatever
// embedding backend the deployment has available; when none is configured
// the retriever scores by keyword overlap alone.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	embedderMu sync.RWMutex
	embedder   Embedder
)

// SetEmbedder installs a process-wide embedding backend. Passing nil
// reverts to keyword-only scoring.
func SetEmbedder(e Embedder) {
	embedderMu.Lock()
	embedder = e
	embedderMu.Unlock()
}

func currentEmbedder() Embedder {
	embedderMu.RLock()
	defer embedderMu.RUnlock()
	return embedder
}

// Available reports whether an embedding backend is configured.
func Available() bool {
	return currentEmbedder() != nil
}

// Config tunes retrieval scoring and windowing.
type Config struct {
	SemanticWeight float64
	KeywordWeight  float64
	Window         WindowConfig
}

// DefaultConfig weights semantic similarity over keyword overlap and uses
// the standard text windows.
func DefaultConfig() Config {
	return Config{
		SemanticWeight: 0.7,
		KeywordWeight:  0.3,
		Window:         DefaultWindowConfig(),
	}
}

// Retriever scores document chunks against a query.
type Retriever struct {
	cfg Config
}

// NewRetriever builds a retriever with default scoring weights.
func NewRetriever() *Retriever {
	return NewRetrieverWithConfig(DefaultConfig())
}

// NewRetrieverWithConfig builds a retriever with explicit weights. Weight
// pairs that do not sum to a positive value fall back to the defaults.
func NewRetrieverWithConfig(cfg Config) *Retriever {
	if cfg.SemanticWeight+cfg.KeywordWeight <= 0 {
		def := DefaultConfig()
		cfg.SemanticWeight = def.SemanticWeight
		cfg.KeywordWeight = def.KeywordWeight
	}
	if cfg.Window.Size <= 0 {
		cfg.Window = DefaultWindowConfig()
	}
	return &Retriever{cfg: cfg}
}

// Retrieve returns the topK highest scoring chunks of one document for a
// query. Ties keep chunk build order, so field chunks outrank the text
// windows that contain the same words.
func (r *Retriever) Retrieve(ctx context.Context, doc *forms.FormDocument, query string, topK int) ([]Chunk, error) {
	if doc == nil || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", forms.ErrInvalidInput)
	}
	chunks := BuildChunks(doc, r.cfg.Window)
	return r.rank(ctx, chunks, query, topK)
}

// RetrieveAcross pools the chunks of several documents and returns the topK
// best overall. Each chunk carries its source document id.
func (r *Retriever) RetrieveAcross(ctx context.Context, docs []*forms.FormDocument, query string, topK int) ([]Chunk, error) {
	if len(docs) == 0 || strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", forms.ErrInvalidInput)
	}
	var chunks []Chunk
	for _, doc := range docs {
		chunks = append(chunks, BuildChunks(doc, r.cfg.Window)...)
	}
	return r.rank(ctx, chunks, query, topK)
}

func (r *Retriever) rank(ctx context.Context, chunks []Chunk, query string, topK int) ([]Chunk, error) {
	if topK <= 0 {
		topK = 5
	}
	queryTokens := tokenize(query)

	emb := currentEmbedder()
	var queryVec []float32
	if emb != nil {
		vec, err := emb.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		queryVec = vec
	}

	scored := make([]Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		keyword := keywordScore(queryTokens, chunk.Text)
		score := keyword
		if emb != nil {
			chunkVec, err := emb.Embed(ctx, chunk.Text)
			if err != nil {
				return nil, fmt.Errorf("failed to embed chunk: %w", err)
			}
			semantic := cosine(queryVec, chunkVec)
			score = r.cfg.SemanticWeight*semantic + r.cfg.KeywordWeight*keyword
		}
		if score <= 0 {
			continue
		}
		chunk.Score = score
		scored = append(scored, chunk)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// keywordScore is the fraction of distinct query tokens found in the chunk.
func keywordScore(queryTokens []string, text string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	chunkTokens := make(map[string]bool)
	for _, t := range tokenize(text) {
		chunkTokens[t] = true
	}
	hits := 0
	for _, t := range queryTokens {
		if chunkTokens[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true,
	"at": true, "be": true, "by": true, "for": true, "from": true,
	"how": true, "in": true, "is": true, "it": true, "of": true,
	"on": true, "or": true, "the": true, "this": true, "to": true,
	"was": true, "what": true, "when": true, "where": true, "which": true,
	"who": true, "will": true, "with": true, "does": true, "do": true,
	"did": true, "has": true, "have": true, "there": true, "their": true,
	"much": true, "many": true,
}

// tokenize lowercases, splits on non-alphanumerics, and drops stopwords.
// Distinct tokens only; repeating a word in a query should not inflate its
// weight.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isAlnum(r)
	})
	seen := make(map[string]bool)
	var out []string
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
