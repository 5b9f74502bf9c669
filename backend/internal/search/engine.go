package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"recall/backend/internal/constants"
	"recall/backend/internal/record"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// EmbeddingProvider computes a fixed-length vector for a piece of text
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// embedParallelism bounds concurrent embedding calls during the semantic pass
const embedParallelism = 8

// Engine combines substring keyword search with embedding-based semantic
// ranking. A nil provider degrades it to keyword-only mode. Search never
// returns an error: fetch failures become empty sub-passes.
type Engine struct {
	store    record.Store
	embedder EmbeddingProvider
	logger   *zap.Logger

	// Generation guard: a completed call publishes its result only if no
	// newer call has been issued since.
	generation atomic.Uint64
	mu         sync.RWMutex
	latest     []record.Record
}

// NewEngine creates a search engine. embedder may be nil.
func NewEngine(store record.Store, embedder EmbeddingProvider) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		logger:   logger.Named("search"),
	}
}

// scored pairs a record with its semantic score during the ranking pass
type scored struct {
	rec   record.Record
	score float64
}

// Search returns up to 20 records ranked for the query: keyword matches
// first in recency order, then semantic matches by combined cosine/recency
// score, deduplicated by identifier.
func (e *Engine) Search(ctx context.Context, query string) []record.Record {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	gen := e.generation.Add(1)

	keyword := e.keywordPass(ctx, query)
	var semantic []record.Record
	if e.embedder == nil {
		// Degraded mode: the semantic contribution is the keyword list again
		semantic = keyword
	} else {
		semantic = e.semanticPass(ctx, query)
	}

	merged := make([]record.Record, 0, constants.SearchResultLimit)
	seen := make(map[string]bool)
	for _, r := range append(keyword, semantic...) {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		merged = append(merged, r)
		if len(merged) == constants.SearchResultLimit {
			break
		}
	}

	e.publish(gen, merged)
	return merged
}

// Latest returns the most recently published result set
func (e *Engine) Latest() []record.Record {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.latest
}

func (e *Engine) publish(gen uint64, results []record.Record) {
	if gen != e.generation.Load() {
		e.logger.Debug("Dropping stale search result", zap.Uint64("generation", gen))
		return
	}
	e.mu.Lock()
	e.latest = results
	e.mu.Unlock()
}

// keywordPass fetches substring matches, capped, recency order preserved
func (e *Engine) keywordPass(ctx context.Context, query string) []record.Record {
	matches, err := e.store.Substring(ctx, query)
	if err != nil {
		e.logger.Warn("Keyword fetch failed", zap.Error(err))
		return nil
	}
	if len(matches) > constants.KeywordFetchLimit {
		matches = matches[:constants.KeywordFetchLimit]
	}
	return matches
}

// semanticPass scores recent candidates by cosine similarity blended with
// recency. A failed pass contributes nothing to the merge.
func (e *Engine) semanticPass(ctx context.Context, query string) []record.Record {
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Warn("Query embedding failed", zap.Error(err))
		return nil
	}

	candidates, err := e.store.Recent(ctx, constants.SemanticCandidateLimit)
	if err != nil {
		e.logger.Warn("Candidate fetch failed", zap.Error(err))
		return nil
	}

	now := time.Now()
	results := make([]scored, len(candidates))
	// Failure is tracked separately from the score: a dissimilar embedding
	// scores negative and still ranks
	failed := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedParallelism)
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			vec, err := e.embedder.Embed(gctx, cand.SearchText())
			if err != nil {
				// Per-candidate failure drops that candidate only
				failed[i] = true
				return nil
			}
			score := constants.CosineWeight*CosineSimilarity(queryVec, vec) +
				constants.RecencyWeight*RecencyScore(cand.Timestamp, now)
			results[i] = scored{rec: cand, score: score}
			return nil
		})
	}
	_ = g.Wait()

	kept := make([]scored, 0, len(results))
	for i, s := range results {
		if failed[i] {
			continue
		}
		kept = append(kept, s)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})
	if len(kept) > constants.SearchResultLimit {
		kept = kept[:constants.SearchResultLimit]
	}

	out := make([]record.Record, len(kept))
	for i, s := range kept {
		out[i] = s.rec
	}
	return out
}
