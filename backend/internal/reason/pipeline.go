package reason

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"recall/backend/internal/constants"
	"recall/backend/internal/entity"
	"recall/backend/internal/record"
	"recall/backend/internal/search"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// Step is one logged stage of a reasoning invocation, immutable once created
type Step struct {
	Title     string    `json:"title"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// Parsed holds the constraints extracted from a question. It lives for one
// invocation only.
type Parsed struct {
	People   []string
	Places   []string
	TimeHint string
}

// Result is the terminal output of one reasoning invocation
type Result struct {
	Records []record.Record `json:"records"`
	Answer  string          `json:"answer"`
	Steps   []Step          `json:"steps"`
}

// answerNotFound is the fixed answer when nothing matches
const answerNotFound = "I couldn't find any memories matching your question."

// Pipeline answers free-text questions over the record store through a fixed
// linear sequence: Parse, PeopleSearch, PlaceSearch, TimeFilter,
// SemanticFallback, RankAndDedup, Answer. Stages whose constraint is absent
// are skipped; the pipeline never branches back and always produces a
// non-empty answer.
type Pipeline struct {
	store  record.Store
	engine *search.Engine
	logger *zap.Logger

	// Generation guard, same contract as the search engine's
	generation atomic.Uint64
	mu         sync.RWMutex
	latest     *Result
}

// NewPipeline creates a reasoning pipeline
func NewPipeline(store record.Store, engine *search.Engine) *Pipeline {
	return &Pipeline{
		store:  store,
		engine: engine,
		logger: logger.Named("reason"),
	}
}

// Reason runs the pipeline for a question. onStep, when non-nil, observes
// each step as it is appended, enabling progressive display. The returned
// result is never nil and its answer never empty.
func (p *Pipeline) Reason(ctx context.Context, query string, onStep func(Step)) *Result {
	gen := p.generation.Add(1)
	result := &Result{}

	emit := func(title, detail string) {
		step := Step{Title: title, Detail: detail, CreatedAt: time.Now()}
		result.Steps = append(result.Steps, step)
		if onStep != nil {
			onStep(step)
		}
	}

	// Parse
	parsed := p.parse(query)
	emit("Parse", parseDetail(parsed))

	var accumulated []record.Record

	// PeopleSearch
	if len(parsed.People) > 0 {
		found := p.termSearch(ctx, parsed.People)
		accumulated = append(accumulated, found...)
		emit("People Search", fmt.Sprintf("Searched memories mentioning %s: %d matches",
			strings.Join(parsed.People, ", "), len(found)))
	}

	// PlaceSearch
	if len(parsed.Places) > 0 {
		found := p.termSearch(ctx, parsed.Places)
		accumulated = append(accumulated, found...)
		emit("Place Search", fmt.Sprintf("Searched memories mentioning %s: %d matches",
			strings.Join(parsed.Places, ", "), len(found)))
	}

	// TimeFilter
	if parsed.TimeHint != "" {
		start, end := ResolveTimeHint(parsed.TimeHint, time.Now())
		before := len(accumulated)
		accumulated = filterByRange(accumulated, start, end)
		emit("Time Filter", fmt.Sprintf("Kept memories from %s to %s (%d of %d)",
			start.Format("Jan 2 15:04"), end.Format("Jan 2 15:04"), len(accumulated), before))
	}

	// SemanticFallback
	if len(accumulated) == 0 {
		accumulated = p.engine.Search(ctx, query)
		emit("Semantic Fallback", fmt.Sprintf("No direct matches; full search returned %d memories", len(accumulated)))
	}

	// RankAndDedup
	accumulated = rankAndDedup(accumulated)
	emit("Rank & Dedup", fmt.Sprintf("Ranked %d unique memories by recency", len(accumulated)))

	// Answer
	result.Records = accumulated
	result.Answer = buildAnswer(accumulated, parsed.People)
	emit("Answer", result.Answer)

	p.logger.Debug("Reasoning complete",
		zap.Int("steps", len(result.Steps)),
		zap.Int("results", len(result.Records)),
	)

	p.publish(gen, result)
	return result
}

// Latest returns the most recently published result
func (p *Pipeline) Latest() *Result {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

func (p *Pipeline) publish(gen uint64, result *Result) {
	if gen != p.generation.Load() {
		p.logger.Debug("Dropping stale reasoning result", zap.Uint64("generation", gen))
		return
	}
	p.mu.Lock()
	p.latest = result
	p.mu.Unlock()
}

// parse extracts person names, place names, and a time hint from the question
func (p *Pipeline) parse(query string) Parsed {
	parsed := Parsed{TimeHint: ExtractTimeHint(query)}
	for _, ent := range entity.Extract(query) {
		switch ent.Type {
		case entity.TypePerson:
			parsed.People = append(parsed.People, ent.Label)
		case entity.TypePlace:
			parsed.Places = append(parsed.Places, ent.Label)
		}
	}
	return parsed
}

// termSearch runs a capped substring search per term, accumulating without
// deduplication. A failed fetch contributes nothing for that term.
func (p *Pipeline) termSearch(ctx context.Context, terms []string) []record.Record {
	var out []record.Record
	for _, term := range terms {
		matches, err := p.store.Substring(ctx, term)
		if err != nil {
			p.logger.Warn("Term fetch failed", zap.String("term", term), zap.Error(err))
			continue
		}
		if len(matches) > constants.TermFetchLimit {
			matches = matches[:constants.TermFetchLimit]
		}
		out = append(out, matches...)
	}
	return out
}

func filterByRange(records []record.Record, start, end time.Time) []record.Record {
	kept := records[:0]
	for _, r := range records {
		if !r.Timestamp.Before(start) && r.Timestamp.Before(end) {
			kept = append(kept, r)
		}
	}
	return kept
}

func rankAndDedup(records []record.Record) []record.Record {
	seen := make(map[string]bool)
	unique := make([]record.Record, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		unique = append(unique, r)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Timestamp.After(unique[j].Timestamp)
	})
	if len(unique) > constants.ReasonResultLimit {
		unique = unique[:constants.ReasonResultLimit]
	}
	return unique
}

// buildAnswer fills the deterministic answer template. No model is consulted.
func buildAnswer(records []record.Record, people []string) string {
	if len(records) == 0 {
		return answerNotFound
	}

	top := records[0]
	noun := "memories"
	if len(records) == 1 {
		noun = "memory"
	}

	lines := []string{
		fmt.Sprintf("I found %d %s related to your question.", len(records), noun),
		fmt.Sprintf("Most relevant: %s", top.Title),
		excerpt(top.Content, constants.AnswerExcerptLength),
		fmt.Sprintf("Captured %s", top.Timestamp.Format("Jan 2, 2006 at 3:04 PM")),
	}
	if len(people) > 0 {
		lines = append(lines, fmt.Sprintf("Connected to: %s", strings.Join(people, ", ")))
	}
	return strings.Join(lines, "\n")
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

func parseDetail(p Parsed) string {
	var parts []string
	if len(p.People) > 0 {
		parts = append(parts, "people: "+strings.Join(p.People, ", "))
	}
	if len(p.Places) > 0 {
		parts = append(parts, "places: "+strings.Join(p.Places, ", "))
	}
	if p.TimeHint != "" {
		parts = append(parts, "time: "+p.TimeHint)
	}
	if len(parts) == 0 {
		return "No people, places, or time constraints detected"
	}
	return "Detected " + strings.Join(parts, "; ")
}
