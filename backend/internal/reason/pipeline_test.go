package reason

import (
	"context"
	"strings"
	"testing"
	"time"

	"recall/backend/internal/record"
	"recall/backend/internal/search"
)

func newPipeline(records ...record.Record) *Pipeline {
	store := record.NewSliceStore(records...)
	return NewPipeline(store, search.NewEngine(store, nil))
}

func stepTitles(steps []Step) []string {
	titles := make([]string, len(steps))
	for i, s := range steps {
		titles[i] = s.Title
	}
	return titles
}

func hasStep(steps []Step, title string) bool {
	for _, s := range steps {
		if s.Title == title {
			return true
		}
	}
	return false
}

func TestReason_AlwaysEmitsParseAndAnswer(t *testing.T) {
	p := newPipeline()

	for _, query := range []string{"", "gibberish zzz", "Where did I meet Sarah?"} {
		result := p.Reason(context.Background(), query, nil)
		if result == nil {
			t.Fatalf("Expected a result for %q", query)
		}
		if !hasStep(result.Steps, "Parse") {
			t.Errorf("Missing Parse step for %q: %v", query, stepTitles(result.Steps))
		}
		if !hasStep(result.Steps, "Answer") {
			t.Errorf("Missing Answer step for %q: %v", query, stepTitles(result.Steps))
		}
		if result.Answer == "" {
			t.Errorf("Expected a non-empty answer for %q", query)
		}
	}
}

func TestReason_NoMatchesUsesFixedAnswer(t *testing.T) {
	p := newPipeline()
	result := p.Reason(context.Background(), "zzz nothing matches", nil)

	if result.Answer != answerNotFound {
		t.Errorf("Expected the not-found answer, got %q", result.Answer)
	}
	if len(result.Records) != 0 {
		t.Errorf("Expected no records, got %d", len(result.Records))
	}
}

func TestReason_PersonSearch(t *testing.T) {
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "1", Title: "Coffee with Sarah", Content: "Sarah suggested the book", Category: record.CategoryNote, Timestamp: now.Add(-time.Hour)},
		record.Record{ID: "2", Title: "Groceries", Content: "milk and eggs", Category: record.CategoryNote, Timestamp: now.Add(-2 * time.Hour)},
	)

	result := p.Reason(context.Background(), "What did Sarah say?", nil)

	if !hasStep(result.Steps, "People Search") {
		t.Fatalf("Expected a People Search step, got %v", stepTitles(result.Steps))
	}
	if len(result.Records) != 1 || result.Records[0].ID != "1" {
		t.Fatalf("Expected only the Sarah record, got %v", result.Records)
	}
	if !strings.Contains(result.Answer, "Connected to: Sarah") {
		t.Errorf("Expected the answer to name Sarah, got %q", result.Answer)
	}
}

func TestReason_PlaceSearch(t *testing.T) {
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "1", Title: "Trip notes", Content: "walking tour in Paris", Category: record.CategoryNote, Timestamp: now.Add(-time.Hour)},
	)

	result := p.Reason(context.Background(), "What happened in Paris?", nil)

	if !hasStep(result.Steps, "Place Search") {
		t.Fatalf("Expected a Place Search step, got %v", stepTitles(result.Steps))
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected one record, got %d", len(result.Records))
	}
}

func TestReason_TimeFilter(t *testing.T) {
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "old", Title: "Dinner with Sarah", Content: "pasta place", Category: record.CategoryNote, Timestamp: now.AddDate(0, 0, -10)},
		record.Record{ID: "fresh", Title: "Lunch with Sarah", Content: "new cafe", Category: record.CategoryNote, Timestamp: startOfDay(now).Add(-12 * time.Hour)},
	)

	result := p.Reason(context.Background(), "Where did I eat with Sarah yesterday?", nil)

	if !hasStep(result.Steps, "Time Filter") {
		t.Fatalf("Expected a Time Filter step, got %v", stepTitles(result.Steps))
	}
	for _, r := range result.Records {
		if r.ID == "old" {
			t.Error("Expected the ten-day-old record to be filtered out")
		}
	}
	if len(result.Records) != 1 || result.Records[0].ID != "fresh" {
		t.Fatalf("Expected only the fresh record, got %v", result.Records)
	}
}

func TestReason_SemanticFallbackWhenNoConstraints(t *testing.T) {
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "1", Title: "invoice scan", Content: "utility invoice", Category: record.CategoryFile, Timestamp: now},
	)

	result := p.Reason(context.Background(), "invoice", nil)

	if !hasStep(result.Steps, "Semantic Fallback") {
		t.Fatalf("Expected a Semantic Fallback step, got %v", stepTitles(result.Steps))
	}
	if len(result.Records) != 1 {
		t.Fatalf("Expected the fallback to find the record, got %d", len(result.Records))
	}
}

func TestReason_DeduplicatesAndRanks(t *testing.T) {
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "1", Title: "Sarah in Paris", Content: "met Sarah near the Paris office", Category: record.CategoryNote, Timestamp: now.Add(-time.Hour)},
		record.Record{ID: "2", Title: "Sarah call", Content: "quick sync", Category: record.CategoryNote, Timestamp: now.Add(-3 * time.Hour)},
	)

	// Record 1 matches both the person and the place term
	result := p.Reason(context.Background(), "Did I see Sarah in Paris?", nil)

	seen := make(map[string]bool)
	for _, r := range result.Records {
		if seen[r.ID] {
			t.Errorf("Duplicate record %s", r.ID)
		}
		seen[r.ID] = true
	}
	if len(result.Records) != 2 {
		t.Fatalf("Expected 2 unique records, got %d", len(result.Records))
	}
	if result.Records[0].ID != "1" {
		t.Errorf("Expected newest first, got %s", result.Records[0].ID)
	}
}

func TestReason_OnStepObservesEveryStep(t *testing.T) {
	p := newPipeline()

	var observed []Step
	result := p.Reason(context.Background(), "anything at all", func(s Step) {
		observed = append(observed, s)
	})

	if len(observed) != len(result.Steps) {
		t.Fatalf("Observer saw %d steps, result has %d", len(observed), len(result.Steps))
	}
	for i := range observed {
		if observed[i].Title != result.Steps[i].Title {
			t.Errorf("Step %d mismatch: %q vs %q", i, observed[i].Title, result.Steps[i].Title)
		}
	}
}

func TestReason_PublishesLatest(t *testing.T) {
	p := newPipeline()
	result := p.Reason(context.Background(), "hello", nil)

	if p.Latest() != result {
		t.Error("Expected Latest to return the last published result")
	}
}

func TestPublish_DropsStaleGeneration(t *testing.T) {
	p := newPipeline()

	stale := p.generation.Add(1)
	newer := p.generation.Add(1)

	newResult := &Result{Answer: "newer"}
	p.publish(newer, newResult)
	p.publish(stale, &Result{Answer: "stale"})

	if p.Latest() != newResult {
		t.Error("Expected the newer result to survive a stale publish")
	}
}

func TestReason_AnswerExcerptTruncated(t *testing.T) {
	long := strings.Repeat("memory content ", 20)
	now := time.Now()
	p := newPipeline(
		record.Record{ID: "1", Title: "Sarah notes", Content: long, Category: record.CategoryNote, Timestamp: now},
	)

	result := p.Reason(context.Background(), "notes about Sarah", nil)

	if !strings.Contains(result.Answer, "...") {
		t.Errorf("Expected a truncated excerpt, got %q", result.Answer)
	}
}
