package story

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"recall/backend/internal/constants"
	"recall/backend/internal/entity"
	"recall/backend/internal/record"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// CategoryCount is one (category, count) pair in the story stats
type CategoryCount struct {
	Category record.Category `json:"category"`
	Count    int             `json:"count"`
}

// EntityCount is one (entity label, mention count) pair in the story stats
type EntityCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes one story window. Rebuilt fully on each invocation.
type Stats struct {
	Total          int             `json:"total"`
	TopCategories  []CategoryCount `json:"top_categories"`
	TopEntities    []EntityCount   `json:"top_entities"`
	FileCount      int             `json:"file_count"`
	ClipboardCount int             `json:"clipboard_count"`
	LinkCount      int             `json:"link_count"`
}

// Story is a templated narrative digest over one fixed time window
type Story struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Icon        string    `json:"icon"`
	Narrative   string    `json:"narrative"`
	Stats       Stats     `json:"stats"`
	Gradient    [2]string `json:"gradient"`
	RecordCount int       `json:"record_count"`
}

// window describes one of the three fixed story windows
type window struct {
	title    string
	subtitle string
	icon     string
	gradient [2]string
	rangeFn  func(now time.Time) (time.Time, time.Time)
	opening  func(count int) string
}

var windows = []window{
	{
		title:    "Yesterday",
		subtitle: "A look back at your day",
		icon:     "sun.haze",
		gradient: [2]string{"#FF9500", "#FF2D55"},
		rangeFn: func(now time.Time) (time.Time, time.Time) {
			return startOfDay(now.AddDate(0, 0, -1)), startOfDay(now)
		},
		opening: func(count int) string {
			if count > 10 {
				return fmt.Sprintf("You had a busy and productive day yesterday, capturing %d memories.", count)
			}
			return fmt.Sprintf("Yesterday you captured %d %s.", count, pluralize(count))
		},
	},
	{
		title:    "This Week",
		subtitle: "Your week so far",
		icon:     "calendar",
		gradient: [2]string{"#007AFF", "#5856D6"},
		rangeFn: func(now time.Time) (time.Time, time.Time) {
			return startOfWeek(now), now
		},
		opening: func(count int) string {
			return fmt.Sprintf("So far this week you've collected %d %s.", count, pluralize(count))
		},
	},
	{
		title:    "Last 30 Days",
		subtitle: "The bigger picture",
		icon:     "clock.arrow.circlepath",
		gradient: [2]string{"#34C759", "#30B0C7"},
		rangeFn: func(now time.Time) (time.Time, time.Time) {
			return now.AddDate(0, 0, -30), now
		},
		opening: func(count int) string {
			return fmt.Sprintf("Over the last 30 days you've built up %d %s.", count, pluralize(count))
		},
	},
}

// Generator produces narrative digests over fixed time windows. Narration is
// template-filled; no model is consulted.
type Generator struct {
	store  record.Store
	logger *zap.Logger
}

// NewGenerator creates a story generator
func NewGenerator(store record.Store) *Generator {
	return &Generator{
		store:  store,
		logger: logger.Named("story"),
	}
}

// Generate returns up to three stories (Yesterday, This Week, Last 30 Days).
// Windows with no records are omitted; fetch failures skip their window.
func (g *Generator) Generate(ctx context.Context) []Story {
	now := time.Now()
	var stories []Story

	for _, w := range windows {
		start, end := w.rangeFn(now)
		records, err := g.store.Range(ctx, start, end)
		if err != nil {
			g.logger.Warn("Window fetch failed", zap.String("window", w.title), zap.Error(err))
			continue
		}
		if len(records) == 0 {
			continue
		}
		stories = append(stories, g.buildStory(w, records))
	}

	g.logger.Debug("Stories generated", zap.Int("count", len(stories)))
	return stories
}

func (g *Generator) buildStory(w window, records []record.Record) Story {
	stats := buildStats(records)
	return Story{
		Title:       w.title,
		Subtitle:    w.subtitle,
		Icon:        w.icon,
		Narrative:   buildNarrative(w, stats),
		Stats:       stats,
		Gradient:    w.gradient,
		RecordCount: stats.Total,
	}
}

func buildStats(records []record.Record) Stats {
	stats := Stats{Total: len(records)}

	catCounts := make(map[record.Category]int)
	var catOrder []record.Category
	entCounts := make(map[string]int)
	var entOrder []string

	for _, r := range records {
		if catCounts[r.Category] == 0 {
			catOrder = append(catOrder, r.Category)
		}
		catCounts[r.Category]++

		for _, ent := range entity.Extract(r.SearchText()) {
			if ent.Type != entity.TypePerson && ent.Type != entity.TypePlace {
				continue
			}
			if entCounts[ent.Label] == 0 {
				entOrder = append(entOrder, ent.Label)
			}
			entCounts[ent.Label]++
		}
	}

	sort.SliceStable(catOrder, func(i, j int) bool {
		return catCounts[catOrder[i]] > catCounts[catOrder[j]]
	})
	for i, c := range catOrder {
		if i == constants.StoryTopCategories {
			break
		}
		stats.TopCategories = append(stats.TopCategories, CategoryCount{Category: c, Count: catCounts[c]})
	}

	sort.SliceStable(entOrder, func(i, j int) bool {
		return entCounts[entOrder[i]] > entCounts[entOrder[j]]
	})
	for i, label := range entOrder {
		if i == constants.StoryTopEntities {
			break
		}
		stats.TopEntities = append(stats.TopEntities, EntityCount{Label: label, Count: entCounts[label]})
	}

	stats.FileCount = catCounts[record.CategoryFile]
	stats.ClipboardCount = catCounts[record.CategoryClipboard]
	stats.LinkCount = catCounts[record.CategoryLink]

	return stats
}

// buildNarrative joins the ordered clauses: opening, categories, people and
// places, closing
func buildNarrative(w window, stats Stats) string {
	clauses := []string{w.opening(stats.Total)}

	if len(stats.TopCategories) > 0 {
		labels := make([]string, len(stats.TopCategories))
		for i, c := range stats.TopCategories {
			labels[i] = c.Category.Display().Label
		}
		clauses = append(clauses, fmt.Sprintf("Most of it came from %s captures.", joinNatural(labels)))
	}

	if names := properNouns(stats.TopEntities, constants.StoryClausePeople); len(names) > 0 {
		clauses = append(clauses, fmt.Sprintf("%s kept coming up.", joinNatural(names)))
	}

	switch {
	case stats.Total > 15:
		clauses = append(clauses, "You've been highly active and your memory archive is growing fast.")
	case stats.Total > 5:
		clauses = append(clauses, "That's steady progress on building your memory archive.")
	default:
		clauses = append(clauses, "Keep capturing; every memory adds to the picture.")
	}

	return strings.Join(clauses, " ")
}

// properNouns filters top entities to uppercase-initial labels, keeping at
// most limit
func properNouns(entities []EntityCount, limit int) []string {
	var out []string
	for _, e := range entities {
		runes := []rune(e.Label)
		if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
			continue
		}
		out = append(out, e.Label)
		if len(out) == limit {
			break
		}
	}
	return out
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func pluralize(count int) string {
	if count == 1 {
		return "memory"
	}
	return "memories"
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -offset))
}
