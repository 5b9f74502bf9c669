package reason

import (
	"strings"
	"time"
)

// timeHintVocabulary is the fixed phrase list the parser scans for, checked
// in this order with first-match-wins containment.
var timeHintVocabulary = []string{
	"yesterday",
	"today",
	"last week",
	"this week",
	"last month",
	"this morning",
	"last night",
	"2 days ago",
	"3 days ago",
	"a week ago",
}

// ExtractTimeHint returns the first vocabulary phrase contained in text,
// case-insensitively, or "" when none matches
func ExtractTimeHint(text string) string {
	lower := strings.ToLower(text)
	for _, hint := range timeHintVocabulary {
		if strings.Contains(lower, hint) {
			return hint
		}
	}
	return ""
}

// ResolveTimeHint maps a hint to a concrete [start, end) range relative to
// now. Unrecognized hints resolve to the trailing week. The "N days ago"
// phrases land here too: the vocabulary matches them but this table does not
// special-case them.
func ResolveTimeHint(hint string, now time.Time) (time.Time, time.Time) {
	switch hint {
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), startOfDay(now)
	case "today":
		return startOfDay(now), now
	case "last week":
		return now.AddDate(0, 0, -7), now
	case "this week":
		return startOfWeek(now), now
	case "last month":
		return now.AddDate(0, -1, 0), now
	case "this morning":
		return startOfDay(now), now
	case "last night":
		return startOfDay(now).Add(-6 * time.Hour), startOfDay(now)
	default:
		return now.AddDate(0, 0, -7), now
	}
}

// startOfDay returns midnight of t's calendar day in t's location
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns Monday midnight of t's calendar week
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -offset))
}
