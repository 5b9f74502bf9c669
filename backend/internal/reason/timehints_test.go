package reason

import (
	"testing"
	"time"
)

func TestExtractTimeHint(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Where did I eat yesterday?", "yesterday"},
		{"what did I copy TODAY", "today"},
		{"notes from last week", "last week"},
		{"anything from this week?", "this week"},
		{"files from last month", "last month"},
		{"what happened this morning", "this morning"},
		{"messages from last night", "last night"},
		{"what did I save 2 days ago", "2 days ago"},
		{"that link from a week ago", "a week ago"},
		{"no temporal phrase here", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractTimeHint(tt.text); got != tt.want {
			t.Errorf("ExtractTimeHint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractTimeHint_FirstMatchWins(t *testing.T) {
	// "yesterday" precedes "today" in the vocabulary
	if got := ExtractTimeHint("yesterday, not today"); got != "yesterday" {
		t.Errorf("Expected yesterday, got %q", got)
	}
}

func TestResolveTimeHint_Yesterday(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	start, end := ResolveTimeHint("yesterday", now)

	wantStart := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Errorf("Got [%v, %v), want [%v, %v)", start, end, wantStart, wantEnd)
	}
}

func TestResolveTimeHint_Today(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	start, end := ResolveTimeHint("today", now)

	if !start.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected midnight start, got %v", start)
	}
	if !end.Equal(now) {
		t.Errorf("Expected end at now, got %v", end)
	}
}

func TestResolveTimeHint_ThisWeekStartsMonday(t *testing.T) {
	// 2024-06-15 is a Saturday; the week began Monday 2024-06-10
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	start, _ := ResolveTimeHint("this week", now)

	want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("Expected Monday %v, got %v", want, start)
	}

	// A Monday is its own week start
	monday := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	start, _ = ResolveTimeHint("this week", monday)
	if !start.Equal(want) {
		t.Errorf("Expected Monday %v, got %v", want, start)
	}
}

func TestResolveTimeHint_LastNight(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	start, end := ResolveTimeHint("last night", now)

	if !end.Equal(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end at midnight, got %v", end)
	}
	if !start.Equal(time.Date(2024, 6, 14, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start at 6pm the previous evening, got %v", start)
	}
}

func TestResolveTimeHint_DaysAgoResolvesToTrailingWeek(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)

	// The vocabulary recognizes these phrases but the resolver maps them to
	// the default trailing-week window
	for _, hint := range []string{"2 days ago", "3 days ago", "a week ago"} {
		start, end := ResolveTimeHint(hint, now)
		if !start.Equal(now.AddDate(0, 0, -7)) || !end.Equal(now) {
			t.Errorf("Expected trailing week for %q, got [%v, %v)", hint, start, end)
		}
	}
}

func TestResolveTimeHint_LastMonth(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	start, end := ResolveTimeHint("last month", now)

	if !start.Equal(time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)) {
		t.Errorf("Expected one calendar month back, got %v", start)
	}
	if !end.Equal(now) {
		t.Errorf("Expected end at now, got %v", end)
	}
}
