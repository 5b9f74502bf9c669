package record

import (
	"context"
	"testing"
	"time"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"clipboard", CategoryClipboard},
		{"file", CategoryFile},
		{"note", CategoryNote},
		{"link", CategoryLink},
		{"address", CategoryAddress},
		{"message", CategoryMessage},
		{"manual", CategoryManual},
		{"", CategoryManual},
		{"telegram", CategoryManual},
		{"NOTE", CategoryManual},
	}
	for _, tt := range tests {
		if got := ParseCategory(tt.in); got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCategoryDisplay(t *testing.T) {
	for _, c := range Categories() {
		d := c.Display()
		if d.Label == "" || d.Icon == "" || d.Color == "" {
			t.Errorf("Category %s has incomplete display attributes: %+v", c, d)
		}
	}
	// Unknown categories fall back to the manual display
	if Category("bogus").Display() != CategoryManual.Display() {
		t.Error("Expected unknown category to display as manual")
	}
}

func TestSliceStore_Recent(t *testing.T) {
	now := time.Now()
	store := NewSliceStore(
		Record{ID: "old", Timestamp: now.Add(-2 * time.Hour)},
		Record{ID: "new", Timestamp: now},
		Record{ID: "mid", Timestamp: now.Add(-time.Hour)},
	)

	got, err := store.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		t.Errorf("Expected [new mid], got %v", got)
	}
}

func TestSliceStore_RangeIsHalfOpen(t *testing.T) {
	base := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	store := NewSliceStore(
		Record{ID: "before", Timestamp: base.Add(-time.Second)},
		Record{ID: "atStart", Timestamp: base},
		Record{ID: "inside", Timestamp: base.Add(time.Hour)},
		Record{ID: "atEnd", Timestamp: base.Add(24 * time.Hour)},
	)

	got, err := store.Range(context.Background(), base, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "atStart" || got[1].ID != "inside" {
		t.Errorf("Expected [atStart inside] oldest first, got %v", got)
	}
}

func TestSliceStore_SubstringMatchesTitleContentTags(t *testing.T) {
	now := time.Now()
	store := NewSliceStore(
		Record{ID: "title", Title: "Invoice scan", Timestamp: now},
		Record{ID: "content", Content: "the INVOICE is due", Timestamp: now.Add(-time.Hour)},
		Record{ID: "tag", Tags: []string{"invoices"}, Timestamp: now.Add(-2 * time.Hour)},
		Record{ID: "miss", Title: "groceries", Content: "milk", Timestamp: now.Add(-3 * time.Hour)},
	)

	got, err := store.Substring(context.Background(), "invoice")
	if err != nil {
		t.Fatalf("Substring failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(got))
	}
	if got[0].ID != "title" || got[1].ID != "content" || got[2].ID != "tag" {
		t.Errorf("Expected newest first [title content tag], got %v", got)
	}
}

func TestSliceStore_Add(t *testing.T) {
	store := NewSliceStore()
	store.Add(Record{ID: "1"}, Record{ID: "2"})

	count, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2, got %d", count)
	}
}
