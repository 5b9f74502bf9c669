package entity

import (
	"strings"
	"testing"
)

func findEntity(entities []Entity, label string) (Entity, bool) {
	for _, e := range entities {
		if strings.EqualFold(e.Label, label) {
			return e, true
		}
	}
	return Entity{}, false
}

func TestExtract_PersonAndPlace(t *testing.T) {
	entities := Extract("Met John in Paris for lunch")

	john, ok := findEntity(entities, "John")
	if !ok {
		t.Fatal("Expected John to be extracted")
	}
	if john.Type != TypePerson {
		t.Errorf("Expected John to be a person, got %s", john.Type)
	}

	paris, ok := findEntity(entities, "Paris")
	if !ok {
		t.Fatal("Expected Paris to be extracted")
	}
	if paris.Type != TypePlace {
		t.Errorf("Expected Paris to be a place, got %s", paris.Type)
	}

	if _, ok := findEntity(entities, "Met"); ok {
		t.Error("Sentence opener 'Met' should not be an entity")
	}
}

func TestExtract_PlaceByCuePreposition(t *testing.T) {
	entities := Extract("dinner at Quixotia tonight")

	place, ok := findEntity(entities, "Quixotia")
	if !ok {
		t.Fatal("Expected Quixotia to be extracted")
	}
	if place.Type != TypePlace {
		t.Errorf("Expected place after 'at', got %s", place.Type)
	}
}

func TestExtract_Organizations(t *testing.T) {
	entities := Extract("Interview scheduled with Acme Corp and a call about Google")

	acme, ok := findEntity(entities, "Acme Corp")
	if !ok {
		t.Fatal("Expected Acme Corp to be extracted")
	}
	if acme.Type != TypeOrganization {
		t.Errorf("Expected Acme Corp to be an organization, got %s", acme.Type)
	}

	google, ok := findEntity(entities, "Google")
	if !ok {
		t.Fatal("Expected Google to be extracted")
	}
	if google.Type != TypeOrganization {
		t.Errorf("Expected Google to be an organization, got %s", google.Type)
	}
}

func TestExtract_URLHostBecomesTopic(t *testing.T) {
	entities := Extract("reading https://example.com/articles/42 later")

	topic, ok := findEntity(entities, "example.com")
	if !ok {
		t.Fatal("Expected URL host to be extracted as topic")
	}
	if topic.Type != TypeTopic {
		t.Errorf("Expected topic, got %s", topic.Type)
	}
}

func TestExtract_URLWithoutHostTruncated(t *testing.T) {
	raw := "http:///a/very/long/path/that/keeps/going/on/and/on"
	entities := Extract("saved " + raw)

	if len(entities) != 1 {
		t.Fatalf("Expected 1 entity, got %d", len(entities))
	}
	if entities[0].Type != TypeTopic {
		t.Errorf("Expected topic, got %s", entities[0].Type)
	}
	if len(entities[0].Label) != urlTopicMaxLen {
		t.Errorf("Expected label truncated to %d chars, got %d", urlTopicMaxLen, len(entities[0].Label))
	}
}

func TestExtract_DeduplicatesCaseInsensitively(t *testing.T) {
	entities := Extract("Flight to Paris booked. Hotel in Paris confirmed.")

	count := 0
	for _, e := range entities {
		if strings.EqualFold(e.Label, "Paris") {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected Paris once, got %d", count)
	}
}

func TestExtract_IgnoresNoise(t *testing.T) {
	cases := []string{
		"",
		"all lowercase text with no entities at all",
		"TODO FIXME ASAP",
		"The This That",
		"Yesterday I went shopping",
	}
	for _, text := range cases {
		if entities := Extract(text); len(entities) != 0 {
			t.Errorf("Expected no entities for %q, got %v", text, entities)
		}
	}
}

func TestExtract_SentenceInitialKnownName(t *testing.T) {
	entities := Extract("Sarah called about the invoice")

	sarah, ok := findEntity(entities, "Sarah")
	if !ok {
		t.Fatal("Expected Sarah to be extracted")
	}
	if sarah.Type != TypePerson {
		t.Errorf("Expected Sarah to be a person, got %s", sarah.Type)
	}
}

func TestExtract_MultiWordPlace(t *testing.T) {
	entities := Extract("New York was crowded this weekend")

	ny, ok := findEntity(entities, "New York")
	if !ok {
		t.Fatal("Expected New York to be extracted")
	}
	if ny.Type != TypePlace {
		t.Errorf("Expected New York to be a place, got %s", ny.Type)
	}
}
