package record

import "time"

// Category classifies how a memory record was captured. The set is closed;
// anything else is normalized to CategoryManual.
type Category string

const (
	CategoryClipboard Category = "clipboard"
	CategoryFile      Category = "file"
	CategoryMessage   Category = "message"
	CategoryNote      Category = "note"
	CategoryLink      Category = "link"
	CategoryAddress   Category = "address"
	CategoryManual    Category = "manual"
)

// Display holds the presentation attributes of a category
type Display struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// categoryDisplay maps each category to its presentation attributes
var categoryDisplay = map[Category]Display{
	CategoryClipboard: {Label: "Clipboard", Icon: "doc.on.clipboard", Color: "#FF9500"},
	CategoryFile:      {Label: "File", Icon: "doc", Color: "#007AFF"},
	CategoryMessage:   {Label: "Message", Icon: "message", Color: "#34C759"},
	CategoryNote:      {Label: "Note", Icon: "note.text", Color: "#FFCC00"},
	CategoryLink:      {Label: "Link", Icon: "link", Color: "#5856D6"},
	CategoryAddress:   {Label: "Address", Icon: "mappin", Color: "#FF2D55"},
	CategoryManual:    {Label: "Manual", Icon: "square.and.pencil", Color: "#8E8E93"},
}

// ParseCategory normalizes a raw string to a known category
func ParseCategory(s string) Category {
	c := Category(s)
	if _, ok := categoryDisplay[c]; ok {
		return c
	}
	return CategoryManual
}

// Display returns the presentation attributes for the category
func (c Category) Display() Display {
	if d, ok := categoryDisplay[c]; ok {
		return d
	}
	return categoryDisplay[CategoryManual]
}

// Categories lists all known categories in a stable order
func Categories() []Category {
	return []Category{
		CategoryClipboard,
		CategoryFile,
		CategoryMessage,
		CategoryNote,
		CategoryLink,
		CategoryAddress,
		CategoryManual,
	}
}

// Record is one captured snippet of user content. The ingestion side owns its
// lifecycle and fingerprint; this core only reads it.
type Record struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    Category  `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source,omitempty"`
	FilePath    string    `json:"file_path,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Favorite    bool      `json:"favorite"`
	Fingerprint string    `json:"fingerprint,omitempty"`
}

// SearchText returns the text the search and graph layers scan
func (r Record) SearchText() string {
	return r.Title + " " + r.Content
}
