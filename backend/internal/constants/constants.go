package constants

import "time"

// Graph constants
const (
	// GraphRecordLimit is how many recent records feed one graph build
	GraphRecordLimit = 200

	// MaxGraphNodes caps the node set after the weight cut
	MaxGraphNodes = 40

	// LayoutTickInterval is the fixed timestep of the force simulation
	LayoutTickInterval = 33 * time.Millisecond

	// LayoutDuration is the wall-clock budget after which the simulation halts
	LayoutDuration = 5 * time.Second
)

// Search constants
const (
	// KeywordFetchLimit caps the keyword pass fetch
	KeywordFetchLimit = 50

	// SemanticCandidateLimit caps the records scored by the semantic pass
	SemanticCandidateLimit = 200

	// SearchResultLimit caps the merged result list
	SearchResultLimit = 20

	// CosineWeight and RecencyWeight combine into the semantic score
	CosineWeight  = 0.7
	RecencyWeight = 0.3

	// RecencyHorizonHours is the age at which the recency score reaches zero
	RecencyHorizonHours = 168.0
)

// Reasoning constants
const (
	// TermFetchLimit caps the per-term fetch in people/place search
	TermFetchLimit = 20

	// ReasonResultLimit caps the final ranked result list
	ReasonResultLimit = 10

	// AnswerExcerptLength is the excerpt cut for the answer template
	AnswerExcerptLength = 80
)

// Story constants
const (
	// StoryTopCategories is how many category counts a story reports
	StoryTopCategories = 3

	// StoryTopEntities is how many entity mention counts a story reports
	StoryTopEntities = 5

	// StoryClausePeople is how many proper nouns the people clause names
	StoryClausePeople = 3
)
