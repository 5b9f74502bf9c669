package entity

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Type classifies an extracted entity
type Type string

const (
	TypePerson       Type = "person"
	TypePlace        Type = "place"
	TypeOrganization Type = "organization"
	TypeTopic        Type = "topic"
	TypeCategory     Type = "category"
)

// Entity is one extracted (label, type) pair
type Entity struct {
	Label string `json:"label"`
	Type  Type   `json:"type"`
}

var urlRegex = regexp.MustCompile(`https?://[^\s<>"']+`)

// urlTopicMaxLen bounds the label of a URL that has no parseable host
const urlTopicMaxLen = 30

// placeCues are lowercase words that mark the following proper noun as a place
var placeCues = map[string]bool{
	"in": true, "at": true, "near": true, "to": true, "from": true,
}

// orgSuffixes mark a capitalized run as an organization by its last token
var orgSuffixes = map[string]bool{
	"inc": true, "inc.": true, "corp": true, "corp.": true, "ltd": true,
	"ltd.": true, "llc": true, "labs": true, "gmbh": true, "co": true,
	"co.": true, "company": true, "university": true, "bank": true,
	"studio": true, "agency": true,
}

// capitalizedStopwords are capitalized words that are never entities on
// their own: function words, pronouns, and temporal words
var capitalizedStopwords = map[string]bool{
	"i": true, "i'm": true, "i'll": true, "i've": true, "a": true, "an": true,
	"the": true, "this": true, "that": true, "these": true, "those": true,
	"my": true, "your": true, "his": true, "her": true, "its": true,
	"our": true, "their": true, "it": true, "it's": true, "we": true,
	"you": true, "he": true, "she": true, "they": true, "me": true,
	"what": true, "when": true, "where": true, "why": true, "how": true,
	"who": true, "which": true, "there": true, "here": true, "not": true,
	"no": true, "yes": true, "and": true, "or": true, "but": true, "if": true,
	"so": true, "as": true, "on": true, "of": true, "for": true, "with": true,
	"yesterday": true, "today": true, "tomorrow": true, "tonight": true,
	"morning": true, "evening": true, "night": true, "week": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"january": true, "february": true, "march": true, "april": true,
	"may": true, "june": true, "july": true, "august": true,
	"september": true, "october": true, "november": true, "december": true,
}

// placeGazetteer covers common city names so places are recognized without a
// cue preposition. Keys are lowercase.
var placeGazetteer = map[string]bool{
	"paris": true, "london": true, "tokyo": true, "berlin": true,
	"rome": true, "madrid": true, "amsterdam": true, "new york": true,
	"san francisco": true, "los angeles": true, "chicago": true,
	"seattle": true, "boston": true, "austin": true, "toronto": true,
	"vancouver": true, "sydney": true, "melbourne": true, "dubai": true,
	"singapore": true, "hong kong": true, "beijing": true, "shanghai": true,
	"moscow": true, "istanbul": true, "cairo": true, "mumbai": true,
	"delhi": true, "bangkok": true, "seoul": true, "lisbon": true,
	"barcelona": true, "munich": true, "vienna": true, "prague": true,
	"dublin": true, "edinburgh": true, "oslo": true, "stockholm": true,
	"copenhagen": true, "helsinki": true, "zurich": true, "geneva": true,
	"brussels": true, "warsaw": true, "budapest": true, "athens": true,
}

// orgGazetteer covers well-known organizations. Keys are lowercase.
var orgGazetteer = map[string]bool{
	"google": true, "apple": true, "microsoft": true, "amazon": true,
	"netflix": true, "spotify": true, "github": true, "slack": true,
	"zoom": true, "tesla": true, "meta": true, "openai": true,
	"adobe": true, "dropbox": true, "notion": true, "figma": true,
}

// nameGazetteer covers common first names so a sentence-initial single name
// is still caught. Keys are lowercase.
var nameGazetteer = map[string]bool{
	"john": true, "sarah": true, "michael": true, "emma": true,
	"david": true, "anna": true, "james": true, "mary": true,
	"robert": true, "linda": true, "alex": true, "laura": true,
	"peter": true, "sophie": true, "daniel": true, "emily": true,
	"thomas": true, "olivia": true, "mark": true, "julia": true,
	"kevin": true, "lisa": true, "brian": true, "rachel": true,
	"steven": true, "hannah": true, "paul": true, "claire": true,
	"george": true, "alice": true,
}

// Extract returns the named entities found in text: persons, places, and
// organizations from capitalized token runs, and URL hosts as topics. It is
// pure: no state, no side effects. Labels are deduplicated case-insensitively
// within one call, first occurrence wins.
func Extract(text string) []Entity {
	var entities []Entity
	seen := make(map[string]bool)

	add := func(label string, typ Type) {
		key := strings.ToLower(label)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		entities = append(entities, Entity{Label: label, Type: typ})
	}

	// URLs become topic entities keyed by host
	for _, raw := range urlRegex.FindAllString(text, -1) {
		add(urlTopicLabel(raw), TypeTopic)
	}
	text = urlRegex.ReplaceAllString(text, " ")

	tokens := tokenize(text)
	for i := 0; i < len(tokens); i++ {
		if !isEntityToken(tokens[i]) {
			continue
		}

		// Collect the full capitalized run
		j := i
		for j+1 < len(tokens) && isEntityToken(tokens[j+1]) && !tokens[j+1].sentenceStart {
			j++
		}
		words := make([]string, 0, j-i+1)
		for k := i; k <= j; k++ {
			words = append(words, tokens[k].word)
		}

		classify := func(start int, words []string) {
			label := strings.Join(words, " ")
			lower := strings.ToLower(label)
			switch {
			case placeGazetteer[lower]:
				add(label, TypePlace)
			case orgGazetteer[lower] || orgSuffixes[strings.ToLower(words[len(words)-1])]:
				add(label, TypeOrganization)
			case tokens[start].prevWord != "" && placeCues[tokens[start].prevWord]:
				add(label, TypePlace)
			default:
				add(label, TypePerson)
			}
		}

		if tokens[i].sentenceStart {
			lower := strings.ToLower(strings.Join(words, " "))
			switch {
			case placeGazetteer[lower] || orgGazetteer[lower] ||
				orgSuffixes[strings.ToLower(words[len(words)-1])] ||
				nameGazetteer[strings.ToLower(words[0])]:
				classify(i, words)
			case len(words) > 1:
				// The head token is usually just a capitalized sentence
				// opener ("Met John"); classify the rest of the run
				classify(i+1, words[1:])
			default:
				// A lone capitalized sentence opener is not an entity
			}
		} else {
			classify(i, words)
		}

		i = j
	}

	return entities
}

// urlTopicLabel derives the topic label for a URL: its host, or the first 30
// characters when no host parses
func urlTopicLabel(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	if len(raw) > urlTopicMaxLen {
		return raw[:urlTopicMaxLen]
	}
	return raw
}

type token struct {
	word          string
	prevWord      string // preceding word, lowercased, punctuation stripped
	sentenceStart bool
}

func tokenize(text string) []token {
	fields := strings.Fields(text)
	tokens := make([]token, 0, len(fields))

	prev := ""
	sentenceStart := true
	for _, f := range fields {
		endsSentence := strings.HasSuffix(f, ".") || strings.HasSuffix(f, "!") || strings.HasSuffix(f, "?")
		word := strings.Trim(f, ".,;:!?\"'()[]{}")
		if word == "" {
			sentenceStart = sentenceStart || endsSentence
			continue
		}
		tokens = append(tokens, token{
			word:          word,
			prevWord:      prev,
			sentenceStart: sentenceStart,
		})
		prev = strings.ToLower(word)
		sentenceStart = endsSentence
	}
	return tokens
}

// isEntityToken reports whether a token can start or extend an entity run
func isEntityToken(t token) bool {
	r := []rune(t.word)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return false
	}
	// All-caps tokens are acronyms or shouting, not names
	if len(r) > 1 && strings.ToUpper(t.word) == t.word {
		return false
	}
	if capitalizedStopwords[strings.ToLower(t.word)] {
		return false
	}
	for _, c := range r[1:] {
		if !unicode.IsLetter(c) && c != '\'' && c != '-' {
			return false
		}
	}
	return true
}
