package content

import (
	"regexp"
	"strings"
)

// Type is the content-type label of an Ink.
type Type string

const (
	TypeQuote       Type = "quote"
	TypePoem        Type = "poem"
	TypeAffirmation Type = "affirmation"
	TypeFact        Type = "fact"
	TypeStory       Type = "story"
	TypeDialogue    Type = "dialogue"
	TypeThought     Type = "thought"
)

// Types lists every label in rule order.
var Types = []Type{TypeQuote, TypePoem, TypeAffirmation, TypeFact, TypeStory, TypeDialogue, TypeThought}

// Valid reports whether t is one of the known labels.
func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

const (
	quoteMaxLength = 120
	storyMinLength = 200
)

var (
	affirmationWords = regexp.MustCompile(`(?i)\b(i am|i will|affirmation|manifest)`)
	factWords        = regexp.MustCompile(`(?i)\b(did you know|fact|science|study)`)
	storyWords       = regexp.MustCompile(`(?i)\b(once upon a time|story|chapter)`)
	sentenceEnd      = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// Classify assigns text exactly one Type. Rules are tried in order and the
// first match wins; the order is part of the contract.
func Classify(text string) Type {
	t := strings.TrimSpace(text)
	n := LengthOf(t)

	switch {
	case len(t) >= 2 && strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`) && n < quoteMaxLength:
		return TypeQuote
	case len(strings.Split(t, "\n")) > 2:
		return TypePoem
	case affirmationWords.MatchString(t):
		return TypeAffirmation
	case factWords.MatchString(t):
		return TypeFact
	case storyWords.MatchString(t):
		return TypeStory
	case sentenceCount(t) > 1 && n > storyMinLength:
		return TypeStory
	case strings.Contains(t, "?"):
		return TypeDialogue
	}
	return TypeThought
}

// sentenceCount counts non-blank fragments between sentence terminators. A
// terminator only counts when whitespace or the end of text follows it.
func sentenceCount(text string) int {
	n := 0
	for _, part := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			n++
		}
	}
	return n
}
