// Package content holds the text rules applied to user-authored Inks: signal
// extraction, type classification and the moderation gate. Everything here is
// pure; persistence and messaging belong to the callers.
package content

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rivo/uniseg"
)

// TagsAndMood is the result of ExtractTagsAndMood. Mood is empty when the
// text carries no emoji.
type TagsAndMood struct {
	Tags []string `json:"tags"`
	Mood string   `json:"mood,omitempty"`
}

// LengthOf returns the number of user-perceived characters (grapheme
// clusters) in text. All length rules use it.
func LengthOf(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// ExtractTagsAndMood returns the distinct hashtags of text in order of first
// appearance and the first emoji as mood. A hashtag is '#' followed by one or
// more letters, digits or emoji; the '#' is part of the tag.
func ExtractTagsAndMood(text string) TagsAndMood {
	res := TagsAndMood{Tags: []string{}}
	if text == "" {
		return res
	}

	seen := map[string]struct{}{}
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		tag := string(runes[i:j])
		if _, dup := seen[tag]; !dup {
			seen[tag] = struct{}{}
			res.Tags = append(res.Tags, tag)
		}
		i = j - 1
	}

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if r := g.Runes(); IsEmoji(r[0]) {
			res.Mood = g.Str()
			break
		}
	}
	return res
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		IsEmoji(r) || isEmojiJoiner(r)
}

// ContainsProfanity reports whether any word of the default denylist occurs
// in text, ignoring case. Matching is by substring, so listed words inside
// longer words match too.
func ContainsProfanity(text string) bool {
	return containsAny(text, DefaultDenylist)
}

func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if w != "" && strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

var (
	markupTag   = regexp.MustCompile(`(?s)<!--.*?-->|<[^>]*>`)
	blankRun    = regexp.MustCompile(`[^\S\n]+`)
	strictHTML  = bluemonday.StrictPolicy()
	linkPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s]+`)
)

// StripMarkup removes every tag, attribute and comment from text and decodes
// entities, leaving no '<' or '>' behind. Line breaks survive; other
// whitespace runs collapse to one space and each line is trimmed.
func StripMarkup(text string) string {
	s := markupTag.ReplaceAllString(text, "")
	s = html.UnescapeString(strictHTML.Sanitize(s))
	s = strings.NewReplacer("<", "", ">", "").Replace(s)

	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(blankRun.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SanitizePlainText is StripMarkup followed by collapsing all whitespace,
// line breaks included, to single spaces.
func SanitizePlainText(text string) string {
	return strings.Join(strings.Fields(StripMarkup(text)), " ")
}

// IsEmojiSpam reports whether more than half of the characters of a
// non-empty text are emoji.
func IsEmojiSpam(text string) bool {
	var total, emoji int
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		total++
		if IsEmoji(g.Runes()[0]) {
			emoji++
		}
	}
	return total > 0 && float64(emoji)/float64(total) > 0.5
}

// repeatThreshold is the run length at which a repeated character is spam.
const repeatThreshold = 5

// IsRepeatedCharSpam reports whether any character repeats five or more
// times in a row.
func IsRepeatedCharSpam(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if run > 0 && r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= repeatThreshold {
			return true
		}
	}
	return false
}

// ContainsLink reports whether text contains an http:// or https:// URL.
func ContainsLink(text string) bool {
	return linkPattern.MatchString(text)
}

// IsLengthValid reports whether LengthOf(text) lies within [min, max].
func IsLengthValid(text string, min, max int) bool {
	n := LengthOf(text)
	return n >= min && n <= max
}

// IsOnlyPunctuationOrWhitespace reports whether text has no letter and no
// digit. The empty string qualifies.
func IsOnlyPunctuationOrWhitespace(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
