package content

import (
	"regexp"
)

// Reason is a machine-readable rejection code.
type Reason string

const (
	ReasonProfanity          Reason = "profanity"
	ReasonEmojiSpam          Reason = "emoji_spam"
	ReasonRepeatedChars      Reason = "repeated_chars"
	ReasonLinkNotAllowed     Reason = "link_not_allowed"
	ReasonLengthOutOfBounds  Reason = "length_out_of_bounds"
	ReasonPunctuationOnly    Reason = "punctuation_only"
	ReasonInvalidCharacters  Reason = "invalid_characters"
	ReasonUsernameTaken      Reason = "username_taken"
	ReasonInvalidPermission  Reason = "invalid_permission_status"
	ReasonUnknownContentKind Reason = "unknown_content_kind"
)

// Verdict is the outcome of Gate.Evaluate. Accepted is true iff Reasons is
// empty.
type Verdict struct {
	Accepted bool     `json:"accepted"`
	Reasons  []Reason `json:"reasons"`
}

// Has reports whether r is among the reasons.
func (v Verdict) Has(r Reason) bool {
	for _, x := range v.Reasons {
		if x == r {
			return true
		}
	}
	return false
}

// Gate decides whether text may be persisted. It is safe for concurrent use.
type Gate struct {
	policy *Policy
}

// NewGate returns a Gate enforcing p; nil means DefaultPolicy.
func NewGate(p *Policy) *Gate {
	if p == nil {
		p = DefaultPolicy()
	}
	return &Gate{policy: p}
}

// Policy returns the policy the gate enforces.
func (g *Gate) Policy() *Policy {
	return g.policy
}

// Evaluate runs every check against text. All checks run even after a
// failure, so Reasons can hold several codes; they appear in a fixed order.
func (g *Gate) Evaluate(text string, b Bounds) Verdict {
	reasons := []Reason{}

	if containsAny(text, g.policy.Denylist) {
		reasons = append(reasons, ReasonProfanity)
	}
	if IsEmojiSpam(text) {
		reasons = append(reasons, ReasonEmojiSpam)
	}
	if IsRepeatedCharSpam(text) {
		reasons = append(reasons, ReasonRepeatedChars)
	}
	if !b.AllowLinks && ContainsLink(text) {
		reasons = append(reasons, ReasonLinkNotAllowed)
	}
	if !IsLengthValid(text, b.Min, b.Max) {
		reasons = append(reasons, ReasonLengthOutOfBounds)
	}
	if IsOnlyPunctuationOrWhitespace(text) {
		reasons = append(reasons, ReasonPunctuationOnly)
	}

	return Verdict{Accepted: len(reasons) == 0, Reasons: reasons}
}

// EvaluateKind is Evaluate with the policy bounds registered for kind.
func (g *Gate) EvaluateKind(text string, kind Kind) Verdict {
	return g.Evaluate(text, g.policy.BoundsFor(kind))
}

const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateUsername checks length (3-30), the allowed character set
// [a-zA-Z0-9._-] and the denylist. It returns a *ValidationError or nil.
func (g *Gate) ValidateUsername(name string) error {
	reasons := []Reason{}
	if !IsLengthValid(name, UsernameMinLength, UsernameMaxLength) {
		reasons = append(reasons, ReasonLengthOutOfBounds)
	}
	if !usernamePattern.MatchString(name) {
		reasons = append(reasons, ReasonInvalidCharacters)
	}
	if containsAny(name, g.policy.Denylist) {
		reasons = append(reasons, ReasonProfanity)
	}
	if len(reasons) > 0 {
		return &ValidationError{Field: "username", Reasons: reasons}
	}
	return nil
}
