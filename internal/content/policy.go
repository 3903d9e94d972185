package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind names a category of moderated text with its own bounds.
type Kind string

const (
	KindInk      Kind = "ink"
	KindName     Kind = "name"
	KindBio      Kind = "bio"
	KindLocation Kind = "location"
)

// Bounds are the per-kind length limits (inclusive) and link policy.
type Bounds struct {
	Min        int  `yaml:"min" json:"min"`
	Max        int  `yaml:"max" json:"max"`
	AllowLinks bool `yaml:"allow_links" json:"allow_links"`
}

// Policy is the moderation configuration: the denylist and the bounds of each
// Kind.
type Policy struct {
	Denylist []string        `yaml:"denylist"`
	Bounds   map[Kind]Bounds `yaml:"bounds"`
}

// DefaultPolicy returns the built-in policy. Each call returns a fresh copy.
func DefaultPolicy() *Policy {
	return &Policy{
		Denylist: append([]string(nil), DefaultDenylist...),
		Bounds: map[Kind]Bounds{
			KindInk:      {Min: 1, Max: 500},
			KindName:     {Min: 1, Max: 50},
			KindBio:      {Min: 1, Max: 160, AllowLinks: true},
			KindLocation: {Min: 1, Max: 100},
		},
	}
}

// BoundsFor returns the bounds of kind, falling back to the ink bounds for
// unknown kinds.
func (p *Policy) BoundsFor(kind Kind) Bounds {
	if b, ok := p.Bounds[kind]; ok {
		return b
	}
	return p.Bounds[KindInk]
}

// LoadPolicy reads a YAML policy file and lays it over DefaultPolicy: a
// denylist in the file replaces the built-in one, and bounds are replaced per
// kind.
//
//	denylist: [darn, heck]
//	bounds:
//	  ink: {min: 1, max: 280, allow_links: false}
func LoadPolicy(path string) (*Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(b)
}

// ParsePolicy is LoadPolicy over raw YAML.
func ParsePolicy(b []byte) (*Policy, error) {
	var file Policy
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	p := DefaultPolicy()
	if file.Denylist != nil {
		p.Denylist = file.Denylist
	}
	for kind, bounds := range file.Bounds {
		if bounds.Min < 0 || bounds.Max < bounds.Min {
			return nil, fmt.Errorf("policy bounds for %s: min %d, max %d", kind, bounds.Min, bounds.Max)
		}
		p.Bounds[kind] = bounds
	}
	return p, nil
}
