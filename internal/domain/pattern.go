package domain

import (
	"fmt"
	"regexp"
)

// PatternRule is an uncompiled pattern definition: a stable name and a
// regular expression source. Rules are matched case-insensitively.
type PatternRule struct {
	Name string
	Rule string
}

// DefaultPatterns returns the built-in pattern table, used when no pattern
// file is configured. The first entry is the lead pattern for per-project
// tallies.
func DefaultPatterns() []PatternRule {
	return []PatternRule{
		{Name: "absolutely", Rule: `You(?:'re| are) absolutely right`},
		{Name: "right", Rule: `You(?:'re| are) right`},
		{Name: "perfect", Rule: `Perfect!`},
		{Name: "excellent", Rule: `Excellent!`},
	}
}

type pattern struct {
	name string
	rule string
	rx   *regexp.Regexp
}

// PatternSet is an ordered collection of compiled patterns. It is built once
// at startup and read-only afterwards.
type PatternSet struct {
	patterns []pattern
}

// NewPatternSet compiles the given rules. Duplicate names and invalid
// expressions are rejected.
func NewPatternSet(rules []PatternRule) (*PatternSet, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("pattern set is empty")
	}

	set := &PatternSet{patterns: make([]pattern, 0, len(rules))}
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("pattern with empty name")
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("duplicate pattern name %q", r.Name)
		}
		rx, err := regexp.Compile("(?i)" + r.Rule)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", r.Name, err)
		}
		seen[r.Name] = struct{}{}
		set.patterns = append(set.patterns, pattern{name: r.Name, rule: r.Rule, rx: rx})
	}
	return set, nil
}

// Match returns the names of all patterns found anywhere in body, in set
// order. A pattern contributes its name at most once no matter how many
// times its rule occurs in the body.
func (s *PatternSet) Match(body string) []string {
	var matched []string
	for _, p := range s.patterns {
		if p.rx.MatchString(body) {
			matched = append(matched, p.name)
		}
	}
	return matched
}

// Names returns all pattern names in set order.
func (s *PatternSet) Names() []string {
	names := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		names[i] = p.name
	}
	return names
}

// Rules returns the uncompiled rules in set order.
func (s *PatternSet) Rules() []PatternRule {
	rules := make([]PatternRule, len(s.patterns))
	for i, p := range s.patterns {
		rules[i] = PatternRule{Name: p.name, Rule: p.rule}
	}
	return rules
}

// Lead returns the name of the first pattern in the set.
func (s *PatternSet) Lead() string {
	return s.patterns[0].name
}
