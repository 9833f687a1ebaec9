package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/emiliopalmerini/rightcount/internal/domain"
)

// patternFile is the on-disk shape of patterns.toml:
//
//	[[patterns]]
//	name = "absolutely"
//	rule = "You(?:'re| are) absolutely right"
type patternFile struct {
	Patterns []patternEntry `toml:"patterns"`
}

type patternEntry struct {
	Name string `toml:"name"`
	Rule string `toml:"rule"`
}

// LoadPatterns reads pattern rules from path, keeping file order. When the
// file does not exist the built-in defaults are returned.
func LoadPatterns(path string) ([]domain.PatternRule, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.DefaultPatterns(), nil
	}

	var file patternFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("decode patterns %s: %w", path, err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("patterns file %s defines no patterns", path)
	}

	rules := make([]domain.PatternRule, len(file.Patterns))
	for i, p := range file.Patterns {
		rules[i] = domain.PatternRule{Name: p.Name, Rule: p.Rule}
	}
	return rules, nil
}
