package cli

import (
	"fmt"
	"strings"

	"github.com/emiliopalmerini/rightcount/internal/config"
	"github.com/emiliopalmerini/rightcount/internal/domain"
	"github.com/emiliopalmerini/rightcount/internal/ledger"
	"github.com/emiliopalmerini/rightcount/internal/scanner"
)

// buildScanner assembles the scan pipeline from configuration: pattern set,
// dedup ledger, and local counts, all loaded once and threaded through
// explicitly.
func buildScanner(cfg *config.Scanner) (*scanner.Scanner, *domain.PatternSet, error) {
	rules, err := config.LoadPatterns(cfg.PatternsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load patterns: %w", err)
	}

	set, err := domain.NewPatternSet(rules)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	counts, err := scanner.LoadCounts(cfg.CountsPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load counts: %w", err)
	}

	role, err := countRole(cfg.CountRole)
	if err != nil {
		return nil, nil, err
	}

	return &scanner.Scanner{
		Root:      cfg.ProjectsDir,
		Patterns:  set,
		Ledger:    led,
		Counts:    counts,
		CountRole: role,
	}, set, nil
}

// countRole maps the configured role name to the role counted toward the
// per-day message total. Pattern matching always runs on assistant messages
// regardless of this setting.
func countRole(name string) (domain.Role, error) {
	switch name {
	case "", "assistant":
		return domain.RoleAssistant, nil
	case "user":
		return domain.RoleUser, nil
	default:
		return "", fmt.Errorf("invalid COUNT_ROLE %q (want assistant or user)", name)
	}
}

func printPatternList(rules []domain.PatternRule) {
	fmt.Println("Tracking patterns:")
	for _, r := range rules {
		fmt.Printf("  %s: %s\n", r.Name, dimStyle.Render(r.Rule))
	}
}

// excerpt flattens a message body to one short line for notifications,
// truncating on a rune boundary.
func excerpt(body string, max int) string {
	line := strings.Join(strings.Fields(body), " ")
	runes := []rune(line)
	if len(runes) > max {
		line = string(runes[:max]) + "..."
	}
	return line
}
