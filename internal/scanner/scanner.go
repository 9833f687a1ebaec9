// Package scanner drives the extraction pipeline: it walks the transcript
// tree, feeds each message through the dedup ledger and pattern matcher, and
// folds matches into the local daily counts.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/emiliopalmerini/rightcount/internal/domain"
	"github.com/emiliopalmerini/rightcount/internal/ledger"
	"github.com/emiliopalmerini/rightcount/internal/parser"
)

// Scanner runs single-threaded passes over the transcript tree. One file is
// fully drained before the next begins.
type Scanner struct {
	Root     string
	Patterns *domain.PatternSet
	Ledger   *ledger.Ledger
	Counts   *Counts

	// CountRole selects which role increments the per-day total-message
	// counter. The pattern tracker counts assistant messages; a prompt-side
	// aggregator would count user messages instead.
	CountRole domain.Role

	// Notify, when set, is called once per newly counted message that
	// matched at least one pattern.
	Notify func(msg domain.Message, matched []string)
}

// PassResult summarizes one scan pass: only the deltas discovered in this
// pass, not a resend of prior totals.
type PassResult struct {
	NewMessages  int
	NewMatches   map[string]int
	DaysTouched  map[string]struct{}
	FilesScanned int
	FilesFailed  int
}

// Pass scans every transcript file under Root exactly once. Messages whose
// id is already in the ledger are skipped entirely. The ledger and counts
// are persisted at the end of the pass; a persist failure fails the pass,
// since proceeding would risk double-counting on the next run.
func (s *Scanner) Pass() (*PassResult, error) {
	result := &PassResult{
		NewMatches:  make(map[string]int),
		DaysTouched: make(map[string]struct{}),
	}

	files, err := s.listTranscripts()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		project := s.projectOf(file)
		_, err := parser.ReadFile(file, project, func(msg domain.Message) {
			s.process(msg, result)
		})
		if err != nil {
			// Unreadable file: report once, keep scanning.
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", file, err)
			result.FilesFailed++
			continue
		}
		result.FilesScanned++
	}

	if err := s.Ledger.Save(); err != nil {
		return nil, fmt.Errorf("persist ledger: %w", err)
	}
	if err := s.Counts.Save(); err != nil {
		return nil, fmt.Errorf("persist counts: %w", err)
	}

	return result, nil
}

func (s *Scanner) process(msg domain.Message, result *PassResult) {
	if s.Ledger.Seen(msg.ID) {
		return
	}

	day := msg.Day()

	var matched []string
	if msg.Role == domain.RoleAssistant {
		matched = s.Patterns.Match(msg.Body)
	}

	if msg.Role == s.CountRole {
		s.Counts.AddMessage(day)
		result.NewMessages++
		result.DaysTouched[day] = struct{}{}
	}

	for _, name := range matched {
		s.Counts.AddMatch(name, day)
		result.NewMatches[name]++
		result.DaysTouched[day] = struct{}{}
		if name == s.Patterns.Lead() {
			s.Counts.AddProject(msg.Project)
		}
	}

	s.Ledger.Mark(msg.ID)

	if len(matched) > 0 && s.Notify != nil {
		s.Notify(msg, matched)
	}
}

// listTranscripts collects every .jsonl file under the project tree,
// recursing into per-project subdirectories. Hidden project directories are
// skipped, matching the transcript layout.
func (s *Scanner) listTranscripts() ([]string, error) {
	if _, err := os.Stat(s.Root); err != nil {
		return nil, fmt.Errorf("projects directory %s: %w", s.Root, err)
	}

	var files []string
	err := filepath.Walk(s.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtree; the rest of the scan continues.
			return nil
		}
		if info.IsDir() {
			if path != s.Root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".jsonl" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}
	return files, nil
}

// projectOf derives the display name of the project a transcript belongs
// to: the first directory under Root, cleaned of its encoded path prefix.
func (s *Scanner) projectOf(file string) string {
	rel, err := filepath.Rel(s.Root, file)
	if err != nil {
		return filepath.Base(filepath.Dir(file))
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return ProjectDisplayName(filepath.Base(filepath.Dir(file)))
	}
	return ProjectDisplayName(parts[0])
}

// ProjectDisplayName strips the encoded home prefix from a transcript
// project directory name: "-Users-alice-code-app" becomes "code-app".
func ProjectDisplayName(dirName string) string {
	for _, prefix := range []string{"-Users-", "-home-", "-var-"} {
		if strings.HasPrefix(dirName, prefix) {
			parts := strings.SplitN(dirName, "-", 4)
			if len(parts) > 3 {
				return parts[3]
			}
			break
		}
	}
	return dirName
}
