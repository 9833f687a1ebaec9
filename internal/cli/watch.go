package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/rightcount/internal/config"
	"github.com/emiliopalmerini/rightcount/internal/domain"
	"github.com/emiliopalmerini/rightcount/internal/scanner"
	"github.com/emiliopalmerini/rightcount/internal/uploader"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch transcripts continuously",
	Long: `Watch the transcript directory continuously, counting new pattern
matches as conversations happen.

New counts are uploaded to the counting service without confirmation when
RIGHTCOUNT_API_URL is set; this is an unattended background process. Upload
failures are retried on the next pass, so local counts stay correct and
catch up once the service is reachable again.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadScanner()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sc, set, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Claude Pattern Watcher"))
	fmt.Println(rule(50))
	fmt.Printf("Watching: %s\n", cfg.ProjectsDir)
	fmt.Printf("Data directory: %s\n", cfg.DataDir)
	printPatternList(set.Rules())
	if cfg.APIURL != "" {
		fmt.Printf("API URL: %s (workstation %s)\n", cfg.APIURL, cfg.WorkstationID)
	}
	fmt.Println(rule(50))

	if _, err := os.Stat(cfg.ProjectsDir); err != nil {
		return fmt.Errorf("projects directory not found at %s (set CLAUDE_PROJECTS): %w", cfg.ProjectsDir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nStopping watcher...")
		cancel()
	}()

	var client *uploader.Client
	if cfg.APIURL != "" {
		client = uploader.New(cfg.APIURL, cfg.Secret, cfg.UploadLogPath())
	}

	uploadDays := func(days map[string]struct{}) {
		if client == nil {
			return
		}
		sorted := make([]string, 0, len(days))
		for day := range days {
			sorted = append(sorted, day)
		}
		sort.Strings(sorted)

		for _, day := range sorted {
			dc := sc.Counts.DayCount(day, cfg.WorkstationID, set.Names())
			if err := client.SetDay(ctx, dc); err != nil {
				if errors.Is(err, uploader.ErrUnauthorized) {
					fmt.Println(errStyle.Render("  upload rejected: check your secret key"))
					return
				}
				fmt.Printf("  upload failed, will retry: %v\n", err)
				continue
			}
			fmt.Printf("  %s %s\n", matchStyle.Render("uploaded"), summarizeDay(dc))
		}
	}

	sc.Notify = func(msg domain.Message, matched []string) {
		fmt.Printf("[%s] %s in %s: %s\n",
			time.Now().Format("15:04:05"),
			matchStyle.Render(strings.ToUpper(strings.Join(matched, ", "))),
			msg.Project,
			excerpt(msg.Body, 80))
	}

	// Report the current cumulative state once before the first pass.
	today := time.Now().UTC().Format("2006-01-02")
	uploadDays(map[string]struct{}{today: {}})

	w := &scanner.Watcher{
		Scanner:  sc,
		Interval: time.Duration(cfg.CheckInterval) * time.Second,
		OnPass: func(result *scanner.PassResult) {
			fmt.Printf("Updated: %s\n", summarizeMatches(result.NewMatches))
			uploadDays(result.DaysTouched)
		},
	}

	runErr := w.Run(ctx)

	fmt.Println(rule(50))
	for _, name := range set.Names() {
		var total int64
		for _, count := range sc.Counts.Patterns[name] {
			total += count
		}
		fmt.Printf("Final '%s' count: %d\n", name, total)
	}

	return runErr
}

func summarizeMatches(matches map[string]int) string {
	names := make([]string, 0, len(matches))
	for name := range matches {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: +%d", name, matches[name])
	}
	return strings.Join(parts, ", ")
}

func summarizeDay(dc domain.DayCount) string {
	parts := make([]string, 0, len(dc.Patterns)+1)
	names := make([]string, 0, len(dc.Patterns))
	for name := range dc.Patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, dc.Patterns[name]))
	}
	parts = append(parts, fmt.Sprintf("total=%d", dc.TotalMessages))
	return fmt.Sprintf("%s: %s", dc.Day, strings.Join(parts, ", "))
}
