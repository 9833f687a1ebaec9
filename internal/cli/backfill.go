package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/rightcount/internal/config"
	"github.com/emiliopalmerini/rightcount/internal/uploader"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Scan all historical transcripts once",
	Long: `Scan every historical transcript in one pass and print per-day counts.

Messages already counted by a previous backfill or watch run are skipped, so
re-running backfill never double-counts. When RIGHTCOUNT_API_URL is set the
cumulative counts for every day are uploaded after an explicit confirmation.`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadScanner()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	sc, set, err := buildScanner(cfg)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Claude Pattern Backfill"))
	fmt.Println(rule(50))
	fmt.Printf("Projects directory: %s\n", cfg.ProjectsDir)
	printPatternList(set.Rules())
	if cfg.APIURL != "" {
		fmt.Printf("Will upload to: %s (workstation %s)\n", cfg.APIURL, cfg.WorkstationID)
	}
	fmt.Println(rule(50))

	fmt.Println("Scanning all projects...")
	result, err := sc.Pass()
	if err != nil {
		return err
	}
	fmt.Printf("Scanned %d files (%d unreadable), %d new messages\n",
		result.FilesScanned, result.FilesFailed, result.NewMessages)

	days := sc.Counts.Days()
	if len(days) == 0 {
		fmt.Println("No data found.")
		return nil
	}

	fmt.Println("\nDaily counts:")
	fmt.Println(rule(50))
	for _, day := range days {
		dc := sc.Counts.DayCount(day, cfg.WorkstationID, set.Names())
		fmt.Println(summarizeDay(dc))
	}
	fmt.Println(rule(50))
	for _, name := range set.Names() {
		var total int64
		for _, count := range sc.Counts.Patterns[name] {
			total += count
		}
		fmt.Printf("Total '%s': %d\n", name, total)
	}

	if cfg.APIURL == "" {
		fmt.Println("\nRIGHTCOUNT_API_URL not set, skipping upload.")
		return nil
	}

	fmt.Printf("\nWill upload %d days to %s\n", len(days), cfg.APIURL)
	if !confirm("Continue with upload? (y/N): ") {
		fmt.Println("Upload cancelled.")
		return nil
	}

	client := uploader.New(cfg.APIURL, cfg.Secret, cfg.UploadLogPath())
	ctx := context.Background()

	fmt.Println("Uploading to API...")
	success, failed := 0, 0
	for _, day := range days {
		dc := sc.Counts.DayCount(day, cfg.WorkstationID, set.Names())
		fmt.Printf("  Uploading %s...", summarizeDay(dc))

		err := client.SetDay(ctx, dc)
		switch {
		case err == nil:
			fmt.Println(" " + matchStyle.Render("ok"))
			success++
		case errors.Is(err, uploader.ErrUnauthorized):
			fmt.Println(" " + errStyle.Render("rejected"))
			fmt.Println(errStyle.Render("Authorization failed: check your secret key and try again."))
			failed++
			return reportUpload(success, failed)
		default:
			fmt.Printf(" %s (%v)\n", errStyle.Render("failed"), err)
			failed++
		}
	}

	return reportUpload(success, failed)
}

func reportUpload(success, failed int) error {
	fmt.Println(rule(50))
	fmt.Printf("Upload complete: %d successful, %d failed\n", success, failed)
	if failed > 0 {
		return fmt.Errorf("%d uploads failed", failed)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
