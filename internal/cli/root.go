package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rightcount",
	Short: "Count recurring phrases in Claude Code transcripts",
	Long: `rightcount scans Claude Code conversation transcripts for recurring
assistant phrases ("You're absolutely right", and friends), keeps
deduplicated per-day counts, and reports them to a counting service that
aggregates across workstations.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
