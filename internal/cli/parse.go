package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file.html>",
	Short: "Extract courses from a saved copy of the article",
	Long: `Runs the extractors over an HTML file saved earlier with --snapshot (or with
a browser's "Save page as"), without starting a browser.`,
	Example: `  # Re-run extraction on a snapshot
  top100 parse page.html -o courses.json

  # Try a single strategy
  top100 parse page.html --strategy=text`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	if _, err := os.Stat(args[0]); err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	out, err := a.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	printOutcome(out, a.Config)
	return nil
}
