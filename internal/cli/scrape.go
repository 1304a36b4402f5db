// internal/cli/scrape.go
package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/law-makers/top100/internal/app"
	"github.com/law-makers/top100/internal/config"
	"github.com/law-makers/top100/internal/report"
	"github.com/law-makers/top100/internal/ui"
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Load the Top-100 article and extract every course",
	Long: `Loads the article in headless Chrome (or over plain HTTP with --mode=static),
extracts the ranked courses and writes them to the output file.

Three extraction strategies run over the same page and the one that finds the
most courses wins. Use --strategy to force one.`,
	Example: `  # Scrape with the defaults
  top100 scrape

  # Save to a different file and keep the rendered page for later
  top100 scrape -o courses.json --snapshot page.html

  # Write a Markdown table instead of JSON
  top100 scrape --format=markdown -o courses.md

  # Keep a copy of every course photo
  top100 scrape --images ./images

  # Watch the browser work
  top100 scrape --headful -v`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
	config.RegisterScrapeFlags(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	a := GetApp(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	cfg := a.Config
	sp := startSpinner(os.Stderr, "Loading "+cfg.URL, showProgress(cfg))
	out, err := a.Run(cmd.Context())
	sp.Stop()
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	printOutcome(out, cfg)
	return nil
}

func showProgress(cfg *config.Config) bool {
	return !cfg.JSONLog && cfg.LogLevel == config.DefaultLogLevel
}

// printOutcome prints the strategy counts, the output path and a preview
func printOutcome(out *app.Outcome, cfg *config.Config) {
	if cfg.LogLevel == "error" {
		return
	}

	names := make([]string, 0, len(out.Counts))
	for name := range out.Counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stdout, "%s %-8s %d courses\n", ui.Info("strategy"), name, out.Counts[name])
	}

	fmt.Fprintf(os.Stdout, "%s Found %d courses using the %s strategy\n",
		ui.Success("✓"), out.Result.TotalCourses, out.Strategy)
	fmt.Fprintf(os.Stdout, "%s Saved to %s\n", ui.Success("✓"), out.Path)
	if len(out.Images) > 0 {
		saved := 0
		for _, r := range out.Images {
			if r.Success() {
				saved++
			}
		}
		mark := ui.Success("✓")
		if saved < len(out.Images) {
			mark = ui.Warning("!")
		}
		fmt.Fprintf(os.Stdout, "%s Saved %d/%d images to %s\n", mark, saved, len(out.Images), cfg.ImagesDir)
	}

	report.Preview(os.Stdout, out.Result, cfg.PreviewCount)
}
