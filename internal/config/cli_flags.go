package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("proxy", "", "Set HTTP/SOCKS5 proxy (e.g., http://localhost:8080)")
	cmd.PersistentFlags().String("timeout", DefaultTimeout.String(), "Hard timeout for loading the page")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("config", "", "Path to a YAML configuration file (optional)")
	cmd.PersistentFlags().StringP("output", "o", "", "File path to save results (default "+DefaultOutputPath+")")
	cmd.PersistentFlags().String("format", "", "Output format: json, csv or markdown")
	cmd.PersistentFlags().String("strategy", "auto", "Extraction strategy: auto, walk, element or text")
	cmd.PersistentFlags().String("images", "", "Download each course's article image into this directory")
	cmd.PersistentFlags().Int("image-workers", DefaultImageWorkers, "Concurrent image downloads")
}

// RegisterScrapeFlags registers the flags that only apply when loading a live page
func RegisterScrapeFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.Flags().String("url", "", "Override the article URL")
	cmd.Flags().StringP("mode", "m", "", "Page loader: dynamic (headless Chrome) or static (plain HTTP)")
	cmd.Flags().String("snapshot", "", "Also save the rendered HTML to this path")
	cmd.Flags().String("wait-selector", "", "CSS selector to wait for before reading the page")
	cmd.Flags().StringArrayP("header", "H", []string{}, "Custom headers (e.g., -H \"Accept-Language: en\")")
	cmd.Flags().Bool("headful", false, "Show the browser window instead of running headless")
}
