package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/top100/internal/app"
	"github.com/law-makers/top100/internal/config"
	"github.com/law-makers/top100/internal/ui"
)

// rootCmd represents the base command when called without any subcommands.
// On its own it runs a scrape with the configured defaults.
var rootCmd = &cobra.Command{
	Use:   "top100",
	Short: "Scrape the Golf Australia Top-100 courses feature into JSON",
	Long: `Top100 renders the Golf Australia "Ranking Australia's Top-100 Courses for 2024"
article in headless Chrome, extracts every ranked course and writes the result
to a JSON file.

Run without a command to scrape with the defaults.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
// This is called by main.main(). It returns the process exit code.
func Execute(ctx context.Context) int {
	return execute(ctx, rootCmd)
}

// execute runs root and closes the application whether or not the command
// failed; cobra skips post-run hooks when RunE returns an error.
func execute(ctx context.Context, root *cobra.Command) int {
	cmd, err := root.ExecuteContextC(ctx)
	if a := GetApp(cmd); a != nil {
		SetApp(cmd, nil)
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error("Error:"), err)
		return 1
	}
	return 0
}

func init() {
	// Build the application before running commands; -h and --version never get here
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetApp(cmd) != nil {
			return nil
		}

		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}
}

func init() {
	// Register centralized flags
	config.RegisterFlags(rootCmd)
	config.RegisterScrapeFlags(rootCmd)

	// Customize help and version flag descriptions
	rootCmd.Flags().BoolP("help", "h", false, "Help for Top100")
	rootCmd.Flags().Bool("version", false, "Version for Top100")
}

// loadConfig reads the configuration for cmd. The parse command points the
// file loader at its argument.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cmd.Name() == parseCmd.Name() && len(args) == 1 {
		cfg, err = config.LoadForFile(cmd, args[0])
	} else {
		cfg, err = config.Load(cmd)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_agent", cfg.UserAgent).
		Str("mode", cfg.Mode).
		Msg("Configuration loaded")
	return cfg, nil
}

func init() {
	// Disable the default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		writeHelp(os.Stdout, cmd)
	})
	rootCmd.SetUsageFunc(func(cmd *cobra.Command) error {
		writeUsage(os.Stderr, cmd)
		return nil
	})
}
