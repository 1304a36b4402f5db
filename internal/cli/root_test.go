package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/law-makers/top100/internal/app"
	"github.com/law-makers/top100/internal/config"
)

func testRoot(t *testing.T, runErr error) (*cobra.Command, **app.Application) {
	t.Helper()
	var built *app.Application
	root := &cobra.Command{
		Use:           "top100",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Defaults()
			cfg.LogLevel = "error"
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			built = a
			SetApp(cmd, a)
			return nil
		},
		RunE: func(*cobra.Command, []string) error { return runErr },
	}
	root.SetArgs([]string{})
	return root, &built
}

func TestExecute_ClosesAppOnFailure(t *testing.T) {
	root, built := testRoot(t, errors.New("page load failed"))

	if code := execute(context.Background(), root); code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if *built == nil || !(*built).Closed() {
		t.Error("Expected the application to be closed after a failed run")
	}
}

func TestExecute_ClosesAppOnSuccess(t *testing.T) {
	root, built := testRoot(t, nil)

	if code := execute(context.Background(), root); code != 0 {
		t.Errorf("Expected exit code 0, got %d", code)
	}
	if *built == nil || !(*built).Closed() {
		t.Error("Expected the application to be closed after a successful run")
	}
}
