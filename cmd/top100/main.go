// cmd/top100/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/law-makers/top100/internal/cli"
)

func main() {
	// Cancel the run on interrupt so the browser is still shut down
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	code := cli.Execute(ctx)
	if ctx.Err() != nil {
		log.Warn().Msg("Interrupted, browser closed")
	}
	stop()
	os.Exit(code)
}
