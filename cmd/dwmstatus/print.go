package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dwmstatus/internal/sensor"
	"github.com/jmylchreest/dwmstatus/internal/status"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the status line once",
	Long: `Poll every enabled field once and print the composed status line to
stdout. Nothing is written to the X server.`,
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

// newComposer builds a composer over the real OS providers.
func newComposer() (*status.Composer, func()) {
	deps, closeDeps := sensor.NewDeps(cfg)
	return status.NewComposer(cfg, sensor.Adapters(cfg, deps)), closeDeps
}

func runPrint(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	composer, closeDeps := newComposer()
	defer closeDeps()

	_, err := fmt.Fprintln(cmd.OutOrStdout(), composer.Compose(ctx))
	return err
}
