package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/dwmstatus/internal/status"
)

var snapshotOpts struct {
	format string
}

// Snapshot is every field's reading plus the line they compose.
type Snapshot struct {
	Time   time.Time        `json:"time" yaml:"time"`
	Line   string           `json:"line" yaml:"line"`
	Fields []status.Reading `json:"fields" yaml:"fields"`
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print each field's reading as JSON or YAML",
	Long: `Poll every enabled field once and print the readings, including empty
ones, together with the composed line. Useful for checking why a field is
missing from the bar.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOpts.format, "format", "f", "json",
		"Output format (json, yaml)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	composer, closeDeps := newComposer()
	defer closeDeps()

	readings := composer.Snapshot(ctx)
	snap := Snapshot{
		Time:   time.Now(),
		Line:   status.Join(readings, cfg.Fields.Separator),
		Fields: readings,
	}
	return writeSnapshot(cmd.OutOrStdout(), snap, snapshotOpts.format)
}

func writeSnapshot(w io.Writer, snap Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
