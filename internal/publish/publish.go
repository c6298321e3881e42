// Package publish writes status lines to the window manager.
//
// A Publisher is owned by a single Worker goroutine; nothing else touches
// its connection.
package publish

import (
	"fmt"
	"io"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

// Publisher writes one status line.
type Publisher interface {
	Publish(line string) error
	Close() error
}

// New returns the publisher for the configured output target.
// out is used for the stdout target.
func New(cfg *config.Config, out io.Writer) (Publisher, error) {
	switch cfg.Output.Target {
	case config.OutputStdout:
		return NewWriter(out), nil
	case config.OutputX11:
		x, err := NewX11()
		if err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, fmt.Errorf("unknown output target %q", cfg.Output.Target)
	}
}
