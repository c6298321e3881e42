package sensor

import (
	"context"
	"fmt"
	"log/slog"
)

// IconCPU prefixes the load field.
const IconCPU = "⚙"

// CPU returns an adapter for the one-minute load average.
func CPU(src LoadSource) Adapter {
	return func(ctx context.Context) string {
		load, err := src.LoadAverage(ctx)
		if err != nil {
			slog.Debug("load average query failed", "error", err)
			return IconCPU + " _"
		}
		return fmt.Sprintf("%s %.2f", IconCPU, load)
	}
}
