package sensor

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// IconMemory prefixes the memory field.
const IconMemory = "▯"

// Memory returns an adapter for the used-memory field (total minus free).
func Memory(src MemorySource) Adapter {
	return func(ctx context.Context) string {
		total, free, err := src.Memory(ctx)
		if err != nil {
			slog.Debug("memory query failed", "error", err)
			return IconMemory + " _"
		}
		var used uint64
		if total > free {
			used = total - free
		}
		return IconMemory + " " + humanize.Bytes(used)
	}
}
