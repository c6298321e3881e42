package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Volume icons.
const (
	IconMuted        = "🔇"
	IconVolumeLow    = "🔈"
	IconVolumeMedium = "🔉"
	IconVolumeHigh   = "🔊"
)

// FormatVolume renders a volume reading. A muted output shows only the
// muted icon; otherwise the icon depends on the range (0-33, 34-66, 67+).
func FormatVolume(muted bool, volume int) string {
	if muted {
		return IconMuted
	}

	var icon string
	switch {
	case volume >= 0 && volume <= 33:
		icon = IconVolumeLow
	case volume >= 34 && volume <= 66:
		icon = IconVolumeMedium
	default:
		icon = IconVolumeHigh
	}
	return fmt.Sprintf("%s %d", icon, volume)
}

// Volume returns an adapter for the volume field.
// A failed mute query falls through to the volume query.
func Volume(src VolumeSource) Adapter {
	return func(ctx context.Context) string {
		muted, err := src.Muted(ctx)
		if err != nil {
			slog.Debug("mute query failed", "error", err)
		} else if muted {
			return FormatVolume(true, 0)
		}

		volume, err := src.Volume(ctx)
		if err != nil {
			slog.Debug("volume query failed", "error", err)
			return ""
		}
		return FormatVolume(false, volume)
	}
}

// Pamixer queries volume and mute by running pamixer.
type Pamixer struct {
	runner Runner
}

// NewPamixer creates a Pamixer using the given runner.
func NewPamixer(runner Runner) *Pamixer {
	return &Pamixer{runner: runner}
}

// Muted runs pamixer --get-mute.
func (p *Pamixer) Muted(ctx context.Context) (bool, error) {
	out, err := p.runner.Output(ctx, "pamixer", "--get-mute")
	if err != nil {
		return false, fmt.Errorf("failed to run pamixer --get-mute: %w", err)
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

// Volume runs pamixer --get-volume.
func (p *Pamixer) Volume(ctx context.Context) (int, error) {
	out, err := p.runner.Output(ctx, "pamixer", "--get-volume")
	if err != nil {
		return 0, fmt.Errorf("failed to run pamixer --get-volume: %w", err)
	}
	volume, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse volume %q: %w", out, err)
	}
	return volume, nil
}
