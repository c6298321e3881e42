package sensor

import (
	"context"
	"fmt"
	"log/slog"
)

// Power icons.
const (
	IconPlugged = "🔌"
	IconBattery = "🔋"
)

// Battery returns an adapter for the battery field: the power icon followed
// by the remaining capacity to one decimal place.
func Battery(src PowerSource) Adapter {
	return func(ctx context.Context) string {
		remaining, err := src.BatteryRemaining(ctx)
		if err != nil {
			slog.Debug("battery query failed", "error", err)
			return ""
		}
		return fmt.Sprintf("%s %.1f%%", PowerIcon(ctx, src), remaining*100)
	}
}

// PowerIcon returns the plugged icon on AC power and the battery icon otherwise.
// A failed query shows plugged so a broken sensor never looks like a low battery.
func PowerIcon(ctx context.Context, src PowerSource) string {
	onAC, err := src.OnACPower(ctx)
	if err != nil {
		slog.Debug("AC power query failed", "error", err)
		return IconPlugged
	}
	if onAC {
		return IconPlugged
	}
	return IconBattery
}
