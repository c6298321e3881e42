package sensor

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// Adapter reads one fact and renders it for the status line.
// An empty string means there is nothing to show.
type Adapter func(ctx context.Context) string

// Runner runs an external command and returns its standard output.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Output runs the command and returns its standard output.
// A non-zero exit status is not an error as long as the process ran:
// pamixer exits 1 when it prints "false".
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return out, nil
	}
	return out, err
}

// VolumeSource reports the default output's mute state and volume percentage.
type VolumeSource interface {
	Muted(ctx context.Context) (bool, error)
	Volume(ctx context.Context) (int, error)
}

// InterfaceSource lists network interfaces with their assigned addresses.
type InterfaceSource interface {
	InterfaceAddrs(ctx context.Context) (map[string][]string, error)
}

// PowerSource reports AC power and the remaining battery fraction (0..1).
type PowerSource interface {
	OnACPower(ctx context.Context) (bool, error)
	BatteryRemaining(ctx context.Context) (float64, error)
}

// MemorySource reports total and free memory in bytes.
type MemorySource interface {
	Memory(ctx context.Context) (total, free uint64, err error)
}

// LoadSource reports the one-minute load average.
type LoadSource interface {
	LoadAverage(ctx context.Context) (float64, error)
}

// Deps are the providers adapters read from.
type Deps struct {
	Runner  Runner
	Volume  VolumeSource
	Network InterfaceSource
	Power   PowerSource
	Memory  MemorySource
	Load    LoadSource
	Now     func() time.Time
}
