package status

import (
	"context"
	"errors"
	"strings"
)

var errFake = errors.New("fake failure")

type fakeRunner map[string]string

func (r fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	out, ok := r[strings.Join(append([]string{name}, args...), " ")]
	if !ok {
		return nil, errFake
	}
	return []byte(out), nil
}

type fakeVolume struct {
	muted  bool
	volume int
}

func (f fakeVolume) Muted(context.Context) (bool, error) { return f.muted, nil }
func (f fakeVolume) Volume(context.Context) (int, error) { return f.volume, nil }

type fakeInterfaces map[string][]string

func (f fakeInterfaces) InterfaceAddrs(context.Context) (map[string][]string, error) {
	return f, nil
}

type fakePower struct {
	onAC      bool
	remaining float64
	noBattery bool
}

func (f fakePower) OnACPower(context.Context) (bool, error) { return f.onAC, nil }

func (f fakePower) BatteryRemaining(context.Context) (float64, error) {
	if f.noBattery {
		return 0, errFake
	}
	return f.remaining, nil
}

type fakeMemory struct {
	total, free uint64
	fail        bool
}

func (f fakeMemory) Memory(context.Context) (uint64, uint64, error) {
	if f.fail {
		return 0, 0, errFake
	}
	return f.total, f.free, nil
}

type fakeLoad float64

func (f fakeLoad) LoadAverage(context.Context) (float64, error) { return float64(f), nil }
