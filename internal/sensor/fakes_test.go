package sensor

import (
	"context"
	"errors"
	"strings"
)

var errFake = errors.New("fake failure")

type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (r *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	r.calls = append(r.calls, key)
	if err, ok := r.errs[key]; ok {
		return nil, err
	}
	out, ok := r.outputs[key]
	if !ok {
		return nil, errFake
	}
	return []byte(out), nil
}

type fakeVolume struct {
	muted    bool
	mutedErr error
	volume   int
	volErr   error
}

func (f fakeVolume) Muted(context.Context) (bool, error) { return f.muted, f.mutedErr }
func (f fakeVolume) Volume(context.Context) (int, error) { return f.volume, f.volErr }

type fakeInterfaces struct {
	addrs map[string][]string
	err   error
}

func (f fakeInterfaces) InterfaceAddrs(context.Context) (map[string][]string, error) {
	return f.addrs, f.err
}

type fakePower struct {
	onAC      bool
	onACErr   error
	remaining float64
	remErr    error
}

func (f fakePower) OnACPower(context.Context) (bool, error)          { return f.onAC, f.onACErr }
func (f fakePower) BatteryRemaining(context.Context) (float64, error) { return f.remaining, f.remErr }

type fakeMemory struct {
	total, free uint64
	err         error
}

func (f fakeMemory) Memory(context.Context) (uint64, uint64, error) { return f.total, f.free, f.err }

type fakeLoad struct {
	load float64
	err  error
}

func (f fakeLoad) LoadAverage(context.Context) (float64, error) { return f.load, f.err }
