package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

// PulseVolume queries the default sink over the native PulseAudio protocol.
// The client is opened lazily and dropped after any error so the next
// query reconnects.
type PulseVolume struct {
	mu     sync.Mutex
	client *pulse.Client
}

// NewPulseVolume creates a PulseVolume. No connection is made until the first query.
func NewPulseVolume() *PulseVolume {
	return &PulseVolume{}
}

// Muted reports whether the default sink is muted.
func (p *PulseVolume) Muted(ctx context.Context) (bool, error) {
	info, err := p.sinkInfo(ctx)
	if err != nil {
		return false, err
	}
	return info.Mute, nil
}

// Volume returns the default sink's volume as a percentage averaged over channels.
func (p *PulseVolume) Volume(ctx context.Context) (int, error) {
	info, err := p.sinkInfo(ctx)
	if err != nil {
		return 0, err
	}
	return channelVolumesToPercent(info.ChannelVolumes), nil
}

// Close releases the PulseAudio connection.
func (p *PulseVolume) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}

type sinkInfoResult struct {
	info *proto.GetSinkInfoReply
	err  error
}

// sinkInfo queries the default sink. The pulse client takes no context, so
// the query runs on its own goroutine and is abandoned when ctx is done; it
// still finishes in the background and releases the client lock.
func (p *PulseVolume) sinkInfo(ctx context.Context) (*proto.GetSinkInfoReply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan sinkInfoResult, 1)
	go func() {
		info, err := p.querySinkInfo()
		done <- sinkInfoResult{info: info, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.info, r.err
	}
}

func (p *PulseVolume) querySinkInfo() (*proto.GetSinkInfoReply, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		c, err := pulse.NewClient(pulse.ClientApplicationName("dwmstatus"))
		if err != nil {
			return nil, fmt.Errorf("failed to create pulse client: %w", err)
		}
		p.client = c
	}

	sink, err := p.client.DefaultSink()
	if err != nil {
		p.reset()
		return nil, fmt.Errorf("failed to get default sink: %w", err)
	}

	var reply proto.GetSinkInfoReply
	req := proto.GetSinkInfo{SinkIndex: proto.Undefined, SinkName: sink.ID()}
	if err := p.client.RawRequest(&req, &reply); err != nil {
		p.reset()
		return nil, fmt.Errorf("failed to request sink info: %w", err)
	}
	return &reply, nil
}

// reset drops the client. Callers hold p.mu.
func (p *PulseVolume) reset() {
	p.client.Close()
	p.client = nil
}

// channelVolumesToPercent averages channel volumes as a rounded percentage.
// It is not capped at 100: over-amplified sinks show their real value.
func channelVolumesToPercent(cv proto.ChannelVolumes) int {
	if len(cv) == 0 {
		return 0
	}
	var sum float64
	for _, v := range cv {
		sum += float64(v) / float64(proto.VolumeNorm) * 100.0
	}
	pct := int(sum/float64(len(cv)) + 0.5)
	if pct < 0 {
		pct = 0
	}
	return pct
}
