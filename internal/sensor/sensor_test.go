package sensor

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfreymuth/pulse/proto"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

func TestFormatVolume(t *testing.T) {
	tests := []struct {
		volume   int
		expected string
	}{
		{0, "🔈 0"},
		{33, "🔈 33"},
		{34, "🔉 34"},
		{66, "🔉 66"},
		{67, "🔊 67"},
		{100, "🔊 100"},
		{150, "🔊 150"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatVolume(false, tt.volume), "volume %d", tt.volume)
	}
}

func TestFormatVolume_MutedHidesNumber(t *testing.T) {
	for _, v := range []int{0, 50, 100} {
		assert.Equal(t, IconMuted, FormatVolume(true, v))
	}
}

func TestVolume(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		src      fakeVolume
		expected string
	}{
		{"muted", fakeVolume{muted: true, volume: 80}, "🔇"},
		{"unmuted", fakeVolume{volume: 10}, "🔈 10"},
		{"mute query fails", fakeVolume{mutedErr: errFake, volume: 70}, "🔊 70"},
		{"volume query fails", fakeVolume{volErr: errFake}, ""},
		{"muted while volume fails", fakeVolume{muted: true, volErr: errFake}, "🔇"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Volume(tt.src)(ctx))
		})
	}
}

func TestPamixer(t *testing.T) {
	ctx := context.Background()

	t.Run("muted true", func(t *testing.T) {
		r := &fakeRunner{outputs: map[string]string{"pamixer --get-mute": "true\n"}}
		muted, err := NewPamixer(r).Muted(ctx)
		require.NoError(t, err)
		assert.True(t, muted)
	})

	t.Run("anything else is unmuted", func(t *testing.T) {
		r := &fakeRunner{outputs: map[string]string{"pamixer --get-mute": "false\n"}}
		muted, err := NewPamixer(r).Muted(ctx)
		require.NoError(t, err)
		assert.False(t, muted)
	})

	t.Run("volume parsed", func(t *testing.T) {
		r := &fakeRunner{outputs: map[string]string{"pamixer --get-volume": " 42\n"}}
		v, err := NewPamixer(r).Volume(ctx)
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("volume garbage", func(t *testing.T) {
		r := &fakeRunner{outputs: map[string]string{"pamixer --get-volume": "loud"}}
		_, err := NewPamixer(r).Volume(ctx)
		assert.Error(t, err)
	})

	t.Run("end to end through adapter", func(t *testing.T) {
		r := &fakeRunner{outputs: map[string]string{
			"pamixer --get-mute":   "false",
			"pamixer --get-volume": "50",
		}}
		assert.Equal(t, "🔉 50", Volume(NewPamixer(r))(ctx))
	})
}

func TestChannelVolumesToPercent(t *testing.T) {
	assert.Equal(t, 0, channelVolumesToPercent(nil))
	assert.Equal(t, 100, channelVolumesToPercent(proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm)}))
	assert.Equal(t, 75, channelVolumesToPercent(proto.ChannelVolumes{uint32(proto.VolumeNorm), uint32(proto.VolumeNorm / 2)}))
}

func TestBusSourcesHonourCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	t.Run("upower", func(t *testing.T) {
		u := NewUPower()
		_, err := u.OnACPower(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = u.BatteryRemaining(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, u.conn, "no bus connection for a cancelled query")
	})

	t.Run("pulse", func(t *testing.T) {
		p := NewPulseVolume()
		defer p.Close()
		_, err := p.Muted(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		_, err = p.Volume(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, p.client, "no pulse connection for a cancelled query")
	})
}

func TestNetwork(t *testing.T) {
	ctx := context.Background()
	wiredV4 := []string{"192.168.1.20/24", "fe80::1/64"}
	wirelessV4 := []string{"10.0.0.5/24"}
	v6Only := []string{"fe80::2/64", "2001:db8::1/64"}

	tests := []struct {
		name     string
		src      fakeInterfaces
		expected string
	}{
		{
			name:     "wired wins over wireless",
			src:      fakeInterfaces{addrs: map[string][]string{"dock0": wiredV4, "wlp58s0": wirelessV4}},
			expected: IconWired,
		},
		{
			name:     "wired alone",
			src:      fakeInterfaces{addrs: map[string][]string{"dock0": wiredV4}},
			expected: IconWired,
		},
		{
			name:     "wireless when wired absent",
			src:      fakeInterfaces{addrs: map[string][]string{"wlp58s0": wirelessV4}},
			expected: IconWireless,
		},
		{
			name:     "wireless when wired has only IPv6",
			src:      fakeInterfaces{addrs: map[string][]string{"dock0": v6Only, "wlp58s0": wirelessV4}},
			expected: IconWireless,
		},
		{
			name:     "neither",
			src:      fakeInterfaces{addrs: map[string][]string{"lo": {"127.0.0.1/8"}}},
			expected: "",
		},
		{
			name:     "only IPv6 everywhere",
			src:      fakeInterfaces{addrs: map[string][]string{"dock0": v6Only, "wlp58s0": v6Only}},
			expected: "",
		},
		{
			name:     "query fails",
			src:      fakeInterfaces{err: errFake},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Network(tt.src, "dock0", "wlp58s0")(ctx))
		})
	}
}

func TestHasIPv4(t *testing.T) {
	assert.True(t, hasIPv4([]string{"192.168.0.1"}))
	assert.True(t, hasIPv4([]string{"::1/128", "10.1.2.3/8"}))
	assert.False(t, hasIPv4([]string{"::ffff:10.0.0.1/96"}))
	assert.False(t, hasIPv4([]string{"not-an-ip"}))
	assert.False(t, hasIPv4(nil))
}

func TestBattery(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		src      fakePower
		expected string
	}{
		{"on AC", fakePower{onAC: true, remaining: 0.8}, "🔌 80.0%"},
		{"on battery", fakePower{onAC: false, remaining: 0.4567}, "🔋 45.7%"},
		{"AC query fails shows plugged", fakePower{onACErr: errFake, remaining: 0.05}, "🔌 5.0%"},
		{"no battery", fakePower{onAC: true, remErr: ErrNoBattery}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Battery(tt.src)(ctx))
		})
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "▯ 512 MB", Memory(fakeMemory{total: 1_024_000_000, free: 512_000_000})(ctx))
	assert.Equal(t, "▯ 0 B", Memory(fakeMemory{total: 10, free: 20})(ctx))
	assert.Equal(t, "▯ _", Memory(fakeMemory{err: errFake})(ctx))
}

func TestCPU(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, "⚙ 0.50", CPU(fakeLoad{load: 0.5})(ctx))
	assert.Equal(t, "⚙ 3.14", CPU(fakeLoad{load: 3.14159})(ctx))
	assert.Equal(t, "⚙ _", CPU(fakeLoad{err: errFake})(ctx))
}

func TestClock(t *testing.T) {
	fixed := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
	now := func() time.Time { return fixed }

	assert.Equal(t, "📆 Tue, 02 Jan ⸱ 🕓 15:04", Clock(config.DefaultClockFormat, now)(context.Background()))
	assert.Equal(t, "15:04:05", Clock("%H:%M:%S", now)(context.Background()))
}

func TestMail(t *testing.T) {
	ctx := context.Background()
	cmd := []string{"notmuch", "count", "tag:inbox"}

	tests := []struct {
		name     string
		runner   *fakeRunner
		expected string
	}{
		{"positive count", &fakeRunner{outputs: map[string]string{"notmuch count tag:inbox": "3\n"}}, "📧 3"},
		{"zero", &fakeRunner{outputs: map[string]string{"notmuch count tag:inbox": "0\n"}}, ""},
		{"negative", &fakeRunner{outputs: map[string]string{"notmuch count tag:inbox": "-2"}}, ""},
		{"garbage", &fakeRunner{outputs: map[string]string{"notmuch count tag:inbox": "Error: no db"}}, ""},
		{"command fails", &fakeRunner{errs: map[string]error{"notmuch count tag:inbox": errFake}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Mail(tt.runner, cmd)(ctx))
		})
	}

	assert.Equal(t, "", Mail(&fakeRunner{}, nil)(ctx))
}

func TestExecRunner(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	out, err := ExecRunner{}.Output(ctx, "sh", "-c", "echo false; exit 1")
	require.NoError(t, err, "non-zero exit with output is not an error")
	assert.Equal(t, "false\n", string(out))

	_, err = ExecRunner{}.Output(ctx, "/nonexistent/binary")
	assert.Error(t, err)
}

func TestAdapters(t *testing.T) {
	cfg := config.DefaultConfig()
	fixed := time.Date(2024, time.January, 2, 15, 4, 0, 0, time.UTC)

	deps := Deps{
		Runner:  &fakeRunner{outputs: map[string]string{"notmuch count tag:inbox": "2"}},
		Volume:  fakeVolume{volume: 10},
		Network: fakeInterfaces{addrs: map[string][]string{"wlp58s0": {"10.0.0.2/24"}}},
		Power:   fakePower{onAC: true, remaining: 0.8},
		Memory:  fakeMemory{total: 2_000_000_000, free: 1_000_000_000},
		Load:    fakeLoad{load: 0.5},
		Now:     func() time.Time { return fixed },
	}

	adapters := Adapters(cfg, deps)
	require.Len(t, adapters, len(config.FieldOrder))

	ctx := context.Background()
	assert.Equal(t, "📧 2", adapters[config.FieldMail](ctx))
	assert.Equal(t, "🔈 10", adapters[config.FieldVolume](ctx))
	assert.Equal(t, "📡", adapters[config.FieldNetwork](ctx))
	assert.Equal(t, "🔌 80.0%", adapters[config.FieldBattery](ctx))
	assert.Equal(t, "▯ 1.0 GB", adapters[config.FieldRAM](ctx))
	assert.Equal(t, "⚙ 0.50", adapters[config.FieldCPU](ctx))
	assert.Equal(t, "📆 Tue, 02 Jan ⸱ 🕓 15:04", adapters[config.FieldTime](ctx))
}
