package sensor

import (
	"time"

	"github.com/jmylchreest/dwmstatus/internal/config"
)

// NewDeps wires the real OS providers for cfg. The returned function
// releases any connection the providers hold.
func NewDeps(cfg *config.Config) (Deps, func()) {
	runner := ExecRunner{}
	host := NewHostStats()

	deps := Deps{
		Runner:  runner,
		Network: host,
		Memory:  host,
		Load:    host,
		Power:   NewUPower(),
		Now:     time.Now,
	}

	closer := func() {}
	switch cfg.Audio.Backend {
	case config.AudioBackendPulse:
		pv := NewPulseVolume()
		deps.Volume = pv
		closer = pv.Close
	default:
		deps.Volume = NewPamixer(runner)
	}

	return deps, closer
}

// Adapters builds the adapter for every known field, keyed by field name.
func Adapters(cfg *config.Config, deps Deps) map[string]Adapter {
	return map[string]Adapter{
		config.FieldMail:    Mail(deps.Runner, cfg.Mail.Command),
		config.FieldVolume:  Volume(deps.Volume),
		config.FieldNetwork: Network(deps.Network, cfg.Network.Wired, cfg.Network.Wireless),
		config.FieldBattery: Battery(deps.Power),
		config.FieldRAM:     Memory(deps.Memory),
		config.FieldCPU:     CPU(deps.Load),
		config.FieldTime:    Clock(cfg.Clock.Format, deps.Now),
	}
}
