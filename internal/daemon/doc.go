// Package daemon runs dwmstatus: the update scheduler that merges polling
// and notifications, the single-slot notification handoff, the lifecycle
// coordinator that reacts to termination signals, and configuration
// hot reload.
package daemon
