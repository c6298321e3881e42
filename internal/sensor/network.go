package sensor

import (
	"context"
	"log/slog"
	"net"
	"strings"
)

// Network icons.
const (
	IconWired    = "⇅"
	IconWireless = "📡"
)

// Network returns an adapter for the network field. The wired interface
// wins when it has an IPv4 address; the wireless one is checked next.
func Network(src InterfaceSource, wired, wireless string) Adapter {
	return func(ctx context.Context) string {
		ifaces, err := src.InterfaceAddrs(ctx)
		if err != nil {
			slog.Debug("interface query failed", "error", err)
			return ""
		}
		if wired != "" && hasIPv4(ifaces[wired]) {
			return IconWired
		}
		if wireless != "" && hasIPv4(ifaces[wireless]) {
			return IconWireless
		}
		return ""
	}
}

// hasIPv4 reports whether any address (with or without a prefix length) is IPv4.
func hasIPv4(addrs []string) bool {
	for _, addr := range addrs {
		host, _, found := strings.Cut(addr, "/")
		if !found {
			host = addr
		}
		ip := net.ParseIP(host)
		if ip != nil && ip.To4() != nil && !strings.Contains(host, ":") {
			return true
		}
	}
	return false
}
