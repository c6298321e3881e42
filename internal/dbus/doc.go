// Package dbus receives desktop notifications over the session bus.
// It either owns org.freedesktop.Notifications (server mode) or passively
// watches Notify calls addressed to another daemon (monitor mode).
package dbus
