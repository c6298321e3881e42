package sensor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	upowerDest          = "org.freedesktop.UPower"
	upowerPath          = "/org/freedesktop/UPower"
	upowerDisplayDevice = "/org/freedesktop/UPower/devices/DisplayDevice"
	upowerDeviceIface   = "org.freedesktop.UPower.Device"

	// upowerTypeBattery is the UPower device type for a battery.
	upowerTypeBattery = 2
)

// ErrNoBattery is returned when UPower reports no battery.
var ErrNoBattery = errors.New("no battery present")

// UPower reads AC and battery state from UPower on the system bus.
type UPower struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewUPower creates a UPower reader. The bus is connected on first use.
func NewUPower() *UPower {
	return &UPower{}
}

// OnACPower reports whether the machine is running on AC power.
func (u *UPower) OnACPower(ctx context.Context) (bool, error) {
	conn, err := u.bus(ctx)
	if err != nil {
		return false, err
	}

	v, err := getProperty(ctx, conn.Object(upowerDest, upowerPath), upowerDest, "OnBattery")
	if err != nil {
		return false, err
	}
	onBattery, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("unexpected OnBattery type %T", v.Value())
	}
	return !onBattery, nil
}

// BatteryRemaining returns the composite battery charge as a fraction (0..1).
func (u *UPower) BatteryRemaining(ctx context.Context) (float64, error) {
	conn, err := u.bus(ctx)
	if err != nil {
		return 0, err
	}

	obj := conn.Object(upowerDest, upowerDisplayDevice)

	v, err := getProperty(ctx, obj, upowerDeviceIface, "Type")
	if err != nil {
		return 0, err
	}
	if t, ok := v.Value().(uint32); !ok || t != upowerTypeBattery {
		return 0, ErrNoBattery
	}

	v, err = getProperty(ctx, obj, upowerDeviceIface, "IsPresent")
	if err != nil {
		return 0, err
	}
	if present, ok := v.Value().(bool); !ok || !present {
		return 0, ErrNoBattery
	}

	v, err = getProperty(ctx, obj, upowerDeviceIface, "Percentage")
	if err != nil {
		return 0, err
	}
	pct, ok := v.Value().(float64)
	if !ok {
		return 0, fmt.Errorf("unexpected Percentage type %T", v.Value())
	}
	return pct / 100, nil
}

// getProperty reads iface.name, giving up when ctx is done.
func getProperty(ctx context.Context, obj dbus.BusObject, iface, name string) (dbus.Variant, error) {
	var v dbus.Variant
	err := obj.CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, iface, name).Store(&v)
	if err != nil {
		return dbus.Variant{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return v, nil
}

// bus returns the shared system bus connection.
func (u *UPower) bus(ctx context.Context) (*dbus.Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.conn != nil && u.conn.Connected() {
		return u.conn, nil
	}
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}
	u.conn = conn
	return conn, nil
}
