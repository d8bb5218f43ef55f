// Package screensaver keeps the desktop from blanking while the game window
// is open, through the freedesktop ScreenSaver D-Bus interface.
package screensaver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	screensaverDbusName          = "org.freedesktop.ScreenSaver"
	screensaverDbusObjectPath    = "/org/freedesktop/ScreenSaver"
	screensaverDbusInterfacePath = "org.freedesktop.ScreenSaver"
)

// caller is the part of dbus.BusObject the inhibitor needs.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Inhibitor holds at most one inhibition cookie.
type Inhibitor struct {
	appName string
	log     *zap.Logger

	mu     sync.Mutex
	conn   *dbus.Conn
	obj    caller
	cookie uint32
	active bool
}

// New connects to the session bus. The returned Inhibitor is usable even
// when the bus is unreachable; Inhibit then reports the error.
func New(appName string, logger *zap.Logger) *Inhibitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Inhibitor{appName: appName, log: logger.Named("screensaver")}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		i.log.Debug("session bus unavailable", zap.Error(err))
		return i
	}
	i.conn = conn
	i.obj = conn.Object(screensaverDbusName, screensaverDbusObjectPath)
	return i
}

func newWithCaller(appName string, obj caller, logger *zap.Logger) *Inhibitor {
	return &Inhibitor{appName: appName, obj: obj, log: logger}
}

// Inhibit asks the screensaver to stay off. Calling it again while active
// is a no-op.
func (i *Inhibitor) Inhibit(ctx context.Context, reason string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active {
		return nil
	}
	if i.obj == nil {
		return errors.New("screensaver: no session bus")
	}
	var cookie uint32
	call := i.obj.CallWithContext(ctx, screensaverDbusInterfacePath+".Inhibit", 0, i.appName, reason)
	if err := call.Store(&cookie); err != nil {
		return fmt.Errorf("screensaver: inhibit: %w", err)
	}
	i.cookie, i.active = cookie, true
	i.log.Debug("screensaver inhibited", zap.Uint32("cookie", cookie))
	return nil
}

// Release drops the inhibition, if any.
func (i *Inhibitor) Release(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.active {
		return nil
	}
	i.active = false
	call := i.obj.CallWithContext(ctx, screensaverDbusInterfacePath+".UnInhibit", 0, i.cookie)
	if call.Err != nil {
		return fmt.Errorf("screensaver: uninhibit: %w", call.Err)
	}
	i.log.Debug("screensaver released", zap.Uint32("cookie", i.cookie))
	return nil
}

// Close releases the inhibition and the bus connection.
func (i *Inhibitor) Close() error {
	err := i.Release(context.Background())
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.conn != nil {
		err = errors.Join(err, i.conn.Close())
		i.conn = nil
	}
	i.obj = nil
	return err
}
