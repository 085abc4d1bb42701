package devmon

import (
	"context"
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestRunning(t *testing.T) {
	t.Run("nil monitor returns false", func(t *testing.T) {
		var m *Monitor
		if m.Running() {
			t.Error("expected Running() to return false for nil monitor")
		}
	})

	t.Run("unstarted monitor returns false", func(t *testing.T) {
		m := New(nil, nil, nil)
		if m.Running() {
			t.Error("expected Running() to return false for unstarted monitor")
		}
	})
}

func TestStopStartIdempotency(t *testing.T) {
	t.Run("stop on nil monitor is safe", func(t *testing.T) {
		var m *Monitor
		m.Stop() // must not panic
	})

	t.Run("start on nil monitor is safe", func(t *testing.T) {
		var m *Monitor
		if err := m.Start(context.Background()); err != nil {
			t.Fatalf("Start on nil monitor should return nil, got: %v", err)
		}
	})

	t.Run("double stop is safe", func(t *testing.T) {
		m := New(nil, nil, nil)
		m.Stop()
		m.Stop()
	})

	t.Run("start after stop without prior start is safe", func(t *testing.T) {
		m := New(nil, nil, nil)
		m.Stop()
		// Start will try to connect to netlink (fails without privileges)
		// but is non-fatal either way
		_ = m.Start(context.Background())
	})
}

func TestBuildMatcher(t *testing.T) {
	m := New(nil, nil, nil)

	matcher := m.buildMatcher()
	if matcher == nil {
		t.Fatal("expected non-nil matcher")
	}

	attachEvent := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM":     "net",
			"ID_USB_DRIVER": "rndis_host",
			"INTERFACE":     "usb0",
		},
	}
	if !matcher.Evaluate(attachEvent) {
		t.Error("expected matcher to accept attach event")
	}

	detachEvent := netlink.UEvent{
		Action: netlink.REMOVE,
		Env: map[string]string{
			"SUBSYSTEM":     "net",
			"ID_USB_DRIVER": "rndis_host",
			"INTERFACE":     "usb0",
		},
	}
	if !matcher.Evaluate(detachEvent) {
		t.Error("expected matcher to accept detach event")
	}

	otherNIC := netlink.UEvent{
		Action: netlink.ADD,
		Env: map[string]string{
			"SUBSYSTEM": "net",
			"INTERFACE": "eth0",
		},
	}
	if matcher.Evaluate(otherNIC) {
		t.Error("expected matcher to reject non-USB interface")
	}

	changeEvent := netlink.UEvent{
		Action: netlink.CHANGE,
		Env: map[string]string{
			"SUBSYSTEM":     "net",
			"ID_USB_DRIVER": "rndis_host",
		},
	}
	if matcher.Evaluate(changeEvent) {
		t.Error("expected matcher to reject CHANGE action")
	}
}

func TestHandleEvent(t *testing.T) {
	t.Run("attach invokes callback with interface", func(t *testing.T) {
		var attached string
		m := New(nil, func(_ context.Context, iface string) { attached = iface }, nil)
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"INTERFACE": "usb0"},
		})
		if attached != "usb0" {
			t.Errorf("attached = %q, want usb0", attached)
		}
	})

	t.Run("detach invokes callback", func(t *testing.T) {
		var detached string
		m := New(nil, nil, func(_ context.Context, iface string) { detached = iface })
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.REMOVE,
			Env:    map[string]string{"INTERFACE": "usb0"},
		})
		if detached != "usb0" {
			t.Errorf("detached = %q, want usb0", detached)
		}
	})

	t.Run("ignores event without interface name", func(t *testing.T) {
		called := false
		m := New(nil, func(context.Context, string) { called = true }, nil)
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{},
		})
		if called {
			t.Error("callback should not run without an interface name")
		}
	})

	t.Run("falls back to DEVPATH segment", func(t *testing.T) {
		var attached string
		m := New(nil, func(_ context.Context, iface string) { attached = iface }, nil)
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env: map[string]string{
				"DEVPATH": "/devices/pci0000:00/0000:00:14.0/usb1/1-2/1-2:1.0/net/usb0",
			},
		})
		if attached != "usb0" {
			t.Errorf("attached = %q, want usb0 from DEVPATH", attached)
		}
	})

	t.Run("nil callbacks are safe", func(t *testing.T) {
		m := New(nil, nil, nil)
		m.handleEvent(context.Background(), netlink.UEvent{
			Action: netlink.ADD,
			Env:    map[string]string{"INTERFACE": "usb0"},
		})
	})
}
