package devmon

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"wavehunterctl/internal/logging"
)

// rndisDriver is the USB driver the device's tethered network interface
// registers under when it is plugged in.
const rndisDriver = "rndis_host"

// Monitor listens for udev netlink events and reports when the capture
// device's USB network interface attaches or detaches. This lets the watcher
// poll immediately on attach instead of waiting out a poll interval.
type Monitor struct {
	logger   *slog.Logger
	onAttach func(ctx context.Context, iface string)
	onDetach func(ctx context.Context, iface string)

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// New creates a device monitor. Either callback may be nil.
func New(logger *slog.Logger, onAttach, onDetach func(ctx context.Context, iface string)) *Monitor {
	return &Monitor{
		logger:   logging.NewComponentLogger(logger, "devmon"),
		onAttach: onAttach,
		onDetach: onDetach,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; device attach detection unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the process has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "device attach/detach is only noticed on the next poll"),
		)
		return nil // Non-fatal - the poll loop works without it
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("device monitor started",
		logging.String(logging.FieldEventType, "devmon_started"),
	)

	return nil
}

// Stop shuts down the device monitor.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}

	m.running = false

	m.logger.Info("device monitor stopped",
		logging.String(logging.FieldEventType, "devmon_stopped"),
	)
}

// Running reports whether the device monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	matcher := m.buildMatcher()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, matcher)

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(ctx, uevent)
		case err := <-errs:
			m.logger.Warn("device monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "devmon_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device attach detection may be affected"),
			)
		}
	}
}

// buildMatcher creates a matcher for the device's tethered interface:
// SUBSYSTEM=net, ID_USB_DRIVER=rndis_host, ACTION=add|remove
func (m *Monitor) buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":     "net",
			"ID_USB_DRIVER": rndisDriver,
		},
	})
	return rules
}

// handleEvent processes a matched uevent.
func (m *Monitor) handleEvent(ctx context.Context, uevent netlink.UEvent) {
	iface := extractInterface(uevent)
	if iface == "" {
		m.logger.Debug("ignoring event without interface name",
			logging.String("action", string(uevent.Action)),
			logging.String("kobj", uevent.KObj),
		)
		return
	}

	switch uevent.Action {
	case netlink.ADD:
		m.logger.Info("capture device attached",
			logging.String(logging.FieldEventType, "device_attached"),
			logging.String("interface", iface),
		)
		if m.onAttach != nil {
			m.onAttach(ctx, iface)
		}
	case netlink.REMOVE:
		m.logger.Warn("capture device detached",
			logging.String(logging.FieldEventType, "device_detached"),
			logging.String("interface", iface),
			logging.String(logging.FieldErrorHint, "check the USB connection to the device"),
			logging.String(logging.FieldImpact, "polls will fail until the device is reattached"),
		)
		if m.onDetach != nil {
			m.onDetach(ctx, iface)
		}
	default:
		m.logger.Debug("ignoring event action",
			logging.String("action", string(uevent.Action)),
			logging.String("interface", iface),
		)
	}
}

// extractInterface gets the network interface name from a uevent.
func extractInterface(uevent netlink.UEvent) string {
	if iface := uevent.Env["INTERFACE"]; iface != "" {
		return iface
	}

	// Fall back to the last DEVPATH segment (e.g. /devices/.../net/usb0)
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}

	parts := strings.Split(devpath, "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
