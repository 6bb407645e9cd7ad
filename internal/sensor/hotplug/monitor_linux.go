//go:build linux

package hotplug

import (
	"context"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Monitor listens for udev USB events of one vendor.
type Monitor struct {
	vendorID  string
	publisher model.Publisher
	logger    *logger.Logger

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	done    chan struct{}
	running bool
}

func NewMonitor(vendorID string, publisher model.Publisher, logger *logger.Logger) *Monitor {
	return &Monitor{
		vendorID:  vendorID,
		publisher: publisher,
		logger:    logger,
	}
}

// Start connects to the udev netlink socket. A connection failure is
// logged and swallowed so the service keeps running without hotplug events.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("Hotplug monitor: failed to connect to netlink socket", "error", err)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.done = make(chan struct{})
	m.running = true

	go m.loop(ctx, conn, m.quit, m.done)

	m.logger.Info("Hotplug monitor: started", "vendor_id", m.vendorID)
	return nil
}

// Stop closes the netlink connection and waits for the loop to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	close(m.quit)
	done := m.done
	conn := m.conn
	m.conn = nil
	m.running = false
	m.mu.Unlock()

	<-done
	_ = conn.Close()
	m.logger.Info("Hotplug monitor: stopped")
}

func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) loop(ctx context.Context, conn *netlink.UEventConn, quit <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, matcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handle(uevent)
		case err := <-errs:
			m.logger.Warn("Hotplug monitor: netlink error", "error", err)
		}
	}
}

func matcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "usb",
			"DEVTYPE":   "usb_device",
		},
	})
	return rules
}

func (m *Monitor) handle(uevent netlink.UEvent) {
	if !vendorMatches(uevent.Env, m.vendorID) {
		return
	}

	event, ok := eventFor(string(uevent.Action), uevent.Env)
	if !ok {
		return
	}

	m.logger.Info("Hotplug monitor: "+event.Message, "devpath", uevent.Env["DEVPATH"])
	m.publisher.Publish(event)
}
