//go:build !linux

package hotplug

import (
	"context"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

// Monitor is inert outside Linux.
type Monitor struct {
	logger *logger.Logger
}

func NewMonitor(_ string, _ model.Publisher, logger *logger.Logger) *Monitor {
	return &Monitor{logger: logger}
}

func (m *Monitor) Start(context.Context) error {
	m.logger.Warn("Hotplug monitor: netlink is only available on linux")
	return nil
}

func (m *Monitor) Stop() {}

func (m *Monitor) Running() bool { return false }
