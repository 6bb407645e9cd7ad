// Package hotplug reports fingerprint readers being plugged in or removed.
// It only publishes events; opening the device stays with the sensor session.
package hotplug

import (
	"strings"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// vendorMatches reports whether a USB uevent belongs to vendorID (hex, case-insensitive).
func vendorMatches(env map[string]string, vendorID string) bool {
	vendorID = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(vendorID), "0x"))
	if vendorID == "" {
		return true
	}

	if id := env["ID_VENDOR_ID"]; id != "" {
		return strings.EqualFold(id, vendorID)
	}

	// PRODUCT is "<vendor>/<product>/<bcd>" in hex without leading zeros.
	product := env["PRODUCT"]
	vendor, _, ok := strings.Cut(product, "/")
	if !ok {
		return false
	}
	return strings.TrimLeft(strings.ToLower(vendor), "0") == strings.TrimLeft(vendorID, "0")
}

// eventFor builds the notifier event for a USB add or remove.
func eventFor(action string, env map[string]string) (model.Event, bool) {
	var kind model.EventKind
	var message string
	switch action {
	case "add":
		kind, message = model.EventSensorAttached, "Fingerprint sensor connected"
	case "remove":
		kind, message = model.EventSensorDetached, "Fingerprint sensor disconnected"
	default:
		return model.Event{}, false
	}

	return model.NewEvent(kind, message,
		"devpath", env["DEVPATH"],
		"product", env["PRODUCT"],
	), true
}
