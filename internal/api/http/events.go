package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/fingerprint-server/internal/model"
)

type eventPayload struct {
	ID      string            `json:"id"`
	Kind    model.EventKind   `json:"kind"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
	Time    time.Time         `json:"time"`
}

// writeEvent writes one Server-Sent Events frame and flushes it.
func writeEvent(w *bufio.Writer, event model.Event) error {
	data, err := json.Marshal(eventPayload{
		ID:      event.ID.String(),
		Kind:    event.Kind,
		Message: event.Message,
		Context: event.Context,
		Time:    event.Time,
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Kind, data); err != nil {
		return err
	}
	return w.Flush()
}

// events streams notifier events as Server-Sent Events. The stream ends when
// the client goes away, which shows up as a failed flush, or when the hub
// closes the subscription.
func (r *Router) events(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	sub := r.service.Subscribe()
	operator, _ := c.Locals(operatorLocal).(string)
	r.logger.Info("HTTP events: subscriber attached", "operator", operator, "subscription", sub.ID.String())

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer r.service.Unsubscribe(sub.ID)

		ticker := time.NewTicker(r.heartbeat)
		defer ticker.Stop()

		if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				if err := writeEvent(w, event); err != nil {
					r.logger.Info("HTTP events: subscriber detached", "subscription", sub.ID.String(), "error", err)
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil || w.Flush() != nil {
					r.logger.Info("HTTP events: subscriber detached", "subscription", sub.ID.String())
					return
				}
			}
		}
	})

	return nil
}
