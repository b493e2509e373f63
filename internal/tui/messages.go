package tui

import (
	"time"

	"github.com/quadmind/ingestwatch/internal/model"
)

// EventMsg delivers a monitor lifecycle event to the dashboard.
type EventMsg struct {
	Event model.Event
}

// NotificationMsg delivers a flushed notification to the dashboard.
type NotificationMsg struct {
	Notification model.Notification
}

// refreshMsg drives periodic re-reads of the registry for rendering.
type refreshMsg time.Time
