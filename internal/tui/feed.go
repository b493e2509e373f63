package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quadmind/ingestwatch/internal/model"
)

// Feed bridges the monitor's callbacks to a bubbletea program. The monitor
// is wired and started before the program exists, so messages emitted before
// Attach are held, in order, and flushed once a program is attached.
type Feed struct {
	mu      sync.Mutex
	deliver func(tea.Msg)
	backlog []tea.Msg
}

// NewFeed creates a detached feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Emit satisfies notify.EmitFunc.
func (f *Feed) Emit(notification model.Notification) {
	f.send(NotificationMsg{Notification: notification})
}

// EmitEvent satisfies monitor.EventFunc for Subscribe.
func (f *Feed) EmitEvent(event model.Event) {
	f.send(EventMsg{Event: event})
}

func (f *Feed) send(msg tea.Msg) {
	f.mu.Lock()
	deliver := f.deliver
	if deliver == nil {
		f.backlog = append(f.backlog, msg)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()

	deliver(msg)
}

// Attach binds the feed to a running program and flushes any backlog.
func (f *Feed) Attach(program *tea.Program) {
	f.attach(program.Send)
}

func (f *Feed) attach(deliver func(tea.Msg)) {
	f.mu.Lock()
	f.deliver = deliver
	backlog := f.backlog
	f.backlog = nil
	f.mu.Unlock()

	for _, msg := range backlog {
		deliver(msg)
	}
}
