package app

import (
	"companion-shell/internal/gui"
	"companion-shell/internal/worker"
)

type EventType int

const (
	EventReady EventType = iota
	EventWindowClosed
	EventAllWindowsClosed
	EventWorkerExited
	EventQuitRequested
)

func (t EventType) String() string {
	switch t {
	case EventReady:
		return "ready"
	case EventWindowClosed:
		return "window-closed"
	case EventAllWindowsClosed:
		return "all-windows-closed"
	case EventWorkerExited:
		return "worker-exited"
	case EventQuitRequested:
		return "quit-requested"
	default:
		return "unknown"
	}
}

// Event is one entry on the lifecycle queue. Window and Worker are set for
// the events that concern them.
type Event struct {
	Type   EventType
	Window *gui.Window
	Worker *worker.Handle
}
