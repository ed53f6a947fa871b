// Package events provides the status channel between the core engine
// and its surrounding surfaces (CLI, TUI).
//
// The Bus buffers sequenced events in memory and optionally invokes a
// synchronous subscriber callback. Three kinds of events flow through
// it: discrete log entries, full queue snapshots published after every
// queue mutation, and heartbeat signals during long waits.
//
//	bus := events.NewBus(500)
//	bus.Subscribe(func(e events.Event) { render(e) })
//	bus.Log(events.LevelInfo, "queue started")
package events
