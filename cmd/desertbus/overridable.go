package main

import (
	"github.com/san-kum/desertbus/internal/control"
	"github.com/san-kum/desertbus/internal/dynamo"
	"github.com/san-kum/desertbus/internal/game"
)

// overridable lets the autopilot drive while the keyboard can still quit.
// Keyboard signals are delivered after the autopilot's, so they win.
type overridable struct {
	keys game.InputSource
	auto *control.Autopilot
}

func (o *overridable) Sync(s dynamo.State) { o.auto.Sync(s) }
func (o *overridable) Reset()              { o.auto.Reset() }

func (o *overridable) Poll() (dynamo.Signal, bool) {
	if sig, ok := o.auto.Poll(); ok {
		return sig, true
	}
	return o.keys.Poll()
}
