package main

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/rigidtris/game"
)

type action uint8

const (
	actionLeft action = iota
	actionRight
	actionRotateLeft
	actionRotateRight
	actionCount
)

// Terminals only report key presses and auto-repeat, never releases. A key
// counts as held for window after its last press or repeat.
type keyHold struct {
	window time.Duration
	last   [actionCount]time.Time
}

func newKeyHold(window time.Duration) *keyHold {
	return &keyHold{window: window}
}

func actionFor(ev *tcell.EventKey) (action, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return actionLeft, true
	case tcell.KeyRight:
		return actionRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			return actionRotateLeft, true
		case 'd', 'D':
			return actionRotateRight, true
		}
	}
	return 0, false
}

func (k *keyHold) press(a action, now time.Time) {
	k.last[a] = now
}

func (k *keyHold) held(a action, now time.Time) bool {
	last := k.last[a]
	return !last.IsZero() && now.Sub(last) < k.window
}

func (k *keyHold) controls(now time.Time) game.Controls {
	return game.Controls{
		Left:        k.held(actionLeft, now),
		Right:       k.held(actionRight, now),
		RotateLeft:  k.held(actionRotateLeft, now),
		RotateRight: k.held(actionRotateRight, now),
	}
}

func (k *keyHold) reset() {
	k.last = [actionCount]time.Time{}
}
