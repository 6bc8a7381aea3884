// Package nav switches between the app's full-window screens.
package nav

import (
	"errors"
	"fmt"
	"sync"

	"docdate/internal/logger"

	"fyne.io/fyne/v2"
)

var ErrUnknownScreen = errors.New("unknown screen")

type State int

const (
	Main State = iota
	Camera
	Review
	Display
)

func (s State) String() string {
	switch s {
	case Main:
		return "main"
	case Camera:
		return "camera"
	case Review:
		return "review"
	case Display:
		return "display"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Screen renders one state and reacts to becoming active or inactive.
type Screen interface {
	Content() fyne.CanvasObject
	Enter()
	Leave()
}

// Host receives the content of the newly active screen
type Host func(fyne.CanvasObject)

// Navigator keeps exactly one screen active. Any screen may ask for any
// registered state; transitions are not validated beyond that.
type Navigator struct {
	mu      sync.Mutex
	screens map[State]Screen
	current State
	active  bool
	host    Host
	logger  logger.Logger
}

func New(host Host, log logger.Logger) *Navigator {
	return &Navigator{
		screens: make(map[State]Screen),
		host:    host,
		logger:  log,
	}
}

func (n *Navigator) Register(state State, screen Screen) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.screens[state] = screen
}

// Show makes state the active screen. Showing the already active screen
// does nothing, so repeated button presses are harmless.
func (n *Navigator) Show(state State) error {
	n.mu.Lock()
	next, ok := n.screens[state]
	if !ok {
		n.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownScreen, state)
	}
	if n.active && n.current == state {
		n.mu.Unlock()
		return nil
	}

	var prev Screen
	from := n.current
	if n.active {
		prev = n.screens[n.current]
	}
	n.current = state
	n.active = true
	n.mu.Unlock()

	if prev != nil {
		prev.Leave()
	}
	next.Enter()
	if n.host != nil {
		n.host(next.Content())
	}

	n.logger.Debug("Navigator", "screen changed", map[string]interface{}{
		"from": from.String(),
		"to":   state.String(),
	})
	return nil
}

// Go is Show for button callbacks: an unknown state is logged, not returned.
func (n *Navigator) Go(state State) {
	if err := n.Show(state); err != nil {
		n.logger.Error("Navigator", err, nil)
	}
}

// Current returns the active state; ok is false before the first Show.
func (n *Navigator) Current() (State, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.active
}

// Shutdown leaves the active screen so it can release what it holds.
func (n *Navigator) Shutdown() {
	n.mu.Lock()
	var prev Screen
	if n.active {
		prev = n.screens[n.current]
	}
	n.active = false
	n.mu.Unlock()

	if prev != nil {
		prev.Leave()
	}
}
