package app

import (
	"context"

	"docdate/internal/logger"
	"docdate/internal/shutdown"
)

// Lifecycle owns the resources that outlive a single screen. They are
// released in reverse registration order, once.
type Lifecycle struct {
	manager *shutdown.Manager
	logger  logger.Logger
}

func NewLifecycle(log logger.Logger) *Lifecycle {
	return &Lifecycle{
		manager: shutdown.NewManager(log),
		logger:  log,
	}
}

// Context is cancelled as soon as shutdown begins.
func (l *Lifecycle) Context() context.Context {
	return l.manager.Context()
}

func (l *Lifecycle) Register(name string, c shutdown.Shutdownable) {
	l.manager.Register(name, c)
}

// Track registers a closer, logging its error instead of returning it.
func (l *Lifecycle) Track(name string, closeFn func() error) {
	l.manager.Register(name, shutdown.Func(func() {
		if err := closeFn(); err != nil {
			l.logger.Error("Lifecycle", err, map[string]interface{}{
				"component": name,
				"stage":     "close",
			})
		}
	}))
}

func (l *Lifecycle) Listen(after func()) {
	l.manager.Listen(after)
}

func (l *Lifecycle) Shutdown() {
	l.manager.Shutdown()
}
