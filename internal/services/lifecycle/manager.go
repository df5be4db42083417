// Package lifecycle stops server components in the reverse of their start order.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const defaultGrace = 15 * time.Second

// StopFunc releases one component. ctx carries the shared grace deadline.
type StopFunc func(ctx context.Context) error

type component struct {
	name string
	stop StopFunc
}

// Manager is a stack of components to stop at exit.
type Manager struct {
	grace time.Duration
	log   *zap.Logger

	mu    sync.Mutex
	stack []component
}

func New(grace time.Duration, logger *zap.Logger) *Manager {
	if grace <= 0 {
		grace = defaultGrace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{grace: grace, log: logger.With(zap.String("component", "lifecycle"))}
}

// Register pushes a component. The last one registered stops first.
func (m *Manager) Register(name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	m.stack = append(m.stack, component{name: name, stop: stop})
	m.mu.Unlock()
}

func (m *Manager) RegisterCloser(name string, c io.Closer) {
	if c == nil {
		return
	}
	m.Register(name, func(context.Context) error { return c.Close() })
}

// Shutdown drains the stack within the grace period. Every component gets
// its turn even after a failure; a second call finds nothing left to stop.
func (m *Manager) Shutdown(parent context.Context) error {
	m.mu.Lock()
	stack := m.stack
	m.stack = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(parent, m.grace)
	defer cancel()

	var errs []error
	for i := len(stack) - 1; i >= 0; i-- {
		c := stack[i]
		started := time.Now()
		err := c.stop(ctx)
		fields := []zap.Field{zap.String("target", c.name), zap.Duration("took", time.Since(started))}
		if err != nil {
			m.log.Error("stop failed", append(fields, zap.Error(err))...)
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		m.log.Info("stopped", fields...)
	}
	return errors.Join(errs...)
}

// CancelOnSignal calls cancel on the first SIGINT or SIGTERM. The returned
// func detaches the handler without calling cancel.
func (m *Manager) CancelOnSignal(cancel context.CancelFunc) func() {
	if cancel == nil {
		return func() {}
	}
	sigs := make(chan os.Signal, 1)
	quit := make(chan struct{})
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			m.log.Info("shutdown signal received", zap.Stringer("signal", sig))
			cancel()
		case <-quit:
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(quit) }) }
}
