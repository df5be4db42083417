package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/taskdesk/internal/infrastructure/buffer"
)

// Probe returns nil while the dependency is reachable.
type Probe func(ctx context.Context) error

// Check is a named dependency. Only Critical checks decide IsOnline.
type Check struct {
	Name     string
	Probe    Probe
	Critical bool
	Timeout  time.Duration
}

func PostgresCheck(pool *pgxpool.Pool) Check {
	return Check{
		Name:     "postgresql",
		Critical: true,
		Timeout:  3 * time.Second,
		Probe: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	}
}

func RedisCheck(client redislib.UniversalClient) Check {
	return Check{
		Name:     "redis",
		Critical: true,
		Timeout:  2 * time.Second,
		Probe: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

func BufferCheck(store *buffer.Store) Check {
	return Check{
		Name:    "buffer",
		Timeout: time.Second,
		Probe: func(context.Context) error {
			_, err := store.Size()
			return err
		},
	}
}

type Monitor struct {
	checks []Check
	buffer *buffer.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New builds a monitor over checks. buf may be nil; when set its size is
// reported alongside the probe results.
func New(checks []Check, buf *buffer.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		buffer:   buf,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
		status:   Status{Services: map[string]bool{}},
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether every critical dependency answered on the last refresh.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.checks {
		if c.Critical && !m.status.Services[c.Name] {
			return false
		}
	}
	return true
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.clone()
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every probe once and records the results.
func (m *Monitor) Refresh(ctx context.Context) {
	status := Status{
		Services:  make(map[string]bool, len(m.checks)),
		LastCheck: time.Now(),
	}
	for _, c := range m.checks {
		ok := m.run(ctx, c)
		if !ok && m.wasUp(c.Name) {
			m.logger.Warn("dependency went offline", zap.String("dependency", c.Name))
		}
		status.Services[c.Name] = ok
	}
	if m.buffer != nil {
		if size, err := m.buffer.Size(); err == nil {
			status.BufferSize = size
		} else {
			m.logger.Warn("buffer size check failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) run(ctx context.Context, c Check) bool {
	if c.Probe == nil {
		return false
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Probe(probeCtx) == nil
}

func (m *Monitor) wasUp(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Services[name]
}
