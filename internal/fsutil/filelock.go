package fsutil

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileLock guards a governance directory against concurrent processes.
// Within one process, callers still need their own in-memory
// serialisation (see internal/concurrency) since flock.Flock is not
// reentrant.
type FileLock struct {
	fileLock   *flock.Flock
	lockPath   string
	namespace  string
	acquiredAt time.Time
	mu         sync.RWMutex
	cancel     context.CancelFunc
}

type FileLockConfig struct {
	Timeout  time.Duration
	Retry    time.Duration
	MaxRetry int
}

func DefaultFileLockConfig() *FileLockConfig {
	return &FileLockConfig{
		Timeout:  30 * time.Second,
		Retry:    100 * time.Millisecond,
		MaxRetry: 300,
	}
}

func NewFileLock(namespace, dir string, cfg *FileLockConfig) (*FileLock, error) {
	if cfg == nil {
		cfg = DefaultFileLockConfig()
	}

	lockPath := filepath.Join(dir, "governance.lock")
	fl := &FileLock{
		fileLock:  flock.New(lockPath),
		lockPath:  lockPath,
		namespace: namespace,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	fl.cancel = cancel
	if err := fl.acquireWithRetry(ctx, cfg); err != nil {
		cancel()
		return nil, err
	}
	fl.acquiredAt = time.Now()
	slog.Debug("file lock acquired", "namespace", namespace, "path", lockPath)
	return fl, nil
}

func (fl *FileLock) acquireWithRetry(ctx context.Context, cfg *FileLockConfig) error {
	for i := 0; i < cfg.MaxRetry; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("lock acquisition cancelled: %w", ctx.Err())
		default:
		}
		locked, err := fl.fileLock.TryLock()
		if err != nil {
			return fmt.Errorf("attempt lock: %w", err)
		}
		if locked {
			return nil
		}
		if i < cfg.MaxRetry-1 {
			time.Sleep(cfg.Retry)
		}
	}
	return fmt.Errorf("namespace %s locked by another process (timeout after %v)", fl.namespace, cfg.Timeout)
}

func (fl *FileLock) Unlock() {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fileLock == nil {
		return
	}
	if err := fl.fileLock.Unlock(); err != nil {
		slog.Error("failed to release file lock", "namespace", fl.namespace, "error", err)
	}
	if fl.cancel != nil {
		fl.cancel()
	}
	fl.fileLock = nil
}
