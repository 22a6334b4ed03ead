package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/luxe-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/luxe-storefront/pkg/errors"
	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

// Backend is a durable key-value medium. Get reports found=false for a key
// that was never written.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type failureCounter interface {
	IncStorageFailure(op string)
}

// Adapter reads and writes the single cart slot. It never returns storage
// errors: failures are logged, counted and treated as absent.
type Adapter struct {
	backend  Backend
	key      string
	timeout  time.Duration
	logg     *logger.Logger
	failures failureCounter
}

func NewAdapter(backend Backend, cfg config.StorageConfig, logg *logger.Logger, failures failureCounter) (*Adapter, error) {
	if backend == nil {
		return nil, fmt.Errorf("storage backend required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("storage key required")
	}
	return &Adapter{
		backend:  backend,
		key:      cfg.Key,
		timeout:  cfg.Timeout,
		logg:     logg,
		failures: failures,
	}, nil
}

// Key is the slot name.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored blob, or false when nothing is stored or the
// medium is unavailable.
func (a *Adapter) Load(ctx context.Context) (string, bool) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	blob, found, err := a.backend.Get(ctx, a.key)
	if err != nil {
		a.report(ctx, "load", err)
		return "", false
	}
	if !found || blob == "" {
		return "", false
	}
	return blob, true
}

// Save writes the blob, best effort.
func (a *Adapter) Save(ctx context.Context, blob string) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	if err := a.backend.Set(ctx, a.key, blob); err != nil {
		a.report(ctx, "save", err)
	}
}

// Clear removes the blob, best effort.
func (a *Adapter) Clear(ctx context.Context) {
	ctx, cancel := a.bound(ctx)
	defer cancel()

	if err := a.backend.Delete(ctx, a.key); err != nil {
		a.report(ctx, "clear", err)
	}
}

func (a *Adapter) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}

func (a *Adapter) report(ctx context.Context, op string, err error) {
	if a.failures != nil {
		a.failures.IncStorageFailure(op)
	}
	if a.logg == nil {
		return
	}
	wrapped := pkgerrors.Wrap(pkgerrors.CodeStorage, err, fmt.Sprintf("storage %s failed", op))
	fields := pkgerrors.Dump(wrapped).Fields()
	fields["slot"] = a.key
	fields["op"] = op
	a.logg.Warn(a.logg.WithFields(ctx, fields), "storage.failure")
}
