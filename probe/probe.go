package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/kbukum/fileflow/errors"
	"github.com/kbukum/fileflow/logger"
	"github.com/kbukum/fileflow/observability"
	"github.com/kbukum/fileflow/resilience"
	"github.com/kbukum/fileflow/storage"

	// Register the backends the router builds through storage.New.
	_ "github.com/kbukum/fileflow/storage/local"
	_ "github.com/kbukum/fileflow/storage/s3"
)

// Status is the answer to a lookup.
type Status struct {
	Exists  bool
	ModTime time.Time
}

// Prober is what the scheduler consumes. The only error a Prober returns for
// a well-formed identifier is context cancellation; lookup failures are
// reported as a missing file.
type Prober interface {
	Probe(ctx context.Context, id string) (Status, error)
}

// Config configures the router.
type Config struct {
	// Retry governs remote lookups that fail transiently.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	c.Retry.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Retry.Validate(); err != nil {
		return fmt.Errorf("probe.retry: %w", err)
	}
	return nil
}

// BackendFactory builds the storage for one bucket.
type BackendFactory func(ctx context.Context, bucket string) (storage.Storage, error)

// Router is the Prober used in production: it routes identifiers to the
// local backend or to a per-bucket object-store backend.
type Router struct {
	cfg     Config
	local   storage.Storage
	remote  BackendFactory
	log     *logger.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	buckets map[string]storage.Storage
}

// Option configures a Router.
type Option func(*Router)

// WithLocal replaces the local backend.
func WithLocal(s storage.Storage) Option {
	return func(r *Router) { r.local = s }
}

// WithRemote replaces how per-bucket backends are built.
func WithRemote(f BackendFactory) Option {
	return func(r *Router) { r.remote = f }
}

// WithMetrics records each lookup.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// New creates a Router. storageCfg supplies the local base path and the
// object-store connection settings shared by every bucket.
func New(ctx context.Context, cfg Config, storageCfg storage.Config, log *logger.Logger, opts ...Option) (*Router, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	r := &Router{
		cfg:     cfg,
		log:     log.WithComponent("probe"),
		buckets: make(map[string]storage.Storage),
	}
	r.remote = func(ctx context.Context, bucket string) (storage.Storage, error) {
		return storage.New(ctx, storageCfg.ForBucket(bucket), log)
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.local == nil {
		localCfg := storageCfg
		localCfg.Provider = storage.ProviderLocal
		local, err := storage.New(ctx, localCfg, log)
		if err != nil {
			return nil, err
		}
		r.local = local
	}
	return r, nil
}

// Probe looks id up. A malformed identifier is the only non-context error.
func (r *Router) Probe(ctx context.Context, id string) (Status, error) {
	ident, err := Parse(id)
	if err != nil {
		return Status{}, err
	}

	backend, err := r.backend(ctx, ident)
	if err != nil {
		r.log.Warn("no backend for identifier, treating as missing", logger.Fields(logger.FieldFile, id, logger.FieldError, err.Error()))
		r.record(ctx, ident.Scheme, false)
		return Status{}, nil
	}

	retry := r.cfg.Retry
	retry.RetryIf = func(err error) bool {
		return !storage.IsNotFound(err) && resilience.DefaultRetryIf(err)
	}
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		r.log.Debug("retrying lookup", logger.Fields(logger.FieldFile, id, "attempt", attempt, "backoff", backoff.String(), logger.FieldError, err.Error()))
	}

	info, err := resilience.Retry(ctx, retry, func() (*storage.FileInfo, error) {
		return backend.Stat(ctx, ident.Path)
	})
	switch {
	case err == nil:
		r.record(ctx, ident.Scheme, true)
		return Status{Exists: true, ModTime: info.LastModified}, nil
	case ctx.Err() != nil:
		return Status{}, ctx.Err()
	case storage.IsNotFound(err):
		r.record(ctx, ident.Scheme, false)
		return Status{}, nil
	default:
		r.log.Warn("lookup failed, treating as missing", logger.Fields(
			logger.FieldFile, id,
			"code", string(apperrors.CodeOf(err)),
			logger.FieldError, err.Error(),
		))
		r.record(ctx, ident.Scheme, false)
		return Status{}, nil
	}
}

func (r *Router) backend(ctx context.Context, ident Identifier) (storage.Storage, error) {
	if ident.Scheme != SchemeS3 {
		return r.local, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.buckets[ident.Bucket]; ok {
		return st, nil
	}
	st, err := r.remote(ctx, ident.Bucket)
	if err != nil {
		return nil, err
	}
	r.buckets[ident.Bucket] = st
	return st, nil
}

func (r *Router) record(ctx context.Context, scheme string, exists bool) {
	if r.metrics != nil {
		r.metrics.RecordProbe(ctx, scheme, exists)
	}
}

// compile-time check
var _ Prober = (*Router)(nil)
