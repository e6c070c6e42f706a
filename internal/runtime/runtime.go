package runtime

import (
	"context"
	"errors"
	"time"

	cfgpkg "github.com/rzbill/tixid/internal/config"
	"github.com/rzbill/tixid/internal/ledger"
	"github.com/rzbill/tixid/internal/metrics"
	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// Options for building the Runtime.
type Options struct {
	// DataDir holds the ledger database. Unused when the ledger is disabled.
	DataDir       string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
	// Clock overrides the generator clock. Tests only.
	Clock snowflake.Clock
	// LedgerNow overrides the ledger's wall clock (issuedAtMs, retention,
	// now_ms in filters). It never reads Clock.
	LedgerNow func() int64
	Logger    logpkg.Logger
	Metrics   *metrics.Metrics
}

// Runtime wires the generator, the optional ledger and metrics for a single node.
type Runtime struct {
	db      *pebblestore.DB
	gen     *snowflake.Generator
	ledger  *ledger.Ledger
	config  cfgpkg.Config
	metrics *metrics.Metrics
	logger  logpkg.Logger
}

// Open validates the identity, opens storage when the ledger is enabled and
// returns a Runtime.
func Open(opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logpkg.NewLogger(logpkg.WithOutput(&logpkg.NullOutput{}))
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	genOpts := []snowflake.Option{snowflake.WithLogger(logger.WithComponent("snowflake"))}
	if opts.Clock != nil {
		genOpts = append(genOpts, snowflake.WithClock(opts.Clock))
	}
	gen, err := snowflake.New(opts.Config.WorkerID, opts.Config.DatacenterID, genOpts...)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{gen: gen, config: opts.Config, metrics: m, logger: logger}
	if !opts.Config.Ledger.Enabled {
		return rt, nil
	}

	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       opts.DataDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Metrics:       m,
	})
	if err != nil {
		return nil, err
	}
	ledgerOpts := []ledger.Option{ledger.WithLogger(logger.WithComponent("ledger"))}
	if opts.LedgerNow != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithNow(opts.LedgerNow))
	}
	lg, err := ledger.New(db, ledgerOpts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rt.db, rt.ledger = db, lg
	return rt, nil
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// CheckHealth reports whether the runtime can serve allocations. With the
// ledger enabled it also requires the database to be readable.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.gen == nil {
		return errors.New("generator not initialized")
	}
	if r.ledger == nil {
		return nil
	}
	if r.db == nil {
		return errors.New("db not open")
	}
	it, err := r.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

// RunBackground starts ledger retention and blocks until ctx is done.
func (r *Runtime) RunBackground(ctx context.Context) {
	if r.ledger == nil {
		return
	}
	lc := r.config.Ledger
	r.ledger.RunRetention(ctx,
		time.Duration(lc.RetentionMs)*time.Millisecond,
		time.Duration(lc.TrimIntervalMs)*time.Millisecond,
	)
}

// Generator returns the node's ID generator.
func (r *Runtime) Generator() *snowflake.Generator { return r.gen }

// Ledger returns the issuance ledger, or nil when disabled.
func (r *Runtime) Ledger() *ledger.Ledger { return r.ledger }

// Metrics returns the metrics registry.
func (r *Runtime) Metrics() *metrics.Metrics { return r.metrics }

// Logger returns the root logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }
