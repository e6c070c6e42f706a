package serverrun

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	cfgpkg "github.com/rzbill/tixid/internal/config"
	"github.com/rzbill/tixid/internal/runtime"
	grpcserver "github.com/rzbill/tixid/internal/server/grpc"
	httpserver "github.com/rzbill/tixid/internal/server/http"
	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	logpkg "github.com/rzbill/tixid/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing
var getenv = os.Getenv

type Options struct {
	DataDir       string
	GRPCAddr      string
	HTTPAddr      string
	Fsync         pebblestore.FsyncMode
	FsyncInterval time.Duration
	Config        cfgpkg.Config
}

// logConfigFromEnv reads TIXID_LOG_*; defaults are level=info, format=text, console output.
func logConfigFromEnv() *logpkg.Config {
	cfg := &logpkg.Config{
		Level:  getenvDefault("TIXID_LOG_LEVEL", "info"),
		Format: getenvDefault("TIXID_LOG_FORMAT", "text"),
	}
	if v := getenv("TIXID_LOG_OUTPUTS"); v != "" {
		cfg.Outputs = strings.Split(v, ",")
	}
	return cfg
}

// Run starts gRPC and HTTP servers and blocks until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if opts.DataDir == "" {
		opts.DataDir = cfgpkg.DefaultDataDir()
	}

	lcfg := logConfigFromEnv()
	procLogger, err := logpkg.ApplyConfig(lcfg)
	if err != nil {
		lvl := logpkg.InfoLevel
		if l, e := logpkg.ParseLevel(lcfg.Level); e == nil {
			lvl = l
		}
		procLogger = logpkg.NewLogger(logpkg.WithLevel(lvl), logpkg.WithFormatter(&logpkg.TextFormatter{}))
		procLogger.Warn("invalid log config, using defaults", logpkg.Err(err))
	}
	// Pebble and net/http report through the stdlib logger
	logpkg.RedirectStdLog(procLogger)

	storeDir := filepath.Join(opts.DataDir, "store")
	rt, err := runtime.Open(runtime.Options{
		DataDir:       storeDir,
		Fsync:         opts.Fsync,
		FsyncInterval: opts.FsyncInterval,
		Config:        opts.Config,
		Logger:        procLogger,
	})
	if err != nil {
		return err
	}
	defer rt.Close()

	procLogger.Info("Starting tixid server",
		logpkg.Str("grpc", opts.GRPCAddr),
		logpkg.Str("http", opts.HTTPAddr),
		logpkg.Int64("worker_id", opts.Config.WorkerID),
		logpkg.Int64("datacenter_id", opts.Config.DatacenterID),
		logpkg.Bool("ledger", opts.Config.Ledger.Enabled),
		logpkg.Str("store", storeDir),
		logpkg.Str("level", lcfg.Level),
		logpkg.Str("format", lcfg.Format),
	)

	gsrv := grpcserver.New(rt)
	hsrv := httpserver.New(rt, procLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := gsrv.ListenAndServe(sctx, opts.GRPCAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("grpc server stopped", logpkg.Err(err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := hsrv.ListenAndServe(sctx, opts.HTTPAddr); err != nil && sctx.Err() == nil {
			procLogger.Error("http server stopped", logpkg.Err(err))
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		rt.RunBackground(sctx)
	}()

	<-sctx.Done()
	// Stop transports before closing the runtime/DB.
	gsrv.Close()
	hsrv.Close()
	wg.Wait()
	procLogger.Info("tixid server stopped")
	return nil
}
