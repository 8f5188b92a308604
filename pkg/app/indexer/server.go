// Package indexer implements app.Runner for the transfer indexer process.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apphttp "github.com/chainsafe/transfer-indexer/pkg/app/http"
	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/ethereum"
	"github.com/chainsafe/transfer-indexer/pkg/indexer"
	"github.com/chainsafe/transfer-indexer/pkg/pgutil"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

const defaultHTTPMiddlewareTimeout = 60 * time.Second

// Options select what a run scans.
type Options struct {
	// From and To scan an explicit range instead of the lookback window.
	From *uint64
	To   *uint64
	// Watch keeps following the chain head after the initial scan and serves
	// /health, /ready and /metrics.
	Watch bool
	// DecodeABI decodes logs through the event ABI instead of raw topic slicing.
	DecodeABI bool
}

// Server holds configuration for the indexer process.
type Server struct {
	cfg  *config.Config
	opts Options

	ready atomic.Bool
}

// NewServer initializes a new indexer Server.
func NewServer(cfg *config.Config, opts Options) *Server {
	return &Server{cfg: cfg, opts: opts}
}

// Run performs one scan and, in watch mode, follows the head until an OS shutdown
// signal is received. A cancelled scan leaves the store consistent; rerunning it
// creates no duplicates.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("nil config")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ERC-20 transfer indexer",
		zap.Uint64("lookback_blocks", cfg.Indexer.LookbackBlocks),
		zap.Uint64("chunk_size", cfg.Indexer.ChunkSize),
		zap.Bool("watch", s.opts.Watch))

	db, err := pgutil.ConnectDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("connect indexer db: %w", err)
	}
	defer func() { _ = db.Close() }()
	logger.Info("Database connection established")

	ethClient, err := ethereum.NewClient(&cfg.Ethereum, logger)
	if err != nil {
		return fmt.Errorf("initialize ethereum client: %w", err)
	}
	defer ethClient.Close()

	var opts []indexer.Option
	if s.opts.DecodeABI {
		opts = append(opts, indexer.WithDecoder(transfer.DecodeABI))
	}
	ix := indexer.New(ethClient, transferstore.NewStore(db), cfg.Indexer, logger, opts...)

	if !s.opts.Watch {
		_, err := s.scan(ctx, ix)
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apphttp.ServeAndWait(gctx, s.newRouter(logger), logger, &cfg.Server)
	})
	g.Go(func() error {
		stats, err := s.scan(gctx, ix)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		s.ready.Store(true)
		watcher := indexer.NewWatcher(ix, cfg.Indexer.PollingInterval, logger)
		if err := watcher.Run(gctx, stats.To+1); err != nil {
			return err
		}
		// watcher only returns nil on cancellation; stop the HTTP server too
		stop()
		return nil
	})

	return g.Wait()
}

func (s *Server) scan(ctx context.Context, ix *indexer.Indexer) (*indexer.RunStats, error) {
	if s.opts.From != nil || s.opts.To != nil {
		if s.opts.From == nil || s.opts.To == nil {
			return nil, fmt.Errorf("both -from and -to are required for a range scan")
		}
		return ix.ScanRange(ctx, *s.opts.From, *s.opts.To)
	}
	return ix.RunOnce(ctx)
}

func (s *Server) newRouter(logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apphttp.AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(defaultHTTPMiddlewareTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		if !s.ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("NOT_READY"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
		logger.Info("Metrics enabled", zap.String("path", "/metrics"))
	}

	return r
}
