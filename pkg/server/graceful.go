package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-graphstats/pkg/logging"
)

// DefaultShutdownTimeout bounds how long in-flight requests may drain.
const DefaultShutdownTimeout = 10 * time.Second

// ReloadFunc refreshes the served state, e.g. by re-running the analysis.
type ReloadFunc func(ctx context.Context) error

// GracefulServer wraps an HTTP server with graceful shutdown and SIGHUP
// reloads.
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	reloadFn     ReloadFunc
	reloadMu     sync.Mutex
}

// NewGracefulServer creates a new graceful HTTP server
func NewGracefulServer(addr string, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. SIGHUP triggers the reload function while serving.
func (gs *GracefulServer) Serve(ctx context.Context, ln net.Listener) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go gs.handleSignals(ctx, sigCh)
	go func() {
		select {
		case <-ctx.Done():
			if err := gs.Shutdown(DefaultShutdownTimeout); err != nil {
				gs.logger.Error("shutdown error", logging.Error(err))
			}
		case <-gs.shutdownCh:
		}
	}()

	gs.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		gs.logger.Info("initiating graceful shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err == nil {
			gs.logger.Info("server shutdown complete")
		}
	})
	return err
}

func (gs *GracefulServer) handleSignals(ctx context.Context, sigCh <-chan os.Signal) {
	for {
		select {
		case <-sigCh:
			gs.logger.Info("received SIGHUP, reloading")
			if err := gs.Reload(ctx); err != nil {
				gs.logger.Error("reload failed", logging.Error(err))
			}
		case <-gs.shutdownCh:
			return
		}
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// SetReloadFunc sets the function to call when a reload is triggered
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// Reload runs the reload function. Concurrent reloads are serialized.
func (gs *GracefulServer) Reload(ctx context.Context) error {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()

	if gs.reloadFn == nil {
		gs.logger.Warn("reload requested, but no reload function configured")
		return nil
	}
	start := time.Now()
	if err := gs.reloadFn(ctx); err != nil {
		return err
	}
	gs.logger.Info("reload complete", logging.Latency(time.Since(start)))
	return nil
}
