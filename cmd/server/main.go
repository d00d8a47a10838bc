package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apiconfig "github.com/janisto/answer-api/internal/api"
	"github.com/janisto/answer-api/internal/http/v1/routes"
	"github.com/janisto/answer-api/internal/platform/config"
	applog "github.com/janisto/answer-api/internal/platform/logging"
	appmiddleware "github.com/janisto/answer-api/internal/platform/middleware"
	"github.com/janisto/answer-api/internal/platform/respond"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		applog.LogError(context.Background(), "server failed", err)
		_ = applog.Sync()
		os.Exit(1)
	}
	_ = applog.Sync()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "answer-api",
		Short: "Serve the answer over HTTP",
		Long: `answer-api serves GET / with {"data": 42}.

The server listens on 0.0.0.0:3000 unless --host or --port say otherwise.
Logging comes from the environment (LOG_LEVEL, ACCESS_LOG), an optional
.env file, and the flags below, which take precedence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := run(ctx, cfg); err != nil {
				return err
			}
			applog.LogInfo(ctx, "server exited")
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	f := cmd.Flags()
	f.String("host", config.DefaultHost, "interface to bind")
	f.String("port", config.DefaultPort, "TCP port to bind")
	f.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	f.Bool("access-log", false, "log one line per completed request")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "answer-api %s\n", Version)
		},
	})
	return cmd
}

// applyFlags overrides cfg with every flag set explicitly on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("host") {
		cfg.Host, _ = f.GetString("host")
	}
	if f.Changed("port") {
		cfg.Port, _ = f.GetString("port")
	}
	if f.Changed("log-level") {
		v, _ := f.GetString("log-level")
		lvl, err := config.ParseLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = lvl
	}
	if f.Changed("access-log") {
		cfg.AccessLog, _ = f.GetBool("access-log")
	}
	return cfg.Validate()
}

// run binds the listener, announces the port and serves until ctx is done.
// A bind failure is returned before anything is announced.
func run(ctx context.Context, cfg config.Config) error {
	if err := applog.Err(); err != nil {
		applog.LogError(ctx, "logger init error", err)
	}
	applog.SetLevel(cfg.LogLevel)

	ln, err := listen(ctx, cfg.Addr())
	if err != nil {
		return err
	}
	srv := newServer(newRouter(cfg))

	addr := ln.Addr().String()
	port := cfg.Port
	if tcp, ok := ln.Addr().(*net.TCPAddr); ok {
		port = strconv.Itoa(tcp.Port)
	}
	applog.LogInfo(ctx, startupMessage(port), zap.String("addr", addr))

	return serve(ctx, srv, ln)
}

func startupMessage(port string) string {
	return "server running on port " + port
}

func listen(ctx context.Context, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, listenNetwork(addr), addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return ln, nil
}

// listenNetwork keeps an IPv4 literal host on an IPv4-only socket, so
// 0.0.0.0 does not become a dual-stack [::] listener.
func listenNetwork(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "tcp"
	}
	if ip := net.ParseIP(host); ip != nil && ip.To4() != nil {
		return "tcp4"
	}
	return "tcp"
}

// serve runs srv on ln and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		applog.LogInfo(ctx, "shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

func newRouter(cfg config.Config) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	stack := []func(http.Handler) http.Handler{
		appmiddleware.Security(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Real-IP / X-Forwarded-For. Only deploy behind a trusted proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1 << 20), // 1 MB
		applog.RequestLogger(),
	}
	if cfg.AccessLog {
		stack = append(stack, applog.AccessLogger())
	}
	stack = append(stack, respond.Recoverer())
	router.Use(stack...)

	api := humachi.New(router, apiconfig.NewConfig(Version))
	routes.Register(api)
	return router
}
