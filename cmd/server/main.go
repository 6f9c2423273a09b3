// Command server wires every retrieval-core subsystem together and runs
// the two transports named in §6: an HTTP API and a Stream-RPC loop over
// stdin/stdout, side by side until a termination signal arrives.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opsknowledge/retrieval-core/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the server configuration file")
	disableStreamRPC := flag.Bool("no-stream-rpc", false, "disable the Stream-RPC loop over stdin/stdout")
	flag.Parse()

	if err := run(*configPath, *disableStreamRPC); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(configPath string, disableStreamRPC bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := secretResolver()
	cfg, err := config.Load(ctx, configPath, resolver)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sys, err := newSystem(ctx, cfg)
	if err != nil {
		return fmt.Errorf("wire subsystems: %w", err)
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      trackInFlight(&sys.wg, httpHandler(sys)),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutS) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutS) * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		sys.logger.Info(ctx, "http server listening", observeField("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	if !disableStreamRPC {
		// The scanner only observes ctx cancellation between lines, so a
		// blocked read on stdin can outlive shutdown; accepted for the
		// interactive single-client use this transport is built for.
		go func() {
			if err := sys.streamrpc.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("stream-rpc: %w", err)
				return
			}
			errCh <- nil
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			stop()
			shutdown(sys, httpSrv)
			return err
		}
	}

	return shutdown(sys, httpSrv)
}

// shutdown stops the HTTP server (http.Server.Shutdown waits for active
// connections), waits for tracked in-flight requests to drain, then stops
// monitoring timers, closes the adapter registry, and disconnects the
// remote cache, in that order, per §5's shutdown sequence.
func shutdown(sys *system, httpSrv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var errs []error
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	drained := make(chan struct{})
	go func() {
		sys.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-shutdownCtx.Done():
		errs = append(errs, errors.New("shutdown: timed out draining in-flight requests"))
	}

	if err := sys.Close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}
