package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/steveAllen0112/http-aware-forms/internal/ctxlog"
	"github.com/steveAllen0112/http-aware-forms/pkg/expect"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("httpform-validator", flag.ContinueOnError)
	flags.SetOutput(out)
	addr := flags.String("addr", "localhost", "interface to listen on")
	port := flags.Int("port", 9999, "port to listen on")
	if err := flags.Parse(args); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(*addr, fmt.Sprint(*port)))
	if err != nil {
		return fmt.Errorf("validator: listen: %w", err)
	}
	printBanner(out, listener.Addr().String())
	return serve(ctx, listener, slog.Default())
}

func serve(ctx context.Context, listener net.Listener, logger *slog.Logger) error {
	server := &http.Server{
		Handler:           expect.NewHandler(expect.Pagination()),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctxlog.WithLogger(context.Background(), logger)
		},
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("validator: shutdown: %w", err)
		}
		<-errs
		return nil
	}
}

func printBanner(out io.Writer, addr string) {
	rule := strings.Repeat("=", 70)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "  PAGINATION REQUEST VALIDATOR")
	fmt.Fprintf(out, "  http://%s\n", addr)
	fmt.Fprintln(out, strings.Repeat("-", 70))
	fmt.Fprintln(out, "  Expected headers:")
	fmt.Fprintln(out, "    Prefer: view=<list|cards|kanban|table-rows|...>")
	fmt.Fprintln(out, "    Range: pages=<N>@<M>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Path must NOT contain: ;page= ;per= ;view= ?page= ?per= ?view=")
	fmt.Fprintln(out, rule)
}
