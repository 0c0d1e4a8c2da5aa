package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/giovifav/ssg/internal/config"
	"github.com/giovifav/ssg/internal/logfields"
	"github.com/giovifav/ssg/internal/metrics"
	"github.com/giovifav/ssg/internal/site"
	"github.com/giovifav/ssg/internal/watch"
)

// ServeCmd generates the site, serves the output over HTTP and regenerates
// on content changes.
type ServeCmd struct {
	Port     int           `short:"p" default:"8080" help:"HTTP port for the preview server."`
	Interval time.Duration `help:"Also regenerate on a fixed interval (e.g. 30m); disabled when zero."`
	Metrics  bool          `help:"Expose Prometheus metrics on /metrics."`
}

func (s *ServeCmd) Run(_ *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cli.Site)
	if err != nil {
		return err
	}

	var opts []site.Option
	registry := prom.NewRegistry()
	if s.Metrics {
		opts = append(opts, site.WithRecorder(metrics.NewPrometheusRecorder(registry)))
	}
	generator := site.NewGenerator(cli.Site, cfg, opts...)

	rebuild := func(ctx context.Context) {
		report, err := generator.Generate(ctx)
		if err != nil {
			slog.Error("Regeneration failed", logfields.Error(err))
			return
		}
		finishRun(ctx, cfg, report)
		slog.Info("Site regenerated", logfields.Count(report.Pages))
	}

	// Initial generation; a broken site is still served so the operator can
	// see and fix the problem while watching.
	report, err := generator.Generate(ctx)
	if err != nil {
		slog.Error("Initial generation failed", logfields.Error(err))
	} else {
		finishRun(ctx, cfg, report)
	}

	watchOpts := []watch.Option{watch.WithExclude(generator.OutputRoot())}
	if s.Interval > 0 {
		watchOpts = append(watchOpts, watch.WithInterval(s.Interval))
	}
	watcher, err := watch.New(cli.Site, rebuild, watchOpts...)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(generator.OutputRoot())))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Metrics {
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving site", slog.String("addr", server.Addr), logfields.Output(generator.OutputRoot()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
