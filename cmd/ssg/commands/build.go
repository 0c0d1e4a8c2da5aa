package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/giovifav/ssg/internal/config"
	"github.com/giovifav/ssg/internal/history"
	"github.com/giovifav/ssg/internal/logfields"
	"github.com/giovifav/ssg/internal/notify"
	"github.com/giovifav/ssg/internal/site"
)

// BuildCmd generates the site once.
type BuildCmd struct {
	Report string `short:"r" help:"Write the generation report as JSON to this path."`
	Strict bool   `help:"Exit non-zero when the run finished with warnings."`
}

func (b *BuildCmd) Run(_ *Global, cli *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(cli.Site)
	if err != nil {
		return err
	}

	generator := site.NewGenerator(cli.Site, cfg)
	report, genErr := generator.Generate(ctx)

	finishRun(ctx, cfg, report)
	if b.Report != "" {
		if err := report.Persist(b.Report); err != nil {
			slog.Warn("Could not write report", logfields.Error(err))
		}
	}

	fmt.Println(report.Summary())
	if genErr != nil {
		return genErr
	}
	if b.Strict && report.Outcome != site.OutcomeSuccess {
		return fmt.Errorf("run finished with %d warnings", len(report.Warnings))
	}
	return nil
}

// finishRun handles the optional post-run integrations: run history and
// event publishing. Both are best effort and never change the build result.
func finishRun(ctx context.Context, cfg *config.Config, report *site.Report) {
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			slog.Warn("Could not open history database", logfields.Error(err))
		} else {
			defer store.Close()
			if err := store.Record(ctx, report); err != nil {
				slog.Warn("Could not record run history", logfields.Error(err))
			}
		}
	}

	if cfg.NATSURL != "" {
		pub, err := notify.Connect(cfg.NATSURL, cfg.SiteName)
		if err != nil {
			slog.Warn("Could not connect to NATS", logfields.Error(err))
			return
		}
		defer pub.Close()
		if err := pub.PublishReport(report); err != nil {
			slog.Warn("Could not publish generation event", logfields.Error(err))
		}
	}
}
