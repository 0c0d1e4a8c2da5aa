package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/giovifav/ssg/internal/config"
	"github.com/giovifav/ssg/internal/history"
)

// HistoryCmd lists past generation runs from the configured history database.
type HistoryCmd struct {
	Limit int `short:"n" default:"20" help:"Number of runs to show."`
}

func (h *HistoryCmd) Run(_ *Global, cli *CLI) error {
	cfg, err := config.Load(cli.Site)
	if err != nil {
		return err
	}
	if cfg.HistoryDB == "" {
		return fmt.Errorf("no history_db configured in %s", config.ConfigFileName)
	}

	store, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(context.Background(), h.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-8s  %5s  %8s  %6s\n",
		"RUN", "START", "OUTCOME", "PAGES", "WARNINGS", "ERRORS")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %-8s  %5d  %8d  %6d\n",
			r.RunID, r.Start.Format(time.DateTime), r.Outcome, r.Pages, r.Warnings, r.Errors)
	}
	return nil
}
