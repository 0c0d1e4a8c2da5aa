package commands

import (
	"fmt"

	"github.com/giovifav/ssg/internal/content"
)

// ScanCmd lists the discovered content tree without generating anything,
// useful for checking how directories will be classified.
type ScanCmd struct{}

func (s *ScanCmd) Run(_ *Global, cli *CLI) error {
	entries, warnings, err := content.NewScanner(cli.Site).Scan()
	if err != nil {
		return err
	}

	for _, e := range entries {
		rel := e.RelPath
		if rel == "" {
			rel = "."
		}
		fmt.Printf("%-8s %s\n", e.Kind, rel)
	}
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w.Message)
	}
	return nil
}
