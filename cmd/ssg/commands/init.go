package commands

import (
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"

	"github.com/giovifav/ssg/internal/config"
)

// InitCmd initializes a new site: either a minimal skeleton or a clone of a
// starter repository.
type InitCmd struct {
	Name   string `default:"My Site" help:"Site name written to the configuration."`
	Author string `default:"Anonymous" help:"Author written to the configuration."`
	From   string `help:"Git URL of a starter site to clone instead of the skeleton."`
	Force  bool   `help:"Overwrite an existing configuration file."`
}

func (i *InitCmd) Run(_ *Global, cli *CLI) error {
	if i.From != "" {
		return i.cloneStarter(cli.Site)
	}

	if err := config.Init(cli.Site, i.Name, i.Author, i.Force); err != nil {
		return err
	}

	indexPath := filepath.Join(cli.Site, "index.md")
	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		sample := fmt.Sprintf("# %s\n\nWelcome to your new site. Edit this file to get started.\n", i.Name)
		if err := os.WriteFile(indexPath, []byte(sample), 0o644); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized site %q in %s\n", i.Name, cli.Site)
	return nil
}

// cloneStarter clones a starter site and strips its git history, leaving a
// plain content tree ready to edit.
func (i *InitCmd) cloneStarter(dir string) error {
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 && !i.Force {
		return fmt.Errorf("directory %s is not empty (use --force to clone anyway)", dir)
	}

	_, err := git.PlainClone(dir, false, &git.CloneOptions{
		URL:   i.From,
		Depth: 1,
	})
	if err != nil {
		return fmt.Errorf("clone starter site: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(dir, ".git")); err != nil {
		return fmt.Errorf("strip starter git history: %w", err)
	}

	fmt.Printf("Cloned starter site from %s into %s\n", i.From, dir)
	return nil
}
