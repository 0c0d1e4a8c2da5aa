package main

import (
	"github.com/alecthomas/kong"

	"github.com/giovifav/ssg/cmd/ssg/commands"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("ssg"),
		kong.Description("Static site generator: Markdown content with galleries, blogs and client-side search."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
