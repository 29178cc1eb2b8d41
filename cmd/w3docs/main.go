package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/lmittmann/w3docs/cmd/w3docs/commands"
	foundationerrors "github.com/lmittmann/w3docs/internal/foundation/errors"
	"github.com/lmittmann/w3docs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}

	parser := kong.Parse(cli,
		kong.Name("w3docs"),
		kong.Description("Build the w3 documentation site with resolved Go symbol references."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global, cli),
	)
	global.Logger = slog.Default()

	if err := parser.Run(); err != nil {
		foundationerrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
