package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Bot     BotCmd           `cmd:"" help:"Run the Telegram bot"`
	Serve   ServeCmd         `cmd:"" help:"Serve the browser table over HTTP and WebSocket"`
	Play    PlayCmd          `cmd:"" help:"Practice at a table in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("highrollers"),
		kong.Description("Blackjack trainer that grades every decision against basic strategy"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
