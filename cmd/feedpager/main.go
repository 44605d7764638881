package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/feedpager/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "config file (yaml, json or toml)")
	theme := flag.String("theme", "", "classic | neon | mono")
	renderAll := flag.Bool("all", false, "list every record instead of the selected page")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	code := cli.Run(args, cli.Options{
		ConfigPath: *configPath,
		Theme:      *theme,
		RenderAll:  *renderAll,
		NoColor:    *noColor,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
