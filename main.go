package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/nbextract/internal/db"
	"github.com/dtnitsch/nbextract/internal/extract"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "nbextract",
		Usage: "split notebook HTML exports into article, section, stylesheet and Binder link files",
		Description: "Finds every HTML file that sits next to a notebook with the same name and\n" +
			"extracts the article body, its <section> elements and inline stylesheet,\n" +
			"and writes an RST snippet with a Binder badge for the notebook.\n" +
			"Running without a command is the same as 'nbextract extract'.",
		Flags:  extract.ConfigFlags(),
		Action: extract.ExtractAction,
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "extract every notebook page under the root",
				Flags:  extract.ConfigFlags(),
				Action: extract.ExtractAction,
			},
			{
				Name:   "list",
				Usage:  "print the HTML files extract would process",
				Flags:  extract.ConfigFlags(),
				Action: extract.ListAction,
			},
			{
				Name:  "runs",
				Usage: "list recent runs from the ledger",
				Flags: append(extract.ConfigFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "maximum number of runs to show (0 for all)",
					},
				),
				Action: db.RunsAction,
			},
			{
				Name:      "run",
				Usage:     "show a run and the files it wrote",
				ArgsUsage: "[run-id]",
				Flags:     extract.ConfigFlags(),
				Action:    db.RunAction,
			},
			{
				Name:  "clean",
				Usage: "remove outputs the latest successful run no longer writes",
				Flags: append(extract.ConfigFlags(),
					&cli.BoolFlag{
						Name:  "all",
						Usage: "remove every output the ledger knows about",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "print what would be removed",
					},
				),
				Action: db.CleanAction,
			},
		},
	}
}
