package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "xstatus",
		Usage: "Serve and administer Redis-backed status queues",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve poll endpoints and Prometheus metrics",
				Flags:  serveFlags(),
				Action: runServe,
			},
			{
				Name:      "push",
				Usage:     "Push a status record onto a queue",
				ArgsUsage: "<queue>",
				Flags:     pushFlags(),
				Action:    runPush,
			},
			{
				Name:      "drain",
				Usage:     "Pop up to --count records from a queue, oldest first",
				ArgsUsage: "<queue>",
				Flags:     drainFlags(),
				Action:    runDrain,
			},
			{
				Name:      "peek",
				Usage:     "Print the oldest record without removing it",
				ArgsUsage: "<queue>",
				Action:    runPeek,
			},
			{
				Name:      "size",
				Usage:     "Print the number of records in a queue",
				ArgsUsage: "<queue>",
				Action:    runSize,
			},
			{
				Name:      "clear",
				Usage:     "Remove every record from a queue",
				ArgsUsage: "<queue>",
				Action:    runClear,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
