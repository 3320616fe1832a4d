package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Env string `long:"env" env:"ENV" description:"Environment name; local requires a .env file"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "One-shot operations against the news digest pipeline"

	rt := &runtime{opts: &opts, out: os.Stdout}
	commands := []struct {
		name, short, long string
		cmd               any
	}{
		{"migrate", "Apply database migrations", "Applies every pending PostgreSQL schema migration.", &migrateCommand{rt: rt}},
		{"dispatch", "Run one dispatch cycle", "Claims eligible queue jobs, runs them and prints the cycle summary.", &dispatchCommand{rt: rt}},
		{"digest", "Generate daily digests", "Builds digests for one user or every user with settings.", &digestCommand{rt: rt}},
		{"import", "Submit article URLs from a CSV file", "Queues every row of a CSV file as a new article.", &importCommand{rt: rt}},
		{"reindex", "Rebuild a user's search documents", "Indexes every ready article of a user into Elasticsearch.", &reindexCommand{rt: rt}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.cmd); err != nil {
			slog.Error("Failed to register command", "command", c.name, "error", err)
			os.Exit(1)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
