package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gemchajang/suno-batch-generator/internal/app"
	"github.com/gemchajang/suno-batch-generator/internal/tui"
)

func main() {
	dbPath := flag.String("db", "", "path to the queue database (default ~/.suno-batch/queue.db)")
	envFile := flag.String("env", "", "path to a .env file with SUNO_COOKIE / SUNO_TOKEN")
	flag.Parse()

	ctx := context.Background()

	session, err := app.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer session.Close()

	if err := session.Attach(ctx, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(session.Runner, session.Bus); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
