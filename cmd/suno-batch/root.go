package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gemchajang/suno-batch-generator/internal/app"
)

var (
	dbPath  string
	envFile string
	session *app.Session
)

var rootCmd = &cobra.Command{
	Use:   "suno-batch",
	Short: "Bulk song generation queue for Suno",
	Long: `suno-batch queues song inputs and generates them one at a time by
driving the Suno create page in a Chrome session, then downloads the
resulting audio files.

Queue inspection commands work offline; the run command attaches to a
browser. For an interactive dashboard, use suno-batch-tui.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if session != nil {
			return nil
		}
		s, err := app.Open(cmd.Context(), dbPath)
		if err != nil {
			return err
		}
		session = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if session != nil {
			session.Close()
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the queue database (default ~/.suno-batch/queue.db)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file with SUNO_COOKIE / SUNO_TOKEN")
}
