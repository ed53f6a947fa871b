package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gemchajang/suno-batch-generator/internal/events"
	"github.com/gemchajang/suno-batch-generator/internal/model"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process the queue",
	Long: `run attaches to a Chrome session, opens the Suno create page and
processes pending jobs one at a time until the queue drains or the
process is interrupted. Interrupting leaves the active job pending so
the next run resumes it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if session.Runner.Snapshot().PendingCount() == 0 {
			fmt.Println("Nothing to do, queue has no pending jobs.")
			return nil
		}

		if err := session.Attach(ctx, envFile); err != nil {
			return err
		}

		session.Bus.Subscribe(func(e events.Event) {
			if e.Kind != events.KindLog {
				return
			}
			fmt.Printf("[%s] %s\n", e.Level, e.Message)
		})

		if err := session.Runner.Start(ctx); err != nil {
			return err
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Println("\nInterrupted, stopping after the current step...")
			session.Runner.Stop()
		}()

		session.Runner.Wait()

		state := session.Runner.Snapshot()
		completed, failed := 0, 0
		for _, job := range state.Jobs {
			switch job.Status {
			case model.StatusCompleted:
				completed++
			case model.StatusFailed:
				failed++
			}
		}
		fmt.Printf("\nDone: %d completed, %d failed, %d still pending\n",
			completed, failed, state.PendingCount())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
