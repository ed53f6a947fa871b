package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := session.Runner.Snapshot()
		if listJSON {
			out, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(state.Jobs) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}
		for i, job := range state.Jobs {
			line := fmt.Sprintf("%2d. %-30s %-12s", i+1, job.Input.Title, job.Status)
			if job.RetryCount > 0 {
				line += fmt.Sprintf(" retries=%d", job.RetryCount)
			}
			if job.Error != "" {
				line += fmt.Sprintf(" error=%q", job.Error)
			}
			fmt.Println(line)
		}
		fmt.Printf("\n%d job(s), %d pending\n", len(state.Jobs), state.PendingCount())
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "JSON output")
	rootCmd.AddCommand(listCmd)
}
