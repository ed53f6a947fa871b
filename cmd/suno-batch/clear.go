package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every job from the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Runner.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Queue cleared.")
		return nil
	},
}

var skipCmd = &cobra.Command{
	Use:   "skip <job-id>",
	Short: "Skip a pending job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Runner.Skip(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Job skipped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(skipCmd)
}
