package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gemchajang/suno-batch-generator/internal/model"
)

var (
	addStyle        string
	addLyrics       string
	addLyricsFile   string
	addInstrumental bool
	addSubfolder    string
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Queue a song for generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lyrics := addLyrics
		if addLyricsFile != "" {
			data, err := os.ReadFile(addLyricsFile)
			if err != nil {
				return fmt.Errorf("read lyrics file: %w", err)
			}
			lyrics = strings.TrimSpace(string(data))
		}

		job, err := session.Runner.Add(cmd.Context(), model.SongInput{
			Title:        args[0],
			Style:        addStyle,
			Lyrics:       lyrics,
			Instrumental: addInstrumental,
			Subfolder:    addSubfolder,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Queued %q (%s), %d job(s) pending\n",
			job.Input.Title, job.ID, session.Runner.Snapshot().PendingCount())
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addStyle, "style", "", "style of music, e.g. \"synthwave, dreamy\"")
	addCmd.Flags().StringVar(&addLyrics, "lyrics", "", "song lyrics")
	addCmd.Flags().StringVar(&addLyricsFile, "lyrics-file", "", "read lyrics from a file")
	addCmd.Flags().BoolVar(&addInstrumental, "instrumental", false, "generate without vocals")
	addCmd.Flags().StringVar(&addSubfolder, "subfolder", "", "subfolder under the downloads directory")
	rootCmd.AddCommand(addCmd)
}
