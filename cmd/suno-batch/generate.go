package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gemchajang/suno-batch-generator/internal/config"
	"github.com/gemchajang/suno-batch-generator/internal/http"
	"github.com/gemchajang/suno-batch-generator/internal/suno"
	"github.com/gemchajang/suno-batch-generator/internal/suno/dto"
)

var (
	genStyle        string
	genLyrics       string
	genLyricsFile   string
	genInstrumental bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <title>",
	Short: "Submit one generation directly through the API",
	Long: `generate bypasses the browser and submits a single generation request
to the private API. It needs SUNO_COOKIE or SUNO_TOKEN credentials and
does not touch the queue; use it to sanity-check credentials or to fire
a one-off request. The resulting clips can be fetched later with a
queued job or from the site.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := config.LoadCredentials(envFile)
		if err != nil {
			return fmt.Errorf("load credentials: %w", err)
		}
		if !creds.HasSession() {
			return fmt.Errorf("generate needs API credentials (SUNO_COOKIE or SUNO_TOKEN)")
		}

		lyrics := genLyrics
		if genLyricsFile != "" {
			data, err := os.ReadFile(genLyricsFile)
			if err != nil {
				return fmt.Errorf("read lyrics file: %w", err)
			}
			lyrics = strings.TrimSpace(string(data))
		}

		httpClient := http.NewClient()
		httpClient.SetSession(creds.SessionCookie, creds.BearerToken)
		client := suno.NewClient(httpClient, suno.DefaultBaseURL)

		resp, err := client.Generate(cmd.Context(), dto.GenerateRequest{
			Title:            args[0],
			Tags:             genStyle,
			Prompt:           lyrics,
			MakeInstrumental: genInstrumental,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Submitted %q, %d clip(s):\n", args[0], len(resp.Clips))
		for _, clip := range resp.Clips {
			fmt.Printf("  %s (%s)\n", clip.ID, clip.Status)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&genStyle, "style", "", "style of music, e.g. \"synthwave, dreamy\"")
	generateCmd.Flags().StringVar(&genLyrics, "lyrics", "", "song lyrics")
	generateCmd.Flags().StringVar(&genLyricsFile, "lyrics-file", "", "read lyrics from a file")
	generateCmd.Flags().BoolVar(&genInstrumental, "instrumental", false, "generate without vocals")
	rootCmd.AddCommand(generateCmd)
}
