package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemchajang/suno-batch-generator/internal/config"
)

var (
	cfgTimeout    int
	cfgDelay      int
	cfgRetries    int
	cfgOutput     string
	cfgFormat     string
	cfgNameFormat string
	cfgExport     string
	cfgImport     string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgImport != "" {
			loaded, err := config.Load(cfgImport)
			if err != nil {
				return fmt.Errorf("import settings: %w", err)
			}
			if err := session.Runner.ReplaceSettings(cmd.Context(), loaded); err != nil {
				return err
			}
		}

		patch := config.Patch{}
		changed := false
		if cmd.Flags().Changed("timeout") {
			patch.GenerationTimeoutSec = &cfgTimeout
			changed = true
		}
		if cmd.Flags().Changed("delay") {
			patch.DelayBetweenJobsSec = &cfgDelay
			changed = true
		}
		if cmd.Flags().Changed("retries") {
			patch.MaxRetries = &cfgRetries
			changed = true
		}
		if cmd.Flags().Changed("output") {
			patch.DownloadsPath = &cfgOutput
			changed = true
		}
		if cmd.Flags().Changed("format") {
			if cfgFormat != "mp3" && cfgFormat != "wav" {
				return fmt.Errorf("format must be mp3 or wav, got %q", cfgFormat)
			}
			patch.AudioFormat = &cfgFormat
			changed = true
		}
		if cmd.Flags().Changed("name-format") {
			patch.FileNameFormat = &cfgNameFormat
			changed = true
		}

		if changed {
			if err := session.Runner.UpdateSettings(cmd.Context(), patch); err != nil {
				return err
			}
		}

		current := session.Runner.Settings()
		if cfgExport != "" {
			if err := current.Save(cfgExport); err != nil {
				return fmt.Errorf("export settings: %w", err)
			}
			fmt.Printf("settings written to %s\n", cfgExport)
			return nil
		}
		out, err := json.MarshalIndent(&current, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	configCmd.Flags().IntVar(&cfgTimeout, "timeout", 0, "generation timeout in seconds")
	configCmd.Flags().IntVar(&cfgDelay, "delay", 0, "delay between jobs in seconds")
	configCmd.Flags().IntVar(&cfgRetries, "retries", 0, "retry budget per job")
	configCmd.Flags().StringVar(&cfgOutput, "output", "", "downloads directory")
	configCmd.Flags().StringVar(&cfgFormat, "format", "", "audio format (mp3|wav)")
	configCmd.Flags().StringVar(&cfgNameFormat, "name-format", "", "filename template, e.g. \"{title} ({index})\"")
	configCmd.Flags().StringVar(&cfgExport, "export", "", "write current settings to a JSON file")
	configCmd.Flags().StringVar(&cfgImport, "import", "", "load settings from a JSON file")
	rootCmd.AddCommand(configCmd)
}
