// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick formats interactively in the terminal",
	Long: `Browse opens an interactive picker. Paste a URL and press enter to extract
it, tab to switch between video and audio, the arrow keys to change quality,
and d to take the download link. The last link taken is printed on exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(viper.GetViper())
		link, err := tui.Run(cmd.Context(), newExtractor(cfg),
			selection.WithToastDuration(cfg.Client.ToastDuration),
			selection.WithFallbackBase(downloadBase(cfg)),
		)
		if err != nil {
			return err
		}
		if link != "" {
			fmt.Fprintln(cmd.OutOrStdout(), link)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
