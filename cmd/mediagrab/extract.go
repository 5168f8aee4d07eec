// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/mediagrab/internal/client"
	"github.com/pdiddy/mediagrab/internal/gateway"
	"github.com/pdiddy/mediagrab/internal/render"
	"github.com/pdiddy/mediagrab/internal/selection"
	"github.com/pdiddy/mediagrab/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract URL",
	Short: "Extract formats for a media URL and print the download link",
	Long: `Extract runs one extraction and prints the result: the title, the
available formats, and the download link for the selected mode and quality.
Without --mode and --quality the best video format is selected, or the best
audio format when there is no video.

When client.gateway_url is set the request goes to that running gateway;
otherwise the gateway runs in-process against extract_api_url.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("mode", "", "video or audio")
	extractCmd.Flags().String("quality", "", "format ID, tier (highest, mid, lowest), or quality label (e.g. 720p)")
	extractCmd.Flags().Bool("json", false, "print the result as JSON")
	extractCmd.Flags().Bool("yaml", false, "print the result as YAML")

	rootCmd.AddCommand(extractCmd)
}

// extractOptions is the parsed form of extract's flags.
type extractOptions struct {
	mode    string
	quality string
	format  string
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	opts := extractOptions{format: "text"}
	opts.mode, _ = cmd.Flags().GetString("mode")
	opts.quality, _ = cmd.Flags().GetString("quality")
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		opts.format = "json"
	}
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		if opts.format == "json" {
			return fmt.Errorf("--json and --yaml are mutually exclusive")
		}
		opts.format = "yaml"
	}

	m := selection.New(selection.WithFallbackBase(downloadBase(cfg)))
	return extractAndPrint(cmd.Context(), cmd.OutOrStdout(), newExtractor(cfg), m, args[0], opts)
}

// newExtractor picks the remote gateway when one is configured, else an
// in-process gateway.
func newExtractor(cfg types.AppConfig) selection.Extractor {
	if cfg.Client.GatewayURL != "" {
		c := client.New(cfg.Client.GatewayURL, &http.Client{})
		c.UserAgent = cfg.Gateway.UserAgent
		return c
	}
	return gateway.New(cfg.Gateway, &http.Client{})
}

// errExtractionFailed marks a failure already reported to the user.
var errExtractionFailed = errors.New("extraction failed")

func extractAndPrint(ctx context.Context, w io.Writer, ex selection.Extractor, m *selection.Machine, u string, opts extractOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.Extract(ctx, ex, u); err != nil {
		return err
	}

	switch st := m.State().(type) {
	case selection.Failed:
		if opts.format == "text" {
			return fmt.Errorf("%w: %s", errExtractionFailed, st.Message)
		}
	case selection.Success:
		if err := applySelection(m, st.Result, opts); err != nil {
			return err
		}
	}

	snap := selection.SnapshotOf(m.State())
	if err := writeSnapshot(w, snap, opts.format); err != nil {
		return err
	}
	if snap.Phase == selection.PhaseError {
		return errExtractionFailed
	}
	return nil
}

func writeSnapshot(w io.Writer, snap selection.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case "yaml":
		out, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		printSummary(w, snap)
		return nil
	}
}

func applySelection(m *selection.Machine, res types.ExtractionResult, opts extractOptions) error {
	mode := types.MediaType(strings.ToLower(opts.mode))
	if opts.mode != "" {
		if !mode.Valid() {
			return fmt.Errorf("unknown mode %q: use video or audio", opts.mode)
		}
		if err := m.ChangeMode(mode); err != nil {
			return err
		}
	}
	if opts.quality == "" {
		return nil
	}
	if mode == "" {
		mode = selection.DefaultMode(res)
	}
	id, ok := matchFormat(res, mode, opts.quality)
	if !ok {
		return fmt.Errorf("no %s format matches %q", mode, opts.quality)
	}
	return m.ChangeTier(id)
}

// matchFormat finds a format of mode m by ID, then tier, then quality label.
func matchFormat(res types.ExtractionResult, m types.MediaType, q string) (string, bool) {
	formats := res.FormatsFor(m)
	for _, match := range []func(types.FormatDescriptor) bool{
		func(f types.FormatDescriptor) bool { return f.ID == q },
		func(f types.FormatDescriptor) bool { return strings.EqualFold(f.Tier, q) },
		func(f types.FormatDescriptor) bool { return strings.EqualFold(f.QualityLabel, q) },
	} {
		for _, f := range formats {
			if match(f) {
				return f.ID, true
			}
		}
	}
	return "", false
}

func printSummary(w io.Writer, snap selection.Snapshot) {
	res, sel := snap.Result, snap.Selection
	if res == nil || sel == nil {
		return
	}
	fmt.Fprintf(w, "%s\n", res.Title)
	if d := render.Duration(res.DurationSeconds); d != "" {
		fmt.Fprintf(w, "Duration: %s\n", d)
	}
	for _, mode := range []types.MediaType{types.MediaVideo, types.MediaAudio} {
		formats := res.FormatsFor(mode)
		if len(formats) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", strings.ToUpper(string(mode[:1]))+string(mode[1:]))
		for _, f := range formats {
			marker := " "
			if f.ID == sel.Tier {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %-16s %s\n", marker, f.ID, render.FormatLine(f))
		}
	}
	fmt.Fprintf(w, "\nDownload: %s\n", snap.DownloadURL)
}
