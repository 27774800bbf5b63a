package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/pagemeta/internal/metadata"
)

// newScrapeCmd creates the 'scrape' subcommand, which extracts one page and
// prints the JSON the API would return.
func newScrapeCmd() *cobra.Command {
	var only string
	cmd := &cobra.Command{
		Use:   "scrape <url>",
		Short: "Extracts metadata from a single page",
		Long: `Fetches the given URL (https:// is assumed when no scheme is given)
and prints its title, Open Graph tags and favicon as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrapeCommand(cmd, args[0], only)
		},
	}
	cmd.Flags().StringVar(&only, "only", "", `restrict output to "title" or "og_tags"`)
	return cmd
}

func runScrapeCommand(cmd *cobra.Command, rawURL, only string) error {
	var pick func(metadata.PageMetadata) any
	switch only {
	case "":
		pick = func(m metadata.PageMetadata) any { return m }
	case "title":
		pick = func(m metadata.PageMetadata) any { return map[string]*string{"title": m.Title} }
	case "og_tags":
		pick = func(m metadata.PageMetadata) any { return map[string]metadata.OGTags{"og_tags": m.OGTags} }
	default:
		return fmt.Errorf(`invalid "only" value %q`, only)
	}

	cfg, err := resolveConfig(cmd.Context())
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	meta, err := app.Extractor().Extract(cmd.Context(), rawURL)
	if err != nil {
		app.Logger().Error("extraction failed", zap.String("url", rawURL), zap.Error(err))
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(pick(meta)); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
