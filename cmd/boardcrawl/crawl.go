package main

import (
	"fmt"
	"io"

	"github.com/pevans/boardcrawl"
	"github.com/pevans/boardcrawl/browser"
	"github.com/pevans/boardcrawl/config"
	"github.com/pevans/boardcrawl/sink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var crawlFlags struct {
	configPath string
	boardURL   string
	pages      int
	format     string
	output     string
	summary    bool
}

func init() {
	f := crawlCmd.Flags()
	f.StringVar(&crawlFlags.configPath, "config", config.DefaultConfigPath, "Path to YAML configuration file")
	f.StringVar(&crawlFlags.boardURL, "board-url", "", "Listing page to start from (overrides config)")
	f.IntVar(&crawlFlags.pages, "pages", 0, "Number of listing pages to read (overrides config)")
	f.StringVar(&crawlFlags.format, "format", "", "Output format: text, json, dir or sqlite (overrides config)")
	f.StringVarP(&crawlFlags.output, "output", "o", "", "Output file, or directory for --format dir (overrides config)")
	f.BoolVar(&crawlFlags.summary, "summary", true, "Print a table of collected articles")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--board-url <url>] [--pages <n>] [--format <format>] [-o <path>]",
	Short: "Crawls a board backward from its newest listing page and writes the articles.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(crawlFlags.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		engine, err := browser.NewHTTPEngine(cfg.HTTPOptions())
		if err != nil {
			return err
		}
		defer engine.Close()

		walker, err := boardcrawl.NewWalker(cfg.WalkerConfig(), logrus.NewEntry(logrus.StandardLogger()))
		if err != nil {
			return err
		}

		result, crawlErr := walker.Crawl(cmd.Context(), engine)
		if result == nil {
			return crawlErr
		}
		if crawlErr != nil && cmd.Context().Err() == nil {
			return crawlErr
		}
		if result.PagesVisited == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Crawl cancelled before the board loaded; nothing written.")
			return nil
		}

		// Interrupted crawls still save what they collected.
		if err := writeArticles(cfg.Output, result.Articles); err != nil {
			return err
		}

		if crawlFlags.summary {
			printSummary(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Crawl finished: %d articles written to %s (%s)\n",
			len(result.Articles), cfg.Output.Path, cfg.Output.Format)

		return nil
	},
}

// applyFlags overlays explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.FileConfig) {
	flags := cmd.Flags()
	if flags.Changed("board-url") {
		cfg.Board.URL = crawlFlags.boardURL
	}
	if flags.Changed("pages") {
		cfg.Board.Pages = crawlFlags.pages
	}
	if flags.Changed("format") {
		cfg.Output.Format = crawlFlags.format
	}
	if flags.Changed("output") {
		cfg.Output.Path = crawlFlags.output
	}
}

func writeArticles(out config.OutputSection, articles []boardcrawl.Article) error {
	s, err := sink.New(out.Format, out.Path)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	if closer, ok := s.(io.Closer); ok {
		defer closer.Close()
	}

	if err := s.Write(articles); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
