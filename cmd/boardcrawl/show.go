package main

import (
	"fmt"
	"io"

	"github.com/pevans/boardcrawl"
	"github.com/pevans/boardcrawl/config"
	"github.com/pevans/boardcrawl/sink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var showFlags struct {
	configPath string
	format     string
	output     string
	content    bool
}

func init() {
	f := showCmd.Flags()
	f.StringVar(&showFlags.configPath, "config", config.DefaultConfigPath, "Path to YAML configuration file")
	f.StringVar(&showFlags.format, "format", "", "Output format to read: json, dir or sqlite (overrides config)")
	f.StringVarP(&showFlags.output, "output", "o", "", "Output file or directory to read (overrides config)")
	f.BoolVar(&showFlags.content, "content", false, "Print each article's body after the table")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [--format <format>] [-o <path>]",
	Short: "Lists the articles a previous crawl wrote.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(showFlags.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		format, path := cfg.Output.Format, cfg.Output.Path
		if cmd.Flags().Changed("format") {
			format = showFlags.format
		}
		if cmd.Flags().Changed("output") {
			path = showFlags.output
		}

		articles, readErrs, err := sink.Read(format, path)
		if err != nil {
			return err
		}
		for _, re := range readErrs {
			logrus.WithField("file", re.Filename).WithError(re.Err).Warn("skipping unreadable article")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d articles in %s (%s)\n\n", len(articles), path, format)
		printArticles(out, articles)
		if showFlags.content {
			printContents(out, articles)
		}
		return nil
	},
}

// printContents prints each article's body under its title.
func printContents(w io.Writer, articles []boardcrawl.Article) {
	for _, a := range articles {
		fmt.Fprintf(w, "\n== %s (%s)\n%s\n", a.Title, a.URL, a.Content)
	}
}
