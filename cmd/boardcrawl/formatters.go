package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/boardcrawl"
)

const (
	titleColumns  = 48
	authorColumns = 20
)

// printSummary prints one row per article and per failure. Board titles are
// mostly CJK, so columns are padded by display width rather than bytes.
func printSummary(w io.Writer, result *boardcrawl.CrawlResult) {
	fmt.Fprintf(w, "Pages visited: %d (stopped: %s)\n\n", result.PagesVisited, result.Stop)

	printArticles(w, result.Articles)

	if len(result.Failures) > 0 {
		fmt.Fprintf(w, "\nFailed articles (%d):\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(w, "  - %s: %v\n", runewidth.Truncate(f.Title, titleColumns, "..."), f.Err)
		}
	}
	fmt.Fprintln(w)
}

// printArticles prints the title/author/popularity table.
func printArticles(w io.Writer, articles []boardcrawl.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles collected.")
		return
	}

	fmt.Fprintf(w, "%s %s %5s\n", cell("TITLE", titleColumns), cell("AUTHOR", authorColumns), "POP")
	fmt.Fprintln(w, strings.Repeat("-", titleColumns+authorColumns+7))
	for _, a := range articles {
		fmt.Fprintf(w, "%s %s %5s\n",
			cell(a.Title, titleColumns),
			cell(a.Author, authorColumns),
			strconv.Itoa(a.Popularity),
		)
	}
}

// cell truncates s to width display columns and pads it to exactly width.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
