package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/crawl"
	"github.com/fwojciec/tablex/htmltomarkdown"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Options   tablex.ExtractOptions
	Fetcher   tablex.Fetcher
	Extractor tablex.TableExtractor
	Tables    tablex.TableService
	Pages     tablex.PageService
	Converter *htmltomarkdown.Converter
	Crawler   *crawl.Crawler
	Logger    *slog.Logger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string  `name:"db" env:"TABLEX_DB" default:"${db}" help:"SQLite database path"`
	Concurrency int     `short:"c" default:"4" help:"Pages fetched at once"`
	RPS         float64 `name:"rps" default:"1" help:"Requests per second per domain"`
	Browser     bool    `help:"Render pages in headless Chrome"`
	NoSpan      bool    `help:"Keep rowspan and colspan as written"`
	NoPad       bool    `help:"Do not pad short rows"`
	NoContext   bool    `help:"Do not collect headings and prose around tables"`
	Verbose     bool    `short:"v" help:"Log every operation to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract the tables of a page or local HTML file"`
	Crawl   CrawlCmd   `cmd:"" help:"Extract the tables of every page of a site"`
	List    ListCmd    `cmd:"" help:"List stored tables"`
	Show    ShowCmd    `cmd:"" help:"Print a stored table"`
	Delete  DeleteCmd  `cmd:"" help:"Delete the stored tables of a page"`
	Serve   ServeCmd   `cmd:"" help:"Serve stored tables over a JSON API"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Source string `arg:"" help:"Page URL or path to an HTML file"`
	URL    string `help:"URL the tables are attributed to (defaults to the source)"`
	JSON   bool   `name:"json" help:"Print tables as JSON"`
	Save   bool   `help:"Store the tables in the database"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL     string   `arg:"" help:"Site URL"`
	Filter  []string `short:"F" name:"filter" help:"Only crawl URLs matching regex (repeatable)"`
	Exclude []string `short:"X" name:"exclude" help:"Skip URLs matching regex (repeatable)"`
	Save    bool     `xor:"output" help:"Store the tables in the database"`
	Out     string   `xor:"output" type:"path" help:"Write one JSON file per page into this directory"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	URL   string `help:"Only list tables of this page"`
	Pages bool   `help:"List pages instead of tables"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID       string `arg:"" help:"Table ID"`
	Markdown bool   `short:"m" help:"Print Markdown with context headings instead of JSON"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	URL   string `arg:"" help:"Page URL"`
	Force bool   `help:"Confirm deletion"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:"127.0.0.1:8080" help:"Address to listen on"`
}
