package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/crawl"
	"github.com/fwojciec/tablex/goquery"
	"github.com/fwojciec/tablex/htmltomarkdown"
	tablexhttp "github.com/fwojciec/tablex/http"
	"github.com/fwojciec/tablex/rod"
	tablexslog "github.com/fwojciec/tablex/slog"
	"github.com/fwojciec/tablex/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor TABLEX_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Fetcher overrides the fetcher built from flags.
	Fetcher tablex.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{DBPath: defaultDBPath()}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tablex"),
		kong.Description("Extract HTML tables with their surrounding headings and prose"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars{"db": m.DBPath},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tablex --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}

	deps.Logger = logger
	deps.Options = tablex.ExtractOptions{
		AutoSpan:       !cli.NoSpan,
		AutoPad:        !cli.NoPad,
		ExtractContext: !cli.NoContext,
	}
	deps.Extractor = goquery.NewTableExtractor()
	deps.Converter = htmltomarkdown.NewConverter()
	if logger != nil {
		deps.Extractor = tablexslog.NewLoggingTableExtractor(deps.Extractor, logger)
	}

	if needsDB(cmd, cli) {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set TABLEX_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		defer m.Close()

		svc := sqlite.NewTableService(m.DB)
		deps.Tables = svc
		deps.Pages = svc
		if logger != nil {
			deps.Tables = tablexslog.NewLoggingTableService(svc, logger)
		}
	}

	if needsFetcher(cmd, cli) {
		fetcher := m.Fetcher
		if fetcher == nil {
			if fetcher, err = newFetcher(cli.Browser); err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer fetcher.Close()
		}
		if logger != nil {
			fetcher = tablexslog.NewLoggingFetcher(fetcher, logger)
		}
		deps.Fetcher = fetcher
	}

	if cmd == "crawl" {
		var sitemaps tablex.SitemapService = tablexhttp.NewSitemapService(nil)
		if logger != nil {
			sitemaps = tablexslog.NewLoggingSitemapService(sitemaps, logger)
		}
		deps.Crawler = &crawl.Crawler{
			Sitemaps:    sitemaps,
			Fetcher:     deps.Fetcher,
			Extractor:   deps.Extractor,
			Links:       goquery.NewLinkExtractor(),
			RateLimiter: crawl.NewDomainLimiter(cli.RPS),
			Logger:      logger,
			Concurrency: cli.Concurrency,
		}
	}

	return kongCtx.Run(deps)
}

func needsDB(cmd string, cli *CLI) bool {
	switch cmd {
	case "list", "show", "delete", "serve":
		return true
	case "crawl":
		return cli.Crawl.Save
	case "extract":
		return cli.Extract.Save
	}
	return false
}

func needsFetcher(cmd string, cli *CLI) bool {
	switch cmd {
	case "crawl", "serve":
		return true
	case "extract":
		return isRemote(cli.Extract.Source)
	}
	return false
}

func newFetcher(browser bool) (tablex.Fetcher, error) {
	if browser {
		return rod.NewFetcher()
	}
	return tablexhttp.NewFetcher(), nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tablex.db"
	}
	dir := filepath.Join(home, ".tablex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "tablex.db")
}
