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
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scoop"
	"github.com/fwojciec/scoop/goquery"
	scoophttp "github.com/fwojciec/scoop/http"
	"github.com/fwojciec/scoop/rod"
	scoopslog "github.com/fwojciec/scoop/slog"
	"github.com/fwojciec/scoop/sqlite"
	"github.com/fwojciec/scoop/text"
	"github.com/fwojciec/scoop/yaml"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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
	// Overrides for end-to-end testing. Nil fields are built from flags.
	Catalog  scoop.SiteCatalog
	Scraper  scoop.Scraper
	Articles scoop.ArticleService

	db      *sqlite.DB
	browser scoop.Scraper
	static  scoop.Scraper
	logFile *lumberjack.Logger
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for _, c := range []io.Closer{m.browser, m.static} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.db != nil {
		if err := m.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if m.logFile != nil {
		if err := m.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
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
		kong.Name("scoop"),
		kong.Description("Scrape headlines and article text from configured news sites."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scoop --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Logger = m.newLogger(cli, stderr)

	if m.Catalog == nil {
		if cli.Catalog == "" {
			m.Catalog = yaml.DefaultCatalog()
		} else {
			catalog, err := yaml.LoadCatalog(cli.Catalog)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Set SCOOP_CATALOG to a YAML file with a top-level 'sites' map")
				return err
			}
			m.Catalog = catalog
		}
	}
	deps.Catalog = m.Catalog
	deps.Normalizer = text.NewNormalizer()
	deps.Scrapers = func(site *scoop.SiteConfig) scoop.Scraper {
		return m.scraperFor(cli, site, deps.Logger)
	}

	switch name := strings.Fields(kongCtx.Command())[0]; name {
	case "run", "articles":
		path := cli.Run.DB
		if name == "articles" {
			path = cli.Articles.DB
		}
		if name == "run" && path == "" && cli.Run.Out != "" {
			// Files only.
			break
		}
		if err := m.openArticles(path); err != nil {
			fmt.Fprintln(stderr, "Hint: Set SCOOP_DB to use a different database path")
			return err
		}
		deps.Articles = m.Articles
	}

	return kongCtx.Run(deps)
}

// newLogger writes text logs to stderr and, when configured, to a rotating
// log file.
func (m *Main) newLogger(cli *CLI, stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}

	w := stderr
	if cli.LogFile != "" {
		m.logFile = &lumberjack.Logger{
			Filename:   cli.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(stderr, m.logFile)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// scraperFor returns the scraper for a site: plain HTTP for static sites,
// the shared browser otherwise.
func (m *Main) scraperFor(cli *CLI, site *scoop.SiteConfig, logger *slog.Logger) scoop.Scraper {
	if m.Scraper != nil {
		return m.Scraper
	}

	if site.Static {
		if m.static == nil {
			fetcher := scoopslog.NewLoggingFetcher(scoophttp.NewFetcher(scoophttp.WithTimeout(goquery.DefaultArticleTimeout)), logger)
			m.static = scoopslog.NewLoggingScraper(goquery.NewScraper(fetcher, goquery.WithLogger(logger)), logger)
		}
		return m.static
	}

	if m.browser == nil {
		manager := rod.NewBrowserManager(
			rod.WithMode(scoop.Mode(cli.Env)),
			rod.WithExecPath(cli.ChromePath),
			rod.WithManagerLogger(logger),
		)
		m.browser = scoopslog.NewLoggingScraper(rod.NewScraper(manager, rod.WithLogger(logger)), logger)
	}
	return m.browser
}

func (m *Main) openArticles(path string) error {
	if m.Articles != nil {
		return nil
	}
	if path == "" {
		path = defaultDBPath()
	}

	m.db = sqlite.NewDB(path)
	if err := m.db.Open(); err != nil {
		m.db = nil
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.Articles = sqlite.NewArticleService(m.db)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scoop.db"
	}
	dir := filepath.Join(home, ".scoop")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "scoop.db")
}
