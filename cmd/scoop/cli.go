package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/fwojciec/scoop"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Catalog    scoop.SiteCatalog
	Normalizer scoop.Normalizer
	Articles   scoop.ArticleService

	// Scrapers returns the scraper suited to a site.
	Scrapers func(site *scoop.SiteConfig) scoop.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Env        string `default:"local" enum:"local,production" env:"SCOOP_ENV" help:"Runtime mode (local or production)"`
	ChromePath string `name:"chrome-path" env:"SCOOP_CHROME_PATH" help:"Browser executable used in production mode"`
	Catalog    string `env:"SCOOP_CATALOG" help:"Site catalog YAML file (defaults to the built-in catalog)"`
	LogFile    string `name:"log-file" env:"SCOOP_LOG_FILE" help:"Also write logs to this rotating file"`
	Verbose    bool   `short:"v" help:"Enable debug logging"`

	Sites    SitesCmd    `cmd:"" help:"List configured sites"`
	Listing  ListingCmd  `cmd:"" help:"Scrape a site's homepage listing"`
	Article  ArticleCmd  `cmd:"" help:"Scrape a single article page"`
	Run      RunCmd      `cmd:"" help:"Scrape a site's listing and all linked articles"`
	Articles ArticlesCmd `cmd:"" help:"List stored articles"`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct{}

// ListingCmd is the "listing" subcommand.
type ListingCmd struct {
	Site string `arg:"" help:"Site name"`
}

// ArticleCmd is the "article" subcommand.
type ArticleCmd struct {
	Site string `arg:"" help:"Site name"`
	URL  string `arg:"" help:"Article URL"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Site        string  `arg:"" help:"Site name"`
	DB          string  `env:"SCOOP_DB" help:"SQLite database path (defaults to ~/.scoop/scoop.db)"`
	Out         string  `type:"path" help:"Also write articles as JSON files into this directory"`
	Concurrency int     `short:"c" default:"3" help:"Concurrent article pages"`
	RPS         float64 `name:"rps" default:"2" help:"Article requests per second per domain"`
}

// ArticlesCmd is the "articles" subcommand.
type ArticlesCmd struct {
	DB     string `env:"SCOOP_DB" help:"SQLite database path (defaults to ~/.scoop/scoop.db)"`
	Site   string `help:"Only show articles from this site"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of articles"`
	Offset int    `help:"Number of articles to skip"`
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
