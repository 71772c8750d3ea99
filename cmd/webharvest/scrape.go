package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/webharvest/internal/config"
	"github.com/nao1215/webharvest/internal/extract"
	"github.com/nao1215/webharvest/internal/fetcher"
	applog "github.com/nao1215/webharvest/internal/log"
	"github.com/nao1215/webharvest/internal/model"
	"github.com/nao1215/webharvest/internal/pipeline"
	"github.com/nao1215/webharvest/internal/postprocess"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one or more web pages",
		Long: `Scrape fetches web pages and extracts links, emails, social media links,
authors, phone numbers, images, metadata, document links and tables.

Modes (at most one):
  default       scrape each target once
  --recursive   crawl same-site links from --url up to --depth
  --parallel    scrape every --urls target concurrently
  --live        show each field of --url as soon as it is extracted
  --schedule    capture --url every --interval hours into a JSON file

Examples:
  # Print a page's data to the terminal
  webharvest scrape -u https://example.com

  # Crawl a site three levels deep and save JSON
  webharvest scrape -u https://example.com -r -d 3 -o file -f json

  # Scrape several pages in parallel with 10 workers
  webharvest scrape -U https://a.example,https://b.example -p -w 10

  # Keep only values containing "contact", deduplicated and sorted
  webharvest scrape -u https://example.com -k contact -N

  # Capture a page every 6 hours
  webharvest scrape -u https://example.com -s -i 6 -n history.json`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	// Targets
	cmd.Flags().StringP("url", "u", "", "URL to scrape")
	cmd.Flags().StringSliceP("urls", "U", nil, "Multiple URLs to scrape (comma separated or repeated)")

	// Output
	cmd.Flags().StringP("output", "o", config.DefaultOutput, "Output target: terminal or file")
	cmd.Flags().StringP("format", "f", config.DefaultFormat,
		"File format: "+strings.Join(config.SupportedFormats, ", "))
	cmd.Flags().StringP("filename", "n", "", "Output file name (default: output.<format>)")

	// Extraction
	cmd.Flags().StringP("country", "C", config.DefaultCountry, "Region code for phone numbers without an international prefix")
	cmd.Flags().BoolP("download-images", "D", false, "Download images and report local paths")
	cmd.Flags().String("image-dir", config.DefaultImageDir, "Directory for downloaded images")

	// Modes
	cmd.Flags().BoolP("recursive", "r", false, "Crawl same-site links recursively")
	cmd.Flags().IntP("depth", "d", config.DefaultDepth, "Maximum recursion depth (1 = only the starting page)")
	cmd.Flags().String("link-resolution", config.DefaultLinkResolution, "Recursive link resolution: legacy or standard")
	cmd.Flags().BoolP("parallel", "p", false, "Scrape --urls concurrently")
	cmd.Flags().IntP("workers", "w", config.DefaultMaxWorkers, "Maximum concurrent fetches in parallel mode")
	cmd.Flags().BoolP("live", "l", false, "Show fields as they are extracted")
	cmd.Flags().BoolP("schedule", "s", false, "Capture periodically into a JSON file")
	cmd.Flags().Float64P("interval", "i", config.DefaultIntervalHours, "Capture interval in hours")

	// Post-processing
	cmd.Flags().StringP("keyword", "k", "", "Keep only values containing this keyword (case-insensitive)")
	cmd.Flags().StringP("regex", "x", "", "Keep only values matching this regular expression")
	cmd.Flags().BoolP("normalize", "N", false, "Deduplicate and sort extracted values")

	// Requests
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes (0 = unlimited)")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Site configuration file (default: .webharvest, XDG config dir, or home directory)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := loadSiteConfigs(cfg); err != nil {
		return err
	}

	logger := applog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
	if err != nil {
		return err
	}
	return a.run(ctx)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.URL, err = flags.GetString("url"); err != nil {
		return nil, err
	}
	if cfg.URLs, err = flags.GetStringSlice("urls"); err != nil {
		return nil, err
	}
	if cfg.Output, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if cfg.Format, err = flags.GetString("format"); err != nil {
		return nil, err
	}
	if cfg.Filename, err = flags.GetString("filename"); err != nil {
		return nil, err
	}
	if cfg.Country, err = flags.GetString("country"); err != nil {
		return nil, err
	}
	if cfg.DownloadImages, err = flags.GetBool("download-images"); err != nil {
		return nil, err
	}
	if cfg.ImageDir, err = flags.GetString("image-dir"); err != nil {
		return nil, err
	}
	if cfg.Recursive, err = flags.GetBool("recursive"); err != nil {
		return nil, err
	}
	if cfg.Depth, err = flags.GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.LinkResolution, err = flags.GetString("link-resolution"); err != nil {
		return nil, err
	}
	if cfg.Parallel, err = flags.GetBool("parallel"); err != nil {
		return nil, err
	}
	if cfg.MaxWorkers, err = flags.GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Live, err = flags.GetBool("live"); err != nil {
		return nil, err
	}
	if cfg.Schedule, err = flags.GetBool("schedule"); err != nil {
		return nil, err
	}
	if cfg.IntervalHours, err = flags.GetFloat64("interval"); err != nil {
		return nil, err
	}
	if cfg.Keyword, err = flags.GetString("keyword"); err != nil {
		return nil, err
	}
	if cfg.Pattern, err = flags.GetString("regex"); err != nil {
		return nil, err
	}
	if cfg.Normalize, err = flags.GetBool("normalize"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = flags.GetString("config"); err != nil {
		return nil, err
	}
	cfg.Country = strings.ToUpper(cfg.Country)
	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// loadSiteConfigs reads the site configuration file into cfg.
// An explicit --config path must exist; otherwise a missing file means no
// site settings.
func loadSiteConfigs(cfg *config.Config) error {
	path := config.FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.SiteConfigs = file
	return nil
}

// app is the state shared by every scrape mode.
type app struct {
	cfg     *config.Config
	fetcher *fetcher.Client
	pipe    *pipeline.Pipeline
	matcher *postprocess.Matcher
	out     io.Writer
	errOut  io.Writer
	logger  *slog.Logger
}

// newApp builds the fetcher and pipeline for cfg.
func newApp(cfg *config.Config, out, errOut io.Writer, logger *slog.Logger) (*app, error) {
	client, err := fetcher.New(fetcher.Options{
		Timeout:      cfg.Timeout,
		UserAgent:    cfg.UserAgent,
		MaxBodySize:  cfg.MaxBodySize,
		ProxyAddress: cfg.ProxyAddress,
		Sites:        cfg.SiteConfigs,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	matcher, err := postprocess.NewMatcher(cfg.Keyword, cfg.Pattern)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	settings := pipeline.Settings{Country: cfg.Country}
	if cfg.DownloadImages {
		settings.Images = extract.NewImageSaver(client, cfg.ImageDir, logger)
	}

	return &app{
		cfg:     cfg,
		fetcher: client,
		pipe:    pipeline.NewDefault(settings, pipeline.WithLogger(logger)),
		matcher: matcher,
		out:     out,
		errOut:  errOut,
		logger:  logger,
	}, nil
}

// run dispatches to the selected mode.
func (a *app) run(ctx context.Context) error {
	a.logger.Debug("starting", "mode", a.cfg.Mode(), "targets", a.cfg.Targets())

	switch a.cfg.Mode() {
	case config.ModeRecursive:
		return a.runRecursive(ctx)
	case config.ModeParallel:
		return a.runParallel(ctx)
	case config.ModeLive:
		return a.runLive(ctx)
	case config.ModeSchedule:
		return a.runSchedule(ctx)
	default:
		return a.runSingle(ctx)
	}
}

// finalize applies the filter and normalization to a finished record.
func (a *app) finalize(rec *model.Record) *model.Record {
	rec = a.matcher.Apply(rec)
	if a.cfg.Normalize {
		rec = postprocess.Normalize(rec)
	}
	return rec
}

// finalizeBatch finalizes every successful record of batch.
func (a *app) finalizeBatch(batch model.Batch) model.Batch {
	out := make(model.Batch, len(batch))
	for u, outcome := range batch {
		if !outcome.Failed() {
			outcome.Record = a.finalize(outcome.Record)
		}
		out[u] = outcome
	}
	return out
}

// siteConfig returns the site settings for the host of rawURL.
func (a *app) siteConfig(rawURL string) config.SiteConfig {
	if a.cfg.SiteConfigs == nil {
		return config.SiteConfig{}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return a.cfg.SiteConfigs.Defaults
	}
	return a.cfg.SiteConfigs.SiteFor(u.Hostname())
}

// errScrapeFailed reports that the only target could not be scraped.
var errScrapeFailed = errors.New("scrape failed")
