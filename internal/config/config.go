package config

import (
	"fmt"
	"net"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "webharvest"

	// DefaultOutput prints results to the terminal.
	DefaultOutput = OutputTerminal

	// DefaultFormat is the file format used with --output file.
	DefaultFormat = FormatText

	// DefaultCountry is the region used to parse phone numbers without a
	// leading international prefix.
	DefaultCountry = "US"

	// DefaultDepth is the recursion depth of the recursive mode.
	// Depth 1 means only the starting page.
	DefaultDepth = 2

	// DefaultMaxWorkers bounds the number of fetches in flight in parallel mode.
	DefaultMaxWorkers = 5

	// DefaultIntervalHours is the capture interval of the scheduled mode.
	DefaultIntervalHours = 24.0

	// DefaultTimeout is the timeout of a single HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies webharvest in HTTP requests.
	DefaultUserAgent = "webharvest/1.0 (+https://github.com/nao1215/webharvest)"

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultImageDir is where downloaded images are stored.
	DefaultImageDir = "images"

	// DefaultLinkResolution keeps the historical string-concatenation join.
	DefaultLinkResolution = LinkResolutionLegacy
)

// Output targets.
const (
	OutputTerminal = "terminal"
	OutputFile     = "file"
)

// File formats.
const (
	FormatText     = "txt"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatXLSX     = "xlsx"
	FormatSQLite   = "sqlite"
)

// SupportedFormats lists every file format in help-text order.
var SupportedFormats = []string{FormatText, FormatJSON, FormatCSV, FormatMarkdown, FormatXLSX, FormatSQLite}

// Link resolution modes used by the recursive crawl.
const (
	// LinkResolutionLegacy joins "scheme://host" of the current page with a
	// root-relative path by plain string concatenation.
	LinkResolutionLegacy = "legacy"

	// LinkResolutionStandard resolves links with net/url reference resolution.
	LinkResolutionStandard = "standard"
)

// Mode is the traversal strategy selected on the command line.
type Mode string

// Traversal modes.
const (
	// ModeSingle scrapes each target page once, one after another.
	ModeSingle Mode = "single"
	// ModeRecursive walks one site up to Depth.
	ModeRecursive Mode = "recursive"
	// ModeParallel scrapes independent URLs concurrently.
	ModeParallel Mode = "parallel"
	// ModeLive shows extractor results for one page as they complete.
	ModeLive Mode = "live"
	// ModeSchedule captures one page at a fixed interval.
	ModeSchedule Mode = "schedule"
)

// Config holds all configuration options for webharvest.
// It is populated from CLI flags and passed down explicitly; nothing reads
// global state.
type Config struct {
	// URL is the single target URL. Mutually exclusive with URLs.
	URL string

	// URLs are multiple independent target URLs. Mutually exclusive with URL.
	URLs []string

	// Recursive, Parallel, Live and Schedule select the traversal mode.
	// At most one may be set; none means ModeSingle.
	Recursive bool
	Parallel  bool
	Live      bool
	Schedule  bool

	// Output is OutputTerminal or OutputFile.
	Output string

	// Format is the file format used when Output is OutputFile.
	Format string

	// Filename is the output file. Empty means "output.<format>".
	Filename string

	// Country is the default region for phone number parsing.
	Country string

	// Depth is the maximum recursion depth, starting at 1.
	Depth int

	// MaxWorkers bounds concurrent fetches in parallel mode.
	MaxWorkers int

	// IntervalHours is the scheduled capture interval.
	IntervalHours float64

	// Keyword keeps only values containing it (case-insensitive).
	// It takes precedence over Pattern when both are set.
	Keyword string

	// Pattern keeps only values matching this regular expression.
	Pattern string

	// Normalize deduplicates and sorts string fields of the final record.
	Normalize bool

	// DownloadImages stores absolute image URLs under ImageDir and reports
	// the local paths instead of the URLs.
	DownloadImages bool

	// ImageDir is the image download directory.
	ImageDir string

	// Timeout is the timeout of each HTTP request.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// LinkResolution selects how the recursive crawl turns links into URLs.
	LinkResolution string

	// ProxyAddress is an optional SOCKS5 proxy in host:port format.
	ProxyAddress string

	// ConfigFilePath is the path of the site configuration file.
	// Empty means search the default locations.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the configuration file.
	SiteConfigs *File

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Output:         DefaultOutput,
		Format:         DefaultFormat,
		Country:        DefaultCountry,
		Depth:          DefaultDepth,
		MaxWorkers:     DefaultMaxWorkers,
		IntervalHours:  DefaultIntervalHours,
		ImageDir:       DefaultImageDir,
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		LinkResolution: DefaultLinkResolution,
		SiteConfigs:    &File{Sites: make(map[string]SiteConfig)},
	}
}

// XDGConfigDir returns the XDG config directory for webharvest.
// On Linux: ~/.config/webharvest
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Mode returns the selected traversal mode. Call Validate first.
func (c *Config) Mode() Mode {
	switch {
	case c.Recursive:
		return ModeRecursive
	case c.Parallel:
		return ModeParallel
	case c.Live:
		return ModeLive
	case c.Schedule:
		return ModeSchedule
	default:
		return ModeSingle
	}
}

// Targets returns every target URL regardless of how it was given.
func (c *Config) Targets() []string {
	if c.URL != "" {
		return []string{c.URL}
	}
	return c.URLs
}

// OutputFilename returns the file to write. Scheduled captures are always JSON.
func (c *Config) OutputFilename() string {
	if c.Filename != "" {
		return c.Filename
	}
	if c.Schedule {
		return "output." + FormatJSON
	}
	return "output." + c.Format
}

// Interval returns the scheduled capture interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalHours * float64(time.Hour))
}

// Validate checks if the configuration is valid and returns the first problem found.
// It is called once after flag parsing, before any network activity.
func (c *Config) Validate() error {
	if c.URL == "" && len(c.URLs) == 0 {
		return ErrNoTarget
	}
	if c.URL != "" && len(c.URLs) > 0 {
		return ErrConflictingTargets
	}

	modes := 0
	for _, set := range []bool{c.Recursive, c.Parallel, c.Live, c.Schedule} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return ErrConflictingModes
	}
	if (c.Recursive || c.Live || c.Schedule) && c.URL == "" {
		return ErrModeRequiresSingleURL
	}
	if c.Parallel && len(c.URLs) == 0 {
		return ErrParallelRequiresURLs
	}

	if c.Output != OutputTerminal && c.Output != OutputFile {
		return ErrInvalidOutput
	}
	if !isSupportedFormat(c.Format) {
		return ErrInvalidFormat
	}
	if c.Depth < 1 {
		return ErrInvalidDepth
	}
	if c.MaxWorkers <= 0 {
		return ErrInvalidWorkers
	}
	if c.IntervalHours <= 0 {
		return ErrInvalidInterval
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.LinkResolution != LinkResolutionLegacy && c.LinkResolution != LinkResolutionStandard {
		return ErrInvalidLinkResolution
	}
	if len(c.Country) != 2 {
		return ErrInvalidCountry
	}
	if c.Pattern != "" {
		if _, err := regexp.Compile(c.Pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPattern, err) //nolint:errorlint // regexp error is informational
		}
	}
	if c.ProxyAddress != "" && !isValidProxyAddress(c.ProxyAddress) {
		return ErrInvalidProxyAddress
	}

	return nil
}

func isSupportedFormat(format string) bool {
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// isValidProxyAddress checks for a non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}
