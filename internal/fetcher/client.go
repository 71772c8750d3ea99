package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"

	"github.com/nao1215/webharvest/internal/config"
)

// maxRedirects bounds redirect chains.
const maxRedirects = 10

// Options configures a Client.
type Options struct {
	// Timeout bounds every request. Zero means config.DefaultTimeout.
	Timeout time.Duration

	// UserAgent is sent unless a site configuration overrides it.
	UserAgent string

	// MaxBodySize limits how much of a response is read. Zero means unlimited.
	MaxBodySize int64

	// ProxyAddress routes requests through a SOCKS5 proxy when set.
	ProxyAddress string

	// Sites supplies per-host cookies and headers. May be nil.
	Sites *config.File

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// Client fetches pages and images.
// It is safe for concurrent use.
type Client struct {
	http        *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// New creates a Client from opts.
func New(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: opts.Timeout,
	}

	if opts.ProxyAddress != "" {
		dialer, err := proxy.SOCKS5("tcp", opts.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	var rt http.RoundTripper = transport
	if opts.Sites != nil {
		rt = &siteTransport{base: transport, sites: opts.Sites}
	}

	return &Client{
		http: &http.Client{
			Transport: rt,
			Timeout:   opts.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent:   opts.UserAgent,
		maxBodySize: opts.MaxBodySize,
		logger:      logger,
	}, nil
}

// Fetch retrieves rawURL and returns its body decoded to UTF-8.
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if c.maxBodySize > 0 {
		body = io.LimitReader(body, c.maxBodySize)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", rawURL, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyBody, rawURL)
	}

	decoded, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}

	c.logger.Debug("fetched page", "url", rawURL, "status", resp.StatusCode, "bytes", len(data))
	return string(data), nil
}

// Download stores the body of rawURL at path, creating parent directories.
func (c *Client) Download(ctx context.Context, rawURL, path string) error {
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path) //nolint:gosec // path is built from the configured image directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	var body io.Reader = resp.Body
	if c.maxBodySize > 0 {
		body = io.LimitReader(body, c.maxBodySize)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	c.logger.Debug("downloaded file", "url", rawURL, "path", path)
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotAbsolute, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrStatus, rawURL, resp.StatusCode)
	}
	return resp, nil
}
