// Package log provides the slog logger used by webharvest.
//
// Every attribute passes through SecureHandler before it is written:
//   - HTTP header and credential keys (cookie, authorization, x-api-key) are masked
//   - bearer, basic and JWT-looking values are masked regardless of key
//   - URLs keep scheme, host and path but lose embedded passwords and
//     token-like query parameters
//
// Site configuration files carry cookies and API keys, and verbose mode logs
// every fetched URL, so masking happens even at debug level.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("fetching page", "url", target, "cookie", site.Cookie)
package log
