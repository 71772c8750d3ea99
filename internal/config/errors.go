package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() before any crawl work begins,
// so callers can use errors.Is() to tell usage mistakes apart.
var (
	// ErrNoTarget is returned when neither --url nor --urls is given.
	ErrNoTarget = errors.New("no target specified: provide --url or --urls")

	// ErrConflictingTargets is returned when both --url and --urls are given.
	ErrConflictingTargets = errors.New("conflicting targets: --url and --urls cannot be used together")

	// ErrConflictingModes is returned when more than one of --recursive,
	// --parallel, --live and --schedule is set.
	ErrConflictingModes = errors.New("conflicting modes: only one of --recursive, --parallel, --live and --schedule can be used")

	// ErrModeRequiresSingleURL is returned when recursive, live or scheduled
	// mode is combined with multiple URLs.
	ErrModeRequiresSingleURL = errors.New("recursive, live and scheduled modes require a single --url")

	// ErrParallelRequiresURLs is returned when parallel mode is used without --urls.
	ErrParallelRequiresURLs = errors.New("parallel mode requires --urls")

	// ErrInvalidOutput is returned when the output target is neither terminal nor file.
	ErrInvalidOutput = errors.New("invalid output: must be terminal or file")

	// ErrInvalidFormat is returned for an unknown file format.
	ErrInvalidFormat = errors.New("invalid format: must be one of txt, json, csv, md, xlsx, sqlite")

	// ErrInvalidDepth is returned when the recursion depth is below 1.
	ErrInvalidDepth = errors.New("invalid depth: must be at least 1")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidInterval is returned when the schedule interval is not positive.
	ErrInvalidInterval = errors.New("invalid interval: must be a positive number of hours")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidLinkResolution is returned for an unknown link resolution mode.
	ErrInvalidLinkResolution = errors.New("invalid link resolution: must be legacy or standard")

	// ErrInvalidPattern is returned when the --regex filter does not compile.
	ErrInvalidPattern = errors.New("invalid regex filter")

	// ErrInvalidCountry is returned when the phone country code is not a two-letter region.
	ErrInvalidCountry = errors.New("invalid country: must be a two-letter region code such as US or PL")

	// ErrInvalidProxyAddress is returned when --proxy is not in host:port format.
	ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port")
)
