// Package fetcher retrieves raw page content over HTTP.
//
// A Client applies the request timeout, the response size limit, charset
// decoding and the per-host cookie and header settings from the site
// configuration file. Requests may optionally be routed through a SOCKS5
// proxy. Every failure is returned as an error; nothing panics.
package fetcher
