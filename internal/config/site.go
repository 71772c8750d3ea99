package config

import "strings"

// SiteConfig holds settings applied to requests for one host.
type SiteConfig struct {
	// Cookie is sent as the Cookie header.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers added to every request for this host.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Depth overrides the recursion depth when this host is the crawl root.
	// Zero keeps the --depth value.
	Depth int `yaml:"depth,omitempty"`

	// IgnorePatterns are glob patterns matched against URL paths.
	// Matching pages are not visited by the recursive crawl.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict the recursive crawl to matching paths.
	// The root page is always visited.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .webharvest configuration file.
type File struct {
	// Sites maps hosts (e.g., "example.com") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// SiteFor returns the merged configuration for host.
// A "www." prefix is ignored when the exact host has no entry.
func (cf *File) SiteFor(host string) SiteConfig {
	result := cf.Defaults
	if cf.Defaults.Headers != nil {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.Sites[host]
	if !ok {
		site, ok = cf.Sites[strings.TrimPrefix(host, "www.")]
	}
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.Depth != 0 {
		result.Depth = site.Depth
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	if len(site.IgnorePatterns) > 0 {
		result.IgnorePatterns = site.IgnorePatterns
	}
	if len(site.FollowPatterns) > 0 {
		result.FollowPatterns = site.FollowPatterns
	}
	return result
}

// IsZero reports whether the site configuration changes nothing.
func (sc SiteConfig) IsZero() bool {
	return sc.Cookie == "" && len(sc.Headers) == 0 && sc.UserAgent == "" &&
		sc.Depth == 0 && len(sc.IgnorePatterns) == 0 && len(sc.FollowPatterns) == 0
}
