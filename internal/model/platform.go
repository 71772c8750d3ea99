package model

import (
	"sort"
	"strings"
)

// Platform is a social media platform recognized by the social extractor.
type Platform string

// Known platforms.
const (
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformPinterest Platform = "pinterest"
	PlatformGitHub    Platform = "github"
)

// Platforms lists every known platform in reporting order.
var Platforms = []Platform{
	PlatformFacebook,
	PlatformTwitter,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformYouTube,
	PlatformTikTok,
	PlatformPinterest,
	PlatformGitHub,
}

// platformMarkers maps each platform to the host fragments that identify it.
var platformMarkers = map[Platform][]string{
	PlatformFacebook:  {"facebook.com"},
	PlatformTwitter:   {"twitter.com"},
	PlatformInstagram: {"instagram.com"},
	PlatformLinkedIn:  {"linkedin.com"},
	PlatformYouTube:   {"youtube.com", "youtu.be"},
	PlatformTikTok:    {"tiktok.com"},
	PlatformPinterest: {"pinterest.com"},
	PlatformGitHub:    {"github.com"},
}

// String returns the platform name.
func (p Platform) String() string {
	return string(p)
}

// IsValid reports whether p is a known platform.
func (p Platform) IsValid() bool {
	_, ok := platformMarkers[p]
	return ok
}

// Matches reports whether link textually references the platform.
func (p Platform) Matches(link string) bool {
	for _, marker := range platformMarkers[p] {
		if strings.Contains(link, marker) {
			return true
		}
	}
	return false
}

// SortedPlatformKeys returns the keys of a social mapping with known
// platforms first, in Platforms order, followed by any other keys.
func SortedPlatformKeys(social map[string][]string) []string {
	keys := make([]string, 0, len(social))
	seen := make(map[string]bool, len(social))
	for _, p := range Platforms {
		if _, ok := social[p.String()]; ok {
			keys = append(keys, p.String())
			seen[p.String()] = true
		}
	}
	var rest []string
	for k := range social {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
