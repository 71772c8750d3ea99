package model

import "testing"

// TestPlatformMatches tests host marker matching for each platform.
func TestPlatformMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		link     string
		want     bool
	}{
		{PlatformFacebook, "https://www.facebook.com/example", true},
		{PlatformTwitter, "https://twitter.com/example", true},
		{PlatformYouTube, "https://youtu.be/abc123", true},
		{PlatformYouTube, "https://www.youtube.com/@example", true},
		{PlatformGitHub, "https://github.com/nao1215", true},
		{PlatformGitHub, "https://gitlab.com/nao1215", false},
		{PlatformTikTok, "/about", false},
	}

	for _, tt := range tests {
		t.Run(tt.platform.String()+" "+tt.link, func(t *testing.T) {
			t.Parallel()
			if got := tt.platform.Matches(tt.link); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.link, got, tt.want)
			}
		})
	}
}

// TestPlatformIsValid tests platform validation.
func TestPlatformIsValid(t *testing.T) {
	t.Parallel()

	for _, p := range Platforms {
		if !p.IsValid() {
			t.Errorf("expected %s to be valid", p)
		}
	}
	if Platform("myspace").IsValid() {
		t.Error("expected unknown platform to be invalid")
	}
}

// TestSortedPlatformKeys tests that known platforms come first in reporting order.
func TestSortedPlatformKeys(t *testing.T) {
	t.Parallel()

	social := map[string][]string{
		"github":   {"https://github.com/a"},
		"zzz":      {"x"},
		"facebook": {"https://facebook.com/a"},
		"aaa":      {"y"},
	}

	got := SortedPlatformKeys(social)
	want := []string{"facebook", "github", "aaa", "zzz"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
