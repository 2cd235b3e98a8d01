package source_test

import (
	"testing"

	"github.com/AppleLamps/YourGrokipedia/internal/domain"
	"github.com/AppleLamps/YourGrokipedia/internal/source"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want domain.Source
	}{
		{"grokipedia page", "https://grokipedia.com/page/Comcast", domain.SourceGrokipedia},
		{"grokipedia www", "https://www.grokipedia.com/page/Comcast", domain.SourceGrokipedia},
		{"wikipedia desktop", "https://en.wikipedia.org/wiki/Comcast", domain.SourceWikipedia},
		{"wikipedia mobile", "https://en.m.wikipedia.org/wiki/Comcast", domain.SourceWikipedia},
		{"wikipedia bare", "https://wikipedia.org/wiki/Comcast", domain.SourceWikipedia},
		{"spoofed grokipedia", "https://notgrokipedia.com/page/Comcast", ""},
		{"spoofed wikipedia", "https://fakewikipedia.org/wiki/Comcast", ""},
		{"unrelated host", "https://example.com/page/Comcast", ""},
		{"bare host string", "grokipedia.com", domain.SourceGrokipedia},
		{"free text", "Comcast", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := source.Detect(tt.url); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractSlug(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"grokipedia", "https://grokipedia.com/page/Tesla_Inc", "Tesla_Inc", true},
		{"wikipedia", "https://en.wikipedia.org/wiki/Tesla,_Inc.", "Tesla,_Inc.", true},
		{"wikipedia mobile", "https://en.m.wikipedia.org/wiki/Comcast", "Comcast", true},
		{"index.php title param", "https://en.wikipedia.org/w/index.php?title=Comcast", "Comcast", true},
		{"percent encoded", "https://en.wikipedia.org/wiki/S%C3%A3o_Paulo", "São_Paulo", true},
		{"fragment stripped", "https://en.wikipedia.org/wiki/Comcast#History", "Comcast", true},
		{"spaces to underscores", "https://en.wikipedia.org/w/index.php?title=New York City", "New_York_City", true},
		{"trailing slash", "https://grokipedia.com/page/Comcast/", "Comcast", true},
		{"no slug pattern", "https://grokipedia.com/about", "", false},
		{"wikipedia root", "https://en.wikipedia.org/", "", false},
		{"wrong host", "https://example.com/wiki/Comcast", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := source.ExtractSlug(tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ExtractSlug(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{
			"wikipedia to grokipedia",
			"https://en.wikipedia.org/wiki/Comcast",
			"https://grokipedia.com/page/Comcast",
			true,
		},
		{
			"grokipedia to wikipedia",
			"https://grokipedia.com/page/Comcast",
			"https://en.wikipedia.org/wiki/Comcast",
			true,
		},
		{
			"reserved characters re-encoded",
			"https://en.wikipedia.org/wiki/AT%26T",
			"https://grokipedia.com/page/AT%26T",
			true,
		},
		{
			"unicode slug",
			"https://en.wikipedia.org/wiki/S%C3%A3o_Paulo",
			"https://grokipedia.com/page/S%C3%A3o_Paulo",
			true,
		},
		{"unknown host", "https://example.com/wiki/Comcast", "", false},
		{"no slug", "https://grokipedia.com/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := source.Convert(tt.url)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Convert(%q) = (%q, %v), want (%q, %v)", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// Converting a URL and converting the result back must reproduce the same
// normalized slug, even when the byte-level URL differs.
func TestConvert_RoundTripStability(t *testing.T) {
	urls := []string{
		"https://grokipedia.com/page/Comcast",
		"https://en.wikipedia.org/wiki/Tesla,_Inc.",
		"https://en.wikipedia.org/wiki/S%C3%A3o_Paulo",
		"https://en.m.wikipedia.org/wiki/New_York_City",
		"https://grokipedia.com/page/C%2B%2B",
		"https://en.wikipedia.org/wiki/AT%26T#History",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			origSlug, ok := source.ExtractSlug(u)
			if !ok {
				t.Fatalf("ExtractSlug(%q) failed", u)
			}

			converted, ok := source.Convert(u)
			if !ok {
				t.Fatalf("Convert(%q) failed", u)
			}

			back, ok := source.Convert(converted)
			if !ok {
				t.Fatalf("Convert(%q) failed on round trip", converted)
			}

			backSlug, ok := source.ExtractSlug(back)
			if !ok {
				t.Fatalf("ExtractSlug(%q) failed on round trip", back)
			}

			if backSlug != origSlug {
				t.Errorf("round trip slug = %q, want %q", backSlug, origSlug)
			}
		})
	}
}

func TestRef(t *testing.T) {
	ref, ok := source.Ref("https://en.wikipedia.org/wiki/Comcast")
	if !ok {
		t.Fatal("Ref() failed for valid wikipedia URL")
	}
	if ref.Source != domain.SourceWikipedia || ref.Slug != "Comcast" {
		t.Errorf("Ref() = %+v, want wikipedia/Comcast", ref)
	}

	if _, ok := source.Ref("https://example.com/wiki/Comcast"); ok {
		t.Error("Ref() should fail for unknown hosts")
	}
	if _, ok := source.Ref("https://grokipedia.com/about"); ok {
		t.Error("Ref() should fail when no slug pattern matches")
	}
}

func TestURLHelpers(t *testing.T) {
	if got := source.GrokipediaURL("Tesla_Inc"); got != "https://grokipedia.com/page/Tesla_Inc" {
		t.Errorf("GrokipediaURL = %q", got)
	}
	if got := source.WikipediaURL("São_Paulo"); got != "https://en.wikipedia.org/wiki/S%C3%A3o_Paulo" {
		t.Errorf("WikipediaURL = %q", got)
	}
}
