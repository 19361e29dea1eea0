package static

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/patagonia-pages/bookpage/internal/sections"
)

func TestFSContainsPageAssets(t *testing.T) {
	names := []string{
		"css/site.css",
		"js/live.js",
		"favicon.svg",
		"images/hero.jpg",
		"images/author.jpg",
		"images/author.webp",
	}
	for _, img := range sections.PreviewImages {
		names = append(names, img.WebP, img.Fallback)
	}

	for _, name := range names {
		info, err := fs.Stat(FS(), name)
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestLiveClientProtocol(t *testing.T) {
	data, err := fs.ReadFile(FS(), "js/live.js")
	if err != nil {
		t.Fatal(err)
	}
	src := string(data)
	for _, want := range []string{
		"data-live-click",
		"data-live-input",
		"data-live-submit",
		"data-arg-",
		`_live?session=`,
		"SESSION_GONE = 4000",
		"SCROLL_THRESHOLD = 50",
		"render:",
		"scroll:",
		"toast:",
		"persist:",
		"error:",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("live.js missing %q", want)
		}
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"css/site.css", "text/css; charset=utf-8"},
		{"js/live.js", "text/javascript; charset=utf-8"},
		{"images/cover.webp", "image/webp"},
		{"IMAGES/COVER.WEBP", "image/webp"},
		{"favicon.svg", "image/svg+xml"},
		{"images/cover.jpg", "image/jpeg"},
		{"manifest.json", "application/json"},
		{"es/index.html", "text/html; charset=utf-8"},
		{"blob", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := ContentType(tt.name); got != tt.want {
			t.Errorf("ContentType(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
