package indexsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
)

func sitemapIndexXML(parts ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, part := range parts {
		body += "<sitemap><loc>" + part + "</loc></sitemap>"
	}
	return body + "</sitemapindex>"
}

func urlSetXML(locs ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?><urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`
	for _, loc := range locs {
		body += "<url><loc>" + loc + "</loc></url>"
	}
	return body + "</urlset>"
}

func readLines(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_WritesPartFiles(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sitemapIndexXML(
			server.URL+"/sitemap-0.xml",
			server.URL+"/sitemap-1.xml",
		)))
	})
	mux.HandleFunc("/sitemap-0.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(urlSetXML(
			"https://grokipedia.com/page/Nikola_Tesla",
			"https://grokipedia.com/page/Thomas_Edison",
			"https://grokipedia.com/about",
		)))
	})
	mux.HandleFunc("/sitemap-1.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(urlSetXML(
			"https://grokipedia.com/page/Caf%C3%A9",
		)))
	})

	dir := t.TempDir()
	syncer := NewSyncer(Config{SitemapURL: server.URL + "/sitemap.xml", LinksDir: dir}, logger.NewNop())

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Parts)
	assert.Zero(t, result.FailedParts)
	assert.Equal(t, 3, result.Slugs)

	assert.Equal(t, "Nikola_Tesla\nThomas_Edison\n",
		readLines(t, filepath.Join(dir, "sitemap-0", "names.txt")))
	assert.Equal(t, "https://grokipedia.com/page/Nikola_Tesla\nhttps://grokipedia.com/page/Thomas_Edison\n",
		readLines(t, filepath.Join(dir, "sitemap-0", "urls.txt")))
	assert.Equal(t, "Café\n",
		readLines(t, filepath.Join(dir, "sitemap-1", "names.txt")))
}

func TestRun_SkipsFailingPart(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sitemapIndexXML(
			server.URL+"/sitemap-0.xml",
			server.URL+"/missing.xml",
		)))
	})
	mux.HandleFunc("/sitemap-0.xml", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(urlSetXML("https://grokipedia.com/page/Nikola_Tesla")))
	})
	mux.HandleFunc("/missing.xml", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	dir := t.TempDir()
	syncer := NewSyncer(Config{SitemapURL: server.URL + "/sitemap.xml", LinksDir: dir}, logger.NewNop())

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parts)
	assert.Equal(t, 1, result.FailedParts)
	assert.Equal(t, 1, result.Slugs)
}

func TestRun_IndexFetchFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	syncer := NewSyncer(Config{SitemapURL: server.URL + "/sitemap.xml", LinksDir: t.TempDir()}, logger.NewNop())

	_, err := syncer.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch sitemap index")
}

func TestRun_RetriesTransientIndexFailure(t *testing.T) {
	attempts := 0
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(urlSetXML("https://grokipedia.com/page/Nikola_Tesla")))
	})

	dir := t.TempDir()
	syncer := NewSyncer(Config{SitemapURL: server.URL + "/sitemap.xml", LinksDir: dir}, logger.NewNop())

	result, err := syncer.Run(context.Background())
	require.NoError(t, err)
	// One failed attempt, one successful retry, then the part re-fetch: a
	// top-level urlset is treated as its own single part.
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, result.Slugs)
	assert.FileExists(t, filepath.Join(dir, "sitemap", "names.txt"))
}

func TestPageSlug(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"page url", "https://grokipedia.com/page/Nikola_Tesla", "Nikola_Tesla", true},
		{"trailing slash", "https://grokipedia.com/page/Nikola_Tesla/", "Nikola_Tesla", true},
		{"percent encoded", "https://grokipedia.com/page/Caf%C3%A9", "Café", true},
		{"non page", "https://grokipedia.com/about", "", false},
		{"bare page root", "https://grokipedia.com/page/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pageSlug(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartName(t *testing.T) {
	assert.Equal(t, "sitemap-3", partName("https://grokipedia.com/sitemap-3.xml"))
	assert.Equal(t, "sitemap-3", partName("https://grokipedia.com/sitemap-3.xml.gz"))
	assert.Equal(t, "sitemap", partName("https://grokipedia.com/"))
}
