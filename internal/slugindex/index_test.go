package slugindex_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AppleLamps/YourGrokipedia/internal/platform/logger"
	"github.com/AppleLamps/YourGrokipedia/internal/slugindex"
)

// writeLinksDir builds the on-disk layout indexsync produces: one directory
// per sitemap part with a names.txt inside.
func writeLinksDir(t *testing.T, parts map[string][]string) string {
	t.Helper()

	root := t.TempDir()
	for part, slugs := range parts {
		dir := filepath.Join(root, part)
		require.NoError(t, os.MkdirAll(dir, 0o750))
		content := strings.Join(slugs, "\n") + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "names.txt"), []byte(content), 0o600))
	}
	return root
}

func newIndex(t *testing.T, lightweight bool, parts map[string][]string) *slugindex.Index {
	t.Helper()

	idx, err := slugindex.New(slugindex.Config{
		LinksDir:    writeLinksDir(t, parts),
		Lightweight: lightweight,
	}, logger.NewNop())
	require.NoError(t, err)
	return idx
}

func TestNew_LoadsAllParts(t *testing.T) {
	idx := newIndex(t, false, map[string][]string{
		"sitemap-00001": {"Tesla_Inc", "Comcast"},
		"sitemap-00002": {"Nikola_Tesla"},
	})

	assert.Equal(t, 3, idx.Count())
}

func TestNew_EmptyDirFails(t *testing.T) {
	_, err := slugindex.New(slugindex.Config{LinksDir: t.TempDir()}, logger.NewNop())
	assert.Error(t, err)
}

func TestNew_MissingDirFails(t *testing.T) {
	_, err := slugindex.New(slugindex.Config{
		LinksDir: filepath.Join(t.TempDir(), "absent"),
	}, logger.NewNop())
	assert.Error(t, err)
}

func TestSearchExact(t *testing.T) {
	idx := newIndex(t, false, map[string][]string{
		"part": {"Tesla_Inc", "Nikola_Tesla", "Comcast", "Tesla_Coil"},
	})

	got := idx.SearchExact("tesla", 10)
	assert.Equal(t, []string{"Tesla_Inc", "Nikola_Tesla", "Tesla_Coil"}, got)

	// Underscore-insensitive: "nikola tesla" matches the slug with underscores.
	got = idx.SearchExact("nikola tesla", 10)
	assert.Equal(t, []string{"Nikola_Tesla"}, got)

	// Limit respected.
	got = idx.SearchExact("tesla", 2)
	assert.Len(t, got, 2)

	assert.Empty(t, idx.SearchExact("", 10))
	assert.Empty(t, idx.SearchExact("zzzz", 10))
}

func TestSearchFuzzy(t *testing.T) {
	idx := newIndex(t, false, map[string][]string{
		"part": {"Comcast", "Podcast", "Tesla_Inc"},
	})

	got := idx.SearchFuzzy("comcst", 5)
	require.NotEmpty(t, got)
	assert.Equal(t, "Comcast", got[0])
}

func TestSearchFuzzy_LightweightDisabled(t *testing.T) {
	idx := newIndex(t, true, map[string][]string{
		"part": {"Comcast"},
	})

	assert.Nil(t, idx.SearchFuzzy("comcst", 5))
}

func TestFindSlug(t *testing.T) {
	idx := newIndex(t, false, map[string][]string{
		"part": {"Tesla_Inc", "Nikola_Tesla", "Comcast"},
	})

	// Exact normalized equality.
	assert.Equal(t, "Comcast", idx.FindSlug("comcast"))
	assert.Equal(t, "Nikola_Tesla", idx.FindSlug("Nikola Tesla"))

	// Substring candidates ranked for relevance.
	assert.Equal(t, "Tesla_Inc", idx.FindSlug("tesla inc"))

	// Close typo resolved via Levenshtein.
	assert.Equal(t, "Comcast", idx.FindSlug("comcat"))

	// Nothing close: empty result.
	assert.Empty(t, idx.FindSlug("completely unrelated query text"))
	assert.Empty(t, idx.FindSlug(""))
}

func TestFindSlug_LightweightSkipsLevenshtein(t *testing.T) {
	idx := newIndex(t, true, map[string][]string{
		"part": {"Comcast"},
	})

	// Exact and substring still work.
	assert.Equal(t, "Comcast", idx.FindSlug("comcast"))
	// Typos are not resolved without the fuzzy tier.
	assert.Empty(t, idx.FindSlug("comcat"))
}

func TestManager_SingleConstruction(t *testing.T) {
	links := writeLinksDir(t, map[string][]string{"part": {"Comcast"}})
	mgr := slugindex.NewManager(slugindex.Config{LinksDir: links}, logger.NewNop())

	first, err := mgr.Get(context.Background())
	require.NoError(t, err)

	second, err := mgr.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestManager_CountBeforeBuild(t *testing.T) {
	links := writeLinksDir(t, map[string][]string{"part": {"Comcast"}})
	mgr := slugindex.NewManager(slugindex.Config{LinksDir: links}, logger.NewNop())

	_, err := mgr.Count()
	assert.Error(t, err)

	mgr.Warm(context.Background())

	count, err := mgr.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestManager_ResolveSwallowsFailures(t *testing.T) {
	mgr := slugindex.NewManager(slugindex.Config{
		LinksDir: filepath.Join(t.TempDir(), "absent"),
	}, logger.NewNop())

	assert.Empty(t, mgr.Resolve(context.Background(), "Comcast"))
}

func TestManager_Resolve(t *testing.T) {
	links := writeLinksDir(t, map[string][]string{"part": {"Comcast", "Tesla_Inc"}})
	mgr := slugindex.NewManager(slugindex.Config{LinksDir: links}, logger.NewNop())

	assert.Equal(t, "Comcast", mgr.Resolve(context.Background(), "comcast"))
}
