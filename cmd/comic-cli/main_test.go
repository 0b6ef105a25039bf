package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/comic-go/internal/models"
	"github.com/vrsandeep/comic-go/internal/processor"
	"github.com/vrsandeep/comic-go/internal/scraper/providers"
)

const sagaSeed = `{
  "version": "1.0.0",
  "entries": [
    {"series": "Saga", "publisher": "Image Comics", "startYear": 2012, "volumes": [{"volume": "1", "year": 2012}]}
  ]
}`

// setupCLIEnv points configuration at a throwaway workspace and returns its
// incoming folder.
func setupCLIEnv(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	incoming := filepath.Join(base, "incoming")
	t.Setenv("COMIC_DATABASE_PATH", filepath.Join(base, "comics.db"))
	t.Setenv("COMIC_LIBRARY_PATH", filepath.Join(base, "library"))
	t.Setenv("COMIC_INCOMING_PATH", incoming)
	t.Setenv("COMIC_KNOWLEDGE_SEED_PATH", "")
	t.Setenv("COMIC_SCAN_INTERVAL", "0")
	t.Cleanup(providers.UnregisterAll)
	return incoming
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func importSeed(t *testing.T) {
	t.Helper()
	seedPath := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(sagaSeed), 0o644))
	out, err := runCLI(t, "kb", "import", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 1 entries from seed 1.0.0")
}

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"File", "Issue"},
		[][]string{{"Saga 061 (2023).cbz", "61"}, {"short row"}},
		[]columnAlignment{alignLeft, alignRight})

	assert.True(t, strings.HasPrefix(out, "╭"), "expected rounded style, got:\n%s", out)
	assert.Contains(t, out, "Saga 061 (2023).cbz")
	assert.Contains(t, out, "short row")
	assert.Equal(t, "", renderTable(nil, nil, nil))
}

func TestParseCommand(t *testing.T) {
	out, err := runCLI(t, "parse", "Saga 061 (2023).cbz", "Batman Vol 2 #45 (2016).cbr")
	require.NoError(t, err)
	assert.Contains(t, out, "Saga")
	assert.Contains(t, out, "61")
	assert.Contains(t, out, "2023")
	assert.Contains(t, out, "Batman")
	assert.Contains(t, out, "45")
}

func TestParseCommand_RequiresPath(t *testing.T) {
	_, err := runCLI(t, "parse")
	assert.Error(t, err)
}

func TestKnowledgeImportAndList(t *testing.T) {
	setupCLIEnv(t)
	importSeed(t)

	out, err := runCLI(t, "kb", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Saga")
	assert.Contains(t, out, "Image Comics")
	assert.Contains(t, out, "v1 (2012)")
}

func TestProcessCommand(t *testing.T) {
	setupCLIEnv(t)

	t.Run("empty knowledge base falls back to the publisher hint", func(t *testing.T) {
		out, err := runCLI(t, "process", "--publisher", "Image Comics", "Saga 061 (2023).cbz")
		require.NoError(t, err)
		assert.Contains(t, out, "Medium")
		assert.Contains(t, out, "Image Comics")
	})

	t.Run("knowledge base match", func(t *testing.T) {
		importSeed(t)
		out, err := runCLI(t, "process", "Saga 061 (2023).cbz")
		require.NoError(t, err)
		assert.Contains(t, out, "Medium")
		assert.Contains(t, out, "Image Comics")
	})
}

func TestBatchCommand(t *testing.T) {
	incoming := setupCLIEnv(t)
	require.NoError(t, os.MkdirAll(incoming, 0o755))
	for _, name := range []string{"Saga 061 (2023).cbz", "untitled.cbz"} {
		require.NoError(t, os.WriteFile(filepath.Join(incoming, name), []byte("not an archive"), 0o644))
	}

	out, err := runCLI(t, "batch", incoming)
	require.NoError(t, err)
	assert.Contains(t, out, "[1/2] Saga 061 (2023).cbz")
	assert.Contains(t, out, "[2/2] Complete")
	assert.Contains(t, out, "Successful")
	assert.Contains(t, out, "Unknown Publisher")
}

// resultRow returns the results table row for name, skipping progress lines.
func resultRow(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "│") && strings.Contains(line, name) {
			return line
		}
	}
	t.Fatalf("no result row for %q in:\n%s", name, out)
	return ""
}

func TestBatchCommand_Scrape(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		apiKey     string
		wantLow    string
		wantMedium string
	}{
		{
			name:    "without scraping the Low result is reported as is",
			args:    []string{"batch"},
			apiKey:  "0123456789abcdef",
			wantLow: "Unknown Publisher",
		},
		{
			name:    "scraping without credentials changes nothing",
			args:    []string{"batch", "--scrape"},
			wantLow: "Unknown Publisher",
		},
		{
			name:       "scraping lifts the Low result with the provider confidence",
			args:       []string{"batch", "--scrape"},
			apiKey:     "0123456789abcdef",
			wantMedium: "Image Comics",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			incoming := setupCLIEnv(t)
			t.Setenv("COMIC_SCRAPER_API_KEY", tc.apiKey)
			require.NoError(t, os.MkdirAll(incoming, 0o755))
			for _, name := range []string{"Saga.cbz", "Saga 004 (2020).cbz"} {
				require.NoError(t, os.WriteFile(filepath.Join(incoming, name), []byte("not an archive"), 0o644))
			}

			out, err := runCLI(t, append(tc.args, incoming)...)
			require.NoError(t, err)

			noIssue := resultRow(t, out, "Saga.cbz")
			assert.Contains(t, noIssue, "Could not extract series name and issue number from filename",
				"a file without an issue number is never scraped")
			assert.NotContains(t, noIssue, "Image Comics")

			issue := resultRow(t, out, "Saga 004 (2020).cbz")
			if tc.wantMedium != "" {
				assert.Contains(t, issue, string(models.ConfidenceMedium))
				assert.Contains(t, issue, tc.wantMedium)
				assert.NotContains(t, issue, processor.UnknownPublisher)
				return
			}
			assert.Contains(t, issue, string(models.ConfidenceLow))
			assert.Contains(t, issue, tc.wantLow)
		})
	}
}

func TestImportCommand_EmptyIncoming(t *testing.T) {
	setupCLIEnv(t)
	out, err := runCLI(t, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
}
