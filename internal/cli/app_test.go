// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/janderssonse/libgallery/internal/console"
	"github.com/janderssonse/libgallery/internal/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{"source":"misc/arrows.excalidrawlib","name":"Arrows","description":"Various arrow shapes","authors":[{"name":"alice"}],"created":"2021-01-01","updated":"2021-02-01","itemNames":["left arrow","right arrow"]}
{"source":"misc/boxes.excalidrawlib","name":"Boxes","description":"Containers","authors":[{"name":"bob"}],"created":"2021-03-01","updated":"2021-03-01"}
{"source":"tech/cloud.excalidrawlib","name":"Cloud","description":"Cloud icons","authors":[{"name":"carol"}],"created":"2022-01-01","updated":"2022-06-01"}`

const testStats = `{"misc-arrows":{"total":30,"week":1},"misc-boxes":{"total":10,"week":5},"tech-cloud":{"total":20,"week":3}}`

// testEnv is a catalog, statistics file and configuration in a temporary
// directory. Every run gets a fresh command tree.
type testEnv struct {
	dir     string
	environ []string
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	// tweak adjusts each CLI before it runs.
	tweak func(*CLI)
}

func newTestEnv(t *testing.T, env ...string) *testEnv {
	t.Helper()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "libraries.jsonl.json")
	statsPath := filepath.Join(dir, "stats.json")

	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog), 0o600))
	require.NoError(t, os.WriteFile(statsPath, []byte(testStats), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("site = \"https://libraries.example.com\"\n"), 0o600))

	return &testEnv{
		dir: dir,
		environ: append([]string{
			"LIBGALLERY_CATALOG_URL=" + catalogPath,
			"LIBGALLERY_STATS_URL=" + statsPath,
		}, env...),
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
}

func (e *testEnv) logPath() string {
	return filepath.Join(e.dir, "state", "libgallery.log")
}

func (e *testEnv) run(args ...string) error {
	e.out.Reset()
	e.errOut.Reset()

	app := newCLI(console.NewOutputState(e.out, e.errOut), e.environ)
	app.interactive = func() bool { return false }
	app.logPath = e.logPath()

	if e.tweak != nil {
		e.tweak(app)
	}

	argv := append([]string{"libgallery", "--config", filepath.Join(e.dir, "config.toml")}, args...)

	return app.Run(context.Background(), argv)
}

func TestNewCLI(t *testing.T) {
	app := NewCLI()

	require.NotNil(t, app.app)
	assert.Equal(t, "libgallery", app.app.Name)
	assert.NotEmpty(t, app.app.Usage)

	names := make([]string, 0, len(app.app.Commands))
	for _, cmd := range app.app.Commands {
		names = append(names, cmd.Name)
	}

	assert.ElementsMatch(t, []string{"list", "link", "convert", "sorts", "version"}, names)
}

func TestListPlainBySort(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--plain", "list", "--sort", "downloadsTotal"))
	assert.Equal(t, "misc-arrows\tArrows\ntech-cloud\tCloud\nmisc-boxes\tBoxes\n", env.out.String())
}

func TestListLimit(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--plain", "list", "--sort", "downloadsWeek", "-n", "1"))
	assert.Equal(t, "misc-boxes\tBoxes\n", env.out.String())
}

func TestListJSONQuery(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--json", "list", "--query", "arrow"))

	output := env.out.String()
	assert.Contains(t, output, `"status":"success"`)
	assert.Contains(t, output, `"id":"misc-arrows"`)
	assert.Contains(t, output, `"downloads":30`)
	assert.Contains(t, output, "addLibrary=https%3A%2F%2Flibraries.example.com%2Flibraries%2Fmisc%2Farrows.excalidrawlib")
	assert.NotContains(t, output, "misc-boxes")
}

func TestListText(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("list", "--sort", "name"))

	output := env.out.String()
	assert.Contains(t, output, "Arrows  @alice  (misc-arrows)")
	assert.Contains(t, output, "    Various arrow shapes\n")
	assert.Contains(t, output, "1 Feb 2021 · 30 downloads · 2 items")
	assert.Less(t, strings.Index(output, "Cloud"), strings.Index(output, "Arrows"))
}

func TestListNoResults(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("list", "--query", "zzzxyq"))
	assert.Empty(t, env.out.String())
	assert.Contains(t, env.errOut.String(), "No libraries match")
}

func TestListUnknownSort(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("list", "--sort", "bogus")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestListPickSortNeedsTerminal(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("list", "--pick-sort")
	assert.Equal(t, ExitUsageError, ExitCode(err))
}

func TestListMissingCatalog(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_CATALOG_URL=/nonexistent/libraries.jsonl.json")

	err := env.run("list")
	assert.Equal(t, ExitNotFoundError, ExitCode(err))
}

func TestListSurvivesMissingStats(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_STATS_URL=/nonexistent/stats.json")

	require.NoError(t, env.run("--json", "list", "--query", "boxes"))
	assert.Contains(t, env.out.String(), `"downloads":0`)
}

func TestListKeepsLibrariesBeforeMalformedLine(t *testing.T) {
	env := newTestEnv(t)

	catalogPath := filepath.Join(env.dir, "libraries.jsonl.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(testCatalog+"\n{not json}\n"), 0o600))

	require.NoError(t, env.run("--plain", "list", "--sort", "name"))
	assert.Equal(t, "tech-cloud\tCloud\nmisc-boxes\tBoxes\nmisc-arrows\tArrows\n", env.out.String())
	assert.Contains(t, env.errOut.String(), "warning: Catalog ends early after 3 libraries: line 4")

	require.NoError(t, env.run("link", "tech-cloud"))
	assert.Contains(t, env.out.String(), "tech%2Fcloud.excalidrawlib")
}

func TestLinkJSONIncludesTarget(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_TARGET=gallery%20tab")

	require.NoError(t, env.run("--json", "link", "misc-boxes"))
	assert.Contains(t, env.out.String(), `"target":"gallery tab"`)

	env = newTestEnv(t)

	require.NoError(t, env.run("--json", "link", "misc-boxes"))
	assert.Contains(t, env.out.String(), `"target":"_blank"`)
}

func TestLink(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--referrer", "https://env.excalidraw.com", "--use-hash", "--token", "t0k", "link", "misc-boxes"))
	assert.Equal(t,
		"https://env.excalidraw.com#addLibrary=https%3A%2F%2Flibraries.example.com%2Flibraries%2Fmisc%2Fboxes.excalidrawlib&token=t0k\n",
		env.out.String())
}

func TestLinkOpenDryRun(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--dry-run", "link", "--open", "misc-arrows"))
	assert.Contains(t, env.errOut.String(), "Opened Arrows in Excalidraw")
	assert.Contains(t, env.out.String(), "addLibrary=")
}

func TestLinkErrors(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, ExitNotFoundError, ExitCode(env.run("link", "misc-circles")))
	assert.Equal(t, ExitUsageError, ExitCode(env.run("link")))
}

func TestConvert(t *testing.T) {
	env := newTestEnv(t)

	input := filepath.Join(env.dir, "catalog.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"name":"a"}, {"name":"b"}]`), 0o600))

	require.NoError(t, env.run("--plain", "convert", input))
	assert.Equal(t, "output:"+filepath.Join(env.dir, "catalog.jsonl.json")+"\nrecords:2\n", env.out.String())

	data, err := os.ReadFile(filepath.Join(env.dir, "catalog.jsonl.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"a\"}\n{\"name\":\"b\"}", string(data))
}

func TestConvertErrors(t *testing.T) {
	env := newTestEnv(t)

	object := filepath.Join(env.dir, "object.json")
	require.NoError(t, os.WriteFile(object, []byte(`{"name":"a"}`), 0o600))

	assert.Equal(t, ExitNotFoundError, ExitCode(env.run("convert", filepath.Join(env.dir, "missing.json"))))
	assert.Equal(t, ExitGeneralError, ExitCode(env.run("convert", object)))
	assert.Equal(t, ExitUsageError, ExitCode(env.run("convert")))

	_, err := os.Stat(filepath.Join(env.dir, "object.jsonl.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSorts(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("--plain", "sorts"))
	assert.Equal(t, "default\nnew\nupdated\ndownloadsTotal\ndownloadsWeek\nauthor\nname\n", env.out.String())
}

func TestSortsMarksConfiguredDefault(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_SORT=new")

	require.NoError(t, env.run("sorts"))
	assert.Contains(t, env.out.String(), "* new")
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("version"))
	assert.NotEmpty(t, strings.TrimSpace(env.out.String()))
}

func TestConflictingOutputFlags(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, ExitUsageError, ExitCode(env.run("--json", "--plain", "sorts")))
}

func TestInvalidConfiguration(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_PAGE_SIZE=0")

	assert.Equal(t, ExitConfigError, ExitCode(env.run("sorts")))
}

func TestDefaultActionLaunchesGallery(t *testing.T) {
	env := newTestEnv(t, "LIBGALLERY_THEME=light")

	var got tui.Options

	env.tweak = func(c *CLI) {
		c.runTUI = func(_ context.Context, opts tui.Options) error {
			got = opts

			return nil
		}
	}

	require.NoError(t, env.run("--referrer", "https://env.excalideck.com"))

	assert.Equal(t, "light", got.Theme)
	assert.Equal(t, "https://env.excalideck.com", got.Gallery.Link.Referrer)
	assert.Equal(t, "https://libraries.example.com", got.Gallery.Link.Site)
	assert.Equal(t, 50, got.Gallery.PageSize)
	require.NotNil(t, got.Gallery.Sources.OpenCatalog)

	source, err := got.Gallery.Sources.OpenCatalog(context.Background())
	require.NoError(t, err)

	records, done, err := source.Next(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Len(t, records, 3)
	require.NoError(t, source.Close())

	stats, err := got.Gallery.Sources.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, stats["misc-arrows"].Total)

	assert.FileExists(t, env.logPath())
}

func TestDefaultActionWithoutTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.tweak = func(c *CLI) {
		c.runTUI = func(context.Context, tui.Options) error { return tui.ErrNoTerminal }
	}

	assert.Equal(t, ExitUsageError, ExitCode(env.run()))
}

func TestDefaultActionRejectsUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	env.tweak = func(c *CLI) {
		c.runTUI = func(context.Context, tui.Options) error {
			t.Error("gallery must not start")

			return nil
		}
	}

	assert.Equal(t, ExitUsageError, ExitCode(env.run("frobnicate")))
}
