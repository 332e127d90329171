// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/janderssonse/libgallery/internal/adapters/network"
	"github.com/janderssonse/libgallery/internal/adapters/platform"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/convert"
	"github.com/janderssonse/libgallery/internal/deeplink"
	"github.com/janderssonse/libgallery/internal/gallery"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/search"
	"github.com/janderssonse/libgallery/internal/sorting"
	"github.com/urfave/cli/v3"
)

// librarySummary is the scripted view of one library.
type librarySummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description,omitempty"`
	Created       string   `json:"created"`
	Updated       string   `json:"updated"`
	Downloads     int      `json:"downloads"`
	WeekDownloads int      `json:"weekDownloads"`
	Items         int      `json:"items"`
	Link          string   `json:"link"`
	Target        string   `json:"target"`
}

func (app *CLI) summarize(library catalog.Library) librarySummary {
	authors := make([]string, 0, len(library.Authors))
	for _, author := range library.Authors {
		authors = append(authors, author.Name)
	}

	return librarySummary{
		ID:            library.ID,
		Name:          library.Name,
		Authors:       authors,
		Description:   library.Description,
		Created:       library.Created,
		Updated:       library.Updated,
		Downloads:     library.Downloads.Total,
		WeekDownloads: library.Downloads.Week,
		Items:         len(library.ItemNames),
		Link:          deeplink.AddLibraryURL(app.cfg.LinkOptions(), library),
		Target:        app.cfg.LinkOptions().Normalized().Target,
	}
}

func (app *CLI) createListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List catalog libraries",
		Description: `Loads the whole catalog and prints it in the chosen order.

Examples:
  libgallery list --query "arrows"
  libgallery list --sort new --limit 10
  libgallery list --pick-sort`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sort",
				Aliases: []string{"s"},
				Usage:   "sort strategy (see 'libgallery sorts')",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "fuzzy search terms, all must match",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "print at most this many libraries (0 = all)",
			},
			&cli.BoolFlag{
				Name:  "pick-sort",
				Usage: "choose the sort strategy interactively",
			},
		},
		Action: app.runList,
	}
}

func (app *CLI) runList(ctx context.Context, cmd *cli.Command) error {
	sortKey, err := app.chooseSort(cmd)
	if err != nil {
		return err
	}

	searchOpts := search.DefaultOptions()
	searchOpts.MarkOpen, searchOpts.MarkClose = "", ""

	if !app.out.JSON && !app.out.Plain && app.out.IsTTY(app.out.Out) {
		searchOpts.MarkOpen, searchOpts.MarkClose = "\033[1m", "\033[0m"
	}

	controller, err := app.loadGallery(ctx, sortKey, gallery.WithSearchOptions(searchOpts))
	if err != nil {
		return err
	}

	controller.SetQuery(cmd.String("query"))

	hits := controller.View().Hits
	if limit := cmd.Int("limit"); limit > 0 && limit < len(hits) {
		hits = hits[:limit]
	}

	switch {
	case app.out.JSON:
		summaries := make([]librarySummary, 0, len(hits))
		for _, hit := range hits {
			summaries = append(summaries, app.summarize(hit.Library))
		}

		app.out.SuccessResult(summaries, "")
	case app.out.Plain:
		lines := make([]string, 0, len(hits))
		for _, hit := range hits {
			lines = append(lines, hit.ID+"\t"+hit.Name)
		}

		app.out.PlainList(lines)
	default:
		if controller.Status() == gallery.StatusNoResults {
			app.out.Warningf("No libraries match %q", cmd.String("query"))

			return nil
		}

		for _, hit := range hits {
			app.printHit(hit)
		}
	}

	return nil
}

func (app *CLI) printHit(hit search.Hit) {
	name := hit.Name
	if hit.NameHighlight != nil {
		name = hit.NameHighlight.Marked
	}

	line := name
	if author := hit.FirstAuthor(); author != "" {
		line += "  @" + author
	}

	_, _ = fmt.Fprintf(app.out.Out, "%s  (%s)\n", line, hit.ID)

	description := hit.Description
	if hit.DescriptionHighlight != nil {
		description = hit.DescriptionHighlight.Marked
	}

	if description != "" {
		_, _ = fmt.Fprintf(app.out.Out, "    %s\n", description)
	}

	_, _ = fmt.Fprintf(app.out.Out, "    %s · %d downloads · %d items\n",
		catalog.FormatDate(hit.Updated), hit.Downloads.Total, len(hit.ItemNames))
}

func (app *CLI) chooseSort(cmd *cli.Command) (string, error) {
	sortKey := app.cfg.Sort
	if cmd.IsSet("sort") {
		sortKey = cmd.String("sort")
	}

	if cmd.Bool("pick-sort") {
		if !app.interactive() {
			return "", NewExitError(ExitUsageError, "--pick-sort requires a terminal", nil)
		}

		picked, err := pickSort(sortKey)
		if err != nil {
			return "", classify("sort selection cancelled", err)
		}

		sortKey = picked
	}

	if _, err := sorting.Lookup(sortKey); err != nil {
		return "", NewExitError(ExitUsageError,
			fmt.Sprintf("unknown sort %q, choose one of: %s", sortKey, strings.Join(sorting.Keys(), ", ")), err)
	}

	return sortKey, nil
}

// loadGallery reads the whole catalog into a controller.
func (app *CLI) loadGallery(ctx context.Context, sortKey string, opts ...gallery.Option) (*gallery.Controller, error) {
	if timeout := app.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client := network.NewHTTPClient(app.cfg.Timeout())

	stats, err := client.FetchStats(ctx, app.cfg.StatsURL)
	if err != nil {
		logging.Log.WithError(err).Warn("Download statistics unavailable")

		stats = nil
	}

	app.out.Progressf("Loading %s", app.cfg.CatalogURL)

	body, err := client.Open(ctx, app.cfg.CatalogURL)
	if err != nil {
		return nil, classify("failed to load catalog", err)
	}

	defer func() {
		_ = body.Close()
	}()

	var records []catalog.Record

	_, readErr := catalog.ReadAll(ctx, body, func(record catalog.Record) error {
		records = append(records, record)

		return nil
	})
	if readErr != nil && !errors.Is(readErr, catalog.ErrMalformedRecord) {
		return nil, classify("failed to read catalog", readErr)
	}

	if readErr != nil {
		app.out.Warningf("Catalog ends early after %d libraries: %v", len(records), readErr)
	}

	controller := gallery.NewController(stats, append([]gallery.Option{gallery.WithSort(sortKey)}, opts...)...)
	controller.Append(records)
	controller.EndLoad(true, readErr)

	app.out.Progressf("Loaded %d libraries", controller.Len())

	return controller, nil
}

func (app *CLI) createLinkCommand() *cli.Command {
	return &cli.Command{
		Name:      "link",
		Usage:     "Print or open the link that adds a library to the drawing app",
		ArgsUsage: "[library-id]",
		Description: `Without an id an interactive picker is shown.

Examples:
  libgallery link misc-arrows
  libgallery link misc-arrows --open
  libgallery --referrer https://app.excalidraw.com link misc-arrows`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "open",
				Aliases: []string{"o"},
				Usage:   "open the link in the browser",
			},
		},
		Action: app.runLink,
	}
}

func (app *CLI) runLink(ctx context.Context, cmd *cli.Command) error {
	controller, err := app.loadGallery(ctx, app.cfg.Sort)
	if err != nil {
		return err
	}

	id := cmd.Args().First()
	if id == "" {
		if !app.interactive() {
			return NewExitError(ExitUsageError, "a library id is required when not running in a terminal", nil)
		}

		id, err = pickLibrary(controller.Items())
		if err != nil {
			return classify("library selection cancelled", err)
		}
	}

	library, err := controller.Find(id)
	if err != nil {
		return classify("library not found", err)
	}

	link := deeplink.AddLibraryURL(app.cfg.LinkOptions(), library)

	if cmd.Bool("open") {
		runner := platform.NewCommandRunner(app.dryRun)
		if err := runner.OpenURL(ctx, link); err != nil {
			return classify("failed to open browser", err)
		}

		app.out.Successf("Opened %s in %s", library.Name, deeplink.AppName(app.cfg.Referrer))
	}

	if app.out.JSON {
		app.out.SuccessResult(app.summarize(library), "")

		return nil
	}

	_, _ = fmt.Fprintln(app.out.Out, link)

	return nil
}

func (app *CLI) createConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert a JSON array catalog to newline-delimited JSON",
		ArgsUsage: "<file.json>",
		Description: `Writes one compact record per line next to the input,
replacing a trailing .json with .jsonl.json.

Example:
  libgallery convert libraries.json    # writes libraries.jsonl.json`,
		Action: app.runConvert,
	}
}

func (app *CLI) runConvert(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return NewExitError(ExitUsageError, "convert takes exactly one input file", nil)
	}

	result, err := convert.File(ctx, cmd.Args().First())
	if err != nil {
		return classify("conversion failed", err)
	}

	switch {
	case app.out.JSON:
		app.out.SuccessResult(result, "")
	case app.out.Plain:
		app.out.PlainKeyValue("output", result.Output)
		app.out.PlainKeyValue("records", fmt.Sprint(result.Records))
	default:
		app.out.Successf("Wrote %d records", result.Records)
		_, _ = fmt.Fprintln(app.out.Out, result.Output)
	}

	return nil
}

func (app *CLI) createSortsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sorts",
		Usage: "List sort strategies",
		Action: func(_ context.Context, _ *cli.Command) error {
			strategies := sorting.All()

			if app.out.JSON {
				type entry struct {
					Key     string `json:"key"`
					Label   string `json:"label"`
					Default bool   `json:"default"`
				}

				entries := make([]entry, 0, len(strategies))
				for _, strategy := range strategies {
					entries = append(entries, entry{Key: strategy.Key, Label: strategy.Label, Default: strategy.Key == app.cfg.Sort})
				}

				app.out.SuccessResult(entries, "")

				return nil
			}

			if app.out.Plain {
				app.out.PlainList(sorting.Keys())

				return nil
			}

			for _, strategy := range strategies {
				marker := " "
				if strategy.Key == app.cfg.Sort {
					marker = "*"
				}

				_, _ = fmt.Fprintf(app.out.Out, "%s %-16s %s\n", marker, strategy.Key, strategy.Label)
			}

			return nil
		},
	}
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(_ context.Context, _ *cli.Command) error {
			app.out.SuccessResult(getVersion(), "")

			return nil
		},
	}
}
