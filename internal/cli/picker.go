// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/sorting"
)

// pickerHeight is the number of options visible at once.
const pickerHeight = 12

func libraryOptions(libraries []catalog.Library) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(libraries))

	for _, library := range libraries {
		label := library.Name
		if author := library.FirstAuthor(); author != "" {
			label = fmt.Sprintf("%s  @%s", library.Name, author)
		}

		options = append(options, huh.NewOption(label, library.ID))
	}

	return options
}

func sortOptions() []huh.Option[string] {
	strategies := sorting.All()
	options := make([]huh.Option[string], 0, len(strategies))

	for _, strategy := range strategies {
		options = append(options, huh.NewOption(strategy.Label, strategy.Key))
	}

	return options
}

// pickLibrary asks for a library and returns its id.
func pickLibrary(libraries []catalog.Library) (string, error) {
	var id string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("◈ Choose a library").
				Description("Type / to filter").
				Options(libraryOptions(libraries)...).
				Height(pickerHeight).
				Value(&id),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return id, nil
}

// pickSort asks for a sort strategy, starting at current.
func pickSort(current string) (string, error) {
	key := current

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("◈ Sort libraries by").
				Options(sortOptions()...).
				Value(&key),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	return key, nil
}
