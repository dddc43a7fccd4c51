// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/recommend"
)

func newInspectCmd() *cobra.Command {
	var catalogPath, format string
	var sample int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the genre vocabulary of a catalog",
		Long: `Show every genre of a catalog artifact with the number of movies
carrying it, in vocabulary (column) order.

Examples:
  marqueectl inspect --catalog catalog.json
  marqueectl inspect --catalog catalog.badger --sample 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := openCatalog(cmd, catalogPath, format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d movies, %d genres\n", catalogPath, cat.Len(), cat.Dim())

			counts := cat.GenreCounts()
			rows := make([][]string, len(counts))
			for i, gc := range counts {
				rows[i] = []string{strconv.Itoa(i), gc.Genre, strconv.Itoa(gc.Movies)}
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Genre", "Movies"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))

			if sample > 0 {
				n := min(sample, cat.Len())
				movies := make([][]string, n)
				for i := 0; i < n; i++ {
					e := cat.Entry(i)
					movies[i] = []string{e.MovieID, e.Title, joinGenres(e.Genres)}
				}
				fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Genres"}, movies, nil))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&catalogPath, "catalog", "c", "", "Catalog artifact path")
	cmd.Flags().StringVar(&format, "format", "auto", "Artifact format: auto, json or badger")
	cmd.Flags().IntVar(&sample, "sample", 0, "Also list the first N movies")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

// openCatalog loads an artifact, honoring the command context.
func openCatalog(cmd *cobra.Command, path, format string) (*recommend.Catalog, error) {
	f, err := recommend.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return recommend.Open(cmd.Context(), path, f)
}
