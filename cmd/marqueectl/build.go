// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/database"
	"github.com/tomtom215/marquee/internal/recommend"
)

const buildLongDesc = `Build a catalog artifact from MovieLens-style CSV files.

movies.csv needs the columns movieId,title,genres with genres separated by
"|". Movies listed as "(no genres listed)" are dropped. When ratings.csv
(userId,movieId,rating,timestamp) is given, each movie carries its average
rating and count, and --min-ratings drops rarely rated titles.

The artifact is written under an exclusive lock file (<out>.lock), so two
builds cannot clobber each other.

Examples:
  marqueectl build --movies ml/movies.csv --out catalog.json
  marqueectl build --movies ml/movies.csv --ratings ml/ratings.csv --min-ratings 20 \
      --out catalog.badger --format badger`

type buildOptions struct {
	movies        string
	ratings       string
	minRatings    int
	excludeGenres []string
	out           string
	format        string
}

func newBuildCmd() *cobra.Command {
	opts := &buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a catalog artifact from CSV files",
		Long:  buildLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.movies, "movies", "", "Path to movies.csv")
	cmd.Flags().StringVar(&opts.ratings, "ratings", "", "Optional path to ratings.csv")
	cmd.Flags().IntVar(&opts.minRatings, "min-ratings", 0, "Drop movies with fewer ratings (requires --ratings)")
	cmd.Flags().StringSliceVar(&opts.excludeGenres, "exclude-genre", nil, "Genre to leave out of the vocabulary (repeatable)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Artifact path to write")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Artifact format: json or badger")
	_ = cmd.MarkFlagRequired("movies")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *buildOptions) error {
	format, err := recommend.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format == recommend.FormatAuto {
		format = recommend.FormatJSON
	}
	if opts.minRatings > 0 && opts.ratings == "" {
		return errors.New("--min-ratings needs --ratings")
	}

	ctx := cmd.Context()
	cat, report, err := database.BuildCatalog(ctx, database.BuildOptions{
		MoviesPath:    opts.movies,
		RatingsPath:   opts.ratings,
		MinRatings:    opts.minRatings,
		ExcludeGenres: opts.excludeGenres,
	})
	if err != nil {
		return fmt.Errorf("building catalog: %w", err)
	}

	if err := database.WriteCatalog(ctx, opts.out, format, cat); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	rows := [][]string{
		{"movies read", strconv.Itoa(report.MoviesRead)},
		{"movies kept", strconv.Itoa(report.MoviesKept)},
		{"dropped (no genres)", strconv.Itoa(report.DroppedNoGenres)},
		{"dropped (min ratings)", strconv.Itoa(report.DroppedMinRatings)},
		{"genres", strconv.Itoa(report.Genres)},
		{"elapsed", report.Elapsed.Round(time.Millisecond).String()},
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s artifact to %s\n", format, opts.out)
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Build", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}
