// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

type recommendOptions struct {
	catalog string
	format  string
	genres  []string
	thought string
	topK    int
	strict  bool
	seed    int64
	asJSON  bool
	cls     classifierFlags
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run a recommendation against a catalog",
		Long: `Rank the movies of a catalog against a set of genres, exactly as the
server does. With --thought the genres are predicted by the classifier
(configured through CLASSIFIER_* variables or the --url/--token flags).

Examples:
  marqueectl recommend --catalog catalog.json --genres Horror,Mystery -k 3
  marqueectl recommend --catalog catalog.json --genres Comedy --strict=false --seed 7
  marqueectl recommend --catalog catalog.json --thought "a cozy rainy-day mystery"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecommend(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", "", "Catalog artifact path")
	cmd.Flags().StringVar(&opts.format, "format", "auto", "Artifact format: auto, json or badger")
	cmd.Flags().StringSliceVarP(&opts.genres, "genres", "g", nil, "Comma-separated genres")
	cmd.Flags().StringVar(&opts.thought, "thought", "", "Free-text description to classify instead of --genres")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 0, "Number of movies to return (default: engine default)")
	cmd.Flags().BoolVar(&opts.strict, "strict", true, "Require at least one shared genre")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for tie-breaking and fallback sampling")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the raw result as JSON")
	opts.cls.register(cmd)
	_ = cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagsMutuallyExclusive("genres", "thought")

	return cmd
}

func runRecommend(cmd *cobra.Command, opts *recommendOptions) error {
	cat, err := openCatalog(cmd, opts.catalog, opts.format)
	if err != nil {
		return err
	}

	engine, err := recommend.NewEngine(cat, recommend.DefaultConfig(), logging.WithComponent("recommend"))
	if err != nil {
		return err
	}

	var strict *bool
	if cmd.Flags().Changed("strict") {
		strict = &opts.strict
	}
	var seed *int64
	if cmd.Flags().Changed("seed") {
		seed = &opts.seed
	}

	var res *recommend.Result
	if opts.thought != "" {
		ext, err := opts.cls.newExtractor(cmd)
		if err != nil {
			return err
		}
		engine.SetClassifier(ext)
		res = engine.RecommendText(cmd.Context(), recommend.TextRequest{
			Text: opts.thought, TopK: opts.topK, Strict: strict, Seed: seed,
		})
	} else {
		res = engine.Recommend(cmd.Context(), recommend.Request{
			Genres: opts.genres, TopK: opts.topK, Strict: strict, Seed: seed,
		})
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(out, "Outcome: %s", res.Outcome)
	if res.Reason != recommend.ReasonNone {
		fmt.Fprintf(out, " (%s)", res.Reason)
	}
	fmt.Fprintln(out)
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	if len(res.PredictedGenres) > 0 {
		fmt.Fprintf(out, "Predicted genres: %s\n", joinGenres(res.PredictedGenres))
	}
	if len(res.UnknownGenres) > 0 {
		fmt.Fprintf(out, "Unknown genres: %s\n", joinGenres(res.UnknownGenres))
	}

	rows := make([][]string, len(res.Candidates))
	for i, c := range res.Candidates {
		rows[i] = []string{strconv.Itoa(i + 1), c.Title, strconv.FormatFloat(c.Score, 'f', 3, 64)}
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Title", "Score"}, rows, []columnAlignment{alignRight, alignLeft, alignRight}))
	return nil
}
