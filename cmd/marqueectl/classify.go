// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marquee/internal/classifier"
	"github.com/tomtom215/marquee/internal/config"
)

// classifierFlags override the classifier section of the loaded config.
type classifierFlags struct {
	url       string
	token     string
	model     string
	threshold float64
}

func (f *classifierFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", "", "Inference endpoint (default: CLASSIFIER_URL)")
	cmd.Flags().StringVar(&f.token, "token", "", "API token (default: CLASSIFIER_TOKEN)")
	cmd.Flags().StringVar(&f.model, "model", "", "Model name reported in output (default: CLASSIFIER_MODEL)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "Confidence cut-off in [0, 1) (default: CLASSIFIER_THRESHOLD)")
}

// newExtractor loads the configuration, applies the flag overrides and
// builds an enabled extractor regardless of CLASSIFIER_ENABLED.
func (f *classifierFlags) newExtractor(cmd *cobra.Command) (*classifier.GenreExtractor, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	cc := cfg.Classifier
	cc.Enabled = true
	if f.url != "" {
		cc.URL = f.url
	}
	if f.token != "" {
		cc.Token = f.token
	}
	if f.model != "" {
		cc.Model = f.model
	}
	if cmd.Flags().Changed("threshold") {
		cc.Threshold = f.threshold
	}
	if cc.URL == "" {
		return nil, errors.New("no classifier endpoint: pass --url or set CLASSIFIER_URL")
	}

	cfg.Classifier = cc
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return classifier.New(&cfg.Classifier)
}

func newClassifyCmd() *cobra.Command {
	var text string
	flags := &classifierFlags{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Show raw classifier scores for a description",
		Long: `Send a description to the zero-shot classifier and print the score of
every candidate genre. Genres scoring above the threshold are the ones a
recommendation would use.

Examples:
  marqueectl classify --text "something scary set on a spaceship"
  marqueectl classify --text "feel-good heist" --threshold 0.3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ext, err := flags.newExtractor(cmd)
			if err != nil {
				return err
			}

			d, err := ext.Diagnose(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("classify: %w", err)
			}

			rows := make([][]string, len(d.Scores))
			for i, s := range d.Scores {
				mark := ""
				if s.Score > d.Threshold {
					mark = "yes"
				}
				rows[i] = []string{s.Label, strconv.FormatFloat(s.Score, 'f', 4, 64), mark}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model: %s  Threshold: %g\n", ext.Model(), d.Threshold)
			fmt.Fprintln(out, renderTable([]string{"Genre", "Score", "Selected"}, rows, []columnAlignment{alignLeft, alignRight, alignLeft}))
			fmt.Fprintf(out, "Predicted: %s\n", joinGenres(d.Genres))
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "Description to classify")
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("text")

	return cmd
}
