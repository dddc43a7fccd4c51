// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

// NoGenresListed is the MovieLens placeholder for a movie without genres.
const NoGenresListed = "(no genres listed)"

// BuildOptions selects the MovieLens-style input files.
type BuildOptions struct {
	// MoviesPath is a CSV with header movieId,title,genres where genres
	// are separated by "|". Required.
	MoviesPath string

	// RatingsPath is an optional CSV with header
	// userId,movieId,rating,timestamp.
	RatingsPath string

	// MinRatings drops movies with fewer ratings. Ignored without
	// RatingsPath.
	MinRatings int

	// ExcludeGenres are removed from every movie (case-insensitive).
	ExcludeGenres []string
}

// BuildReport summarizes one ingestion run.
type BuildReport struct {
	MoviesRead        int           `json:"movies_read"`
	MoviesKept        int           `json:"movies_kept"`
	DroppedNoGenres   int           `json:"dropped_no_genres"`
	DroppedMinRatings int           `json:"dropped_min_ratings"`
	Genres            int           `json:"genres"`
	Elapsed           time.Duration `json:"elapsed"`
}

type movieRow struct {
	id          string
	title       string
	genres      string
	year        sql.NullInt64
	avgRating   sql.NullFloat64
	ratingCount sql.NullInt64
}

// BuildCatalog ingests the CSV files in opts into a one-hot catalog using a
// throwaway in-memory DuckDB instance.
func BuildCatalog(ctx context.Context, opts BuildOptions) (*recommend.Catalog, *BuildReport, error) {
	db, err := Open(ctx, Options{})
	if err != nil {
		return nil, nil, err
	}
	defer closeWithLog(db, "duckdb")

	return db.BuildCatalog(ctx, opts)
}

// BuildCatalog ingests the CSV files in opts into a one-hot catalog.
//
// The vocabulary is every remaining genre in lexical order. Rows follow
// numeric movie id order. The release year is taken from a "(YYYY)" group
// in the title.
func (db *DB) BuildCatalog(ctx context.Context, opts BuildOptions) (*recommend.Catalog, *BuildReport, error) {
	start := time.Now()

	if opts.MoviesPath == "" {
		return nil, nil, errors.New("movies path is required")
	}
	if err := checkReadable(opts.MoviesPath); err != nil {
		return nil, nil, err
	}
	if opts.RatingsPath != "" {
		if err := checkReadable(opts.RatingsPath); err != nil {
			return nil, nil, err
		}
	}

	if err := db.loadMovies(ctx, opts.MoviesPath); err != nil {
		return nil, nil, err
	}
	if err := db.loadRatings(ctx, opts.RatingsPath); err != nil {
		return nil, nil, err
	}

	rows, err := db.queryMovies(ctx)
	if err != nil {
		return nil, nil, err
	}

	report := &BuildReport{MoviesRead: len(rows)}
	cat, err := assembleCatalog(rows, opts, report)
	if err != nil {
		return nil, report, err
	}
	report.Elapsed = time.Since(start)

	logging.Info().
		Str("movies_path", opts.MoviesPath).
		Str("ratings_path", opts.RatingsPath).
		Int("movies_read", report.MoviesRead).
		Int("movies_kept", report.MoviesKept).
		Int("dropped_no_genres", report.DroppedNoGenres).
		Int("dropped_min_ratings", report.DroppedMinRatings).
		Int("genres", report.Genres).
		Dur("elapsed", report.Elapsed).
		Msg("Catalog built")

	return cat, report, nil
}

func checkReadable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("input file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input file %s is a directory", path)
	}
	return nil
}

func (db *DB) loadMovies(ctx context.Context, path string) error {
	query := fmt.Sprintf(`
		CREATE OR REPLACE TEMP TABLE movies AS
		SELECT
			trim(movieId) AS movie_id,
			COALESCE(trim(title), '') AS title,
			COALESCE(genres, '') AS genres
		FROM read_csv(%s,
			header = true,
			auto_detect = false,
			quote = '"',
			escape = '"',
			columns = {'movieId': 'VARCHAR', 'title': 'VARCHAR', 'genres': 'VARCHAR'})
		WHERE movieId IS NOT NULL AND trim(movieId) <> ''
	`, sqlLiteral(path))

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("read movies %s: %w", path, err)
	}
	return nil
}

// loadRatings aggregates per-movie rating statistics. Without a ratings
// file the table exists but is empty so the join below stays the same.
func (db *DB) loadRatings(ctx context.Context, path string) error {
	var query string
	if path == "" {
		query = `
			CREATE OR REPLACE TEMP TABLE rating_stats (
				movie_id VARCHAR,
				avg_rating DOUBLE,
				rating_count BIGINT
			)`
	} else {
		query = fmt.Sprintf(`
			CREATE OR REPLACE TEMP TABLE rating_stats AS
			SELECT
				trim(movieId) AS movie_id,
				AVG(rating) AS avg_rating,
				COUNT(*) AS rating_count
			FROM read_csv(%s,
				header = true,
				auto_detect = false,
				columns = {'userId': 'VARCHAR', 'movieId': 'VARCHAR', 'rating': 'DOUBLE', 'timestamp': 'BIGINT'})
			WHERE rating IS NOT NULL
			GROUP BY trim(movieId)
		`, sqlLiteral(path))
	}

	if _, err := db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("read ratings %s: %w", path, err)
	}
	return nil
}

func (db *DB) queryMovies(ctx context.Context) ([]movieRow, error) {
	const query = `
		SELECT
			m.movie_id,
			m.title,
			m.genres,
			TRY_CAST(NULLIF(regexp_extract(m.title, '\((\d{4})\)', 1), '') AS INTEGER) AS year,
			r.avg_rating,
			r.rating_count
		FROM movies m
		LEFT JOIN rating_stats r ON r.movie_id = m.movie_id
		ORDER BY TRY_CAST(m.movie_id AS BIGINT) NULLS LAST, m.movie_id
	`

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	var out []movieRow
	for rows.Next() {
		var m movieRow
		if err := rows.Scan(&m.id, &m.title, &m.genres, &m.year, &m.avgRating, &m.ratingCount); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

// assembleCatalog applies the genre and rating filters and one-hot encodes
// the survivors.
func assembleCatalog(rows []movieRow, opts BuildOptions, report *BuildReport) (*recommend.Catalog, error) {
	excluded := make(map[string]bool, len(opts.ExcludeGenres)+1)
	excluded[strings.ToLower(NoGenresListed)] = true
	for _, g := range opts.ExcludeGenres {
		excluded[strings.ToLower(strings.TrimSpace(g))] = true
	}

	type kept struct {
		row    movieRow
		genres []string
	}
	var movies []kept
	seen := make(map[string]bool)

	for _, m := range rows {
		if opts.RatingsPath != "" && opts.MinRatings > 0 {
			if !m.ratingCount.Valid || m.ratingCount.Int64 < int64(opts.MinRatings) {
				report.DroppedMinRatings++
				continue
			}
		}

		genres := splitGenres(m.genres, excluded)
		if len(genres) == 0 {
			report.DroppedNoGenres++
			continue
		}
		for _, g := range genres {
			seen[g] = true
		}
		movies = append(movies, kept{row: m, genres: genres})
	}

	if len(movies) == 0 {
		return nil, ErrNoMovies
	}

	vocabulary := make([]string, 0, len(seen))
	for g := range seen {
		vocabulary = append(vocabulary, g)
	}
	sort.Strings(vocabulary)

	index := make(map[string]int, len(vocabulary))
	for i, g := range vocabulary {
		index[g] = i
	}

	entries := make([]recommend.Entry, len(movies))
	for i, k := range movies {
		membership := make([]float64, len(vocabulary))
		for _, g := range k.genres {
			membership[index[g]] = 1
		}
		e := recommend.Entry{
			MovieID:    k.row.id,
			Title:      k.row.title,
			Membership: membership,
		}
		if k.row.year.Valid {
			e.Year = int(k.row.year.Int64)
		}
		if k.row.avgRating.Valid {
			e.AvgRating = k.row.avgRating.Float64
		}
		if k.row.ratingCount.Valid {
			e.RatingCount = int(k.row.ratingCount.Int64)
		}
		entries[i] = e
	}

	cat, err := recommend.NewCatalog(vocabulary, entries)
	if err != nil {
		return nil, fmt.Errorf("assemble catalog: %w", err)
	}

	report.MoviesKept = cat.Len()
	report.Genres = cat.Dim()
	return cat, nil
}

// splitGenres splits a "|"-separated genre list, dropping blanks, excluded
// genres and repeats.
func splitGenres(raw string, excluded map[string]bool) []string {
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		g := strings.TrimSpace(p)
		if g == "" || excluded[strings.ToLower(g)] {
			continue
		}
		dup := false
		for _, have := range genres {
			if have == g {
				dup = true
				break
			}
		}
		if !dup {
			genres = append(genres, g)
		}
	}
	return genres
}
