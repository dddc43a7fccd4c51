// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package database builds movie catalogs from MovieLens-style CSV exports
// using an in-memory DuckDB instance.
//
// # Ingestion
//
// BuildCatalog reads movies.csv (movieId,title,genres) and, optionally,
// ratings.csv (userId,movieId,rating,timestamp) with DuckDB's read_csv:
//
//   - genres are split on "|"; "(no genres listed)" and any ExcludeGenres
//     are dropped, and movies left without a genre are skipped
//   - the release year comes from the "(YYYY)" group in the title
//   - ratings are aggregated per movie (average and count) and joined in;
//     MinRatings drops sparsely rated movies
//   - the vocabulary is every remaining genre in lexical order and each
//     movie becomes a one-hot row
//
// Nothing is persisted by DuckDB. The resulting recommend.Catalog is written
// out with WriteCatalog, which holds an exclusive gofrs/flock lock next to
// the artifact for the duration of the write.
//
// # Usage
//
//	cat, report, err := database.BuildCatalog(ctx, database.BuildOptions{
//	    MoviesPath:  "ml-latest-small/movies.csv",
//	    RatingsPath: "ml-latest-small/ratings.csv",
//	    MinRatings:  5,
//	})
//	if err != nil {
//	    return err
//	}
//	err = database.WriteCatalog(ctx, "data/catalog.json", recommend.FormatJSON, cat)
package database
