// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/recommend/storage"
)

// Format names a catalog artifact encoding.
type Format string

const (
	// FormatAuto picks badger for directories and JSON for files.
	FormatAuto   Format = "auto"
	FormatJSON   Format = "json"
	FormatBadger Format = "badger"
)

// ParseFormat accepts auto, json or badger (case-insensitive). Empty means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatBadger:
		return f, nil
	default:
		return "", fmt.Errorf("unknown catalog format %q (want auto, json or badger)", s)
	}
}

// artifactFile is the JSON artifact. Pointers distinguish a missing part
// from an empty one.
type artifactFile struct {
	Vocabulary *[]string        `json:"vocabulary"`
	Matrix     *[][]float64     `json:"matrix"`
	Titles     *[]artifactTitle `json:"titles"`
}

type artifactTitle struct {
	MovieID     string   `json:"movie_id"`
	Title       string   `json:"title"`
	Year        int      `json:"year,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	AvgRating   float64  `json:"avg_rating,omitempty"`
	RatingCount int      `json:"rating_count,omitempty"`
}

// Open loads a catalog from path in the given format.
func Open(ctx context.Context, path string, format Format) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, loadError(path, "artifact not accessible", err)
	}

	if format == FormatAuto || format == "" {
		format = FormatJSON
		if info.IsDir() {
			format = FormatBadger
		}
	}

	switch format {
	case FormatJSON:
		if info.IsDir() {
			return nil, loadError(path, "json artifact path is a directory", nil)
		}
		return LoadCatalog(path)
	case FormatBadger:
		if !info.IsDir() {
			return nil, loadError(path, "badger artifact path is not a directory", nil)
		}
		return loadBadger(ctx, path)
	default:
		return nil, loadError(path, fmt.Sprintf("unknown format %q", format), nil)
	}
}

// LoadCatalog reads a JSON artifact file.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, loadError(path, "artifact not readable", err)
	}
	defer f.Close()

	cat, err := DecodeCatalog(f)
	if err != nil {
		var mle *ModelLoadError
		if errors.As(err, &mle) {
			mle.Path = path
			return nil, mle
		}
		return nil, loadError(path, "invalid artifact", err)
	}
	return cat, nil
}

// DecodeCatalog reads a JSON artifact from r.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var file artifactFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, loadError("", "malformed artifact", err)
	}

	var missing []string
	if file.Vocabulary == nil {
		missing = append(missing, "vocabulary")
	}
	if file.Matrix == nil {
		missing = append(missing, "matrix")
	}
	if file.Titles == nil {
		missing = append(missing, "titles")
	}
	if len(missing) > 0 {
		return nil, loadError("", "artifact is missing "+strings.Join(missing, ", "), nil)
	}

	matrix, titles := *file.Matrix, *file.Titles
	if len(matrix) != len(titles) {
		return nil, loadError("", fmt.Sprintf("matrix has %d rows but titles has %d entries", len(matrix), len(titles)), nil)
	}

	entries := make([]Entry, len(titles))
	for i, t := range titles {
		entries[i] = Entry{
			MovieID:     t.MovieID,
			Title:       t.Title,
			Membership:  matrix[i],
			Year:        t.Year,
			Genres:      t.Genres,
			AvgRating:   t.AvgRating,
			RatingCount: t.RatingCount,
		}
	}

	cat, err := NewCatalog(*file.Vocabulary, entries)
	if err != nil {
		return nil, loadError("", "inconsistent artifact", err)
	}
	return cat, nil
}

// EncodeCatalog writes cat to w as a JSON artifact.
func EncodeCatalog(w io.Writer, cat *Catalog) error {
	vocab := cat.Vocabulary()
	matrix := make([][]float64, cat.Len())
	titles := make([]artifactTitle, cat.Len())
	for i := range cat.entries {
		e := &cat.entries[i]
		matrix[i] = e.Membership
		titles[i] = artifactTitle{
			MovieID:     e.MovieID,
			Title:       e.Title,
			Year:        e.Year,
			Genres:      e.Genres,
			AvgRating:   e.AvgRating,
			RatingCount: e.RatingCount,
		}
	}

	enc := json.NewEncoder(w)
	return enc.Encode(artifactFile{Vocabulary: &vocab, Matrix: &matrix, Titles: &titles})
}

// WriteArtifact saves cat to path in the given format. JSON artifacts are
// written to a temporary file and renamed into place. FormatAuto means JSON.
func WriteArtifact(ctx context.Context, path string, format Format, cat *Catalog) error {
	switch format {
	case FormatBadger:
		return saveBadger(ctx, path, cat)
	case FormatJSON, FormatAuto, "":
		return writeJSONArtifact(path, cat)
	default:
		return fmt.Errorf("unknown catalog format %q", format)
	}
}

func writeJSONArtifact(path string, cat *Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := EncodeCatalog(tmp, cat); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

func loadBadger(ctx context.Context, path string) (*Catalog, error) {
	store, err := storage.Open(path, storage.Options{ReadOnly: true})
	if err != nil {
		return nil, loadError(path, "badger store not readable", err)
	}
	defer store.Close()

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, loadError(path, "badger store invalid", err)
	}

	entries := make([]Entry, len(snap.Records))
	for i, r := range snap.Records {
		entries[i] = Entry{
			MovieID:     r.MovieID,
			Title:       r.Title,
			Membership:  r.Membership,
			Year:        r.Year,
			Genres:      r.Genres,
			AvgRating:   r.AvgRating,
			RatingCount: r.RatingCount,
		}
	}

	cat, err := NewCatalog(snap.Vocabulary, entries)
	if err != nil {
		return nil, loadError(path, "inconsistent artifact", err)
	}
	return cat, nil
}

func saveBadger(ctx context.Context, path string, cat *Catalog) error {
	store, err := storage.Open(path, storage.Options{SyncWrites: true})
	if err != nil {
		return err
	}
	defer store.Close()

	records := make([]storage.Record, cat.Len())
	for i := range cat.entries {
		e := &cat.entries[i]
		records[i] = storage.Record{
			MovieID:     e.MovieID,
			Title:       e.Title,
			Membership:  e.Membership,
			Year:        e.Year,
			Genres:      e.Genres,
			AvgRating:   e.AvgRating,
			RatingCount: e.RatingCount,
		}
	}

	if _, err := store.Save(ctx, cat.Vocabulary(), records); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
