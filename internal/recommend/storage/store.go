// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
)

// SchemaVersion is written to meta/info and checked on load.
const SchemaVersion = 1

const (
	keyVocabulary = "meta/vocabulary"
	keyCount      = "meta/count"
	keyInfo       = "meta/info"
	prefixMovie   = "movie/"
)

var (
	// ErrNoCatalog means the directory holds no saved catalog.
	ErrNoCatalog = errors.New("no catalog stored")

	// ErrCorrupt means the stored catalog is inconsistent.
	ErrCorrupt = errors.New("stored catalog is corrupt")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("store is closed")
)

// Record is one stored movie row.
type Record struct {
	MovieID     string    `json:"movie_id"`
	Title       string    `json:"title"`
	Membership  []float64 `json:"membership"`
	Year        int       `json:"year,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	AvgRating   float64   `json:"avg_rating,omitempty"`
	RatingCount int       `json:"rating_count,omitempty"`
}

// Metadata describes a saved catalog.
type Metadata struct {
	SchemaVersion int       `json:"schema_version"`
	SavedAt       time.Time `json:"saved_at"`
	Movies        int       `json:"movies"`
	Genres        int       `json:"genres"`

	// Checksum is the hex SHA-256 of the vocabulary value followed by
	// every row value in row order.
	Checksum string `json:"checksum"`
}

// Snapshot is everything Load returns.
type Snapshot struct {
	Vocabulary []string
	Records    []Record
	Meta       Metadata
}

// Options tune Open.
type Options struct {
	// ReadOnly opens the directory without write access. The directory
	// must already hold a database.
	ReadOnly bool

	// SyncWrites flushes every write to disk before returning.
	SyncWrites bool
}

// Store is a BadgerDB-backed catalog artifact.
type Store struct {
	db     *badger.DB
	path   string
	mu     sync.RWMutex
	closed bool
}

// Open opens (or, unless read-only, creates) the store at path.
func Open(path string, opts Options) (*Store, error) {
	bopts := badger.DefaultOptions(path)
	bopts.ReadOnly = opts.ReadOnly
	bopts.SyncWrites = opts.SyncWrites
	bopts.Logger = badgerLogger{logger: logging.Logger().With().Str("component", "badger").Logger()}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Debug().
		Str("path", path).
		Bool("read_only", opts.ReadOnly).
		Msg("catalog store opened")

	return &Store{db: db, path: path}, nil
}

// Path returns the directory the store lives in.
func (s *Store) Path() string { return s.path }

// Close releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func movieKey(row int) []byte {
	return []byte(fmt.Sprintf("%s%08d", prefixMovie, row))
}

func parseMovieKey(key []byte) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(string(key), prefixMovie))
}

// Save replaces whatever the store holds with vocabulary and records.
func (s *Store) Save(ctx context.Context, vocabulary []string, records []Record) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	vocabJSON, err := json.Marshal(vocabulary)
	if err != nil {
		return nil, fmt.Errorf("encode vocabulary: %w", err)
	}

	if err := s.db.DropAll(); err != nil {
		return nil, fmt.Errorf("clear store: %w", err)
	}

	sum := sha256.New()
	sum.Write(vocabJSON)

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, err := json.Marshal(&records[i])
		if err != nil {
			return nil, fmt.Errorf("encode row %d: %w", i, err)
		}
		sum.Write(val)
		if err := wb.Set(movieKey(i), val); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	meta := Metadata{
		SchemaVersion: SchemaVersion,
		SavedAt:       time.Now().UTC(),
		Movies:        len(records),
		Genres:        len(vocabulary),
		Checksum:      hex.EncodeToString(sum.Sum(nil)),
	}
	metaJSON, err := json.Marshal(&meta)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	if err := wb.Set([]byte(keyVocabulary), vocabJSON); err != nil {
		return nil, fmt.Errorf("write vocabulary: %w", err)
	}
	if err := wb.Set([]byte(keyCount), []byte(strconv.Itoa(len(records)))); err != nil {
		return nil, fmt.Errorf("write count: %w", err)
	}
	if err := wb.Set([]byte(keyInfo), metaJSON); err != nil {
		return nil, fmt.Errorf("write metadata: %w", err)
	}
	if err := wb.Flush(); err != nil {
		return nil, fmt.Errorf("flush catalog: %w", err)
	}

	logging.Info().
		Str("path", s.path).
		Int("movies", meta.Movies).
		Int("genres", meta.Genres).
		Str("checksum", meta.Checksum).
		Msg("catalog saved")

	return &meta, nil
}

// Load reads and verifies the stored catalog.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	snap := &Snapshot{}
	sum := sha256.New()
	var count int

	err := s.db.View(func(txn *badger.Txn) error {
		vocabJSON, err := getValue(txn, keyVocabulary)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(vocabJSON, &snap.Vocabulary); err != nil {
			return fmt.Errorf("%w: decode vocabulary: %v", ErrCorrupt, err)
		}
		sum.Write(vocabJSON)

		countRaw, err := getValue(txn, keyCount)
		if err != nil {
			return err
		}
		count, err = strconv.Atoi(string(countRaw))
		if err != nil || count < 0 {
			return fmt.Errorf("%w: bad row count %q", ErrCorrupt, countRaw)
		}

		infoJSON, err := getValue(txn, keyInfo)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(infoJSON, &snap.Meta); err != nil {
			return fmt.Errorf("%w: decode metadata: %v", ErrCorrupt, err)
		}
		if snap.Meta.SchemaVersion != SchemaVersion {
			return fmt.Errorf("%w: schema version %d, want %d", ErrCorrupt, snap.Meta.SchemaVersion, SchemaVersion)
		}

		snap.Records = make([]Record, 0, count)
		return readRecords(ctx, txn, snap, sum)
	})
	if err != nil {
		return nil, err
	}

	if len(snap.Records) != count {
		return nil, fmt.Errorf("%w: found %d rows, %s says %d", ErrCorrupt, len(snap.Records), keyCount, count)
	}
	if len(snap.Records) != snap.Meta.Movies {
		return nil, fmt.Errorf("%w: found %d rows, metadata says %d", ErrCorrupt, len(snap.Records), snap.Meta.Movies)
	}
	if got := hex.EncodeToString(sum.Sum(nil)); got != snap.Meta.Checksum {
		return nil, fmt.Errorf("%w: checksum %s, want %s", ErrCorrupt, got, snap.Meta.Checksum)
	}
	return snap, nil
}

func getValue(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: missing %s", ErrNoCatalog, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return item.ValueCopy(nil)
}

func readRecords(ctx context.Context, txn *badger.Txn, snap *Snapshot, sum hash.Hash) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	opts.Prefix = []byte(prefixMovie)
	it := txn.NewIterator(opts)
	defer it.Close()

	want := 0
	for it.Rewind(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := it.Item()
		row, err := parseMovieKey(item.Key())
		if err != nil || row != want {
			return fmt.Errorf("%w: expected row %d, found key %q", ErrCorrupt, want, item.KeyCopy(nil))
		}

		var rec Record
		err = item.Value(func(val []byte) error {
			sum.Write(val)
			return json.Unmarshal(val, &rec)
		})
		if err != nil {
			return fmt.Errorf("%w: decode row %d: %v", ErrCorrupt, row, err)
		}
		snap.Records = append(snap.Records, rec)
		want++
	}
	return nil
}

// badgerLogger routes badger's printf-style logging into zerolog. Badger is
// chatty at info level, so info is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(strings.TrimSpace(format), args...)
}
