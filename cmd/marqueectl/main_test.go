// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marquee/internal/recommend"
)

const testMoviesCSV = `movieId,title,genres
1,The Shining (1980),Horror|Mystery
2,Se7en (1995),Mystery|Thriller
3,Airplane! (1980),Comedy
4,Hereditary (2018),Horror|Mystery|Thriller
5,Clue (1985),Comedy|Mystery
6,Untitled,(no genres listed)
`

// runCmd executes marqueectl with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeCatalog stores a small catalog artifact and returns its path.
func writeCatalog(t *testing.T) string {
	t.Helper()
	cat, err := recommend.NewCatalog(
		[]string{"Comedy", "Horror", "Mystery", "Thriller"},
		[]recommend.Entry{
			{MovieID: "1", Title: "The Shining", Membership: []float64{0, 1, 1, 0}},
			{MovieID: "2", Title: "Se7en", Membership: []float64{0, 0, 1, 1}},
			{MovieID: "3", Title: "Airplane!", Membership: []float64{1, 0, 0, 0}},
			{MovieID: "4", Title: "Hereditary", Membership: []float64{0, 1, 1, 1}},
		},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := recommend.WriteArtifact(context.Background(), path, recommend.FormatJSON, cat); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	return path
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	for _, name := range []string{"build", "inspect", "recommend", "classify"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered (err = %v)", name, err)
		}
	}
}

func TestBuildCmd(t *testing.T) {
	dir := t.TempDir()
	movies := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(movies, []byte(testMoviesCSV), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "catalog.json")

	stdout, err := runCmd(t, "build", "--movies", movies, "--out", out)
	if err != nil {
		t.Fatalf("build error = %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "movies kept") || !strings.Contains(stdout, "Wrote json artifact") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	cat, err := recommend.Open(context.Background(), out, recommend.FormatJSON)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if cat.Len() != 5 || cat.Dim() != 4 {
		t.Errorf("catalog = %d movies, %d genres; want 5, 4", cat.Len(), cat.Dim())
	}
	if _, err := os.Stat(out + ".lock"); err != nil {
		t.Errorf("lock file missing: %v", err)
	}
}

func TestBuildCmd_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"missing movies", []string{"build", "--out", "x.json"}},
		{"missing out", []string{"build", "--movies", "movies.csv"}},
		{"bad format", []string{"build", "--movies", "m.csv", "--out", "x", "--format", "xml"}},
		{"min ratings without ratings", []string{"build", "--movies", "m.csv", "--out", "x", "--min-ratings", "5"}},
		{"nonexistent movies", []string{"build", "--movies", filepath.Join(t.TempDir(), "nope.csv"), "--out", filepath.Join(t.TempDir(), "x.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := runCmd(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestInspectCmd(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t)
	stdout, err := runCmd(t, "inspect", "--catalog", path, "--sample", "2")
	if err != nil {
		t.Fatalf("inspect error = %v", err)
	}
	for _, want := range []string{"4 movies, 4 genres", "Mystery", "The Shining", "Horror|Mystery"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Airplane!") {
		t.Errorf("--sample 2 listed a third movie:\n%s", stdout)
	}
}

func TestInspectCmd_MissingCatalog(t *testing.T) {
	t.Parallel()

	if _, err := runCmd(t, "inspect", "--catalog", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("inspect of a missing artifact should fail")
	}
}

func TestRecommendCmd(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t)
	stdout, err := runCmd(t, "recommend", "--catalog", path, "--genres", "Horror,Mystery", "-k", "2")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	if !strings.Contains(stdout, "Outcome: ranked") {
		t.Errorf("output missing outcome:\n%s", stdout)
	}
	if !strings.Contains(stdout, "The Shining") || !strings.Contains(stdout, "Hereditary") {
		t.Errorf("output missing horror mysteries:\n%s", stdout)
	}
	if strings.Contains(stdout, "Airplane!") {
		t.Errorf("strict match returned a comedy:\n%s", stdout)
	}
}

func TestRecommendCmd_StrictFlagUsage(t *testing.T) {
	t.Parallel()

	flag := newRecommendCmd().Flags().Lookup("strict")
	if flag == nil {
		t.Fatal("recommend has no --strict flag")
	}
	if flag.DefValue != "true" {
		t.Errorf("--strict default = %s, want true", flag.DefValue)
	}
	if !strings.Contains(flag.Usage, "at least one shared genre") {
		t.Errorf("--strict usage = %q", flag.Usage)
	}
}

func TestRecommendCmd_JSONFallback(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t)
	stdout, err := runCmd(t, "recommend", "--catalog", path, "--genres", "Musical", "--seed", "3", "--json")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}

	var res recommend.Result
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if res.Outcome != recommend.OutcomeFallbackRandom || res.Reason != recommend.ReasonUnrecognizedGenres {
		t.Errorf("outcome = %s/%s", res.Outcome, res.Reason)
	}
	if len(res.UnknownGenres) != 1 || res.UnknownGenres[0] != "Musical" {
		t.Errorf("unknown genres = %v", res.UnknownGenres)
	}
}

func TestRecommendCmd_GenresAndThoughtExclusive(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t)
	if _, err := runCmd(t, "recommend", "--catalog", path, "--genres", "Horror", "--thought", "scary"); err == nil {
		t.Error("--genres with --thought should fail")
	}
}

func TestClassifyCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"labels":["Horror","Comedy"],"scores":[0.91,0.12]}`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("CLASSIFIER_LABELS", "Horror,Comedy")
	stdout, err := runCmd(t, "classify", "--text", "ghosts in the attic", "--url", srv.URL+"/models/test", "--threshold", "0.5")
	if err != nil {
		t.Fatalf("classify error = %v", err)
	}
	for _, want := range []string{"0.9100", "0.1200", "Predicted: Horror"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestClassifyCmd_NoEndpoint(t *testing.T) {
	t.Setenv("CLASSIFIER_URL", "")
	if _, err := runCmd(t, "classify", "--text", "anything"); err == nil {
		t.Error("classify without an endpoint should fail")
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	got := renderTable([]string{"A", "B"}, [][]string{{"x"}, {"y", "z"}}, []columnAlignment{alignRight})
	for _, want := range []string{"A", "B", "x", "y", "z"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("renderTable with no headers should be empty")
	}
	if joinGenres(nil) != "-" || joinGenres([]string{"A", "B"}) != "A|B" {
		t.Error("joinGenres mismatch")
	}
}
