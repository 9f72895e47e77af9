package importer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"tichme/internal/importer"
	"tichme/internal/testsupport"
	"tichme/internal/tichu"
)

var fixtures = []string{
	"incomplete.tch",
	"one_round_grand_tichu.tch",
	"one_round_no_tichu.tch",
	"one_round_tichu_after.tch",
	"one_round_tichu_before.tch",
	"player_swap.tch",
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	for _, name := range fixtures {
		testsupport.WriteTranscript(t, dir, name)
	}
}

func TestLoadSourcesFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	writeFixtures(t, filepath.Join(dir, "nested"))
	testsupport.WriteFile(t, filepath.Join(dir, "notes.md"), 64)

	sources, err := importer.LoadSources([]string{dir}, []string{".tch"})
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	if len(sources) != len(fixtures) {
		t.Fatalf("expected %d sources, got %d", len(fixtures), len(sources))
	}
	for i, src := range sources {
		if src.Name != fixtures[i] {
			t.Fatalf("source %d: got %s want %s", i, src.Name, fixtures[i])
		}
		if !strings.HasPrefix(src.URL, "file://") || !strings.HasSuffix(src.URL, "/"+src.Name) {
			t.Fatalf("unexpected url %q", src.URL)
		}
		if src.Date == nil {
			t.Fatalf("expected title date on %s", src.Name)
		}
	}

	explicit := filepath.Join(dir, "notes.md")
	sources, err = importer.LoadSources([]string{explicit, explicit}, []string{".tch"})
	if err != nil {
		t.Fatalf("LoadSources explicit: %v", err)
	}
	if len(sources) != 1 || sources[0].Name != "notes.md" {
		t.Fatalf("expected explicit file to be read once, got %+v", sources)
	}
}

func TestLoadSourcesMissingPath(t *testing.T) {
	if _, err := importer.LoadSources([]string{filepath.Join(t.TempDir(), "missing")}, nil); err == nil {
		t.Fatal("expected error for missing path")
	}
}

func TestReadSourceDecodesLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.tch")
	if err := os.WriteFile(path, []byte("Tichu-Protokoll\n(0)J\xfcrgen\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := importer.ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if !strings.Contains(src.Text, "Jürgen") {
		t.Fatalf("expected decoded name, got %q", src.Text)
	}
	if src.Date != nil {
		t.Fatalf("expected no title date, got %v", src.Date)
	}
}

func TestTitleDate(t *testing.T) {
	got, ok := importer.TitleDate("Tichu-Protokoll 2018-07-03 21:15\n(0)a\n")
	if !ok {
		t.Fatal("expected title date")
	}
	if want := time.Date(2018, time.July, 3, 21, 15, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if _, ok := importer.TitleDate("Tichu-Protokoll\n"); ok {
		t.Fatal("expected no date in bare title")
	}
	if _, err := importer.ParseDate("yesterday"); err == nil {
		t.Fatal("expected ParseDate error")
	}
}

func TestImportRecordsAndSkips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dir := t.TempDir()
	writeFixtures(t, dir)

	sources, err := importer.LoadSources([]string{dir}, cfg.Import.Extensions)
	if err != nil {
		t.Fatalf("LoadSources: %v", err)
	}
	imp, err := importer.New(cfg, st, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	summary, err := imp.Import(ctx, sources)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Recorded != 5 || summary.Duplicates != 0 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Rounds != 13 {
		t.Fatalf("expected 13 rounds recorded, got %d", summary.Rounds)
	}
	if summary.SessionID == "" {
		t.Fatal("expected session id")
	}
	failure := summary.Failures[0]
	if !strings.HasSuffix(failure.Source, "player_swap.tch") || !errors.Is(failure.Err, tichu.ErrMalformedGame) {
		t.Fatalf("unexpected failure: %+v", failure)
	}

	months, err := st.GameMonths(ctx)
	if err != nil || len(months) != 2 {
		t.Fatalf("unexpected game months: %v %v", months, err)
	}

	again, err := imp.Import(ctx, sources)
	if err != nil {
		t.Fatalf("second Import: %v", err)
	}
	if again.Recorded != 0 || again.Duplicates != 5 || again.Failed != 1 {
		t.Fatalf("unexpected second summary: %+v", again)
	}
	if again.SessionID == summary.SessionID {
		t.Fatal("expected a fresh session id per import")
	}
	if games := testsupport.MustCounts(t, st)["games"]; games != 5 {
		t.Fatalf("expected 5 games, got %d", games)
	}
}

func TestImportWaitsForLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp, err := importer.New(cfg, st, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	holder := flock.New(cfg.LockPath())
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("hold lock: %v %v", ok, err)
	}
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := imp.Import(ctx, nil); err == nil {
		t.Fatal("expected lock acquisition to fail while held")
	}

	if err := holder.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := imp.Import(context.Background(), nil); err != nil {
		t.Fatalf("Import after unlock: %v", err)
	}
}

func TestImportStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp, err := importer.New(cfg, st, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	src, err := importer.ReadSource(testsupport.WriteTranscript(t, t.TempDir(), "one_round_no_tichu.tch"))
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := imp.Import(ctx, []importer.Source{src})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if summary.Recorded != 0 {
		t.Fatalf("expected nothing recorded, got %+v", summary)
	}
}

func TestImportParsesConcurrentlyRecordsInOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	imp, err := importer.New(cfg, st, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := testsupport.Transcript(t, "one_round_no_tichu.tch")
	sources := make([]importer.Source, 0, 16)
	for i := range 16 {
		sources = append(sources, importer.Source{
			Name: "copy.tch",
			Text: text,
			URL:  "https://example.test/game/" + strconv.Itoa(i),
		})
	}
	sources = append(sources, sources[0])

	summary, err := imp.Import(context.Background(), sources)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if summary.Recorded != 16 || summary.Duplicates != 1 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	games, err := st.Games(context.Background(), 0)
	if err != nil {
		t.Fatalf("Games: %v", err)
	}
	// Games lists newest first, so ids descend while urls count down.
	for i, game := range games {
		if want := "https://example.test/game/" + strconv.Itoa(15-i); game.URL != want {
			t.Fatalf("game %d: got url %q want %q", game.ID, game.URL, want)
		}
	}
}
