package main

import (
	"path/filepath"
	"testing"

	"tichme/internal/testsupport"
)

func TestImportCommandRecordsFixtures(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"import", env.fixturesDir}, env.configPath)
	if err == nil {
		t.Fatal("expected import to report the player swap failure")
	}
	requireContains(t, err.Error(), "1 of 6 transcripts failed")
	requireContains(t, out, "Recorded 5 games (13 rounds), 0 already recorded, 1 failed")
	requireContains(t, out, "player_swap.tch")
	requireContains(t, out, "malformed_game")

	out, _, err = runCLI(t, []string{"import", env.fixture("one_round_no_tichu.tch")}, env.configPath)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	requireContains(t, out, "Recorded 0 games (0 rounds), 1 already recorded, 0 failed")
}

func TestImportCommandOverrides(t *testing.T) {
	env := setupCLITestEnv(t)

	args := []string{"import", env.fixture("one_round_no_tichu.tch"), "--url", "https://example.test/game/1", "--date", "2019-02-14 20:00"}
	if _, _, err := runCLI(t, args, env.configPath); err != nil {
		t.Fatalf("import with overrides: %v", err)
	}
	out, _, err := runCLI(t, []string{"games"}, env.configPath)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	requireContains(t, out, "https://example.test/game/1")
	requireContains(t, out, "2019-02-14 20:00")

	if _, _, err := runCLI(t, []string{"import", env.fixturesDir, "--url", "https://example.test/x"}, env.configPath); err == nil {
		t.Fatal("expected --url to be rejected for several transcripts")
	}
	if _, _, err := runCLI(t, []string{"import", env.fixture("incomplete.tch"), "--date", "soon"}, env.configPath); err == nil {
		t.Fatal("expected an invalid --date to be rejected")
	}
}

func TestImportCommandEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	empty := filepath.Join(env.baseDir, "empty")
	testsupport.WriteFile(t, filepath.Join(empty, "readme.md"), 16)

	out, _, err := runCLI(t, []string{"import", empty}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	requireContains(t, out, "No transcripts found")
}
