package testsupport

import (
	"embed"
	"os"
	"path/filepath"
	"testing"
)

//go:embed testdata/*.tch
var transcripts embed.FS

// Transcript returns the named fixture from testdata.
func Transcript(t testing.TB, name string) string {
	t.Helper()

	data, err := transcripts.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("read transcript fixture %s: %v", name, err)
	}
	return string(data)
}

// WriteTranscript copies the named fixture into dir and returns its path.
func WriteTranscript(t testing.TB, dir, name string) string {
	t.Helper()

	target := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(target, []byte(Transcript(t, name)), 0o644); err != nil {
		t.Fatalf("write transcript %s: %v", target, err)
	}
	return target
}
