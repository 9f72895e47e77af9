package importer

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DateLayout is the timestamp format used by transcript titles and the
// --date flag.
const DateLayout = "2006-01-02 15:04"

// Source is one transcript waiting to be recorded.
type Source struct {
	Name string
	Text string
	URL  string
	Date *time.Time
}

// Label names the source for logs and failure reports.
func (s Source) Label() string {
	if s.URL != "" {
		return s.URL
	}
	return s.Name
}

// LoadSources reads every transcript named by paths. Directories are walked
// recursively and only files whose extension is listed are taken; files
// named explicitly are always read. Sources come back sorted by path.
func LoadSources(paths []string, extensions []string) ([]Source, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return nil
			}
			if slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	slices.Sort(files)
	files = slices.Compact(files)

	sources := make([]Source, 0, len(files))
	for _, file := range files {
		src, err := ReadSource(file)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// ReadSource loads a single transcript file.
func ReadSource(path string) (Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	text, err := decodeText(data)
	if err != nil {
		return Source{}, fmt.Errorf("decode %s: %w", path, err)
	}
	src := Source{
		Name: filepath.Base(abs),
		Text: text,
		URL:  "file://" + filepath.ToSlash(abs),
	}
	if date, ok := TitleDate(text); ok {
		src.Date = &date
	}
	return src, nil
}

// decodeText returns data as UTF-8. Archive exports that are not valid
// UTF-8 are Latin-1.
func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// TitleDate reads the session timestamp from the end of a transcript's
// first line.
func TitleDate(text string) (time.Time, bool) {
	scanner := bufio.NewScanner(strings.NewReader(text))
	if !scanner.Scan() {
		return time.Time{}, false
	}
	title := strings.TrimSpace(scanner.Text())
	if len(title) < len(DateLayout) {
		return time.Time{}, false
	}
	parsed, err := time.Parse(DateLayout, title[len(title)-len(DateLayout):])
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ParseDate parses a --date flag value.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New("date must look like " + DateLayout)
	}
	return parsed, nil
}
