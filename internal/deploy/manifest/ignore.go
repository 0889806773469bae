package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFile is read from the project root when present.
const IgnoreFile = ".deployignore"

// defaultIgnores are never uploaded.
var defaultIgnores = []string{
	".git",
	".hg",
	".svn",
	".DS_Store",
	"node_modules",
	".env*",
	IgnoreFile,
	"deploy.yaml",
}

// Matcher decides whether a relative, slash-separated path is ignored.
type Matcher struct {
	patterns []pattern
}

type pattern struct {
	glob    string
	dirOnly bool
	// anchored patterns contain a slash and match against the full path;
	// others match any single path element.
	anchored bool
	negate   bool
}

// NewMatcher compiles gitignore-style patterns. Blank lines and lines
// starting with "#" are skipped. A leading "!" re-includes a path.
func NewMatcher(lines []string) (*Matcher, error) {
	m := &Matcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := pattern{}
		if rest, ok := strings.CutPrefix(line, "!"); ok {
			p.negate = true
			line = rest
		}
		if rest, ok := strings.CutSuffix(line, "/"); ok {
			p.dirOnly = true
			line = rest
		}
		if rest, ok := strings.CutPrefix(line, "/"); ok {
			p.anchored = true
			line = rest
		}
		if strings.Contains(line, "/") {
			p.anchored = true
		}
		if _, err := path.Match(line, ""); err != nil {
			return nil, fmt.Errorf("manifest: invalid ignore pattern %q: %w", line, err)
		}
		p.glob = line
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

// Match reports whether rel (slash-separated, relative to the root) is
// ignored. The last matching pattern wins.
func (m *Matcher) Match(rel string, isDir bool) bool {
	ignored := false
	for _, p := range m.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if p.matches(rel) {
			ignored = !p.negate
		}
	}
	return ignored
}

func (p pattern) matches(rel string) bool {
	if p.anchored {
		ok, _ := path.Match(p.glob, rel)
		return ok
	}
	ok, _ := path.Match(p.glob, path.Base(rel))
	return ok
}

// LoadMatcher builds a Matcher from the default ignores plus the ignore
// file in root, if any.
func LoadMatcher(root string) (*Matcher, error) {
	lines := append([]string(nil), defaultIgnores...)

	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewMatcher(lines)
		}
		return nil, fmt.Errorf("manifest: failed to read %s: %w", IgnoreFile, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("manifest: failed to read %s: %w", IgnoreFile, err)
	}
	return NewMatcher(lines)
}
