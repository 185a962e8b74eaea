package ignore

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/thoreinstein/duplifolder/internal/errors"
	"github.com/thoreinstein/duplifolder/pkg/fileutil"
)

// Ignore file names, in the order they are read.
const (
	GitignoreFile = ".gitignore"
	IgnoreFile    = ".duplifolderignore"
)

// Mode selects how patterns are interpreted.
type Mode string

const (
	// ModeFlat matches wildcard patterns against top-level entry names.
	ModeFlat Mode = "flat"
	// ModeGitignore applies gitignore semantics recursively.
	ModeGitignore Mode = "gitignore"
)

// ParseMode converts a setting value to a Mode. Empty means ModeFlat.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFlat:
		return ModeFlat, nil
	case ModeGitignore:
		return ModeGitignore, nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidConfig, "unknown ignore mode %q (valid: flat, gitignore)", s)
	}
}

// Matcher holds the compiled rule set for one source folder.
type Matcher struct {
	source   string
	mode     Mode
	patterns []string
	flat     []*regexp.Regexp
	git      *gitignore.GitIgnore
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithMode sets the matching mode.
func WithMode(mode Mode) Option {
	return func(m *Matcher) {
		if mode != "" {
			m.mode = mode
		}
	}
}

// WithLogger sets the logger used for ignore files that cannot be read.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		if l != nil {
			m.logger = l
		}
	}
}

// Load reads the ignore files of source and compiles them.
// It returns a *errors.NotFoundError if source does not exist or is not a
// readable directory. Missing ignore files are not an error; an ignore file
// that cannot be read or exceeds fileutil.MaxFileSize is logged and treated
// as empty.
func Load(source string, opts ...Option) (*Matcher, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, &errors.NotFoundError{Path: source, Err: err}
	}
	if !info.IsDir() {
		return nil, &errors.NotFoundError{Path: source, Err: errors.New("not a directory")}
	}

	m := newMatcher(source, opts)
	var patterns []string
	for _, name := range []string{GitignoreFile, IgnoreFile} {
		lines, err := readPatterns(filepath.Join(source, name))
		if err != nil {
			m.logger.Warn("ignore file skipped", "path", filepath.Join(source, name), "error", err)
			continue
		}
		patterns = append(patterns, lines...)
	}
	m.compile(patterns)
	return m, nil
}

// Compile builds a Matcher for source from an explicit rule list.
func Compile(source string, patterns []string, opts ...Option) *Matcher {
	m := newMatcher(source, opts)
	m.compile(patterns)
	return m
}

func newMatcher(source string, opts []Option) *Matcher {
	m := &Matcher{
		source: source,
		mode:   ModeFlat,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) compile(patterns []string) {
	m.patterns = patterns
	switch m.mode {
	case ModeGitignore:
		m.git = gitignore.CompileIgnoreLines(patterns...)
	default:
		m.flat = make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			m.flat = append(m.flat, globToRegexp(p))
		}
	}
}

// Mode returns the matching mode in use.
func (m *Matcher) Mode() Mode { return m.mode }

// Patterns returns the rules in the order they were read.
func (m *Matcher) Patterns() []string {
	out := make([]string, len(m.patterns))
	copy(out, m.patterns)
	return out
}

// Included reports whether the top-level entry name should be copied. In
// gitignore mode name is matched as a file, so directory-only patterns such
// as "build/" never exclude it; use IncludedPath when the entry type is known.
func (m *Matcher) Included(name string) bool {
	if m.git != nil {
		return m.IncludedPath(name, false)
	}
	for _, re := range m.flat {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

// IncludedPath reports whether a path nested inside an included top-level
// entry should be copied. rel uses forward or OS separators and is relative
// to the source folder. Flat mode never filters nested paths.
func (m *Matcher) IncludedPath(rel string, isDir bool) bool {
	if m.git == nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		return !m.git.MatchesPath(rel) && !m.git.MatchesPath(rel+"/")
	}
	return !m.git.MatchesPath(rel)
}

// Filter lists the immediate entries of the source folder, in directory
// listing order, that are not excluded.
func (m *Matcher) Filter() ([]string, error) {
	included, _, err := m.Partition()
	return included, err
}

// Partition splits the immediate entries of the source folder into those
// to copy and those excluded, both in directory listing order.
func (m *Matcher) Partition() (included, excluded []string, err error) {
	entries, err := os.ReadDir(m.source)
	if err != nil {
		return nil, nil, &errors.NotFoundError{Path: m.source, Err: err}
	}

	included = make([]string, 0, len(entries))
	for _, e := range entries {
		if m.includedEntry(e.Name(), e.IsDir()) {
			included = append(included, e.Name())
		} else {
			excluded = append(excluded, e.Name())
		}
	}
	return included, excluded, nil
}

func (m *Matcher) includedEntry(name string, isDir bool) bool {
	if m.git != nil {
		return m.IncludedPath(name, isDir)
	}
	return m.Included(name)
}

// readPatterns returns the trimmed, non-blank, non-comment lines of path.
// A missing file yields no patterns.
func readPatterns(path string) ([]string, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading %s", filepath.Base(path))
	}

	var lines []string
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// globToRegexp escapes every regexp metacharacter of pattern and turns each
// "*" into ".*". A trailing "/" is dropped since names carry no separator.
func globToRegexp(pattern string) *regexp.Regexp {
	pattern = strings.TrimSuffix(pattern, "/")
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}
