package localise

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Scanner walks a source tree and collects the keys matched by its patterns.
type Scanner struct {
	fs         afero.Fs
	patterns   []*Pattern
	extensions []string
	exclude    []glob.Glob
	reporter   Reporter
}

type ScanOption func(*Scanner)

// WithExtensions restricts scanning to files whose names end in one of exts.
func WithExtensions(exts ...string) ScanOption {
	return func(s *Scanner) {
		if len(exts) > 0 {
			s.extensions = exts
		}
	}
}

// WithExclude skips files and directories whose path relative to the scan root matches
// any of globs.
func WithExclude(globs ...glob.Glob) ScanOption {
	return func(s *Scanner) {
		s.exclude = append(s.exclude, globs...)
	}
}

func WithReporter(r Reporter) ScanOption {
	return func(s *Scanner) {
		if r != nil {
			s.reporter = r
		}
	}
}

func NewScanner(fs afero.Fs, patterns []*Pattern, opts ...ScanOption) *Scanner {
	s := &Scanner{
		fs:         fs,
		patterns:   patterns,
		extensions: DefaultExtensions,
		reporter:   NopReporter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompileExcludes compiles slash-separated glob patterns; "*" stops at "/" while "**"
// crosses directories.
func CompileExcludes(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, &Error{Kind: KindConfig, Err: fmt.Errorf("exclude %q: %w", p, err)}
		}
		out = append(out, g)
	}
	return out, nil
}

// Scan walks root recursively and returns every key found. Any unreadable file or
// directory, and any file that is not valid UTF-8, fails the whole scan.
func (s *Scanner) Scan(root string) (KeySet, error) {
	keys := KeySet{}
	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &Error{Kind: KindScan, Path: path, Err: err}
		}
		if path != root && s.excluded(root, path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			s.reporter.Report(Event{Kind: EventDirEntered, Path: path})
			return nil
		}
		if !s.wanted(info.Name()) {
			return nil
		}
		s.reporter.Report(Event{Kind: EventFileScanned, Path: path})
		return s.scanFile(path, keys)
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Scanner) wanted(name string) bool {
	for _, ext := range s.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(root, path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range s.exclude {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (s *Scanner) scanFile(path string, keys KeySet) error {
	f, err := s.fs.Open(path)
	if err != nil {
		return &Error{Kind: KindScan, Path: path, Err: err}
	}
	defer f.Close()

	r := bufio.NewReader(transform.NewReader(f, encoding.UTF8Validator))
	for lineNo := 1; ; lineNo++ {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return &Error{Kind: KindScan, Path: path, Line: lineNo, Err: err}
		}
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if key, ok := matchLine(s.patterns, line); ok {
				s.reporter.Report(Event{Kind: EventKeyFound, Path: path, Key: key})
				keys.Add(key)
			}
		}
		if err != nil {
			return nil
		}
	}
}
