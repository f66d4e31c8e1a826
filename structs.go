package localise

import (
	"sort"
	"strings"
)

// DefaultExtensions are the source file suffixes scanned when a Config does not list its own.
var DefaultExtensions = []string{".java", ".xml", ".tmx"}

// KeySet holds the unique keys discovered in source. Every key maps to itself, which is
// also the placeholder value a new key receives in a locale file.
type KeySet map[string]string

func (ks KeySet) Add(key string) {
	ks[key] = key
}

func (ks KeySet) Has(key string) bool {
	_, ok := ks[key]
	return ok
}

// Sorted returns the keys in ascending lexicographic order.
func (ks KeySet) Sorted() []string {
	return sortedKeys(ks)
}

// Record maps a key to its translated value for one language.
type Record map[string]string

// Sorted returns the keys in ascending lexicographic order.
func (r Record) Sorted() []string {
	return sortedKeys(r)
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Config describes one localisation run.
type Config struct {
	// Patterns are regular expressions exposing a named group "key", tried in order.
	Patterns []string
	// Langs produce one <lang>.csv each in TargetDir.
	Langs     []string
	SourceDir string
	TargetDir string
	// Extensions overrides DefaultExtensions when non-empty.
	Extensions []string
	// Exclude holds glob patterns matched against slash-separated paths relative to SourceDir.
	Exclude []string
}

// Validate reports every missing required setting in one error.
func (c Config) Validate() error {
	var missing []string
	if len(c.Patterns) == 0 {
		missing = append(missing, "patterns")
	}
	if len(c.Langs) == 0 {
		missing = append(missing, "langs")
	}
	if strings.TrimSpace(c.SourceDir) == "" {
		missing = append(missing, "sourceDir")
	}
	if strings.TrimSpace(c.TargetDir) == "" {
		missing = append(missing, "targetDir")
	}
	if len(missing) > 0 {
		return &Error{Kind: KindConfig, Err: errMissingOptions(missing)}
	}
	return nil
}

func (c Config) extensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultExtensions
	}
	return c.Extensions
}
