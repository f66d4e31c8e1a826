// Package localise keeps per-language CSV translation tables in step with the keys
// referenced in a source tree.
//
// A run scans SourceDir for lines matching the configured patterns, then rewrites
// <lang>.csv in TargetDir for every configured language so that it holds exactly the
// scanned keys: existing translations are kept, new keys get the key itself as a
// placeholder value, and keys no longer referenced are dropped.
package localise

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/siondream/localise/internal/langtag"
)

type syncOptions struct {
	check bool
}

type SyncOption func(*syncOptions)

// WithCheck makes Sync compare instead of write. Locale files that would change are
// reported and Sync returns an error wrapping ErrOutdated.
func WithCheck() SyncOption {
	return func(o *syncOptions) {
		o.check = true
	}
}

// Extract compiles the configured patterns and scans SourceDir.
func Extract(fs afero.Fs, cfg Config, r Reporter) (KeySet, error) {
	if r == nil {
		r = NopReporter
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	patterns, err := CompilePatterns(cfg.Patterns)
	if err != nil {
		return nil, err
	}
	excludes, err := CompileExcludes(cfg.Exclude)
	if err != nil {
		return nil, err
	}
	scanner := NewScanner(fs, patterns,
		WithExtensions(cfg.extensions()...),
		WithExclude(excludes...),
		WithReporter(r),
	)
	return scanner.Scan(cfg.SourceDir)
}

// Sync scans the source tree once and reconciles every configured locale file against
// the result, one language at a time. The first failure aborts the run; locale files
// already written stay written.
func Sync(fs afero.Fs, cfg Config, r Reporter, opts ...SyncOption) error {
	var o syncOptions
	for _, opt := range opts {
		opt(&o)
	}
	if r == nil {
		r = NopReporter
	}
	keys, err := Extract(fs, cfg, r)
	if err != nil {
		return err
	}

	outdated := 0
	for _, lang := range cfg.Langs {
		if !langtag.Valid(lang) {
			r.Report(Event{Kind: EventLangUnrecognised, Lang: lang})
		}
		path := LocalePath(cfg.TargetDir, lang)
		r.Report(Event{Kind: EventLocaleProcessing, Lang: lang, Path: path})

		rec, err := ReadLocale(fs, path, r)
		if err != nil {
			return err
		}
		rec = Reconcile(keys, rec, r)

		if o.check {
			changed, err := localeChanged(fs, path, rec)
			if err != nil {
				return err
			}
			if changed {
				r.Report(Event{Kind: EventLocaleOutdated, Lang: lang, Path: path})
				outdated++
			}
			continue
		}
		if err := WriteLocale(fs, path, rec); err != nil {
			return err
		}
		r.Report(Event{Kind: EventLocaleWritten, Lang: lang, Path: path})
	}
	if outdated > 0 {
		return fmt.Errorf("%d of %d locale file(s): %w", outdated, len(cfg.Langs), ErrOutdated)
	}
	return nil
}
