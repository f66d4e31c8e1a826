// Package config loads a localisation run from an INI file.
//
// The file needs a [localisation] section:
//
//	[localisation]
//	patterns = getString\("(?P<key>[\w.]+)"\)
//	patterns = <string name="(?P<key>[\w.]+)"
//	langs = en
//	langs = es
//	sourceDir = src
//	targetDir = data/lang
//
// Repeating an option appends to it instead of replacing it. Option names are case
// insensitive. sourceDir and targetDir use their first value only.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/ini.v1"

	"github.com/siondream/localise"
)

const sectionName = "localisation"

const (
	optPatterns   = "patterns"
	optLangs      = "langs"
	optSourceDir  = "sourcedir"
	optTargetDir  = "targetdir"
	optExtensions = "extensions"
	optExclude    = "exclude"
)

var loadOptions = ini.LoadOptions{
	AllowShadows:            true,
	InsensitiveKeys:         true,
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// option is one "name = value" line in file order.
type option struct {
	name  string
	value string
}

// Load reads and parses the config file at path.
func Load(fs afero.Fs, path string) (localise.Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return localise.Config{}, &localise.Error{Kind: localise.KindConfig, Path: path, Err: err}
	}
	cfg, err := Parse(data)
	if err != nil {
		if le, ok := err.(*localise.Error); ok && le.Path == "" {
			le.Path = path
		}
		return localise.Config{}, err
	}
	return cfg, nil
}

// Parse decodes INI content into a validated Config.
func Parse(data []byte) (localise.Config, error) {
	if err := checkQuotedValues(data); err != nil {
		return localise.Config{}, err
	}
	file, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return localise.Config{}, &localise.Error{Kind: localise.KindConfig, Err: err}
	}
	sec, err := file.GetSection(sectionName)
	if err != nil {
		return localise.Config{}, &localise.Error{
			Kind: localise.KindConfig,
			Err:  fmt.Errorf("missing section [%s]", sectionName),
		}
	}
	opts := mergeOptions(sectionOptions(sec))

	cfg := localise.Config{
		Patterns:   opts[optPatterns],
		Langs:      splitList(opts[optLangs]),
		SourceDir:  first(opts[optSourceDir]),
		TargetDir:  first(opts[optTargetDir]),
		Extensions: splitList(opts[optExtensions]),
		Exclude:    splitList(opts[optExclude]),
	}
	if err := cfg.Validate(); err != nil {
		return localise.Config{}, err
	}
	return cfg, nil
}

// checkQuotedValues rejects values in the localisation section that start with a
// backtick or three double quotes. ini.v1 reads those as quoted strings and strips
// the quotes, so a pattern written that way would silently change.
func checkQuotedValues(data []byte) error {
	inSection := false
	lines := strings.Split(strings.TrimPrefix(string(data), "\uFEFF"), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "", line[0] == ';', line[0] == '#':
			continue
		case line[0] == '[':
			end := strings.IndexByte(line, ']')
			inSection = end > 0 && strings.TrimSpace(line[1:end]) == sectionName
			continue
		case !inSection:
			continue
		}
		idx := strings.IndexAny(line, "=:")
		if idx < 0 {
			continue
		}
		value := strings.TrimSpace(line[idx+1:])
		for _, quote := range []string{"`", `"""`} {
			if strings.HasPrefix(value, quote) {
				name := strings.TrimSpace(line[:idx])
				return &localise.Error{
					Kind: localise.KindConfig,
					Line: i + 1,
					Err:  fmt.Errorf("option %q starts with %s, which would be read as a quoted string", name, quote),
				}
			}
		}
	}
	return nil
}

// sectionOptions flattens a section into its lines, repeated names included.
func sectionOptions(sec *ini.Section) []option {
	var out []option
	for _, key := range sec.Keys() {
		for _, value := range key.ValueWithShadows() {
			out = append(out, option{name: strings.ToLower(key.Name()), value: value})
		}
	}
	return out
}

// mergeOptions groups values by option name, keeping file order within each name.
func mergeOptions(opts []option) map[string][]string {
	merged := make(map[string][]string)
	for _, opt := range opts {
		value := strings.TrimSpace(opt.value)
		if value == "" {
			continue
		}
		merged[opt.name] = append(merged[opt.name], value)
	}
	return merged
}

// splitList expands values that hold several comma or space separated items.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})...)
	}
	return out
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
