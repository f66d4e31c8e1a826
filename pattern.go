package localise

import (
	"fmt"
	"regexp"
)

// keyGroup is the capture group every pattern must expose.
const keyGroup = "key"

// Pattern is a compiled matcher that extracts one key per line.
type Pattern struct {
	re  *regexp.Regexp
	idx int
}

// CompilePattern compiles src and checks that it defines the "key" group.
func CompilePattern(src string) (*Pattern, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &Error{Kind: KindPattern, Err: fmt.Errorf("compile %q: %w", src, err)}
	}
	idx := re.SubexpIndex(keyGroup)
	if idx < 0 {
		return nil, &Error{Kind: KindPattern, Err: fmt.Errorf("pattern %q has no named group %q", src, keyGroup)}
	}
	return &Pattern{re: re, idx: idx}, nil
}

// CompilePatterns compiles every source in order. Order decides precedence when several
// patterns match the same line.
func CompilePatterns(srcs []string) ([]*Pattern, error) {
	out := make([]*Pattern, 0, len(srcs))
	for _, src := range srcs {
		p, err := CompilePattern(src)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (p *Pattern) String() string {
	return p.re.String()
}

// Match returns the key captured by the leftmost match on line. ok is false when the
// pattern does not match or the key group is empty.
func (p *Pattern) Match(line string) (key string, ok bool) {
	loc := p.re.FindStringSubmatchIndex(line)
	if loc == nil {
		return "", false
	}
	start, end := loc[2*p.idx], loc[2*p.idx+1]
	if start < 0 || start == end {
		return "", false
	}
	return line[start:end], true
}

// matchLine tries patterns in order and stops at the first that yields a key.
func matchLine(patterns []*Pattern, line string) (string, bool) {
	for _, p := range patterns {
		if key, ok := p.Match(line); ok {
			return key, true
		}
	}
	return "", false
}
