package localise

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutdated is returned by Sync in check mode when at least one locale file would change.
var ErrOutdated = errors.New("locale files are out of date")

// Kind classifies a failure. Every kind aborts the run.
type Kind int

const (
	KindConfig Kind = iota + 1
	KindPattern
	KindScan
	KindLocaleRow
	KindWrite
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindPattern:
		return "pattern"
	case KindScan:
		return "scan"
	case KindLocaleRow:
		return "locale row"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every operation in this package. Path and Line are
// set when the failure can be traced to a file position.
type Error struct {
	Kind Kind
	Path string
	Line int
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(" error")
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

func errMissingOptions(names []string) error {
	return fmt.Errorf("missing required option(s): %s", strings.Join(names, ", "))
}
