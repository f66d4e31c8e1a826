package localise

import (
	"fmt"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=$GOFILE -package mock -destination=test/mock/$GOFILE

// Reporter receives progress events. Reporting never changes what a run does.
type Reporter interface {
	Report(evt Event)
}

type EventKind int

const (
	EventDirEntered EventKind = iota
	EventFileScanned
	EventKeyFound
	EventLocaleProcessing
	EventLocaleFound
	EventLocaleMissing
	EventKeyDeleted
	EventKeyAdded
	EventLocaleWritten
	EventLocaleOutdated
	EventLangUnrecognised
)

var eventKindNames = map[EventKind]string{
	EventDirEntered:       "dir_entered",
	EventFileScanned:      "file_scanned",
	EventKeyFound:         "key_found",
	EventLocaleProcessing: "locale_processing",
	EventLocaleFound:      "locale_found",
	EventLocaleMissing:    "locale_missing",
	EventKeyDeleted:       "key_deleted",
	EventKeyAdded:         "key_added",
	EventLocaleWritten:    "locale_written",
	EventLocaleOutdated:   "locale_outdated",
	EventLangUnrecognised: "lang_unrecognised",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is a single progress notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind EventKind
	Path string
	Key  string
	Lang string
}

// String renders the event as an indented progress line.
func (e Event) String() string {
	switch e.Kind {
	case EventDirEntered:
		return "* Looking for strings in " + e.Path
	case EventFileScanned:
		return "    * Processing " + e.Path
	case EventKeyFound:
		return "        * Found key " + e.Key
	case EventLocaleProcessing:
		return "* Processing locale " + e.Lang
	case EventLocaleFound:
		return "    * Localisation file found: " + e.Path
	case EventLocaleMissing:
		return "    * Localisation file not found, creating " + e.Path
	case EventKeyDeleted:
		return "        * Deleting key " + e.Key
	case EventKeyAdded:
		return "        * Adding new key " + e.Key
	case EventLocaleWritten:
		return "    * Wrote " + e.Path
	case EventLocaleOutdated:
		return "    * Out of date: " + e.Path
	case EventLangUnrecognised:
		return "    * Language code is not a BCP 47 tag: " + e.Lang
	default:
		return e.Kind.String()
	}
}

type nopReporter struct{}

func (nopReporter) Report(Event) {}

// NopReporter discards every event.
var NopReporter Reporter = nopReporter{}

// LogReporter writes events to a zerolog logger. Per-key events log at debug level so
// the default info level narrates files and locales only.
type LogReporter struct {
	logger zerolog.Logger
}

func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(evt Event) {
	var e *zerolog.Event
	switch evt.Kind {
	case EventKeyFound, EventKeyDeleted, EventKeyAdded:
		e = r.logger.Debug()
	case EventLocaleOutdated, EventLangUnrecognised:
		e = r.logger.Warn()
	default:
		e = r.logger.Info()
	}
	e = e.Str("kind", evt.Kind.String())
	if evt.Path != "" {
		e = e.Str("path", evt.Path)
	}
	if evt.Key != "" {
		e = e.Str("key", evt.Key)
	}
	if evt.Lang != "" {
		e = e.Str("lang", evt.Lang)
	}
	e.Msg(evt.String())
}
