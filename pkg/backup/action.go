package backup

import (
	"fmt"
	"time"
)

// TimestampFormat is the layout of the timestamps written to the journal.
const TimestampFormat = "2006-01-02 15:04:05"

// ActionKind is the type of change made to a backup file.
type ActionKind int

const (
	// Created means the file didn't exist in the backup and was copied.
	Created ActionKind = iota

	// Updated means the backup copy had different contents and was
	// overwritten.
	Updated

	// Removed means the file no longer exists in the source and was deleted
	// from the backup.
	Removed
)

// Verb returns the text used for the action in the journal.
func (kind ActionKind) Verb() string {
	switch kind {
	case Created:
		return "File created"
	case Updated:
		return "File copied"
	case Removed:
		return "File removed"
	default:
		return fmt.Sprintf("ActionKind(%d)", int(kind))
	}
}

// Action is a single change made to the backup directory.
type Action struct {
	Kind ActionKind
	Name string
	Time time.Time
}

// String returns the journal line for the action, without a trailing
// newline.
func (a Action) String() string {
	return fmt.Sprintf("%s %s: %s", FormatTimestamp(a.Time), a.Kind.Verb(), a.Name)
}

// FormatTimestamp renders `t` in local time the way the journal prefixes
// each line.
func FormatTimestamp(t time.Time) string {
	return "<" + t.Local().Format(TimestampFormat) + ">"
}
