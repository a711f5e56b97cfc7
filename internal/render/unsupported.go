package render

import (
	"fmt"
	"strings"
)

// Tracker accumulates names of questions the renderer could not lay out.
// Duplicates are kept.
type Tracker struct {
	names []string
}

func (t *Tracker) Record(name string) { t.names = append(t.names, StripTags(name)) }

func (t *Tracker) HasAny() bool { return len(t.names) > 0 }

// Drain returns the recorded names and empties the tracker.
func (t *Tracker) Drain() []string {
	out := t.names
	t.names = nil
	return out
}

// UnsupportedError reports every skipped question of a batch at once.
type UnsupportedError struct {
	Names []string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%d question(s) not supported: %s", len(e.Names), strings.Join(e.Names, ", "))
}

// Diagnostic renders the lead sentence followed by one "- name" line per entry.
func Diagnostic(lead string, names []string) string {
	var b strings.Builder
	b.WriteString(lead)
	for _, n := range names {
		b.WriteString("\n- ")
		b.WriteString(n)
	}
	return b.String()
}
