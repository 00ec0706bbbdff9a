package sse

import (
	"io"
	"strings"
)

// Write encodes ev onto w. Multi-line data is split into one "data:" field
// per line so the reader joins it back verbatim.
func Write(w io.Writer, ev Event) error {
	var b strings.Builder
	if ev.ID != "" {
		b.WriteString("id: " + ev.ID + "\n")
	}
	if ev.Type != "" {
		b.WriteString("event: " + ev.Type + "\n")
	}
	for _, line := range strings.Split(ev.Data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
