package chatcmder

import (
	"io"
	"strings"
)

// streamPrinter echoes streamed answer chunks as they arrive. Answers that
// start out as JSON service details are held back so the terminal only shows
// the rendered card once the reply is complete.
type streamPrinter struct {
	out     io.Writer
	pending strings.Builder
	decided bool
	hold    bool
	printed bool
}

func newStreamPrinter(out io.Writer) *streamPrinter {
	return &streamPrinter{out: out}
}

func (p *streamPrinter) Write(chunk string) {
	if p.decided {
		if !p.hold {
			p.emit(chunk)
		}
		return
	}

	p.pending.WriteString(chunk)
	head := strings.TrimSpace(p.pending.String())
	if head == "" {
		return
	}

	p.decided = true
	p.hold = strings.HasPrefix(head, "{") || strings.HasPrefix(head, "`")
	if !p.hold {
		p.emit(p.pending.String())
	}
	p.pending.Reset()
}

// Printed reports whether any chunk reached the terminal.
func (p *streamPrinter) Printed() bool {
	return p.printed
}

func (p *streamPrinter) emit(s string) {
	if s == "" {
		return
	}
	_, _ = io.WriteString(p.out, s)
	p.printed = true
}
