package sink

import (
	"strings"
	"unicode/utf8"

	"github.com/mind-engage/mindengage-qformat/internal/render"
)

const (
	textWidth    = 100
	textColWidth = 48
)

// textSink is the plain reference backend: fonts are ignored, right-aligned
// runs are padded to the page width and columns are zipped line by line.
type textSink struct {
	b   strings.Builder
	col int
}

func NewText(Options) DocumentSink { return &textSink{} }

func (t *textSink) write(s string) {
	t.b.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		t.col = utf8.RuneCountInString(s[i+1:])
	} else {
		t.col += utf8.RuneCountInString(s)
	}
}

func (t *textSink) WriteText(content string, align render.Align, newline bool) error {
	if align == render.AlignRight {
		if pad := textWidth - t.col - utf8.RuneCountInString(content); pad > 0 {
			t.write(strings.Repeat(" ", pad))
		} else if t.col > 0 {
			t.write(" ")
		}
	}
	t.write(content)
	if newline {
		t.write("\n")
	}
	return nil
}

func (t *textSink) WriteTwoColumn(left, right string) error {
	ls := splitLines(left)
	rs := splitLines(right)
	n := len(ls)
	if len(rs) > n {
		n = len(rs)
	}
	for i := 0; i < n; i++ {
		var l, r string
		if i < len(ls) {
			l = ls[i]
		}
		if i < len(rs) {
			r = rs[i]
		}
		line := l
		if r != "" {
			if pad := textColWidth - utf8.RuneCountInString(l); pad > 0 {
				line += strings.Repeat(" ", pad)
			} else {
				line += " "
			}
			line += r
		}
		t.write(strings.TrimRight(line, " ") + "\n")
	}
	return nil
}

func (t *textSink) SetFont(render.Weight) error { return nil }

func (t *textSink) WriteComment(text string) error {
	if t.col > 0 {
		t.write("\n")
	}
	t.write("[" + text + "]\n")
	return nil
}

func (t *textSink) Finalize() ([]byte, error) { return []byte(t.b.String()), nil }

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
