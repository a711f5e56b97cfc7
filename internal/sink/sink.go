// Package sink holds the document backends that turn render instructions
// into a downloadable file.
package sink

import (
	"fmt"
	"sort"

	"github.com/mind-engage/mindengage-qformat/internal/render"
)

// DocumentSink receives write steps in order and produces the whole document
// on Finalize. Backends own all layout and font state.
type DocumentSink interface {
	WriteText(content string, align render.Align, newline bool) error
	WriteTwoColumn(left, right string) error
	SetFont(w render.Weight) error
	WriteComment(text string) error
	Finalize() ([]byte, error)
}

type Options struct {
	Title       string
	FontRegular string // TTF path; core Helvetica when empty
	FontBold    string
}

// Format describes one output type, e.g. "pdf".
type Format struct {
	Name        string
	Extension   string
	ContentType string
	New         func(Options) DocumentSink
}

// Filename is the attachment name for a batch: questions.<ext>.
func (f Format) Filename() string { return "questions." + f.Extension }

var registry = map[string]Format{}

// Register adds a format; later registrations replace earlier ones.
func Register(f Format) { registry[f.Name] = f }

func Lookup(name string) (Format, bool) { f, ok := registry[name]; return f, ok }

func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(Format{Name: "pdf", Extension: "pdf", ContentType: "application/pdf", New: NewPDF})
	Register(Format{Name: "html", Extension: "html", ContentType: "text/html; charset=utf-8", New: NewHTML})
	Register(Format{Name: "txt", Extension: "txt", ContentType: "text/plain; charset=utf-8", New: NewText})
}

// Write replays instructions into s, stopping at the first backend error.
func Write(s DocumentSink, ins []render.Instruction) error {
	for _, in := range ins {
		var err error
		switch in.Op {
		case render.OpText:
			err = s.WriteText(in.Text, in.Align, in.Newline)
		case render.OpTwoColumn:
			err = s.WriteTwoColumn(in.Left, in.Right)
		case render.OpFont:
			err = s.SetFont(in.Weight)
		case render.OpComment:
			err = s.WriteComment(in.Text)
		default:
			err = fmt.Errorf("sink: unknown op %d", in.Op)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
