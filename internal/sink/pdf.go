package sink

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/render"
)

const (
	pdfFontSize   = 11
	pdfLineHeight = 5
	pdfFamily     = "Helvetica"
	pdfUTF8Family = "OpenSans"
)

// pdfSink drives gofpdf. With TTF paths in Options it embeds them as a UTF-8
// family; otherwise it falls back to core Helvetica with cp1252 translation.
type pdfSink struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
}

func NewPDF(o Options) DocumentSink {
	pdf := gofpdf.New("P", "mm", "A4", "")
	if o.Title != "" {
		pdf.SetTitle(o.Title, true)
	}
	pdf.SetMargins(15, 27, 15)
	pdf.SetCellMargin(0)
	pdf.SetAutoPageBreak(true, 25)

	s := &pdfSink{pdf: pdf, family: pdfFamily}
	if o.FontRegular != "" {
		pdf.AddUTF8Font(pdfUTF8Family, "", o.FontRegular)
		bold := o.FontBold
		if bold == "" {
			bold = o.FontRegular
		}
		pdf.AddUTF8Font(pdfUTF8Family, "B", bold)
		s.family = pdfUTF8Family
		s.tr = func(in string) string { return in }
	} else {
		s.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.AddPage()
	pdf.SetFont(s.family, "", pdfFontSize)
	return s
}

func (p *pdfSink) WriteText(content string, align render.Align, newline bool) error {
	txt := p.tr(content)
	switch align {
	case render.AlignRight:
		p.pdf.WriteAligned(0, pdfLineHeight, txt, "R")
	default:
		p.pdf.Write(pdfLineHeight, txt)
	}
	if newline {
		p.pdf.Ln(pdfLineHeight)
	}
	return p.pdf.Error()
}

func (p *pdfSink) WriteTwoColumn(left, right string) error {
	pageW, _ := p.pdf.GetPageSize()
	lm, _, rm, _ := p.pdf.GetMargins()
	colW := (pageW - lm - rm) / 2

	p.pdf.SetX(lm)
	top := p.pdf.GetY()
	p.pdf.MultiCell(colW, pdfLineHeight, p.tr(left), "", "L", false)
	leftEnd := p.pdf.GetY()

	p.pdf.SetXY(lm+colW, top)
	p.pdf.MultiCell(colW, pdfLineHeight, p.tr(right), "", "L", false)
	end := p.pdf.GetY()
	if leftEnd > end {
		end = leftEnd
	}
	p.pdf.SetXY(lm, end)
	return p.pdf.Error()
}

func (p *pdfSink) SetFont(w render.Weight) error {
	style := ""
	if w == render.Bold {
		style = "B"
	}
	p.pdf.SetFont(p.family, style, pdfFontSize)
	return p.pdf.Error()
}

// WriteComment is a no-op: a printed page has no out-of-band channel.
func (p *pdfSink) WriteComment(string) error { return p.pdf.Error() }

func (p *pdfSink) Finalize() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "pdf output")
	}
	return buf.Bytes(), nil
}
