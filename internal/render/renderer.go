// Package render turns bank questions into ordered write instructions for a
// printable document. A Batch covers one export request: it numbers the
// questions it lays out and collects the ones it cannot.
package render

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/question"
)

const (
	tab         = "    "
	questionGap = "\n\n"
	blankWidth  = 100
	gapMarker   = " ___ "
)

var gapSelectRe = regexp.MustCompile(`\[+\d+\]+`)

// UnsupportedMode controls what an unsupported question leaves in the output.
type UnsupportedMode int

const (
	UnsupportedSilent UnsupportedMode = iota
	UnsupportedComment
)

func ParseUnsupportedMode(s string) (UnsupportedMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "silent":
		return UnsupportedSilent, nil
	case "comment":
		return UnsupportedComment, nil
	}
	return UnsupportedSilent, fmt.Errorf("unknown unsupported mode %q", s)
}

type Status int

const (
	StatusRendered Status = iota
	StatusSkipped
	StatusUnsupported
)

type Result struct {
	Instructions []Instruction
	Index        int // 0 when the question carries no number
	Status       Status
	Placeholders Matches
}

type Option func(*Batch)

// WithRand fixes the source of dataset draws.
func WithRand(r *rand.Rand) Option { return func(b *Batch) { b.rng = r } }

func WithUnsupportedMode(m UnsupportedMode) Option { return func(b *Batch) { b.mode = m } }

// Batch is not safe for concurrent use; create one per export.
type Batch struct {
	loc         i18n.Localizer
	rng         *rand.Rand
	mode        UnsupportedMode
	next        int
	unsupported Tracker
}

func NewBatch(loc i18n.Localizer, opts ...Option) *Batch {
	b := &Batch{loc: loc, next: 1}
	for _, o := range opts {
		o(b)
	}
	if b.rng == nil {
		b.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return b
}

func (b *Batch) Unsupported() *Tracker { return &b.unsupported }

// Numbered returns how many questions received an index so far.
func (b *Batch) Numbered() int { return b.next - 1 }

// Preamble is the "Name: ... Date:" line printed once at the top.
func (b *Batch) Preamble() ([]Instruction, error) {
	name, err := b.loc.Lookup("student_name", i18n.ComponentFormat)
	if err != nil {
		return nil, errors.Wrap(err, "preamble")
	}
	date, err := b.loc.Lookup("date", i18n.ComponentFormat)
	if err != nil {
		return nil, errors.Wrap(err, "preamble")
	}
	return []Instruction{
		TextAligned(name, AlignLeft, false),
		TextAligned(date, AlignRight, true),
		Text(questionGap, true),
		Text(questionGap, true),
	}, nil
}

// Notice lists skipped questions inside the document itself.
func (b *Batch) Notice(names []string) ([]Instruction, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lead, err := b.loc.Lookup("not_supported", i18n.ComponentFormat)
	if err != nil {
		return nil, errors.Wrap(err, "notice")
	}
	var lines strings.Builder
	for _, n := range names {
		lines.WriteString("- " + n + "\n")
	}
	return []Instruction{
		Font(Bold),
		Text(lead, true),
		Font(Regular),
		Text(lines.String(), true),
	}, nil
}

// Render lays out one question. Only localizer failures are returned as
// errors; everything wrong with the question itself is absorbed.
func (b *Batch) Render(q question.Question) (Result, error) {
	kind := q.Kind()
	switch kind {
	case question.CategoryMarker, question.MultiAnswer:
		return Result{Status: StatusSkipped}, nil
	case question.Unknown:
		b.unsupported.Record(q.Name)
		res := Result{Status: StatusUnsupported}
		if b.mode == UnsupportedComment {
			res.Instructions = []Instruction{
				Comment(fmt.Sprintf("unsupported question type %q: %s", q.QType, StripTags(q.Name))),
			}
		}
		return res, nil
	case question.Description:
		return Result{
			Status:       StatusRendered,
			Instructions: []Instruction{Text(tab+StripTags(q.QuestionText)+"\n"+questionGap, true)},
		}, nil
	}

	header, matches := b.header(kind, q)
	body, err := b.body(kind, q, matches)
	if err != nil {
		return Result{}, errors.Wrapf(err, "render question %s", q.ID)
	}

	idx := b.next
	b.next++

	ins := make([]Instruction, 0, 5+len(body))
	ins = append(ins,
		Font(Bold),
		Text(strconv.Itoa(idx)+". ", false),
		Font(Regular),
		Text(header, true),
		Text("", true),
	)
	ins = append(ins, body...)
	return Result{Instructions: ins, Index: idx, Status: StatusRendered, Placeholders: matches}, nil
}

func (b *Batch) header(kind question.Kind, q question.Question) (string, Matches) {
	switch {
	case kind.IsCalculated():
		text := StripTags(q.QuestionText)
		m := findPlaceholders(text)
		m.resolve(q.Datasets, b.rng.IntN)
		return CollapseNBSP(m.Apply(text)), m
	case kind == question.GapSelect:
		text := gapSelectRe.ReplaceAllString(q.QuestionText, gapMarker)
		return CollapseNBSP(StripTags(text) + "\n"), nil
	default:
		return StripTags(q.QuestionText), nil
	}
}

func (b *Batch) body(kind question.Kind, q question.Question, m Matches) ([]Instruction, error) {
	var out strings.Builder
	switch kind {
	case question.TrueFalse:
		t, err := b.loc.Lookup("true", i18n.ComponentTrueFalse)
		if err != nil {
			return nil, err
		}
		f, err := b.loc.Lookup("false", i18n.ComponentTrueFalse)
		if err != nil {
			return nil, err
		}
		out.WriteString(tab + t + tab + tab + f)

	case question.MultipleChoice, question.GapSelect:
		for i, a := range q.Answers {
			out.WriteString(tab + strconv.Itoa(i+1) + ". " + StripTags(a.Text) + "\n")
		}

	case question.ShortAnswer, question.Numerical, question.Calculated, question.CalculatedSimple:
		out.WriteString(tab + strings.Repeat("_", blankWidth))

	case question.Matching:
		left, right := matchingColumns(q.SubQuestions)
		return []Instruction{TwoColumn(left, right), Text(questionGap, true)}, nil

	case question.CalculatedMulti:
		for i, a := range q.Answers {
			s := CollapseNBSP(m.Apply(StripTags(a.Text)))
			out.WriteString(tab + Letter(i) + ". " + s + "\n")
		}

	case question.Essay:
		out.WriteString(strings.Repeat("\n", max(q.ResponseLineCount, 0)))

	default:
		panic(fmt.Sprintf("render: no layout for question kind %v", kind))
	}
	out.WriteString(questionGap)
	return []Instruction{Text(out.String(), true)}, nil
}

// matchingColumns numbers prompts and letters answers independently; empty
// entries on either side take no number or letter.
func matchingColumns(subs []question.SubQuestion) (string, string) {
	var left, right strings.Builder
	n, l := 1, 0
	for _, s := range subs {
		if s.PromptText != "" {
			left.WriteString(tab + strconv.Itoa(n) + ". " + StripTags(s.PromptText) + " ___\n")
			n++
		}
		if s.AnswerText != "" {
			right.WriteString(Letter(l) + ") " + StripTags(s.AnswerText) + "\n")
			l++
		}
	}
	return left.String(), right.String()
}
