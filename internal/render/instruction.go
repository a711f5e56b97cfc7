package render

type Op int

const (
	OpText Op = iota
	OpTwoColumn
	OpFont
	OpComment
)

type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

type Weight int

const (
	Regular Weight = iota
	Bold
)

// Instruction is one immutable write step for a document backend. Only the
// fields relevant to Op are set.
type Instruction struct {
	Op      Op
	Text    string
	Align   Align
	Newline bool
	Left    string
	Right   string
	Weight  Weight
}

func Text(s string, newline bool) Instruction {
	return Instruction{Op: OpText, Text: s, Newline: newline}
}

func TextAligned(s string, align Align, newline bool) Instruction {
	return Instruction{Op: OpText, Text: s, Align: align, Newline: newline}
}

func Font(w Weight) Instruction { return Instruction{Op: OpFont, Weight: w} }

func TwoColumn(left, right string) Instruction {
	return Instruction{Op: OpTwoColumn, Left: left, Right: right}
}

// Comment carries text that backends may show out of band (HTML comment,
// text marker) or drop.
func Comment(s string) Instruction { return Instruction{Op: OpComment, Text: s} }
