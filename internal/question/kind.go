package question

// Kind is the closed set of question variants the exporter knows about.
// Anything the bank sends that is not listed here parses to Unknown.
type Kind int

const (
	Unknown Kind = iota
	TrueFalse
	ShortAnswer
	Numerical
	Essay
	MultipleChoice
	Matching
	Calculated
	CalculatedMulti
	CalculatedSimple
	GapSelect
	Description
	MultiAnswer
	CategoryMarker

	numKinds
)

var kindNames = [numKinds]string{
	Unknown:          "unknown",
	TrueFalse:        "truefalse",
	ShortAnswer:      "shortanswer",
	Numerical:        "numerical",
	Essay:            "essay",
	MultipleChoice:   "multichoice",
	Matching:         "match",
	Calculated:       "calculated",
	CalculatedMulti:  "calculatedmulti",
	CalculatedSimple: "calculatedsimple",
	GapSelect:        "gapselect",
	Description:      "description",
	MultiAnswer:      "multianswer",
	CategoryMarker:   "category",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k := Kind(1); k < numKinds; k++ {
		m[kindNames[k]] = k
	}
	return m
}()

// ParseKind maps a bank type name to a Kind. Names are matched exactly.
func ParseKind(name string) Kind {
	if k, ok := kindByName[name]; ok {
		return k
	}
	return Unknown
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// Kinds returns every Kind including Unknown, in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) IsCalculated() bool {
	return k == Calculated || k == CalculatedMulti || k == CalculatedSimple
}
