package question

import "strings"

type Answer struct {
	Text string `json:"text"`
}

type SubQuestion struct {
	PromptText string `json:"prompt_text"`
	AnswerText string `json:"answer_text"`
}

type DatasetItem struct {
	Value string `json:"value"`
}

// Dataset is a named pool of candidate values for one {identifier} placeholder.
type Dataset struct {
	Name  string        `json:"name"`
	Items []DatasetItem `json:"items"`
}

// Question is a bank record already resolved with its type-specific options.
type Question struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	QuestionText string `json:"question_text"` // HTML
	QType        string `json:"qtype"`         // bank wire name: truefalse, multichoice, match, ...

	Answers           []Answer      `json:"answers,omitempty"`       // multichoice, gapselect, calculatedmulti
	SubQuestions      []SubQuestion `json:"subquestions,omitempty"`  // match
	ResponseLineCount int           `json:"response_lines,omitempty"` // essay
	Datasets          []Dataset     `json:"datasets,omitempty"`      // calculated family
}

func (q Question) Kind() Kind { return ParseKind(q.QType) }

// CategorySentinel is the marker the bank stream uses between categories.
func CategorySentinel(name string) Question {
	return Question{Name: name, QType: kindNames[CategoryMarker]}
}

// Category groups questions the way the bank does; the order of Questions is
// the export order.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

type CategorySummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// Normalize trims wire fields that come from hand-written imports.
func (q *Question) Normalize() {
	q.QType = strings.ToLower(strings.TrimSpace(q.QType))
	q.ID = strings.TrimSpace(q.ID)
	if q.ResponseLineCount < 0 {
		q.ResponseLineCount = 0
	}
}
