package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/question"
)

// Document is the JSON interchange shape: {"categories": [...]}. A bare JSON
// array of questions is accepted as a single "default" category.
type Document struct {
	Categories []question.Category `json:"categories"`
}

func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var qs []question.Question
		if err := json.Unmarshal(raw, &qs); err != nil {
			return Document{}, errors.Wrap(err, "decode questions")
		}
		return Document{Categories: []question.Category{{ID: "default", Name: "Default", Questions: qs}}}, nil
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, errors.Wrap(err, "decode document")
	}
	return doc, nil
}

// DecodeCategory reads one category: either {"name": ..., "questions": [...]}
// or a bare array of questions. The id is taken from the caller.
func DecodeCategory(r io.Reader, id string) (question.Category, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return question.Category{}, err
	}
	raw = bytes.TrimSpace(raw)
	c := question.Category{}
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &c.Questions)
	} else {
		err = json.Unmarshal(raw, &c)
	}
	if err != nil {
		return question.Category{}, errors.Wrap(err, "decode category")
	}
	c.ID = id
	if c.Name == "" {
		c.Name = id
	}
	return c, nil
}

// FileSource serves a decoded Document from memory.
type FileSource struct {
	doc Document
}

func NewFileSource(doc Document) *FileSource {
	for ci := range doc.Categories {
		for qi := range doc.Categories[ci].Questions {
			doc.Categories[ci].Questions[qi].Normalize()
		}
	}
	return &FileSource{doc: doc}
}

func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return NewFileSource(doc), nil
}

// Questions returns one category, or every category in document order when
// categoryID is empty. Each category is preceded by its sentinel.
func (s *FileSource) Questions(_ context.Context, categoryID string) ([]question.Question, error) {
	var out []question.Question
	found := false
	for _, c := range s.doc.Categories {
		if categoryID != "" && c.ID != categoryID {
			continue
		}
		found = true
		out = append(out, question.CategorySentinel(c.Name))
		out = append(out, c.Questions...)
	}
	if !found {
		return nil, errors.Wrap(ErrCategoryNotFound, categoryID)
	}
	return out, nil
}

func (s *FileSource) ListCategories(context.Context) ([]question.CategorySummary, error) {
	out := make([]question.CategorySummary, 0, len(s.doc.Categories))
	for _, c := range s.doc.Categories {
		out = append(out, question.CategorySummary{ID: c.ID, Name: c.Name, QuestionCount: len(c.Questions)})
	}
	return out, nil
}
