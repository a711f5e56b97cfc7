package bank

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/question"
)

// options is the per-type payload kept as JSON next to the common columns.
type options struct {
	Answers           []question.Answer      `json:"answers,omitempty"`
	SubQuestions      []question.SubQuestion `json:"subquestions,omitempty"`
	ResponseLineCount int                    `json:"response_lines,omitempty"`
	Datasets          []question.Dataset     `json:"datasets,omitempty"`
}

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// PutCategory replaces the category and all of its questions.
func (s *SQLStore) PutCategory(ctx context.Context, c question.Category) error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("category id required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id,name,created_at) VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name`,
		c.ID, c.Name, time.Now().Unix()); err != nil {
		return errors.Wrap(err, "upsert category")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE category_id=$1`, c.ID); err != nil {
		return errors.Wrap(err, "clear questions")
	}
	for i, q := range c.Questions {
		q.Normalize()
		if q.ID == "" {
			q.ID = strconv.Itoa(i + 1)
		}
		oj, err := json.Marshal(options{
			Answers:           q.Answers,
			SubQuestions:      q.SubQuestions,
			ResponseLineCount: q.ResponseLineCount,
			Datasets:          q.Datasets,
		})
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO questions
			(category_id,id,seq,name,qtype,question_text,options_json)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			c.ID, q.ID, i, q.Name, q.QType, q.QuestionText, string(oj)); err != nil {
			return errors.Wrapf(err, "insert question %s", q.ID)
		}
	}
	return tx.Commit()
}

// Questions returns the category sentinel followed by its questions in
// insertion order.
func (s *SQLStore) Questions(ctx context.Context, categoryID string) ([]question.Question, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id=$1`, categoryID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrCategoryNotFound, categoryID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id,name,qtype,question_text,options_json
		FROM questions WHERE category_id=$1 ORDER BY seq`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []question.Question{question.CategorySentinel(name)}
	for rows.Next() {
		var q question.Question
		var oj string
		if err := rows.Scan(&q.ID, &q.Name, &q.QType, &q.QuestionText, &oj); err != nil {
			return nil, err
		}
		var o options
		if err := json.Unmarshal([]byte(oj), &o); err != nil {
			return nil, errors.Wrapf(err, "question %s options", q.ID)
		}
		q.Answers, q.SubQuestions, q.ResponseLineCount, q.Datasets = o.Answers, o.SubQuestions, o.ResponseLineCount, o.Datasets
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListCategories(ctx context.Context) ([]question.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.name, COUNT(q.id)
		FROM categories c LEFT JOIN questions q ON q.category_id = c.id
		GROUP BY c.id, c.name ORDER BY c.name, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []question.CategorySummary{}
	for rows.Next() {
		var cs question.CategorySummary
		if err := rows.Scan(&cs.ID, &cs.Name, &cs.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}
