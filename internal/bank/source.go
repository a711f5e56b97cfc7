// Package bank supplies questions to the exporter from the question bank.
package bank

import (
	"context"
	"errors"

	"github.com/mind-engage/mindengage-qformat/internal/question"
)

var ErrCategoryNotFound = errors.New("category not found")

// Source yields the questions of one category in export order. Category
// sentinels may appear in the stream; the renderer skips them.
type Source interface {
	Questions(ctx context.Context, categoryID string) ([]question.Question, error)
}

// Store is a writable bank.
type Store interface {
	Source
	PutCategory(ctx context.Context, c question.Category) error
	ListCategories(ctx context.Context) ([]question.CategorySummary, error)
}
