package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"

	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/question"
)

// GET /categories
func ListCategoriesHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := store.ListCategories(r.Context())
		if err != nil {
			glog.Errorf("list categories: %v", err)
			http.Error(w, "list failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cs)
	}
}

// PUT /categories/{id}
// Body: {"name": "...", "questions": [...]} or a bare array of questions.
// The category's questions are replaced in the given order.
func PutCategoryHandler(store bank.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, err := bank.DecodeCategory(http.MaxBytesReader(w, r.Body, 8<<20), id)
		if err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := store.PutCategory(r.Context(), c); err != nil {
			glog.Errorf("put category %s: %v", id, err)
			http.Error(w, "store failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, question.CategorySummary{ID: c.ID, Name: c.Name, QuestionCount: len(c.Questions)})
	}
}
