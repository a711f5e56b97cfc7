package http

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"

	auth "github.com/mind-engage/mindengage-qformat/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/export"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/render"
)

type Exporter interface {
	Export(ctx context.Context, req export.Request) (export.Artifact, error)
}

// GET /categories/{id}/export?format=pdf|html|txt&title=...
func ExportHandler(exp Exporter, loc i18n.Localizer, defaultFormat string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		if format == "" {
			format = defaultFormat
		}
		a, err := exp.Export(r.Context(), export.Request{
			CategoryID:  chi.URLParam(r, "id"),
			Format:      format,
			Title:       r.URL.Query().Get("title"),
			RequestedBy: auth.SubjectFromContext(r.Context()),
		})
		var ue *render.UnsupportedError
		switch {
		case err == nil:
		case errors.As(err, &ue):
			msg, derr := export.Diagnostic(loc, ue)
			if derr != nil {
				msg = ue.Error()
			}
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":         "unsupported",
				"message":       msg,
				"not_supported": ue.Names,
			})
			return
		case errors.Is(err, export.ErrUnknownFormat):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, bank.ErrCategoryNotFound):
			http.Error(w, "category not found", http.StatusNotFound)
			return
		default:
			glog.Errorf("export %s: %v", chi.URLParam(r, "id"), err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-Export-ID", a.ID)
		writeDocument(w, a.ContentType, a.Filename, a.Body)
	}
}

func writeDocument(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
