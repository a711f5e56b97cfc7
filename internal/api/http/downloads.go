package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/golang/glog"

	"github.com/mind-engage/mindengage-qformat/internal/export"
	"github.com/mind-engage/mindengage-qformat/internal/sink"
	"github.com/mind-engage/mindengage-qformat/internal/storage"
)

type ArchiveReader interface {
	Get(ctx context.Context, id string) (export.Record, error)
	Open(ctx context.Context, rec export.Record) (io.ReadCloser, error)
}

// MountExports serves archived documents.
func MountExports(r chi.Router, ar ArchiveReader) {
	// GET /exports/{exportID} -> metadata
	r.Get("/{exportID}", func(w http.ResponseWriter, r *http.Request) {
		rec, err := ar.Get(r.Context(), chi.URLParam(r, "exportID"))
		if err != nil {
			archiveError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	// GET /exports/{exportID}/download -> the document itself
	r.Get("/{exportID}/download", func(w http.ResponseWriter, r *http.Request) {
		rec, err := ar.Get(r.Context(), chi.URLParam(r, "exportID"))
		if err != nil {
			archiveError(w, err)
			return
		}
		rc, err := ar.Open(r.Context(), rec)
		if err != nil {
			archiveError(w, err)
			return
		}
		defer rc.Close()
		body, err := io.ReadAll(rc)
		if err != nil {
			http.Error(w, "read failed", http.StatusInternalServerError)
			return
		}
		ct := "application/octet-stream"
		if f, ok := sink.Lookup(rec.Format); ok {
			ct = f.ContentType
		}
		writeDocument(w, ct, path.Base(rec.BlobKey), body)
	})
}

func archiveError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrExportNotFound) || errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "export not found", http.StatusNotFound)
		return
	}
	glog.Errorf("archive: %v", err)
	http.Error(w, "archive error", http.StatusInternalServerError)
}
