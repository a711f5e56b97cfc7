package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/storage"
)

var ErrExportNotFound = errors.New("export not found")

// Archive keeps delivered documents so they can be downloaded again.
type Archive interface {
	Save(ctx context.Context, a Artifact) error
}

type Record struct {
	ID         string   `json:"id"`
	CategoryID string   `json:"category_id"`
	Format     string   `json:"format"`
	BlobKey    string   `json:"blob_key"`
	Skipped    []string `json:"skipped"`
	CreatedBy  string   `json:"created_by"`
	CreatedAt  int64    `json:"created_at"`
}

// BlobArchive writes the body to a blob store and a row to the exports table.
type BlobArchive struct {
	db *sql.DB
	bs storage.BlobStore
}

func NewBlobArchive(db *sql.DB, bs storage.BlobStore) *BlobArchive {
	return &BlobArchive{db: db, bs: bs}
}

func blobKey(a Artifact) string { return "exports/" + a.ID + "/" + a.Filename }

func (r *BlobArchive) Save(ctx context.Context, a Artifact) error {
	skipped := a.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	sj, err := json.Marshal(skipped)
	if err != nil {
		return errors.Wrap(err, "encode skipped")
	}
	key, err := r.bs.Put(ctx, blobKey(a), bytes.NewReader(a.Body))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO exports (id,category_id,format,blob_key,skipped_json,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.CategoryID, a.Format, key, string(sj), a.CreatedBy, time.Now().Unix())
	if err != nil {
		_ = r.bs.Delete(ctx, key)
		return err
	}
	return nil
}

// Get loads one record. A row whose skipped list cannot be decoded is still
// returned, with Skipped left nil.
func (r *BlobArchive) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	var sj string
	err := r.db.QueryRowContext(ctx, `SELECT id,category_id,format,blob_key,skipped_json,created_by,created_at
		FROM exports WHERE id=$1`, id).
		Scan(&rec.ID, &rec.CategoryID, &rec.Format, &rec.BlobKey, &sj, &rec.CreatedBy, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrExportNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal([]byte(sj), &rec.Skipped); err != nil {
		glog.Warningf("export %s: corrupt skipped_json %q: %v", id, sj, err)
		rec.Skipped = nil
	}
	return rec, nil
}

func (r *BlobArchive) Open(ctx context.Context, rec Record) (io.ReadCloser, error) {
	return r.bs.Get(ctx, rec.BlobKey)
}
