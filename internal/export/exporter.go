// Package export runs one export batch: it pulls questions from the bank,
// renders them, and hands the finished document back in one piece.
package export

import (
	"context"
	"math/rand/v2"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/render"
	"github.com/mind-engage/mindengage-qformat/internal/sink"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Request struct {
	CategoryID  string
	Format      string
	Title       string
	RequestedBy string // authenticated subject, kept on the archived record
}

// Artifact is a complete document. It is only produced when every question
// was written; Skipped lists questions that were reported in the notice.
type Artifact struct {
	ID          string
	CategoryID  string
	Format      string
	Filename    string
	ContentType string
	Body        []byte
	Numbered    int
	Skipped     []string
	CreatedBy   string
}

type Option func(*Exporter)

// WithStrict makes any unsupported question fail the batch with
// *render.UnsupportedError instead of adding a notice to the document.
func WithStrict(strict bool) Option { return func(e *Exporter) { e.strict = strict } }

func WithUnsupportedMode(m render.UnsupportedMode) Option {
	return func(e *Exporter) { e.mode = m }
}

func WithSinkOptions(o sink.Options) Option { return func(e *Exporter) { e.sinkOpts = o } }

// WithRandSource supplies the generator for each new batch.
func WithRandSource(f func() *rand.Rand) Option { return func(e *Exporter) { e.newRand = f } }

func WithArchive(a Archive) Option { return func(e *Exporter) { e.archive = a } }

type Exporter struct {
	src      bank.Source
	loc      i18n.Localizer
	strict   bool
	mode     render.UnsupportedMode
	sinkOpts sink.Options
	newRand  func() *rand.Rand
	archive  Archive
}

func New(src bank.Source, loc i18n.Localizer, opts ...Option) *Exporter {
	e := &Exporter{src: src, loc: loc, strict: true}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Export renders req.CategoryID into req.Format. Any collaborator error aborts
// the batch and nothing is returned or archived.
func (e *Exporter) Export(ctx context.Context, req Request) (Artifact, error) {
	f, ok := sink.Lookup(req.Format)
	if !ok {
		return Artifact{}, errors.Wrap(ErrUnknownFormat, req.Format)
	}
	qs, err := e.src.Questions(ctx, req.CategoryID)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "load category %q", req.CategoryID)
	}

	opts := []render.Option{render.WithUnsupportedMode(e.mode)}
	if e.newRand != nil {
		opts = append(opts, render.WithRand(e.newRand()))
	}
	batch := render.NewBatch(e.loc, opts...)

	so := e.sinkOpts
	if req.Title != "" {
		so.Title = req.Title
	}
	doc := f.New(so)

	pre, err := batch.Preamble()
	if err != nil {
		return Artifact{}, err
	}
	if err := sink.Write(doc, pre); err != nil {
		return Artifact{}, errors.Wrap(err, "write preamble")
	}

	for _, q := range qs {
		if err := ctx.Err(); err != nil {
			return Artifact{}, err
		}
		res, err := batch.Render(q)
		if err != nil {
			return Artifact{}, err
		}
		if glog.V(2) {
			glog.Infof("export %s: question %q kind=%s index=%d status=%d", req.CategoryID, q.ID, q.Kind(), res.Index, res.Status)
		}
		if err := sink.Write(doc, res.Instructions); err != nil {
			return Artifact{}, errors.Wrapf(err, "write question %s", q.ID)
		}
	}

	skipped := batch.Unsupported().Drain()
	if len(skipped) > 0 {
		if e.strict {
			glog.Warningf("export %s: %d unsupported question(s), no document delivered", req.CategoryID, len(skipped))
			return Artifact{}, &render.UnsupportedError{Names: skipped}
		}
		notice, err := batch.Notice(skipped)
		if err != nil {
			return Artifact{}, err
		}
		if err := sink.Write(doc, notice); err != nil {
			return Artifact{}, errors.Wrap(err, "write notice")
		}
	}

	body, err := doc.Finalize()
	if err != nil {
		return Artifact{}, errors.Wrap(err, "finalize document")
	}

	a := Artifact{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		Format:      f.Name,
		Filename:    f.Filename(),
		ContentType: f.ContentType,
		Body:        body,
		Numbered:    batch.Numbered(),
		Skipped:     skipped,
		CreatedBy:   req.RequestedBy,
	}
	if e.archive != nil {
		if err := e.archive.Save(ctx, a); err != nil {
			return Artifact{}, errors.Wrap(err, "archive export")
		}
	}
	glog.Infof("export %s: %s %s, %d numbered, %d skipped, %d bytes", a.ID, req.CategoryID, a.Filename, a.Numbered, len(skipped), len(body))
	return a, nil
}

// Diagnostic builds the single user-facing message for an unsupported batch.
func Diagnostic(loc i18n.Localizer, ue *render.UnsupportedError) (string, error) {
	lead, err := loc.Lookup("not_supported", i18n.ComponentFormat)
	if err != nil {
		return "", err
	}
	return render.Diagnostic(lead, ue.Names), nil
}
