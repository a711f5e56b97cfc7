package export

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-qformat/internal/bank"
	"github.com/mind-engage/mindengage-qformat/internal/db"
	"github.com/mind-engage/mindengage-qformat/internal/i18n"
	"github.com/mind-engage/mindengage-qformat/internal/question"
	"github.com/mind-engage/mindengage-qformat/internal/render"
	"github.com/mind-engage/mindengage-qformat/internal/sink"
	"github.com/mind-engage/mindengage-qformat/internal/storage"
)

type fakeSource struct {
	qs  []question.Question
	err error
}

func (f fakeSource) Questions(context.Context, string) ([]question.Question, error) {
	return f.qs, f.err
}

func fixedRand() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }

func mixedQuestions() []question.Question {
	return []question.Question{
		question.CategorySentinel("Week 1"),
		{ID: "1", QType: "truefalse", QuestionText: "<p>The earth is round.</p>"},
		{ID: "2", QType: "ddwtos", Name: "<b>Drag words</b>"},
		{ID: "3", QType: "multichoice", QuestionText: "Pick one", Answers: []question.Answer{{Text: "A"}, {Text: "B"}}},
		{ID: "4", QType: "multianswer", Name: "Cloze"},
		{ID: "5", QType: "essay", QuestionText: "Explain.", ResponseLineCount: 2},
	}
}

func TestExportTextStrictFailsWithDiagnostic(t *testing.T) {
	e := New(fakeSource{qs: mixedQuestions()}, i18n.English(), WithRandSource(fixedRand))
	_, err := e.Export(context.Background(), Request{CategoryID: "week1", Format: "txt"})

	var ue *render.UnsupportedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"Drag words"}, ue.Names)

	msg, err := Diagnostic(i18n.English(), ue)
	require.NoError(t, err)
	assert.Equal(t, "The following questions are not supported:\n- Drag words", msg)
}

func TestExportTextLenientAddsNotice(t *testing.T) {
	e := New(fakeSource{qs: mixedQuestions()}, i18n.English(), WithStrict(false))
	a, err := e.Export(context.Background(), Request{CategoryID: "week1", Format: "txt"})
	require.NoError(t, err)

	assert.Equal(t, "questions.txt", a.Filename)
	assert.Equal(t, 3, a.Numbered)
	assert.Equal(t, []string{"Drag words"}, a.Skipped)
	assert.NotEmpty(t, a.ID)

	out := string(a.Body)
	assert.True(t, strings.HasPrefix(out, "Name:"))
	assert.Contains(t, out, "1. The earth is round.")
	assert.Contains(t, out, "2. Pick one")
	assert.Contains(t, out, "3. Explain.")
	assert.NotContains(t, out, "Cloze")
	assert.True(t, strings.HasSuffix(strings.TrimRight(out, "\n"), "- Drag words"))
	assert.Less(t, strings.Index(out, "3. Explain."), strings.Index(out, "not supported"))
}

func TestExportAllSupportedHTML(t *testing.T) {
	qs := []question.Question{
		{ID: "1", QType: "match", QuestionText: "Match", SubQuestions: []question.SubQuestion{{PromptText: "Cat", AnswerText: "Meow"}}},
		{ID: "2", QType: "ddwtos", Name: "Drag"},
	}
	e := New(fakeSource{qs: qs}, i18n.English(), WithStrict(false), WithUnsupportedMode(render.UnsupportedComment))
	a, err := e.Export(context.Background(), Request{CategoryID: "c", Format: "html", Title: "Week 2"})
	require.NoError(t, err)
	doc := string(a.Body)
	assert.Equal(t, "text/html; charset=utf-8", a.ContentType)
	assert.Contains(t, doc, "<title>Week 2</title>")
	assert.Contains(t, doc, "a) Meow")
	assert.Contains(t, doc, "<!-- unsupported question type")
}

func TestExportPDF(t *testing.T) {
	e := New(fakeSource{qs: mixedQuestions()[:2]}, i18n.English())
	a, err := e.Export(context.Background(), Request{CategoryID: "c", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "questions.pdf", a.Filename)
	assert.True(t, strings.HasPrefix(string(a.Body), "%PDF-"))
}

func TestExportCollaboratorFailures(t *testing.T) {
	ctx := context.Background()

	_, err := New(fakeSource{}, i18n.English()).Export(ctx, Request{Format: "docx"})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = New(fakeSource{err: bank.ErrCategoryNotFound}, i18n.English()).Export(ctx, Request{Format: "txt"})
	assert.ErrorIs(t, err, bank.ErrCategoryNotFound)

	noTF := i18n.English()
	delete(noTF, i18n.ComponentTrueFalse)
	_, err = New(fakeSource{qs: mixedQuestions()}, noTF).Export(ctx, Request{Format: "txt"})
	assert.ErrorIs(t, err, i18n.ErrMissingString)

	sink.Register(sink.Format{Name: "broken-test", Extension: "bin", New: func(sink.Options) sink.DocumentSink { return failingSink{} }})
	_, err = New(fakeSource{qs: mixedQuestions()}, i18n.English()).Export(ctx, Request{Format: "broken-test"})
	assert.ErrorContains(t, err, "write preamble")

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = New(fakeSource{qs: mixedQuestions()}, i18n.English()).Export(cctx, Request{Format: "txt"})
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSink struct{}

func (failingSink) WriteText(string, render.Align, bool) error { return errors.New("io failure") }
func (failingSink) WriteTwoColumn(string, string) error        { return errors.New("io failure") }
func (failingSink) SetFont(render.Weight) error                { return errors.New("io failure") }
func (failingSink) WriteComment(string) error                  { return errors.New("io failure") }
func (failingSink) Finalize() ([]byte, error)                  { return nil, errors.New("io failure") }

func TestExportArchives(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbh, err := db.Open(ctx, db.DriverSQLite, "file:"+filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	defer dbh.Close()
	bs, err := storage.NewFSStore(filepath.Join(dir, "blobs"))
	require.NoError(t, err)
	arch := NewBlobArchive(dbh, bs)

	e := New(fakeSource{qs: mixedQuestions()}, i18n.English(), WithStrict(false), WithArchive(arch))
	a, err := e.Export(ctx, Request{CategoryID: "week1", Format: "txt", RequestedBy: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "alice", a.CreatedBy)

	rec, err := arch.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "week1", rec.CategoryID)
	assert.Equal(t, "exports/"+a.ID+"/questions.txt", rec.BlobKey)
	assert.Equal(t, []string{"Drag words"}, rec.Skipped)
	assert.Equal(t, "alice", rec.CreatedBy)

	rc, err := arch.Open(ctx, rec)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, a.Body, body)

	_, err = arch.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrExportNotFound)

	_, err = dbh.ExecContext(ctx, `INSERT INTO exports (id,category_id,format,blob_key,skipped_json,created_at)
		VALUES ('bad','week1','txt','exports/bad/questions.txt','not json',0)`)
	require.NoError(t, err)
	rec, err = arch.Get(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, rec.Skipped)
	assert.Equal(t, "", rec.CreatedBy)
}

func TestExportStrictDoesNotArchive(t *testing.T) {
	rec := &recordingArchive{}
	e := New(fakeSource{qs: mixedQuestions()}, i18n.English(), WithArchive(rec))
	_, err := e.Export(context.Background(), Request{Format: "txt"})
	require.Error(t, err)
	assert.Zero(t, rec.saved)
}

type recordingArchive struct{ saved int }

func (r *recordingArchive) Save(context.Context, Artifact) error { r.saved++; return nil }
