package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnglishLookup(t *testing.T) {
	b := English()
	s, err := b.Lookup("true", ComponentTrueFalse)
	require.NoError(t, err)
	assert.Equal(t, "True", s)

	_, err = b.Lookup("nope", ComponentFormat)
	assert.ErrorIs(t, err, ErrMissingString)

	_, err = b.Lookup("true", "qtype_missing")
	assert.ErrorIs(t, err, ErrMissingString)
}

func TestLoadOverlaysEnglish(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "bg.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"qtype_truefalse":{"true":"Вярно"},"extra":{"k":"v"}}`), 0o644))

	b, err := Load(p)
	require.NoError(t, err)

	s, _ := b.Lookup("true", ComponentTrueFalse)
	assert.Equal(t, "Вярно", s)
	s, _ = b.Lookup("false", ComponentTrueFalse)
	assert.Equal(t, "False", s)
	s, _ = b.Lookup("k", "extra")
	assert.Equal(t, "v", s)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("{not json"))
	assert.Error(t, err)

	b, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, English(), b)
}
