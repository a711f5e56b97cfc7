// Package i18n resolves the fixed strings printed on exported documents.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	ComponentFormat    = "qformat_pdf"
	ComponentTrueFalse = "qtype_truefalse"
)

// ErrMissingString is returned when a bundle has no entry for a key.
var ErrMissingString = errors.New("i18n: missing string")

// Localizer looks up a display string by key within a component namespace.
type Localizer interface {
	Lookup(key, component string) (string, error)
}

// Bundle is a component -> key -> string table.
type Bundle map[string]map[string]string

// English is the built-in bundle used when no LOCALE_BUNDLE is configured.
func English() Bundle {
	return Bundle{
		ComponentFormat: {
			"pluginname":    "Printable question export",
			"student_name":  "Name:",
			"date":          "Date:",
			"not_supported": "The following questions are not supported:",
		},
		ComponentTrueFalse: {
			"true":  "True",
			"false": "False",
		},
	}
}

func (b Bundle) Lookup(key, component string) (string, error) {
	if strs, ok := b[component]; ok {
		if s, ok := strs[key]; ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingString, component, key)
}

// Merge overlays o on top of b and returns b.
func (b Bundle) Merge(o Bundle) Bundle {
	for comp, strs := range o {
		if b[comp] == nil {
			b[comp] = map[string]string{}
		}
		for k, v := range strs {
			b[comp][k] = v
		}
	}
	return b
}

// Decode reads a JSON bundle of the form {"component": {"key": "text"}}.
func Decode(r io.Reader) (Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return b, nil
}

// Load returns English overlaid with the bundle at path. An empty path yields
// English alone.
func Load(path string) (Bundle, error) {
	base := English()
	if path == "" {
		return base, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	over, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return base.Merge(over), nil
}
