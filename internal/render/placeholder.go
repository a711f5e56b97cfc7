package render

import (
	"regexp"
	"strings"

	"github.com/mind-engage/mindengage-qformat/internal/question"
)

// Letters only: {x1} and {a_b} are not placeholders.
var placeholderRe = regexp.MustCompile(`\{[a-zA-Z]+\}`)

type PlaceholderMatch struct {
	Token      string // "{x}"
	Identifier string // "x"
	Value      string
}

// Matches holds one entry per distinct identifier in first-seen order.
type Matches []PlaceholderMatch

func findPlaceholders(text string) Matches {
	var out Matches
	seen := map[string]bool{}
	for _, tok := range placeholderRe.FindAllString(text, -1) {
		id := strings.Trim(tok, "{}")
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, PlaceholderMatch{Token: tok, Identifier: id})
	}
	return out
}

// resolve draws one value per matching dataset. When several datasets share
// a name the last one wins. Identifiers without a dataset keep "".
func (m Matches) resolve(datasets []question.Dataset, intn func(n int) int) {
	for _, ds := range datasets {
		for i := range m {
			if ds.Name != m[i].Identifier {
				continue
			}
			pool := make([]string, 0, len(ds.Items))
			for _, it := range ds.Items {
				pool = append(pool, StripTags(it.Value))
			}
			if len(pool) == 0 {
				continue
			}
			m[i].Value = pool[intn(len(pool))]
		}
	}
}

// Apply replaces every token occurrence with its resolved value. Replacement
// is literal and single pass, so a value that looks like a token is left alone.
func (m Matches) Apply(s string) string {
	if len(m) == 0 {
		return s
	}
	pairs := make([]string, 0, 2*len(m))
	for _, pm := range m {
		pairs = append(pairs, pm.Token, pm.Value)
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// Value returns the resolved value for identifier.
func (m Matches) Value(identifier string) (string, bool) {
	for _, pm := range m {
		if pm.Identifier == identifier {
			return pm.Value, true
		}
	}
	return "", false
}
