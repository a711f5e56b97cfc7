package render

import (
	"strings"

	"golang.org/x/net/html"
)

var nbspReplacer = strings.NewReplacer("&nbsp;", " ", "\u00a0", " ")

// StripTags drops all markup and unescapes entities. Strings without markup or
// entities are returned as is.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// CollapseNBSP turns non-breaking spaces, escaped or not, into plain spaces.
func CollapseNBSP(s string) string { return nbspReplacer.Replace(s) }
