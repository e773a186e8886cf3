// Package text cleans prose extracted from article pages using
// golang.org/x/text transformers.
package text

import (
	"strings"
	"unicode"

	"github.com/fwojciec/scoop"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Ensure Normalizer implements scoop.Normalizer at compile time.
var _ scoop.Normalizer = (*Normalizer)(nil)

var (
	escapedQuotes = strings.NewReplacer(`\"`, `"`)
	ellipses      = strings.NewReplacer("...", " ")
	relativePaths = strings.NewReplacer("../", " ")
)

// Normalizer reduces paragraph text to a plain ASCII-centric form: smart
// quotes become straight double quotes, ellipses and separators become
// spaces, and anything outside the allowed character set is dropped.
//
// The zero value is ready to use and safe for concurrent use.
type Normalizer struct{}

// NewNormalizer returns a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize returns the cleaned form of s. The pipeline is repeated until
// the output no longer changes, so Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	for {
		next := normalizeOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

// normalizeOnce applies the substitution steps in order. Multi-character
// patterns are replaced before the allow-set filter runs.
func normalizeOnce(s string) string {
	s = mapRunes(s, runes.Map(straightenQuote))
	s = escapedQuotes.Replace(s)
	s = ellipses.Replace(s)
	s = relativePaths.Replace(s)
	s = mapRunes(s, transform.Chain(
		runes.Map(separatorToSpace),
		runes.Remove(runes.Predicate(disallowed)),
	))
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

func mapRunes(s string, t transform.Transformer) string {
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func straightenQuote(r rune) rune {
	switch r {
	case '\u2018', '\u2019', '\u201c', '\u201d':
		return '"'
	}
	return r
}

func separatorToSpace(r rune) rune {
	switch r {
	case '-', '|', '•':
		return ' '
	}
	return r
}

// disallowed reports whether r falls outside the kept character set:
// ASCII letters and digits, . , ? ' " ( ) % : ; /, the rupee sign and
// whitespace.
func disallowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune(`.,?'"()%:;/₹`, r):
		return false
	}
	return !isSpace(r)
}

// isSpace matches the whitespace class of browser regular expressions,
// which includes the byte order mark but not NEL.
func isSpace(r rune) bool {
	if r == '\ufeff' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}
