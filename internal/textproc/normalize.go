// Package textproc prepares extracted PDF text for retrieval: whitespace
// normalization and structure-preserving chunking.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	multiNewline = regexp.MustCompile(`\n{2,}`)
	multiSpace   = regexp.MustCompile(` {2,}`)
)

// Normalize cleans raw extracted text: runs of newlines collapse to one,
// runs of spaces collapse to one, non-printable runes are dropped (newline
// is kept), and the result is trimmed. Idempotent.
func Normalize(text string) string {
	// Drop non-printables before collapsing, otherwise their removal could
	// fuse two single spaces into a new run and break idempotence.
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}

	out := multiNewline.ReplaceAllString(b.String(), "\n")
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
