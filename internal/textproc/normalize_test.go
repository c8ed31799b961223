package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	in := "Hello   world\n\n\nSecond    line"
	out := Normalize(in)
	assert.Equal(t, "Hello world\nSecond line", out)
}

func TestNormalize_DropsNonPrintables(t *testing.T) {
	in := "abc\x00def\x07ghi"
	assert.Equal(t, "abcdefghi", Normalize(in))
}

func TestNormalize_KeepsNewlines(t *testing.T) {
	in := "line one\nline two"
	assert.Equal(t, "line one\nline two", Normalize(in))
}

func TestNormalize_TrimsEnds(t *testing.T) {
	assert.Equal(t, "core", Normalize("  \n core \n  "))
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\n  "))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello   world\n\n\nSecond    line",
		"a \x00 b",
		"tabs\tand\x07controls  mixed \n\n here",
		"  spaced  \n \n out  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}
