package swap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRows_Fallbacks(t *testing.T) {
	lines := FormatRows([]Pair{
		{Left: "블루", Right: "레드"},
		{Left: "", Right: "  "},
	}, "왼쪽팀", "오른쪽팀")

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "\t레드")
	assert.Contains(t, lines[1], "왼쪽팀")
	assert.Contains(t, lines[1], "오른쪽팀")
}

func TestFormatRows_PadsLeftColumn(t *testing.T) {
	lines := FormatRows([]Pair{
		{Left: "a", Right: "x"},
		{Left: "abcd", Right: "y"},
	}, "L", "R")

	assert.Equal(t, []string{"a   \tx", "abcd\ty"}, lines)
}

func TestFormatRows_WideRunes(t *testing.T) {
	lines := FormatRows([]Pair{
		{Left: "탑", Right: "x"},
		{Left: "abcd", Right: "y"},
	}, "L", "R")

	assert.Equal(t, "탑  \tx", lines[0])
}

func TestFormatRows_TrimsNames(t *testing.T) {
	lines := FormatRows([]Pair{{Left: "  a ", Right: " b "}}, "L", "R")

	assert.Equal(t, []string{"a\tb"}, lines)
}

func TestFormatText_JoinsLines(t *testing.T) {
	text := FormatText([]Pair{{Left: "a", Right: "b"}, {Left: "c", Right: "d"}}, "L", "R")

	assert.Equal(t, 2, len(strings.Split(text, "\n")))
}

func TestFormatRows_Empty(t *testing.T) {
	assert.Empty(t, FormatRows(nil, "L", "R"))
}
