package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Unit 1: Intro/Overview", "Unit_1_Intro_Overview"},
		{"  lots   of \t space ", "lots_of_space"},
		{"already_has__underscores", "already_has_underscores"},
		{`a<b>c:d"e`, "a_b_c_d_e"},
		{"", "untitled"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SanitizeFilename(test.input))
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	long := ""
	for i := 0; i < 300; i++ {
		long += "a"
	}
	require.Len(t, SanitizeFilename(long), 200)
}

func TestShortDisplayCode(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"Design and Analysis of Algorithms", "DAA"},
		{"Operating Systems", "OS"},
		{"Introduction to the Internet of Things", "IIT"},
		{"Software Engineering", "SE"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, ShortDisplayCode(test.input))
	}
}

func TestCleanText(t *testing.T) {
	require.Equal(t, "Sem-5 2023", CleanText("  Sem-5 \n\t 2023 "))
}
