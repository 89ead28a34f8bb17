package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeTextStripsMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "Solve for x", "Solve for x"},
		{"inline tags", "<b>Great</b> work", "Great work"},
		{"script dropped", "<script>alert(1)</script>Carries genes", "Carries genes"},
		{"entities decoded", "Tom &amp; Jerry", "Tom & Jerry"},
		{"surrounding space trimmed", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SanitizeText(tc.in))
		})
	}
}

func TestSanitizeAll(t *testing.T) {
	got := SanitizeAll([]string{"<i>one</i>", "two"})
	require.Equal(t, []string{"one", "two"}, got)

	require.Nil(t, SanitizeAll(nil))
}
