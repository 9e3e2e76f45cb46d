package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnindent(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "common indent removed",
			input: `
				a {
				  b = 1
				}
			`,
			expected: "a {\n  b = 1\n}\n",
		},
		{
			name:     "no indent",
			input:    "a = 1",
			expected: "a = 1\n",
		},
		{
			name:     "blank lines keep position",
			input:    "\n  a = 1\n\n  b = 2\n",
			expected: "a = 1\n\nb = 2\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Unindent(tc.input))
		})
	}
}
