package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertResolved checks that the rendered output of a HarnessResult contains
// a model node for the given construct kind and name.
func AssertResolved(t *testing.T, result *HarnessResult, kind, name string) {
	t.Helper()

	expected := fmt.Sprintf("%s %q {", kind, name)
	require.True(t,
		strings.Contains(result.Output, expected),
		"expected %s '%s' in output:\n%s", kind, name, result.Output,
	)
}

// AssertUnresolved checks that the log output reports the element as
// unresolved.
func AssertUnresolved(t *testing.T, result *HarnessResult, element string) {
	t.Helper()

	require.Contains(t, result.LogOutput, "Element did not resolve.")
	require.Contains(t, result.LogOutput, element)
}
