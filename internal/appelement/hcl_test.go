package appelement

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHCL(t *testing.T) {
	src := `
namespaces = {
  http = "urn:http"
  tls  = "urn:tls"
}

cfg "http" {
  address = "localhost"
  port    = 8080
  secure  = true

  tls {
    trust-store "tls" {
      path = "ts.jks"
    }
  }
}

listener "http" {}
`
	ctx := ctxlog.Discard(context.Background())
	elements, diags := ParseHCL(ctx, []byte(src), "doc.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	expected := []*Element{
		{
			Identifier: Identifier{Name: "cfg", Namespace: "urn:http"},
			Attributes: map[string]string{"address": "localhost", "port": "8080", "secure": "true"},
			InnerComponents: []*Element{
				{
					Identifier: Identifier{Name: "tls", Namespace: "urn:http"},
					Attributes: map[string]string{},
					InnerComponents: []*Element{
						{
							Identifier: Identifier{Name: "trust-store", Namespace: "urn:tls"},
							Attributes: map[string]string{"path": "ts.jks"},
						},
					},
				},
			},
		},
		{
			Identifier: Identifier{Name: "listener", Namespace: "urn:http"},
			Attributes: map[string]string{},
		},
	}

	if diff := cmp.Diff(expected, elements, cmpopts.IgnoreFields(Element{}, "Source")); diff != "" {
		t.Errorf("ParseHCL() mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, elements[0].Source)
	assert.Equal(t, "doc.hcl", elements[0].Source.FilePath)
	assert.Equal(t, 7, elements[0].Source.Line)
}

func TestParseHCL_DefaultNamespace(t *testing.T) {
	src := `
namespaces = { default = "urn:core" }
flow {
  step {}
}
`
	elements, diags := ParseHCL(ctxlog.Discard(context.Background()), []byte(src), "doc.hcl")
	require.False(t, diags.HasErrors(), diags.Error())
	require.Len(t, elements, 1)
	assert.Equal(t, "urn:core", elements[0].Identifier.Namespace)
	assert.Equal(t, "urn:core", elements[0].InnerComponents[0].Identifier.Namespace)
}

func TestParseHCL_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		summary string
	}{
		{
			name:    "undeclared prefix",
			src:     `cfg "http" {}`,
			summary: "Undeclared namespace prefix",
		},
		{
			name: "too many labels",
			src: `
namespaces = { http = "urn:http" }
cfg "http" "extra" {}
`,
			summary: "Too many labels",
		},
		{
			name:    "stray top-level attribute",
			src:     `address = "x"`,
			summary: "Unexpected top-level attribute",
		},
		{
			name:    "namespaces is not an object",
			src:     `namespaces = "urn:http"`,
			summary: "Invalid namespaces declaration",
		},
		{
			name:    "syntax error",
			src:     `cfg {`,
			summary: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, diags := ParseHCL(ctxlog.Discard(context.Background()), []byte(tc.src), "bad.hcl")
			require.True(t, diags.HasErrors())
			if tc.summary != "" {
				assert.Contains(t, diags.Error(), tc.summary)
			}
		})
	}
}
