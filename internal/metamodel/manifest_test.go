package metamodel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const httpManifest = `
extension "HttpConnector" {
  namespace   = "urn:http"
  description = "HTTP connector"

  configuration "config" {
    parameter "address" {
      type     = string
      required = true
    }
    parameter "security" {
      type = TlsContext
      syntax {
        element_name = "tls"
        wrapped      = true
      }
    }
    parameter_group "timeouts" {
      show_inline = true
      parameter "read" {
        type    = number
        default = 30
      }
    }

    connection_provider "basic" {
      parameter "user" { type = string }
    }
    operation "request" {
      parameter "path" { type = string }
      parameter "headers" { type = map(string) }
    }
  }

  source "listener" {
    parameter "stores" { type = list(TrustStore) }
  }

  type "TlsContext" {
    abstract = true
  }
  type "TrustStore" {
    extends   = TlsContext
    top_level = true
    field "path" { type = string }
  }
}
`

func parseManifestString(t *testing.T, src string) ([]*Extension, error) {
	t.Helper()
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(src), "manifest.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	exts, diags := ParseManifest(ctxlog.Discard(context.Background()), file, "manifest.hcl")
	if diags.HasErrors() {
		return nil, diags
	}
	return exts, nil
}

func TestParseManifest(t *testing.T) {
	exts, err := parseManifestString(t, httpManifest)
	require.NoError(t, err)
	require.Len(t, exts, 1)

	ext := exts[0]
	assert.Equal(t, "HttpConnector", ext.Name)
	assert.Equal(t, "urn:http", ext.NamespaceURI)
	assert.Equal(t, "http-connector", ext.Prefix, "prefix defaults to the kebab-cased name")
	assert.Equal(t, "HTTP connector", ext.Description)

	require.Len(t, ext.Configurations, 1)
	cfg := ext.Configurations[0]
	assert.Equal(t, "config", cfg.Name)

	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, DefaultGroupName, cfg.Groups[0].Name)
	assert.False(t, cfg.Groups[0].ShowInline)
	assert.Equal(t, "timeouts", cfg.Groups[1].Name)
	assert.True(t, cfg.Groups[1].ShowInline)

	address, ok := cfg.Parameter("address")
	require.True(t, ok)
	assert.True(t, address.Required)
	assert.Equal(t, String, address.Type)

	security, ok := cfg.Parameter("security")
	require.True(t, ok)
	require.NotNil(t, security.Syntax)
	assert.Equal(t, "tls", *security.Syntax.ElementName)
	assert.True(t, *security.Syntax.Wrapped)
	assert.Nil(t, security.Syntax.AttributeName)
	require.NotNil(t, security.Type.Object, "object type must be linked")
	assert.Equal(t, "TlsContext", security.Type.Object.Name)

	read, ok := cfg.Parameter("read")
	require.True(t, ok)
	require.NotNil(t, read.Default)
	assert.True(t, read.Default.RawEquals(cty.NumberIntVal(30)))

	require.Len(t, cfg.ConnectionProviders, 1)
	assert.Equal(t, "basic", cfg.ConnectionProviders[0].Name)
	require.Len(t, cfg.Operations, 1)
	headers, ok := cfg.Operations[0].Parameter("headers")
	require.True(t, ok)
	assert.Equal(t, TypeKey("map(string)"), headers.Type.Key())

	require.Len(t, ext.Sources, 1)
	stores, ok := ext.Sources[0].Parameter("stores")
	require.True(t, ok)
	assert.Equal(t, TypeKey("list(TrustStore)"), stores.Type.Key())
	assert.Same(t, ext.Types[1], stores.Type.Element.Object)

	require.Len(t, ext.Types, 2)
	assert.True(t, ext.Types[0].Abstract)
	assert.Equal(t, "TlsContext", ext.Types[1].Extends)
	assert.True(t, ext.Types[1].TopLevel)
	assert.Equal(t, []*StructuralType{ext.Types[1]}, ext.Subtypes("TlsContext"))
}

func TestParseManifest_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		summary string
	}{
		{
			name:    "missing namespace",
			src:     `extension "x" {}`,
			summary: "Missing 'namespace' attribute",
		},
		{
			name: "missing parameter type",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    parameter "p" {}
  }
}`,
			summary: "Missing 'type' attribute",
		},
		{
			name: "unknown type reference",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    parameter "p" { type = Missing }
  }
}`,
			summary: "Unknown type reference",
		},
		{
			name: "duplicate parameter across groups",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    parameter "p" { type = string }
    parameter_group "g" {
      parameter "p" { type = string }
    }
  }
}`,
			summary: "Duplicate parameter definition",
		},
		{
			name: "duplicate operation",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {}
  operation "op" {}
}`,
			summary: "Duplicate operation definition",
		},
		{
			name: "duplicate type",
			src: `
extension "x" {
  namespace = "urn:x"
  type "T" {}
  type "T" {}
}`,
			summary: "Duplicate type definition",
		},
		{
			name: "default of wrong type",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    parameter "p" {
      type    = bool
      default = "not a bool"
    }
  }
}`,
			summary: "Invalid default value type",
		},
		{
			name: "required with default",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    parameter "p" {
      type     = string
      required = true
      default  = "x"
    }
  }
}`,
			summary: "Conflicting default value",
		},
		{
			name: "unknown base type",
			src: `
extension "x" {
  namespace = "urn:x"
  type "T" { extends = Base }
}`,
			summary: "Unknown base type",
		},
		{
			name: "duplicate syntax block",
			src: `
extension "x" {
  namespace = "urn:x"
  operation "op" {
    syntax {}
    syntax {}
  }
}`,
			summary: `Duplicate "syntax" block`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseManifestString(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.summary)
		})
	}
}

func TestParseManifest_SameNameInDifferentConfigurations(t *testing.T) {
	exts, err := parseManifestString(t, `
extension "x" {
  namespace = "urn:x"
  configuration "a" {
    operation "request" {}
  }
  configuration "b" {
    operation "request" {}
  }
}`)
	require.NoError(t, err)
	require.Len(t, exts[0].Configurations, 2)
}

func TestLoadExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "http"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "http", "manifest.hcl"), []byte(httpManifest), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "core.hcl"), []byte(`
extension "core" {
  namespace = "urn:core"
}
`), 0644))

	exts, err := LoadExtensions(ctxlog.Discard(context.Background()), dir)
	require.NoError(t, err)
	require.Len(t, exts, 2)
	assert.Equal(t, "core", exts[0].Name)
	assert.Equal(t, "HttpConnector", exts[1].Name)
}

func TestLoadExtensions_DuplicateNamespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`extension "a" { namespace = "urn:x" }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`extension "b" { namespace = "urn:x" }`), 0644))

	_, err := LoadExtensions(ctxlog.Discard(context.Background()), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "share the namespace")
}

func TestLoadExtensions_EmptyPath(t *testing.T) {
	exts, err := LoadExtensions(ctxlog.Discard(context.Background()), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, exts)
}
