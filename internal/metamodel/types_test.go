package metamodel

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTypeExpr(t *testing.T) {
	testCases := []struct {
		name      string
		expr      string
		expectKey TypeKey
		expectErr string
	}{
		{name: "string", expr: "string", expectKey: "string"},
		{name: "number", expr: "number", expectKey: "number"},
		{name: "bool", expr: "bool", expectKey: "bool"},
		{name: "any", expr: "any", expectKey: "any"},
		{name: "object reference", expr: "TrustStore", expectKey: "TrustStore"},
		{name: "list", expr: "list(string)", expectKey: "list(string)"},
		{name: "set is a list", expr: "set(number)", expectKey: "list(number)"},
		{name: "map of objects", expr: "map(TrustStore)", expectKey: "map(TrustStore)"},
		{name: "nested", expr: "list(map(bool))", expectKey: "list(map(bool))"},
		{name: "bare constructor", expr: "list", expectErr: "Incomplete type specification"},
		{name: "too many args", expr: "map(string, number)", expectErr: "requires exactly one argument"},
		{name: "unknown constructor", expr: "tuple(string)", expectErr: "Unsupported type constructor"},
		{name: "literal", expr: `"string"`, expectErr: "Invalid type specification"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr, diags := hclsyntax.ParseExpression([]byte(tc.expr), "type.hcl", hcl.InitialPos)
			require.False(t, diags.HasErrors(), diags.Error())

			typ, diags := ParseTypeExpr(expr)
			if tc.expectErr != "" {
				require.True(t, diags.HasErrors())
				assert.Contains(t, diags.Error(), tc.expectErr)
				return
			}
			require.False(t, diags.HasErrors(), diags.Error())
			assert.Equal(t, tc.expectKey, typ.Key())
		})
	}
}

func TestTypeKey_StableAcrossInstances(t *testing.T) {
	store := &StructuralType{Name: "TrustStore"}
	a := ListOf(ObjectOf(store))
	b := ListOf(&Type{Kind: TypeObject, ObjectName: "TrustStore"})
	assert.Equal(t, a.Key(), b.Key())
	assert.NotSame(t, a, b)

	lookup := map[TypeKey]string{a.Key(): "found"}
	assert.Equal(t, "found", lookup[b.Key()])
}

func TestTypeLink(t *testing.T) {
	store := &StructuralType{Name: "TrustStore"}
	ext := &Extension{Types: []*StructuralType{store}}

	typ := MapOf(&Type{Kind: TypeObject, ObjectName: "TrustStore"})
	require.NoError(t, typ.Link(ext))
	assert.Same(t, store, typ.Element.Object)

	missing := &Type{Kind: TypeObject, ObjectName: "Nope"}
	require.Error(t, missing.Link(ext))

	require.NoError(t, String.Link(ext))
}

func TestTypePredicates(t *testing.T) {
	assert.True(t, String.IsPrimitive())
	assert.False(t, String.IsCollection())
	assert.True(t, ListOf(String).IsCollection())
	assert.True(t, MapOf(String).IsCollection())
	assert.False(t, ObjectOf(&StructuralType{Name: "T"}).IsPrimitive())

	var nilType *Type
	assert.False(t, nilType.IsPrimitive())
	assert.Equal(t, TypeKey(""), nilType.Key())
}
