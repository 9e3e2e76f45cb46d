package syntax

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// elementName turns a construct name into its element name: "TrustStore",
// "trust_store" and "trustStore" all become "trust-store".
func elementName(name string) string {
	return strcase.ToKebab(name)
}

// itemName derives the element name of a single collection item from the
// collection's name.
func itemName(collection string) string {
	name := elementName(collection)
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "ss"):
		return name + "-item"
	case strings.HasSuffix(name, "s") && len(name) > 1:
		return name[:len(name)-1]
	default:
		return name + "-item"
	}
}
