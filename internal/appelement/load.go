package appelement

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/fsutil"
)

// Document is a loaded configuration file and its top-level elements.
type Document struct {
	FilePath string
	Elements []*Element
}

// LoadFile parses a single document, choosing the format by file extension.
func LoadFile(ctx context.Context, filePath string) (*Document, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", filePath, err)
	}

	var elements []*Element
	switch filepath.Ext(filePath) {
	case ".hcl":
		els, diags := ParseHCL(ctx, src, filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}
		elements = els
	case ".xml":
		elements, err = ParseXML(ctx, src, filePath)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported document format %q for %s", filepath.Ext(filePath), filePath)
	}

	return &Document{FilePath: filePath, Elements: elements}, nil
}

// LoadDocuments finds every .hcl and .xml document under path and parses them
// in file name order.
func LoadDocuments(ctx context.Context, path string) ([]*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading documents from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl", ".xml")
	if err != nil {
		return nil, fmt.Errorf("failed to find documents in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No documents found in path", "path", path)
		return nil, nil
	}

	docs := make([]*Document, 0, len(files))
	for _, file := range files {
		doc, err := LoadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	logger.Debug("Documents loaded.", "count", len(docs))
	return docs, nil
}
