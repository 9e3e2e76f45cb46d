// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package metamodel

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/fsutil"
)

// LoadExtensions finds and parses all HCL manifests under path. Extension
// names and namespace URIs must be unique across all manifests.
func LoadExtensions(ctx context.Context, path string) ([]*Extension, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading extensions from path", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find extension manifests in %s: %w", path, err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl extension manifests found in path", "path", path)
		return nil, nil
	}

	parser := hclparse.NewParser()
	var extensions []*Extension
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		exts, diags := ParseManifest(ctx, hclFile, file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to process extension manifest %s: %w", file, diags)
		}
		extensions = append(extensions, exts...)
	}

	if err := checkUnique(extensions); err != nil {
		return nil, err
	}

	logger.Info("Extensions loaded successfully.", "extensions_loaded", len(extensions))
	return extensions, nil
}

func checkUnique(extensions []*Extension) error {
	names := make(map[string]*Extension, len(extensions))
	namespaces := make(map[string]*Extension, len(extensions))
	for _, ext := range extensions {
		if prev, ok := names[ext.Name]; ok {
			return fmt.Errorf("extension '%s' is declared in both %s and %s", ext.Name, prev.FilePath, ext.FilePath)
		}
		names[ext.Name] = ext
		if prev, ok := namespaces[ext.NamespaceURI]; ok {
			return fmt.Errorf("extensions '%s' and '%s' share the namespace %q", prev.Name, ext.Name, ext.NamespaceURI)
		}
		namespaces[ext.NamespaceURI] = ext
	}
	return nil
}
