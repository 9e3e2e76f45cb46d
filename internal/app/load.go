package app

import (
	"fmt"

	"github.com/specialistvlad/elementmodel/internal/appelement"
	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
	"github.com/specialistvlad/elementmodel/internal/resolver"
)

// LoadExtensions reads every manifest under the modules path and prepares
// the resolver for them.
func (a *App) LoadExtensions() error {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Loading extensions...", "modules_path", a.config.ModulesPath)

	exts, err := metamodel.LoadExtensions(a.ctx, a.config.ModulesPath)
	if err != nil {
		return fmt.Errorf("failed to load extensions: %w", err)
	}
	if len(exts) == 0 {
		return fmt.Errorf("no extensions found in %s", a.config.ModulesPath)
	}

	opts := []resolver.Option{resolver.WithObserver(a.recorder)}
	if a.config.MaxDepth > 0 {
		opts = append(opts, resolver.WithMaxDepth(a.config.MaxDepth))
	}

	a.extensions = exts
	a.resolver = resolver.New(exts, opts...)
	logger.Debug("Resolver created.", "extensions", len(exts))
	return nil
}

// LoadDocuments reads every document under the document path.
func (a *App) LoadDocuments() ([]*appelement.Document, error) {
	logger := ctxlog.FromContext(a.ctx)
	logger.Debug("Loading documents...", "document_path", a.config.DocumentPath)

	docs, err := appelement.LoadDocuments(a.ctx, a.config.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents found in %s", a.config.DocumentPath)
	}

	logger.Info("Documents loaded successfully.", "documents_loaded", len(docs))
	return docs, nil
}
