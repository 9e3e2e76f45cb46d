package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/elementmodel/internal/ctxlog"
	"github.com/specialistvlad/elementmodel/internal/metamodel"
)

// Resolve loads extensions and documents, resolves every top-level element
// and writes the resulting models to the output, one section per document.
func (a *App) Resolve(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Resolve method started.")

	if a.config.DocumentPath == "" {
		return errors.New("a document path is required to resolve")
	}
	if err := a.LoadExtensions(); err != nil {
		return err
	}
	docs, err := a.LoadDocuments()
	if err != nil {
		return err
	}

	var total, resolved int
	for _, doc := range docs {
		models, err := a.resolver.ResolveAll(ctx, doc.Elements, a.config.WorkerCount)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", doc.FilePath, err)
		}

		fmt.Fprintf(a.outW, "# %s\n", doc.FilePath)
		for i, m := range models {
			total++
			if m == nil {
				el := doc.Elements[i]
				a.logger.Warn("Element did not resolve.", "element", el.Identifier.String(), "source", el.Source.String())
				continue
			}
			resolved++
			if err := m.Render(a.outW); err != nil {
				return fmt.Errorf("failed to write model: %w", err)
			}
		}
	}

	a.logger.Info("Resolution finished.", "documents", len(docs), "elements", total, "resolved", resolved)

	if a.config.Metrics {
		if err := a.recorder.WriteText(a.outW); err != nil {
			return err
		}
	}
	a.logger.Debug("App.Resolve method finished.")
	return nil
}

// Describe loads extensions and writes the syntax descriptor of every
// construct they declare, in walk order.
func (a *App) Describe(ctx context.Context) error {
	a.logger.Debug("App.Describe method started.")
	if err := a.LoadExtensions(); err != nil {
		return err
	}

	for _, ext := range a.extensions {
		fmt.Fprintf(a.outW, "extension %s (%s)\n", ext.Name, ext.NamespaceURI)
		sx, _ := a.resolver.Syntax(ext)

		var walkErr error
		metamodel.Walk(ext, func(c metamodel.Construct) bool {
			if err := ctx.Err(); err != nil {
				walkErr = err
				return false
			}
			d, err := sx.Resolve(c)
			if err != nil {
				fmt.Fprintf(a.outW, "  %s %s: %v\n", c.Kind(), c.ConstructName(), err)
				return true
			}
			line := fmt.Sprintf("  %s %s: %s", c.Kind(), c.ConstructName(), d)
			if t, ok := c.(*metamodel.StructuralType); ok {
				if subs := ext.Subtypes(t.Name); len(subs) > 0 {
					names := make([]string, len(subs))
					for i, st := range subs {
						names[i] = st.Name
					}
					line += " subtypes(" + strings.Join(names, ", ") + ")"
				}
			}
			fmt.Fprintln(a.outW, line)
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	return nil
}
