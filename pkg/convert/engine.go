// Package convert runs one CoffeeScript file through the patcher framework
// and, through Pipeline, writes the JavaScript result safely to disk.
package convert

import (
	"context"
	"fmt"

	"github.com/yaklabco/decaf/internal/logging"
	"github.com/yaklabco/decaf/pkg/edit"
	"github.com/yaklabco/decaf/pkg/langdetect"
	"github.com/yaklabco/decaf/pkg/parser/coffee"
	"github.com/yaklabco/decaf/pkg/parser/literate"
	"github.com/yaklabco/decaf/pkg/patch"
	_ "github.com/yaklabco/decaf/pkg/patch/patchers" // Register built-in patchers
	"github.com/yaklabco/decaf/pkg/syntax"
)

// Parser turns CoffeeScript source into a FileSnapshot.
//
// Implementations must not retain or mutate content and must be safe for
// concurrent use; the runner shares one parser across workers.
type Parser interface {
	Parse(ctx context.Context, path string, content []byte) (*syntax.FileSnapshot, error)
}

// FileResult is the outcome of converting one file.
type FileResult struct {
	Path string

	// Kind is how the file was read: plain or literate.
	Kind langdetect.Kind

	// Source is the CoffeeScript that was parsed. For literate files it is
	// the extracted program, not the Markdown.
	Source []byte

	// Output is the JavaScript.
	Output []byte

	Snapshot *syntax.FileSnapshot

	// Edits are the committed ledger edits in commit order.
	Edits []edit.TextEdit

	// Patchers is the number of patchers in the tree.
	Patchers int
}

// EditCount returns the number of committed edits.
func (fr *FileResult) EditCount() int {
	if fr == nil {
		return 0
	}
	return len(fr.Edits)
}

// Engine converts file content. It holds no per-file state.
type Engine struct {
	Parser   Parser
	Registry *patch.Registry
	Literate *literate.Extractor
}

// NewEngine creates an Engine with the given parser and registry.
func NewEngine(parser Parser, registry *patch.Registry) *Engine {
	return &Engine{
		Parser:   parser,
		Registry: registry,
		Literate: literate.New(),
	}
}

// NewDefaultEngine uses the built-in parser and the default registry.
func NewDefaultEngine() *Engine {
	return NewEngine(coffee.New(), patch.DefaultRegistry)
}

// ConvertContent converts content, choosing plain or literate handling
// from the path's extension.
func (e *Engine) ConvertContent(ctx context.Context, path string, content []byte) (*FileResult, error) {
	kind := langdetect.ByExtension(path)
	if kind == langdetect.KindNone {
		kind = langdetect.KindCoffee
	}
	return e.Convert(ctx, path, content, kind)
}

// Convert parses, builds the patcher tree, patches it and assembles the
// output. Any failure aborts the file; no partial output is produced.
func (e *Engine) Convert(ctx context.Context, path string, content []byte, kind langdetect.Kind) (*FileResult, error) {
	logger := logging.FromContext(ctx)

	source := content
	if kind == langdetect.KindLiterate {
		extracted, err := e.Literate.Extract(ctx, content)
		if err != nil {
			return nil, newFileError(path, nil, ErrParseFailure, err)
		}
		source = extracted
	}

	snapshot, err := e.Parser.Parse(ctx, path, source)
	if err != nil {
		return nil, newFileError(path, syntax.NewFileSnapshot(path, source), ErrParseFailure, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("conversion cancelled: %w", err)
	}

	tree, err := patch.Build(snapshot, e.Registry)
	if err != nil {
		return nil, newFileError(path, snapshot, ErrPatchFailure, err)
	}
	if err := tree.Patch(); err != nil {
		return nil, newFileError(path, snapshot, ErrPatchFailure, err)
	}
	output, err := tree.Output()
	if err != nil {
		return nil, newFileError(path, snapshot, ErrPatchFailure, err)
	}

	result := &FileResult{
		Path:     path,
		Kind:     kind,
		Source:   snapshot.Content,
		Output:   output,
		Snapshot: snapshot,
		Edits:    tree.Ledger().Edits(),
		Patchers: tree.Len(),
	}

	logger.Debug("converted",
		logging.FieldPath, path,
		logging.FieldEdits, result.EditCount(),
		logging.FieldPatchers, result.Patchers,
	)
	return result, nil
}
