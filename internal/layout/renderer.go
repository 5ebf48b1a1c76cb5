package layout

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Source file extensions understood by FileRenderer.
const (
	ExtPDF  = ".pdf"
	ExtDump = ".json"
)

// ErrUnsupportedFormat is returned when no renderer handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Renderer converts a source file into a layout Document.
type Renderer interface {
	Render(ctx context.Context, path string) (Document, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, path string) (Document, error)

// Render calls f(ctx, path).
func (f RendererFunc) Render(ctx context.Context, path string) (Document, error) {
	return f(ctx, path)
}

// FileRenderer picks a renderer by file extension.
type FileRenderer struct {
	byExt map[string]Renderer
}

// NewFileRenderer returns a FileRenderer handling PDFs and JSON layout dumps.
func NewFileRenderer() *FileRenderer {
	return &FileRenderer{
		byExt: map[string]Renderer{
			ExtPDF:  NewPDFRenderer(),
			ExtDump: NewDumpRenderer(),
		},
	}
}

// Register installs r for the given extension (including the dot).
func (f *FileRenderer) Register(ext string, r Renderer) {
	f.byExt[strings.ToLower(ext)] = r
}

// Supports reports whether name has an extension with a registered renderer.
func (f *FileRenderer) Supports(name string) bool {
	_, ok := f.byExt[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Render renders path with the renderer registered for its extension.
func (f *FileRenderer) Render(ctx context.Context, path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	r, ok := f.byExt[ext]
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return r.Render(ctx, path)
}

// IsSourceFile reports whether name has one of the built-in source extensions.
func IsSourceFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtPDF, ExtDump:
		return true
	default:
		return false
	}
}
