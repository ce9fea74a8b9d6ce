package parser

import (
	"fmt"
	"os"

	"ilint/internal/ir"
	"ilint/internal/source"
)

// Text reads a file as raw text for the source checkers.
type Text struct {
	exts []string
}

// NewText returns a text parser for common program source extensions.
func NewText(exts ...string) *Text {
	if len(exts) == 0 {
		exts = []string{"js", "jsx", "ts", "tsx", "java", "py", "go", "swift", "kt", "html", "txt"}
	}
	return &Text{exts: exts}
}

func (*Text) Name() string           { return "text" }
func (*Text) Description() string    { return "Reads files as plain text" }
func (t *Text) Extensions() []string { return append([]string(nil), t.exts...) }
func (*Text) Type() string           { return ir.TypeSource }
func (*Text) CanWrite() bool         { return true }

func (*Text) Parse(path string) ([]*ir.IR, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	content, layout := source.Normalize(content)

	text := string(content)
	r := ir.New(ir.TypeSource, path, text)
	r.Stats = ir.Stats{
		Lines: source.NewText(text).LineCount(),
		Bytes: len(content),
	}
	r.Origin = layout
	return []*ir.IR{r}, nil
}

// Write stores the text of r, putting back the byte order mark and CRLF line
// endings Parse removed.
func (*Text) Write(r *ir.IR) error {
	text, ok := r.Text()
	if !ok {
		return fmt.Errorf("write %s: representation is not text", r.FilePath)
	}
	data := []byte(text)
	if layout, ok := r.Origin.(source.Layout); ok {
		data = layout.Restore(data)
	}
	return writeFile(r.FilePath, data)
}
