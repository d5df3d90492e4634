package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer writes HTML for a component. The first write error is kept and
// later writes become no-ops.
type Writer struct {
	w   io.Writer
	err error
}

// Raw writes trusted markup.
func (w *Writer) Raw(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s)
}

// Text writes s HTML-escaped.
func (w *Writer) Text(s string) {
	w.Raw(templ.EscapeString(s))
}

// Rawf writes trusted markup built with fmt. Arguments are not escaped.
func (w *Writer) Rawf(format string, args ...any) {
	w.Raw(fmt.Sprintf(format, args...))
}

// Textf writes the formatted string HTML-escaped.
func (w *Writer) Textf(format string, args ...any) {
	w.Text(fmt.Sprintf(format, args...))
}

// Attr writes ` name="value"` with value escaped.
func (w *Writer) Attr(name, value string) {
	w.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URLAttr writes a URL attribute. Unsafe schemes are replaced by templ.
func (w *Writer) URLAttr(name, rawURL string) {
	w.Attr(name, string(templ.URL(rawURL)))
}

// Render renders a child component in place.
func (w *Writer) Render(ctx context.Context, c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(ctx, w.w)
}

// Component adapts fn to a templ.Component.
func Component(fn func(ctx context.Context, w *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &Writer{w: out}
		fn(ctx, w)
		return w.err
	})
}
