// Package templates holds markup helpers shared by page templates and the
// story HTML export.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Markup writes HTML to w, escaping text and attribute values. The first
// write error is kept and later writes are skipped.
type Markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

// NewMarkup wraps w.
func NewMarkup(ctx context.Context, w io.Writer) *Markup {
	return &Markup{ctx: ctx, w: w}
}

// Component adapts a markup function into a templ component.
func Component(fn func(m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		fn(m)
		return m.Err()
	})
}

// Context returns the render context.
func (m *Markup) Context() context.Context {
	return m.ctx
}

// Err returns the first write or render error.
func (m *Markup) Err() error {
	return m.err
}

// Raw writes trusted markup as is.
func (m *Markup) Raw(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s)
}

// Text writes escaped text.
func (m *Markup) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Textf formats and writes escaped text.
func (m *Markup) Textf(format string, args ...any) {
	m.Text(fmt.Sprintf(format, args...))
}

// Open writes a start tag. attrs are name/value pairs; a pair with an empty
// name is skipped and a value-less boolean attribute is written with "".
func (m *Markup) Open(tag string, attrs ...string) {
	m.Raw("<" + tag)
	m.attrs(attrs)
	m.Raw(">")
}

// Void writes a self-contained tag such as input or meta.
func (m *Markup) Void(tag string, attrs ...string) {
	m.Open(tag, attrs...)
}

// Close writes an end tag.
func (m *Markup) Close(tag string) {
	m.Raw("</" + tag + ">")
}

// Elem writes a start tag, escaped text and the end tag.
func (m *Markup) Elem(tag, text string, attrs ...string) {
	m.Open(tag, attrs...)
	m.Text(text)
	m.Close(tag)
}

// Render renders a nested component into the same writer.
func (m *Markup) Render(c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(m.ctx, m.w)
}

func (m *Markup) attrs(attrs []string) {
	for i := 0; i+1 < len(attrs); i += 2 {
		name := attrs[i]
		if name == "" {
			continue
		}
		m.Raw(" " + name + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
}

// If returns the name/value pair when cond holds, and an empty pair
// otherwise, for conditional attributes such as checked or selected.
func If(cond bool, name, value string) (string, string) {
	if !cond {
		return "", ""
	}
	return name, value
}
