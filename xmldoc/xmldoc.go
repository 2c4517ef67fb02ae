// Package xmldoc is a small element tree with the tab indented output
// the renderer's scene files are written in. Leaf elements are self-closing.
package xmldoc

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const Header = `<?xml version="1.0" ?>`

type Attr struct {
	Name  string
	Value string
}

type Element struct {
	Name     string
	Attrs    []Attr
	Children []*Element
}

// New creates an element from name/value attribute pairs.
func New(name string, attrs ...string) *Element {
	if len(attrs)%2 != 0 {
		panic("xmldoc: odd attribute list for <" + name + ">")
	}
	e := &Element{Name: name}
	for i := 0; i < len(attrs); i += 2 {
		e.Attrs = append(e.Attrs, Attr{Name: attrs[i], Value: attrs[i+1]})
	}
	return e
}

// Entry creates a parameter element: <typ name="name" value="value"/>.
func Entry(typ, name, value string) *Element {
	return New(typ, "name", name, "value", value)
}

func (e *Element) Add(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Find returns direct children with the tag name.
func (e *Element) Find(name string) []*Element {
	result := make([]*Element, 0)
	for _, c := range e.Children {
		if c.Name == name {
			result = append(result, c)
		}
	}
	return result
}

// Param returns the first direct child whose name attribute matches.
func (e *Element) Param(name string) *Element {
	for _, c := range e.Children {
		if v, ok := c.Attr("name"); ok && v == name {
			return c
		}
	}
	return nil
}

type writer struct {
	w    *bufio.Writer
	tabs int
}

func (wr *writer) fillTabs() {
	for i := 0; i < wr.tabs; i++ {
		wr.w.WriteByte('\t')
	}
}

func (wr *writer) escape(s string) {
	xml.EscapeText(wr.w, []byte(s))
}

func (wr *writer) element(e *Element) {
	wr.fillTabs()
	wr.w.WriteByte('<')
	wr.w.WriteString(e.Name)
	for _, a := range e.Attrs {
		wr.w.WriteByte(' ')
		wr.w.WriteString(a.Name)
		wr.w.WriteString(`="`)
		wr.escape(a.Value)
		wr.w.WriteByte('"')
	}
	if len(e.Children) == 0 {
		wr.w.WriteString("/>\n")
		return
	}
	wr.w.WriteString(">\n")
	wr.tabs++
	for _, c := range e.Children {
		wr.element(c)
	}
	wr.tabs--
	wr.fillTabs()
	wr.w.WriteString("</")
	wr.w.WriteString(e.Name)
	wr.w.WriteString(">\n")
}

// Write emits the element and its subtree, indented with tabs.
func (e *Element) Write(w io.Writer) error {
	wr := &writer{w: bufio.NewWriter(w)}
	wr.element(e)
	return wr.w.Flush()
}

func (e *Element) String() string {
	var sb strings.Builder
	e.Write(&sb)
	return strings.TrimSuffix(sb.String(), "\n")
}

// WriteDocument writes the xml header followed by the root element.
func WriteDocument(w io.Writer, root *Element) error {
	if _, err := io.WriteString(w, Header+"\n"); err != nil {
		return errors.Wrapf(err, "Failed to write header")
	}
	if err := root.Write(w); err != nil {
		return errors.Wrapf(err, "Failed to write <%s>", root.Name)
	}
	return nil
}

// Parse reads a document back into an element tree. Character data is dropped.
func Parse(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var stack []*Element
	var root *Element
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse xml")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{Name: t.Name.Local}
			for _, a := range t.Attr {
				e.Attrs = append(e.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.Errorf("Multiple root elements: <%s> and <%s>", root.Name, e.Name)
				}
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if root == nil {
		return nil, errors.New("Empty document")
	}
	return root, nil
}
