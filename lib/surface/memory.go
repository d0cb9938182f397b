package surface

import (
	"html"
	"strings"
)

// voidTags are serialized without a closing tag.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Memory is the in-process Document implementation. It is not safe for
// concurrent use; like a browser document, all mutation is expected to
// happen on a single goroutine.
type Memory struct {
	head  *MemoryElement
	body  *MemoryElement
	title string
}

var _ Document = (*Memory)(nil)

// New returns an empty in-memory document with a head and a body.
func New() *Memory {
	return &Memory{
		head: newElement("head"),
		body: newElement("body"),
	}
}

// CreateElement returns a new detached element.
func (m *Memory) CreateElement(tag string) Element {
	return newElement(tag)
}

// Head returns the document head.
func (m *Memory) Head() Element { return m.head }

// Body returns the document body.
func (m *Memory) Body() Element { return m.body }

// ElementByKey walks head then body, depth first, returning the first
// element whose identifying attribute equals key.
func (m *Memory) ElementByKey(key string) Element {
	if key == "" {
		return nil
	}
	if el := findByKey(m.head, key); el != nil {
		return el
	}
	return findByKey(m.body, key)
}

// SetTitle sets the document title.
func (m *Memory) SetTitle(title string) { m.title = title }

// Title returns the document title.
func (m *Memory) Title() string { return m.title }

// HTML serializes the whole document.
func (m *Memory) HTML() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head>")
	if m.title != "" {
		sb.WriteString("<title>")
		sb.WriteString(html.EscapeString(m.title))
		sb.WriteString("</title>")
	}
	for _, child := range m.head.children {
		sb.WriteString(child.OuterHTML())
	}
	sb.WriteString(m.head.inner)
	sb.WriteString("</head>")
	sb.WriteString(m.body.OuterHTML())
	sb.WriteString("</html>")
	return sb.String()
}

func findByKey(el *MemoryElement, key string) Element {
	if el.Key() == key {
		return el
	}
	for _, child := range el.children {
		if found := findByKey(child, key); found != nil {
			return found
		}
	}
	return nil
}

type attribute struct {
	name  string
	value string
}

// MemoryElement is the in-memory Element implementation. Attributes keep
// insertion order so serialization is deterministic.
type MemoryElement struct {
	tag      string
	attrs    []attribute
	inner    string
	children []*MemoryElement
	parent   *MemoryElement
}

var _ Element = (*MemoryElement)(nil)

func newElement(tag string) *MemoryElement {
	return &MemoryElement{tag: strings.ToLower(tag)}
}

// Tag returns the element's tag name.
func (e *MemoryElement) Tag() string { return e.tag }

// Key returns the identifying attribute's value, if set.
func (e *MemoryElement) Key() string {
	val, _ := e.Attribute(NameAttr)
	return val
}

// Attribute returns the named attribute's value and presence.
func (e *MemoryElement) Attribute(name string) (string, bool) {
	for _, attr := range e.attrs {
		if attr.name == name {
			return attr.value, true
		}
	}
	return "", false
}

// SetAttribute sets an attribute, replacing any existing value in place.
func (e *MemoryElement) SetAttribute(name, value string) {
	for i, attr := range e.attrs {
		if attr.name == name {
			e.attrs[i].value = value
			return
		}
	}
	e.attrs = append(e.attrs, attribute{name: name, value: value})
}

// RemoveAttribute removes an attribute if present.
func (e *MemoryElement) RemoveAttribute(name string) {
	for i, attr := range e.attrs {
		if attr.name == name {
			e.attrs = append(e.attrs[:i], e.attrs[i+1:]...)
			return
		}
	}
}

// Dataset returns the data-* attributes, prefix stripped.
func (e *MemoryElement) Dataset() map[string]string {
	data := make(map[string]string)
	for _, attr := range e.attrs {
		if name, ok := strings.CutPrefix(attr.name, "data-"); ok {
			data[name] = attr.value
		}
	}
	return data
}

// HTML returns the inner HTML.
func (e *MemoryElement) HTML() string { return e.inner }

// SetHTML replaces the element's content, dropping appended children.
func (e *MemoryElement) SetHTML(html string) {
	e.inner = html
	for _, child := range e.children {
		child.parent = nil
	}
	e.children = nil
}

// AppendChild attaches child, detaching it from any previous parent.
func (e *MemoryElement) AppendChild(child Element) {
	mem, ok := child.(*MemoryElement)
	if !ok {
		return
	}
	mem.Remove()
	mem.parent = e
	e.children = append(e.children, mem)
}

// RemoveChild detaches child if it is attached to this element.
func (e *MemoryElement) RemoveChild(child Element) {
	mem, ok := child.(*MemoryElement)
	if !ok {
		return
	}
	for i, existing := range e.children {
		if existing == mem {
			e.children = append(e.children[:i], e.children[i+1:]...)
			mem.parent = nil
			return
		}
	}
}

// Remove detaches the element from its parent.
func (e *MemoryElement) Remove() {
	if e.parent != nil {
		e.parent.RemoveChild(e)
	}
}

// Children returns a snapshot of the appended children.
func (e *MemoryElement) Children() []Element {
	out := make([]Element, len(e.children))
	for i, child := range e.children {
		out[i] = child
	}
	return out
}

// OuterHTML serializes the element with its attributes, inner HTML, and
// children. Inner HTML is emitted before children, mirroring how nested
// containers are appended after a render write.
func (e *MemoryElement) OuterHTML() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(e.tag)
	for _, attr := range e.attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr.name)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(attr.value))
		sb.WriteByte('"')
	}
	if voidTags[e.tag] {
		sb.WriteString("/>")
		return sb.String()
	}
	sb.WriteByte('>')
	sb.WriteString(e.inner)
	for _, child := range e.children {
		sb.WriteString(child.OuterHTML())
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
	return sb.String()
}
