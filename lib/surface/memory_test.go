package surface

import (
	"reflect"
	"strings"
	"testing"
)

func TestAttributes(t *testing.T) {
	doc := New()
	el := doc.CreateElement("DIV")

	if el.Tag() != "div" {
		t.Errorf("Tag() = %q, want div", el.Tag())
	}

	el.SetAttribute("id", "a")
	el.SetAttribute("id", "b") // replace in place
	el.SetAttribute("class", "c")

	if got, ok := el.Attribute("id"); !ok || got != "b" {
		t.Errorf("Attribute(id) = %q, %v", got, ok)
	}

	el.RemoveAttribute("id")
	if _, ok := el.Attribute("id"); ok {
		t.Error("attribute still present after removal")
	}
	el.RemoveAttribute("missing") // no-op
}

func TestDataset(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")
	el.SetAttribute(NameAttr, "card")
	el.SetAttribute("data-count", "3")
	el.SetAttribute("id", "not-data")

	want := map[string]string{"target": "card", "count": "3"}
	if got := el.Dataset(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dataset() = %v, want %v", got, want)
	}
	if el.Key() != "card" {
		t.Errorf("Key() = %q, want card", el.Key())
	}
}

func TestSetHTMLDropsChildren(t *testing.T) {
	doc := New()
	parent := doc.CreateElement("div")
	child := doc.CreateElement("span")
	parent.AppendChild(child)

	parent.SetHTML("<p>replaced</p>")

	if len(parent.Children()) != 0 {
		t.Errorf("children survived SetHTML: %d", len(parent.Children()))
	}
	if parent.HTML() != "<p>replaced</p>" {
		t.Errorf("HTML() = %q", parent.HTML())
	}
}

func TestAppendChildReparents(t *testing.T) {
	doc := New()
	a := doc.CreateElement("div")
	b := doc.CreateElement("div")
	child := doc.CreateElement("span")

	a.AppendChild(child)
	b.AppendChild(child)

	if len(a.Children()) != 0 {
		t.Error("child still attached to previous parent")
	}
	if len(b.Children()) != 1 {
		t.Error("child not attached to new parent")
	}

	child.Remove()
	if len(b.Children()) != 0 {
		t.Error("child still attached after Remove")
	}
	child.Remove() // detached; no-op
}

func TestElementByKey(t *testing.T) {
	doc := New()
	wrapper := doc.CreateElement("main")
	inner := doc.CreateElement("div")
	inner.SetAttribute(NameAttr, "index-page")
	wrapper.AppendChild(inner)
	doc.Body().AppendChild(wrapper)

	if got := doc.ElementByKey("index-page"); got != inner {
		t.Errorf("ElementByKey() = %v", got)
	}
	if got := doc.ElementByKey("absent"); got != nil {
		t.Errorf("ElementByKey(absent) = %v, want nil", got)
	}
	if got := doc.ElementByKey(""); got != nil {
		t.Errorf("ElementByKey(\"\") = %v, want nil", got)
	}
}

func TestOuterHTML(t *testing.T) {
	doc := New()
	el := doc.CreateElement("div")
	el.SetAttribute("class", "a")
	el.SetHTML("<p>x</p>")
	child := doc.CreateElement("span")
	child.SetAttribute("data-label", `say "hi"`)
	el.AppendChild(child)

	want := `<div class="a"><p>x</p><span data-label="say &#34;hi&#34;"></span></div>`
	if got := el.OuterHTML(); got != want {
		t.Errorf("OuterHTML() = %q, want %q", got, want)
	}
}

func TestVoidTagSerialization(t *testing.T) {
	doc := New()
	link := doc.CreateElement("link")
	link.SetAttribute("rel", "stylesheet")
	if got := link.OuterHTML(); got != `<link rel="stylesheet"/>` {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestDocumentHTML(t *testing.T) {
	doc := New()
	doc.SetTitle("A & B")
	style := doc.CreateElement("style")
	style.SetHTML(".a{color:red}")
	doc.Head().AppendChild(style)
	container := doc.CreateElement("div")
	container.SetHTML("<p>hello</p>")
	doc.Body().AppendChild(container)

	html := doc.HTML()
	for _, want := range []string{
		"<title>A &amp; B</title>",
		"<style>.a{color:red}</style>",
		"<body><div><p>hello</p></div></body>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("document HTML missing %q:\n%s", want, html)
		}
	}
}
