package target

import (
	"strings"

	"github.com/MarJC5/target/lib/surface"
)

// NewTestDocument returns a fresh in-memory document and a container
// element carrying the given component name, already attached to the body.
// Use it to mount components headlessly in tests:
//
//	doc, el := target.NewTestDocument("hello")
//	base := target.NewTarget("hello", doc, el, nil)
func NewTestDocument(name string) (*surface.Memory, surface.Element) {
	doc := surface.New()
	el := doc.CreateElement("div")
	el.SetAttribute(surface.NameAttr, name)
	doc.Body().AppendChild(el)
	return doc, el
}

// Recorder is a test component that records every lifecycle invocation in
// order. Bind happens in NewRecorder, so it is ready to Update immediately.
//
//	doc, el := target.NewTestDocument("probe")
//	rec := target.NewRecorder(target.NewTarget("probe", doc, el, nil))
//	rec.Update()
//	// rec.Calls == ["willMount", "render", "didMount", "didUpdate"]
type Recorder struct {
	*Target

	// Calls lists hook and render invocations in the order they happened.
	Calls []string

	// RenderFunc overrides the markup returned by Render. Defaults to a
	// fixed marker fragment.
	RenderFunc func() string
}

// NewRecorder wraps a driver in a recording component and binds it.
func NewRecorder(base *Target) *Recorder {
	rec := &Recorder{Target: base}
	base.Bind(rec)
	return rec
}

// Render records the invocation and returns the component markup.
func (r *Recorder) Render() string {
	r.Calls = append(r.Calls, "render")
	if r.RenderFunc != nil {
		return r.RenderFunc()
	}
	return `<p class="probe">probe</p>`
}

// TargetWillMount records the will-mount hook.
func (r *Recorder) TargetWillMount() { r.Calls = append(r.Calls, "willMount") }

// TargetDidMount records the did-mount hook.
func (r *Recorder) TargetDidMount() { r.Calls = append(r.Calls, "didMount") }

// TargetDidUpdate records the did-update hook.
func (r *Recorder) TargetDidUpdate() { r.Calls = append(r.Calls, "didUpdate") }

// TargetWillUnmount records the will-unmount hook.
func (r *Recorder) TargetWillUnmount() { r.Calls = append(r.Calls, "willUnmount") }

// CallCount returns how many times the named invocation was recorded.
func (r *Recorder) CallCount(name string) int {
	count := 0
	for _, call := range r.Calls {
		if call == name {
			count++
		}
	}
	return count
}

// HeadContains reports whether the serialized document head contains the
// given substring. Convenient for asserting on injected styles and links.
func HeadContains(doc *surface.Memory, substr string) bool {
	for _, child := range doc.Head().Children() {
		if strings.Contains(child.OuterHTML(), substr) {
			return true
		}
	}
	return false
}
