// Package surface abstracts the document that components render into.
//
// The lifecycle and style engines are written against the Document and
// Element capabilities instead of a concrete DOM, so the whole rendering
// stack can run headlessly (tests, prerendering, demo servers). The
// in-memory implementation in this package is the one shipped; a binding to
// a real browser document only has to satisfy the same two interfaces.
package surface

// NameAttr is the identifying attribute every component container carries.
// Bootstrap discovers mountable containers by this attribute, and a
// component's style identity is derived from its value.
const NameAttr = "data-target"

// Document is the injected surface capability: create nodes, reach the
// head, and look elements up by their identifying attribute.
//
// The head is a process-wide resource shared by every style manager;
// correctness of concurrent-looking mutation relies on key-based
// idempotence, not locking, because all mutation happens on the caller's
// goroutine.
type Document interface {
	// CreateElement returns a new detached element with the given tag.
	CreateElement(tag string) Element

	// Head returns the document head, the target of all style and link
	// injection.
	Head() Element

	// Body returns the document body, the root under which component
	// containers live.
	Body() Element

	// ElementByKey returns the first element in the document whose
	// identifying attribute (NameAttr) equals key, or nil.
	ElementByKey(key string) Element

	// SetTitle sets the document title. Page components call this after
	// their data resolves.
	SetTitle(title string)

	// Title returns the current document title.
	Title() string
}

// Element is a single node on the surface.
//
// An element holds raw inner HTML (written wholesale by the lifecycle
// engine) and appended child elements (created by nested-component
// expansion). Setting the inner HTML drops any previously appended
// children, matching full-replace render semantics.
type Element interface {
	// Tag returns the element's tag name, lowercase.
	Tag() string

	// Key returns the value of the identifying attribute (NameAttr), or
	// the empty string.
	Key() string

	// Attribute returns the named attribute's value and whether it is set.
	Attribute(name string) (string, bool)

	// SetAttribute sets an attribute, replacing any existing value.
	SetAttribute(name, value string)

	// RemoveAttribute removes an attribute. Removing an absent attribute
	// is a no-op.
	RemoveAttribute(name string)

	// Dataset returns the data-* attributes with the "data-" prefix
	// stripped. The returned map is a snapshot.
	Dataset() map[string]string

	// HTML returns the element's inner HTML.
	HTML() string

	// SetHTML replaces the element's content: inner HTML and appended
	// children alike.
	SetHTML(html string)

	// AppendChild attaches a child element. The child is detached from
	// any previous parent first.
	AppendChild(child Element)

	// RemoveChild detaches the given child. Unknown children are ignored.
	RemoveChild(child Element)

	// Remove detaches the element from its parent, if any.
	Remove()

	// Children returns a snapshot of the appended child elements.
	Children() []Element

	// OuterHTML serializes the element, its inner HTML, and its children.
	OuterHTML() string
}
