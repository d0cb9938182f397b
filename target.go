package target

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/MarJC5/target/lib/surface"
)

// instanceCounter disambiguates instances that share a name.
var instanceCounter atomic.Uint64

// Target is the lifecycle driver embedded by every component. It owns the
// component's props, state, container, instance hash, and style manager,
// and sequences mount → render → DOM write → hooks → update cycles.
//
// Concrete components embed *Target and implement Renderer; the optional
// hook interfaces (WillMounter, DidMounter, DidUpdater, WillUnmounter) are
// discovered by capability checks on the bound implementation.
//
// Example:
//
//	type Hello struct {
//	    *target.Target
//	}
//
//	func (h *Hello) Render() string {
//	    return target.RenderTemplate(`<p>{{name}}</p>`, h.Placeholders())
//	}
//
// A Target is not safe for concurrent mutation: like a browser document,
// all lifecycle calls are expected on one goroutine. The only internal
// cross-goroutine caller is the fetch session, which enters exclusively
// through SetState.
type Target struct {
	// Props holds the values read from the container's data-* attributes
	// at initialization. Treated as read-only after construction.
	Props map[string]any

	name    string
	doc     surface.Document
	hash    string
	styleID string
	cfg     *Config
	styles  *StyleManager

	mu        sync.Mutex
	state     map[string]any
	container surface.Element
	mounted   bool
	impl      Renderer
	session   *Session
}

// NewTarget constructs a lifecycle driver bound to a container element.
//
// The instance hash is assigned here and never changes; the style identity
// derives from the container's identifying attribute at construction time.
// cfg may be nil, which behaves like DefaultConfig.
func NewTarget(name string, doc surface.Document, container surface.Element, cfg *Config) *Target {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	hash := instanceHash(name)
	styleID := ""
	if container != nil {
		styleID = container.Key()
	}
	return &Target{
		Props:     map[string]any{},
		name:      name,
		doc:       doc,
		hash:      hash,
		styleID:   styleID,
		cfg:       cfg,
		styles:    NewStyleManager(doc, hash, cfg.API.BaseURL),
		state:     map[string]any{},
		container: container,
	}
}

// Bind attaches the concrete component that embeds this driver. The driver
// dispatches Render and the optional hooks through it.
func (t *Target) Bind(impl Renderer) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.impl = impl
	return t
}

// InitState seeds the component state before the first mount without
// triggering an update.
func (t *Target) InitState(state map[string]any) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, value := range state {
		t.state[key] = value
	}
	return t
}

// UseAPI attaches a fetch session described by desc. The session is
// created eagerly, but its request is only issued after the first DOM
// write, so the loading branch is always observable at least once.
func (t *Target) UseAPI(desc APIDescriptor) *Target {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.session = NewSession(desc)
	t.state["loading"] = true
	t.state["fetched"] = false
	return t
}

// Name returns the component name.
func (t *Target) Name() string { return t.name }

// Hash returns the instance hash: 8 lowercase hex characters, assigned
// once at construction.
func (t *Target) Hash() string { return t.hash }

// StyleID returns the style identity derived from the container's
// identifying attribute.
func (t *Target) StyleID() string { return t.styleID }

// Document returns the surface the component renders into.
func (t *Target) Document() surface.Document { return t.doc }

// Styles returns the component's style manager.
func (t *Target) Styles() *StyleManager { return t.styles }

// Config returns the runtime configuration the component was built with.
func (t *Target) Config() *Config { return t.cfg }

// Session returns the component's fetch session, or nil.
func (t *Target) Session() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session
}

// Container returns the container element, or nil after Destroy.
func (t *Target) Container() surface.Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.container
}

// IsMounted reports whether the first render-and-hook cycle completed.
func (t *Target) IsMounted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mounted
}

// State returns a shallow copy of the current state snapshot.
func (t *Target) State() map[string]any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]any, len(t.state))
	for key, value := range t.state {
		out[key] = value
	}
	return out
}

// StateValue returns one state entry and whether it is present.
func (t *Target) StateValue(key string) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	value, ok := t.state[key]
	return value, ok
}

// StateBool returns a state entry as a bool, false when absent or not a
// bool. Convenient for loading / error / fetched flags.
func (t *Target) StateBool(key string) bool {
	value, _ := t.StateValue(key)
	b, _ := value.(bool)
	return b
}

// Placeholders merges props and state into one map for RenderTemplate,
// state winning on key collisions.
func (t *Target) Placeholders() map[string]any {
	out := make(map[string]any, len(t.Props))
	for key, value := range t.Props {
		out[key] = value
	}
	t.mu.Lock()
	for key, value := range t.state {
		out[key] = value
	}
	t.mu.Unlock()
	return out
}

// SetTitle sets the document title.
func (t *Target) SetTitle(title string) {
	t.doc.SetTitle(title)
}

// SetState shallow-merges patch into the state and synchronously runs one
// full update cycle. There is no batching or equality checking; every call
// produces one re-render, in call order.
//
// After Destroy, SetState is a safe no-op that leaves no DOM mutation: a
// fetch resolving against a dead component is dropped here.
func (t *Target) SetState(patch map[string]any) {
	t.mu.Lock()
	if t.container == nil {
		t.mu.Unlock()
		return
	}
	for key, value := range patch {
		t.state[key] = value
	}
	t.mu.Unlock()
	t.Update()
}

// Update runs one render cycle. On the first call it performs the mount:
// will-mount hook, full-replace DOM write, did-mount hook, then marks the
// component mounted and starts the fetch session if one is attached. Every
// call, first or not, ends with the did-update hook.
//
// With no container (destroyed or never attached) Update degrades to a
// no-op.
func (t *Target) Update() {
	t.mu.Lock()
	container, impl := t.container, t.impl
	if container == nil || impl == nil {
		t.mu.Unlock()
		return
	}
	first := !t.mounted
	t.mu.Unlock()

	if t.cfg.Logger {
		Logger().Debug("target update",
			zap.String("name", t.name),
			zap.String("hash", t.hash),
			zap.Bool("mount", first))
	}

	if first {
		if hook, ok := impl.(WillMounter); ok {
			hook.TargetWillMount()
		}
	}

	markup := impl.Render()
	if t.cfg.Dev {
		markup = fmt.Sprintf("<!-- target:%s:%s -->%s<!-- /target:%s -->",
			t.name, t.hash, markup, t.name)
	}
	container.SetHTML(markup)

	if first {
		if hook, ok := impl.(DidMounter); ok {
			hook.TargetDidMount()
		}
		t.mu.Lock()
		t.mounted = true
		session := t.session
		t.mu.Unlock()
		if session != nil {
			t.startFetch(session)
		}
	}

	if hook, ok := impl.(DidUpdater); ok {
		hook.TargetDidUpdate()
	}
}

// Unmount releases all owned styles and clears the container's content.
// The container reference itself is kept; Destroy drops it.
func (t *Target) Unmount() {
	t.mu.Lock()
	container, impl := t.container, t.impl
	t.mu.Unlock()
	if container == nil {
		return
	}

	if hook, ok := impl.(WillUnmounter); ok {
		hook.TargetWillUnmount()
	}
	t.styles.RemoveAllStyles()
	container.SetHTML("")

	if t.cfg.Logger {
		Logger().Debug("target unmounted",
			zap.String("name", t.name),
			zap.String("hash", t.hash))
	}
}

// Destroy unmounts the component, cancels any in-flight fetch, and drops
// the container reference. The instance is inert afterward: Update and
// SetState become no-ops.
func (t *Target) Destroy() {
	t.Unmount()
	t.mu.Lock()
	if t.session != nil {
		t.session.Cancel()
	}
	t.container = nil
	t.mu.Unlock()
}

// instanceHash derives the stable per-instance hash: the first 4 bytes of
// a SHA-256 over the name and an instance counter, hex encoded.
func instanceHash(name string) string {
	n := instanceCounter.Add(1)
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d", name, n))
	return hex.EncodeToString(sum[:4])
}
