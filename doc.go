// Package target is a headless UI component engine: a lifecycle driver
// that owns a component's container, props, and state, a flat placeholder
// template engine, and a per-component style manager that mediates all
// style and stylesheet insertion into the document head.
//
// # Core Concepts
//
// Components embed *Target, the lifecycle driver, and implement Renderer:
//
//	type Hello struct {
//	    *target.Target
//	}
//
//	func (h *Hello) Render() string {
//	    return target.RenderTemplate(`<p>{{name}}</p>`, h.Placeholders())
//	}
//
// The optional lifecycle hooks are small interfaces discovered by
// capability checks, not methods on a base class:
//   - WillMounter: runs before the first DOM write (style injection)
//   - DidMounter: runs after the first DOM write (side effects)
//   - DidUpdater: runs after every update cycle
//   - WillUnmounter: runs before styles are released on unmount
//
// State changes enter through SetState, which shallow-merges a patch and
// synchronously re-renders. There is no diffing and no batching; every
// SetState is one full update cycle, a deliberate simplicity trade-off.
//
// # Surface
//
// Nothing in the engine touches a real DOM. Rendering happens against the
// lib/surface capability (create element, head handle, query by key); the
// in-memory implementation makes the whole stack testable headlessly and
// serializable for serving.
//
// # Style Isolation
//
// Each component owns a StyleManager keyed by the component's instance
// hash. Injected styles can be scoped: selectors gain a -hash suffix that
// matches the class names produced by ScopeClassNames, namespacing CSS to
// the instance. Style and link injection is idempotent across re-mounts,
// with in-memory and head-query dedup layers.
//
// # Composition and Bootstrap
//
// A Registry maps component names to factories. Mounting a container reads
// its data-* attributes into typed props, strips them, drives the first
// update, and expands any nested-component descriptors found in the
// rendered markup (a serialized, one-shot instruction set; see
// lib/encoding).
//
// # Data Fetching
//
// A component may declare an APIDescriptor. The fetch session is created
// at construction, but its GET is only issued after the first DOM write,
// so the loading branch is always observable. Results and failures both
// land as state ({data, loading, fetched} or {error, ...}); a fetch
// resolving after Destroy is dropped, never a crash.
//
// # Design Rationale
//
// The engine favors explicitness over magic:
//   - Explicit registration (no init() side effects)
//   - Explicit lifecycle (interfaces, not inheritance)
//   - Explicit teardown (Destroy releases styles and the container)
//   - Errors degrade to visible state or no-ops, never panics
package target
