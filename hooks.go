package target

// Renderer is the one required interface for a component: produce the HTML
// for the component's current props and state.
//
// Render must return a complete HTML string for the container (full
// replace, not incremental). Components with loading / error / success
// branches return early with a distinct fragment per branch.
//
// Example:
//
//	func (p *IndexPage) Render() string {
//	    if p.StateBool("loading") {
//	        return `<div class="loading"></div>`
//	    }
//	    return target.RenderTemplate(indexTemplate, p.Placeholders())
//	}
type Renderer interface {
	Render() string
}

// WillMounter is implemented by components that need to run before the
// first DOM write. This is where styles and stylesheet links are injected
// through the component's StyleManager.
type WillMounter interface {
	TargetWillMount()
}

// DidMounter is implemented by components that need side effects after the
// first DOM write, typically observing the asynchronous data fetch.
type DidMounter interface {
	TargetDidMount()
}

// DidUpdater is implemented by components that react to completed update
// cycles. It fires after every update, including the first mount.
type DidUpdater interface {
	TargetDidUpdate()
}

// WillUnmounter is implemented by components that need cleanup before
// their styles are released and the container is cleared.
type WillUnmounter interface {
	TargetWillUnmount()
}
