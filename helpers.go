package target

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
)

// Component exposes a mounted component as a templ.Component, so engine
// output can be embedded in templ pages:
//
//	@target.Component(page)
//
// The component serializes its container's current markup at render time;
// a destroyed component renders nothing.
func Component(t *Target) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		container := t.Container()
		if container == nil {
			return nil
		}
		_, err := io.WriteString(w, container.OuterHTML())
		return err
	})
}

// Render writes a templ component to the HTTP response with an HTML
// content type. Useful for serving bootstrap output directly:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    target.Render(w, r, target.Component(page))
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}
